package lang

import "clarity/ast"

// NativeFunc enumerates the built-in operations of the language.  Natives are
// not redefinable: a name in this catalog always resolves to the native, never
// to a contract-defined function.
type NativeFunc int

// Enumeration of native functions.
const (
	Add NativeFunc = iota
	Subtract
	Multiply
	Divide
	CmpGeq
	CmpLeq
	CmpLess
	CmpGreater
	ToInt
	ToUInt
	Modulo
	Power
	BitwiseXOR
	And
	Or
	Not
	Equals
	If
	Let
	Map
	Fold
	Filter
	ListCons
	FetchEntry
	FetchContractEntry
	SetEntry
	InsertEntry
	DeleteEntry
	TupleCons
	TupleGet
	Begin
	Hash160
	Sha256
	Sha512
	Sha512Trunc256
	Keccak256
	Print
	ContractCall
	AsContract
	GetBlockInfo
	ConsOkay
	ConsError
	ConsSome
	DefaultTo
	Expects
	ExpectsErr
	IsOkay
	IsNone
	FetchVar
	SetVar
	MintAsset
	MintToken
	TransferAsset
	TransferToken
	GetTokenBalance
	GetAssetOwner
)

// nativeNames maps the surface name of every native function to its kind.
var nativeNames = map[ast.Name]NativeFunc{
	"+":                  Add,
	"-":                  Subtract,
	"*":                  Multiply,
	"/":                  Divide,
	">=":                 CmpGeq,
	"<=":                 CmpLeq,
	"<":                  CmpLess,
	">":                  CmpGreater,
	"to-int":             ToInt,
	"to-uint":            ToUInt,
	"mod":                Modulo,
	"pow":                Power,
	"xor":                BitwiseXOR,
	"and":                And,
	"or":                 Or,
	"not":                Not,
	"is-eq":              Equals,
	"if":                 If,
	"let":                Let,
	"map":                Map,
	"fold":               Fold,
	"filter":             Filter,
	"list":               ListCons,
	"map-get?":           FetchEntry,
	"contract-map-get?":  FetchContractEntry,
	"map-set":            SetEntry,
	"map-insert":         InsertEntry,
	"map-delete":         DeleteEntry,
	"tuple":              TupleCons,
	"get":                TupleGet,
	"begin":              Begin,
	"hash160":            Hash160,
	"sha256":             Sha256,
	"sha512":             Sha512,
	"sha512/256":         Sha512Trunc256,
	"keccak256":          Keccak256,
	"print":              Print,
	"contract-call?":     ContractCall,
	"as-contract":        AsContract,
	"get-block-info?":    GetBlockInfo,
	"ok":                 ConsOkay,
	"err":                ConsError,
	"some":               ConsSome,
	"default-to":         DefaultTo,
	"unwrap!":            Expects,
	"unwrap-err!":        ExpectsErr,
	"is-ok":              IsOkay,
	"is-none":            IsNone,
	"var-get":            FetchVar,
	"var-set":            SetVar,
	"nft-mint?":          MintAsset,
	"ft-mint?":           MintToken,
	"nft-transfer?":      TransferAsset,
	"ft-transfer?":       TransferToken,
	"ft-get-balance":     GetTokenBalance,
	"nft-get-owner?":     GetAssetOwner,
}

// LookupNative resolves a name against the native function catalog.
func LookupNative(name ast.Name) (NativeFunc, bool) {
	fn, ok := nativeNames[name]
	return fn, ok
}
