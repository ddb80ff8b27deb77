package ast

// Name is an identifier appearing in a contract: a function name, operator
// name, keyword, or bound variable name.
type Name string

// ContractName identifies a contract within the analysis database.
type ContractName string

// MaxNameLength is the longest identifier the analyzer accepts.
const MaxNameLength = 128

// operatorNames are the native operator symbols that are valid names even
// though they do not begin with a letter.
var operatorNames = map[string]struct{}{
	"+":  {},
	"-":  {},
	"*":  {},
	"/":  {},
	"<":  {},
	"<=": {},
	">":  {},
	">=": {},
}

// IsValidName returns whether the given string is a valid identifier: an
// operator symbol, or a letter followed by letters, digits, and the
// punctuation characters `-_!?+<>=/*`.
func IsValidName(name string) bool {
	if _, ok := operatorNames[name]; ok {
		return true
	}

	if len(name) == 0 || len(name) > MaxNameLength {
		return false
	}

	for i, c := range name {
		if i == 0 {
			if !IsNameStart(c) {
				return false
			}
		} else if !IsNameChar(c) {
			return false
		}
	}

	return true
}

// IsValidContractName returns whether the given string is a valid contract
// name: a letter followed by letters, digits, `-`, and `_`.
func IsValidContractName(name string) bool {
	if len(name) == 0 || len(name) > MaxNameLength {
		return false
	}

	for i, c := range name {
		if i == 0 {
			if !IsNameStart(c) {
				return false
			}
		} else if !isContractNameChar(c) {
			return false
		}
	}

	return true
}

// IsNameStart returns whether the rune can begin an identifier.
func IsNameStart(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// IsNameChar returns whether the rune can continue an identifier.
func IsNameChar(c rune) bool {
	switch c {
	case '-', '_', '!', '?', '+', '<', '>', '=', '/', '*':
		return true
	}

	return IsNameStart(c) || '0' <= c && c <= '9'
}

// isContractNameChar returns whether the rune can continue a contract name.
func isContractNameChar(c rune) bool {
	return IsNameStart(c) || '0' <= c && c <= '9' || c == '-' || c == '_'
}
