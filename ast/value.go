package ast

import "strconv"

// The abstract interface for literal values carried by value expressions.
// Evaluating a value can never touch contract state: the analyzer treats
// every value as read-only and only inspects contract principals further (as
// cross-contract call targets).
type Value interface {
	// The canonical source form of the value.
	String() string

	// isValue seals the interface to the value kinds in this file.
	isValue()
}

// IntValue is a signed integer literal.
type IntValue int64

func (v IntValue) String() string {
	return strconv.FormatInt(int64(v), 10)
}

func (IntValue) isValue() {}

// UIntValue is an unsigned integer literal, written with a `u` prefix.
type UIntValue uint64

func (v UIntValue) String() string {
	return "u" + strconv.FormatUint(uint64(v), 10)
}

func (UIntValue) isValue() {}

// BoolValue is a boolean literal.
type BoolValue bool

func (v BoolValue) String() string {
	if v {
		return "true"
	}

	return "false"
}

func (BoolValue) isValue() {}

// StringValue is a string literal.  The value stores the string contents with
// escape sequences already processed.
type StringValue string

func (v StringValue) String() string {
	return strconv.Quote(string(v))
}

func (StringValue) isValue() {}

// ContractPrincipal is a literal reference to a sibling contract, written
// `.name`.
type ContractPrincipal struct {
	// The name of the referenced contract.
	Contract ContractName
}

func (v ContractPrincipal) String() string {
	return "." + string(v.Contract)
}

func (ContractPrincipal) isValue() {}
