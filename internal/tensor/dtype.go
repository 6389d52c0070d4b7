// Package tensor provides the backend contracts, device registry and the
// generic tensor wrapper for tensorkit.
package tensor

import "reflect"

// Element is the constraint for numeric tensor elements.
// Every numeric element supports the arithmetic identities 0 and 1.
type Element interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

// Float is the constraint for elements with real-number semantics
// (fractional powers, error function, GELU).
type Float interface {
	~float32 | ~float64
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Unknown DataType = iota
	Float32
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Size returns the size in bytes of a single element.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		return 0
	}
}

// DataTypeOf infers the DataType of E from its underlying type, so named
// types such as `type Celsius float32` map to their base type.
func DataTypeOf[E Element | ~bool]() DataType {
	switch reflect.TypeFor[E]().Kind() {
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Uint8:
		return Uint8
	case reflect.Bool:
		return Bool
	}
	return Unknown
}
