package vm

import (
	"math"
	"strconv"

	"github.com/josharian/intern"
)

// Value is a tagged sum: VNil | VBool | VNum | VStr. Equality is by
// variant then payload (VEq); every concrete type satisfies fmt.Stringer
// for pretty-printing.
type Value interface {
	isValue()
	String() string
}

type VNil struct{}

func (VNil) isValue()       {}
func (VNil) String() string { return "nil" }

type VBool bool

func (VBool) isValue()         {}
func (v VBool) String() string { return strconv.FormatBool(bool(v)) }

type VNum float64

func (VNum) isValue() {}

func (v VNum) String() string {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// VStr is a heap string. Contents are canonicalized through
// github.com/josharian/intern so that two constants with identical text
// share one backing string, the way clox interns every ObjString.
type VStr string

func NewVStr(s string) VStr { return VStr(intern.String(s)) }

func (VStr) isValue()         {}
func (v VStr) String() string { return string(v) }

// VTruthy implements the falsey rule: nil and false are falsey, every
// other value — including 0, "", and any string — is truthy.
func VTruthy(v Value) VBool {
	switch v := v.(type) {
	case VBool:
		return v
	case VNil:
		return false
	default:
		return true
	}
}

// VEq is value equality: same variant and equal payload. Values of
// different variants are never equal, even where they might look
// numerically comparable (1 == true is false, not an error).
func VEq(a, b Value) VBool {
	switch a := a.(type) {
	case VBool:
		if b, ok := b.(VBool); ok {
			return VBool(a == b)
		}
	case VNum:
		if b, ok := b.(VNum); ok {
			return VBool(a == b)
		}
	case VStr:
		if b, ok := b.(VStr); ok {
			return VBool(a == b)
		}
	case VNil:
		_, ok := b.(VNil)
		return VBool(ok)
	}
	return false
}
