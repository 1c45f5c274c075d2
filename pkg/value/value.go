// Package value defines the tagged runtime value union the VM operates
// on: Nil, Bool, Number, and heap-resident String objects. Callable heap
// objects (Function, Closure, NativeFunction) live in pkg/object, which
// imports both this package and pkg/chunk — see that package's doc
// comment for why they aren't defined here.
package value

import "strconv"

// Value is implemented by every runtime value: Nil, Bool, Number, and any
// heap object (String here; Function/Closure/NativeFunction in
// pkg/object). Equality and display formatting are defined per spec:
// Nil equals only Nil; Bool, Number, and String compare by content;
// other objects compare by identity.
type Value interface {
	// Display renders the value's print form: Numbers without a trailing
	// ".0", Strings without surrounding quotes, Nil as "nil".
	Display() string

	// TypeName is a short, lowercase name for the value's type.
	TypeName() string
}

// NilType is the singleton type of the Nil value.
type NilType struct{}

// Nil is the single Nil value.
var Nil = NilType{}

func (NilType) Display() string  { return "nil" }
func (NilType) TypeName() string { return "nil" }

// Bool is a boolean value.
type Bool bool

func (b Bool) Display() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) TypeName() string { return "boolean" }

// Number is a 64-bit floating point value. Per the Open Question in
// spec.md §9, this implementation trims a trailing ".0" consistently in
// both Display (used by Print) and the disassembler's constant dump.
type Number float64

func (n Number) Display() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}
func (Number) TypeName() string { return "number" }

// fnvOffsetBasis and fnvPrime are the 32-bit FNV-1a constants spec.md §3
// specifies for String hashing.
const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// HashString computes the 32-bit FNV-1a hash of s: XOR each byte into the
// running hash, then multiply by the prime, starting from the offset
// basis.
func HashString(s string) uint32 {
	h := fnvOffsetBasis
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

// String is a heap-resident string object: its character payload plus a
// precomputed hash, used both for interning and for fast equality/map
// keying.
type String struct {
	Chars string
	Hash  uint32
}

// NewString builds a String object, computing its hash eagerly.
func NewString(s string) *String {
	return &String{Chars: s, Hash: HashString(s)}
}

func (s *String) Display() string { return s.Chars }
func (*String) TypeName() string  { return "string" }

// Equal implements structural equality: Nil == Nil; booleans, numbers,
// and strings compare by content; any other Value (a callable heap
// object) compares by identity.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NilType:
		_, ok := b.(NilType)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case *String:
		bv, ok := b.(*String)
		return ok && av.Hash == bv.Hash && av.Chars == bv.Chars
	default:
		return a == b
	}
}

// IsFalsey reports whether v is "falsey": Nil or Bool(false). Everything
// else, including 0 and the empty string, is truthy.
func IsFalsey(v Value) bool {
	switch vv := v.(type) {
	case NilType:
		return true
	case Bool:
		return !bool(vv)
	default:
		return false
	}
}
