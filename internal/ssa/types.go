package ssa

import (
	"fmt"
	"math/big"

	"acircore/internal/ssa/field"
)

// ShortIntMaxBits bounds Signed/Unsigned widths accepted by FromFrontendType.
// Wider integers are rejected at lowering (§6). The source's equivalent
// constant, short_integer_max_bit_size(), is implementation-defined; this
// mirrors Noir's own choice.
const ShortIntMaxBits = 127

// ObjectType is the closed type lattice the SSA core computes over (§3).
// A type switch over the concrete Kind is the only sanctioned way to
// dispatch on it — see Kind's doc comment.
type ObjectType struct {
	kind     objectKind
	width    uint32  // valid for KindSigned/KindUnsigned
	arrayID  ArrayId // valid for KindPointer
	hasArray bool
}

type objectKind uint8

const (
	KindNativeField objectKind = iota
	KindBoolean
	KindUnsigned
	KindSigned
	KindPointer
	KindNotAnObject
)

func NativeField() ObjectType { return ObjectType{kind: KindNativeField} }
func Boolean() ObjectType     { return ObjectType{kind: KindBoolean} }
func NotAnObject() ObjectType { return ObjectType{kind: KindNotAnObject} }

func Unsigned(bits uint32) ObjectType { return ObjectType{kind: KindUnsigned, width: bits} }
func Signed(bits uint32) ObjectType   { return ObjectType{kind: KindSigned, width: bits} }
func Pointer(arr ArrayId) ObjectType  { return ObjectType{kind: KindPointer, arrayID: arr, hasArray: true} }

// Kind reports which lattice member t is. Exhaustive switches over Kind (not
// type assertions on an interface) drive Bits, MaxSize, FieldToType and every
// other closed-set dispatch in this package — ObjectType is a tagged
// variant, not an interface with per-kind methods, per the "tagged variants
// over inheritance" design note.
func (t ObjectType) Kind() objectKind { return t.kind }

// Width returns the bit width for Signed/Unsigned, 0 otherwise.
func (t ObjectType) Width() uint32 { return t.width }

// ArrayID returns the pointed-to array id and true, for KindPointer.
func (t ObjectType) ArrayID() (ArrayId, bool) { return t.arrayID, t.hasArray }

func (t ObjectType) Equal(other ObjectType) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindUnsigned, KindSigned:
		return t.width == other.width
	case KindPointer:
		return t.arrayID == other.arrayID
	default:
		return true
	}
}

// Bits returns bits(t): 1 for Boolean, the field's capacity for NativeField,
// 0 for NotAnObject/Pointer, else the declared integer width.
func (t ObjectType) Bits() uint32 {
	switch t.kind {
	case KindBoolean:
		return 1
	case KindNativeField:
		return uint32(field.Bits)
	case KindNotAnObject, KindPointer:
		return 0
	case KindSigned, KindUnsigned:
		return t.width
	default:
		return 0
	}
}

// MaxSize returns 2^bits(t) - 1 for fixed-width types, and the field order
// minus one for NativeField.
func (t ObjectType) MaxSize() *big.Int {
	if t.kind == KindNativeField {
		order := field.Sub(field.Zero(), field.One()).BigInt() // -1 mod p == p-1
		return order
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits()))
	return max.Sub(max, big.NewInt(1))
}

// FieldToType reduces a field element into the numeric domain of t.
//
// For fixed-width non-field types it computes f mod 2^bits(t), re-embedded
// in the field. For NativeField it is the identity. Signed is left
// unimplemented — matching the source's own `todo!()` — folding call sites
// must avoid invoking it on Signed until two's-complement semantics are
// decided (§9 open question).
func (t ObjectType) FieldToType(f field.Element) field.Element {
	switch t.kind {
	case KindNativeField:
		return f
	case KindSigned:
		panic("FieldToType is unimplemented for Signed (see DESIGN.md)")
	case KindPointer, KindNotAnObject:
		panic("FieldToType called on a non-numeric ObjectType")
	default:
		v, ok := f.TryIntoU128()
		if !ok {
			panic("FieldToType: value does not fit in 128 bits")
		}
		modulus := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits()))
		v.Mod(v, modulus)
		return field.FromBigInt(v)
	}
}

// NumericKind is the subset of ObjectType that supports arithmetic: Signed,
// Unsigned or NativeField. Only defined where t is numeric.
type NumericKind struct {
	Field    bool
	Signed   bool
	Unsigned bool
	Width    uint32
}

// NumericKindOf projects t onto its NumericKind; ok is false for Boolean,
// Pointer and NotAnObject.
func NumericKindOf(t ObjectType) (NumericKind, bool) {
	switch t.kind {
	case KindSigned:
		return NumericKind{Signed: true, Width: t.width}, true
	case KindUnsigned:
		return NumericKind{Unsigned: true, Width: t.width}, true
	case KindNativeField:
		return NumericKind{Field: true}, true
	default:
		return NumericKind{}, false
	}
}

func (t ObjectType) String() string {
	switch t.kind {
	case KindNativeField:
		return "Field"
	case KindBoolean:
		return "bool"
	case KindUnsigned:
		return fmt.Sprintf("u%d", t.width)
	case KindSigned:
		return fmt.Sprintf("i%d", t.width)
	case KindPointer:
		return "Pointer"
	case KindNotAnObject:
		return "()"
	default:
		return "?"
	}
}

// FrontendType is the tiny surface-syntax type vocabulary internal/frontend
// produces; ObjectType.FromFrontendType (§4.2's `From(frontend_type)`) maps
// it onto the IR lattice.
type FrontendType struct {
	// Kind selects among Bool, Field, Integer, Array, Unit.
	Kind FrontendTypeKind
	// Signed/Bits are meaningful only when Kind == FrontendInteger.
	Signed bool
	Bits   uint32
	// Elem is meaningful only when Kind == FrontendArray.
	Elem *FrontendType
}

type FrontendTypeKind uint8

const (
	FrontendBool FrontendTypeKind = iota
	FrontendField
	FrontendInteger
	FrontendArray
	FrontendUnit
)

// FromFrontendType implements `From(frontend_type)` (§4.2):
//
//	Bool      -> Boolean
//	Field     -> NativeField
//	Integer   -> Signed|Unsigned(w), rejecting w >= ShortIntMaxBits
//	Array(_,t)-> From(t)   -- the element type, NOT a Pointer; see §9.
//	Unit      -> NotAnObject
//
// Any other frontend type is a programmer error in the caller, not a user
// error, and panics (mirroring the source's `unimplemented!`).
func FromFrontendType(t FrontendType) (ObjectType, error) {
	switch t.Kind {
	case FrontendBool:
		return Boolean(), nil
	case FrontendField:
		return NativeField(), nil
	case FrontendInteger:
		if t.Bits >= ShortIntMaxBits {
			return ObjectType{}, &RuntimeError{
				Kind: ErrUnstructured,
				err:  "long integers are not yet supported",
			}
		}
		if t.Signed {
			return Signed(t.Bits), nil
		}
		return Unsigned(t.Bits), nil
	case FrontendArray:
		if t.Elem == nil {
			panic("FrontendArray with nil Elem")
		}
		// Deliberately preserved behavior (§9 open question): an array
		// expression's ObjectType is its element type, losing length.
		// No Pointer(ArrayId) is attached here.
		return FromFrontendType(*t.Elem)
	case FrontendUnit:
		return NotAnObject(), nil
	default:
		panic(fmt.Sprintf("conversion to ObjectType is unimplemented for frontend type %v", t))
	}
}
