// Package field adapts the BN254 scalar field — the field ACIR circuits are
// defined over — to the handful of operations the SSA evaluator needs:
// the ring operations, field division, equality, and the representative-
// integer total order used by comparison folding (§4.3).
//
// It wraps github.com/consensys/gnark-crypto's fr.Element rather than
// rolling a modular-arithmetic type by hand; gnark-crypto is the field
// library the rest of the zk-Go ecosystem in this codebase's lineage
// (go-corset) is built on.
package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Bits is the field's representation capacity, i.e. ObjectType.Bits(NativeField).
const Bits = fr.Bits

// Element is an element of the BN254 scalar field.
type Element struct {
	inner fr.Element
}

// Zero returns the additive identity.
func Zero() Element {
	var e Element
	e.inner.SetZero()
	return e
}

// One returns the multiplicative identity.
func One() Element {
	var e Element
	e.inner.SetOne()
	return e
}

// FromUint64 embeds a u64 into the field.
func FromUint64(v uint64) Element {
	var e Element
	e.inner.SetUint64(v)
	return e
}

// FromBigInt reduces an arbitrary-precision natural modulo the field order.
func FromBigInt(v *big.Int) Element {
	var e Element
	e.inner.SetBigInt(v)
	return e
}

// FromBytesReduce interprets data as a big-endian natural and reduces it
// modulo the field order, matching FieldElement::from_be_bytes_reduce.
func FromBytesReduce(data []byte) Element {
	var asBig big.Int
	asBig.SetBytes(data)
	return FromBigInt(&asBig)
}

// Bytes returns the canonical big-endian encoding.
func (e Element) Bytes() []byte {
	b := e.inner.Bytes()
	return b[:]
}

// BigInt returns the canonical representative as an arbitrary-precision
// natural in [0, field order).
func (e Element) BigInt() *big.Int {
	var out big.Int
	e.inner.BigInt(&out)
	return &out
}

// TryIntoU128 returns the representative as a u128-range value (modeled as
// *big.Int since Go has no native 128-bit integer) if it fits, else false.
func (e Element) TryIntoU128() (*big.Int, bool) {
	v := e.BigInt()
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	if v.Cmp(limit) >= 0 {
		return nil, false
	}
	return v, true
}

// Add returns a + b.
func Add(a, b Element) Element {
	var out Element
	out.inner.Add(&a.inner, &b.inner)
	return out
}

// Sub returns a - b.
func Sub(a, b Element) Element {
	var out Element
	out.inner.Sub(&a.inner, &b.inner)
	return out
}

// Mul returns a * b.
func Mul(a, b Element) Element {
	var out Element
	out.inner.Mul(&a.inner, &b.inner)
	return out
}

// Div returns a / b (field division, i.e. a * b^-1). Panics if b is zero;
// callers (eval.go) must check IsZero first, matching the source's explicit
// division-by-zero error path rather than relying on this panic.
func Div(a, b Element) Element {
	var out Element
	out.inner.Div(&a.inner, &b.inner)
	return out
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool { return e.inner.IsZero() }

// IsOne reports whether e is the multiplicative identity.
func (e Element) IsOne() bool { return e.inner.IsOne() }

// Equal reports field equality.
func Equal(a, b Element) bool { return a.inner.Equal(&b.inner) }

// Cmp gives the total order induced by each element's canonical
// representative integer (-1, 0, 1).
func Cmp(a, b Element) int { return a.inner.Cmp(&b.inner) }

// String renders the canonical representative in decimal.
func (e Element) String() string { return e.inner.String() }
