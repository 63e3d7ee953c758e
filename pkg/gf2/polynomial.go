// Package gf2 implements polynomials and dense matrices over GF(2).
//
// A Polynomial is a bit vector of declared length whose bit i is the
// coefficient of x^i. Bits are packed into little-endian uint64 words:
// word 0 holds x^0..x^63. Bits at positions >= length are always zero.
package gf2

import (
	"encoding/hex"
	"math/big"
	"math/bits"
)

// WordBits is the width of one storage word.
const WordBits = 64

func wordsFor(length int) int {
	return (length + WordBits - 1) / WordBits
}

// Polynomial is a polynomial over GF(2) with a declared bit length.
//
// Arithmetic methods return fresh values and never share storage with
// their operands. SetBit, SetBits and XorAssign mutate the receiver; a
// Polynomial copied by assignment shares storage, so Clone it first.
type Polynomial struct {
	length int
	words  []uint64
}

// NewPolynomial returns the zero polynomial of the given bit length.
// Lengths below 1 are clamped to 1.
func NewPolynomial(length int) Polynomial {
	if length < 1 {
		length = 1
	}
	return Polynomial{
		length: length,
		words:  make([]uint64, wordsFor(length)),
	}
}

// FromWords builds a polynomial of the given length from little-endian
// words. Extra words are dropped, missing words are zero and bits past
// length are cleared.
func FromWords(length int, words []uint64) Polynomial {
	p := NewPolynomial(length)
	copy(p.words, words)
	p.clearUnused()
	return p
}

// FromBigInt reinterprets the big-endian bytes of n as a polynomial of
// the given length. Bits that do not fit are dropped without error,
// which projects a value into a fixed field width. The sign of n is
// ignored.
func FromBigInt(length int, n *big.Int) Polynomial {
	p := NewPolynomial(length)
	if n == nil {
		return p
	}

	b := n.Bytes()
	for k := 0; k < len(b); k++ {
		w := k / 8
		if w >= len(p.words) {
			break
		}
		p.words[w] |= uint64(b[len(b)-1-k]) << (8 * uint(k%8))
	}

	p.clearUnused()
	return p
}

// FromExponents builds the polynomial with a 1 coefficient at every given
// exponent, e.g. FromExponents(4, 1, 0) is x^4 + x + 1. Its length is the
// largest exponent plus one.
func FromExponents(exps ...int) (Polynomial, error) {
	top := 0
	for _, e := range exps {
		if e < 0 {
			return Polynomial{}, newError(KindOutOfRange, "FromExponents", "negative exponent %d", e)
		}
		if e > top {
			top = e
		}
	}

	p := NewPolynomial(top + 1)
	for _, e := range exps {
		p.words[e/WordBits] |= 1 << uint(e%WordBits)
	}
	return p, nil
}

// Len returns the declared bit length.
func (p Polynomial) Len() int {
	return p.length
}

// Words returns a copy of the underlying words.
func (p Polynomial) Words() []uint64 {
	out := make([]uint64, len(p.words))
	copy(out, p.words)
	return out
}

// Clone returns a copy with its own storage.
func (p Polynomial) Clone() Polynomial {
	return Polynomial{
		length: p.length,
		words:  p.Words(),
	}
}

// IsZero reports whether every coefficient is zero.
func (p Polynomial) IsZero() bool {
	for i := len(p.words) - 1; i >= 0; i-- {
		if p.words[i] != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether p and q have the same coefficients. Declared
// lengths are not compared.
func (p Polynomial) Equal(q Polynomial) bool {
	n := len(p.words)
	if len(q.words) > n {
		n = len(q.words)
	}
	for i := 0; i < n; i++ {
		if wordAt(p.words, i) != wordAt(q.words, i) {
			return false
		}
	}
	return true
}

// Degree returns the exponent of the highest nonzero term, or -1 for the
// zero polynomial.
func (p Polynomial) Degree() int {
	for i := len(p.words) - 1; i >= 0; i-- {
		if w := p.words[i]; w != 0 {
			return i*WordBits + WordBits - 1 - bits.LeadingZeros64(w)
		}
	}
	return -1
}

// Bit returns the coefficient of x^i. Indices outside the polynomial
// read as zero.
func (p Polynomial) Bit(i int) uint {
	if i < 0 || i >= p.length {
		return 0
	}
	return uint(p.words[i/WordBits]>>uint(i%WordBits)) & 1
}

// SetBit sets the coefficient of x^i to one.
func (p *Polynomial) SetBit(i int) error {
	if i < 0 || i >= p.length {
		return newError(KindOutOfRange, "SetBit", "index %d, length %d", i, p.length)
	}
	p.words[i/WordBits] |= 1 << uint(i%WordBits)
	return nil
}

// SetBits sets every listed coefficient, stopping at the first index that
// is out of range.
func (p *Polynomial) SetBits(idx ...int) error {
	for _, i := range idx {
		if err := p.SetBit(i); err != nil {
			return err
		}
	}
	return nil
}

// Expand returns p with length max(p.Len(), n). It never truncates.
func (p Polynomial) Expand(n int) Polynomial {
	if n <= p.length {
		return p.Clone()
	}
	return FromWords(n, p.words)
}

// Reduce returns p re-declared at its true length, one past its degree.
// The zero polynomial reduces to length 1.
func (p Polynomial) Reduce() Polynomial {
	return FromWords(p.Degree()+1, p.words)
}

// ShiftLeft multiplies p by x^n. The result is n bits longer.
func (p Polynomial) ShiftLeft(n int) Polynomial {
	if n <= 0 {
		return p.Clone()
	}

	out := NewPolynomial(p.length + n)
	ws, bs := n/WordBits, uint(n%WordBits)
	for i, w := range p.words {
		if w == 0 {
			continue
		}
		out.words[i+ws] |= w << bs
		if bs != 0 && i+ws+1 < len(out.words) {
			out.words[i+ws+1] |= w >> (WordBits - bs)
		}
	}

	out.clearUnused()
	return out
}

// Xor returns p + q, which over GF(2) is also p - q. The result has the
// longer of the two lengths.
func (p Polynomial) Xor(q Polynomial) Polynomial {
	long, short := p, q
	if q.length > p.length {
		long, short = q, p
	}

	out := long.Clone()
	xorFrom(out.words, short.words, 0)
	out.clearUnused()
	return out
}

// XorAssign adds q into p in place, growing p when q is longer.
func (p *Polynomial) XorAssign(q Polynomial) {
	if q.length > p.length {
		*p = p.Expand(q.length)
	}
	xorFrom(p.words, q.words, 0)
	p.clearUnused()
}

// Mul returns the product p*q with length 2*max(p.Len(), q.Len()).
//
// p is shifted by 0..63 bits once up front. For every set bit of q the
// matching shifted copy is added at that bit's word offset, so the
// sub-word shift cost is paid once per table entry rather than once per
// bit.
func (p Polynomial) Mul(q Polynomial) Polynomial {
	n := p.length
	if q.length > n {
		n = q.length
	}
	out := NewPolynomial(2 * n)
	if p.IsZero() || q.IsZero() {
		return out
	}

	var table [WordBits]Polynomial
	table[0] = p
	for j := 1; j < WordBits; j++ {
		table[j] = table[j-1].ShiftLeft(1)
	}

	for i, w := range q.words {
		for w != 0 {
			j := bits.TrailingZeros64(w)
			w &= w - 1
			xorFrom(out.words, table[j].words, i)
		}
	}

	out.clearUnused()
	return out
}

// Mod returns the remainder of p divided by d. The result is reduced to
// its true length and its degree is below d's degree.
func (p Polynomial) Mod(d Polynomial) (Polynomial, error) {
	if d.IsZero() {
		return Polynomial{}, newError(KindDivisionByZero, "Mod", "divisor is zero")
	}

	r := p.Reduce()
	d = d.Reduce()
	dd := d.Degree()
	for deg := r.Degree(); deg >= dd; deg = r.Degree() {
		r = r.Xor(d.ShiftLeft(deg - dd)).Reduce()
	}
	return r, nil
}

// ReverseBits mirrors the coefficients within the declared length: bit i
// moves to bit Len()-1-i.
func (p Polynomial) ReverseBits() Polynomial {
	out := NewPolynomial(p.length)
	for i, w := range p.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			w &= w - 1
			j := p.length - 1 - (i*WordBits + b)
			out.words[j/WordBits] |= 1 << uint(j%WordBits)
		}
	}
	return out
}

// Bytes packs p big-endian into ceil(Len()/8) bytes.
func (p Polynomial) Bytes() []byte {
	n := (p.length + 7) / 8
	out := make([]byte, n)
	for k := 0; k < n; k++ {
		out[n-1-k] = byte(p.words[k/8] >> (8 * uint(k%8)))
	}
	return out
}

// ToBigInt returns p as a non-negative integer.
func (p Polynomial) ToBigInt() *big.Int {
	return new(big.Int).SetBytes(p.Bytes())
}

// String returns the big-endian hex encoding of p.
func (p Polynomial) String() string {
	return hex.EncodeToString(p.Bytes())
}

func (p *Polynomial) clearUnused() {
	if r := p.length % WordBits; r != 0 && len(p.words) > 0 {
		p.words[len(p.words)-1] &= (1 << uint(r)) - 1
	}
}

func wordAt(words []uint64, i int) uint64 {
	if i < len(words) {
		return words[i]
	}
	return 0
}

// xorFrom adds src into dst starting at word offset off. Words that fall
// past the end of dst are dropped.
func xorFrom(dst, src []uint64, off int) {
	for k, v := range src {
		if off+k >= len(dst) {
			return
		}
		dst[off+k] ^= v
	}
}
