// Package basis converts GF(2^m) elements between polynomial basis and
// normal basis.
//
// For a normal-basis generator γ the change-of-basis matrix has γ^(2^i),
// written in polynomial basis, as row i. Bit i of a normal-basis value is
// the coefficient of γ^(2^i), so a normal-basis row vector times the
// matrix is the same element in polynomial basis. The inverse matrix
// converts back.
package basis

import (
	"fmt"
	"math/big"

	"github.com/Davincible/nbconv/pkg/gf2"
)

// Options tune how normal-basis values are laid out.
type Options struct {
	// ReverseBits selects the MSB-first normal-basis layout, where bit m-1
	// of a normal-basis value is the coefficient of γ.
	ReverseBits bool
}

// Conversion holds the change-of-basis matrices for one binary field.
// It is immutable and safe for concurrent use.
type Conversion struct {
	field   gf2.Polynomial
	degree  int
	forward *gf2.Matrix
	inverse *gf2.Matrix
	reverse bool
}

// New builds the conversion for the field defined by the irreducible
// polynomial field, using root as the normal-basis generator. It fails
// with gf2.ErrNotInvertible when root does not generate a normal basis.
func New(field gf2.Polynomial, root *big.Int, opts Options) (*Conversion, error) {
	forward, err := BuildMatrix(field, root)
	if err != nil {
		return nil, err
	}

	inverse, err := forward.Invert()
	if err != nil {
		return nil, fmt.Errorf("root %x does not generate a normal basis: %w", root, err)
	}

	reduced := field.Reduce()
	return &Conversion{
		field:   reduced,
		degree:  reduced.Degree(),
		forward: forward,
		inverse: inverse,
		reverse: opts.ReverseBits,
	}, nil
}

// BuildMatrix returns the m x m matrix whose row i is root^(2^i) mod field.
// root is projected into m bits before squaring starts.
func BuildMatrix(field gf2.Polynomial, root *big.Int) (*gf2.Matrix, error) {
	if field.IsZero() {
		return nil, fmt.Errorf("invalid field polynomial: %w", gf2.ErrDivisionByZero)
	}

	m := field.Degree()
	if m < 1 {
		return nil, &gf2.Error{Kind: gf2.KindLengthMismatch, Op: "BuildMatrix", Detail: "field degree must be at least 1"}
	}

	matrix := gf2.NewMatrix()
	gamma := gf2.FromBigInt(m, root)
	for i := 0; i < m; i++ {
		if err := matrix.AddRow(gamma.Words()); err != nil {
			return nil, err
		}

		sq, err := gamma.Mul(gamma).Mod(field)
		if err != nil {
			return nil, err
		}
		gamma = sq.Expand(m)
	}

	return matrix, nil
}

// Degree returns m, the extension degree of the field.
func (c *Conversion) Degree() int {
	return c.degree
}

// Field returns the field polynomial.
func (c *Conversion) Field() gf2.Polynomial {
	return c.field.Clone()
}

// ReverseBits reports whether normal-basis values are MSB-first.
func (c *Conversion) ReverseBits() bool {
	return c.reverse
}

// Matrix returns the normal-to-polynomial matrix. Callers must not modify
// it.
func (c *Conversion) Matrix() *gf2.Matrix {
	return c.forward
}

// InverseMatrix returns the polynomial-to-normal matrix. Callers must not
// modify it.
func (c *Conversion) InverseMatrix() *gf2.Matrix {
	return c.inverse
}

// ConvertForward maps a normal-basis element to polynomial basis.
func (c *Conversion) ConvertForward(e *big.Int) (*big.Int, error) {
	v, err := c.vector("ConvertForward", e)
	if err != nil {
		return nil, err
	}
	if c.reverse {
		v = v.ReverseBits()
	}

	out, err := v.MulMatrix(c.forward)
	if err != nil {
		return nil, err
	}
	return out.ToBigInt(), nil
}

// ConvertBackward maps a polynomial-basis element to normal basis.
func (c *Conversion) ConvertBackward(e *big.Int) (*big.Int, error) {
	v, err := c.vector("ConvertBackward", e)
	if err != nil {
		return nil, err
	}

	out, err := v.MulMatrix(c.inverse)
	if err != nil {
		return nil, err
	}
	if c.reverse {
		out = out.ReverseBits()
	}
	return out.ToBigInt(), nil
}

// ToPolynomial is ConvertForward.
func (c *Conversion) ToPolynomial(nb *big.Int) (*big.Int, error) {
	return c.ConvertForward(nb)
}

// ToNormal is ConvertBackward.
func (c *Conversion) ToNormal(pb *big.Int) (*big.Int, error) {
	return c.ConvertBackward(pb)
}

func (c *Conversion) vector(op string, e *big.Int) (gf2.Polynomial, error) {
	if e == nil {
		return gf2.Polynomial{}, &gf2.Error{Kind: gf2.KindLengthMismatch, Op: op, Detail: "nil element"}
	}
	if e.Sign() < 0 {
		return gf2.Polynomial{}, &gf2.Error{Kind: gf2.KindLengthMismatch, Op: op, Detail: "negative element"}
	}
	if e.BitLen() > c.degree {
		return gf2.Polynomial{}, &gf2.Error{
			Kind:   gf2.KindLengthMismatch,
			Op:     op,
			Detail: fmt.Sprintf("element has %d bits, field degree is %d", e.BitLen(), c.degree),
		}
	}
	return gf2.FromBigInt(c.degree, e), nil
}
