// Package curves names the binary fields used by standard GF(2^m)
// elliptic curves and caches their basis conversions.
package curves

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Davincible/nbconv/pkg/gf2"
)

// Field describes a binary field by its irreducible polynomial and,
// optionally, a known normal-basis generator.
type Field struct {
	Name        string
	Description string
	// Polynomial is the field polynomial as a bit pattern, bit i being the
	// coefficient of x^i.
	Polynomial *big.Int
	// Root is the normal-basis generator. When nil the registry derives one
	// deterministically from Seed.
	Root *big.Int
	// Seed feeds the generator search. Defaults to "nbconv/" + Name.
	Seed string
}

// Degree returns m for GF(2^m).
func (f Field) Degree() int {
	if f.Polynomial == nil {
		return 0
	}
	return f.Polynomial.BitLen() - 1
}

// FieldPolynomial returns the field polynomial as a gf2.Polynomial.
func (f Field) FieldPolynomial() gf2.Polynomial {
	return gf2.FromBigInt(f.Polynomial.BitLen(), f.Polynomial)
}

// GeneratorSeed returns the seed for the generator search.
func (f Field) GeneratorSeed() []byte {
	if f.Seed != "" {
		return []byte(f.Seed)
	}
	return []byte("nbconv/" + f.Name)
}

// Validate checks the field parameters before any matrix is built.
func (f Field) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if f.Polynomial == nil || f.Polynomial.Sign() <= 0 {
		return fmt.Errorf("field %s: polynomial must be positive", f.Name)
	}
	if f.Degree() < 2 {
		return fmt.Errorf("field %s: degree must be at least 2, got %d", f.Name, f.Degree())
	}
	if f.Polynomial.Bit(0) == 0 {
		return fmt.Errorf("field %s: polynomial is divisible by x", f.Name)
	}
	if f.Root != nil {
		if f.Root.Sign() <= 0 {
			return fmt.Errorf("field %s: root must be positive", f.Name)
		}
		if f.Root.BitLen() > f.Degree() {
			return fmt.Errorf("field %s: root has %d bits, degree is %d", f.Name, f.Root.BitLen(), f.Degree())
		}
	}
	return nil
}

func mustExponents(exps ...int) *big.Int {
	p, err := gf2.FromExponents(exps...)
	if err != nil {
		panic(err)
	}
	return p.ToBigInt()
}

// Builtin returns the fields known out of the box: the SEC 2 binary field
// polynomials and a toy GF(16) for experiments.
func Builtin() []Field {
	return []Field{
		{
			Name:        "gf16",
			Description: "GF(2^4), x^4 + x + 1",
			Polynomial:  mustExponents(4, 1, 0),
			Root:        big.NewInt(8),
		},
		{
			Name:        "sect163",
			Description: "GF(2^163), x^163 + x^7 + x^6 + x^3 + 1 (sect163k1, sect163r2)",
			Polynomial:  mustExponents(163, 7, 6, 3, 0),
		},
		{
			Name:        "sect233",
			Description: "GF(2^233), x^233 + x^74 + 1 (sect233k1, sect233r1)",
			Polynomial:  mustExponents(233, 74, 0),
		},
		{
			Name:        "sect283",
			Description: "GF(2^283), x^283 + x^12 + x^7 + x^5 + 1 (sect283k1, sect283r1)",
			Polynomial:  mustExponents(283, 12, 7, 5, 0),
		},
		{
			Name:        "sect409",
			Description: "GF(2^409), x^409 + x^87 + 1 (sect409k1, sect409r1)",
			Polynomial:  mustExponents(409, 87, 0),
		},
		{
			Name:        "sect571",
			Description: "GF(2^571), x^571 + x^10 + x^5 + x^2 + 1 (sect571k1, sect571r1)",
			Polynomial:  mustExponents(571, 10, 5, 2, 0),
		},
	}
}
