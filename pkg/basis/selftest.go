package basis

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/Davincible/nbconv/pkg/gf2"
)

// SelfTestReport counts failed checks over a run of random elements.
type SelfTestReport struct {
	Samples   int `json:"samples"`
	RoundTrip int `json:"round_trip_failures"`
	Linearity int `json:"linearity_failures"`
	Squaring  int `json:"squaring_failures"`
}

// Failures returns the total number of failed checks.
func (r *SelfTestReport) Failures() int {
	return r.RoundTrip + r.Linearity + r.Squaring
}

// SelfTest draws samples random element pairs from rnd (crypto/rand when
// nil) and checks three properties of the conversion: PB -> NB -> PB is the
// identity, conversion is additive, and squaring in polynomial basis is a
// one-bit rotation in normal basis.
func (c *Conversion) SelfTest(rnd io.Reader, samples int) (*SelfTestReport, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(c.degree))

	report := &SelfTestReport{Samples: samples}
	for i := 0; i < samples; i++ {
		a, err := rand.Int(rnd, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to draw sample: %w", err)
		}
		b, err := rand.Int(rnd, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to draw sample: %w", err)
		}

		na, err := c.ToNormal(a)
		if err != nil {
			return nil, err
		}
		back, err := c.ToPolynomial(na)
		if err != nil {
			return nil, err
		}
		if back.Cmp(a) != 0 {
			report.RoundTrip++
		}

		nb, err := c.ToNormal(b)
		if err != nil {
			return nil, err
		}
		nsum, err := c.ToNormal(new(big.Int).Xor(a, b))
		if err != nil {
			return nil, err
		}
		if nsum.Cmp(new(big.Int).Xor(na, nb)) != 0 {
			report.Linearity++
		}

		pa := gf2.FromBigInt(c.degree, a)
		sq, err := pa.Mul(pa).Mod(c.field)
		if err != nil {
			return nil, err
		}
		nsq, err := c.ToNormal(sq.ToBigInt())
		if err != nil {
			return nil, err
		}
		if nsq.Cmp(c.rotate(na)) != 0 {
			report.Squaring++
		}
	}

	return report, nil
}

// rotate applies the Frobenius map to a normal-basis value: the coefficient
// of γ^(2^i) moves to γ^(2^(i+1)).
func (c *Conversion) rotate(v *big.Int) *big.Int {
	m := c.degree
	out := new(big.Int)
	if c.reverse {
		out.Rsh(v, 1)
		out.SetBit(out, m-1, v.Bit(0))
		return out
	}
	out.Lsh(v, 1)
	out.SetBit(out, m, 0)
	out.SetBit(out, 0, v.Bit(m-1))
	return out
}
