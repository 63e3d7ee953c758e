package test

import (
	"context"
	"math/big"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/Davincible/nbconv/pkg/basis"
	"github.com/Davincible/nbconv/pkg/config"
	"github.com/Davincible/nbconv/pkg/curves"
	"github.com/Davincible/nbconv/pkg/gf2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomElement(rng *rand.Rand, m int) *big.Int {
	n := new(big.Int)
	for i := 0; i < m; i++ {
		if rng.Intn(2) == 1 {
			n.SetBit(n, i, 1)
		}
	}
	return n
}

func TestFullWorkflow(t *testing.T) {
	cm, err := config.NewConfigManagerAt(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	reg, err := cm.GetConfig().NewRegistry(false)
	require.NoError(t, err)

	conv, err := reg.Conversion(cm.GetConfig().Defaults.Field)
	require.NoError(t, err)
	assert.Equal(t, 409, conv.Degree())

	product, err := conv.Matrix().Mul(conv.InverseMatrix())
	require.NoError(t, err)
	assert.True(t, product.IsIdentity())

	rng := rand.New(rand.NewSource(2024))
	points := make([]basis.Point, 32)
	for i := range points {
		points[i] = basis.Point{X: randomElement(rng, 409), Y: randomElement(rng, 409)}
	}

	normal, err := conv.ConvertPoints(context.Background(), points, basis.ToNormalBasis, 4)
	require.NoError(t, err)
	back, err := conv.ConvertPoints(context.Background(), normal, basis.ToPolynomialBasis, 4)
	require.NoError(t, err)

	for i := range points {
		assert.Equal(t, 0, points[i].X.Cmp(back[i].X), "point %d x", i)
		assert.Equal(t, 0, points[i].Y.Cmp(back[i].Y), "point %d y", i)
	}
}

func TestAllBuiltinFields(t *testing.T) {
	reg := curves.NewRegistry(basis.Options{})

	for _, f := range reg.List() {
		t.Run(f.Name, func(t *testing.T) {
			conv, err := reg.Conversion(f.Name)
			require.NoError(t, err)
			assert.Equal(t, f.Degree(), conv.Degree())

			report, err := conv.SelfTest(rand.New(rand.NewSource(int64(f.Degree()))), 8)
			require.NoError(t, err)
			assert.Zero(t, report.Failures())
		})
	}
}

func TestReverseBitsLayouts(t *testing.T) {
	lsb := curves.NewRegistry(basis.Options{})
	msb := curves.NewRegistry(basis.Options{ReverseBits: true})

	a, err := lsb.Conversion("sect571")
	require.NoError(t, err)
	b, err := msb.Conversion("sect571")
	require.NoError(t, err)

	rootA, err := lsb.Root("sect571")
	require.NoError(t, err)
	rootB, err := msb.Root("sect571")
	require.NoError(t, err)
	assert.Equal(t, 0, rootA.Cmp(rootB), "generator search must not depend on bit layout")

	rng := rand.New(rand.NewSource(571))
	for i := 0; i < 5; i++ {
		e := randomElement(rng, 571)

		na, err := a.ToNormal(e)
		require.NoError(t, err)
		nb, err := b.ToNormal(e)
		require.NoError(t, err)

		reversed := gf2.FromBigInt(571, na).ReverseBits().ToBigInt()
		assert.Equal(t, 0, reversed.Cmp(nb))
	}
}

func TestCustomFieldFromConfig(t *testing.T) {
	cm, err := config.NewConfigManagerAt(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	// x^8 + x^4 + x^3 + x^2 + 1, generator derived from the seed.
	require.NoError(t, cm.AddField(config.FieldConfig{
		Name:       "toy8",
		Polynomial: "11d",
		Seed:       "integration",
	}))

	reg, err := cm.GetConfig().NewRegistry(false)
	require.NoError(t, err)
	conv, err := reg.Conversion("toy8")
	require.NoError(t, err)
	assert.Equal(t, 8, conv.Degree())

	// Every element of GF(2^8) survives the round trip.
	for v := int64(0); v < 256; v++ {
		e := big.NewInt(v)
		nb, err := conv.ToNormal(e)
		require.NoError(t, err)
		pb, err := conv.ToPolynomial(nb)
		require.NoError(t, err)
		require.Equal(t, v, pb.Int64())
	}
}

func TestNonNormalRootRejected(t *testing.T) {
	field, err := gf2.FromExponents(4, 1, 0)
	require.NoError(t, err)

	_, err = basis.New(field, big.NewInt(2), basis.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, gf2.ErrNotInvertible)
	assert.Equal(t, gf2.KindNotInvertible, gf2.KindOf(err))
}
