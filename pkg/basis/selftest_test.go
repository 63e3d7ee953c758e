package basis

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/Davincible/nbconv/pkg/gf2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func TestSelfTest(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"lsb first", Options{}},
		{"msb first", Options{ReverseBits: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := New(gf16Field(t), big.NewInt(8), tt.opts)
			require.NoError(t, err)

			report, err := conv.SelfTest(rand.New(rand.NewSource(16)), 50)
			require.NoError(t, err)
			assert.Equal(t, 50, report.Samples)
			assert.Zero(t, report.Failures())
		})
	}
}

func TestSelfTestLargeField(t *testing.T) {
	field, err := gf2.FromExponents(163, 7, 6, 3, 0)
	require.NoError(t, err)
	_, conv, err := FindGenerator(field, []byte("nbconv/sect163"), 64, Options{ReverseBits: true})
	require.NoError(t, err)

	report, err := conv.SelfTest(nil, 5)
	require.NoError(t, err)
	assert.Zero(t, report.Failures())
}

func TestSelfTestReaderError(t *testing.T) {
	conv, err := New(gf16Field(t), big.NewInt(8), Options{})
	require.NoError(t, err)

	_, err = conv.SelfTest(failingReader{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to draw sample")
}

func TestRotateMatchesSquaring(t *testing.T) {
	conv, err := New(gf16Field(t), big.NewInt(8), Options{})
	require.NoError(t, err)

	// γ itself is the normal-basis vector 0001; γ^2 is 0010, γ^(2^3) wraps.
	assert.Equal(t, int64(0x2), conv.rotate(big.NewInt(0x1)).Int64())
	assert.Equal(t, int64(0x1), conv.rotate(big.NewInt(0x8)).Int64())
	assert.Equal(t, int64(0xB), conv.rotate(big.NewInt(0xD)).Int64())

	rev, err := New(gf16Field(t), big.NewInt(8), Options{ReverseBits: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0x4), rev.rotate(big.NewInt(0x8)).Int64())
	assert.Equal(t, int64(0x8), rev.rotate(big.NewInt(0x1)).Int64())
}
