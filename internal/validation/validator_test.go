package validation

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHex(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"1f", false},
		{"0x1F", false},
		{" abc ", false},
		{"", true},
		{"0x", true},
		{"12g4", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateHex(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseElement(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  string
		want    int64
		wantErr bool
	}{
		{"hex", "ff", "hex", 255, false},
		{"hex prefix", "0x10", "hex", 16, false},
		{"decimal", "255", "dec", 255, false},
		{"prefix overrides dec", "0x10", "dec", 16, false},
		{"bad decimal", "12a", "dec", 0, true},
		{"negative decimal", "-5", "dec", 0, true},
		{"empty", "  ", "hex", 0, true},
		{"unknown format", "10", "b64", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseElement(tt.input, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}

func TestValidateElement(t *testing.T) {
	assert.NoError(t, ValidateElement(big.NewInt(15), 4))
	assert.NoError(t, ValidateElement(big.NewInt(0), 4))
	assert.Error(t, ValidateElement(big.NewInt(16), 4))
	assert.Error(t, ValidateElement(big.NewInt(-1), 4))
	assert.Error(t, ValidateElement(nil, 4))
}

func TestValidateFieldName(t *testing.T) {
	assert.NoError(t, ValidateFieldName("sect409"))
	assert.NoError(t, ValidateFieldName("My_Field-2"))
	assert.Error(t, ValidateFieldName(""))
	assert.Error(t, ValidateFieldName("9field"))
	assert.Error(t, ValidateFieldName("has space"))
}

func TestParseExponents(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []int
		wantErr string
	}{
		{"comma list", "409,87,0", []int{409, 87, 0}, ""},
		{"comma list with one", "4,1,0", []int{4, 1, 0}, ""},
		{"unordered", "0, 1, 4", []int{4, 1, 0}, ""},
		{"algebraic", "x^4 + x + 1", []int{4, 1, 0}, ""},
		{"algebraic pentanomial", "x^163+x^7+x^6+x^3+1", []int{163, 7, 6, 3, 0}, ""},
		{"duplicate", "4,4,0", nil, "duplicate exponent"},
		{"no constant", "4,1", nil, "constant term"},
		{"degree too small", "1,0", nil, "degree must be between"},
		{"degree too large", "5000,0", nil, "degree must be between"},
		{"bad term", "x^a+1", nil, "invalid term"},
		{"empty term", "4,,0", nil, "empty term"},
		{"empty", "", nil, "cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExponents(tt.spec)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateCounts(t *testing.T) {
	assert.NoError(t, ValidateSamples(1))
	assert.Error(t, ValidateSamples(0))
	assert.NoError(t, ValidateWorkers(0))
	assert.Error(t, ValidateWorkers(-1))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "a\nb", SanitizeInput("  a \r\n b  "))
}
