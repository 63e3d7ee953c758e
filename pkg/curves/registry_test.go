package curves

import (
	"math/big"
	"sync"
	"testing"

	"github.com/Davincible/nbconv/pkg/basis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinFields(t *testing.T) {
	want := map[string]int{
		"gf16":    4,
		"sect163": 163,
		"sect233": 233,
		"sect283": 283,
		"sect409": 409,
		"sect571": 571,
	}

	fields := Builtin()
	require.Len(t, fields, len(want))
	for _, f := range fields {
		assert.NoError(t, f.Validate(), f.Name)
		assert.Equal(t, want[f.Name], f.Degree(), f.Name)
		assert.Equal(t, f.Degree(), f.FieldPolynomial().Degree())
	}
}

func TestFieldValidate(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		wantErr string
	}{
		{"valid", Field{Name: "f", Polynomial: big.NewInt(0x13)}, ""},
		{"empty name", Field{Polynomial: big.NewInt(0x13)}, "name cannot be empty"},
		{"missing polynomial", Field{Name: "f"}, "must be positive"},
		{"degree one", Field{Name: "f", Polynomial: big.NewInt(0x3)}, "degree must be at least 2"},
		{"divisible by x", Field{Name: "f", Polynomial: big.NewInt(0x12)}, "divisible by x"},
		{"root too wide", Field{Name: "f", Polynomial: big.NewInt(0x13), Root: big.NewInt(0x10)}, "root has 5 bits"},
		{"zero root", Field{Name: "f", Polynomial: big.NewInt(0x13), Root: big.NewInt(0)}, "root must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.field.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(basis.Options{})

	f, err := r.Get(" SECT409 ")
	require.NoError(t, err)
	assert.Equal(t, "sect409", f.Name)

	_, err = r.Get("sect999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")

	list := r.List()
	require.NotEmpty(t, list)
	assert.Equal(t, "gf16", list[0].Name)
	assert.Equal(t, "sect571", list[len(list)-1].Name)
}

func TestRegistryConversionCached(t *testing.T) {
	r := NewRegistry(basis.Options{})

	conv, err := r.Conversion("gf16")
	require.NoError(t, err)
	again, err := r.Conversion("GF16")
	require.NoError(t, err)
	assert.Same(t, conv, again)

	root, err := r.Root("gf16")
	require.NoError(t, err)
	assert.Equal(t, int64(8), root.Int64())

	_, err = r.Conversion("missing")
	assert.Error(t, err)
}

func TestRegistryConcurrentBuild(t *testing.T) {
	r := NewRegistry(basis.Options{})

	const n = 8
	results := make([]*basis.Conversion, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conv, err := r.Conversion("sect163")
			if err == nil {
				results[i] = conv
			}
		}(i)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}

	e := new(big.Int).Lsh(big.NewInt(0x1234567), 120)
	nb, err := results[0].ToNormal(e)
	require.NoError(t, err)
	back, err := results[0].ToPolynomial(nb)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Cmp(back))
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry(basis.Options{ReverseBits: true})
	assert.True(t, r.Options().ReverseBits)

	err := r.Register(Field{Name: "bad", Polynomial: big.NewInt(0x12)})
	assert.Error(t, err)

	require.NoError(t, r.Register(Field{Name: "Custom16", Polynomial: big.NewInt(0x13), Root: big.NewInt(8)}))
	first, err := r.Conversion("custom16")
	require.NoError(t, err)
	assert.True(t, first.ReverseBits())

	// x^4 + x^3 + 1 with root x: conjugates x, x^2, x^4 = x^3 + 1, x^8 = x^3 + x^2 + x
	require.NoError(t, r.Register(Field{Name: "custom16", Polynomial: big.NewInt(0x19), Root: big.NewInt(2)}))
	second, err := r.Conversion("custom16")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, []uint64{0x19}, second.Field().Words())
}
