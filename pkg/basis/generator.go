package basis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/Davincible/nbconv/pkg/gf2"
	"golang.org/x/crypto/sha3"
)

// DefaultAttempts bounds FindGenerator when the caller passes zero.
const DefaultAttempts = 256

// ErrNoGenerator is returned when no candidate produced a normal basis.
var ErrNoGenerator = errors.New("no normal-basis generator found")

// Candidate returns the i-th generator candidate for a degree-m field:
// SHAKE256(seed || uint32be(i)) read as a big-endian integer and projected
// into m bits.
func Candidate(seed []byte, i uint32, m int) *big.Int {
	var ctr [4]byte
	binary.BigEndian.PutUint32(ctr[:], i)

	h := sha3.NewShake256()
	h.Write(seed)
	h.Write(ctr[:])

	buf := make([]byte, (m+7)/8)
	h.Read(buf)

	return gf2.FromBigInt(m, new(big.Int).SetBytes(buf)).ToBigInt()
}

// FindGenerator walks the candidate sequence for seed and returns the first
// root whose conjugates are linearly independent, together with the
// conversion built from it.
func FindGenerator(field gf2.Polynomial, seed []byte, attempts int, opts Options) (*big.Int, *Conversion, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	m := field.Degree()
	if m < 1 {
		return nil, nil, fmt.Errorf("field polynomial has degree %d: %w", m, gf2.ErrLengthMismatch)
	}

	for i := 0; i < attempts; i++ {
		root := Candidate(seed, uint32(i), m)
		if root.Sign() == 0 {
			continue
		}

		conv, err := New(field, root, opts)
		if errors.Is(err, gf2.ErrNotInvertible) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		slog.Debug("Found normal-basis generator", "degree", m, "attempt", i, "root", root.Text(16))
		return root, conv, nil
	}

	return nil, nil, fmt.Errorf("%w after %d attempts for degree %d", ErrNoGenerator, attempts, m)
}
