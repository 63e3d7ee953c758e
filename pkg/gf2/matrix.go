package gf2

import (
	"fmt"
	"math/bits"
	"strings"
)

// Matrix is a dense matrix over GF(2). Each row is a little-endian word
// sequence and all rows have the same number of words.
type Matrix struct {
	rows [][]uint64
}

// NewMatrix returns an empty matrix ready for AddRow.
func NewMatrix() *Matrix {
	return &Matrix{}
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	m := &Matrix{rows: make([][]uint64, n)}
	w := wordsFor(n)
	for i := range m.rows {
		m.rows[i] = make([]uint64, w)
		m.rows[i][i/WordBits] = 1 << uint(i%WordBits)
	}
	return m
}

// AddRow appends a copy of row.
func (m *Matrix) AddRow(row []uint64) error {
	if len(row) == 0 {
		return newError(KindLengthMismatch, "AddRow", "empty row")
	}
	if len(m.rows) > 0 && len(row) != len(m.rows[0]) {
		return newError(KindLengthMismatch, "AddRow", "row has %d words, want %d", len(row), len(m.rows[0]))
	}
	m.rows = append(m.rows, append([]uint64(nil), row...))
	return nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return len(m.rows)
}

// Cols returns the column capacity in bits, i.e. the row word count
// times WordBits.
func (m *Matrix) Cols() int {
	if len(m.rows) == 0 {
		return 0
	}
	return len(m.rows[0]) * WordBits
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []uint64 {
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	return append([]uint64(nil), m.rows[i]...)
}

// Invert returns the inverse of a square matrix using Gauss-Jordan
// elimination. The receiver is left untouched.
func (m *Matrix) Invert() (*Matrix, error) {
	n := len(m.rows)
	if n == 0 || len(m.rows[0]) != wordsFor(n) {
		return nil, newError(KindLengthMismatch, "Invert", "%d rows of %d words is not square", n, m.wordCount())
	}

	work := m.copyRows()
	inv := Identity(n).rows

	for i := 0; i < n; i++ {
		q := i / WordBits
		mask := uint64(1) << uint(i%WordBits)

		if work[i][q]&mask == 0 {
			pivot := -1
			for j := i + 1; j < n; j++ {
				if work[j][q]&mask != 0 {
					pivot = j
					break
				}
			}
			if pivot < 0 {
				return nil, newError(KindNotInvertible, "Invert", "no pivot in column %d", i)
			}
			work[i], work[pivot] = work[pivot], work[i]
			inv[i], inv[pivot] = inv[pivot], inv[i]
		}

		// Processed rows are zero below word q, so the working rows only
		// need the tail from q on.
		for j := 0; j < n; j++ {
			if j != i && work[j][q]&mask != 0 {
				xorFrom(work[j][q:], work[i][q:], 0)
				xorFrom(inv[j], inv[i], 0)
			}
		}
	}

	return &Matrix{rows: inv}, nil
}

// MulMatrix returns the row-vector product p * m. p.Len() must equal
// m.Rows(); the result has p's length. Over GF(2) this is the XOR of the
// rows selected by p's set bits.
func (p Polynomial) MulMatrix(m *Matrix) (Polynomial, error) {
	if len(m.rows) == 0 || p.length != len(m.rows) {
		return Polynomial{}, newError(KindLengthMismatch, "MulMatrix", "vector has %d bits, matrix has %d rows", p.length, len(m.rows))
	}

	acc := make([]uint64, len(m.rows[0]))
	for i, w := range p.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			w &= w - 1
			xorFrom(acc, m.rows[i*WordBits+b], 0)
		}
	}
	return FromWords(p.length, acc), nil
}

// Mul returns the matrix product m * o, computed one row of m at a time.
func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if len(m.rows) == 0 || len(o.rows) == 0 {
		return nil, newError(KindLengthMismatch, "Mul", "empty matrix")
	}
	if m.wordCount() != wordsFor(len(o.rows)) {
		return nil, newError(KindLengthMismatch, "Mul", "%d-word rows against %d rows", m.wordCount(), len(o.rows))
	}

	out := NewMatrix()
	for _, row := range m.rows {
		v, err := FromWords(len(o.rows), row).MulMatrix(o)
		if err != nil {
			return nil, err
		}
		out.rows = append(out.rows, v.words)
	}
	return out, nil
}

// Equal reports whether m and o have identical rows.
func (m *Matrix) Equal(o *Matrix) bool {
	if len(m.rows) != len(o.rows) {
		return false
	}
	for i := range m.rows {
		if len(m.rows[i]) != len(o.rows[i]) {
			return false
		}
		for k := range m.rows[i] {
			if m.rows[i][k] != o.rows[i][k] {
				return false
			}
		}
	}
	return true
}

// IsIdentity reports whether m is a square identity matrix.
func (m *Matrix) IsIdentity() bool {
	return len(m.rows) > 0 && m.Equal(Identity(len(m.rows)))
}

// String renders one line per row, words in hex from the high word down.
func (m *Matrix) String() string {
	var sb strings.Builder
	for _, row := range m.rows {
		for k := len(row) - 1; k >= 0; k-- {
			fmt.Fprintf(&sb, "%016x", row[k])
			if k > 0 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m *Matrix) wordCount() int {
	if len(m.rows) == 0 {
		return 0
	}
	return len(m.rows[0])
}

func (m *Matrix) copyRows() [][]uint64 {
	out := make([][]uint64, len(m.rows))
	for i, row := range m.rows {
		out[i] = append([]uint64(nil), row...)
	}
	return out
}
