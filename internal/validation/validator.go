package validation

import (
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	hexPattern       = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	decPattern       = regexp.MustCompile(`^[0-9]+$`)
	fieldNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)
)

// MaxDegree bounds user-supplied field degrees. Conversion matrices are m×m
// bits, so this keeps a typo from allocating gigabytes.
const MaxDegree = 4096

func ValidateHex(input string) error {
	input = trimHexPrefix(strings.TrimSpace(input))
	if len(input) == 0 {
		return fmt.Errorf("hex string cannot be empty")
	}

	if !hexPattern.MatchString(input) {
		return fmt.Errorf("invalid hex characters")
	}

	return nil
}

// ParseElement parses a field element given in the requested format. Hex
// accepts an optional 0x prefix; a 0x prefix also forces hex when the format
// is dec.
func ParseElement(input, format string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("element cannot be empty")
	}

	if format == "hex" || hasHexPrefix(input) {
		if err := ValidateHex(input); err != nil {
			return nil, fmt.Errorf("invalid element: %w", err)
		}
		n, _ := new(big.Int).SetString(trimHexPrefix(input), 16)
		return n, nil
	}

	if format != "dec" {
		return nil, fmt.Errorf("unknown format '%s', expected hex or dec", format)
	}
	if !decPattern.MatchString(input) {
		return nil, fmt.Errorf("invalid element: invalid decimal characters")
	}
	n, _ := new(big.Int).SetString(input, 10)
	return n, nil
}

// ValidateElement checks that an element fits in a field of the given degree.
func ValidateElement(e *big.Int, degree int) error {
	if e == nil || e.Sign() < 0 {
		return fmt.Errorf("element must be non-negative")
	}
	if e.BitLen() > degree {
		return fmt.Errorf("element has %d bits, field degree is %d", e.BitLen(), degree)
	}
	return nil
}

func ValidateFieldName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("field name cannot be empty")
	}

	if !fieldNamePattern.MatchString(strings.ToLower(name)) {
		return fmt.Errorf("invalid field name '%s': use letters, digits, '-' or '_', starting with a letter", name)
	}

	return nil
}

// ParseExponents parses a term list such as "409,87,0" or "x^4+x+1" into
// distinct exponents, highest first.
func ParseExponents(spec string) ([]int, error) {
	spec = strings.ReplaceAll(strings.TrimSpace(spec), " ", "")
	if spec == "" {
		return nil, fmt.Errorf("exponent list cannot be empty")
	}

	algebraic := strings.ContainsAny(spec, "x+")
	terms := strings.Split(spec, ",")
	if algebraic {
		terms = strings.Split(spec, "+")
	}

	seen := make(map[int]bool, len(terms))
	exps := make([]int, 0, len(terms))
	for _, term := range terms {
		e, err := parseTerm(term, algebraic)
		if err != nil {
			return nil, err
		}
		if seen[e] {
			return nil, fmt.Errorf("duplicate exponent %d", e)
		}
		seen[e] = true
		exps = append(exps, e)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(exps)))

	if exps[0] < 2 || exps[0] > MaxDegree {
		return nil, fmt.Errorf("degree must be between 2 and %d (got %d)", MaxDegree, exps[0])
	}
	if !seen[0] {
		return nil, fmt.Errorf("polynomial must have a constant term")
	}

	return exps, nil
}

func ValidateSamples(samples int) error {
	if samples < 1 || samples > 1_000_000 {
		return fmt.Errorf("samples must be between 1 and 1000000 (got %d)", samples)
	}
	return nil
}

func ValidateWorkers(workers int) error {
	if workers < 0 || workers > 1024 {
		return fmt.Errorf("workers must be between 0 and 1024 (got %d)", workers)
	}
	return nil
}

func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return strings.Join(lines, "\n")
}

func parseTerm(term string, algebraic bool) (int, error) {
	if term == "" {
		return 0, fmt.Errorf("empty term")
	}
	if algebraic {
		switch {
		case term == "1":
			return 0, nil
		case term == "x":
			return 1, nil
		case strings.HasPrefix(term, "x^"):
			term = term[2:]
		default:
			return 0, fmt.Errorf("invalid term '%s'", term)
		}
	}

	e, err := strconv.Atoi(term)
	if err != nil || e < 0 {
		return 0, fmt.Errorf("invalid term '%s'", term)
	}
	return e, nil
}

func hasHexPrefix(s string) bool {
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

func trimHexPrefix(s string) string {
	if hasHexPrefix(s) {
		return s[2:]
	}
	return s
}
