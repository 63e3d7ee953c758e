package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Davincible/nbconv/internal/validation"
	"github.com/Davincible/nbconv/pkg/basis"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// PointResult is the JSON form of one converted point.
type PointResult struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// PointOutput is the JSON output of the point command.
type PointOutput struct {
	Field       string        `json:"field"`
	Degree      int           `json:"degree"`
	To          string        `json:"to"`
	ReverseBits bool          `json:"reverse_bits"`
	Points      []PointResult `json:"points"`
}

func NewPointCommand() *cobra.Command {
	var (
		to      string
		input   string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "point [x] [y]",
		Short: "Convert curve point coordinates between polynomial and normal basis",
		Long: `Convert the affine coordinates of elliptic-curve points over GF(2^m).

A single point is given as two arguments. With --input, points are read one
per line as "x y" (or "x,y") from a file, or from stdin when the file is "-",
and converted in parallel.`,
		Example: `  # Convert one point to normal basis
  nbconv point --field sect163 0x3f0eba16286a2d57ea0991168d4994637e8343e36 0x0d51fbc6c71a0094fa2cdd545b11c5c0c797324f1

  # Convert a file of points back to polynomial basis with 8 workers
  nbconv point --to pb --input points.txt --workers 8`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := basis.ParseDirection(to)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = s.config.Defaults.Workers
			}
			if err := validation.ValidateWorkers(workers); err != nil {
				return err
			}

			conv, err := s.conversion()
			if err != nil {
				return err
			}

			lines, err := pointLines(cmd, args, input)
			if err != nil {
				return err
			}

			points := make([]basis.Point, len(lines))
			for i, line := range lines {
				points[i], err = s.parsePoint(line, conv.Degree())
				if err != nil {
					return fmt.Errorf("point %d: %w", i+1, err)
				}
			}

			converted, err := conv.ConvertPoints(cmd.Context(), points, dir, workers)
			if err != nil {
				return err
			}

			out := PointOutput{
				Field:       s.field,
				Degree:      conv.Degree(),
				To:          dir.String(),
				ReverseBits: conv.ReverseBits(),
				Points:      make([]PointResult, len(converted)),
			}
			for i, p := range converted {
				out.Points[i] = PointResult{
					X: s.formatElement(p.X, conv.Degree()),
					Y: s.formatElement(p.Y, conv.Degree()),
				}
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return outputPointText(cmd, out)
		},
	}

	addFieldFlags(cmd)
	cmd.Flags().StringVarP(&to, "to", "t", "nb", "Target basis: pb or nb")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Read points from file ('-' for stdin)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel conversions for --input (default from config)")

	return cmd
}

// pointLines collects raw "x y" lines from arguments, a file or a prompt.
func pointLines(cmd *cobra.Command, args []string, input string) ([]string, error) {
	switch {
	case input != "" && len(args) > 0:
		return nil, fmt.Errorf("cannot combine --input with coordinate arguments")
	case input != "":
		return readPointFile(cmd, input)
	case len(args) == 2:
		return []string{args[0] + " " + args[1]}, nil
	case len(args) == 1:
		return nil, fmt.Errorf("missing y coordinate")
	}

	p := newPrompter(cmd)
	x, err := p.read("Enter x coordinate: ")
	if err != nil {
		return nil, err
	}
	y, err := p.read("Enter y coordinate: ")
	if err != nil {
		return nil, err
	}
	return []string{x + " " + y}, nil
}

func readPointFile(cmd *cobra.Command, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open points file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read points: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no points found in %s", path)
	}
	return lines, nil
}

func (s *session) parsePoint(line string, degree int) (basis.Point, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) != 2 {
		return basis.Point{}, fmt.Errorf("expected two coordinates, got %d", len(fields))
	}

	x, err := s.parse(fields[0], degree)
	if err != nil {
		return basis.Point{}, fmt.Errorf("x coordinate: %w", err)
	}
	y, err := s.parse(fields[1], degree)
	if err != nil {
		return basis.Point{}, fmt.Errorf("y coordinate: %w", err)
	}
	return basis.Point{X: x, Y: y}, nil
}

func outputPointText(cmd *cobra.Command, out PointOutput) error {
	w := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)

	cyan.Fprintf(w, "Field %s (m=%d), %d point(s) -> %s", out.Field, out.Degree, len(out.Points), out.To)
	if out.ReverseBits {
		fmt.Fprint(w, ", MSB-first")
	}
	fmt.Fprintln(w)

	for i, p := range out.Points {
		if len(out.Points) > 1 {
			fmt.Fprintf(w, "\nPoint %d:\n", i+1)
		}
		fmt.Fprint(w, "  x: ")
		green.Fprintln(w, p.X)
		fmt.Fprint(w, "  y: ")
		green.Fprintln(w, p.Y)
	}
	return nil
}
