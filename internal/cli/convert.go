package cli

import (
	"fmt"

	"github.com/Davincible/nbconv/pkg/basis"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ConversionResult is the JSON form of one converted element.
type ConversionResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// ConvertOutput is the JSON output of the convert command.
type ConvertOutput struct {
	Field       string             `json:"field"`
	Degree      int                `json:"degree"`
	To          string             `json:"to"`
	ReverseBits bool               `json:"reverse_bits"`
	Results     []ConversionResult `json:"results"`
}

func NewConvertCommand() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert [value...]",
		Short: "Convert field elements between polynomial and normal basis",
		Long: `Convert one or more GF(2^m) elements between polynomial basis (pb) and
normal basis (nb).

Values are read as hex (optional 0x prefix) or decimal depending on --format.
When no value is given on the command line it is read from stdin.`,
		Example: `  # Polynomial basis to normal basis on the default field
  nbconv convert 0x1f --to nb

  # Normal basis back to polynomial basis on sect233
  nbconv convert --field sect233 --to pb 0x1f

  # Decimal input and output, MSB-first normal-basis layout
  nbconv convert --format dec --reverse-bits --to nb 31 32 33`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := basis.ParseDirection(to)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			conv, err := s.conversion()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				value, err := newPrompter(cmd).read("Enter field element: ")
				if err != nil {
					return err
				}
				args = []string{value}
			}

			out := ConvertOutput{
				Field:       s.field,
				Degree:      conv.Degree(),
				To:          dir.String(),
				ReverseBits: conv.ReverseBits(),
			}
			for _, arg := range args {
				e, err := s.parse(arg, conv.Degree())
				if err != nil {
					return fmt.Errorf("value '%s': %w", arg, err)
				}
				r, err := conv.Convert(e, dir)
				if err != nil {
					return fmt.Errorf("value '%s': %w", arg, err)
				}
				out.Results = append(out.Results, ConversionResult{
					Input:  s.formatElement(e, conv.Degree()),
					Output: s.formatElement(r, conv.Degree()),
				})
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return outputConvertText(cmd, out)
		},
	}

	addFieldFlags(cmd)
	cmd.Flags().StringVarP(&to, "to", "t", "nb", "Target basis: pb or nb")

	return cmd
}

func outputConvertText(cmd *cobra.Command, out ConvertOutput) error {
	w := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)

	from := basis.ToPolynomialBasis.String()
	if out.To == from {
		from = basis.ToNormalBasis.String()
	}

	cyan.Fprintf(w, "Field %s (m=%d), %s -> %s", out.Field, out.Degree, from, out.To)
	if out.ReverseBits {
		fmt.Fprint(w, ", MSB-first")
	}
	fmt.Fprintln(w)

	for _, r := range out.Results {
		fmt.Fprintf(w, "%s -> ", r.Input)
		green.Fprintln(w, r.Output)
	}
	return nil
}
