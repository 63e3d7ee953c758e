package cli

import (
	"fmt"
	"strings"

	"github.com/Davincible/nbconv/internal/validation"
	"github.com/Davincible/nbconv/pkg/config"
	"github.com/Davincible/nbconv/pkg/gf2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// FieldInfo is the JSON form of a registered field.
type FieldInfo struct {
	Name        string `json:"name"`
	Degree      int    `json:"degree"`
	Polynomial  string `json:"polynomial"`
	Root        string `json:"root,omitempty"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default"`
}

func NewFieldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List and manage binary fields",
		Long: `List the binary fields known to nbconv and manage user-defined fields.

Built-in fields cover the SEC 2 binary curves (sect163 through sect571) and a
toy GF(2^4). Fields without a published normal-basis root get one derived
deterministically from their seed.`,
		Example: `  # List all fields
  nbconv fields

  # Add a custom field from its polynomial terms
  nbconv fields add toy8 --poly "x^8+x^4+x^3+x^2+1"

  # Remove it again
  nbconv fields remove toy8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			var infos []FieldInfo
			for _, f := range s.registry.List() {
				info := FieldInfo{
					Name:        f.Name,
					Degree:      f.Degree(),
					Polynomial:  describePolynomial(f.FieldPolynomial()),
					Description: f.Description,
					Default:     strings.EqualFold(f.Name, s.field),
				}
				if f.Root != nil {
					info.Root = formatElement(f.Root, "hex", f.Degree())
				}
				infos = append(infos, info)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			w := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan, color.Bold)
			green := color.New(color.FgGreen)

			cyan.Fprintf(w, "%-10s %6s  %s\n", "NAME", "DEGREE", "POLYNOMIAL")
			for _, info := range infos {
				marker := " "
				if info.Default {
					marker = "*"
				}
				fmt.Fprintf(w, "%s", marker)
				green.Fprintf(w, "%-9s", info.Name)
				fmt.Fprintf(w, " %6d  %s\n", info.Degree, info.Polynomial)
			}
			return nil
		},
	}

	cmd.AddCommand(
		newFieldsAddCommand(),
		newFieldsRemoveCommand(),
	)

	return cmd
}

func newFieldsAddCommand() *cobra.Command {
	var (
		poly        string
		root        string
		seed        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or replace a user-defined field",
		Long: `Add a field to the config file. The polynomial is given as its terms,
either "x^233+x^74+1" or the exponent list "233,74,0". The root is the
normal-basis generator in hex; without one a generator is derived from the
seed on first use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(strings.TrimSpace(args[0]))
			if err := validation.ValidateFieldName(name); err != nil {
				return err
			}

			exps, err := validation.ParseExponents(poly)
			if err != nil {
				return fmt.Errorf("invalid polynomial: %w", err)
			}
			p, err := gf2.FromExponents(exps...)
			if err != nil {
				return fmt.Errorf("invalid polynomial: %w", err)
			}

			fc := config.FieldConfig{
				Name:        name,
				Description: description,
				Polynomial:  p.ToBigInt().Text(16),
				Seed:        seed,
			}
			if root != "" {
				if err := validation.ValidateHex(root); err != nil {
					return fmt.Errorf("invalid root: %w", err)
				}
				fc.Root = root
			}

			f, err := fc.Field()
			if err != nil {
				return err
			}

			cm, err := config.NewConfigManager()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Build once so a non-normal root is reported before anything is saved.
			reg, err := cm.GetConfig().NewRegistry(false)
			if err != nil {
				return err
			}
			if err := reg.Register(f); err != nil {
				return err
			}
			if _, err := reg.Conversion(name); err != nil {
				return err
			}

			if err := cm.AddField(fc); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Added field %s (m=%d) to %s\n", name, exps[0], cm.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&poly, "poly", "", "Field polynomial terms (required)")
	cmd.Flags().StringVar(&root, "root", "", "Normal-basis generator in hex")
	cmd.Flags().StringVar(&seed, "seed", "", "Seed for deriving a generator")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	_ = cmd.MarkFlagRequired("poly")

	return cmd
}

func newFieldsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a user-defined field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := config.NewConfigManager()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cm.RemoveField(args[0]); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Removed field %s\n", args[0])
			return nil
		},
	}
}

// describePolynomial renders a field polynomial as "x^m + ... + 1".
func describePolynomial(p gf2.Polynomial) string {
	var terms []string
	for i := p.Degree(); i >= 0; i-- {
		if p.Bit(i) == 0 {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, "1")
		case 1:
			terms = append(terms, "x")
		default:
			terms = append(terms, fmt.Sprintf("x^%d", i))
		}
	}
	return strings.Join(terms, " + ")
}
