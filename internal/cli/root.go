package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// LogLevel is the level of the process logger. main hands it to the slog
// handler; --verbose lowers it to debug.
var LogLevel = new(slog.LevelVar)

func init() {
	LogLevel.Set(slog.LevelWarn)
}

// NewRootCommand assembles the nbconv command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nbconv",
		Short: "Convert GF(2^m) elements between polynomial and normal basis",
		Long: `nbconv converts binary-field elements and elliptic-curve points between
polynomial basis and normal basis.

For a field GF(2^m) with normal-basis generator γ, the change-of-basis matrix
has γ^(2^i) as row i. nbconv builds it once per field, inverts it over GF(2),
and converts values with a single vector-matrix product.

Features:
- SEC 2 binary fields (sect163 to sect571) built in
- User-defined fields in the config file
- Deterministic generator search for fields without a published root
- LSB-first or MSB-first normal-basis bit layout
- Parallel batch conversion of curve points`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				LogLevel.Set(slog.LevelDebug)
			}
		},
	}

	rootCmd.AddCommand(
		NewConvertCommand(),
		NewPointCommand(),
		NewMatrixCommand(),
		NewFieldsCommand(),
		NewGeneratorCommand(),
		NewSelfTestCommand(),
		NewConfigCommand(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")

	return rootCmd
}
