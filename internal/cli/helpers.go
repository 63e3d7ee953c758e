package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/Davincible/nbconv/internal/validation"
	"github.com/Davincible/nbconv/pkg/basis"
	"github.com/Davincible/nbconv/pkg/config"
	"github.com/Davincible/nbconv/pkg/curves"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// session bundles what every conversion command needs: the loaded config,
// the field registry built from it, and the resolved per-invocation settings.
type session struct {
	manager  *config.ConfigManager
	config   *config.Config
	registry *curves.Registry

	field       string
	format      string
	reverseBits bool
}

// addFieldFlags registers the flags shared by conversion commands. Empty or
// unchanged flags fall back to the config defaults.
func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("field", "f", "", "Field name (default from config)")
	cmd.Flags().String("format", "", "Element format: hex or dec (default from config)")
	cmd.Flags().Bool("reverse-bits", false, "Use the MSB-first normal-basis layout")
}

// openSession loads the config and builds the registry for cmd.
func openSession(cmd *cobra.Command) (*session, error) {
	cm, err := config.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := cm.GetConfig()

	if !cfg.UI.UseColor {
		color.NoColor = true
	}

	s := &session{
		manager:     cm,
		config:      cfg,
		field:       cfg.Defaults.Field,
		format:      cfg.Defaults.Format,
		reverseBits: cfg.Defaults.ReverseBits,
	}

	if f := cmd.Flags().Lookup("field"); f != nil && f.Value.String() != "" {
		s.field = f.Value.String()
	}
	if f := cmd.Flags().Lookup("format"); f != nil && f.Value.String() != "" {
		s.format = f.Value.String()
	}
	if cmd.Flags().Changed("reverse-bits") {
		s.reverseBits, _ = cmd.Flags().GetBool("reverse-bits")
	}

	if s.format != "hex" && s.format != "dec" {
		return nil, fmt.Errorf("unknown format '%s', expected hex or dec", s.format)
	}
	if err := validation.ValidateFieldName(s.field); err != nil {
		return nil, err
	}

	s.registry, err = cfg.NewRegistry(s.reverseBits)
	if err != nil {
		return nil, fmt.Errorf("failed to build field registry: %w", err)
	}

	return s, nil
}

func (s *session) conversion() (*basis.Conversion, error) {
	return s.registry.Conversion(s.field)
}

// parse reads a field element in the session format and checks it fits.
func (s *session) parse(input string, degree int) (*big.Int, error) {
	e, err := validation.ParseElement(validation.SanitizeInput(input), s.format)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateElement(e, degree); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *session) formatElement(e *big.Int, degree int) string {
	return formatElement(e, s.format, degree)
}

// formatElement renders e as zero-padded hex sized to the field, or decimal.
func formatElement(e *big.Int, format string, degree int) string {
	if format == "dec" {
		return e.Text(10)
	}
	digits := (degree + 3) / 4
	return fmt.Sprintf("0x%0*x", digits, e)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// prompter reads values line by line from the command input, printing a
// prompt first when stdin is a terminal.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) read(prompt string) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(p.cmd.ErrOrStderr(), prompt)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("input cannot be empty")
	}
	return line, nil
}
