package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/store"
	"github.com/thoreinstein/aigrid/internal/validator"
)

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false,
		"output the result as JSON")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration files",
	Long: `Load settings.json and ai_apps.json, merge them and check the result
against the configuration schema. Every problem found is reported.

Exit codes:
  0 - Configuration is valid
  1 - Configuration is missing, malformed or invalid
  2 - The configuration directory could not be read`,
	Example: `  # Validate the default configuration
  aigrid validate

  # Machine-readable output
  aigrid validate --json

See Also: aigrid doctor, aigrid init`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}

	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}

	_, issues, err := s.Load()
	if err != nil && len(issues) == 0 {
		return errors.NewSystemError(err, "Check permissions on "+s.Dir())
	}

	if rerr := validator.NewReporter(cmd.OutOrStdout(), format).Report(&validator.Result{Issues: issues}); rerr != nil {
		return rerr
	}
	if err != nil {
		// The report already describes the failure.
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

// loadDocument loads the configuration for commands that need a valid
// one, turning each failure into an ExitError whose message lists the
// issues.
func loadDocument(s *store.Store) (document.Document, error) {
	doc, issues, err := s.Load()
	if err == nil {
		return doc, nil
	}
	if len(issues) == 0 {
		return nil, errors.NewSystemError(err, "Check permissions on "+s.Dir())
	}

	msg := issues[0].Message
	if len(issues) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(issues)-1)
	}

	hint := "Run: aigrid validate"
	switch {
	case errors.Is(err, errors.ErrMissingFile):
		hint = "Run: aigrid init"
	case errors.Is(err, errors.ErrParseFailure):
		hint = "Run: aigrid config edit"
	}
	return nil, errors.NewUserError(errors.Wrap(err, msg), hint)
}
