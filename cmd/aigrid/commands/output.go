package commands

import (
	"encoding/json"
	"io"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/aigrid/internal/errors"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

// checkFormat rejects a --format value outside allowed.
func checkFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return errors.NewUserError(
		errors.Newf("unsupported format %q", format),
		"Use one of: "+strings.Join(allowed, ", "),
	)
}

// render writes v to w in a structured format. TOML requires v to encode
// as a table.
func render(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding JSON")
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	case formatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(v), "encoding TOML")
	}
	return errors.Newf("unsupported format %q", format)
}
