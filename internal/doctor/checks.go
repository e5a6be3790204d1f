package doctor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/aigrid/internal/document"
	"github.com/thoreinstein/aigrid/internal/errors"
	"github.com/thoreinstein/aigrid/internal/registry"
	"github.com/thoreinstein/aigrid/internal/store"
)

const initHint = "Run: aigrid init"

// DirectoryCheck verifies that the configuration directory exists and is
// writable.
type DirectoryCheck struct {
	dir string
}

var _ Check = (*DirectoryCheck)(nil)

// NewDirectoryCheck creates a check for dir.
func NewDirectoryCheck(dir string) *DirectoryCheck {
	return &DirectoryCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *DirectoryCheck) Name() string { return "config-dir" }

// Category returns the grouping for this check.
func (c *DirectoryCheck) Category() string { return "filesystem" }

// Run executes the check.
func (c *DirectoryCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.dir},
	}

	info, err := os.Stat(c.dir)
	switch {
	case os.IsNotExist(err):
		result.Status = SeverityError
		result.Message = "configuration directory does not exist"
		result.FixHint = initHint
		return result
	case err != nil:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat configuration directory: %v", err)
		return result
	case !info.IsDir():
		result.Status = SeverityError
		result.Message = "expected directory but found file"
		return result
	}

	result.Details["permissions"] = formatPermissions(info.Mode())
	if !isDirectoryWritable(c.dir) {
		result.Status = SeverityWarning
		result.Message = "configuration directory is not writable; save and init will fail"
		result.FixHint = "chmod u+w " + c.dir
		return result
	}

	result.Status = SeverityPass
	result.Message = "configuration directory is usable"
	return result
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) bool {
	tmp, err := os.CreateTemp(path, ".aigrid-doctor-*")
	if err != nil {
		return false
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)
	return true
}

// FileSyntaxCheck verifies that each configuration file exists and holds a
// JSON object.
type FileSyntaxCheck struct {
	paths []string
}

var _ Check = (*FileSyntaxCheck)(nil)

// NewFileSyntaxCheck creates a check for the given files.
func NewFileSyntaxCheck(paths ...string) *FileSyntaxCheck {
	return &FileSyntaxCheck{paths: paths}
}

// Name returns the unique identifier for this check.
func (c *FileSyntaxCheck) Name() string { return "config-syntax" }

// Category returns the grouping for this check.
func (c *FileSyntaxCheck) Category() string { return "config" }

// syntaxFileResult represents the validation result for a single file.
type syntaxFileResult struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Run executes the check.
func (c *FileSyntaxCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  make(map[string]any),
	}

	var files []syntaxFileResult
	var missing, broken int
	for _, path := range c.paths {
		fr := validateJSONFile(path)
		switch fr.Status {
		case "missing":
			missing++
		case "error":
			broken++
		}
		files = append(files, fr)
	}
	result.Details["files"] = files

	switch {
	case missing > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d configuration file(s) missing", missing)
		result.FixHint = initHint
	case broken > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d configuration file(s) have syntax errors", broken)
		result.FixHint = "review the error details and fix the syntax in each file"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d configuration file(s) parsed successfully", len(files))
	}
	return result
}

func validateJSONFile(path string) syntaxFileResult {
	fr := syntaxFileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fr.Status = "missing"
			fr.Message = "file does not exist"
			return fr
		}
		fr.Status = "error"
		fr.Message = fmt.Sprintf("read error: %v", err)
		return fr
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		fr.Status = "error"
		fr.Message = formatJSONError(err, data)
		return fr
	}
	if _, ok := v.(map[string]any); !ok {
		fr.Status = "error"
		fr.Message = fmt.Sprintf("top-level value must be an object, got %s", document.TypeName(v))
		return fr
	}

	fr.Status = "pass"
	return fr
}

// SchemaCheck loads the configuration pair and reports schema issues.
type SchemaCheck struct {
	dir string
}

var _ Check = (*SchemaCheck)(nil)

// NewSchemaCheck creates a check for the configuration in dir.
func NewSchemaCheck(dir string) *SchemaCheck {
	return &SchemaCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *SchemaCheck) Name() string { return "config-schema" }

// Category returns the grouping for this check.
func (c *SchemaCheck) Category() string { return "config" }

// Run executes the check.
func (c *SchemaCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	s := store.New(c.dir, store.WithLogger(slog.New(slog.DiscardHandler)))
	doc, issues, err := s.Load()
	switch {
	case err == nil:
		result.Status = SeverityPass
		if len(doc.Apps()) == 0 {
			result.Message = "configuration is valid (no ai_apps entries; using the built-in table)"
			result.Details = map[string]any{"services": 0}
			return result
		}
		enabled := registry.FromDocument(doc).Len()
		result.Message = fmt.Sprintf("configuration is valid (%d enabled service(s))", enabled)
		result.Details = map[string]any{"services": enabled}
		return result

	case errors.Is(err, errors.ErrMissingFile), errors.Is(err, errors.ErrParseFailure):
		result.Status = SeverityInfo
		result.Message = "skipped: configuration files could not be read"
		return result

	case errors.Is(err, errors.ErrSchemaViolation):
		result.Status = SeverityError
		result.Message = fmt.Sprintf("configuration has %d schema error(s)", len(issues))
		result.Details = map[string]any{"issues": issues}
		result.FixHint = "Run: aigrid validate"
		return result

	default:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot load configuration: %v", err)
		return result
	}
}

// ToolConfigCheck verifies the syntax of the tool configuration file.
// YAML, TOML and JSON are recognized by extension.
type ToolConfigCheck struct {
	path string
}

var _ Check = (*ToolConfigCheck)(nil)

// NewToolConfigCheck creates a check for path. An empty path means no
// file is in use.
func NewToolConfigCheck(path string) *ToolConfigCheck {
	return &ToolConfigCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *ToolConfigCheck) Name() string { return "tool-config" }

// Category returns the grouping for this check.
func (c *ToolConfigCheck) Category() string { return "config" }

// Run executes the check.
func (c *ToolConfigCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.path == "" {
		result.Status = SeverityInfo
		result.Message = "no tool configuration file; using defaults"
		return result
	}
	result.Details = map[string]any{"path": c.path}

	data, err := os.ReadFile(c.path)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("read error: %v", err)
		return result
	}

	var v any
	switch strings.ToLower(filepath.Ext(c.path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &v); err != nil {
			result.Status = SeverityError
			result.Message = formatTOMLError(err)
			return result
		}
	case ".json":
		if err := json.Unmarshal(data, &v); err != nil {
			result.Status = SeverityError
			result.Message = formatJSONError(err, data)
			return result
		}
	default:
		if err := yaml.Unmarshal(data, &v); err != nil {
			result.Status = SeverityError
			result.Message = fmt.Sprintf("YAML error: %v", err)
			return result
		}
	}

	result.Status = SeverityPass
	result.Message = "tool configuration parsed successfully"
	return result
}

// PermissionCheck flags world-writable configuration files and
// directories. The issues it finds can be repaired through its
// PermissionFixer.
type PermissionCheck struct {
	PermissionFixer
	dir   string
	files []string
}

var (
	_ Check = (*PermissionCheck)(nil)
	_ Fixer = (*PermissionCheck)(nil)
)

// NewPermissionCheck creates a check for dir and the files inside it.
func NewPermissionCheck(dir string, files ...string) *PermissionCheck {
	return &PermissionCheck{dir: dir, files: files}
}

// Name returns the unique identifier for this check.
func (c *PermissionCheck) Name() string { return "permissions" }

// Category returns the grouping for this check.
func (c *PermissionCheck) Category() string { return "filesystem" }

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

// Run executes the check.
func (c *PermissionCheck) Run() *CheckResult {
	var issues []pathIssue
	checked := 0

	if runtime.GOOS != "windows" {
		for _, target := range append([]string{c.dir}, c.files...) {
			info, err := os.Stat(target)
			if err != nil {
				continue
			}
			checked++
			issues = append(issues, checkMode(target, info)...)
		}
	}
	c.setIssues(issues)

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}
	if len(issues) == 0 {
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("all %d path(s) have safe permissions", checked)
		return result
	}

	result.Status = SeverityWarning
	var hints []string
	details := make([]map[string]any, 0, len(issues))
	for _, is := range issues {
		if is.Severity > result.Status {
			result.Status = is.Severity
		}
		if is.Fixable {
			result.Fixable = true
		}
		hints = append(hints, is.FixHint)
		details = append(details, map[string]any{
			"path":        is.Path,
			"type":        is.Type,
			"problem":     is.Problem,
			"permissions": is.Permissions,
		})
	}
	result.Message = fmt.Sprintf("found %d permission issue(s) across %d path(s)", len(issues), checked)
	result.Details = map[string]any{"issues": details}
	result.FixHint = strings.Join(hints, "; ")
	return result
}

func checkMode(path string, info os.FileInfo) []pathIssue {
	perm := info.Mode().Perm()
	kind, target := "file", secureFilePerm
	if info.IsDir() {
		kind, target = "directory", secureDirPerm
	}

	var issues []pathIssue
	if perm&0o400 == 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        kind,
			Problem:     kind + " is not readable by its owner",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     fmt.Sprintf("chmod %o %s", target, path),
		})
	}
	if perm&0o002 != 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        kind,
			Problem:     kind + " is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     fmt.Sprintf("chmod %o %s", target, path),
		})
	}
	return issues
}

// formatPermissions returns a human-readable permission string (e.g., "0644").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}

// formatJSONError extracts position information from JSON syntax errors.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}
	return fmt.Sprintf("JSON error: %v", err)
}

// formatTOMLError extracts position information from TOML decode errors.
func formatTOMLError(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}
	return fmt.Sprintf("TOML error: %v", err)
}

// offsetToLineCol converts a byte offset to 1-indexed line and column.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = max(0, min(offset, len(data)))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}
