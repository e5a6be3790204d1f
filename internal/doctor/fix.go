package doctor

import (
	"fmt"
	"os"

	"github.com/thoreinstein/aigrid/internal/errors"
)

// Fixer is implemented by checks that can repair what they found.
// CanFix and Fix are only meaningful after Run.
type Fixer interface {
	CanFix() bool
	Fix() []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Error       error  `json:"-"`
}

// secureFilePerm is the target permission for configuration files.
const secureFilePerm os.FileMode = 0o644

// secureDirPerm is the target permission for the configuration directory.
const secureDirPerm os.FileMode = 0o755

// PermissionFixer resets the permissions of paths with fixable issues.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix returns true if there are any fixable permission issues.
func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// CountFixable returns the number of distinct paths that can be fixed.
func (f *PermissionFixer) CountFixable() int {
	return len(f.fixablePaths())
}

// Fix applies the target permission to every fixable path once.
func (f *PermissionFixer) Fix() []FixResult {
	var results []FixResult
	for _, is := range f.fixablePaths() {
		results = append(results, fixIssue(is))
	}
	return results
}

func (f *PermissionFixer) fixablePaths() []pathIssue {
	seen := make(map[string]bool)
	var out []pathIssue
	for _, is := range f.issues {
		if !is.Fixable || seen[is.Path] {
			continue
		}
		seen[is.Path] = true
		out = append(out, is)
	}
	return out
}

func fixIssue(issue pathIssue) FixResult {
	result := FixResult{Path: issue.Path}

	var target os.FileMode
	switch issue.Type {
	case "file":
		target = secureFilePerm
	case "directory":
		target = secureDirPerm
	default:
		result.Description = "unknown type: " + issue.Type
		result.Error = errors.Newf("cannot fix unknown type: %s", issue.Type)
		return result
	}

	if err := os.Chmod(issue.Path, target); err != nil {
		result.Description = fmt.Sprintf("failed to chmod %04o: %v", target, err)
		result.Error = errors.Wrapf(err, "chmod %04o %s", target, issue.Path)
		return result
	}

	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o", target)
	return result
}

// setIssues stores the issues found by the last run.
func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}
