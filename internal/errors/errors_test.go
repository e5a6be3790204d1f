package errors

import (
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "resource not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(Wrap(ErrSchemaViolation, "loading settings"), ExitUser),
			want: "loading settings: configuration does not match schema",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"direct sentinel", NewExitError(ErrMissingFile, ExitUser), ErrMissingFile, true},
		{"wrapped sentinel", NewUserError(Wrapf(ErrParseFailure, "reading %s", "settings.json"), ""), ErrParseFailure, true},
		{"fmt wrapped", fmt.Errorf("save: %w", ErrWriteFailure), ErrWriteFailure, true},
		{"different sentinel", NewExitError(ErrMissingFile, ExitUser), ErrParseFailure, false},
		{"nil underlying", NewExitError(nil, ExitUser), ErrNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.target); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"user error", NewUserError(ErrInvalidConfig, "fix it"), ExitUser},
		{"wrapped system error", Wrap(NewSystemError(ErrWriteFailure, ""), "saving"), ExitSystem},
		{"config error", NewConfigError(ErrMissingFile), ExitUser},
		{"plain error", New("boom"), ExitSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewConfigError_Suggestion(t *testing.T) {
	e := NewConfigError(ErrMissingFile)
	if e.Suggestion != "Run: aigrid doctor" {
		t.Errorf("Suggestion = %q, want %q", e.Suggestion, "Run: aigrid doctor")
	}
	if e.Code != ExitUser {
		t.Errorf("Code = %d, want %d", e.Code, ExitUser)
	}
}
