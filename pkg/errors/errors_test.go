// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/unclepomedev/blender-init/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "conflict_error",
			code:    errors.ErrConflict,
			message: "path already exists",
			wantStr: "[CONFLICT] path already exists",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid add-on name",
			wantStr: "[INVALID_INPUT] invalid add-on name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrBadStatus, "unexpected status %d from %s", 404, "codeload.github.com")
	wantMsg := "unexpected status 404 from codeload.github.com"

	if err.Message != wantMsg {
		t.Errorf("Newf() message = %q, want %q", err.Message, wantMsg)
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("connection refused")
	err := errors.Wrap(base, errors.ErrDownloadFailed, "failed to download template")

	if err.Code != errors.ErrDownloadFailed {
		t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrDownloadFailed)
	}

	if !stderrors.Is(err, base) {
		t.Error("Wrap() should preserve the wrapped error for errors.Is")
	}

	wantStr := "[DOWNLOAD_FAILED] failed to download template: connection refused"
	if got := err.Error(); got != wantStr {
		t.Errorf("Error() = %q, want %q", got, wantStr)
	}
}

func TestWrapNil(t *testing.T) {
	if err := errors.Wrap(nil, errors.ErrInternal, "should be nil"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := errors.Wrapf(nil, errors.ErrInternal, "should be %s", "nil"); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
}

func TestIs(t *testing.T) {
	err := errors.New(errors.ErrConflict, "README.md already exists")
	target := errors.New(errors.ErrConflict, "different message, same code")

	if !stderrors.Is(err, target) {
		t.Error("errors with the same code should match via errors.Is")
	}

	other := errors.New(errors.ErrDownloadFailed, "unrelated")
	if stderrors.Is(err, other) {
		t.Error("errors with different codes should not match")
	}
}

func TestIsErrorCode(t *testing.T) {
	wrapped := errors.Wrap(
		errors.New(errors.ErrConflict, "main.py already exists"),
		errors.ErrInternal, "scaffold failed")

	if !errors.IsErrorCode(wrapped, errors.ErrInternal) {
		t.Error("IsErrorCode should match the outermost code")
	}

	if errors.IsErrorCode(stderrors.New("plain"), errors.ErrConflict) {
		t.Error("IsErrorCode should not match plain errors")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrArchiveLayout, "no top-level dir")); got != errors.ErrArchiveLayout {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrArchiveLayout)
	}

	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(plain) = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrConflict, "existing paths found").
		WithDetail("count", 2).
		WithDetail("first", "README.md")

	details := errors.GetErrorDetails(err)
	if details["count"] != 2 {
		t.Errorf("detail count = %v, want 2", details["count"])
	}
	if details["first"] != "README.md" {
		t.Errorf("detail first = %v, want README.md", details["first"])
	}
}
