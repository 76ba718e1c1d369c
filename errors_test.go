package axle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestNewError(t *testing.T) {
	err := NewError(CodeTypeMismatch, "cannot use string as int")
	if err.Code != CodeTypeMismatch {
		t.Errorf("expected code %s, got %s", CodeTypeMismatch, err.Code)
	}
	if err.Message != "cannot use string as int" {
		t.Errorf("expected message 'cannot use string as int', got %s", err.Message)
	}
	if err.Unwrap() != nil {
		t.Errorf("expected no cause, got %v", err.Unwrap())
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(CodeStreamFailure, "source %s failed", "ticks")
	if err.Code != CodeStreamFailure {
		t.Errorf("expected code %s, got %s", CodeStreamFailure, err.Code)
	}
	if err.Message != "source ticks failed" {
		t.Errorf("expected formatted message, got %s", err.Message)
	}
}

func TestErrorf_RecordsCause(t *testing.T) {
	err := Errorf(CodeInternal, "read: %w", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected errors.Is to find the wrapped cause")
	}
	if err.Message != "read: unexpected EOF" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestErrorError(t *testing.T) {
	err := NewError(CodeInternal, "something went wrong")
	expected := "internal: something went wrong"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestWithDetail(t *testing.T) {
	base := NewError(CodeTypeMismatch, "mismatch")
	withType := base.WithDetail("type", "int")
	both := withType.WithDetail("slot", 0)

	if base.Details != nil {
		t.Errorf("WithDetail modified the receiver: %v", base.Details)
	}
	if len(withType.Details) != 1 || withType.Details["type"] != "int" {
		t.Errorf("unexpected details %v", withType.Details)
	}
	if len(both.Details) != 2 || both.Details["slot"] != 0 {
		t.Errorf("unexpected details %v", both.Details)
	}
	if both.Code != CodeTypeMismatch || both.Message != "mismatch" {
		t.Errorf("WithDetail changed code or message: %v", both)
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name  string
		input error
		want  ErrorCode
	}{
		{name: "nil", input: nil, want: ""},
		{name: "runtime error", input: NewError(CodeNilCause, "x"), want: CodeNilCause},
		{name: "wrapped runtime error", input: fmt.Errorf("op: %w", NewError(CodeStreamFailure, "x")), want: CodeStreamFailure},
		{name: "canceled", input: context.Canceled, want: CodeCanceled},
		{name: "deadline", input: fmt.Errorf("wait: %w", context.DeadlineExceeded), want: CodeDeadlineExceeded},
		{name: "other", input: io.EOF, want: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.input); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}
