package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MelodiApp/melodia-backoffice-sub000/internal/logging"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct{}

func (testMessage) Type() string { return "melodia.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "melodia.test.invalid" }

func (invalidMessage) Validate() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, execErr) {
		t.Fatalf("expected original cause to propagate, got %v", err)
	}
}

type capturedLog struct {
	fields map[string]any
	events []string
}

type captureLogger struct {
	state  *capturedLog
	fields map[string]any
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{state: &capturedLog{fields: map[string]any{}}}
}

func (l *captureLogger) record(msg string) {
	l.state.events = append(l.state.events, msg)
	for key, value := range l.fields {
		l.state.fields[key] = value
	}
}

func (l *captureLogger) Trace(msg string, _ ...any) { l.record(msg) }
func (l *captureLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *captureLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *captureLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *captureLogger) Error(msg string, _ ...any) { l.record(msg) }
func (l *captureLogger) Fatal(msg string, _ ...any) { l.record(msg) }

func (l *captureLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{state: l.state, fields: merged}
}

func TestHandlerMergesContextFieldsIntoLogs(t *testing.T) {
	capture := newCaptureLogger()
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	}, WithLogger[testMessage](capture), WithOperation[testMessage]("test.run"))

	ctx := logging.ContextWithFields(context.Background(), map[string]any{"request_id": "req-42"})
	if err := h.Execute(ctx, testMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got := capture.state.fields["request_id"]; got != "req-42" {
		t.Fatalf("expected context field propagated, got %v", got)
	}
	if got := capture.state.fields["command"]; got != "melodia.test.message" {
		t.Fatalf("expected command field, got %v", got)
	}
	if got := capture.state.fields["operation"]; got != "test.run" {
		t.Fatalf("expected operation field, got %v", got)
	}
	if len(capture.state.events) == 0 {
		t.Fatal("expected log events")
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}
