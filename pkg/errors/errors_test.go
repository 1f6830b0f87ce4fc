package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOutOfRangeString(t *testing.T) {
	err := OutOfRange("adapter.ItemAt", 7, 3)
	got := err.Error()
	want := "adapter.ItemAt [out_of_range] position=7 count=3: position out of range"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, ErrOutOfRange) {
		t.Error("expected errors.Is(err, ErrOutOfRange)")
	}
	if stderrors.Is(err, ErrInvalidState) {
		t.Error("out of range error should not match ErrInvalidState")
	}
}

func TestInvalidStateUnwraps(t *testing.T) {
	err := InvalidState("adapter.UnregisterObserver", "no observers registered")
	if !stderrors.Is(err, ErrInvalidState) {
		t.Error("expected errors.Is(err, ErrInvalidState)")
	}
	if !strings.Contains(err.Error(), "no observers registered") {
		t.Errorf("error string %q should contain the reason", err.Error())
	}

	var ae *AdapterError
	if !stderrors.As(err, &ae) || ae.Kind != KindInvalidState {
		t.Errorf("expected *AdapterError with KindInvalidState, got %#v", ae)
	}
	if !strings.Contains(ae.StackTrace, "TestInvalidStateUnwraps") {
		t.Errorf("stack trace should start at the caller, got: %s", ae.StackTrace)
	}
	if ae.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestInvalidConfig(t *testing.T) {
	cause := stderrors.New("items must not be negative")
	err := InvalidConfig("scenario.Resolve", cause)
	if got, want := err.Error(), "scenario.Resolve [config]: items must not be negative"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}
	if stderrors.Is(err, ErrInvalidState) {
		t.Error("config error should not match ErrInvalidState")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindOutOfRange, "out_of_range"},
		{KindInvalidState, "invalid_state"},
		{KindConfig, "config"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	err.Op = "host.Layout"
	if got, want := err.Error(), "panic in host.Layout: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *AdapterError
	handler := &testHandler{
		onError: func(err *AdapterError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(OutOfRange("host.Layout", 4, 2))

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "host.Layout" {
		t.Errorf("Op = %q, want %q", captured.Op, "host.Layout")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	var callbackValue any
	func() {
		defer RecoverWithCallback("test.recover", func(r any) { callbackValue = r })
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if callbackValue != "intentional test panic" {
		t.Errorf("callback got %v", callbackValue)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandlerVerbosePrintsStack(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf, Verbose: true}

	h.HandleError(InvalidState("adapter.UnregisterObserver", "unknown observer"))

	out := buf.String()
	if !strings.Contains(out, "Stack trace:") || !strings.Contains(out, "TestLogHandlerVerbosePrintsStack") {
		t.Errorf("verbose output should carry the stack, got %q", out)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf}

	h.HandleError(InvalidState("adapter.RegisterObserver", "nil observer"))
	h.HandlePanic(&PanicError{Op: "host.Layout", Value: "boom"})

	out := buf.String()
	if !strings.Contains(out, "[listbind error] adapter.RegisterObserver") {
		t.Errorf("missing error line in %q", out)
	}
	if !strings.Contains(out, "[listbind panic] host.Layout: boom") {
		t.Errorf("missing panic line in %q", out)
	}
}

func TestZapHandler(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewZapHandler(zap.New(core))

	h.HandleError(OutOfRange("adapter.ItemAt", 9, 1))
	h.HandlePanic(&PanicError{Op: "host.Layout", Value: "boom"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["op"] != "adapter.ItemAt" {
		t.Errorf("op field = %v", fields["op"])
	}
	if fields["position"] != int64(9) {
		t.Errorf("position field = %v (%T)", fields["position"], fields["position"])
	}
	if _, ok := fields["stack"]; ok {
		t.Error("out of range errors carry no stack")
	}
	if entries[1].Message != "recovered panic" {
		t.Errorf("second entry message = %q", entries[1].Message)
	}
}

func TestZapHandlerInvalidStateStack(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	NewZapHandler(zap.New(core)).HandleError(InvalidState("adapter.RegisterObserver", "nil observer"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	stack, _ := entries[0].ContextMap()["stack"].(string)
	if !strings.Contains(stack, "TestZapHandlerInvalidStateStack") {
		t.Errorf("stack field = %q", stack)
	}
}

type testHandler struct {
	onError func(*AdapterError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *AdapterError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
