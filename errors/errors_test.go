package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestUnknownMethodMentionsName(t *testing.T) {
	err := UnknownMethod("SendMesage")
	if !strings.Contains(err.Error(), "SendMesage") {
		t.Fatalf("message should mention method name: %q", err.Error())
	}
	if err.Kind != KindUnknownMethod {
		t.Fatalf("wrong kind: %s", err.Kind)
	}
}

func TestArgumentCarriesPosition(t *testing.T) {
	cause := stderrors.New("cannot decode string into int")
	err := Argument("Download", 2, cause)
	if err.Position != 2 {
		t.Fatalf("expected position 2, got %d", err.Position)
	}
	if !strings.Contains(err.Error(), "arg 2") {
		t.Fatalf("message should name the position: %q", err.Error())
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Fatalf("message should carry the cause: %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("Unwrap chain should reach the cause")
	}
}

func TestMissingArgument(t *testing.T) {
	err := MissingArgument("SendMessage", 1)
	if !strings.Contains(err.Error(), "missing argument 1 for SendMessage") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestHandleNotFound(t *testing.T) {
	err := HandleNotFound("client")
	if err.Error() != "client handle not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestNativeNilPassthrough(t *testing.T) {
	if Native(nil) != nil {
		t.Fatal("Native(nil) should be nil")
	}
	err := Native(stderrors.New("websocket disconnected"))
	if err.Error() != "websocket disconnected" {
		t.Fatalf("native error should render as the cause alone: %q", err.Error())
	}
}

func TestIsMatchesPhaseAndKind(t *testing.T) {
	a := New(PhaseDispatch, KindArgumentError).Detail("arg 0").Build()
	b := New(PhaseDispatch, KindArgumentError).Build()
	c := New(PhaseRegistry, KindHandleNotFound).Build()

	if !stderrors.Is(a, b) {
		t.Fatal("same phase and kind should match")
	}
	if stderrors.Is(a, c) {
		t.Fatal("different phase and kind should not match")
	}
}

func TestBuilderMethodSuffix(t *testing.T) {
	err := New(PhaseDispatch, KindArgumentError).
		Method("Upload").
		Detail("argument count mismatch").
		Build()
	if !strings.Contains(err.Error(), "Upload") {
		t.Fatalf("method name should appear: %q", err.Error())
	}
}
