package herrors

import (
	stdErrors "errors"
	"strings"
	"testing"
)

func TestConstructorsSetKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
	}{
		{"ArgumentInvalid", ArgumentInvalid("op", stdErrors.New("x")), KindArgumentInvalid},
		{"Cancelled", Cancelled("op"), KindCancelled},
		{"EndOfStream", EndOfStream("op", stdErrors.New("x")), KindEndOfStream},
		{"ProtocolViolation", ProtocolViolation("op", "reason"), KindProtocolViolation},
		{"SerializerError", SerializerError("op", stdErrors.New("x")), KindSerializerError},
		{"TransportError", TransportError("op", stdErrors.New("x")), KindTransportError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, ok := As(c.err)
			if !ok {
				t.Fatalf("As failed for %v", c.err)
			}
			if e.Kind != c.kind {
				t.Fatalf("got kind %v want %v", e.Kind, c.kind)
			}
		})
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := ProtocolViolation("header.decode", "bad magic")
	if !Is(err, KindProtocolViolation) {
		t.Fatal("expected Is to match ProtocolViolation")
	}
	if Is(err, KindTransportError) {
		t.Fatal("expected Is not to match a different kind")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := TransportError("chunk.send", cause)

	e, ok := As(err)
	if !ok {
		t.Fatal("expected *Error")
	}
	if !stdErrors.Is(e, cause) {
		t.Fatal("expected Unwrap to expose the original cause")
	}
}

func TestAsRejectsUnrelatedError(t *testing.T) {
	if _, ok := As(stdErrors.New("plain error")); ok {
		t.Fatal("expected As to fail for a non-hyperion error")
	}
}

func TestErrorMessageIncludesOpAndKind(t *testing.T) {
	err := Cancelled("chunk.receive")
	msg := err.Error()
	if !strings.Contains(msg, "chunk.receive") || !strings.Contains(msg, "Cancelled") {
		t.Fatalf("expected op and kind in message, got %q", msg)
	}
}

func TestKindStringCoversAllKinds(t *testing.T) {
	kinds := []Kind{
		KindArgumentInvalid, KindCancelled, KindEndOfStream,
		KindProtocolViolation, KindSerializerError, KindTransportError,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		if s == "" || s == "Unknown" {
			t.Fatalf("kind %d stringified to %q", k, s)
		}
		seen[s] = true
	}
	if len(seen) != len(kinds) {
		t.Fatal("expected every kind to stringify uniquely")
	}
}
