package stream

import (
	"strings"
	"testing"
	"time"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

func TestNormalizeLifecycleEvents(t *testing.T) {
	cases := []struct {
		raw  interface{}
		want string
	}{
		{&events.Connected{}, "connected"},
		{&events.Disconnected{}, "disconnected"},
		{&events.StreamReplaced{}, "stream_replaced"},
		{&events.KeepAliveRestored{}, "keepalive_restored"},
		{&events.OfflineSyncCompleted{Count: 3}, "offline_sync_completed"},
	}
	for _, c := range cases {
		e := Normalize(c.raw)
		if e["type"] != c.want {
			t.Fatalf("%T: expected type %q, got %v", c.raw, c.want, e["type"])
		}
	}
}

func TestNormalizeMessage(t *testing.T) {
	evt := &events.Message{
		Message:     &waE2E.Message{Conversation: proto.String("hi there")},
		IsEphemeral: true,
		RetryCount:  2,
	}
	e := Normalize(evt)
	if e["type"] != "message" {
		t.Fatalf("type: %v", e["type"])
	}
	if e["is_ephemeral"] != true || e["retry_count"] != 2 {
		t.Fatalf("flags not carried: %v", e)
	}
	msg, ok := e["message"].(map[string]any)
	if !ok {
		t.Fatalf("expected decoded message map, got %#v", e["message"])
	}
	if msg["conversation"] != "hi there" {
		t.Fatalf("message content: %v", msg)
	}
	// Optional payloads stay absent when nil.
	for _, key := range []string{"raw_message", "source_web_msg", "newsletter_meta"} {
		if _, present := e[key]; present {
			t.Fatalf("%s must be omitted when unset", key)
		}
	}
}

func TestNormalizeJoinedGroupNilSender(t *testing.T) {
	sender := types.NewJID("123", types.DefaultUserServer)

	e := Normalize(&events.JoinedGroup{Reason: "invite"})
	if e["type"] != "joined_group" {
		t.Fatalf("type: %v", e["type"])
	}
	if e["sender"] != "" || e["sender_pn"] != "" {
		t.Fatalf("nil identifier pointers must render empty: %v", e)
	}

	e = Normalize(&events.JoinedGroup{Sender: &sender})
	if e["sender"] != "123@s.whatsapp.net" {
		t.Fatalf("sender: %v", e["sender"])
	}
}

func TestNormalizeMediaRetry(t *testing.T) {
	evt := &events.MediaRetry{
		Ciphertext: []byte{1, 2, 3},
		Timestamp:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		MessageID:  types.MessageID("MID"),
		ChatID:     types.NewJID("group", types.GroupServer),
		SenderID:   types.NewJID("123", types.DefaultUserServer),
		FromMe:     true,
	}
	e := Normalize(evt)
	if e["type"] != "media_retry" {
		t.Fatalf("type: %v", e["type"])
	}
	if e["ciphertext_b64"] != "AQID" {
		t.Fatalf("ciphertext: %v", e["ciphertext_b64"])
	}
	if e["iv_b64"] != "" {
		t.Fatalf("empty binary must encode as empty string: %v", e["iv_b64"])
	}
	if e["timestamp"] != "2024-05-01T12:00:00Z" {
		t.Fatalf("timestamp: %v", e["timestamp"])
	}
	if _, present := e["error"]; present {
		t.Fatal("error must be omitted when unset")
	}

	evt.Error = &events.MediaRetryError{Code: 2}
	e = Normalize(evt)
	errMap, ok := e["error"].(map[string]any)
	if !ok || errMap["code"] != 2 {
		t.Fatalf("error: %#v", e["error"])
	}
}

type unrecognizedEvent struct{}

func TestNormalizeUnknownFallback(t *testing.T) {
	e := Normalize(&unrecognizedEvent{})
	typ, ok := e["type"].(string)
	if !ok || !strings.HasPrefix(typ, "unknown:") {
		t.Fatalf("expected unknown fallback, got %v", e["type"])
	}
	if !strings.Contains(typ, "unrecognizedEvent") {
		t.Fatalf("fallback should carry the concrete type: %v", typ)
	}
}
