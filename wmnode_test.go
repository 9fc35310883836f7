package wmnode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/types"
)

type response struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func decodeResponse(t *testing.T, raw string) response {
	t.Helper()
	var resp response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v (raw: %s)", err, raw)
	}
	return resp
}

func dataField(t *testing.T, resp response, key string) any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(resp.Data, &m); err != nil {
		t.Fatalf("data is not an object: %v", err)
	}
	return m[key]
}

func handleOf(t *testing.T, raw string) uint64 {
	t.Helper()
	resp := decodeResponse(t, raw)
	if !resp.Ok {
		t.Fatalf("expected success, got error: %s", resp.Error)
	}
	h, ok := dataField(t, resp, "handle").(float64)
	if !ok {
		t.Fatalf("no handle in response data: %s", resp.Data)
	}
	return uint64(h)
}

// fakeContainer backs container operations in tests without a database.
type fakeContainer struct {
	devices []*store.Device
	byJID   map[string]*store.Device
	closed  bool
	openErr error
}

func (f *fakeContainer) GetFirstDevice(ctx context.Context) (*store.Device, error) {
	if len(f.devices) == 0 {
		return &store.Device{}, nil
	}
	return f.devices[0], nil
}

func (f *fakeContainer) GetAllDevices(ctx context.Context) ([]*store.Device, error) {
	return f.devices, nil
}

func (f *fakeContainer) GetDevice(ctx context.Context, jid types.JID) (*store.Device, error) {
	return f.byJID[jid.String()], nil
}

func (f *fakeContainer) Close() error {
	f.closed = true
	return nil
}

func withFakeContainer(t *testing.T, fake *fakeContainer) {
	t.Helper()
	prev := sqlstoreNew
	sqlstoreNew = func(ctx context.Context, dialect, address string) (container, error) {
		if fake.openErr != nil {
			return nil, fake.openErr
		}
		return fake, nil
	}
	t.Cleanup(func() { sqlstoreNew = prev })
}

func TestOpenContainerRequiresDialectAndAddress(t *testing.T) {
	resp := decodeResponse(t, OpenContainer(`{"dialect":"sqlite3"}`))
	if resp.Ok {
		t.Fatal("expected failure for missing address")
	}
	if !strings.Contains(resp.Error, "required") {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
}

func TestOpenContainerMalformedRequest(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"dialect":`} {
		resp := decodeResponse(t, OpenContainer(raw))
		if resp.Ok {
			t.Fatalf("expected failure for %q", raw)
		}
		if !strings.Contains(resp.Error, "invalid json") {
			t.Fatalf("unexpected error for %q: %s", raw, resp.Error)
		}
	}
}

func TestOpenContainerNativeFailure(t *testing.T) {
	fake := &fakeContainer{openErr: fmt.Errorf("dial tcp: connection refused")}
	withFakeContainer(t, fake)

	resp := decodeResponse(t, OpenContainer(`{"dialect":"postgres","address":"postgres://nope"}`))
	if resp.Ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(resp.Error, "connection refused") {
		t.Fatalf("native error not propagated: %s", resp.Error)
	}
}

func TestContainerDeviceFlow(t *testing.T) {
	devA := &store.Device{}
	devB := &store.Device{}
	fake := &fakeContainer{
		devices: []*store.Device{devA, devB},
		byJID:   map[string]*store.Device{"12345@s.whatsapp.net": devA},
	}
	withFakeContainer(t, fake)

	ch := handleOf(t, OpenContainer(`{"dialect":"sqlite3","address":"file:test.db"}`))

	dh := handleOf(t, ContainerGetFirstDevice(fmt.Sprintf(`{"handle":%d}`, ch)))
	if dh == ch {
		t.Fatal("device handle must differ from container handle")
	}
	if dev, err := lookupDevice(dh); err != nil || dev != devA {
		t.Fatalf("first device not registered: %v", err)
	}

	resp := decodeResponse(t, ContainerGetAllDevices(fmt.Sprintf(`{"handle":%d}`, ch)))
	if !resp.Ok {
		t.Fatalf("get all devices failed: %s", resp.Error)
	}
	handles, ok := dataField(t, resp, "handles").([]any)
	if !ok || len(handles) != 2 {
		t.Fatalf("expected 2 device handles, got %v", handles)
	}

	resp = decodeResponse(t, ContainerGetDevice(fmt.Sprintf(`{"handle":%d,"jid":"12345@s.whatsapp.net"}`, ch)))
	if !resp.Ok {
		t.Fatalf("get device failed: %s", resp.Error)
	}
	if found := dataField(t, resp, "found"); found != true {
		t.Fatalf("expected found=true, got %v", found)
	}

	resp = decodeResponse(t, ContainerGetDevice(fmt.Sprintf(`{"handle":%d,"jid":"99999@s.whatsapp.net"}`, ch)))
	if !resp.Ok {
		t.Fatalf("get device failed: %s", resp.Error)
	}
	if found := dataField(t, resp, "found"); found != false {
		t.Fatalf("absent device must report found=false, got %v", found)
	}

	resp = decodeResponse(t, ContainerGetDevice(fmt.Sprintf(`{"handle":%d,"jid":"not a jid"}`, ch)))
	if resp.Ok {
		t.Fatal("malformed identifier must fail")
	}

	resp = decodeResponse(t, Release(fmt.Sprintf(`{"handle":%d}`, ch)))
	if !resp.Ok {
		t.Fatalf("release failed: %s", resp.Error)
	}
	if !fake.closed {
		t.Fatal("releasing the container must close it")
	}
}

func TestReleaseUnknownHandle(t *testing.T) {
	resp := decodeResponse(t, Release(`{"handle":999999999}`))
	if resp.Ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(resp.Error, "handle not found") {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
}

func TestReleaseIsNotIdempotent(t *testing.T) {
	fake := &fakeContainer{}
	withFakeContainer(t, fake)

	ch := handleOf(t, OpenContainer(`{"dialect":"sqlite3","address":"file:x.db"}`))
	if resp := decodeResponse(t, Release(fmt.Sprintf(`{"handle":%d}`, ch))); !resp.Ok {
		t.Fatalf("first release failed: %s", resp.Error)
	}
	resp := decodeResponse(t, Release(fmt.Sprintf(`{"handle":%d}`, ch)))
	if resp.Ok {
		t.Fatal("second release must fail")
	}
	if !strings.Contains(resp.Error, "handle not found") {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
}

func TestHandlesNeverReused(t *testing.T) {
	fake := &fakeContainer{}
	withFakeContainer(t, fake)

	first := handleOf(t, OpenContainer(`{"dialect":"sqlite3","address":"file:a.db"}`))
	Release(fmt.Sprintf(`{"handle":%d}`, first))
	second := handleOf(t, OpenContainer(`{"dialect":"sqlite3","address":"file:b.db"}`))
	if second <= first {
		t.Fatalf("handle %d reused after release of %d", second, first)
	}
	Release(fmt.Sprintf(`{"handle":%d}`, second))
}

func TestClientOperationsRejectUnknownHandle(t *testing.T) {
	ops := map[string]func(string) string{
		"connect":           ClientConnect,
		"disconnect":        ClientDisconnect,
		"isLoggedIn":        ClientIsLoggedIn,
		"hasStoreID":        ClientHasStoreID,
		"waitForConnection": ClientWaitForConnection,
		"sendPresence":      ClientSendPresence,
		"startEvents":       ClientStartEvents,
		"getQRChannel":      ClientGetQRChannel,
		"upload":            ClientUpload,
		"call":              ClientCall,
	}
	for name, op := range ops {
		resp := decodeResponse(t, op(`{"client":424242}`))
		if resp.Ok {
			t.Fatalf("%s: expected failure for unknown client", name)
		}
		if !strings.Contains(resp.Error, "client handle not found") {
			t.Fatalf("%s: unexpected error: %s", name, resp.Error)
		}
	}
}

func TestNewClientRejectsUnknownDevice(t *testing.T) {
	resp := decodeResponse(t, NewClient(`{"device":424242}`))
	if resp.Ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(resp.Error, "device handle not found") {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
}

func TestStreamNextRejectsUnknownHandle(t *testing.T) {
	resp := decodeResponse(t, EventNext(`{"handle":424242,"timeoutMs":1}`))
	if resp.Ok {
		t.Fatal("expected failure")
	}
	resp = decodeResponse(t, QRNext(`{"handle":424242,"timeoutMs":1}`))
	if resp.Ok {
		t.Fatal("expected failure")
	}
}

func TestMapMediaType(t *testing.T) {
	known := []string{"image", "video", "audio", "document", "history", "appstate", "sticker-pack", "thumbnail-link"}
	for _, name := range known {
		if _, err := mapMediaType(name); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, err := mapMediaType("gif"); err == nil {
		t.Fatal("expected error for unknown media type")
	}
}

func TestSetLogOptions(t *testing.T) {
	resp := decodeResponse(t, SetLogOptions(`{"database":"WARN"}`))
	if !resp.Ok {
		t.Fatalf("set log options failed: %s", resp.Error)
	}
	t.Cleanup(func() { SetLogOptions(`{"database":"DEBUG"}`) })

	resp = decodeResponse(t, SetLogOptions(`{"database":`))
	if resp.Ok {
		t.Fatal("malformed options must fail")
	}
}

func TestEmptySuccessShape(t *testing.T) {
	fake := &fakeContainer{}
	withFakeContainer(t, fake)

	ch := handleOf(t, OpenContainer(`{"dialect":"sqlite3","address":"file:y.db"}`))
	raw := Release(fmt.Sprintf(`{"handle":%d}`, ch))
	if raw != `{"ok":true,"data":{}}` {
		t.Fatalf("unexpected empty success shape: %s", raw)
	}
}

// TestLivePairing exercises the full storage-to-pairing path against
// the real servers. It needs network access and a writable database,
// so it only runs when WMNODE_LIVE_DB is set, e.g.
//
//	WMNODE_LIVE_DB="file:live.db?_foreign_keys=on" go test -run LivePairing
func TestLivePairing(t *testing.T) {
	address := os.Getenv("WMNODE_LIVE_DB")
	if address == "" {
		t.Skip("WMNODE_LIVE_DB not set")
	}

	ch := handleOf(t, OpenContainer(fmt.Sprintf(`{"dialect":"sqlite3","address":%q}`, address)))
	defer Release(fmt.Sprintf(`{"handle":%d}`, ch))

	dh := handleOf(t, ContainerGetFirstDevice(fmt.Sprintf(`{"handle":%d}`, ch)))
	cl := handleOf(t, NewClient(fmt.Sprintf(`{"device":%d}`, dh)))
	defer Release(fmt.Sprintf(`{"handle":%d}`, cl))

	qh := handleOf(t, ClientGetQRChannel(fmt.Sprintf(`{"client":%d}`, cl)))
	defer Release(fmt.Sprintf(`{"handle":%d}`, qh))

	if resp := decodeResponse(t, ClientConnect(fmt.Sprintf(`{"client":%d}`, cl))); !resp.Ok {
		t.Fatalf("connect failed: %s", resp.Error)
	}

	resp := decodeResponse(t, QRNext(fmt.Sprintf(`{"handle":%d,"timeoutMs":30000}`, qh)))
	if !resp.Ok {
		t.Fatalf("pairing poll failed: %s", resp.Error)
	}
	ev := dataField(t, resp, "event")
	if ev != "code" && ev != "success" {
		t.Fatalf("unexpected pairing event: %v", ev)
	}
}
