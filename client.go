package wmnode

import (
	"context"
	"encoding/json"
	"time"

	wa "go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types"

	"github.com/Rippanteq7/whatsmeow-node/envelope"
	"github.com/Rippanteq7/whatsmeow-node/errors"
	"github.com/Rippanteq7/whatsmeow-node/logging"
)

type clientRequest struct {
	Client uint64 `json:"client"`
}

// NewClient builds a client over a device store and returns its handle.
func NewClient(request string) string {
	var req struct {
		Device uint64 `json:"device"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	dev, err := lookupDevice(req.Device)
	if err != nil {
		return envelope.Fail(err)
	}
	cli := wa.NewClient(dev, logging.Client())
	h := clients.Insert(cli)
	return envelope.Success(map[string]any{"handle": uint64(h)})
}

// ClientConnect starts the client's connection.
func ClientConnect(request string) string {
	var req clientRequest
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	if err := cli.Connect(); err != nil {
		return envelope.Fail(errors.Native(err))
	}
	return envelope.Empty()
}

// ClientDisconnect disconnects without releasing the handle, so the
// client can reconnect later.
func ClientDisconnect(request string) string {
	var req clientRequest
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	cli.Disconnect()
	return envelope.Empty()
}

// ClientIsLoggedIn reports whether the client has an authenticated
// session.
func ClientIsLoggedIn(request string) string {
	var req clientRequest
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.Success(map[string]any{"isLoggedIn": cli.IsLoggedIn()})
}

// ClientHasStoreID reports whether the device store already carries an
// identity, i.e. whether this device has ever completed pairing.
func ClientHasStoreID(request string) string {
	var req clientRequest
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	has := !cli.Store.GetJID().IsEmpty()
	return envelope.Success(map[string]any{"has": has})
}

// ClientWaitForConnection blocks up to timeoutMs for the connection to
// be established. The result is ok=true with a boolean, not a failure,
// when the wait times out.
func ClientWaitForConnection(request string) string {
	var req struct {
		Client    uint64 `json:"client"`
		TimeoutMs int    `json:"timeoutMs"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	ok := cli.WaitForConnection(time.Duration(req.TimeoutMs) * time.Millisecond)
	return envelope.Success(map[string]any{"ok": ok})
}

// ClientSendPresence publishes the client's own presence state.
func ClientSendPresence(request string) string {
	var req struct {
		Client uint64 `json:"client"`
		State  string `json:"state"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	if err := cli.SendPresence(context.Background(), types.Presence(req.State)); err != nil {
		return envelope.Fail(errors.Native(err))
	}
	return envelope.Empty()
}

// ClientSubscribePresence subscribes to another user's presence
// updates, delivered through the event stream.
func ClientSubscribePresence(request string) string {
	var req struct {
		Client uint64 `json:"client"`
		JID    string `json:"jid"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	jid, err := types.ParseJID(req.JID)
	if err != nil {
		return envelope.Fail(errors.Argument("SubscribePresence", 0, err))
	}
	if err := cli.SubscribePresence(context.Background(), jid); err != nil {
		return envelope.Fail(errors.Native(err))
	}
	return envelope.Empty()
}

// ClientSendChatPresence sends a typing/recording indicator to a chat.
func ClientSendChatPresence(request string) string {
	var req struct {
		Client uint64 `json:"client"`
		JID    string `json:"jid"`
		State  string `json:"state"`
		Media  string `json:"media"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	jid, err := types.ParseJID(req.JID)
	if err != nil {
		return envelope.Fail(errors.Argument("SendChatPresence", 0, err))
	}
	if err := cli.SendChatPresence(context.Background(), jid, types.ChatPresence(req.State), types.ChatPresenceMedia(req.Media)); err != nil {
		return envelope.Fail(errors.Native(err))
	}
	return envelope.Empty()
}

// ClientGetGroupInviteLink fetches (or resets) a group's invite link.
func ClientGetGroupInviteLink(request string) string {
	var req struct {
		Client uint64 `json:"client"`
		JID    string `json:"jid"`
		Reset  bool   `json:"reset"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	jid, err := types.ParseJID(req.JID)
	if err != nil {
		return envelope.Fail(errors.Argument("GetGroupInviteLink", 0, err))
	}
	link, err := cli.GetGroupInviteLink(context.Background(), jid, req.Reset)
	if err != nil {
		return envelope.Fail(errors.Native(err))
	}
	return envelope.Success(map[string]any{"link": link})
}

// ClientCall invokes an arbitrary client method by name through the
// dynamic dispatcher. This is the escape hatch that keeps the boundary
// surface stable while the wrapped library's API evolves.
func ClientCall(request string) string {
	var req struct {
		Client uint64          `json:"client"`
		Method string          `json:"method"`
		Args   json.RawMessage `json:"args"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	result, err := clientMethods.Invoke(cli, req.Method, req.Args)
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.Success(result)
}
