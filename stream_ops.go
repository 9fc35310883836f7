package wmnode

import (
	"time"

	"github.com/Rippanteq7/whatsmeow-node/envelope"
	"github.com/Rippanteq7/whatsmeow-node/errors"
	"github.com/Rippanteq7/whatsmeow-node/registry"
	"github.com/Rippanteq7/whatsmeow-node/stream"
)

// ClientStartEvents subscribes to the client's event stream and returns
// the subscription handle. Events that arrive while the buffer is full
// are dropped, never blocking the client.
func ClientStartEvents(request string) string {
	var req clientRequest
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	es := stream.StartEvents(cli, streamBuffer)
	h := eventStreams.Insert(es)
	return envelope.Success(map[string]any{"handle": uint64(h)})
}

// EventNext polls an event stream. A positive timeoutMs bounds the
// wait; zero or negative waits until an event arrives or the stream is
// released. Timeouts and closure come back as sentinel events inside a
// successful envelope, not as failures.
func EventNext(request string) string {
	var req struct {
		Handle    uint64 `json:"handle"`
		TimeoutMs int    `json:"timeoutMs"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	es, ok := eventStreams.Get(registry.Handle(req.Handle))
	if !ok {
		return envelope.Fail(errors.HandleNotFound(eventStreams.Kind()))
	}
	ev := es.Next(time.Duration(req.TimeoutMs) * time.Millisecond)
	return envelope.Success(ev)
}

// ClientGetQRChannel opens the pairing handshake stream. Fails when the
// client is already logged in or already connected.
func ClientGetQRChannel(request string) string {
	var req clientRequest
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cli, err := lookupClient(req.Client)
	if err != nil {
		return envelope.Fail(err)
	}
	p, err := stream.StartPairing(cli)
	if err != nil {
		return envelope.Fail(err)
	}
	h := pairStreams.Insert(p)
	return envelope.Success(map[string]any{"handle": uint64(h)})
}

// QRNext polls the pairing stream for the next handshake event.
func QRNext(request string) string {
	var req struct {
		Handle    uint64 `json:"handle"`
		TimeoutMs int    `json:"timeoutMs"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	p, ok := pairStreams.Get(registry.Handle(req.Handle))
	if !ok {
		return envelope.Fail(errors.HandleNotFound(pairStreams.Kind()))
	}
	ev := p.Next(time.Duration(req.TimeoutMs) * time.Millisecond)
	return envelope.Success(ev)
}
