package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	wa "go.mau.fi/whatsmeow"

	"github.com/Rippanteq7/whatsmeow-node/errors"
)

// Pairing is the login handshake stream. Its event alphabet is finite:
// "code" (a one-time pairing code with its own expiry), "success",
// "error", plus the shared "timeout" and "closed" sentinels. The
// producer stops emitting after a terminal event (success or closed),
// but the handle stays valid until explicitly released.
type Pairing struct {
	ch        <-chan wa.QRChannelItem
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// StartPairing opens the client's QR channel. Fails when the client is
// already logged in or connected.
func StartPairing(cli *wa.Client) (*Pairing, error) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := cli.GetQRChannel(ctx)
	if err != nil {
		cancel()
		return nil, errors.Native(err)
	}
	return newPairing(ch, cancel), nil
}

func newPairing(ch <-chan wa.QRChannelItem, cancel context.CancelFunc) *Pairing {
	return &Pairing{
		ch:     ch,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Next returns the next handshake event. The native channel closing
// (terminal state reached upstream) maps to the closed sentinel, as
// does a concurrent Release. Pairing events use "event" as their
// discriminator field, matching the handshake wire contract.
func (p *Pairing) Next(timeout time.Duration) Event {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case item, ok := <-p.ch:
		if !ok {
			return Event{"event": "closed"}
		}
		return pairingEvent(item)
	case <-expired:
		return Event{"event": "timeout"}
	case <-p.done:
		return Event{"event": "closed"}
	}
}

// Release cancels the underlying channel registration. Safe to call
// while a Next is blocked and safe to call twice.
func (p *Pairing) Release() {
	p.cancel()
	p.closeOnce.Do(func() { close(p.done) })
}

func pairingEvent(item wa.QRChannelItem) Event {
	switch item.Event {
	case wa.QRChannelEventCode:
		return Event{
			"event":     "code",
			"code":      item.Code,
			"timeoutMs": int(item.Timeout / time.Millisecond),
		}
	case wa.QRChannelEventError:
		out := Event{"event": "error"}
		if item.Error != nil {
			out["error"] = item.Error.Error()
		}
		return out
	case "success":
		return Event{"event": "success"}
	case "timeout":
		return Event{"event": "timeout"}
	default:
		return Event{"event": fmt.Sprintf("%v", item.Event)}
	}
}
