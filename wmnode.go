package wmnode

import (
	"github.com/lib/pq"

	wa "go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"

	"github.com/Rippanteq7/whatsmeow-node/config"
	"github.com/Rippanteq7/whatsmeow-node/dispatch"
	"github.com/Rippanteq7/whatsmeow-node/envelope"
	"github.com/Rippanteq7/whatsmeow-node/errors"
	"github.com/Rippanteq7/whatsmeow-node/logging"
	"github.com/Rippanteq7/whatsmeow-node/registry"
	"github.com/Rippanteq7/whatsmeow-node/stream"
)

// Handle namespaces. Each kind has its own table and lock; the shared
// counter inside registry guarantees a handle lives in at most one.
var (
	containers   *registry.Table[container]
	devices      *registry.Table[*store.Device]
	clients      *registry.Table[*wa.Client]
	eventStreams *registry.Table[*stream.Events]
	pairStreams  *registry.Table[*stream.Pairing]

	// namespaces fixes the cross-kind release order: streams first so
	// their listeners detach before the client they observe could be
	// torn down by a subsequent release.
	namespaces *registry.Set

	// clientMethods is the capability table for generic invocation,
	// built once from the client type's public surface.
	clientMethods = dispatch.For((*wa.Client)(nil))

	streamBuffer = config.DefaultStreamBuffer
)

func init() {
	// The wrapped store layer needs a Postgres array wrapper before any
	// postgres container is opened.
	sqlstore.PostgresArrayWrapper = pq.Array

	cfg, err := config.Load()
	if err != nil {
		logging.Zap("Bridge", "WARN", false).Warn("config load failed, using defaults: " + err.Error())
		cfg = config.Default()
	}
	logging.SetOptions(cfg.Logging)
	streamBuffer = cfg.Stream.Buffer

	color := true
	if cfg.Logging.Color != nil {
		color = *cfg.Logging.Color
	}
	dispatch.SetLogger(logging.Zap("Dispatch", "INFO", color))
	stream.SetLogger(logging.Zap("Stream", "INFO", color))

	containers = registry.NewTable("container", func(_ registry.Handle, c container) {
		_ = c.Close()
	})
	devices = registry.NewTable[*store.Device]("device", nil)
	clients = registry.NewTable("client", func(_ registry.Handle, cli *wa.Client) {
		cli.Disconnect()
	})
	eventStreams = registry.NewTable("event stream", func(_ registry.Handle, es *stream.Events) {
		es.Release()
	})
	pairStreams = registry.NewTable("pairing stream", func(_ registry.Handle, p *stream.Pairing) {
		p.Release()
	})
	namespaces = registry.NewSet(eventStreams, pairStreams, clients, devices, containers)
}

type handleRequest struct {
	Handle uint64 `json:"handle"`
}

func lookupContainer(h uint64) (container, error) {
	c, ok := containers.Get(registry.Handle(h))
	if !ok {
		return nil, errors.HandleNotFound("container")
	}
	return c, nil
}

func lookupDevice(h uint64) (*store.Device, error) {
	d, ok := devices.Get(registry.Handle(h))
	if !ok {
		return nil, errors.HandleNotFound("device")
	}
	return d, nil
}

func lookupClient(h uint64) (*wa.Client, error) {
	cli, ok := clients.Get(registry.Handle(h))
	if !ok {
		return nil, errors.HandleNotFound("client")
	}
	return cli, nil
}

// Release frees any handle kind through the fixed namespace order.
// Releasing a client disconnects it; releasing a stream cancels its
// feed and deregisters the native listener; releasing a container
// closes its storage. A second release of the same handle reports
// handle-not-found, never a fault.
func Release(request string) string {
	var req handleRequest
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	if _, ok := namespaces.Release(registry.Handle(req.Handle)); !ok {
		return envelope.Fail(errors.HandleNotFound("handle"))
	}
	return envelope.Empty()
}

// SetLogOptions applies a partial logging reconfiguration. Unset fields
// keep their current values.
func SetLogOptions(request string) string {
	var opts logging.Options
	if err := envelope.Decode(request, &opts); err != nil {
		return envelope.Fail(err)
	}
	logging.SetOptions(opts)
	return envelope.Empty()
}
