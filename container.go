package wmnode

import (
	"context"

	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"

	// sqlite3 is the default storage dialect.
	_ "github.com/mattn/go-sqlite3"

	"github.com/Rippanteq7/whatsmeow-node/envelope"
	"github.com/Rippanteq7/whatsmeow-node/errors"
	"github.com/Rippanteq7/whatsmeow-node/logging"
)

// container is the slice of the storage container's surface the bridge
// uses. *sqlstore.Container satisfies it.
type container interface {
	GetFirstDevice(ctx context.Context) (*store.Device, error)
	GetAllDevices(ctx context.Context) ([]*store.Device, error)
	GetDevice(ctx context.Context, jid types.JID) (*store.Device, error)
	Close() error
}

// OpenContainer opens a device storage container and returns its
// handle. Dialect is the SQL driver name (sqlite3 or postgres) and
// address its connection string.
func OpenContainer(request string) string {
	var req struct {
		Dialect string `json:"dialect"`
		Address string `json:"address"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	if req.Dialect == "" || req.Address == "" {
		return envelope.Fail(errors.New(errors.PhaseParse, errors.KindMalformedRequest).
			Detail("dialect and address are required").
			Build())
	}
	cont, err := sqlstoreNew(context.Background(), req.Dialect, req.Address)
	if err != nil {
		return envelope.Fail(errors.Native(err))
	}
	h := containers.Insert(cont)
	return envelope.Success(map[string]any{"handle": uint64(h)})
}

// ContainerGetFirstDevice returns a handle for the container's first
// device, creating a fresh device when the store is empty.
func ContainerGetFirstDevice(request string) string {
	var req handleRequest
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cont, err := lookupContainer(req.Handle)
	if err != nil {
		return envelope.Fail(err)
	}
	dev, err := cont.GetFirstDevice(context.Background())
	if err != nil {
		return envelope.Fail(errors.Native(err))
	}
	h := devices.Insert(dev)
	return envelope.Success(map[string]any{"handle": uint64(h)})
}

// ContainerGetAllDevices returns one handle per stored device.
func ContainerGetAllDevices(request string) string {
	var req handleRequest
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cont, err := lookupContainer(req.Handle)
	if err != nil {
		return envelope.Fail(err)
	}
	devs, err := cont.GetAllDevices(context.Background())
	if err != nil {
		return envelope.Fail(errors.Native(err))
	}
	handles := make([]uint64, 0, len(devs))
	for _, d := range devs {
		handles = append(handles, uint64(devices.Insert(d)))
	}
	return envelope.Success(map[string]any{"handles": handles})
}

// ContainerGetDevice looks up the device registered for an identifier.
// An absent device is {found:false}, not an error.
func ContainerGetDevice(request string) string {
	var req struct {
		Handle uint64 `json:"handle"`
		JID    string `json:"jid"`
	}
	if err := envelope.Decode(request, &req); err != nil {
		return envelope.Fail(err)
	}
	cont, err := lookupContainer(req.Handle)
	if err != nil {
		return envelope.Fail(err)
	}
	jid, err := types.ParseJID(req.JID)
	if err != nil {
		return envelope.Fail(errors.Argument("GetDevice", 0, err))
	}
	dev, err := cont.GetDevice(context.Background(), jid)
	if err != nil {
		return envelope.Fail(errors.Native(err))
	}
	if dev == nil {
		return envelope.Success(map[string]any{"found": false})
	}
	h := devices.Insert(dev)
	return envelope.Success(map[string]any{"handle": uint64(h), "found": true})
}

// sqlstoreNew is the container constructor; indirected so tests can
// open containers without a real database driver in the loop.
var sqlstoreNew = func(ctx context.Context, dialect, address string) (container, error) {
	var dbLog waLog.Logger = logging.Database()
	return sqlstore.New(ctx, dialect, address, dbLog)
}
