// Command bridge builds the C shared library consumed by the host
// runtime. Each export is a thin shim over a wmnode operation: decode
// the C string, run the operation, hand back a malloc'd C string the
// caller frees with WmFreeCString.
package main

/*
#cgo CFLAGS: -DNAPI_GO_BRIDGE
#include <stdlib.h>
*/
import "C"
import (
	"fmt"
	"unsafe"

	wmnode "github.com/Rippanteq7/whatsmeow-node"
	"github.com/Rippanteq7/whatsmeow-node/envelope"
)

// call runs one boundary operation with a last-resort panic guard. The
// operations recover their own faults; this guard only exists so a bug
// in the shim layer itself cannot unwind into the C caller.
func call(op func(string) string, input *C.char) *C.char {
	return C.CString(safeCall(op, C.GoString(input)))
}

func safeCall(op func(string) string, request string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = envelope.Fail(fmt.Errorf("panic: %v", r))
		}
	}()
	return op(request)
}

//export WmFreeCString
func WmFreeCString(ptr *C.char) {
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

//export WmOpenContainer
func WmOpenContainer(input *C.char) *C.char { return call(wmnode.OpenContainer, input) }

//export WmContainerGetFirstDevice
func WmContainerGetFirstDevice(input *C.char) *C.char {
	return call(wmnode.ContainerGetFirstDevice, input)
}

//export WmContainerGetAllDevices
func WmContainerGetAllDevices(input *C.char) *C.char {
	return call(wmnode.ContainerGetAllDevices, input)
}

//export WmContainerGetDevice
func WmContainerGetDevice(input *C.char) *C.char { return call(wmnode.ContainerGetDevice, input) }

//export WmNewClient
func WmNewClient(input *C.char) *C.char { return call(wmnode.NewClient, input) }

//export WmClientConnect
func WmClientConnect(input *C.char) *C.char { return call(wmnode.ClientConnect, input) }

//export WmClientDisconnect
func WmClientDisconnect(input *C.char) *C.char { return call(wmnode.ClientDisconnect, input) }

//export WmClientIsLoggedIn
func WmClientIsLoggedIn(input *C.char) *C.char { return call(wmnode.ClientIsLoggedIn, input) }

//export WmClientHasStoreID
func WmClientHasStoreID(input *C.char) *C.char { return call(wmnode.ClientHasStoreID, input) }

//export WmClientWaitForConnection
func WmClientWaitForConnection(input *C.char) *C.char {
	return call(wmnode.ClientWaitForConnection, input)
}

//export WmClientGetQRChannel
func WmClientGetQRChannel(input *C.char) *C.char { return call(wmnode.ClientGetQRChannel, input) }

//export WmQRNext
func WmQRNext(input *C.char) *C.char { return call(wmnode.QRNext, input) }

//export WmClientStartEvents
func WmClientStartEvents(input *C.char) *C.char { return call(wmnode.ClientStartEvents, input) }

//export WmEventNext
func WmEventNext(input *C.char) *C.char { return call(wmnode.EventNext, input) }

//export WmClientSendPresence
func WmClientSendPresence(input *C.char) *C.char { return call(wmnode.ClientSendPresence, input) }

//export WmClientSubscribePresence
func WmClientSubscribePresence(input *C.char) *C.char {
	return call(wmnode.ClientSubscribePresence, input)
}

//export WmClientSendChatPresence
func WmClientSendChatPresence(input *C.char) *C.char {
	return call(wmnode.ClientSendChatPresence, input)
}

//export WmClientUpload
func WmClientUpload(input *C.char) *C.char { return call(wmnode.ClientUpload, input) }

//export WmClientDownloadByPath
func WmClientDownloadByPath(input *C.char) *C.char {
	return call(wmnode.ClientDownloadByPath, input)
}

//export WmClientGetGroupInviteLink
func WmClientGetGroupInviteLink(input *C.char) *C.char {
	return call(wmnode.ClientGetGroupInviteLink, input)
}

//export WmClientCall
func WmClientCall(input *C.char) *C.char { return call(wmnode.ClientCall, input) }

//export WmRelease
func WmRelease(input *C.char) *C.char { return call(wmnode.Release, input) }

//export WmSetLogOptions
func WmSetLogOptions(input *C.char) *C.char { return call(wmnode.SetLogOptions, input) }

func main() {}
