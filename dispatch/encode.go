package dispatch

import (
	"encoding/base64"
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"go.mau.fi/whatsmeow/types"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// encodeReturn converts one return value into a JSON-compatible shape.
func encodeReturn(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		// Nil identifier pointers become the empty string below;
		// any other nil pointer is just null.
		if v.Type().Elem() == typeJID {
			return "", nil
		}
		return nil, nil
	}

	// The send-result composite gets flattened with millisecond debug
	// timings so the host never sees nanosecond duration integers.
	if v.Type().PkgPath() == "go.mau.fi/whatsmeow" && v.Type().Name() == "SendResponse" {
		return encodeSendResponse(v), nil
	}

	// Protocol messages render through their own field-name mapping.
	if v.Type().Implements(typeProtoMsg) {
		b, err := protojson.Marshal(v.Interface().(proto.Message))
		if err != nil {
			return nil, err
		}
		return json.RawMessage(b), nil
	}

	// Byte arrays travel as base64; nil and empty both encode to ""
	// so the field is always present and typed.
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		if v.IsNil() || v.Len() == 0 {
			return "", nil
		}
		return base64.StdEncoding.EncodeToString(v.Bytes()), nil
	}

	if v.Type() == typeTime {
		return v.Interface().(time.Time).Format(time.RFC3339), nil
	}

	if v.Type() == typeJID {
		return v.Interface().(types.JID).String(), nil
	}
	if v.Kind() == reflect.Pointer && v.Type().Elem() == typeJID {
		return v.Elem().Interface().(types.JID).String(), nil
	}

	// Slices of messages or identifiers convert elementwise.
	if v.Kind() == reflect.Slice {
		elem := v.Type().Elem()
		if elem.Implements(typeProtoMsg) || elem == typeJID {
			out := make([]any, v.Len())
			for i := 0; i < v.Len(); i++ {
				enc, err := encodeReturn(v.Index(i))
				if err != nil {
					return nil, err
				}
				out[i] = enc
			}
			return out, nil
		}
	}

	// Everything else passes through as its natural encoding.
	return v.Interface(), nil
}

// sendTimingPhases are the debug timing fields of the send result, in
// declaration order.
var sendTimingPhases = []string{
	"Queue",
	"Marshal",
	"GetParticipants",
	"GetDevices",
	"GroupEncrypt",
	"PeerEncrypt",
	"Send",
	"Resp",
	"Retry",
}

func encodeSendResponse(v reflect.Value) map[string]any {
	out := map[string]any{
		"timestamp": v.FieldByName("Timestamp").Interface().(time.Time).Format(time.RFC3339),
		"id":        string(v.FieldByName("ID").Interface().(types.MessageID)),
		"serverId":  int(v.FieldByName("ServerID").Interface().(types.MessageServerID)),
		"sender":    v.FieldByName("Sender").Interface().(types.JID).String(),
	}

	dbg := v.FieldByName("DebugTimings")
	if !dbg.IsValid() {
		return out
	}
	timings := map[string]any{}
	for _, phase := range sendTimingPhases {
		f := dbg.FieldByName(phase)
		if !f.IsValid() {
			continue
		}
		ms := f.Interface().(time.Duration).Milliseconds()
		if ms != 0 {
			timings[strings.ToLower(phase[:1])+phase[1:]+"Ms"] = ms
		}
	}
	if len(timings) > 0 {
		out["debug"] = timings
	}
	return out
}
