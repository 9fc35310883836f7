package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"time"

	"go.mau.fi/whatsmeow/types"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// paramClass drives argument conversion. Classes are computed once at
// table-build time so Invoke only switches on a precomputed tag.
type paramClass uint8

const (
	classGeneric  paramClass = iota
	classContext             // synthesized, consumes no argument
	classDuration            // milliseconds on the wire
	classJID                 // canonical identifier string on the wire
	classProto               // protocol message, decoded via protojson
)

var (
	typeContext  = reflect.TypeOf((*context.Context)(nil)).Elem()
	typeError    = reflect.TypeOf((*error)(nil)).Elem()
	typeProtoMsg = reflect.TypeOf((*proto.Message)(nil)).Elem()
	typeDuration = reflect.TypeOf(time.Duration(0))
	typeJID      = reflect.TypeOf(types.JID{})
	typeTime     = reflect.TypeOf(time.Time{})
)

func classify(t reflect.Type) paramClass {
	switch {
	case t.Kind() == reflect.Interface && t.Implements(typeContext):
		return classContext
	case t == typeDuration:
		return classDuration
	case t == typeJID:
		return classJID
	case t.Kind() == reflect.Pointer && t.Implements(typeProtoMsg):
		return classProto
	default:
		return classGeneric
	}
}

// convertArg decodes one JSON argument into the parameter type.
func convertArg(raw json.RawMessage, t reflect.Type) (reflect.Value, error) {
	switch classify(t) {
	case classDuration:
		var ms int64
		if err := json.Unmarshal(raw, &ms); err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(time.Duration(ms) * time.Millisecond), nil

	case classJID:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return reflect.Value{}, err
		}
		jid, err := types.ParseJID(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(jid), nil

	case classProto:
		pv := reflect.New(t.Elem())
		trimmed := bytes.TrimSpace(raw)
		// Absent or null yields a zero-valued message, not an error.
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return pv, nil
		}
		if err := protojson.Unmarshal(trimmed, pv.Interface().(proto.Message)); err != nil {
			return reflect.Value{}, err
		}
		return pv, nil
	}

	// Slices of specially-converted element types (identifiers,
	// messages, durations) decode elementwise so the element rules
	// still apply. []byte stays on the generic path: it is a base64
	// string on the wire.
	if t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8 && classify(t.Elem()) != classGeneric {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return reflect.Value{}, err
		}
		s := reflect.MakeSlice(t, len(elems), len(elems))
		for i, e := range elems {
			v, err := convertArg(e, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			s.Index(i).Set(v)
		}
		return s, nil
	}

	// Pointer to struct: allocate so a present object decodes into a
	// non-nil value while null stays nil.
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return reflect.Zero(t), nil
		}
		pv := reflect.New(t.Elem())
		if err := json.Unmarshal(raw, pv.Interface()); err != nil {
			return reflect.Value{}, err
		}
		return pv, nil
	}

	// Primitives, byte arrays, nested structs, slices, maps: generic
	// structural decode.
	pv := reflect.New(t)
	if err := json.Unmarshal(raw, pv.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return pv.Elem(), nil
}
