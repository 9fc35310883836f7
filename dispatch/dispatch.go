package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rippanteq7/whatsmeow-node/errors"
)

// Dispatcher maps method names to precompiled call specs for one target
// type. The table is built once by introspecting the type's public
// surface; invocation never resolves names through reflection at call
// time, so an unknown method fails before anything else happens.
type Dispatcher struct {
	target  reflect.Type
	methods map[string]*methodSpec
}

type methodSpec struct {
	name     string
	index    int
	in       []param // declared parameters, receiver excluded
	variadic bool
	errLast  bool // last return value is declared as an error
}

type param struct {
	t     reflect.Type
	class paramClass
}

// For builds the method table for the dynamic type of target. The value
// itself is not retained; a typed nil pointer works:
//
//	d := dispatch.For((*whatsmeow.Client)(nil))
func For(target any) *Dispatcher {
	t := reflect.TypeOf(target)
	d := &Dispatcher{
		target:  t,
		methods: make(map[string]*methodSpec, t.NumMethod()),
	}
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		mt := m.Type
		spec := &methodSpec{
			name:     m.Name,
			index:    i,
			variadic: mt.IsVariadic(),
		}
		// In(0) is the receiver on a method expression type.
		for j := 1; j < mt.NumIn(); j++ {
			pt := mt.In(j)
			spec.in = append(spec.in, param{t: pt, class: classify(pt)})
		}
		if mt.NumOut() > 0 && mt.Out(mt.NumOut()-1).Implements(typeError) {
			spec.errLast = true
		}
		d.methods[m.Name] = spec
	}
	return d
}

// Methods returns the resolvable method names, for diagnostics.
func (d *Dispatcher) Methods() []string {
	names := make([]string, 0, len(d.methods))
	for name := range d.methods {
		names = append(names, name)
	}
	return names
}

// Invoke calls name on target with JSON-encoded arguments and returns
// the transport-ready result. target must be of the type the dispatcher
// was built for.
//
// Argument layout: absent/empty rawArgs means zero arguments; a JSON
// array supplies positional arguments; a single non-array value is
// treated as the sole argument. Context parameters consume no argument
// (a background context is synthesized). A variadic tail accepts an
// array (spread), a single value (wrapped), or nothing (empty).
func (d *Dispatcher) Invoke(target any, name string, rawArgs json.RawMessage) (any, error) {
	spec, ok := d.methods[name]
	if !ok {
		return nil, errors.UnknownMethod(name)
	}

	log := Logger()
	if log.Core().Enabled(zap.DebugLevel) {
		log.Debug("invoke",
			zap.String("call_id", uuid.NewString()),
			zap.String("method", name),
			zap.Int("args_len", len(rawArgs)))
	}

	args, err := splitArgs(rawArgs)
	if err != nil {
		return nil, err
	}

	in := make([]reflect.Value, 0, len(spec.in))
	ai := 0
	for i, p := range spec.in {
		if p.class == classContext {
			in = append(in, reflect.ValueOf(context.Background()))
			continue
		}
		if spec.variadic && i == len(spec.in)-1 {
			tail, err := convertVariadic(args, ai, p.t, spec.name, i)
			if err != nil {
				return nil, err
			}
			in = append(in, tail)
			ai = len(args)
			continue
		}
		if ai >= len(args) {
			return nil, errors.MissingArgument(spec.name, i)
		}
		v, err := convertArg(args[ai], p.t)
		if err != nil {
			return nil, errors.Argument(spec.name, i, err)
		}
		in = append(in, v)
		ai++
	}

	out, err := call(reflect.ValueOf(target).Method(spec.index), in, spec)
	if err != nil {
		return nil, err
	}

	if spec.errLast {
		last := out[len(out)-1]
		if !last.IsNil() {
			return nil, errors.Native(last.Interface().(error))
		}
		out = out[:len(out)-1]
	}

	switch len(out) {
	case 0:
		return map[string]any{}, nil
	case 1:
		return encodeReturn(out[0])
	default:
		arr := make([]any, 0, len(out))
		for _, v := range out {
			enc, err := encodeReturn(v)
			if err != nil {
				return nil, err
			}
			arr = append(arr, enc)
		}
		return arr, nil
	}
}

// call invokes the bound method, converting a panic inside the wrapped
// library into a native error so the boundary never faults.
func call(fn reflect.Value, in []reflect.Value, spec *methodSpec) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errors.New(errors.PhaseNative, errors.KindNativeError).
				Method(spec.name).
				Detail("panic in %s: %v", spec.name, r).
				Build()
		}
	}()
	if spec.variadic {
		return fn.CallSlice(in), nil
	}
	return fn.Call(in), nil
}

// splitArgs turns the raw args payload into positional raw arguments.
func splitArgs(rawArgs json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(rawArgs)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var args []json.RawMessage
		if err := json.Unmarshal(trimmed, &args); err != nil {
			return nil, errors.New(errors.PhaseDispatch, errors.KindArgumentError).
				Detail("args must be an array").
				Cause(err).
				Build()
		}
		return args, nil
	}
	// Single non-array value: the sole argument.
	return []json.RawMessage{trimmed}, nil
}

// convertVariadic builds the slice for a variadic tail parameter.
func convertVariadic(args []json.RawMessage, ai int, t reflect.Type, method string, pos int) (reflect.Value, error) {
	if ai >= len(args) {
		return reflect.MakeSlice(t, 0, 0), nil
	}
	raw := bytes.TrimSpace(args[ai])
	if len(raw) > 0 && raw[0] == '[' {
		v, err := convertArg(raw, t)
		if err != nil {
			return reflect.Value{}, errors.Argument(method, pos, err)
		}
		return v, nil
	}
	// Wrap a single trailing value as a one-element variadic list.
	elem, err := convertArg(raw, t.Elem())
	if err != nil {
		return reflect.Value{}, errors.Argument(method, pos, err)
	}
	s := reflect.MakeSlice(t, 1, 1)
	s.Index(0).Set(elem)
	return s, nil
}
