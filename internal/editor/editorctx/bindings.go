package editorctx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"

	"github.com/opencursor/editorhost/core/binding"
	"github.com/opencursor/editorhost/core/event"
)

// InstallCommandBinding registers editor.command.call/list against the
// shared Router, the primary way scripts reach native mutations and
// queries.
func InstallCommandBinding(rt *goja.Runtime, editorObj *goja.Object, editorCtx any) error {
	ctx, ok := editorCtx.(*Context)
	if !ok || ctx == nil || ctx.Router == nil {
		return fmt.Errorf("editorctx: command binding requires a *Context with a Router")
	}

	commandObj := rt.NewObject()

	_ = commandObj.Set("call", func(name string, args goja.Value) goja.Value {
		raw := marshalArg(args)
		env := ctx.Router.ExecuteWithResult(context.Background(), name, raw)
		return rt.ToValue(env)
	})

	_ = commandObj.Set("list", func() goja.Value {
		return rt.ToValue(ctx.Router.ListAll())
	})

	return editorObj.Set("command", commandObj)
}

// InstallEventBinding registers editor.events.emit/on against the shared
// Bus. Listener callbacks run on the script host's own goroutine: the bus
// delivers on its own dispatch goroutine, so the handler posts the actual
// JS invocation back onto the Host's task queue.
func InstallEventBinding(rt *goja.Runtime, editorObj *goja.Object, editorCtx any) error {
	ctx, ok := editorCtx.(*Context)
	if !ok || ctx == nil || ctx.Bus == nil {
		return fmt.Errorf("editorctx: event binding requires a *Context with a Bus")
	}

	eventsObj := rt.NewObject()

	_ = eventsObj.Set("emit", func(name string, payload goja.Value) {
		ctx.Bus.Emit(name, marshalArg(payload))
	})

	_ = eventsObj.Set("on", func(name string, priority int, cb goja.Callable) {
		ctx.Bus.On(name, func(ev event.Event) {
			deliver := func(rt *goja.Runtime) {
				var data any
				_ = json.Unmarshal(ev.Payload, &data)
				_, _ = cb(goja.Undefined(), rt.ToValue(ev.Name), rt.ToValue(data))
			}
			if ctx.Host != nil {
				ctx.Host.Post(deliver)
			}
		}, priority)
	})

	return editorObj.Set("events", eventsObj)
}

func marshalArg(v goja.Value) json.RawMessage {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return json.RawMessage("null")
	}
	data, err := json.Marshal(v.Export())
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}

// RegisterNativeBindings registers every native installer in this package
// onto reg.
func RegisterNativeBindings(reg *binding.Registry) {
	reg.Register("command", InstallCommandBinding, binding.SourceNative)
	reg.Register("events", InstallEventBinding, binding.SourceNative)
}
