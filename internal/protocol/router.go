package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/coldchain/icebox/pkg/types"
)

// Handler processes one decoded request frame and returns the success
// payload, or an error the router turns into a failure response.
type Handler func(raw []byte) (any, error)

// Router maps operation names to handlers and packages every outcome as
// exactly one JSON response on the output stream. The table is closed:
// handlers are registered once at startup and unknown names fail the lookup
// instead of probing anything at runtime. No error here ends the session.
type Router struct {
	handlers map[string]Handler
	out      io.Writer
	log      *slog.Logger
	pretty   bool
}

// NewRouter creates a router writing responses to out and diagnostics to
// log. With pretty set, responses are indented the way the original
// fridge clients expect; otherwise one compact object per line.
func NewRouter(out io.Writer, log *slog.Logger, pretty bool) *Router {
	return &Router{
		handlers: make(map[string]Handler),
		out:      out,
		log:      log,
		pretty:   pretty,
	}
}

// Register adds a handler for an operation name. Registration happens once
// at startup, before any frame is read.
func (r *Router) Register(op string, h Handler) {
	r.handlers[op] = h
}

// Reject emits a failure response without invoking any handler. The session
// uses it for input that never reaches the decoder, such as an oversized
// frame.
func (r *Router) Reject(msg string) {
	r.emit(types.Fail(msg))
}

// Dispatch decodes a raw frame, resolves its operation, and invokes the
// handler. Every frame, however broken, yields exactly one response.
func (r *Router) Dispatch(frame string) {
	raw := []byte(frame)

	var env types.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.log.Error("malformed request frame", "err", err)
		r.emit(types.Fail(types.ErrMalformedRequest.Error()))
		return
	}
	if env.Request == nil {
		r.log.Error("no request attribute in frame")
		r.emit(types.Fail(types.ErrMissingOperation.Error()))
		return
	}

	op := *env.Request
	handler, ok := r.handlers[op]
	if !ok {
		r.log.Error("operation not implemented", "op", op)
		r.emit(types.Fail(op + " not implemented"))
		return
	}

	r.log.Debug("dispatching request", "op", op)
	payload, err := handler(raw)
	if err != nil {
		if errors.Is(err, types.ErrStorageFailure) {
			// Engine trouble goes to the diagnostic channel in full; the
			// response stream gets the same message as any failure.
			r.log.Error("storage failure", "op", op, "err", err)
		}
		r.emit(types.Fail(err.Error()))
		return
	}
	r.emit(types.OK(payload))
}

// emit writes a single response object followed by a newline.
func (r *Router) emit(resp types.Response) {
	var data []byte
	var err error
	if r.pretty {
		data, err = json.MarshalIndent(resp, "", " ")
	} else {
		data, err = json.Marshal(resp)
	}
	if err != nil {
		// Response payloads are plain structs and slices; this does not
		// happen for well-formed handlers. Keep the one-response promise
		// with a minimal failure object.
		r.log.Error("marshaling response", "err", err)
		data = []byte(`{"response":"internal error","success":false}`)
	}
	if _, err := fmt.Fprintf(r.out, "%s\n", data); err != nil {
		r.log.Error("writing response", "err", err)
	}
}
