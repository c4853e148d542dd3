package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldchain/icebox/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatchUnknownOperation(t *testing.T) {
	var out bytes.Buffer
	router := NewRouter(&out, discardLogger(), false)

	router.Dispatch(`{"request":"bogus"}`)

	assert.JSONEq(t, `{"response":"bogus not implemented","success":false}`, out.String())
}

func TestDispatchMalformedFrame(t *testing.T) {
	var out bytes.Buffer
	router := NewRouter(&out, discardLogger(), false)

	router.Dispatch(`{not even json`)

	var resp types.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestDispatchMissingOperation(t *testing.T) {
	var out bytes.Buffer
	router := NewRouter(&out, discardLogger(), false)

	router.Dispatch(`{"name":"Milk"}`)

	var resp types.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestDispatchNonStringOperation(t *testing.T) {
	var out bytes.Buffer
	router := NewRouter(&out, discardLogger(), false)

	router.Dispatch(`{"request":42}`)

	var resp types.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestDispatchHandlerSuccess(t *testing.T) {
	var out bytes.Buffer
	router := NewRouter(&out, discardLogger(), false)
	router.Register("ping", func(raw []byte) (any, error) {
		return "pong", nil
	})

	router.Dispatch(`{"request":"ping"}`)

	assert.JSONEq(t, `{"response":"pong","success":true}`, out.String())
}

func TestDispatchHandlerReceivesFullFrame(t *testing.T) {
	var out bytes.Buffer
	router := NewRouter(&out, discardLogger(), false)

	var seen []byte
	router.Register("echo", func(raw []byte) (any, error) {
		seen = raw
		return "ok", nil
	})

	frame := `{"request":"echo","name":"Milk"}`
	router.Dispatch(frame)
	assert.Equal(t, frame, string(seen))
}

func TestDispatchHandlerError(t *testing.T) {
	var out bytes.Buffer
	router := NewRouter(&out, discardLogger(), false)
	router.Register("explode", func(raw []byte) (any, error) {
		return nil, errors.New("product Milk (Dairyco): not found")
	})

	router.Dispatch(`{"request":"explode"}`)

	assert.JSONEq(t, `{"response":"product Milk (Dairyco): not found","success":false}`, out.String())
}

func TestDispatchStorageFailureIsNotFatal(t *testing.T) {
	var out bytes.Buffer
	var diag bytes.Buffer
	log := slog.New(slog.NewTextHandler(&diag, nil))
	router := NewRouter(&out, log, false)
	router.Register("wobble", func(raw []byte) (any, error) {
		return nil, errors.Join(types.ErrStorageFailure, errors.New("disk on fire"))
	})

	router.Dispatch(`{"request":"wobble"}`)

	// One failure response on the output stream, detail on the diagnostic
	// channel, and the router is still usable.
	var resp types.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, diag.String(), "storage failure")

	out.Reset()
	router.Dispatch(`{"request":"wobble"}`)
	assert.NotEmpty(t, out.String())
}

func TestDispatchPrettyOutput(t *testing.T) {
	var out bytes.Buffer
	router := NewRouter(&out, discardLogger(), true)
	router.Register("ping", func(raw []byte) (any, error) {
		return "pong", nil
	})

	router.Dispatch(`{"request":"ping"}`)

	assert.True(t, strings.Contains(out.String(), "\n "), "expected indented output, got %q", out.String())
	assert.JSONEq(t, `{"response":"pong","success":true}`, out.String())
}

func TestDispatchEveryFrameGetsOneResponse(t *testing.T) {
	var out bytes.Buffer
	router := NewRouter(&out, discardLogger(), false)
	router.Register("ping", func(raw []byte) (any, error) {
		return "pong", nil
	})

	frames := []string{
		`{"request":"ping"}`,
		`{broken`,
		`{"request":"bogus"}`,
		`{"no":"op"}`,
		`{"request":"ping"}`,
	}
	for _, f := range frames {
		router.Dispatch(f)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, len(frames))
	for _, line := range lines {
		var resp types.Response
		assert.NoError(t, json.Unmarshal([]byte(line), &resp))
	}
}
