package fridge

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldchain/icebox/internal/protocol"
	"github.com/coldchain/icebox/internal/sqlite"
	"github.com/coldchain/icebox/pkg/types"
)

// runSession plays a scripted input stream through a full session over a
// fresh store and returns the raw output stream.
func runSession(t *testing.T, input string) *bytes.Buffer {
	t.Helper()
	config := types.Config{Backend: types.BackendSQLite, WarningDays: types.DefaultWarningDays}
	store, err := sqlite.Create(config, filepath.Join(t.TempDir(), "fridge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	router := protocol.NewRouter(&out, discardLogger(), false)
	NewService(store, config, discardLogger()).Register(router)

	session := NewSession(protocol.NewFrameReader(strings.NewReader(input)), router, discardLogger())
	require.NoError(t, session.Run(context.Background()))
	return &out
}

// responses splits the output stream into decoded response objects.
func responses(t *testing.T, out *bytes.Buffer) []types.Response {
	t.Helper()
	var resps []types.Response
	for _, line := range strings.Split(strings.TrimRight(out.String(), "\n"), "\n") {
		var resp types.Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		resps = append(resps, resp)
	}
	return resps
}

func TestSessionTwoFramesTwoResponses(t *testing.T) {
	input := `{"request":"addProduct","name":"Milk","brand":"Dairyco","measurement_type":"volume"}

{"request":"listProducts"}

`
	out := runSession(t, input)
	resps := responses(t, out)
	require.Len(t, resps, 2)

	// Responses arrive in frame order with no cross-frame leakage.
	assert.True(t, resps[0].Success)
	assert.Equal(t, "OK", resps[0].Response)
	assert.True(t, resps[1].Success)
	rows := resps[1].Response.([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Milk", rows[0].(map[string]any)["name"])
}

func TestSessionSurvivesBadFrames(t *testing.T) {
	input := `{"request":"bogus"}

{this is not json

{"request":"listProducts"}

`
	out := runSession(t, input)
	resps := responses(t, out)
	require.Len(t, resps, 3)

	assert.False(t, resps[0].Success)
	assert.Equal(t, "bogus not implemented", resps[0].Response)
	assert.False(t, resps[1].Success)
	assert.True(t, resps[2].Success)
}

func TestSessionSurvivesOversizedFrame(t *testing.T) {
	// A single line far past the frame cap must draw one failure response
	// and leave the session serving the frames behind it.
	input := "{\"request\":\"addProduct\",\"name\":\"" + strings.Repeat("x", 2<<20) + "\"}\n\n" +
		"{\"request\":\"listProducts\"}\n\n"
	out := runSession(t, input)
	resps := responses(t, out)
	require.Len(t, resps, 2)

	assert.False(t, resps[0].Success)
	assert.Equal(t, "malformed request", resps[0].Response)
	assert.True(t, resps[1].Success)
}

func TestSessionDiscardsPartialFrame(t *testing.T) {
	// The trailing frame never sees its blank line; it must not dispatch.
	input := "{\"request\":\"listProducts\"}\n\n{\"request\":\"listContents\"}\n"
	out := runSession(t, input)
	assert.Len(t, responses(t, out), 1)
}

func TestSessionEmptyStream(t *testing.T) {
	out := runSession(t, "")
	assert.Empty(t, out.String())
}

func TestSessionCancellation(t *testing.T) {
	config := types.Config{Backend: types.BackendSQLite}
	store, err := sqlite.Create(config, filepath.Join(t.TempDir(), "fridge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	router := protocol.NewRouter(&out, discardLogger(), false)
	NewService(store, config, discardLogger()).Register(router)
	session := NewSession(protocol.NewFrameReader(strings.NewReader("{\"request\":\"listProducts\"}\n\n")), router, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context stops the loop before the next frame is read.
	err = session.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestSessionTranscript(t *testing.T) {
	// Deterministic operations only: no generated ids, no clock.
	input := `{not json

{"name":"Milk"}

{"request":"bogus"}

{"request":"listProducts"}

{"request":"listFavourites"}

{"request":"checkDates"}

`
	out := runSession(t, input)

	g := goldie.New(t)
	g.Assert(t, "session_transcript", out.Bytes())
}
