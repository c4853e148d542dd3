package protocol

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll drains the reader into a slice of frames.
func readAll(t *testing.T, input string) []string {
	t.Helper()
	fr := NewFrameReader(strings.NewReader(input))
	var frames []string
	for {
		frame, err := fr.Next()
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
		frames = append(frames, frame)
	}
}

func TestFrameReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single frame",
			input: "{\"request\":\"listProducts\"}\n\n",
			want:  []string{`{"request":"listProducts"}`},
		},
		{
			name:  "multi-line frame concatenated without separator",
			input: "{\"request\":\n\"listProducts\"}\n\n",
			want:  []string{`{"request":"listProducts"}`},
		},
		{
			name:  "two frames back to back",
			input: "{\"a\":1}\n\n{\"b\":2}\n\n",
			want:  []string{`{"a":1}`, `{"b":2}`},
		},
		{
			name:  "leading blank lines are not a boundary",
			input: "\n\n\n{\"a\":1}\n\n",
			want:  []string{`{"a":1}`},
		},
		{
			name:  "extra blank lines between frames ignored",
			input: "{\"a\":1}\n\n\n\n{\"b\":2}\n\n",
			want:  []string{`{"a":1}`, `{"b":2}`},
		},
		{
			name:  "partial frame at EOF is discarded",
			input: "{\"a\":1}\n\n{\"unterminated\":true}\n",
			want:  []string{`{"a":1}`},
		},
		{
			name:  "lines are whitespace-trimmed",
			input: "  {\"a\":\t\n  1}  \n\n",
			want:  []string{`{"a":1}`},
		},
		{
			name:  "empty stream",
			input: "",
			want:  nil,
		},
		{
			name:  "only blank lines",
			input: "\n\n\n",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

func TestFrameReaderOversizedFrame(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "one giant line",
			input: strings.Repeat("x", 2<<20) + "\n\n",
		},
		{
			name:  "many lines past the cap",
			input: strings.Repeat(strings.Repeat("y", 64*1024)+"\n", 20) + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := NewFrameReader(strings.NewReader(tt.input + "{\"a\":1}\n\n"))

			// The oversized frame is drained through its boundary and
			// reported without ending the stream.
			_, err := fr.Next()
			require.ErrorIs(t, err, ErrFrameTooLong)

			frame, err := fr.Next()
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, frame)

			_, err = fr.Next()
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestFrameReaderNotRestartable(t *testing.T) {
	fr := NewFrameReader(strings.NewReader("{\"a\":1}\n\n"))

	frame, err := fr.Next()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, frame)

	_, err = fr.Next()
	assert.Equal(t, io.EOF, err)

	// Exhausted stays exhausted.
	_, err = fr.Next()
	assert.Equal(t, io.EOF, err)
}
