// Package protocol implements the wire side of icebox: grouping the input
// byte stream into request frames and routing each decoded frame to a
// registered handler.
package protocol

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// maxFrameBytes bounds an accumulated frame. Frames are small JSON objects;
// anything past this is a protocol abuse, not a request. Oversized input is
// still consumed through its boundary so the session can keep reading.
const maxFrameBytes = 1 << 20

// ErrFrameTooLong reports a frame whose content exceeded maxFrameBytes. The
// offending input has been drained up to its blank-line boundary; the next
// call to Next starts on the following frame.
var ErrFrameTooLong = errors.New("frame too long")

// FrameReader consumes a byte stream line by line and groups it into
// request frames. A frame is the concatenation of the non-blank lines seen
// since the last boundary; the boundary is a blank line observed after at
// least one non-blank line. The stream is consumed once and is not
// restartable.
type FrameReader struct {
	r *bufio.Reader
}

// NewFrameReader wraps the input stream.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next complete frame. It returns io.EOF when the stream
// ends; end-of-stream with a partially accumulated frame discards the
// partial rather than dispatching it. Lines are whitespace-trimmed and
// concatenated without a separator. A frame over maxFrameBytes is drained
// and reported as ErrFrameTooLong without ending the stream.
func (fr *FrameReader) Next() (string, error) {
	var frame strings.Builder
	pending := false
	oversize := false
	for {
		line, long, read, err := fr.readLine()
		if err == io.EOF && !read {
			// End of stream with nothing further; a partially accumulated
			// frame never saw its boundary and is discarded.
			return "", io.EOF
		}
		if long {
			// A drained long line is frame content even though its text is
			// gone; the frame still ends at the next blank line.
			oversize = true
			pending = true
		} else if frame.Len()+len(line) > maxFrameBytes {
			oversize = true
		}
		if line != "" {
			pending = true
			if !oversize {
				frame.WriteString(line)
			}
		} else if pending && !long {
			if oversize {
				return "", ErrFrameTooLong
			}
			return frame.String(), nil
		}
		if err != nil {
			if err == io.EOF {
				return "", io.EOF
			}
			return "", err
		}
	}
}

// readLine reads one line, trimmed of surrounding whitespace, reporting
// whether any bytes were consumed. Lines past maxFrameBytes are drained
// rather than buffered and flagged long, keeping memory bounded regardless
// of input.
func (fr *FrameReader) readLine() (string, bool, bool, error) {
	var buf []byte
	long := false
	read := false
	for {
		chunk, err := fr.r.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !long {
			buf = append(buf, chunk...)
			if len(buf) > maxFrameBytes {
				long = true
				buf = nil
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return strings.TrimSpace(string(buf)), long, read, err
	}
}
