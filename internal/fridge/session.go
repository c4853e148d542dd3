package fridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/coldchain/icebox/internal/protocol"
	"github.com/coldchain/icebox/pkg/types"
)

// Session is the top-level driver: it owns the frame reader, hands each
// frame to the router, and stops on end-of-stream or cancellation. One
// frame is fully processed before the next is read.
type Session struct {
	frames *protocol.FrameReader
	router *protocol.Router
	log    *slog.Logger
}

// NewSession wires a frame reader to a router.
func NewSession(frames *protocol.FrameReader, router *protocol.Router, log *slog.Logger) *Session {
	return &Session{frames: frames, router: router, log: log}
}

// Run processes frames until the input stream ends or ctx is cancelled.
// Cancellation is cooperative and checked only between frames, never
// inside a handler, so an in-flight request always completes and commits.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.log.Info("received interrupt, quitting")
			return ctx.Err()
		default:
		}

		frame, err := s.frames.Next()
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, protocol.ErrFrameTooLong) {
			// Bad input still gets its one response and the session
			// keeps serving.
			s.log.Error("oversized request frame discarded")
			s.router.Reject(types.ErrMalformedRequest.Error())
			continue
		}
		if err != nil {
			return fmt.Errorf("reading frame: %w", err)
		}
		s.router.Dispatch(frame)
	}
}
