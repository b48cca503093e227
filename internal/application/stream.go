package application

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/gigachat-cli/internal/domain"
)

type fragmentSource interface {
	next() (fragment string, ok bool, err error)
	close() error
}

// Stream is the finite, non-restartable sequence of text fragments produced by
// one Respond call. The exchange is committed to the conversation once Next
// reports exhaustion without an error.
//
//	stream, err := session.Respond(ctx, text, nil)
//	if err != nil { ... }
//	defer stream.Close()
//	for stream.Next() {
//		fmt.Print(stream.Current())
//	}
//	if err := stream.Err(); err != nil { ... }
type Stream struct {
	source     fragmentSource
	stripChars string
	onComplete func(text string)
	onRelease  func()

	current  string
	text     strings.Builder
	err      error
	finished bool
}

func newStream(source fragmentSource, stripChars string, onComplete func(string), onRelease func()) *Stream {
	return &Stream{
		source:     source,
		stripChars: stripChars,
		onComplete: onComplete,
		onRelease:  onRelease,
	}
}

func (s *Stream) Next() bool {
	if s.finished {
		return false
	}

	fragment, ok, err := s.source.next()
	if err != nil {
		s.err = err
		s.finish(false)
		return false
	}
	if !ok {
		s.finish(true)
		return false
	}

	s.current = fragment
	s.text.WriteString(fragment)
	return true
}

func (s *Stream) Current() string {
	return s.current
}

func (s *Stream) Err() error {
	return s.err
}

// Text is the accumulated answer with the strip set trimmed from its edges.
func (s *Stream) Text() string {
	return domain.TrimEdges(s.text.String(), s.stripChars)
}

// Close abandons the stream. An unfinished exchange is not committed.
func (s *Stream) Close() error {
	if s.finished {
		return nil
	}

	s.finished = true
	err := s.source.close()
	s.release()
	return err
}

func (s *Stream) finish(success bool) {
	s.finished = true
	if err := s.source.close(); err != nil && s.err == nil && !success {
		s.err = err
	}
	if success && s.onComplete != nil {
		s.onComplete(s.Text())
	}
	s.release()
}

func (s *Stream) release() {
	if s.onRelease != nil {
		s.onRelease()
		s.onRelease = nil
	}
}

type bufferedSource struct {
	body       io.ReadCloser
	stripChars string
	consumed   bool
}

func (b *bufferedSource) next() (string, bool, error) {
	if b.consumed {
		return "", false, nil
	}
	b.consumed = true

	text, err := decodeBuffered(b.body, b.stripChars)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (b *bufferedSource) close() error {
	return b.body.Close()
}

type eventSource struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func newEventSource(body io.ReadCloser) *eventSource {
	return &eventSource{body: body, scanner: newChunkScanner(body)}
}

func (e *eventSource) next() (string, bool, error) {
	for e.scanner.Scan() {
		chunk := normalizeChunk(e.scanner.Text())
		if chunk == "" {
			continue
		}

		delta, found, done, err := parseChunk(chunk)
		if err != nil {
			return "", false, err
		}
		if done {
			return "", false, nil
		}
		if !found {
			continue
		}
		return delta, true, nil
	}

	err := e.scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return "", false, fmt.Errorf("%w: chunk exceeds %d bytes", domain.ErrMalformedChunk, maxStreamChunkBytes)
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read event stream: %v", domain.ErrTransport, err)
	}
	return "", false, nil
}

func (e *eventSource) close() error {
	return e.body.Close()
}

// diagnosticSource stands in for an answer when the request never reached the
// service: one human-readable fragment, then the transport error.
type diagnosticSource struct {
	message string
	err     error
	emitted bool
}

func (d *diagnosticSource) next() (string, bool, error) {
	if d.emitted {
		return "", false, d.err
	}
	d.emitted = true
	return d.message, true, nil
}

func (d *diagnosticSource) close() error {
	return nil
}
