package application

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBufferedTrimsEdges(t *testing.T) {
	text, err := decodeBuffered(strings.NewReader(`{"choices":[{"message":{"content":"  «Hello»  "}}]}`), domain.DefaultStripChars)

	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
}

func TestDecodeBufferedRejectsMissingChoices(t *testing.T) {
	_, err := decodeBuffered(strings.NewReader(`{"choices":[]}`), domain.DefaultStripChars)
	assert.ErrorContains(t, err, "no choices")

	_, err = decodeBuffered(strings.NewReader(`not json`), domain.DefaultStripChars)
	assert.ErrorContains(t, err, "decode completion response")
}

func TestNormalizeChunk(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "first chunk keeps data prefix", raw: "data: {\"a\":1}\n", want: `{"a":1}`},
		{name: "later chunk", raw: " {\"a\":1}\n", want: `{"a":1}`},
		{name: "done", raw: " [DONE]\n\n", want: "[DONE]"},
		{name: "quotes and crlf", raw: "'{\"a\":1}'\r\n", want: `{"a":1}`},
		{name: "interior newline escaped", raw: "{\"a\":\"x\ny\"}", want: `{"a":"x\ny"}`},
		{name: "blank", raw: "\n\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeChunk(tt.raw))
		})
	}
}

func TestEventSourceYieldsDeltasUntilDone(t *testing.T) {
	raw := streamBody(
		`{"choices":[{"delta":{"content":"Hi"}}]}`,
		`{"choices":[{"delta":{"content":" there"}}]}`,
		`[DONE]`,
		`{"choices":[{"delta":{"content":"after done"}}]}`,
	)
	source := newEventSource(body(raw))

	var fragments []string
	for {
		fragment, ok, err := source.next()
		require.NoError(t, err)
		if !ok {
			break
		}
		fragments = append(fragments, fragment)
	}

	assert.Equal(t, []string{"Hi", " there"}, fragments)
	assert.NotContains(t, fragments, streamDoneToken)
}

func TestEventSourceHandlesChunksSplitAcrossReads(t *testing.T) {
	raw := streamBody(
		`{"choices":[{"delta":{"content":"При"}}]}`,
		`{"choices":[{"delta":{"content":"вет"}}]}`,
		`[DONE]`,
	)
	source := &eventSource{body: body(""), scanner: newChunkScanner(iotest.OneByteReader(strings.NewReader(raw)))}

	first, ok, err := source.next()
	require.NoError(t, err)
	require.True(t, ok)
	second, ok, err := source.next()
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = source.next()
	require.NoError(t, err)
	require.False(t, ok)

	assert.Equal(t, "Привет", first+second)
}

func TestEventSourceEndsWithoutSentinel(t *testing.T) {
	source := newEventSource(body(streamBody(`{"choices":[{"delta":{"content":"partial"}}]}`)))

	fragment, ok, err := source.next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "partial", fragment)

	_, ok, err = source.next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEventSourceFailsOnMalformedChunk(t *testing.T) {
	source := newEventSource(body(streamBody(`{"choices":[{"delta":`, `[DONE]`)))

	_, ok, err := source.next()
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedChunk))
}

func TestEventSourceSkipsChunksWithoutDelta(t *testing.T) {
	raw := streamBody(
		`{"choices":[{"delta":{"content":"Hi"}}]}`,
		`{"object":"ping"}`,
		`{"choices":[{"delta":{"role":"assistant"}}]}`,
		`{"choices":[{"delta":{"content":" there."}}]}`,
		`[DONE]`,
	)
	stream := newStream(newEventSource(body(raw)), domain.DefaultStripChars, nil, nil)

	fragments := drain(stream)

	require.NoError(t, stream.Err())
	assert.Equal(t, []string{"Hi", " there."}, fragments)
}

func TestEventSourceRejectsOversizedChunk(t *testing.T) {
	huge := `{"choices":[{"delta":{"content":"` + strings.Repeat("a", maxStreamChunkBytes) + `"}}]}`
	source := newEventSource(body(streamBody(huge, `[DONE]`)))

	_, ok, err := source.next()
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrMalformedChunk)
	assert.NotErrorIs(t, err, domain.ErrTransport)
}

func TestEventSourceReportsReadFailureAsTransport(t *testing.T) {
	source := &eventSource{body: body(""), scanner: newChunkScanner(iotest.ErrReader(errors.New("connection reset")))}

	_, ok, err := source.next()
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorContains(t, err, "connection reset")
}

func TestBufferedAndStreamedAnswersAgree(t *testing.T) {
	contents := []string{"Hi", " there", ", friend."}
	chunks := make([]string, 0, len(contents)+1)
	for _, content := range contents {
		chunks = append(chunks, `{"choices":[{"delta":{"content":"`+content+`"}}]}`)
	}
	chunks = append(chunks, streamDoneToken)

	streamed := newStream(newEventSource(body(streamBody(chunks...))), domain.DefaultStripChars, nil, nil)
	fragments := drain(streamed)
	require.NoError(t, streamed.Err())

	buffered := newStream(&bufferedSource{
		body:       body(`{"choices":[{"message":{"content":"` + strings.Join(contents, "") + `"}}]}`),
		stripChars: domain.DefaultStripChars,
	}, domain.DefaultStripChars, nil, nil)
	single := drain(buffered)
	require.NoError(t, buffered.Err())

	require.Len(t, single, 1)
	assert.Equal(t, single[0], domain.TrimEdges(strings.Join(fragments, ""), domain.DefaultStripChars))
	assert.Equal(t, buffered.Text(), streamed.Text())
	assert.Equal(t, "Hi there, friend", streamed.Text())
}
