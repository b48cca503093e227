package application

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/tidwall/gjson"
)

const (
	streamDelimiter     = "\ndata:"
	streamDataPrefix    = "data:"
	streamDoneToken     = "[DONE]"
	streamChunkCutset   = "'\n\r "
	maxCompletionBytes  = 8 << 20
	maxStreamChunkBytes = 1 << 20
	maxQuotedChunkBytes = 120
)

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func decodeBuffered(body io.Reader, stripChars string) (string, error) {
	var payload completionResponse
	if err := json.NewDecoder(io.LimitReader(body, maxCompletionBytes)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}

	return domain.TrimEdges(payload.Choices[0].Message.Content, stripChars), nil
}

func newChunkScanner(body io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamChunkBytes)
	scanner.Split(splitStreamChunks)
	return scanner
}

// splitStreamChunks cuts the event stream on "\ndata:".
func splitStreamChunks(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte(streamDelimiter)); i >= 0 {
		return i + len(streamDelimiter), data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

func normalizeChunk(raw string) string {
	chunk := strings.Trim(raw, streamChunkCutset)
	if rest, ok := strings.CutPrefix(chunk, streamDataPrefix); ok {
		chunk = strings.Trim(rest, streamChunkCutset)
	}

	return strings.ReplaceAll(chunk, "\n", `\n`)
}

// parseChunk returns the text delta of the first candidate. found is false for
// chunks without a delta, such as keep-alives. done reports the termination token.
func parseChunk(chunk string) (delta string, found, done bool, err error) {
	if chunk == streamDoneToken {
		return "", false, true, nil
	}
	if !gjson.Valid(chunk) {
		return "", false, false, fmt.Errorf("%w: %q", domain.ErrMalformedChunk, quoteChunk(chunk))
	}

	content := gjson.Get(chunk, "choices.0.delta.content")
	if !content.Exists() {
		return "", false, false, nil
	}
	return content.String(), true, false, nil
}

func quoteChunk(chunk string) string {
	if len(chunk) <= maxQuotedChunkBytes {
		return chunk
	}
	return chunk[:maxQuotedChunkBytes] + "..."
}
