package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/icewatch/ice-news-monitor/internal/repository"
)

// TranslateChunkLimit is the maximum text length per translation call,
// in runes. The backend rejects longer inputs.
const TranslateChunkLimit = 4500

// Translator translates arbitrary-length text through a bounded-size
// backend by splitting it into chunks and reassembling the results.
type Translator struct {
	backend    repository.TranslateRepository
	sourceLang string
	targetLang string
	chunkLimit int
}

func NewTranslator(backend repository.TranslateRepository, sourceLang, targetLang string) *Translator {
	return &Translator{
		backend:    backend,
		sourceLang: sourceLang,
		targetLang: targetLang,
		chunkLimit: TranslateChunkLimit,
	}
}

// translationChunk is a bounded slice of the source text. The offset is
// the rune position of the chunk in the original, used for error reports.
type translationChunk struct {
	text   string
	offset int
}

// Translate translates text chunk by chunk, in order, and joins the
// results with a single space. All-or-nothing: if any chunk fails the
// whole call fails and partial output is discarded. Empty input returns
// empty output without calling the backend.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	chunks := splitIntoChunks(text, t.chunkLimit)

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := t.backend.TranslateChunk(ctx, chunk.text, t.sourceLang, t.targetLang)
		if err != nil {
			return "", &TranslationError{Offset: chunk.offset, Err: err}
		}
		parts = append(parts, translated)
	}

	return strings.Join(parts, " "), nil
}

// splitIntoChunks splits text into chunks of at most limit runes, cutting
// at paragraph breaks where possible, then sentence ends, then any
// whitespace. It never splits inside a word unless a single unbroken run
// exceeds the limit. The policy is deterministic: the same text always
// yields the same boundaries.
func splitIntoChunks(text string, limit int) []translationChunk {
	runes := []rune(text)
	var chunks []translationChunk

	start := 0
	for start < len(runes) {
		if len(runes)-start <= limit {
			chunks = append(chunks, translationChunk{text: string(runes[start:]), offset: start})
			break
		}

		end := start + limit + 1
		if end > len(runes) {
			end = len(runes)
		}
		cut := lastBoundary(runes[start:end])
		if cut <= 0 {
			cut = limit
		}

		chunks = append(chunks, translationChunk{text: string(runes[start : start+cut]), offset: start})
		start += cut

		// The separating whitespace itself is dropped; reassembly inserts
		// a single space between chunk translations.
		for start < len(runes) && unicode.IsSpace(runes[start]) {
			start++
		}
	}

	return chunks
}

// lastBoundary returns the cut index of the best split point in window,
// or -1 when the window holds a single unbroken run.
func lastBoundary(window []rune) int {
	// Paragraph break
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i - 1
		}
	}

	// Sentence end followed by whitespace
	for i := len(window) - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) && isSentenceEnd(window[i-1]) {
			return i
		}
	}

	// Any whitespace
	for i := len(window) - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}

	return -1
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
