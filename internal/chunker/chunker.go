package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunk is a contiguous slice of a document's text, the unit indexed and
// retrieved by the vector store.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Category   string `json:"category"`
	Path       string `json:"path"`
	Index      int    `json:"index"`
	Text       string `json:"text"`
}

// Chunker splits document text into overlapping fixed-size chunks,
// preferring to break at paragraph, sentence or word boundaries before
// falling back to hard character cuts.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a chunker. Non-positive size or negative overlap fall back to
// the defaults; overlap is clamped below the chunk size.
func New(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 4
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// separators are tried in order when looking for a natural break point.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split chunks the text of a single document. Empty or whitespace-only text
// produces no chunks. Text within the chunk size is returned as one chunk.
// Sizes and positions are measured in runes so multibyte text is never cut
// mid-character.
func (c *Chunker) Split(documentID, category, path, text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.chunkSize {
		return []Chunk{{
			DocumentID: documentID,
			Category:   category,
			Path:       path,
			Index:      0,
			Text:       text,
		}}
	}

	var chunks []Chunk
	start := 0
	index := 0

	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.breakPoint(runes, start, end)
		}

		piece := string(runes[start:end])
		if strings.TrimSpace(piece) != "" {
			chunks = append(chunks, Chunk{
				DocumentID: documentID,
				Category:   category,
				Path:       path,
				Index:      index,
				Text:       piece,
			})
			index++
		}

		if end >= len(runes) {
			break
		}

		next := end - c.chunkOverlap
		if next <= start {
			// Guarantee forward progress on pathological input
			next = start + 1
		}
		start = next
	}

	return chunks
}

// breakPoint returns the preferred rune position to cut a chunk spanning
// [start, limit). Separators are searched backwards from the limit; a match
// in the second half of the window wins, otherwise the hard limit is used.
func (c *Chunker) breakPoint(runes []rune, start, limit int) int {
	window := string(runes[start:limit])
	minCut := (limit - start) / 2

	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx == -1 {
			continue
		}
		// Separators are ASCII, so the rune offset only shifts for the
		// window prefix.
		runeIdx := utf8.RuneCountInString(window[:idx])
		if runeIdx >= minCut {
			return start + runeIdx + len(sep)
		}
	}
	return limit
}
