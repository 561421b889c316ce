package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewClampsOverlap(t *testing.T) {
	c := New(100, 150)
	if c.chunkOverlap >= c.chunkSize {
		t.Errorf("overlap %d not clamped below chunk size %d", c.chunkOverlap, c.chunkSize)
	}

	c = New(0, -1)
	if c.chunkSize != DefaultChunkSize || c.chunkOverlap != DefaultChunkOverlap {
		t.Errorf("expected defaults, got size=%d overlap=%d", c.chunkSize, c.chunkOverlap)
	}
}

func TestSplitEmpty(t *testing.T) {
	c := New(DefaultChunkSize, DefaultChunkOverlap)
	if chunks := c.Split("doc", "candidate", "a.txt", "   \n  "); chunks != nil {
		t.Errorf("expected nil for blank text, got %d chunks", len(chunks))
	}
}

func TestSplitSmallTextSingleChunk(t *testing.T) {
	c := New(DefaultChunkSize, DefaultChunkOverlap)
	chunks := c.Split("doc", "job", "jobs/j.txt", "short description")

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "short description" {
		t.Errorf("unexpected text: %q", chunks[0].Text)
	}
	if chunks[0].DocumentID != "doc" || chunks[0].Category != "job" || chunks[0].Index != 0 {
		t.Errorf("unexpected metadata: %+v", chunks[0])
	}
}

func TestSplitRespectsSizeAndOverlap(t *testing.T) {
	c := New(100, 20)
	text := strings.Repeat("a", 1000) // no natural boundaries

	chunks := c.Split("doc", "candidate", "c.txt", text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch.Text) > 100 {
			t.Errorf("chunk %d exceeds size: %d", i, len(ch.Text))
		}
		if ch.Index != i {
			t.Errorf("chunk %d has index %d", i, ch.Index)
		}
	}
	// Consecutive chunks overlap by the configured amount
	first, second := chunks[0].Text, chunks[1].Text
	if !strings.HasPrefix(second, first[len(first)-20:]) {
		t.Errorf("expected 20 character overlap between consecutive chunks")
	}
}

func TestSplitMultibyteText(t *testing.T) {
	c := New(100, 20)
	// CJK prose carries none of the ASCII separators, forcing hard cuts
	text := strings.Repeat("简历描述候选人的项目经验与技术栈", 30)

	chunks := c.Split("doc", "candidate", "c.txt", text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if !utf8.ValidString(ch.Text) {
			t.Errorf("chunk %d contains invalid UTF-8", i)
		}
		if n := utf8.RuneCountInString(ch.Text); n > 100 {
			t.Errorf("chunk %d exceeds size: %d runes", i, n)
		}
	}
	if last := chunks[len(chunks)-1]; !strings.HasSuffix(text, last.Text) {
		t.Errorf("last chunk does not cover document tail")
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	c := New(100, 10)
	para1 := strings.Repeat("x", 80)
	para2 := strings.Repeat("y", 80)
	text := para1 + "\n\n" + para2

	chunks := c.Split("doc", "candidate", "c.txt", text)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, "\n\n") {
		t.Errorf("expected first chunk to end at paragraph boundary, got %q", chunks[0].Text[len(chunks[0].Text)-5:])
	}
}

func TestSplitIdempotentOnContent(t *testing.T) {
	c := New(120, 30)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)

	first := c.Split("doc", "candidate", "c.txt", text)
	second := c.Split("doc", "candidate", "c.txt", text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("chunk %d text differs between runs", i)
		}
	}
}

func TestSplitCoversAllContent(t *testing.T) {
	c := New(100, 20)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)

	chunks := c.Split("doc", "candidate", "c.txt", text)

	var rebuilt strings.Builder
	pos := 0
	for _, ch := range chunks {
		idx := strings.Index(text[pos:], ch.Text)
		if idx == -1 {
			t.Fatalf("chunk %d is not a substring of remaining text", ch.Index)
		}
		rebuilt.WriteString(ch.Text)
		pos += idx
	}
	// The final chunk must reach the end of the document
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last.Text) {
		t.Errorf("last chunk does not cover document tail")
	}
}
