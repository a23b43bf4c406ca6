package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	text := "texto curto que cabe em um único chunk"
	chunks := SplitText(text, 1000, 150)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("expected single chunk with original text, got %v", chunks)
	}
}

func TestSplitTextHardCutWithOverlap(t *testing.T) {
	// No spaces or newlines, so every cut is a hard cut at chunkSize
	text := "abcdefghijklmnopqrstuvwxy"
	chunks := SplitText(text, 10, 3)

	expected := []string{"abcdefghij", "hijklmnopq", "opqrstuvwx", "vwxy"}
	if len(chunks) != len(expected) {
		t.Fatalf("expected %d chunks, got %d: %v", len(expected), len(chunks), chunks)
	}
	for i, want := range expected {
		if chunks[i] != want {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want)
		}
	}
}

func TestSplitTextSnapsToSpace(t *testing.T) {
	text := strings.Repeat("palavra ", 20)
	chunks := SplitText(text, 50, 10)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(chunk, " ") {
			t.Errorf("chunk %d does not end at a word boundary: %q", i, chunk)
		}
	}
}

func TestSplitTextSnapsToNewline(t *testing.T) {
	text := strings.Repeat("a", 18) + "\n" + strings.Repeat("b", 20)
	chunks := SplitText(text, 20, 5)

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if !strings.HasSuffix(chunks[0], "\n") {
		t.Errorf("first chunk should end at the newline, got %q", chunks[0])
	}
}

func TestSplitTextOverlapNotSmallerThanChunk(t *testing.T) {
	text := strings.Repeat("x", 30)
	// overlap >= chunkSize must not loop forever
	chunks := SplitText(text, 10, 10)

	joined := strings.Join(chunks, "")
	if joined != text {
		t.Errorf("chunks do not cover text: %v", chunks)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  a   b\t\nc  ", "a b c"},
		{"simples", "simples"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeWhitespace(tc.in); got != tc.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
