package utils

import "strings"

// SplitText splits a long string into chunks of approximately 'chunkSize'
// characters with an 'overlap' to preserve context at boundaries. Chunk
// ends snap back to the nearest newline or space when one is close, so
// words are not cut in half.
func SplitText(text string, chunkSize int, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		} else {
			end = snapToBoundary(runes, i, end)
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}

// snapToBoundary walks back from 'end' looking for a newline or space
// within the last 15% of the chunk. When none is found the hard cut stands.
func snapToBoundary(runes []rune, start, end int) int {
	window := (end - start) * 15 / 100
	if window < 1 {
		return end
	}

	for i := end - 1; i > end-window && i > start; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i > end-window && i > start; i-- {
		if runes[i] == ' ' {
			return i + 1
		}
	}
	return end
}

// NormalizeWhitespace collapses runs of whitespace to single spaces
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
