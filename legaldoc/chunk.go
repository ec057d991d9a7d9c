package legaldoc

import "strings"

const (
	// DefaultChunkTarget is the chunk window size in characters.
	DefaultChunkTarget = 4000
	// DefaultChunkOverlap is how many trailing characters of a chunk
	// reappear at the start of the next one.
	DefaultChunkOverlap = 400
)

// ChunkText splits text into windows of at most target characters where
// each window after the first starts overlap characters before the
// previous window's end. Pure and restartable. Empty input yields nil.
//
// The next start is clamped to previousStart+1, so the walk always
// advances and terminates even when overlap >= target. Windows are
// counted in runes; a chunk may split mid-word.
func ChunkText(text string, target, overlap int) []string {
	if text == "" {
		return nil
	}
	if target <= 0 {
		target = DefaultChunkTarget
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}

	runes := []rune(text)
	n := len(runes)
	var chunks []string
	for start := 0; start < n; {
		end := start + target
		if end > n {
			end = n
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == n {
			break
		}
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// ChunkParagraphs splits newline-delimited text into chunks of whole
// paragraphs not exceeding target characters. When a paragraph would
// overflow the window, the current chunk is flushed and the next one is
// seeded with the trailing overlap characters of the flushed chunk
// followed by the overflowing paragraph. A single paragraph longer than
// target becomes its own (oversized) chunk rather than being split.
//
// Used on the PDF path, where paragraph boundaries survived extraction
// and splitting mid-sentence would hurt retrieval.
func ChunkParagraphs(text string, target, overlap int) []string {
	if target <= 0 {
		target = DefaultChunkTarget
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}

	var paras []string
	for _, p := range strings.Split(text, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}

	var chunks []string
	var cur []string
	curLen := 0
	for _, p := range paras {
		if curLen+len(p)+1 <= target {
			cur = append(cur, p)
			curLen += len(p) + 1
			continue
		}
		if len(cur) > 0 {
			chunks = append(chunks, strings.Join(cur, " "))
		}
		if len(chunks) > 0 && overlap > 0 {
			tail := tailRunes(chunks[len(chunks)-1], overlap)
			cur = []string{tail, p}
			curLen = len(tail) + len(p) + 1
		} else {
			cur = []string{p}
			curLen = len(p)
		}
	}
	if len(cur) > 0 {
		chunks = append(chunks, strings.Join(cur, " "))
	}
	return chunks
}

func tailRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
