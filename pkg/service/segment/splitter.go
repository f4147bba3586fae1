package segment

import "strings"

const (
	// DefaultChunkSize is the target character length of one chunk
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the character overlap carried between
	// adjacent chunks
	DefaultChunkOverlap = 100
)

var defaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// SplitChunks splits text into chunks of roughly size characters with the
// given overlap, preferring to break on paragraph, line, sentence and word
// boundaries in that order before falling back to hard character cuts.
func SplitChunks(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	return splitRecursive(text, defaultSeparators, size, overlap)
}

func splitRecursive(text string, separators []string, size, overlap int) []string {
	sep := separators[len(separators)-1]
	var remaining []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			remaining = separators[i+1:]
			break
		}
	}

	var splits []string
	if sep == "" {
		splits = splitEvery(text, size, overlap)
	} else {
		splits = strings.Split(text, sep)
	}

	var chunks []string
	var pending []string
	flush := func() {
		if len(pending) > 0 {
			chunks = append(chunks, mergeSplits(pending, sep, size, overlap)...)
			pending = nil
		}
	}

	for _, s := range splits {
		if len(s) < size {
			pending = append(pending, s)
			continue
		}
		flush()
		if len(remaining) == 0 {
			chunks = append(chunks, s)
		} else {
			chunks = append(chunks, splitRecursive(s, remaining, size, overlap)...)
		}
	}
	flush()
	return chunks
}

// mergeSplits packs small fragments into chunks up to size, re-seeding each
// new chunk with up to overlap characters of trailing fragments from the
// previous one.
func mergeSplits(splits []string, sep string, size, overlap int) []string {
	sepLen := len(sep)
	var chunks []string
	var window []string
	total := 0

	joinLen := func(extra int) int {
		if len(window) == 0 {
			return extra
		}
		return total + sepLen + extra
	}

	for _, s := range splits {
		if joinLen(len(s)) > size && len(window) > 0 {
			if chunk := joinChunk(window, sep); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for len(window) > 0 && (total > overlap || joinLen(len(s)) > size) {
				total -= len(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		if len(window) > 0 {
			total += sepLen
		}
		window = append(window, s)
		total += len(s)
	}

	if chunk := joinChunk(window, sep); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func joinChunk(parts []string, sep string) string {
	return strings.TrimSpace(strings.Join(parts, sep))
}

// splitEvery hard-cuts a separator-free run into size-length pieces,
// advancing by size-overlap so adjacent pieces keep the same overlap as
// the separator-based levels.
func splitEvery(text string, size, overlap int) []string {
	stride := size - overlap
	if stride < 1 {
		stride = size
	}

	var out []string
	for len(text) > size {
		out = append(out, text[:size])
		text = text[stride:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}
