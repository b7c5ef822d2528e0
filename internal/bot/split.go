package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SplitThread splits text into thread-sized parts at word boundaries,
// suffixing each with a " (i/n)" marker. Words longer than a part get
// hard-split so every returned part fits within limit. Text that
// already fits is returned as a single unmarked part.
func SplitThread(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxPostLength
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	words := strings.Fields(text)

	// The " (i/n)" marker grows with the part count, so retry with a
	// wider reservation until the count fits its own marker.
	for digits := 2; ; digits++ {
		avail := limit - (4 + 2*digits)
		if avail < 1 {
			return nil
		}

		parts := packWords(words, avail)
		if len(parts) >= pow10(digits) {
			continue
		}

		total := len(parts)
		for i, part := range parts {
			parts[i] = fmt.Sprintf("%s (%d/%d)", part, i+1, total)
		}
		return parts
	}
}

// packWords greedily fills parts up to avail runes, hard-splitting any
// word that alone exceeds avail.
func packWords(words []string, avail int) []string {
	var parts []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range words {
		for utf8.RuneCountInString(word) > avail {
			flush()
			runes := []rune(word)
			parts = append(parts, string(runes[:avail]))
			word = string(runes[avail:])
		}

		wlen := utf8.RuneCountInString(word)
		if wlen == 0 {
			continue
		}
		add := wlen
		if currentLen > 0 {
			add++ // joining space
		}
		if currentLen > 0 && currentLen+add > avail {
			flush()
			add = wlen
		}
		if currentLen > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
		currentLen += add
	}
	flush()
	return parts
}

func pow10(n int) int {
	p := 1
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}
