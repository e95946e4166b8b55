// Package summarize condenses abstract text, preferring a remote abstractive
// engine and degrading to an extractive first-sentences fallback.
package summarize

import "strings"

// splitSentences splits text on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') &&
			(i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n' || runes[i+1] == '\r') {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// chunk packs sentences into pieces of at most maxChars, hard-cutting the
// rare sentence that alone exceeds the limit so no chunk can overflow a
// small summarization model's input window.
func chunk(text string, maxChars int) []string {
	if maxChars <= 0 {
		return []string{text}
	}

	var out []string
	var buf string
	flush := func() {
		if buf != "" {
			out = append(out, buf)
			buf = ""
		}
	}

	for _, s := range splitSentences(text) {
		if len(s) > maxChars {
			flush()
			for len(s) > maxChars {
				out = append(out, s[:maxChars])
				s = s[maxChars:]
			}
			if s != "" {
				out = append(out, s)
			}
			continue
		}
		if buf == "" {
			buf = s
		} else if len(buf)+1+len(s) <= maxChars {
			buf = buf + " " + s
		} else {
			flush()
			buf = s
		}
	}
	flush()
	return out
}

// firstSentences is the extractive fallback: the first n sentences of the
// text, space-joined.
func firstSentences(text string, n int) string {
	sentences := splitSentences(text)
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return strings.TrimSpace(strings.Join(sentences, " "))
}
