// File: internal/render/bullets.go
package render

import (
	"strings"
	"unicode"
)

// Bullet is the glyph that starts every bullet line.
const Bullet = "• "

// Bulletize reformats prose into bullets of two sentences each. Paragraphs
// (separated by blank lines) are paired independently, so an odd sentence
// at the end of a paragraph gets a bullet of its own. Bullets are separated
// by blank lines.
func Bulletize(content string) string {
	var bullets []string
	for _, paragraph := range splitParagraphs(content) {
		sentences := splitSentences(paragraph)
		for i := 0; i < len(sentences); i += 2 {
			line := sentences[i]
			if i+1 < len(sentences) {
				line += " " + sentences[i+1]
			}
			bullets = append(bullets, Bullet+line)
		}
	}
	return strings.Join(bullets, "\n\n")
}

// splitParagraphs splits on lines that are empty or whitespace only.
func splitParagraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var (
		paragraphs []string
		current    []string
	)
	flush := func() {
		if p := strings.TrimSpace(strings.Join(current, "\n")); p != "" {
			paragraphs = append(paragraphs, p)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}

// splitSentences cuts after '.', '!' or '?' when followed by whitespace.
// The whitespace run at a cut is dropped.
func splitSentences(paragraph string) []string {
	runes := []rune(paragraph)
	var (
		sentences []string
		start     int
	)
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
