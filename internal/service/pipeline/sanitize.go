package pipeline

import "strings"

// SanitizeForSpeech strips content a synthesizer cannot usefully vocalize:
// runes outside the Basic Multilingual Plane (emoji and symbol planes) and
// markdown emphasis/heading markers. Applying it twice equals applying once.
func SanitizeForSpeech(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r > 0xFFFF {
			continue
		}
		if r == '*' || r == '#' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
