package pdf

import "strings"

// SplitParagraphs splits text on line breaks. Each element is wrapped independently.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// WrapText greedily fills lines with space-separated words while the rendered width stays
// strictly below maxWidth. A word wider than maxWidth is emitted on a line of its own and is
// never split. Empty text yields a single empty line.
func WrapText(text string, maxWidth float64, font FontStyle, size float64, m Measurer) []string {
	var lines []string
	var current string
	started := false

	for _, word := range strings.Split(text, " ") {
		candidate := word
		if started {
			candidate = current + " " + word
		}
		if m.TextWidth(candidate, font, size) < maxWidth {
			current = candidate
			started = true
			continue
		}
		if started {
			lines = append(lines, current)
		}
		current = word
		started = true
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
