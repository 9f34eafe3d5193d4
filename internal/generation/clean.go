package generation

import "strings"

var DefaultMarkers = []string{"Paragraph:", "OUTPUT:", "TEXT:"}

// Cleaner turns raw engine output into a single paragraph.
type Cleaner struct {
	Markers []string
}

// Clean drops everything up to and including the earliest marker, keeps the
// first paragraph and trims it. When that leaves nothing the raw output, cut
// to 2*maxLength characters, is returned instead.
func (c Cleaner) Clean(raw string, maxLength int) string {
	return c.clean(raw, raw, maxLength)
}

// CleanEcho is Clean for engines that repeat the instruction before their
// continuation. The echoed instruction is removed first so markers inside
// the user's prompt cannot select the wrong paragraph. The fallback still
// uses the full raw output.
func (c Cleaner) CleanEcho(raw, instruction string, maxLength int) string {
	body := raw
	if instruction != "" && strings.HasPrefix(raw, instruction) {
		body = strings.TrimPrefix(raw, instruction)
	}
	return c.clean(body, raw, maxLength)
}

func (c Cleaner) clean(body, raw string, maxLength int) string {
	text := body
	if idx, marker := earliestMarker(text, c.Markers); idx >= 0 {
		text = strings.TrimSpace(text[idx+len(marker):])
	}
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)

	if text != "" {
		return text
	}
	if maxLength <= 0 {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(truncateRunes(raw, 2*maxLength))
}

func earliestMarker(text string, markers []string) (int, string) {
	best, found := -1, ""
	for _, m := range markers {
		if m == "" {
			continue
		}
		if i := strings.Index(text, m); i >= 0 && (best < 0 || i < best) {
			best, found = i, m
		}
	}
	return best, found
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
