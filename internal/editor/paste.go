package editor

import "strings"

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// NormalizePaste prepares clipboard text for the buffer: stray
// bracketed-paste markers are removed and CRLF or lone CR line endings
// become LF.
func NormalizePaste(content string) string {
	if content == "" {
		return ""
	}
	content = strings.ReplaceAll(content, pasteStart, "")
	content = strings.ReplaceAll(content, pasteEnd, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}
