package exporters

import (
	"strings"
	"unicode/utf8"
)

const maxFilenameBytes = 200

// filenameReplacer drops characters that are invalid in file names or break
// Obsidian links, and turns brackets into parentheses.
var filenameReplacer = strings.NewReplacer(
	"<", "", ">", "", ":", "", `"`, "", "/", "", `\`, "", "|", "", "?", "", "*", "",
	"#", "",
	"[", "(", "]", ")",
	"\r", " ", "\n", " ", "\t", " ",
)

// SanitizeFilename turns a book title into a file name usable in an Obsidian
// vault. The result is never empty and at most 200 bytes long.
func SanitizeFilename(title string) string {
	name := strings.Join(strings.Fields(filenameReplacer.Replace(title)), " ")

	if len(name) > maxFilenameBytes {
		name = name[:maxFilenameBytes]
		for !utf8.ValidString(name) {
			name = name[:len(name)-1]
		}
		name = strings.TrimSpace(name)
	}
	if name == "" {
		return "Untitled"
	}
	return name
}
