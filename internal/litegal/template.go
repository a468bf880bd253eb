package litegal

import "strings"

// Template is the empty gallery block inserted by the insert command.
const Template = "```" + Language + "\n\n```"

// InsertTemplate inserts Template into note so that it starts at line (zero
// based). Lines past the end append the block. It returns the new content and
// the line inside the block where the cursor belongs.
func InsertTemplate(note string, line int) (string, int) {
	trailingNewline := strings.HasSuffix(note, "\n")
	body := strings.TrimSuffix(note, "\n")

	var lines []string
	if body != "" || trailingNewline {
		lines = strings.Split(body, "\n")
	}
	line = min(max(line, 0), len(lines))

	block := strings.Split(Template, "\n")
	updated := make([]string, 0, len(lines)+len(block))
	updated = append(updated, lines[:line]...)
	updated = append(updated, block...)
	updated = append(updated, lines[line:]...)

	content := strings.Join(updated, "\n")
	if trailingNewline {
		content += "\n"
	}
	return content, line + 1
}
