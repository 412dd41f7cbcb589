package parser

import (
	"strings"
)

// Parse reads the `Title:` and `Tags:` metadata lines at the head of a prompt
// file. Everything after the header is the body.
func Parse(filename string, content []byte) *Prompt {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	p := &Prompt{}

	i := 0

	// Skip leading blanks and comments
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		break
	}

	// Metadata header, in any order
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if value, ok := cutLabel(trimmed, "Title:"); ok {
			p.Title = value
			i++
			continue
		}
		if value, ok := cutLabel(trimmed, "Tags:"); ok {
			p.Tags = append(p.Tags, parseTags(value)...)
			i++
			continue
		}
		break
	}

	p.Name = p.Title
	if p.Name == "" {
		p.Name = filenameWithoutExt(filename)
	}

	p.BodyLine = i + 1
	p.Body = strings.TrimSpace(strings.Join(lines[i:], "\n"))
	return p
}

// cutLabel matches label case-insensitively at the start of line.
func cutLabel(line, label string) (string, bool) {
	if len(line) < len(label) || !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}
	return strings.TrimSpace(line[len(label):]), true
}

func parseTags(value string) []string {
	var tags []string
	for _, t := range strings.Split(value, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
