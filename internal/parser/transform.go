package parser

import (
	"regexp"
	"strings"
)

var numberedStep = regexp.MustCompile(`^\s*\d+\.\s`)

// Segment splits a prompt body into ordered step units. When any line is a
// numbered step only the numbered lines become units, and the unnumbered lines
// below a step are kept in its Block; otherwise the whole body is a single
// unit. A blank body yields no units.
func Segment(body string) []StepUnit {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	lines := strings.Split(body, "\n")
	var units []StepUnit
	var block []string
	flush := func() {
		if len(units) > 0 {
			units[len(units)-1].Block = strings.Join(block, "\n")
		}
	}
	for i, line := range lines {
		loc := numberedStep.FindStringIndex(line)
		if loc == nil {
			if len(units) > 0 && strings.TrimSpace(line) != "" {
				block = append(block, strings.TrimSpace(line))
			}
			continue
		}
		flush()
		text := strings.TrimSpace(line[loc[1]:])
		units = append(units, StepUnit{Index: len(units), Line: i + 1, Text: text})
		block = []string{text}
	}
	if len(units) > 0 {
		flush()
		return units
	}

	text := strings.TrimSpace(body)
	return []StepUnit{{Index: 0, Line: 1, Text: text, Block: text}}
}
