// AngelaMos | 2026
// parser.go

package outline

import (
	"errors"
	"strings"
)

// parseSections reads the "## heading" / "- bullet" format the prompt
// asks for. Model output drifts, so it is forgiving about surrounding
// noise: lines that are neither headings nor bullets are skipped, and
// bullets before the first heading are dropped.
func parseSections(raw string) ([]Section, error) {
	var sections []Section
	var current *Section

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "## "):
			if current != nil && len(current.Bullets) > 0 {
				sections = append(sections, *current)
			}
			current = &Section{
				Title: strings.TrimSpace(strings.TrimPrefix(line, "## ")),
			}

		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			if current == nil {
				continue
			}
			bullet := strings.TrimSpace(line[2:])
			if bullet != "" {
				current.Bullets = append(current.Bullets, bullet)
			}
		}
	}

	if current != nil && len(current.Bullets) > 0 {
		sections = append(sections, *current)
	}

	if len(sections) == 0 {
		return nil, errors.New("no sections found in model output")
	}

	return sections, nil
}
