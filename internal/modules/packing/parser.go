package packing

import (
	"strings"

	"github.com/tripscout/tripscout/internal/domain"
)

// ParseCategorized parses generated free text into the six fixed
// categories. A line containing a category keyword and a colon opens a
// section; bullet-prefixed lines ("-" or "•") under the active section
// become items. Unrecognized lines are skipped, so a malformed
// completion parses to an empty list rather than an error.
func ParseCategorized(text string) domain.PackingList {
	var list domain.PackingList
	var current *[]string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if section := matchSection(&list, line); section != nil {
			current = section
			continue
		}

		if current == nil {
			continue
		}
		if item, ok := bulletItem(line); ok {
			*current = append(*current, item)
		}
	}

	return list
}

func matchSection(list *domain.PackingList, line string) *[]string {
	if !strings.Contains(line, ":") {
		return nil
	}
	lower := strings.ToLower(line)

	switch {
	case strings.Contains(lower, "clothing"):
		return &list.Clothing
	case strings.Contains(lower, "accessories"):
		return &list.Accessories
	case strings.Contains(lower, "toiletries"):
		return &list.Toiletries
	case strings.Contains(lower, "documents"):
		return &list.Documents
	case strings.Contains(lower, "electronics"):
		return &list.Electronics
	case strings.Contains(lower, "miscellaneous"), strings.Contains(lower, "misc"):
		return &list.Miscellaneous
	default:
		return nil
	}
}

func bulletItem(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "-"):
		return strings.TrimSpace(strings.TrimPrefix(line, "-")), true
	case strings.HasPrefix(line, "•"):
		return strings.TrimSpace(strings.TrimPrefix(line, "•")), true
	default:
		return "", false
	}
}
