package textquery

import (
	"fmt"
	"regexp"
)

func validateRegex(expression string) error {
	if _, err := regexp.Compile(expression); err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	return nil
}

// queryRegex matches against the raw page. When the pattern has capture
// groups the first group of each match is returned, otherwise the whole
// match.
func queryRegex(page, expression string) []string {
	re := regexp.MustCompile(expression)
	hasGroups := re.NumSubexp() > 0

	var values []string
	for _, match := range re.FindAllStringSubmatch(page, -1) {
		if hasGroups {
			values = append(values, match[1])
		} else {
			values = append(values, match[0])
		}
	}
	return values
}
