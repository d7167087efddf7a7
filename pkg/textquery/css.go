package textquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

func validateCSS(expression string) error {
	if _, err := cascadia.Compile(expression); err != nil {
		return fmt.Errorf("invalid CSS selector: %w", err)
	}
	return nil
}

// queryCSS returns the text of every element matching the selector.
func queryCSS(page, expression string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var values []string
	doc.Find(expression).Each(func(_ int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			values = append(values, text)
		}
	})
	return values, nil
}
