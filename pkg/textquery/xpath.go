package textquery

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
)

func validateXPath(expression string) error {
	if _, err := xpath.Compile(expression); err != nil {
		return fmt.Errorf("invalid XPath expression: %w", err)
	}
	return nil
}

// queryXPath returns the inner text of every node the expression selects.
// Attribute nodes yield their value.
func queryXPath(page, expression string) ([]string, error) {
	doc, err := htmlquery.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	nodes, err := htmlquery.QueryAll(doc, expression)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath expression: %w", err)
	}

	var values []string
	for _, node := range nodes {
		if text := collapse(htmlquery.InnerText(node)); text != "" {
			values = append(values, text)
		}
	}
	return values, nil
}
