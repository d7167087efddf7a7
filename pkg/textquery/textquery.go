// Package textquery extracts text from QRZ biography pages using CSS
// selectors, XPath expressions or regular expressions.
package textquery

import (
	"fmt"
	"strings"
)

// Extraction modes.
const (
	ModeCSS   = "css"
	ModeXPath = "xpath"
	ModeRegex = "regex"
)

// Result holds the values extracted from one page.
type Result struct {
	Values []string `json:"values"`
	Count  int      `json:"count"`
	Mode   string   `json:"mode"`
}

// DetectMode guesses the mode of an expression. Expressions that look like
// a location path are XPath, everything else is treated as a CSS selector.
// Regular expressions must be requested explicitly.
func DetectMode(expression string) string {
	e := strings.TrimSpace(expression)
	if strings.HasPrefix(e, "/") || strings.HasPrefix(e, "(") || strings.HasPrefix(e, "./") {
		return ModeXPath
	}
	return ModeCSS
}

// Query extracts values from page. An empty mode is detected from the
// expression. maxResults <= 0 means no limit.
func Query(page, expression, mode string, maxResults int) (*Result, error) {
	if mode == "" {
		mode = DetectMode(expression)
	}
	if err := Validate(expression, mode); err != nil {
		return nil, err
	}

	var (
		values []string
		err    error
	)
	switch mode {
	case ModeCSS:
		values, err = queryCSS(page, expression)
	case ModeXPath:
		values, err = queryXPath(page, expression)
	case ModeRegex:
		values = queryRegex(page, expression)
	}
	if err != nil {
		return nil, err
	}

	if maxResults > 0 && len(values) > maxResults {
		values = values[:maxResults]
	}
	if values == nil {
		values = []string{}
	}
	return &Result{Values: values, Count: len(values), Mode: mode}, nil
}

// Validate checks that expression compiles in mode.
func Validate(expression, mode string) error {
	if strings.TrimSpace(expression) == "" {
		return fmt.Errorf("%s expression is required", mode)
	}
	switch mode {
	case ModeCSS:
		return validateCSS(expression)
	case ModeXPath:
		return validateXPath(expression)
	case ModeRegex:
		return validateRegex(expression)
	default:
		return fmt.Errorf("unknown mode: %q (valid: css, xpath, regex)", mode)
	}
}

// collapse trims s and folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
