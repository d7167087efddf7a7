package client

import (
	"bytes"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
)

// isEnvelope reports whether body is a QRZDatabase XML document rather than
// an HTML page.
func isEnvelope(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return false
	}
	doc, err := xmlquery.Parse(bytes.NewReader(trimmed))
	if err != nil {
		return false
	}
	return xmlquery.FindOne(doc, "/*[local-name()='QRZDatabase']") != nil
}

// Text returns the visible text of the biography with markup, scripts and
// styles removed and whitespace collapsed.
func (b *Biography) Text() string {
	if b.IsEmpty() {
		return ""
	}
	doc, err := htmlquery.Parse(strings.NewReader(b.HTML))
	if err != nil {
		return strings.Join(strings.Fields(b.HTML), " ")
	}
	var parts []string
	for _, n := range htmlquery.Find(doc, "//text()[not(ancestor::script) and not(ancestor::style)]") {
		parts = append(parts, n.Data)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Links returns the href targets of the anchors in the biography.
func (b *Biography) Links() []string {
	if b.IsEmpty() {
		return nil
	}
	doc, err := htmlquery.Parse(strings.NewReader(b.HTML))
	if err != nil {
		return nil
	}
	var links []string
	for _, a := range htmlquery.Find(doc, "//a[@href]") {
		if href := strings.TrimSpace(htmlquery.SelectAttr(a, "href")); href != "" {
			links = append(links, href)
		}
	}
	return links
}
