package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one way to pull a field out of a page. A chain of
// strategies is tried in order and the first non-empty result wins.
type Strategy struct {
	// Selector picks elements; the first match's text (or Attr) is used.
	Selector string
	// Attr reads an attribute instead of text when set.
	Attr string
	// Pattern, when set, runs against the selected text (or against the
	// whole page text if Selector is empty) and returns capture group 1.
	Pattern *regexp.Regexp
	// FullText switches the strategy to the flattened page text.
	FullText bool
}

// Chain evaluates strategies against a parsed page. Missing fields come
// back as "": absence is not an error.
type Chain []Strategy

// Page wraps a parsed document with its flattened text, so chains and
// keyword matchers share one parse.
type Page struct {
	Doc  *goquery.Document
	Text string
	HTML string
}

// Parse builds a Page from raw HTML. Parse errors are reported; every
// extraction after that is best-effort.
func Parse(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Page{Doc: doc, Text: doc.Text(), HTML: html}, nil
}

// Eval runs the chain, returning the first non-empty result.
func (c Chain) Eval(p *Page) string {
	for _, s := range c {
		if v := s.eval(p); v != "" {
			return v
		}
	}
	return ""
}

func (s Strategy) eval(p *Page) string {
	var text string
	switch {
	case s.Selector != "":
		sel := p.Doc.Find(s.Selector).First()
		if sel.Length() == 0 {
			return ""
		}
		if s.Attr != "" {
			text, _ = sel.Attr(s.Attr)
		} else {
			text = sel.Text()
		}
	case s.FullText:
		text = p.Text
	default:
		text = p.HTML
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if s.Pattern != nil {
		m := s.Pattern.FindStringSubmatch(text)
		if len(m) < 2 {
			return ""
		}
		return strings.TrimSpace(m[1])
	}
	return text
}

// MatchCategories returns the labels whose keyword lists have at least
// one case-insensitive substring hit in the page text, in the given
// label order.
func MatchCategories(text string, order []string, categories map[string][]string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, label := range order {
		for _, kw := range categories[label] {
			if strings.Contains(lower, kw) {
				found = append(found, label)
				break
			}
		}
	}
	return found
}
