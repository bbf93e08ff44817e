package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var descriptionChain = Chain{
	{Selector: `div[data-section-id="DESCRIPTION_DEFAULT"]`},
	{Selector: `div[data-testid="pdp-description-content"]`},
}

var titleChain = Chain{
	{Selector: `h1`},
	{Selector: `div[data-testid="listing-card-title"]`},
}

var priceChain = Chain{
	{Selector: `span._1y74zjx`},
	{Selector: `[data-testid="price-summary-total-price"]`},
}

var maintenanceOrder = []string{
	"Mármore/Vidro", "Piscina/Jacuzzi", "Automação", "Café Premium",
}

var maintenanceCategories = map[string][]string{
	"Mármore/Vidro":   {"mármore", "marble", "vidro", "glass", "madeira maciça"},
	"Piscina/Jacuzzi": {"piscina", "pool", "jacuzzi", "hidromassagem"},
	"Automação":       {"automatizada", "alexa", "voice command", "cinema", "smart"},
	"Café Premium":    {"nespresso", "espresso", "cafeteira"},
}

var perNightRe = regexp.MustCompile(`por (\d+) noit`)

// Description returns the listing long-form description, or "".
func Description(p *Page) string {
	return descriptionChain.Eval(p)
}

// Title returns the listing headline, or "".
func Title(p *Page) string {
	return titleChain.Eval(p)
}

// Maintenance returns the maintenance-signal labels present in the page
// text. Labels come back in a fixed order so comparisons are stable.
func Maintenance(p *Page) []string {
	return MatchCategories(p.Text, maintenanceOrder, maintenanceCategories)
}

// Badges detects listing-tier markers in the page text. Superhost comes
// from the host section, handled separately.
func Badges(p *Page) []string {
	var badges []string
	if strings.Contains(p.Text, "Luxe") {
		badges = append(badges, "Luxe")
	}
	if strings.Contains(p.Text, "Plus") {
		badges = append(badges, "Plus")
	}
	return badges
}

// Price pulls the displayed price and normalizes it to a nightly value.
// An explicit "por N noites" denominator wins; a bare total above 5000
// is assumed to span stayNights; anything else is already nightly.
func Price(p *Page, stayNights int) int {
	return NormalizePrice(priceChain.Eval(p), stayNights)
}

// NormalizePrice converts displayed price text to a nightly integer.
// Returns 0 when no digits are present.
func NormalizePrice(text string, stayNights int) int {
	if text == "" {
		return 0
	}
	denom := 1
	if loc := perNightRe.FindStringSubmatchIndex(text); loc != nil {
		denom, _ = strconv.Atoi(text[loc[2]:loc[3]])
		text = text[:loc[0]]
	}

	// Keep the integer part; dots are thousands separators here.
	head := strings.SplitN(text, ",", 2)[0]
	head = strings.ReplaceAll(head, ".", "")
	var digits strings.Builder
	for _, r := range head {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	val, _ := strconv.Atoi(digits.String())

	if denom > 1 {
		return val / denom
	}
	if val > 5000 && stayNights > 1 {
		return val / stayNights
	}
	return val
}

// PhotoCount counts distinct listing photos for the score input.
func PhotoCount(p *Page) int {
	seen := make(map[string]struct{})
	p.Doc.Find(`img[data-original-uri], picture img, img[src*="muscache"]`).Each(
		func(_ int, s *goquery.Selection) {
			src, ok := s.Attr("src")
			if !ok || src == "" {
				src, _ = s.Attr("data-original-uri")
			}
			if src != "" {
				seen[src] = struct{}{}
			}
		})
	return len(seen)
}

// RoomLinks returns distinct listing URLs linked from the page, query
// strings stripped and relative paths made absolute.
func RoomLinks(p *Page) []string {
	seen := make(map[string]struct{})
	var links []string
	p.Doc.Find(`a[href*="/rooms/"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.SplitN(href, "?", 2)[0]
		if strings.HasPrefix(href, "/") {
			href = "https://www.airbnb.com.br" + href
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links
}

// Links returns every absolute href on the page, for contact scanning.
func Links(p *Page) []string {
	var links []string
	p.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}
