package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Review is one review card: a star rating plus the visible body text.
type Review struct {
	Rating int
	Body   string
}

var complaintFlags = []string{
	"poeira", "sujo", "limpeza", "dust", "dirty",
	"mancha", "odor", "rodapé", "suja", "manchada",
}

var ratingDigitRe = regexp.MustCompile(`(\d)`)

const gapPreviewLen = 80

const maxGapMentions = 3

// Reviews parses every review card on the page. Cards without a visible
// rating default to 5 stars.
func Reviews(p *Page) []Review {
	var reviews []Review
	p.Doc.Find(`div[data-review-id], div[data-testid="pdp-review-card-content"]`).Each(
		func(_ int, card *goquery.Selection) {
			rating := 5
			star := card.Find(`span[aria-label*="estrela"], span[aria-label*="star"]`).First()
			if label, ok := star.Attr("aria-label"); ok {
				if m := ratingDigitRe.FindStringSubmatch(label); m != nil {
					rating, _ = strconv.Atoi(m[1])
				}
			}
			body := card.Find(`span._163atp1, div[data-testid="pdp-review-description"]`).First().Text()
			reviews = append(reviews, Review{Rating: rating, Body: strings.TrimSpace(body)})
		})
	return reviews
}

// GapSummary condenses low-rated reviews that mention cleanliness into
// a short pipe-separated summary for the pitch. At most three snippets,
// deduplicated, each tagged with its rating. Empty when nothing qualifies.
func GapSummary(reviews []Review) string {
	seen := make(map[string]struct{})
	var mentions []string
	for _, r := range reviews {
		if r.Rating > 4 {
			continue
		}
		body := strings.ToLower(r.Body)
		if !containsAny(body, complaintFlags) {
			continue
		}
		snippet := body
		if runes := []rune(snippet); len(runes) > gapPreviewLen {
			snippet = string(runes[:gapPreviewLen])
		}
		mention := fmt.Sprintf("(%d★): %s...", r.Rating, strings.TrimSpace(snippet))
		if _, dup := seen[mention]; dup {
			continue
		}
		seen[mention] = struct{}{}
		mentions = append(mentions, mention)
		if len(mentions) == maxGapMentions {
			break
		}
	}
	return strings.Join(mentions, " | ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
