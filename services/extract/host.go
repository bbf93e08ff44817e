package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var hostSectionSelectors = []string{
	`div[data-section-id="HOST_PROFILE_DEFAULT"]`,
	`div[data-testid="pdp-host-profile-section"]`,
	`div[data-section-id="HOST_OVERVIEW_DEFAULT"]`,
	`section[data-section-id="HOST_PROFILE_DEFAULT"]`,
}

var hostTextMarkers = []string{
	"anfitrião", "anfitriã", "hosted by", "superhost", "superanfitrião",
}

var superhostMarkers = []string{"superhost", "superanfitrião", "superanfitriã"}

// The h2/h3 inside the host section often carries button text instead
// of the host's name.
var hostNameGarbage = []string{"consultar perfil", "ver perfil", "profile"}

var hostNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Anfitri[ãa]\(?o?\)?[:\s]+([A-ZÀ-Ú][\w\s\-&\.]+)`),
	regexp.MustCompile(`Hosted by\s+(.+?)(?:\s*$|\s*Superhost)`),
	regexp.MustCompile(`Hospede-se com\s+(.+?)(?:\s*$|\s*Superhost)`),
}

var (
	hostNamePrefixRe     = regexp.MustCompile(`(?i)(Hosted by|Hospede-se com|Anfitriã?o:?\s*)`)
	superhostSuffixRe    = regexp.MustCompile(`(?i)Superhost.*$`)
	hostingYearsSuffixRe = regexp.MustCompile(`(?i)\d+\s*anos?\s*hospedando.*$`)
)

// The profile link carrying the PdpHomeMarketplace marker belongs to the
// host; review cards link to commenters without it.
var (
	hostProfileURLRe = regexp.MustCompile(`/users/(?:show|profile)/(\d+)\?[^"']*PdpHomeMarketplace`)
	hostIDJSONRe     = regexp.MustCompile(`"hostId"\s*:\s*"?(\d+)"?`)
)

var portfolioPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*an[uú]ncios?`),
	regexp.MustCompile(`[Vv]er\s+(?:os\s+)?(\d+)`),
	regexp.MustCompile(`[Ss]ee\s+all\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+acomoda[çc]`),
	regexp.MustCompile(`(\d+)\s+places?\b`),
	regexp.MustCompile(`(\d+)\s+listings?\b`),
	regexp.MustCompile(`[Ss]howing\s+(\d+)`),
}

// HostSection finds the block describing the host, falling back to a
// text scan over sections when the known selectors miss.
func HostSection(p *Page) *goquery.Selection {
	for _, sel := range hostSectionSelectors {
		if s := p.Doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	var found *goquery.Selection
	p.Doc.Find("section, div[data-section-id]").EachWithBreak(
		func(_ int, s *goquery.Selection) bool {
			txt := strings.ToLower(s.Text())
			for _, kw := range hostTextMarkers {
				if strings.Contains(txt, kw) {
					found = s
					return false
				}
			}
			return true
		})
	return found
}

// Superhost reports whether the host section text carries the badge, in
// either language.
func Superhost(sectionText string) bool {
	lower := strings.ToLower(sectionText)
	for _, kw := range superhostMarkers {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// HostName pulls the host's name out of the section text, preferring
// labeled patterns, then a filtered heading fallback, and strips the
// badge and tenure suffixes the page glues onto it.
func HostName(section *goquery.Selection) string {
	if section == nil || section.Length() == 0 {
		return ""
	}
	text := section.Text()

	var name string
	for _, pat := range hostNamePatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			candidate := strings.TrimSpace(m[1])
			if candidate != "" && !isGarbageName(candidate) {
				name = candidate
				break
			}
		}
	}
	if name == "" {
		heading := section.Find("h2, h3, h1").First()
		raw := strings.TrimSpace(hostNamePrefixRe.ReplaceAllString(heading.Text(), ""))
		if raw != "" && !isGarbageName(raw) {
			name = raw
		}
	}
	if name == "" {
		return ""
	}

	name = strings.TrimSpace(superhostSuffixRe.ReplaceAllString(name, ""))
	name = strings.TrimSpace(hostingYearsSuffixRe.ReplaceAllString(name, ""))
	return strings.TrimRight(name, " ·.")
}

func isGarbageName(s string) bool {
	lower := strings.ToLower(s)
	for _, g := range hostNameGarbage {
		if lower == g {
			return true
		}
	}
	return false
}

// HostID digs the host's numeric user ID out of the raw HTML, trying the
// profile-URL marker first and the embedded JSON second. Empty when the
// page never names its host.
func HostID(rawHTML string) string {
	if m := hostProfileURLRe.FindStringSubmatch(rawHTML); m != nil {
		return m[1]
	}
	if m := hostIDJSONRe.FindStringSubmatch(rawHTML); m != nil {
		return m[1]
	}
	return ""
}

// HostProfileURL builds the profile address for a host ID. The marker
// parameter is required or the page redirects to login.
func HostProfileURL(hostID string) string {
	return "https://www.airbnb.com.br/users/profile/" + hostID +
		"?previous_page_name=PdpHomeMarketplace"
}

// PortfolioSize estimates how many listings a host operates from their
// profile text, falling back to counting distinct room links. "1 anúncio"
// style matches are skipped; the floor is 1.
func PortfolioSize(p *Page) int {
	for _, pat := range portfolioPatterns {
		m := pat.FindStringSubmatch(p.Text)
		if m == nil {
			continue
		}
		val, _ := strconv.Atoi(m[1])
		if val > 1 {
			return val
		}
	}
	if links := RoomLinks(p); len(links) > 1 {
		return len(links)
	}
	return 1
}
