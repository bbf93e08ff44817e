package contact

import (
	"fmt"
	"regexp"
	"strings"
)

// Info holds whatever contact channels could be recovered for a host.
// Empty fields mean nothing was found.
type Info struct {
	Email     string
	Phone     string
	Instagram string
	Website   string
}

func (i Info) Empty() bool {
	return i.Email == "" && i.Phone == "" && i.Instagram == "" && i.Website == ""
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// Brazilian numbers, optionally with country code and area code.
	phoneRe     = regexp.MustCompile(`(?:\+?55\s?)?(?:\(?\d{2}\)?\s?)?\d{4,5}[\-\s]?\d{4}`)
	instaLinkRe = regexp.MustCompile(`instagram\.com/([a-zA-Z0-9_.]+)`)
	instaTextRe = regexp.MustCompile(`@([a-zA-Z0-9_.]{3,30})`)
	nonDigitRe  = regexp.MustCompile(`[^\d+]`)
)

var emailBlocklist = []string{"airbnb", "noreply", "example", "test"}

// Path segments like /p/ and /reel/ are posts, not profiles.
var instaLinkBlocklist = []string{"p", "reel", "explore", "accounts"}

var instaTextBlocklist = []string{"airbnb", "gmail", "hotmail", "yahoo", "outlook", "icloud"}

var websiteBlocklist = []string{
	"airbnb", "google", "facebook", "instagram", "apple", "play.google",
}

// Email returns the first plausible address in text, skipping platform
// and placeholder domains.
func Email(text string) string {
	for _, m := range emailRe.FindAllString(text, -1) {
		if blocked(strings.ToLower(m), emailBlocklist) {
			continue
		}
		return m
	}
	return ""
}

// Phone returns the first match normalized to digits (keeping a leading +).
// Matches shorter than a full local number are discarded.
func Phone(text string) string {
	for _, m := range phoneRe.FindAllString(text, -1) {
		digits := nonDigitRe.ReplaceAllString(m, "")
		n := len(strings.TrimPrefix(digits, "+"))
		if n >= 10 {
			return digits
		}
	}
	return ""
}

// Instagram looks for a profile handle, preferring explicit instagram.com
// links over bare @handles in free text.
func Instagram(text string) string {
	for _, m := range instaLinkRe.FindAllStringSubmatch(text, -1) {
		handle := strings.TrimRight(m[1], ".")
		h := strings.ToLower(handle)
		if exactMatch(h, instaLinkBlocklist) || strings.Contains(h, "airbnb") {
			continue
		}
		return handle
	}
	for _, m := range instaTextRe.FindAllStringSubmatch(text, -1) {
		handle := strings.TrimRight(m[1], ".")
		if blockedHandle(handle, instaTextBlocklist) {
			continue
		}
		return handle
	}
	return ""
}

func exactMatch(s string, list []string) bool {
	for _, b := range list {
		if s == b {
			return true
		}
	}
	return false
}

// Website picks the first external link that is not a platform or
// social-network URL.
func Website(links []string) string {
	for _, link := range links {
		l := strings.ToLower(link)
		if !strings.HasPrefix(l, "http") {
			continue
		}
		if blocked(l, websiteBlocklist) {
			continue
		}
		return link
	}
	return ""
}

// Resolve scans profile text plus outbound links for every channel at once.
func Resolve(text string, links []string) Info {
	return Info{
		Email:     Email(text),
		Phone:     Phone(text),
		Instagram: Instagram(text),
		Website:   Website(links),
	}
}

// SearchQuery builds the web query used to escalate when a profile
// yields no direct channel.
func SearchQuery(hostName string) string {
	return fmt.Sprintf("%q contato email telefone instagram rio de janeiro", hostName)
}

func blocked(s string, list []string) bool {
	for _, b := range list {
		if strings.Contains(s, b) {
			return true
		}
	}
	return false
}

func blockedHandle(handle string, list []string) bool {
	h := strings.ToLower(handle)
	for _, b := range list {
		if h == b || strings.Contains(h, b) {
			return true
		}
	}
	return false
}
