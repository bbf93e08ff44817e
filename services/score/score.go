// Package score computes the luxury score used to rank leads for outreach.
package score

import (
	"math"
	"strings"
)

// luxuryKeywords is the fixed list matched case-insensitively against titles.
var luxuryKeywords = []string{
	"luxo", "luxury", "vista mar", "ocean view", "cobertura",
	"penthouse", "design", "exclusivo",
}

// Luxury combines nightly price, title keywords, photo count and badges into
// a 0–100 score. Pure and deterministic; the result is a projection, never
// stored as a source of truth.
//
//	price component:   (price/10000)*50, capped at 50
//	keyword component: (matched/total)*30
//	photo component:   (photos/50)*10, capped at 10
//	badge component:   Luxe 10, Plus 5, else 0
func Luxury(pricePerNight int, title string, photoCount int, badges []string) float64 {
	pricePts := math.Min(float64(pricePerNight)/10000.0*50.0, 50.0)

	lower := strings.ToLower(title)
	matched := 0
	for _, kw := range luxuryKeywords {
		if strings.Contains(lower, kw) {
			matched++
		}
	}
	kwPts := float64(matched) / float64(len(luxuryKeywords)) * 30.0

	photoPts := math.Min(float64(photoCount)/50.0*10.0, 10.0)

	badgePts := 0.0
	if contains(badges, "Luxe") {
		badgePts = 10.0
	} else if contains(badges, "Plus") {
		badgePts = 5.0
	}

	return math.Round((pricePts+kwPts+photoPts+badgePts)*10) / 10
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
