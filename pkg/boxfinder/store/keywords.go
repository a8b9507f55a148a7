package store

import (
	"regexp"
	"strings"

	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
)

var nonKeyword = regexp.MustCompile(`[^a-z0-9\s]`)

// NormalizeName lower-cases s and strips everything but letters, digits and
// single spaces.
func NormalizeName(s string) string {
	cleaned := nonKeyword.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// Keywords splits s into its normalized search words
func Keywords(s string) []string {
	return strings.Fields(NormalizeName(s))
}

// MatchesAll reports whether every keyword appears in the index
func MatchesAll(index, keywords []string) bool {
	set := make(map[string]struct{}, len(index))
	for _, k := range index {
		set[k] = struct{}{}
	}
	for _, k := range keywords {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}

// FilterMatches keeps the boxes matching every keyword, up to SearchLimit
func FilterMatches(boxes []models.Box, keywords []string) []models.Box {
	out := make([]models.Box, 0, len(boxes))
	for _, b := range boxes {
		if !MatchesAll(b.SearchKeywords, keywords) {
			continue
		}
		out = append(out, b)
		if len(out) == SearchLimit {
			break
		}
	}
	return out
}

// HasNameCollision reports whether any box already uses the normalized name
func HasNameCollision(boxes []models.Box, normalized string) bool {
	for _, b := range boxes {
		if NormalizeName(b.Name) == normalized {
			return true
		}
	}
	return false
}

// PrepareBox fills the derived fields of a box about to be inserted
func PrepareBox(box *models.Box) {
	box.NameNormalized = NormalizeName(box.Name)
	box.SearchKeywords = Keywords(box.Name)
	box.Approved = false
}
