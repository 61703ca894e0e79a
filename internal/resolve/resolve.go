// Package resolve matches free-form exercise names against the Hevy
// template catalog.
//
// Matching runs three tiers in strict order and stops at the first hit:
// case-insensitive exact title, the static alias table, then a token
// overlap score. Only the first tier yields a non-alternative match.
// Everything here is pure: the catalog is passed in, never stored.
package resolve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/claude/hevyplan/internal/models"
)

// Tier identifies which matching strategy produced a resolution.
type Tier string

const (
	TierExact Tier = "exact"
	TierAlias Tier = "alias"
	TierFuzzy Tier = "fuzzy"
	TierNone  Tier = "none"
)

var (
	qualifierRe = regexp.MustCompile(`\([^)]*\)`)
	separatorRe = regexp.MustCompile(`[\s-]+`)
)

var stopwords = map[string]bool{
	"with":     true,
	"using":    true,
	"on":       true,
	"the":      true,
	"a":        true,
	"an":       true,
	"machine":  true,
	"exercise": true,
}

// Match is a resolution together with the tier that produced it.
type Match struct {
	models.Resolution
	Tier Tier `json:"tier"`
}

// Candidate is a catalog entry scored by the fuzzy tier.
type Candidate struct {
	Entry models.CatalogEntry `json:"entry"`
	Score int                 `json:"score"`
}

// Resolve matches name against catalog. The boolean is false when no tier
// produced a match; an unmatched name is never an error.
func Resolve(name string, catalog []models.CatalogEntry) (Match, bool) {
	if e, ok := findTitle(name, catalog); ok {
		return newMatch(e, TierExact), true
	}

	if target, ok := Alias(name); ok {
		if e, ok := findTitle(target, catalog); ok {
			return newMatch(e, TierAlias), true
		}
	}

	if cands := Candidates(name, catalog, 1); len(cands) > 0 {
		return newMatch(cands[0].Entry, TierFuzzy), true
	}

	return Match{Tier: TierNone}, false
}

// SearchTerms normalises name for the fuzzy tier: lowercased, parenthesised
// qualifiers removed, split on whitespace and hyphens, stopwords dropped.
func SearchTerms(name string) []string {
	s := qualifierRe.ReplaceAllString(strings.ToLower(name), "")

	var terms []string
	for _, term := range separatorRe.Split(s, -1) {
		if term == "" || stopwords[term] {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// Candidates scores every catalog entry by how many search terms occur as a
// substring of its lowercased title. Zero scores are excluded. Results are
// ordered by descending score; equal scores keep catalog order. A limit of
// zero or less returns all candidates.
//
// Plain substring matching means no stemming: "lunges" does not match
// "Walking Lunge".
func Candidates(name string, catalog []models.CatalogEntry, limit int) []Candidate {
	terms := SearchTerms(name)
	if len(terms) == 0 {
		return nil
	}

	var cands []Candidate
	for _, e := range catalog {
		if e.ID == "" {
			continue
		}
		title := strings.ToLower(e.Title)
		score := 0
		for _, term := range terms {
			if strings.Contains(title, term) {
				score++
			}
		}
		if score > 0 {
			cands = append(cands, Candidate{Entry: e, Score: score})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})

	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}

// findTitle returns the first entry, in catalog order, whose title equals
// title ignoring case. Entries without an ID cannot be submitted and are
// never matched.
func findTitle(title string, catalog []models.CatalogEntry) (models.CatalogEntry, bool) {
	want := strings.ToLower(title)
	for _, e := range catalog {
		if e.ID == "" {
			continue
		}
		if strings.ToLower(e.Title) == want {
			return e, true
		}
	}
	return models.CatalogEntry{}, false
}

func newMatch(e models.CatalogEntry, tier Tier) Match {
	return Match{
		Resolution: models.Resolution{
			CatalogID:     e.ID,
			CanonicalName: e.Title,
			IsAlternative: tier != TierExact,
		},
		Tier: tier,
	}
}
