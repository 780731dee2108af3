package reconcile

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMinMatchLength guards substring matches against short fragments
const DefaultMinMatchLength = 4

var (
	fillerWords = regexp.MustCompile(`\b(university|college|state|st|the)\b`)
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalize folds a team name for comparison: accents removed, lower-cased,
// the words university/college/state/st/the dropped, and everything that is
// not a letter or digit stripped.
func Normalize(name string) string {
	s := fillerWords.ReplaceAllString(fold(name), " ")
	return nonAlnum.ReplaceAllString(s, "")
}

// aliasKey folds like Normalize but keeps every word, so "Georgia State"
// and "Georgia" stay distinct.
func aliasKey(name string) string {
	return nonAlnum.ReplaceAllString(fold(name), "")
}

func fold(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	s := strings.ToLower(folded)
	return strings.NewReplacer("'", "", "’", "").Replace(s)
}

// TeamMatcher decides whether two team names refer to the same team
type TeamMatcher interface {
	Match(a, b string) bool
}

// SubstringMatcher matches normalized names that are equal or where one
// contains the other and the shorter is at least MinLength characters.
type SubstringMatcher struct {
	MinLength int
}

func (m SubstringMatcher) Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	minLen := m.MinLength
	if minLen <= 0 {
		minLen = DefaultMinMatchLength
	}
	if min(len(na), len(nb)) < minLen {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// DefaultAliasGroups are names the substring rule cannot connect, or
// connects wrongly once "state" is dropped
var DefaultAliasGroups = [][]string{
	{"Utah Mammoth", "Utah Hockey Club", "Utah Hockey"},
	{"FIU", "Florida International", "Florida Intl", "Florida FIU", "Florida Golden Panthers"},
	{"GW", "George Washington", "GW Revolutionaries"},
	{"NC State", "North Carolina State", "NC State Wolfpack"},
	{"UL Monroe", "Louisiana Monroe", "UL Monroe Warhawks", "ULM"},
	{"UCF", "Central Florida", "UCF Knights"},
	{"UNLV", "Nevada Las Vegas", "UNLV Rebels"},
	{"BYU", "Brigham Young", "BYU Cougars"},
	{"St. Thomas", "St. Thomas Tommies"},
	{"Little Rock", "Arkansas Little Rock", "Arkansas-Little Rock Trojans", "UALR"},
	{"SIUE", "SIU Edwardsville", "SIU Edwardsville Cougars", "Southern Illinois University Edwardsville"},
	{"FAU", "Florida Atlantic", "Florida Atlantic Owls"},
	{"Georgia State", "Georgia St", "Georgia State Panthers", "Georgia St Panthers", "George St Panthers"},
	{"Texas State", "Texas St", "Texas State Bobcats"},
	{"USF", "South Florida", "South Florida Bulls"},
	{"UNT", "North Texas", "North Texas Mean Green"},
	{"Louisiana Tech", "La Tech", "Louisiana Tech Bulldogs"},
	{"New Mexico State", "NM State", "New Mexico State Aggies"},
	{"Saint Louis", "St. Louis", "St. Louis Billikens"},
	{"St. John's", "St. John's Red Storm"},
	{"Georgetown", "Georgetown Hoyas"},
	{"VCU", "Virginia Commonwealth", "VCU Rams"},
	{"UIC", "Illinois Chicago", "UIC Flames"},
	{"Youngstown State", "Youngstown St", "Youngstown St Penguins"},
	{"Wright State", "Wright St", "Wright State Raiders"},
	{"Detroit Mercy", "Detroit", "Detroit Mercy Titans"},
	{"South Dakota", "South Dakota Coyotes"},
	{"South Dakota State", "South Dakota St", "South Dakota State Jackrabbits"},
	{"Arizona State", "Arizona St", "Arizona St Sun Devils"},
	{"Washington State", "Washington St", "Washington St Cougars"},
	{"Utah State", "Utah State Aggies"},
	{"Santa Clara", "Santa Clara Broncos"},
	{"San Diego", "University of San Diego", "San Diego Toreros"},
	{"San Diego State", "San Diego St", "San Diego State Aztecs"},
	{"Pepperdine", "Pepperdine Waves"},
	{"Seattle", "Seattle University", "Seattle Redhawks"},
	{"Loyola Marymount", "LMU", "LMU Lions", "Loyola Marymount Lions"},
	{"St. Bonaventure", "Bonaventure", "St. Bonaventure Bonnies"},
	{"Georgia Tech", "Georgia Institute of Technology", "Georgia Tech Yellow Jackets"},
}

// AliasMatcher settles names listed in an alias group itself and hands the
// rest to another matcher. Two listed names match only when they share a
// group; a listed name matches an unlisted one when the next matcher accepts
// it against one of the group's keys.
type AliasMatcher struct {
	next   TeamMatcher
	groups map[string][]string
}

// NewAliasMatcher indexes groups by alias key. Later groups win when a name
// appears twice.
func NewAliasMatcher(next TeamMatcher, groups [][]string) *AliasMatcher {
	if next == nil {
		next = SubstringMatcher{MinLength: DefaultMinMatchLength}
	}
	index := make(map[string][]string)
	for _, group := range groups {
		keys := make([]string, 0, len(group))
		seen := make(map[string]bool, len(group))
		for _, name := range group {
			k := aliasKey(name)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			keys = append(keys, k)
		}
		for _, k := range keys {
			index[k] = keys
		}
	}
	return &AliasMatcher{next: next, groups: index}
}

func (m *AliasMatcher) Match(a, b string) bool {
	ga, gb := m.groups[aliasKey(a)], m.groups[aliasKey(b)]
	switch {
	case ga == nil && gb == nil:
		return m.next.Match(a, b)
	case ga != nil && gb != nil:
		return shareKey(ga, gb)
	case ga != nil:
		return m.matchesGroup(ga, b)
	default:
		return m.matchesGroup(gb, a)
	}
}

func (m *AliasMatcher) matchesGroup(group []string, name string) bool {
	k := aliasKey(name)
	for _, g := range group {
		if m.next.Match(g, k) {
			return true
		}
	}
	return false
}

func shareKey(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
