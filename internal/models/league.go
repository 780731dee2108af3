package models

import "strings"

// Leagues the outcomes feed knows how to query
const (
	LeagueNFL   = "NFL"
	LeagueNBA   = "NBA"
	LeagueMLB   = "MLB"
	LeagueNHL   = "NHL"
	LeagueNCAAF = "NCAAF"
	LeagueNCAAB = "NCAAB"
	LeagueCBB   = "CBB"
)

var supportedLeagues = []string{
	LeagueNFL, LeagueNBA, LeagueMLB, LeagueNHL, LeagueNCAAF, LeagueNCAAB, LeagueCBB,
}

// SupportedLeagues returns the league tags in display order
func SupportedLeagues() []string {
	return append([]string(nil), supportedLeagues...)
}

// NormalizeLeague upper-cases and trims a league tag
func NormalizeLeague(league string) string {
	return strings.ToUpper(strings.TrimSpace(league))
}

// IsSupportedLeague reports whether the tag names a known league
func IsSupportedLeague(league string) bool {
	league = NormalizeLeague(league)
	for _, l := range supportedLeagues {
		if l == league {
			return true
		}
	}
	return false
}
