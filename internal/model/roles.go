package model

// Role is a character role dealt to a room member when the game starts
type Role string

// RoleCatalog is the fixed set of assignable roles. A game deals from
// this catalog without replacement, which caps a room at six players.
var RoleCatalog = []Role{
	"Cook",
	"Police Officer",
	"Scientist",
	"Biologist",
	"Physicist",
	"Athlete",
}

// MinPlayers is the smallest member count a game can start with
const MinPlayers = 2

// MaxPlayers is the largest member count a game can start with,
// bounded by the catalog size
const MaxPlayers = 6

// InCatalog reports whether the role is one of the catalog entries
func (r Role) InCatalog() bool {
	for _, c := range RoleCatalog {
		if r == c {
			return true
		}
	}
	return false
}
