package deck

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// The impostor card carries a fixed sentinel name instead of a real subject,
// and flavor text in the team slot telling the holder their card differs.
const (
	ImpostorName = "IMPOSTOR"
	ImpostorHint = "Tu carta es diferente. Disimula."
)

// Candidate is one entry in the pool the deal draws from.
type Candidate struct {
	Name     string
	Team     string
	Sport    string
	ImageURL string
	FunFact  string
}

// Card is the secret payload delivered to exactly one player. Field names
// follow the client contract.
type Card struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	Team       string `json:"team"`
	Sport      string `json:"sport"`
	IsImpostor bool   `json:"isImpostor"`
	ImageURL   string `json:"imageUrl,omitempty"`
	FunFact    string `json:"funFact,omitempty"`
}

// Build deals one card per roster position. Every crew member receives an
// identical copy of a single randomly chosen candidate; impostors receive an
// identical sentinel card sharing the crew card's sport. The impostor count
// is clamped so at least one crew member remains whenever the roster has two
// or more players.
func Build(roomCode string, playerIDs []string, impostors int, pool []Candidate, rng *rand.Rand, now time.Time) map[string]Card {
	n := len(playerIDs)
	if n == 0 || len(pool) == 0 {
		return map[string]Card{}
	}

	k := impostors
	if k < 1 {
		k = 1
	}
	if max := n - 1; k > max {
		k = max
	}
	if k < 1 {
		k = 1
	}

	impostorAt := make(map[int]bool, k)
	for len(impostorAt) < k {
		impostorAt[rng.Intn(n)] = true
	}

	crew := pool[rng.Intn(len(pool))]
	crewCard := Card{
		PlayerName: crew.Name,
		Team:       crew.Team,
		Sport:      crew.Sport,
		ImageURL:   crew.ImageURL,
		FunFact:    crew.FunFact,
	}
	impostorCard := Card{
		PlayerName: ImpostorName,
		Team:       ImpostorHint,
		Sport:      crew.Sport,
		IsImpostor: true,
	}

	deck := make(map[string]Card, n)
	for i, id := range playerIDs {
		card := crewCard
		if impostorAt[i] {
			card = impostorCard
		}
		// Fresh per-deal id so clients can tell a new deal from a re-render
		// even when the subject repeats.
		card.ID = fmt.Sprintf("%s-%d-%s", roomCode, now.UnixMilli(), uuid.NewString()[:8])
		deck[id] = card
	}
	return deck
}
