package deck

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPool = []Candidate{
	{Name: "Lionel Messi", Team: "Inter Miami", Sport: "football"},
	{Name: "Stephen Curry", Team: "Golden State Warriors", Sport: "basketball", ImageURL: "https://example.com/curry.png", FunFact: "4x champion"},
	{Name: "Erling Haaland", Team: "Manchester City", Sport: "football"},
}

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func splitDeck(deck map[string]Card) (impostors, crew []Card) {
	for _, c := range deck {
		if c.IsImpostor {
			impostors = append(impostors, c)
		} else {
			crew = append(crew, c)
		}
	}
	return impostors, crew
}

func TestBuild_ExactImpostorCount(t *testing.T) {
	cases := []struct {
		name      string
		players   int
		impostors int
		want      int
	}{
		{name: "one impostor of three", players: 3, impostors: 1, want: 1},
		{name: "clamped to players minus one", players: 4, impostors: 5, want: 3},
		{name: "zero raised to one", players: 5, impostors: 0, want: 1},
		{name: "two of six", players: 6, impostors: 2, want: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deck := Build("ABCDE", ids(tc.players), tc.impostors, testPool, testRng(), time.Now())
			require.Len(t, deck, tc.players)

			impostors, crew := splitDeck(deck)
			assert.Len(t, impostors, tc.want)
			assert.Len(t, crew, tc.players-tc.want)
		})
	}
}

func TestBuild_CrewCardsIdenticalExceptID(t *testing.T) {
	deck := Build("ABCDE", ids(6), 2, testPool, testRng(), time.Now())

	_, crew := splitDeck(deck)
	require.NotEmpty(t, crew)
	first := crew[0]
	for _, c := range crew[1:] {
		assert.Equal(t, first.PlayerName, c.PlayerName)
		assert.Equal(t, first.Team, c.Team)
		assert.Equal(t, first.Sport, c.Sport)
		assert.Equal(t, first.ImageURL, c.ImageURL)
		assert.Equal(t, first.FunFact, c.FunFact)
	}
}

func TestBuild_ImpostorCardsShareSentinelAndCrewSport(t *testing.T) {
	deck := Build("ABCDE", ids(5), 2, testPool, testRng(), time.Now())

	impostors, crew := splitDeck(deck)
	require.Len(t, impostors, 2)
	require.NotEmpty(t, crew)

	for _, c := range impostors {
		assert.Equal(t, ImpostorName, c.PlayerName)
		assert.Equal(t, ImpostorHint, c.Team)
		assert.Equal(t, crew[0].Sport, c.Sport, "impostor card copies the crew card sport")
		assert.Empty(t, c.ImageURL)
		assert.Empty(t, c.FunFact)
	}

	// The impostor card must be distinguishable from the crew card.
	assert.NotEqual(t, crew[0].PlayerName, impostors[0].PlayerName)
}

func TestBuild_FreshIDsEveryDeal(t *testing.T) {
	players := ids(4)
	seen := make(map[string]bool)

	for i := 0; i < 3; i++ {
		deck := Build("ABCDE", players, 1, testPool, testRng(), time.Now())
		for _, c := range deck {
			require.NotEmpty(t, c.ID)
			assert.False(t, seen[c.ID], "card id %q reused across deals", c.ID)
			seen[c.ID] = true
		}
	}
}

func TestBuild_EmptyInputs(t *testing.T) {
	assert.Empty(t, Build("ABCDE", nil, 1, testPool, testRng(), time.Now()))
	assert.Empty(t, Build("ABCDE", ids(3), 1, nil, testRng(), time.Now()))
}

func TestBuild_SinglePoolCandidate(t *testing.T) {
	pool := []Candidate{{Name: "Pelé", Team: "Santos", Sport: "football"}}
	deck := Build("ABCDE", ids(3), 1, pool, testRng(), time.Now())

	impostors, crew := splitDeck(deck)
	require.Len(t, impostors, 1)
	for _, c := range crew {
		assert.Equal(t, "Pelé", c.PlayerName)
	}
}
