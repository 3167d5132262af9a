package catalog

import "github.com/impostando/impostando-backend/internal/deck"

// Built-in fallback entries so a deal can proceed with the provider down.

var localFootball = []deck.Candidate{
	{Name: "Lionel Messi", Team: "Inter Miami", Sport: "football"},
	{Name: "Kylian Mbappé", Team: "Real Madrid", Sport: "football"},
	{Name: "Erling Haaland", Team: "Manchester City", Sport: "football"},
	{Name: "Vinícius Jr.", Team: "Real Madrid", Sport: "football"},
	{Name: "Kevin De Bruyne", Team: "Manchester City", Sport: "football"},
	{Name: "Jude Bellingham", Team: "Real Madrid", Sport: "football"},
}

var localBasketball = []deck.Candidate{
	{Name: "LeBron James", Team: "Los Angeles Lakers", Sport: "basketball"},
	{Name: "Stephen Curry", Team: "Golden State Warriors", Sport: "basketball"},
	{Name: "Giannis Antetokounmpo", Team: "Milwaukee Bucks", Sport: "basketball"},
	{Name: "Nikola Jokić", Team: "Denver Nuggets", Sport: "basketball"},
	{Name: "Luka Dončić", Team: "Dallas Mavericks", Sport: "basketball"},
	{Name: "Jayson Tatum", Team: "Boston Celtics", Sport: "basketball"},
}

var popularTeams = []string{
	"Inter Miami",
	"Real Madrid",
	"Manchester City",
	"Los Angeles Lakers",
	"Golden State Warriors",
	"Milwaukee Bucks",
	"Denver Nuggets",
	"Dallas Mavericks",
	"Boston Celtics",
}

var famousKeywords = []string{
	"Messi",
	"Mbappé",
	"Haaland",
	"Vinícius",
	"De Bruyne",
	"Bellingham",
	"LeBron",
	"Curry",
	"Giannis",
	"Jokić",
	"Dončić",
	"Tatum",
}
