package game

import "encoding/json"

type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
	SportAll        Sport = "all"
)

const (
	minRoomSize  = 3
	maxRoomSize  = 20
	minImpostors = 1
	maxImpostors = 5
)

type Filters struct {
	PopularTeams  bool `json:"popularTeams"`
	FamousPlayers bool `json:"famousPlayers"`
}

type Settings struct {
	Sport       Sport    `json:"sport"`
	MaxPlayers  int      `json:"maxPlayers"`
	Impostors   int      `json:"impostors"`
	Filters     Filters  `json:"filters"`
	CustomCards []string `json:"customCards"`
}

func DefaultSettings() Settings {
	return Settings{
		Sport:      SportAll,
		MaxPlayers: 12,
		Impostors:  1,
		Filters: Filters{
			PopularTeams:  true,
			FamousPlayers: true,
		},
		CustomCards: []string{},
	}
}

// SettingsPatch is a partial settings update. Absent fields leave the
// current value untouched; malformed fields are ignored individually rather
// than failing the whole patch.
type SettingsPatch struct {
	Sport       *string         `json:"sport,omitempty"`
	MaxPlayers  *int            `json:"maxPlayers,omitempty"`
	Impostors   *int            `json:"impostors,omitempty"`
	Filters     *FiltersPatch   `json:"filters,omitempty"`
	CustomCards json.RawMessage `json:"customCards,omitempty"`
}

type FiltersPatch struct {
	PopularTeams  *bool `json:"popularTeams,omitempty"`
	FamousPlayers *bool `json:"famousPlayers,omitempty"`
}

// Apply merges a patch into the settings. Filters merge field by field; the
// custom card list is replaced wholesale, and only when the patch carries a
// well-formed array.
func (s *Settings) Apply(p SettingsPatch) {
	if p.Sport != nil {
		switch Sport(*p.Sport) {
		case SportFootball, SportBasketball, SportAll:
			s.Sport = Sport(*p.Sport)
		}
	}
	if p.MaxPlayers != nil {
		s.MaxPlayers = clamp(*p.MaxPlayers, minRoomSize, maxRoomSize)
	}
	if p.Impostors != nil {
		s.Impostors = clamp(*p.Impostors, minImpostors, maxImpostors)
	}
	if p.Filters != nil {
		if p.Filters.PopularTeams != nil {
			s.Filters.PopularTeams = *p.Filters.PopularTeams
		}
		if p.Filters.FamousPlayers != nil {
			s.Filters.FamousPlayers = *p.Filters.FamousPlayers
		}
	}
	if len(p.CustomCards) > 0 {
		var cards []string
		if err := json.Unmarshal(p.CustomCards, &cards); err == nil {
			s.CustomCards = cards
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
