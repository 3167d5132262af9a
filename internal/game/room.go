package game

import (
	"errors"
	"strings"
)

var ErrNotEnoughPlayers = errors.New("not enough players")
var ErrWrongPhase = errors.New("wrong phase")

type Phase string

const (
	PhaseLobby  Phase = "lobby"
	PhaseInGame Phase = "in-game"
	PhaseEnded  Phase = "ended"
)

type Winner string

const (
	WinnerCrew      Winner = "crew"
	WinnerImpostors Winner = "impostors"
)

const (
	MinPlayersToStart = 3
	maxNameLength     = 24
)

// GameSummary records the most recent round. Timestamps are unix milliseconds
// to match the client contract.
type GameSummary struct {
	StartedAt int64  `json:"startedAt"`
	EndedAt   int64  `json:"endedAt,omitempty"`
	Winner    Winner `json:"winner,omitempty"`
}

type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AvatarSeed string `json:"avatarSeed,omitempty"`
	IsHost     bool   `json:"isHost"`
	JoinedAt   int64  `json:"joinedAt"`
}

// Room is one isolated game session. It is owned and mutated exclusively by
// its session coordinator; nothing here is safe for concurrent use.
type Room struct {
	Code     string
	Phase    Phase
	Locked   bool
	HostID   string
	Settings Settings
	LastGame *GameSummary

	players map[string]*Player
	order   []string // player ids in join order
}

func NewRoom(code string) *Room {
	return &Room{
		Code:     strings.ToUpper(code),
		Phase:    PhaseLobby,
		Settings: DefaultSettings(),
		players:  make(map[string]*Player),
	}
}

// Join adds a player to the roster and applies the host-assignment rule:
// the first joiner of an empty room becomes host; afterwards a joiner is
// granted host only if it asked for host while the room has none.
func (r *Room) Join(id, name, avatarSeed string, wantsHost bool, now int64) *Player {
	isFirst := len(r.players) == 0
	isHost := isFirst || (wantsHost && r.HostID == "")

	p := &Player{
		ID:         id,
		Name:       sanitizeName(name, wantsHost),
		AvatarSeed: avatarSeed,
		JoinedAt:   now,
	}
	r.players[id] = p
	r.order = append(r.order, id)

	if isHost || r.HostID == "" {
		r.HostID = id
	}
	r.recomputeHost()
	return p
}

// Remove deletes a player from the roster. If the player was host, host is
// handed to the next remaining player in join order.
func (r *Room) Remove(id string) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	if r.HostID == id {
		r.HostID = ""
		if len(r.order) > 0 {
			r.HostID = r.order[0]
		}
		r.recomputeHost()
	}
	return true
}

func (r *Room) TransferHost(id string) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	r.HostID = id
	r.recomputeHost()
	return true
}

func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Players returns the roster in join order.
func (r *Room) Players() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

func (r *Room) Len() int { return len(r.players) }

// Start transitions the room into a new round. Allowed from lobby or ended;
// a round already in progress is a precondition failure, as is a roster
// below the minimum.
func (r *Room) Start(now int64) error {
	if r.Phase == PhaseInGame {
		return ErrWrongPhase
	}
	if len(r.players) < MinPlayersToStart {
		return ErrNotEnoughPlayers
	}
	r.Phase = PhaseInGame
	r.LastGame = &GameSummary{StartedAt: now}
	return nil
}

// End closes the current round from any phase. Unrecognized winner values
// default to the crew outcome.
func (r *Room) End(winner string, now int64) *GameSummary {
	r.Phase = PhaseEnded
	if r.LastGame == nil {
		r.LastGame = &GameSummary{StartedAt: now}
	}
	r.LastGame.EndedAt = now
	switch Winner(winner) {
	case WinnerImpostors:
		r.LastGame.Winner = WinnerImpostors
	default:
		r.LastGame.Winner = WinnerCrew
	}
	return r.LastGame
}

// Snapshot is the public room state broadcast to every client. It never
// contains card information.
type Snapshot struct {
	Code     string       `json:"code"`
	Locked   bool         `json:"locked"`
	Phase    Phase        `json:"phase"`
	HostID   string       `json:"hostId"`
	Settings Settings     `json:"settings"`
	Players  []Player     `json:"players"`
	LastGame *GameSummary `json:"lastGame"`
}

func (r *Room) Snapshot() Snapshot {
	players := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		players = append(players, *r.players[id])
	}
	return Snapshot{
		Code:     r.Code,
		Locked:   r.Locked,
		Phase:    r.Phase,
		HostID:   r.HostID,
		Settings: r.Settings,
		Players:  players,
		LastGame: r.LastGame,
	}
}

func (r *Room) recomputeHost() {
	for id, p := range r.players {
		p.IsHost = id == r.HostID
	}
}

func sanitizeName(name string, wantsHost bool) string {
	name = strings.TrimSpace(name)
	if name == "" {
		if wantsHost {
			return "Host"
		}
		return "Jugador"
	}
	runes := []rune(name)
	if len(runes) > maxNameLength {
		return string(runes[:maxNameLength])
	}
	return name
}
