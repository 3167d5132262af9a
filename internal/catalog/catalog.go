// Package catalog assembles candidate pools for the deck builder. The
// external provider is best-effort: lookups run under a bounded timeout and
// any failure degrades to the built-in local pools, never to an empty deal.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/impostando/impostando-backend/internal/deck"
	"github.com/impostando/impostando-backend/internal/game"
)

const (
	defaultBaseURL    = "https://api.balldontlie.io/v1"
	defaultCuratedURL = "https://raw.githubusercontent.com/impostando/catalog-data/main/legends.json"
	// Rooms with this code draw exclusively from the curated legends list,
	// ignoring the sport filter.
	CuratedRoomCode = "GOATS"

	fetchTimeout = 3 * time.Second
	perPage      = 40
)

type Client struct {
	http       *http.Client
	baseURL    string
	curatedURL string
	log        *zap.Logger
}

type Option func(*Client)

// WithBaseURL overrides the provider endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithCuratedURL sets the endpoint for the curated legends list.
func WithCuratedURL(url string) Option {
	return func(c *Client) { c.curatedURL = url }
}

func New(log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: fetchTimeout},
		baseURL:    defaultBaseURL,
		curatedURL: defaultCuratedURL,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildPool assembles the candidate pool for one deal: local entries for the
// selected sport(s), provider results for the same, one synthetic entry per
// custom card label. The curated room code bypasses sport selection and uses
// the curated list alone, falling back to the general pool when that list is
// unavailable. The result is never empty.
func (c *Client) BuildPool(ctx context.Context, roomCode string, s game.Settings) []deck.Candidate {
	if strings.EqualFold(roomCode, CuratedRoomCode) {
		if curated := c.fetchCurated(ctx); len(curated) > 0 {
			return curated
		}
		c.log.Warn("curated list unavailable, using general pool", zap.String("room", roomCode))
	}

	var pool []deck.Candidate
	if s.Sport == game.SportFootball || s.Sport == game.SportAll {
		pool = append(pool, localFootball...)
	}
	if s.Sport == game.SportBasketball || s.Sport == game.SportAll {
		pool = append(pool, localBasketball...)
		pool = append(pool, c.fetchBasketball(ctx)...)
	}

	pool = applyFilters(pool, s.Filters)

	for _, label := range s.CustomCards {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		sport := string(s.Sport)
		if s.Sport == game.SportAll {
			sport = "custom"
		}
		pool = append(pool, deck.Candidate{Name: label, Team: "Custom", Sport: sport})
	}

	if len(pool) == 0 {
		pool = append(pool, localFootball...)
		pool = append(pool, localBasketball...)
	}
	return pool
}

// applyFilters narrows the pool per the room filters. A pass that would
// empty the pool is skipped so a deal always has candidates.
func applyFilters(pool []deck.Candidate, f game.Filters) []deck.Candidate {
	if f.PopularTeams {
		if narrowed := keep(pool, onPopularTeam); len(narrowed) > 0 {
			pool = narrowed
		}
	}
	if f.FamousPlayers {
		if narrowed := keep(pool, isFamous); len(narrowed) > 0 {
			pool = narrowed
		}
	}
	return pool
}

func keep(pool []deck.Candidate, pred func(deck.Candidate) bool) []deck.Candidate {
	out := make([]deck.Candidate, 0, len(pool))
	for _, c := range pool {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

func onPopularTeam(c deck.Candidate) bool {
	for _, team := range popularTeams {
		if strings.EqualFold(c.Team, team) {
			return true
		}
	}
	return c.Team == "Custom"
}

func isFamous(c deck.Candidate) bool {
	for _, k := range famousKeywords {
		if strings.Contains(c.Name, k) {
			return true
		}
	}
	return c.Team == "Custom"
}

// balldontlie player list response shape.
type providerResponse struct {
	Data []struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Team      struct {
			FullName string `json:"full_name"`
		} `json:"team"`
	} `json:"data"`
}

func (c *Client) fetchBasketball(ctx context.Context) []deck.Candidate {
	url := fmt.Sprintf("%s/players?per_page=%d&page=1", c.baseURL, perPage)

	var resp providerResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		c.log.Warn("provider lookup failed, continuing with local pool", zap.Error(err))
		return nil
	}

	out := make([]deck.Candidate, 0, len(resp.Data))
	for _, p := range resp.Data {
		team := p.Team.FullName
		if team == "" {
			team = "Unknown"
		}
		out = append(out, deck.Candidate{
			Name:  strings.TrimSpace(p.FirstName + " " + p.LastName),
			Team:  team,
			Sport: string(game.SportBasketball),
		})
	}
	return out
}

// curated list shape: a bare array of candidates.
type curatedEntry struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	Sport    string `json:"sport"`
	ImageURL string `json:"imageUrl"`
	FunFact  string `json:"funFact"`
}

func (c *Client) fetchCurated(ctx context.Context) []deck.Candidate {
	if c.curatedURL == "" {
		return nil
	}

	var entries []curatedEntry
	if err := c.getJSON(ctx, c.curatedURL, &entries); err != nil {
		c.log.Warn("curated lookup failed", zap.Error(err))
		return nil
	}

	out := make([]deck.Candidate, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		out = append(out, deck.Candidate{
			Name:     e.Name,
			Team:     e.Team,
			Sport:    e.Sport,
			ImageURL: e.ImageURL,
			FunFact:  e.FunFact,
		})
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
