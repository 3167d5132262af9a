// Package session implements the per-room coordinator. Each session is an
// actor: one goroutine owns the Room and processes messages from its inbox
// one at a time, which keeps authority checks and state transitions race-free
// without locks. One room's deal (and its provider lookup) never blocks
// another room.
package session

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/impostando/impostando-backend/internal/deck"
	"github.com/impostando/impostando-backend/internal/game"
	"github.com/impostando/impostando-backend/internal/types"
)

const chatMaxLength = 240

// PoolBuilder supplies deal candidates. Implementations must be best-effort:
// never fail, never return an empty pool.
type PoolBuilder interface {
	BuildPool(ctx context.Context, roomCode string, s game.Settings) []deck.Candidate
}

type Msg interface{ isSessionMsg() }

// JoinInfo is the identity a connection presents at handshake time.
type JoinInfo struct {
	PlayerID   string
	Name       string
	AvatarSeed string
	WantsHost  bool
}

type Join struct {
	Player JoinInfo
	Outbox chan types.ServerMessage
}

func (Join) isSessionMsg() {}

// Leave carries the outbox so a stale disconnect from a superseded
// connection cannot evict the player's newer connection.
type Leave struct {
	PlayerID string
	Outbox   chan types.ServerMessage
}

func (Leave) isSessionMsg() {}

type FromClient struct {
	PlayerID string
	Cmd      Command
}

func (FromClient) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// View reflects internal state for tests without data races.
type View struct {
	NumClients int
	Room       game.Snapshot
}

type Session struct {
	inbox    chan Msg
	room     *game.Room
	outboxes map[string]chan types.ServerMessage
	pool     PoolBuilder
	rng      *rand.Rand
	now      func() time.Time
	log      *zap.Logger
	onEmpty  func(code string)
	ctx      context.Context
	cancel   context.CancelFunc
}

// New starts a session actor for the given room code. onEmpty is invoked
// once, when the last player leaves and the session shuts itself down.
func New(parent context.Context, code string, pool PoolBuilder, log *zap.Logger, onEmpty func(code string)) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:    make(chan Msg, 64),
		room:     game.NewRoom(code),
		outboxes: make(map[string]chan types.ServerMessage),
		pool:     pool,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		log:      log.With(zap.String("room", strings.ToUpper(code))),
		onEmpty:  onEmpty,
		ctx:      ctx,
		cancel:   cancel,
	}

	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.handleJoin(msg)

			case Leave:
				if done := s.handleLeave(msg); done {
					return
				}

			case FromClient:
				if done := s.handleCommand(msg.PlayerID, msg.Cmd); done {
					return
				}

			case GetState:
				msg.Reply <- View{
					NumClients: len(s.outboxes),
					Room:       s.room.Snapshot(),
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleJoin(msg Join) {
	id := msg.Player.PlayerID

	if _, known := s.room.Player(id); known {
		// Reconnection: the new connection takes over the slot.
		if old, ok := s.outboxes[id]; ok && old != msg.Outbox {
			close(old)
		}
		s.outboxes[id] = msg.Outbox
		s.log.Info("player reconnected", zap.String("player", id))
		s.broadcastState()
		return
	}

	if s.room.Locked {
		trySend(msg.Outbox, types.ServerMessage{Type: types.MsgRoomLocked})
		close(msg.Outbox)
		return
	}

	p := s.room.Join(id, msg.Player.Name, msg.Player.AvatarSeed, msg.Player.WantsHost, s.now().UnixMilli())
	s.outboxes[id] = msg.Outbox
	s.log.Info("player joined",
		zap.String("player", id),
		zap.String("name", p.Name),
		zap.Bool("host", p.IsHost),
	)
	s.broadcastState()
}

func (s *Session) handleLeave(msg Leave) (done bool) {
	if cur, ok := s.outboxes[msg.PlayerID]; ok {
		if cur != msg.Outbox {
			// A newer connection owns this slot; stale disconnect.
			return false
		}
		delete(s.outboxes, msg.PlayerID)
		close(cur)
	}

	if !s.room.Remove(msg.PlayerID) {
		return false
	}
	s.log.Info("player left", zap.String("player", msg.PlayerID))
	return s.afterRosterShrink()
}

// handleCommand validates authority and applies one command. Host-only
// commands from a non-host are dropped without any reply.
func (s *Session) handleCommand(playerID string, cmd Command) (done bool) {
	sender, ok := s.room.Player(playerID)
	if !ok {
		return false
	}
	if cmd.Type.hostOnly() && playerID != s.room.HostID {
		s.log.Debug("ignoring host-only command from non-host",
			zap.String("player", playerID),
			zap.String("command", string(cmd.Type)),
		)
		return false
	}

	switch cmd.Type {
	case CmdUpdateSettings:
		if cmd.Settings != nil {
			s.room.Settings.Apply(*cmd.Settings)
		}
		s.broadcastState()

	case CmdUpdateAvatar:
		sender.AvatarSeed = cmd.Seed
		s.broadcastState()

	case CmdLockRoom:
		s.room.Locked = cmd.Locked
		s.broadcastState()

	case CmdStartGame:
		if err := s.room.Start(s.now().UnixMilli()); err != nil {
			s.sendError(playerID, err)
			return false
		}
		s.broadcastState()
		s.deal()

	case CmdReshuffleCards:
		if s.room.Phase != game.PhaseInGame {
			s.sendError(playerID, game.ErrWrongPhase)
			return false
		}
		s.deal()

	case CmdEndGame:
		summary := s.room.End(cmd.Winner, s.now().UnixMilli())
		s.broadcast(types.ServerMessage{Type: types.MsgGameEnded, LastGame: summary})
		s.broadcastState()

	case CmdKickPlayer:
		return s.kick(cmd.TargetID)

	case CmdTransferHost:
		if s.room.TransferHost(cmd.TargetID) {
			s.broadcastState()
		}

	case CmdChat:
		s.chat(sender, cmd.Text)
	}
	return false
}

// kick force-disconnects the target and removes it from the roster
// immediately rather than waiting for the disconnect event.
func (s *Session) kick(targetID string) (done bool) {
	if _, ok := s.room.Player(targetID); !ok {
		return false
	}
	if out, ok := s.outboxes[targetID]; ok {
		trySend(out, types.ServerMessage{Type: types.MsgKicked})
		close(out)
		delete(s.outboxes, targetID)
	}
	s.room.Remove(targetID)
	s.log.Info("player kicked", zap.String("player", targetID))
	return s.afterRosterShrink()
}

func (s *Session) chat(sender *game.Player, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if runes := []rune(text); len(runes) > chatMaxLength {
		text = string(runes[:chatMaxLength])
	}
	s.broadcast(types.ServerMessage{
		Type: types.MsgChatMessage,
		Chat: &types.ChatMessage{
			ID:     uuid.NewString(),
			From:   sender.Name,
			FromID: sender.ID,
			Text:   text,
			TS:     s.now().UnixMilli(),
		},
	})
}

// deal runs the deck builder and delivers each card to its owner only.
// The pool lookup is the session's single suspension point.
func (s *Session) deal() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	pool := s.pool.BuildPool(ctx, s.room.Code, s.room.Settings)
	cancel()

	players := s.room.Players()
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}

	cards := deck.Build(s.room.Code, ids, s.room.Settings.Impostors, pool, s.rng, s.now())
	for id := range cards {
		card := cards[id]
		s.unicast(id, types.ServerMessage{Type: types.MsgYourCard, Card: &card})
	}
	s.log.Info("cards dealt",
		zap.Int("players", len(ids)),
		zap.Int("pool", len(pool)),
	)
}

// afterRosterShrink broadcasts the new state, or tears the session down when
// the roster hit zero. Returns true when the loop should exit.
func (s *Session) afterRosterShrink() (done bool) {
	if s.room.Len() == 0 {
		if s.onEmpty != nil {
			s.onEmpty(s.room.Code)
		}
		s.shutdown()
		return true
	}
	s.broadcastState()
	return false
}

func (s *Session) broadcastState() {
	snap := s.room.Snapshot()
	s.broadcast(types.ServerMessage{Type: types.MsgRoomState, Room: &snap})
}

func (s *Session) broadcast(msg types.ServerMessage) {
	for id, out := range s.outboxes {
		select {
		case out <- msg:
		default:
			// Slow or dead connection; drop it. The roster entry is cleaned
			// up by the connection's Leave, or by handleLeave's no-outbox
			// path if that never arrives.
			close(out)
			delete(s.outboxes, id)
		}
	}
}

func (s *Session) unicast(playerID string, msg types.ServerMessage) {
	out, ok := s.outboxes[playerID]
	if !ok {
		return
	}
	select {
	case out <- msg:
	default:
		close(out)
		delete(s.outboxes, playerID)
	}
}

func (s *Session) sendError(playerID string, err error) {
	s.unicast(playerID, types.ServerMessage{
		Type:  types.MsgErrorMessage,
		Error: clientError(err),
	})
}

// clientError maps precondition failures to the user-facing text the client
// shows verbatim.
func clientError(err error) string {
	switch err {
	case game.ErrNotEnoughPlayers:
		return "Se necesitan al menos 3 jugadores."
	case game.ErrWrongPhase:
		return "No se puede hacer eso en esta fase de la partida."
	default:
		return "No se pudo completar la acción."
	}
}

func (s *Session) shutdown() {
	for id, out := range s.outboxes {
		close(out)
		delete(s.outboxes, id)
	}
	s.cancel()
}

func trySend(out chan types.ServerMessage, msg types.ServerMessage) {
	select {
	case out <- msg:
	default:
	}
}
