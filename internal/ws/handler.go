package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/impostando/impostando-backend/internal/registry"
	"github.com/impostando/impostando-backend/internal/session"
	"github.com/impostando/impostando-backend/internal/types"
)

const (
	roomCodeLength = 5
	writeTimeout   = 3 * time.Second
	outboxSize     = 8
)

// Handler upgrades a connection and attaches it to the room named by the
// `code` query parameter, creating the room on first connection. The
// handshake also carries `name`, `host`, `avatarSeed`, and optionally a
// `playerId` so a returning client can resume its slot.
func Handler(reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		code := q.Get("code")
		if !validCode(code) {
			http.Error(w, "invalid room code", http.StatusBadRequest)
			return
		}

		playerID := q.Get("playerId")
		if playerID == "" {
			playerID = uuid.NewString()
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// Resolve the room only once the upgrade succeeded, so a failed
		// handshake cannot create a session nobody ever joins.
		reply := make(chan *session.Session, 1)
		reg.Inbox() <- registry.Ensure{Code: code, Reply: reply}
		sess := <-reply

		out := make(chan types.ServerMessage, outboxSize)

		sess.Inbox() <- session.Join{
			Player: session.JoinInfo{
				PlayerID:   playerID,
				Name:       q.Get("name"),
				AvatarSeed: q.Get("avatarSeed"),
				WantsHost:  q.Get("host") == "1" || q.Get("host") == "true",
			},
			Outbox: out,
		}
		defer func() {
			sess.Inbox() <- session.Leave{PlayerID: playerID, Outbox: out}
		}()

		// Writer goroutine: drains the outbox until the session closes it
		// (kick, lock refusal, shutdown) or the client goes away.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					log.Error("marshal server message", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			// Session closed the outbox: force the reader loop to end.
			conn.Close(websocket.StatusNormalClosure, "closed by server")
		}()

		// Reader loop. Connections stay open while a lobby idles, so reads
		// carry no deadline of their own.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error_message","error":"bad json"}`))
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				// Unknown message types are dropped, matching the
				// coordinator's policy for malformed input.
				continue
			}

			sess.Inbox() <- session.FromClient{PlayerID: playerID, Cmd: cmd}
		}
	}
}

func toCommand(m types.ClientMessage) (session.Command, bool) {
	switch m.Type {
	case types.MsgUpdateSettings:
		return session.Command{Type: session.CmdUpdateSettings, Settings: m.Settings}, true
	case types.MsgUpdateAvatar:
		return session.Command{Type: session.CmdUpdateAvatar, Seed: m.Seed}, true
	case types.MsgLockRoom:
		return session.Command{Type: session.CmdLockRoom, Locked: m.Locked}, true
	case types.MsgStartGame:
		return session.Command{Type: session.CmdStartGame}, true
	case types.MsgReshuffleCards:
		return session.Command{Type: session.CmdReshuffleCards}, true
	case types.MsgEndGame:
		return session.Command{Type: session.CmdEndGame, Winner: m.Winner}, true
	case types.MsgKickPlayer:
		return session.Command{Type: session.CmdKickPlayer, TargetID: m.TargetID}, true
	case types.MsgTransferHost:
		return session.Command{Type: session.CmdTransferHost, TargetID: m.TargetID}, true
	case types.MsgChatMessage:
		return session.Command{Type: session.CmdChat, Text: m.Text}, true
	default:
		return session.Command{}, false
	}
}

func validCode(code string) bool {
	if len(code) != roomCodeLength {
		return false
	}
	for _, c := range code {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
