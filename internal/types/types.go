package types

import (
	"github.com/impostando/impostando-backend/internal/deck"
	"github.com/impostando/impostando-backend/internal/game"
)

// Client -> server message types.
const (
	MsgUpdateSettings = "update_settings"
	MsgUpdateAvatar   = "update_avatar"
	MsgLockRoom       = "lock_room"
	MsgStartGame      = "start_game"
	MsgReshuffleCards = "reshuffle_cards"
	MsgEndGame        = "end_game"
	MsgKickPlayer     = "kick_player"
	MsgTransferHost   = "transfer_host"
	MsgChatMessage    = "chat_message"
)

// Server -> client message types.
const (
	MsgRoomState    = "room_state"
	MsgYourCard     = "your_card"
	MsgGameEnded    = "game_ended"
	MsgKicked       = "kicked"
	MsgRoomLocked   = "room_locked"
	MsgErrorMessage = "error_message"
)

type ClientMessage struct {
	Type     string              `json:"type"`
	Settings *game.SettingsPatch `json:"settings,omitempty"`
	Seed     string              `json:"seed,omitempty"`
	Locked   bool                `json:"locked,omitempty"`
	Winner   string              `json:"winner,omitempty"`
	TargetID string              `json:"targetId,omitempty"`
	Text     string              `json:"text,omitempty"`
}

type ChatMessage struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	FromID string `json:"fromId"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

type ServerMessage struct {
	Type     string            `json:"type"`
	Room     *game.Snapshot    `json:"room,omitempty"`
	Card     *deck.Card        `json:"card,omitempty"`
	Chat     *ChatMessage      `json:"chat,omitempty"`
	LastGame *game.GameSummary `json:"lastGame,omitempty"`
	Error    string            `json:"error,omitempty"`
}
