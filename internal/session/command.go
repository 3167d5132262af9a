package session

import "github.com/impostando/impostando-backend/internal/game"

type CommandType string

const (
	CmdUpdateSettings CommandType = "UpdateSettings"
	CmdUpdateAvatar   CommandType = "UpdateAvatar"
	CmdLockRoom       CommandType = "LockRoom"
	CmdStartGame      CommandType = "StartGame"
	CmdReshuffleCards CommandType = "ReshuffleCards"
	CmdEndGame        CommandType = "EndGame"
	CmdKickPlayer     CommandType = "KickPlayer"
	CmdTransferHost   CommandType = "TransferHost"
	CmdChat           CommandType = "Chat"
)

type Command struct {
	Type     CommandType
	Settings *game.SettingsPatch
	Seed     string
	Locked   bool
	Winner   string
	TargetID string
	Text     string
}

// hostOnly reports whether a command mutates room state under host
// authority. Avatar updates and chat are open to every connected player.
func (t CommandType) hostOnly() bool {
	switch t {
	case CmdUpdateAvatar, CmdChat:
		return false
	}
	return true
}
