package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/impostando/impostando-backend/internal/deck"
	"github.com/impostando/impostando-backend/internal/game"
	"github.com/impostando/impostando-backend/internal/registry"
	"github.com/impostando/impostando-backend/internal/session"
	"github.com/impostando/impostando-backend/internal/types"
)

type fakePool struct{}

func (fakePool) BuildPool(_ context.Context, _ string, _ game.Settings) []deck.Candidate {
	return []deck.Candidate{{Name: "Lionel Messi", Team: "Inter Miami", Sport: "football"}}
}

func TestHandler_FailedUpgradeCreatesNoRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	reg := registry.New(ctx, fakePool{}, zap.NewNop())

	// A plain GET without the websocket handshake headers fails Accept.
	rec := httptest.NewRecorder()
	Handler(reg, zap.NewNop())(rec, httptest.NewRequest(http.MethodGet, "/ws?code=ABCDE", nil))
	assert.NotEqual(t, http.StatusSwitchingProtocols, rec.Code)

	reply := make(chan *session.Session, 1)
	reg.Inbox() <- registry.Get{Code: "ABCDE", Reply: reply}
	select {
	case s := <-reply:
		assert.Nil(t, s, "failed upgrade must not register a room")
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for registry lookup")
	}
}

func TestValidCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"ABCDE", true},
		{"ab1z9", true},
		{"GOATS", true},
		{"ABCD", false},
		{"ABCDEF", false},
		{"", false},
		{"AB CD", false},
		{"AB-DE", false},
		{"ÑABCD", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, validCode(tc.code), "code %q", tc.code)
	}
}

func TestToCommand_MapsEveryClientMessageType(t *testing.T) {
	sport := "basketball"
	cases := []struct {
		name string
		in   types.ClientMessage
		want session.Command
	}{
		{
			name: "update settings",
			in:   types.ClientMessage{Type: types.MsgUpdateSettings, Settings: &game.SettingsPatch{Sport: &sport}},
			want: session.Command{Type: session.CmdUpdateSettings, Settings: &game.SettingsPatch{Sport: &sport}},
		},
		{
			name: "update avatar",
			in:   types.ClientMessage{Type: types.MsgUpdateAvatar, Seed: "lion-7"},
			want: session.Command{Type: session.CmdUpdateAvatar, Seed: "lion-7"},
		},
		{
			name: "lock room",
			in:   types.ClientMessage{Type: types.MsgLockRoom, Locked: true},
			want: session.Command{Type: session.CmdLockRoom, Locked: true},
		},
		{
			name: "start game",
			in:   types.ClientMessage{Type: types.MsgStartGame},
			want: session.Command{Type: session.CmdStartGame},
		},
		{
			name: "reshuffle",
			in:   types.ClientMessage{Type: types.MsgReshuffleCards},
			want: session.Command{Type: session.CmdReshuffleCards},
		},
		{
			name: "end game",
			in:   types.ClientMessage{Type: types.MsgEndGame, Winner: "impostors"},
			want: session.Command{Type: session.CmdEndGame, Winner: "impostors"},
		},
		{
			name: "kick",
			in:   types.ClientMessage{Type: types.MsgKickPlayer, TargetID: "p3"},
			want: session.Command{Type: session.CmdKickPlayer, TargetID: "p3"},
		},
		{
			name: "transfer host",
			in:   types.ClientMessage{Type: types.MsgTransferHost, TargetID: "p2"},
			want: session.Command{Type: session.CmdTransferHost, TargetID: "p2"},
		},
		{
			name: "chat",
			in:   types.ClientMessage{Type: types.MsgChatMessage, Text: "hola"},
			want: session.Command{Type: session.CmdChat, Text: "hola"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := toCommand(tc.in)
			require.True(t, ok)
			assert.Equal(t, tc.want, cmd)
		})
	}
}

func TestToCommand_UnknownTypeRejected(t *testing.T) {
	for _, typ := range []string{"", "ping", "room_state", "your_card"} {
		_, ok := toCommand(types.ClientMessage{Type: typ})
		assert.False(t, ok, "type %q must not map to a command", typ)
	}
}

func TestClientMessage_DecodesWireShape(t *testing.T) {
	raw := `{"type":"update_settings","settings":{"impostors":2,"filters":{"popularTeams":false}}}`

	var cm types.ClientMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &cm))

	cmd, ok := toCommand(cm)
	require.True(t, ok)
	require.NotNil(t, cmd.Settings)
	require.NotNil(t, cmd.Settings.Impostors)
	assert.Equal(t, 2, *cmd.Settings.Impostors)
	require.NotNil(t, cmd.Settings.Filters)
	require.NotNil(t, cmd.Settings.Filters.PopularTeams)
	assert.False(t, *cmd.Settings.Filters.PopularTeams)
}
