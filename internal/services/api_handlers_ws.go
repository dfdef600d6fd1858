package services

import (
	"encoding/json"
	"strings"

	"miimaker/internal/audio"

	"github.com/charmbracelet/log"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type wsInbound struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

func (a *Api) WsUpgrade() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Notifications streams events for one id. A maker session id gets its state
// and sound cues; any other id is a menu screen, whose soundtrack lives
// exactly as long as the connection.
func (a *Api) Notifications() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {

		id := strings.TrimSpace(conn.Params("id"))
		if id == "" {
			conn.WriteMessage(websocket.CloseMessage, []byte("missing id"))
			conn.Close()
			return
		}

		logger := log.With("component", "ws", "client", id)
		client := newWSClient(id, conn)
		a.hub.Add(client)
		go client.writeLoop()

		var onMessage func([]byte)
		if e, err := a.sessions.Get(id); err == nil {
			a.hub.SendTo(id, stateEvent(e.session.Snapshot()))
			if e.sound.Mounted() {
				track := audio.MakerTrack
				a.hub.SendTo(id, WSEvent{Type: audio.EventMusicPlay, Track: &track})
			}
			onMessage = func(msg []byte) {
				var in wsInbound
				if err := json.Unmarshal(msg, &in); err != nil || in.Type != "drag" {
					return
				}
				_ = e.session.SetDragging(in.Active)
			}
		} else {
			menuSound := audio.NewSoundtrack(audio.MenuTrack, a.hub.Sink(id))
			menuSound.Mount()
			defer menuSound.Unmount()
		}

		logger.Debug("client connected")
		client.readPump(onMessage)
		a.hub.Remove(client)
		logger.Debug("client disconnected")
	})
}
