package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mixoverlays/roster/internal/hub"
	"github.com/mixoverlays/roster/internal/session"
	"github.com/mixoverlays/roster/internal/types"
)

// Handler upgrades the overlay client to a websocket, subscribes it to
// the feed hub, and pushes every roster/phase update. The server binds
// to loopback only, so origin checks stay permissive for the local
// overlay window.
func Handler(feed *hub.Hub, ctrl *session.Controller, log *zap.SugaredLogger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan hub.Update, 8)
		clientID := uuid.NewString()

		feed.Inbox() <- hub.Subscribe{ClientID: clientID, Outbox: out}
		defer func() { feed.Inbox() <- hub.Unsubscribe{ClientID: clientID} }()
		log.Debugw("overlay client connected", "client", clientID)

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for u := range out {
				for _, msg := range toServerMessages(u) {
					payload, _ := json.Marshal(msg)
					ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			switch cm.Type {
			case "Refresh":
				if err := ctrl.Refresh(r.Context()); err != nil {
					msg := types.ServerMessage{Type: "Error", Error: err.Error()}
					payload, _ := json.Marshal(msg)
					_ = conn.Write(r.Context(), websocket.MessageText, payload)
				}
			case "Hello":
				// nothing to do yet
			default:
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
			}
		}
	}
}

// toServerMessages splits one hub update into wire messages: phase
// first, then the roster when present.
func toServerMessages(u hub.Update) []types.ServerMessage {
	msgs := []types.ServerMessage{{Type: "Phase", Phase: string(u.Phase)}}
	if u.Roster != nil {
		msgs = append(msgs, types.ServerMessage{Type: "RosterSnapshot", Roster: u.Roster})
	}
	return msgs
}
