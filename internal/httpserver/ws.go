package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crossword/internal/game"
	"github.com/robalobadob/crossword/internal/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// streamFrame is what the server pushes: either a view or an error for the
// last client frame.
type streamFrame struct {
	View  *session.View `json:"view,omitempty"`
	Error string        `json:"error,omitempty"`
}

// handleStream upgrades to a websocket. Client frames are action envelopes;
// every new session view is pushed back. Only this goroutine writes to the
// connection.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	views, cancel, err := s.sessions.Subscribe(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", id).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	errs := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(maxBodyBytes)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Info().Err(err).Str("session", id).Msg("websocket closed")
				}
				return
			}
			a, err := game.DecodeAction(msg)
			if err == nil {
				_, err = s.sessions.Dispatch(r.Context(), id, a)
			}
			if err != nil {
				select {
				case errs <- err.Error():
				default:
				}
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		var frame *streamFrame
		select {
		case v, ok := <-views:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"), time.Now().Add(wsWriteWait))
				return
			}
			frame = &streamFrame{View: &v}
		case msg := <-errs:
			frame = &streamFrame{Error: msg}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			continue
		case <-done:
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(frame); err != nil {
			log.Debug().Err(err).Str("session", id).Msg("websocket write")
			return
		}
	}
}
