package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/tripscout/tripscout/internal/events"
)

// handleSearchStream streams a search's lifecycle events over a
// websocket. The stream closes itself once the search reaches a
// terminal state.
func (s *Server) handleSearchStream(w http.ResponseWriter, r *http.Request) {
	searchID := chi.URLParam(r, "id")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	ch, cancel := s.bus.Subscribe()
	defer cancel()

	// no client messages are expected; CloseRead surfaces the client
	// going away through ctx
	ctx := conn.CloseRead(r.Context())

	s.log.Debug().Str("search_id", searchID).Msg("Status stream opened")

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case evt, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if evt.SearchID != searchID {
				continue
			}
			if err := wsjson.Write(ctx, conn, evt); err != nil {
				s.log.Debug().Err(err).Str("search_id", searchID).Msg("Status stream write failed")
				return
			}
			if evt.Type == events.SearchCompleted || evt.Type == events.SearchFailed {
				conn.Close(websocket.StatusNormalClosure, "search finished")
				return
			}
		}
	}
}
