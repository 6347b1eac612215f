package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleEvents streams the session's events as server-sent events. The
// subscription lives exactly as long as the request: the client dropping the
// connection cancels the request context, which unsubscribes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	session := sessionFromContext(r.Context())
	ch, cancel := s.fanout.Subscribe(session)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// an initial comment line confirms the stream is open
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-ch:
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Error(r.Context(), "event marshal failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		}
	}
}
