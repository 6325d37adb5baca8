package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vimleague/hub/internal/store"
)

// handleLiveEvents streams live-link changes as server-sent events. The
// current link is sent first so a fresh page needs no extra request. The
// stream ends when the client leaves or closing is closed.
func handleLiveEvents(logger *slog.Logger, docs store.Store, broker *Broker, closing <-chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		doc, ok := loadDoc(w, r, logger, docs)
		if !ok {
			return
		}
		current, _ := json.Marshal(LiveEvent{Type: "live", LiveLink: doc.LiveLink})

		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		fmt.Fprintf(w, "event: live\ndata: %s\n\n", current)
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-closing:
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: live\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
