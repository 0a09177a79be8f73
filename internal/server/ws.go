package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// sendBuffer bounds each connection's outbound queue; slow consumers drop
// deltas and recover via the snapshot they request on reconnect.
const sendBuffer = 64

func handleWS(gw *Gateway, allowOrigin func(string) bool, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); !allowOrigin(origin) {
			logger.Warn("websocket origin rejected", "origin", origin)
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// Origin is validated above against the configured allow-list.
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		c := &client{send: make(chan []byte, sendBuffer)}

		// Writer goroutine: the only writer for this connection. A write
		// failure cancels the reader too.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case data := <-c.send:
					writeCtx, writeCancel := context.WithTimeout(ctx, 10*time.Second)
					err := conn.Write(writeCtx, websocket.MessageText, data)
					writeCancel()
					if err != nil {
						logger.Debug("websocket write failed", "error", err)
						cancel()
						return
					}
				}
			}
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "error", err)
				gw.drop(c)
				return
			}

			var msg inbound
			if err := json.Unmarshal(data, &msg); err != nil {
				c.enqueue(errorMessage{Type: "error", Code: errBadRequest, Message: "malformed message"})
				continue
			}
			gw.handle(ctx, c, msg)
		}
	}
}
