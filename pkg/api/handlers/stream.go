package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"qrscan-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 10 * time.Second

// streamMessage is sent from the server to a streaming client
type streamMessage struct {
	Type    string              `json:"type"` // "view" or "error"
	View    *models.SessionView `json:"view,omitempty"`
	Message string              `json:"message,omitempty"`
}

// streamControl is a text message from the client. It tags subsequent
// binary frames with the device they were captured on.
type streamControl struct {
	DeviceID string `json:"deviceId"`
}

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  64 << 10,
		WriteBufferSize: 16 << 10,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

// StreamSession upgrades to a WebSocket. Binary messages from the client are
// live camera frames; the server pushes a session view after every change.
func StreamSession(allowedOrigins []string) gin.HandlerFunc {
	upgrader := newUpgrader(allowedOrigins)

	return func(c *gin.Context) {
		session := sessionFrom(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("failed to upgrade to WebSocket: %v", err)
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxImageBytes)

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		updates, unsubscribe, err := session.Subscribe(ctx)
		if err != nil {
			writeStream(conn, streamMessage{Type: "error", Message: err.Error()})
			return
		}
		defer unsubscribe()

		errs := make(chan string, 4)
		go readFrames(ctx, cancel, conn, session.Frame, errs)

		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				if err := writeStream(conn, streamMessage{Type: "view", View: &view}); err != nil {
					log.Printf("stream write failed: %v", err)
					return
				}
			case msg := <-errs:
				if err := writeStream(conn, streamMessage{Type: "error", Message: msg}); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}
}

func readFrames(
	ctx context.Context,
	cancel context.CancelFunc,
	conn *websocket.Conn,
	frame func(context.Context, string, io.Reader) (models.ScanResult, bool, error),
	errs chan<- string,
) {
	defer cancel()

	var deviceID string
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("stream read failed: %v", err)
			}
			return
		}

		switch mt {
		case websocket.TextMessage:
			var ctl streamControl
			if err := json.Unmarshal(data, &ctl); err != nil {
				report(errs, "invalid control message")
				continue
			}
			deviceID = ctl.DeviceID
		case websocket.BinaryMessage:
			if _, _, err := frame(ctx, deviceID, bytes.NewReader(data)); err != nil {
				if ctx.Err() != nil {
					return
				}
				report(errs, err.Error())
			}
		}
	}
}

// report drops the message when the writer is behind
func report(errs chan<- string, msg string) {
	select {
	case errs <- msg:
	default:
	}
}

func writeStream(conn *websocket.Conn, msg streamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
