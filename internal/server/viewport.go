package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

// writeWait bounds a single websocket write.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// visibilityReport is what the page sends for each IntersectionObserver
// callback.
type visibilityReport struct {
	Section string `json:"section"`
	Visible bool   `json:"visible"`
}

// viewportMessage is what the server sends back.
type viewportMessage struct {
	Type      string              `json:"type"` // "entrance" or "nav"
	Section   portfolio.Section   `json:"section,omitempty"`
	Active    portfolio.Section   `json:"active,omitempty"`
	Animation *portfolio.Entrance `json:"animation,omitempty"`
}

// handleViewport streams visibility reports into the visitor's view and
// answers with entrance and scroll-spy updates.
func (s *Server) handleViewport(c *gin.Context) {
	view := currentView(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("viewport: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	feed := portfolio.NewFeed()
	stream := portfolio.Subscribe(ctx, feed)

	done := make(chan struct{})
	go func() {
		defer close(done)
		broken := false
		view.Follow(stream, func(u portfolio.Update) {
			for _, msg := range messagesFor(u) {
				if broken {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("viewport: websocket write: %v", err)
					broken = true
					cancel()
				}
			}
		})
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("viewport: websocket read: %v", err)
			}
			break
		}
		var report visibilityReport
		if err := json.Unmarshal(raw, &report); err != nil {
			log.Printf("viewport: invalid message: %v", err)
			continue
		}
		section, err := portfolio.ParseSection(report.Section)
		if err != nil {
			log.Printf("viewport: %v", err)
			continue
		}
		if err := feed.Publish(ctx, portfolio.Visibility{Section: section, Visible: report.Visible}); err != nil {
			break
		}
	}

	cancel()
	<-done
}

func messagesFor(u portfolio.Update) []viewportMessage {
	var out []viewportMessage
	if u.Entrance != nil {
		out = append(out, viewportMessage{Type: "entrance", Section: u.Section, Animation: u.Entrance})
	}
	if u.ActiveChanged {
		out = append(out, viewportMessage{Type: "nav", Active: u.Active})
	}
	return out
}
