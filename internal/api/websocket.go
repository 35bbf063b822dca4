package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AaronLay10/PuzzleMaster/internal/events"
)

const (
	// backlog sent to a client right after it connects
	recentEventsCount = 50

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// journalStream pushes journal events to one WebSocket client.
type journalStream struct {
	conn *websocket.Conn
	sub  events.Subscriber
	once sync.Once
}

func (s *journalStream) close() {
	s.once.Do(func() {
		events.Unsubscribe(s.sub)
		s.conn.Close()
	})
}

func (s *journalStream) send(e events.Event) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(e)
}

// readLoop drains client frames so pongs and close frames are processed.
func (s *journalStream) readLoop(done chan<- struct{}) {
	defer close(done)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// wsEventsHandler streams the journal: a backlog of recent events, then
// every new event until the client goes away.
func wsEventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: ws upgrade failed: %v", err)
		return
	}

	s := &journalStream{conn: conn, sub: events.Subscribe()}
	defer s.close()

	for _, e := range events.RecentEvents(recentEventsCount) {
		if err := s.send(e); err != nil {
			log.Printf("api: ws backlog write failed: %v", err)
			return
		}
	}

	done := make(chan struct{})
	go s.readLoop(done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case e, ok := <-s.sub:
			if !ok {
				return
			}
			if err := s.send(e); err != nil {
				log.Printf("api: ws write failed: %v", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
