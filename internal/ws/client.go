package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// writeWait bir yazma işleminin tamamlanması için tanınan süre
	writeWait = 10 * time.Second

	// pongWait istemciden pong beklenen maksimum süre
	pongWait = 60 * time.Second

	// pingPeriod ping gönderim aralığı; pongWait'ten kısa olmalı
	pingPeriod = (pongWait * 9) / 10

	// sendBufferSize istemci başına bekleyen mesaj buffer'ı
	sendBufferSize = 32
)

// Client tek bir WebSocket bağlantısını temsil eder
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	userID  int
	eventID int

	closeOnce sync.Once
}

// NewClient yeni istemci oluşturur; pump'lar Start ile başlar
func NewClient(hub *Hub, conn *websocket.Conn, userID, eventID int) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		userID:  userID,
		eventID: eventID,
	}
}

// Start okuma ve yazma pump'larını başlatır
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// trySend mesajı non-blocking kuyruğa koyar; buffer doluysa false döner
func (c *Client) trySend(data []byte) bool {
	defer func() {
		// Kapatılmış channel'a yazma yarışına karşı
		_ = recover()
	}()

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend gönderim kanalını bir kez kapatır
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump istemciden gelen frame'leri tüketir.
// Relay tek yönlüdür: istemci mesajları yok sayılır, okuma sadece
// bağlantı sağlığı (pong) ve kapanış tespiti içindir.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Int("user_id", c.userID).Msg("WebSocket beklenmedik şekilde kapandı")
			}
			return
		}
	}
}

// writePump kuyruktaki mesajları bağlantıya yazar ve periyodik ping atar
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub kanalı kapattı
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
