package services

import (
	"time"

	"github.com/gofiber/contrib/websocket"
)

const (
	clientSendBuffer = 64
	writeWait        = 10 * time.Second
	pingEvery        = 10 * time.Second
	pongWait         = 60 * time.Second
	maxInbound       = 4 << 10
)

// WSClient is one page connection. Outbound events are queued on send;
// inbound frames are small control messages such as drag toggles.
type WSClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func newWSClient(id string, conn *websocket.Conn) *WSClient {
	return &WSClient{
		id:   id,
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}
}

// close ends the write loop and the connection. Callers hold the hub lock.
func (c *WSClient) close() {
	safeCloseBytes(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *WSClient) write(msgType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(msgType, data)
}

func (c *WSClient) writeLoop() {
	ping := time.NewTicker(pingEvery)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump blocks until the connection drops, handing each text frame to
// onMessage.
func (c *WSClient) readPump(onMessage func([]byte)) {
	c.conn.SetReadLimit(maxInbound)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if msgType == websocket.TextMessage && onMessage != nil {
			onMessage(msg)
		}
	}
}
