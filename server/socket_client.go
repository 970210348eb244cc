// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/playaetharia/aetharia/server/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 5 * time.Second

	// If more than this many messages are queued for sending, the
	// socket is congested and messages may be dropped
	socketCongestionThreshold = 5

	// Allows ~1 second of messages to backup before close
	// (although the sending may be throttled to slow down
	// hitting this limit)
	socketBufferSize = 16

	// Maximum message size allowed from peer. Chat dominates at up
	// to 500 bytes of UTF-8 plus framing.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: time.Second,
	ReadBufferSize:   maxMessageSize,
	WriteBufferSize:  2048,
}

// SocketClient is a middleman between the websocket connection and the hub.
type SocketClient struct {
	ClientData
	conn *websocket.Conn
	send chan frame
	once sync.Once

	// heartbeat is the pong deadline; pings go out at 8/10 of it.
	heartbeat time.Duration

	counter int // counts up every send
}

// Create a SocketClient from a connection
func NewSocketClient(conn *websocket.Conn, heartbeat time.Duration) *SocketClient {
	return &SocketClient{
		conn:      conn,
		send:      make(chan frame, socketBufferSize),
		heartbeat: heartbeat,
	}
}

func (client *SocketClient) Agent() bool {
	return false
}

func (client *SocketClient) Close() {
	close(client.send)
}

func (client *SocketClient) Data() *ClientData {
	return &client.ClientData
}

func (client *SocketClient) Destroy() {
	client.once.Do(func() {
		hub := client.Hub

		// Needs to go through when called on hub goroutine.
		select {
		case hub.unregister <- client:
		default:
			go func() {
				hub.unregister <- client
			}()
		}

		_ = client.conn.Close()
	})
}

func (client *SocketClient) Init() {
	go client.writePump()
	go client.readPump()
}

func (client *SocketClient) Send(f frame) {
	// How many messages there are in excess of a reasonable amount
	congestion := len(client.send) - socketCongestionThreshold

	// The closer the buffer is to being full, the more messages
	// we drop on the floor (to give the socket a chance to
	// catch up)
	client.counter++
	if congestion > 1 && client.counter%congestion != 0 {
		// The only long-term data loss will be from event-based
		// things like chat messages
		logger.Get().Debug("socket congested, dropping frame",
			zap.String("session", string(client.SessionID)))
		return
	}

	select {
	case client.send <- f:
	default:
		// Not responsive
		logger.Get().Debug("socket not responsive",
			zap.String("session", string(client.SessionID)))
		client.Destroy()
	}
}

func (client *SocketClient) readPump() {
	defer client.Destroy()
	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(client.heartbeat))
	client.conn.SetPongHandler(func(string) error {
		_ = client.conn.SetReadDeadline(time.Now().Add(client.heartbeat))
		return nil
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Get().Debug("socket close error", zap.Error(err))
			}
			break
		}

		in, err := unmarshalFrame(data)
		if err != nil {
			// Unparseable frame; the connection survives.
			logger.Get().Debug("dropping invalid frame",
				zap.String("session", string(client.SessionID)))
			continue
		}

		client.Hub.inbound <- SignedInbound{Client: client, inbound: in}
	}
}

func (client *SocketClient) writePump() {
	pingTicker := time.NewTicker(client.heartbeat * 8 / 10)

	defer func() {
		if err := recover(); err != nil {
			logger.Get().Debug("socket send error", zap.Any("err", err))
		}
		pingTicker.Stop()
		client.Destroy()
	}()

	for {
		select {
		case f, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
				panic("hub closed channel")
			}

			if err := client.conn.WriteMessage(websocket.TextMessage, f); err != nil {
				panic(err)
			}
		case <-pingTicker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
