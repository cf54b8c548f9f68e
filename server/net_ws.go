package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// 连接保活：服务端按 pingPeriod 发 ping，浏览器自动回 pong 以延长读超时。
// pingPeriod 必须小于 pongWait。
var (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:         ws,
		send:       make(chan []byte, 256),
		done:       make(chan struct{}),
		writeWait:  writeWait,
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case <-c.done:
	case c.send <- b:
	default:
		// 为了实时性，丢弃消息（防止阻塞帧循环）
	}
}

// writePump 独立协程，负责从 send 队列写出到 WS，直到会话结束
// 只看不点的访客也靠定时 ping 维持连接
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端输入，转换为 Input 注入会话
func (c *ClientConn) readPump(s *Session) {
	defer c.ws.Close()
	// 读泵退出时，通知会话在帧循环中结束
	defer s.RequestLeave()
	c.ws.SetReadLimit(1 << 16)
	c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(c.pongWait)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
		var im InputMessage
		if err := json.Unmarshal(payload, &im); err != nil {
			continue
		}
		in, ok := im.ToInput()
		if !ok {
			continue
		}
		s.OnInput(in)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：每个连接一个独立会话
func (m *Manager) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(ws)
	s := m.CreateSession(NewJSONPresenter(client))
	Log.Infow("session opened", "session", s.ID, "remote", r.RemoteAddr)
	// 会话结束即停止写协程
	go func() {
		<-s.Done()
		close(client.done)
	}()

	go client.writePump()
	go client.readPump(s)
}
