package ws

import (
	"context"
	"net/http"
	"time"

	"restopos/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// KitchenHub คือศูนย์กลางของจอครัวผ่าน WebSocket
// รับ snapshot จาก KitchenFeed แล้วกระจายให้ทุกจอที่เชื่อมต่ออยู่
type KitchenHub struct {
	feed       *services.KitchenFeed
	clients    map[*websocket.Conn]*client
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	keepAlive  time.Duration
	log        logrus.FieldLogger
}

// client มี goroutine เขียนของตัวเอง จอที่ค้างจะไม่ถ่วงจออื่น
type client struct {
	conn *websocket.Conn
	send chan Message // ขนาด 1, เก็บเฉพาะ snapshot ล่าสุด
}

// Message คือสิ่งที่ส่งให้จอครัว
type Message struct {
	Type    string    `json:"type"` // "orders" | "error"
	Orders  any       `json:"orders,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// สร้าง KitchenHub ใหม่
func NewKitchenHub(feed *services.KitchenFeed, keepAlive time.Duration, log logrus.FieldLogger) *KitchenHub {
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}
	return &KitchenHub{
		feed:       feed,
		clients:    make(map[*websocket.Conn]*client),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		keepAlive:  keepAlive,
		log:        log,
	}
}

func toMessage(ev services.KitchenEvent) Message {
	if ev.Err != nil {
		return Message{Type: "error", Message: "kitchen feed unavailable", At: ev.At}
	}
	return Message{Type: "orders", Orders: ev.Orders, At: ev.At}
}

// คอยฟัง register/unregister/snapshot ตลอดเวลา จนกว่า ctx จะจบ
func (h *KitchenHub) Run(ctx context.Context) error {
	defer close(h.done)
	events, unsubscribe := h.feed.Subscribe()
	defer func() { unsubscribe() }()

	var last *Message
	for {
		select {
		case <-ctx.Done():
			for conn, cl := range h.clients {
				h.remove(conn, cl)
			}
			return nil

			// มีจอใหม่เข้ามา → ส่ง snapshot ล่าสุดให้ทันที
		case conn := <-h.register:
			cl := &client{conn: conn, send: make(chan Message, 1)}
			h.clients[conn] = cl
			go h.writePump(cl)
			if last != nil {
				cl.offer(*last)
			}

		case conn := <-h.unregister:
			if cl, ok := h.clients[conn]; ok {
				h.remove(conn, cl)
			}

			// feed เปลี่ยน → กระจายให้ทุกจอ
		case ev, ok := <-events:
			if !ok {
				// feed ยอมแพ้หรือปิดไปแล้ว สมัครใหม่รอรอบถัดไป
				events, unsubscribe = h.feed.Subscribe()
				continue
			}
			msg := toMessage(ev)
			if ev.Err == nil {
				last = &msg
			} else {
				last = nil
			}
			for _, cl := range h.clients {
				cl.offer(msg)
			}
		}
	}
}

// remove ถูกเรียกจาก Run เท่านั้น จึงปิด send ได้ครั้งเดียว
func (h *KitchenHub) remove(conn *websocket.Conn, cl *client) {
	delete(h.clients, conn)
	close(cl.send)
	conn.Close()
}

// offer never blocks: an unsent older snapshot is replaced by the new one.
func (cl *client) offer(msg Message) {
	select {
	case cl.send <- msg:
		return
	default:
	}
	select {
	case <-cl.send:
	default:
	}
	select {
	case cl.send <- msg:
	default:
	}
}

// writePump เขียน snapshot และ ping ให้จอเดียว
// ถ้าเขียนไม่ได้ ปิด conn แล้วให้ listen แจ้ง unregister เอง
func (h *KitchenHub) writePump(cl *client) {
	ping := time.NewTicker(h.keepAlive)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-cl.send:
			if !ok {
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(msg); err != nil {
				h.log.WithError(err).Debug("kds ws write failed")
				cl.conn.Close()
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(writeWait)
			if err := cl.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				h.log.WithError(err).Debug("kds ws ping failed")
				cl.conn.Close()
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/kds
func (h *KitchenHub) HandleWebSocket(c *gin.Context) {
	// --- Upgrade HTTP → WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("kds ws upgrade failed")
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	go h.listen(conn)
}

// listen อ่านจาก client เพื่อจับ close/pong เท่านั้น จอครัวไม่ได้ส่งข้อมูลมา
func (h *KitchenHub) listen(conn *websocket.Conn) {
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
