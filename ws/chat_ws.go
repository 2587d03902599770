package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"restaurant/entity"
	"restaurant/middlewares"
	"restaurant/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 32
)

// Sender stores a chat message sent over the socket.
type Sender interface {
	Send(ctx context.Context, userID uint, text, botType string) (*entity.ChatMessage, error)
}

// Limiter throttles socket sends with the same buckets as the HTTP route.
type Limiter interface {
	Allow(key string) bool
}

// client is one connection of one user. Only the hub loop sends on or
// closes send; writePump is the only writer to conn.
type client struct {
	conn   *websocket.Conn
	userID uint
	send   chan any
}

// Delivery is a payload bound for every connection of a user.
type Delivery struct {
	UserID  uint
	Message any
}

type directReply struct {
	client  *client
	payload any
}

// ChatHub fans stored chat messages out to each user's open connections.
type ChatHub struct {
	clients    map[uint]map[*client]bool // userID -> connections
	broadcast  chan Delivery
	direct     chan directReply
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.Mutex

	sender  Sender
	limiter Limiter
	log     logrus.FieldLogger
}

// NewChatHub builds a hub; a nil limiter leaves socket sends unthrottled.
func NewChatHub(sender Sender, limiter Limiter, log logrus.FieldLogger) *ChatHub {
	return &ChatHub{
		clients:    make(map[uint]map[*client]bool),
		broadcast:  make(chan Delivery, 256),
		direct:     make(chan directReply, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		sender:     sender,
		limiter:    limiter,
		log:        log.WithField("component", "ws"),
	}
}

// Run serves register, unregister and broadcast until ctx is done, then
// closes every connection. It never touches a socket itself.
func (h *ChatHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, set := range h.clients {
				for cl := range set {
					close(cl.send)
				}
			}
			h.clients = make(map[uint]map[*client]bool)
			h.mu.Unlock()
			return

		case cl := <-h.register:
			h.mu.Lock()
			if h.clients[cl.userID] == nil {
				h.clients[cl.userID] = make(map[*client]bool)
			}
			h.clients[cl.userID][cl] = true
			h.mu.Unlock()

		case cl := <-h.unregister:
			h.mu.Lock()
			h.drop(cl)
			h.mu.Unlock()

		case d := <-h.broadcast:
			h.mu.Lock()
			for cl := range h.clients[d.UserID] {
				h.enqueue(cl, d.Message)
			}
			h.mu.Unlock()

		case r := <-h.direct:
			h.mu.Lock()
			if h.clients[r.client.userID][r.client] {
				h.enqueue(r.client, r.payload)
			}
			h.mu.Unlock()
		}
	}
}

// enqueue hands payload to the client's writer; a client whose buffer is
// full is disconnected. Caller holds h.mu.
func (h *ChatHub) enqueue(cl *client, payload any) {
	select {
	case cl.send <- payload:
	default:
		h.log.WithField("user_id", cl.userID).Warn("ws client too slow, disconnecting")
		h.drop(cl)
	}
}

// drop forgets cl and stops its writer. Caller holds h.mu.
func (h *ChatHub) drop(cl *client) {
	set, ok := h.clients[cl.userID]
	if !ok || !set[cl] {
		return
	}
	delete(set, cl)
	if len(set) == 0 {
		delete(h.clients, cl.userID)
	}
	close(cl.send)
}

// Publish queues msg for the user's connections. It never blocks; when the
// hub is backed up the push is dropped and clients catch up by polling.
func (h *ChatHub) Publish(userID uint, msg *entity.ChatMessage) {
	select {
	case h.broadcast <- Delivery{UserID: userID, Message: msg}:
	default:
		h.log.WithField("user_id", userID).Warn("ws broadcast queue full, dropping push")
	}
}

// Connections reports how many sockets the user has open.
func (h *ChatHub) Connections(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades GET /ws/chat. The user comes from WSAuthMiddleware.
func (h *ChatHub) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}

	cl := &client{conn: conn, userID: userID, send: make(chan any, sendBuffer)}
	select {
	case h.register <- cl:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(cl)
	go h.listenMessages(cl)
}

// writePump writes queued payloads until the hub closes send.
func (h *ChatHub) writePump(cl *client) {
	defer cl.conn.Close()
	for payload := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteJSON(payload); err != nil {
			h.log.WithError(err).WithField("user_id", cl.userID).Debug("ws write failed")
			return
		}
	}
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

type inbound struct {
	Message string `json:"message"`
	BotType string `json:"botType"`
}

type inboundError struct {
	Error string `json:"error"`
}

// listenMessages stores messages the client sends over the socket. Replies
// arrive through Publish like any other.
func (h *ChatHub) listenMessages(cl *client) {
	defer func() {
		select {
		case h.unregister <- cl:
		case <-h.done:
		}
	}()

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("user_id", cl.userID).Debug("ws read failed")
			}
			return
		}

		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			h.reject(cl, "invalid payload")
			continue
		}
		if h.limiter != nil && !h.limiter.Allow(middlewares.UserKey(cl.userID)) {
			h.reject(cl, "too many requests, slow down")
			continue
		}
		if _, err := h.sender.Send(context.Background(), cl.userID, in.Message, in.BotType); err != nil {
			h.reject(cl, err.Error())
		}
	}
}

func (h *ChatHub) reject(cl *client, msg string) {
	select {
	case h.direct <- directReply{client: cl, payload: inboundError{Error: msg}}:
	case <-h.done:
	}
}
