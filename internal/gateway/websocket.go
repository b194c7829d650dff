package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sakshamg567/sketchguess/internal/room"
	"github.com/sakshamg567/sketchguess/logger"
)

const maxFrameSize = 512 << 10

var (
	ErrPeerClosed = errors.New("peer closed")
	ErrSlowPeer   = errors.New("peer send buffer full")
)

// WebSocket serves the JSON envelope protocol on /ws.
type WebSocket struct {
	hub  *Hub
	d    Dispatcher
	opts Options
}

func NewWebSocket(hub *Hub, d Dispatcher, opts Options) *WebSocket {
	return &WebSocket{hub: hub, d: d, opts: opts.withDefaults()}
}

func (g *WebSocket) Register(r fiber.Router) {
	r.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws", websocket.New(g.serve))
}

type wsPeer struct {
	id     room.ConnID
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
}

func (p *wsPeer) Send(event string, payload any) error {
	return p.write(outFrame{Type: event, Data: payload})
}

// write queues f without blocking. A peer that cannot keep up is closed.
func (p *wsPeer) write(f outFrame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if p.ctx.Err() != nil {
		return ErrPeerClosed
	}
	select {
	case p.send <- b:
		return nil
	default:
		p.cancel()
		return ErrSlowPeer
	}
}

func (g *WebSocket) serve(c *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &wsPeer{
		conn:   c,
		send:   make(chan []byte, g.opts.SendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
	p.id = g.hub.Register(p)
	logger.Info("connection %s opened from %s", p.id, c.RemoteAddr())

	done := make(chan struct{})
	go func() {
		defer close(done)
		g.writePump(p)
	}()

	g.readPump(p)

	g.d.Dispatch(p.id, room.Disconnect{})
	g.hub.Unregister(p.id)
	cancel()
	<-done
	logger.Info("connection %s closed", p.id)
}

func (g *WebSocket) readPump(p *wsPeer) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("connection %s read loop panic: %v", p.id, r)
		}
	}()

	c := p.conn
	c.SetReadLimit(maxFrameSize)
	c.SetReadDeadline(time.Now().Add(g.opts.ReadTimeout))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(g.opts.ReadTimeout))
	})
	lim := g.opts.limiter()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("connection %s read error: %v", p.id, err)
			}
			return
		}
		if p.ctx.Err() != nil {
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Warn("invalid frame from %s: %v", p.id, err)
			g.hub.EmitTo(p.id, room.EventError, room.ErrorPayloadFor(
				room.NewError(room.ErrValidation, "decode", "malformed frame")))
			continue
		}
		logger.Debug("connection %s sent %s", p.id, msg.Type)

		reply, err := dispatch(g.hub, g.d, p.id, lim, msg.Type, msg.Data)
		if msg.Ack == nil {
			continue
		}
		ack := outFrame{Type: EventAck, Ack: msg.Ack, Data: reply}
		if err != nil {
			ack.Data = nil
			ack.Error = room.ErrorPayloadFor(err).Message
		}
		if err := p.write(ack); err != nil {
			logger.Warn("ack to %s failed: %v", p.id, err)
		}
	}
}

func (g *WebSocket) writePump(p *wsPeer) {
	ticker := time.NewTicker(g.opts.PingInterval)
	defer func() {
		ticker.Stop()
		p.cancel()
		p.conn.Close()
	}()

	for {
		select {
		case <-p.ctx.Done():
			p.conn.SetWriteDeadline(time.Now().Add(g.opts.WriteTimeout))
			p.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(g.opts.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn("write to %s failed: %v", p.id, err)
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(g.opts.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn("ping to %s failed: %v", p.id, err)
				return
			}
		}
	}
}
