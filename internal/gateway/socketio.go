package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/sakshamg567/sketchguess/internal/room"
	"github.com/sakshamg567/sketchguess/logger"
	"golang.org/x/time/rate"
)

// SocketIO serves the event protocol of socket.io clients. Request events
// answer through the client's acknowledgement callback.
//
// go-socket.io v1.7 speaks Engine.IO 3 only: socket.io 2.x clients connect,
// socket.io 3 and 4 clients do not.
type SocketIO struct {
	server *socketio.Server
	hub    *Hub
	d      Dispatcher
	opts   Options

	mu    sync.Mutex
	conns map[string]*sioSession
}

type sioSession struct {
	id   room.ConnID
	peer *sioPeer
	lim  *rate.Limiter
}

// emitter is the part of socketio.Conn a peer writes to.
type emitter interface {
	Emit(event string, v ...interface{})
	Close() error
}

type sioEvent struct {
	name    string
	payload any
}

// sioPeer queues events for one socket.io connection. Emit blocks until the
// client polls, so a writer goroutine owns it and Send only enqueues.
type sioPeer struct {
	conn   emitter
	send   chan sioEvent
	ctx    context.Context
	cancel context.CancelFunc
}

func newSIOPeer(conn emitter, buffer int) *sioPeer {
	ctx, cancel := context.WithCancel(context.Background())
	p := &sioPeer{
		conn:   conn,
		send:   make(chan sioEvent, buffer),
		ctx:    ctx,
		cancel: cancel,
	}
	go p.writeLoop()
	go func() {
		<-ctx.Done()
		// unblocks a pending Emit
		conn.Close()
	}()
	return p
}

func (p *sioPeer) Send(event string, payload any) error {
	if p.ctx.Err() != nil {
		return ErrPeerClosed
	}
	select {
	case p.send <- sioEvent{name: event, payload: payload}:
		return nil
	default:
		p.cancel()
		return ErrSlowPeer
	}
}

func (p *sioPeer) writeLoop() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case ev := <-p.send:
			p.conn.Emit(ev.name, ev.payload)
		}
	}
}

func NewSocketIO(hub *Hub, d Dispatcher, opts Options) *SocketIO {
	opts = opts.withDefaults()
	check := originChecker(opts.AllowedOrigins)

	g := &SocketIO{
		server: socketio.NewServer(&engineio.Options{
			PingInterval: opts.PingInterval,
			PingTimeout:  opts.ReadTimeout,
			Transports: []transport.Transport{
				&polling.Transport{CheckOrigin: check},
				&websocket.Transport{CheckOrigin: check},
			},
		}),
		hub:   hub,
		d:     d,
		opts:  opts,
		conns: make(map[string]*sioSession),
	}

	g.server.OnConnect("/", g.onConnect)
	for _, event := range InboundEvents {
		event := event
		g.server.OnEvent("/", event, func(s socketio.Conn, data json.RawMessage) interface{} {
			return g.onEvent(s, event, data)
		})
	}
	g.server.OnError("/", func(s socketio.Conn, err error) {
		if s == nil {
			logger.Warn("socket.io error: %v", err)
			return
		}
		logger.Warn("socket.io error on %s: %v", s.ID(), err)
	})
	g.server.OnDisconnect("/", g.onDisconnect)
	return g
}

func (g *SocketIO) Handler() http.Handler {
	return g.server
}

// Serve runs the engine loop until Close.
func (g *SocketIO) Serve() error {
	return g.server.Serve()
}

func (g *SocketIO) Close() error {
	return g.server.Close()
}

// onConnect runs on the engine connect and again on the client's CONNECT
// packet for the root namespace. Only the first registers a peer.
func (g *SocketIO) onConnect(s socketio.Conn) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.conns[s.ID()]; ok {
		return nil
	}
	peer := newSIOPeer(s, g.opts.SendBuffer)
	id := g.hub.Register(peer)
	g.conns[s.ID()] = &sioSession{id: id, peer: peer, lim: g.opts.limiter()}
	logger.Info("socket.io connection %s opened as %s", s.ID(), id)
	return nil
}

// Len reports the number of live socket.io sessions.
func (g *SocketIO) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.conns)
}

func (g *SocketIO) session(s socketio.Conn) (*sioSession, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess, ok := g.conns[s.ID()]
	return sess, ok
}

func (g *SocketIO) onEvent(s socketio.Conn, event string, data json.RawMessage) interface{} {
	sess, ok := g.session(s)
	if !ok {
		return room.ErrorPayloadFor(room.NewError(room.ErrNotFound, event, "unknown connection"))
	}
	reply, err := dispatch(g.hub, g.d, sess.id, sess.lim, event, data)
	if err != nil {
		return room.ErrorPayloadFor(err)
	}
	return reply
}

func (g *SocketIO) onDisconnect(s socketio.Conn, reason string) {
	g.mu.Lock()
	sess, ok := g.conns[s.ID()]
	delete(g.conns, s.ID())
	g.mu.Unlock()
	if !ok {
		return
	}
	g.d.Dispatch(sess.id, room.Disconnect{})
	g.hub.Unregister(sess.id)
	sess.peer.cancel()
	logger.Info("socket.io connection %s closed: %s", s.ID(), reason)
}

func originChecker(allowed string) func(*http.Request) bool {
	allowed = strings.TrimSpace(allowed)
	if allowed == "*" {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{})
	for _, o := range strings.Split(allowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			set[o] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
