package room

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sakshamg567/sketchguess/logger"
)

const (
	DefaultRotationDelay = 3 * time.Second
	wordChoiceCount      = 3
)

// WordSuggester offers candidate words to a new drawer.
type WordSuggester interface {
	Suggest(r *rand.Rand, n int) []string
}

type Options struct {
	// RotationDelay is the pause between a correct guess and the next drawer.
	RotationDelay time.Duration
	Scheduler     Scheduler
	// Rand drives drawer selection and word suggestions.
	Rand  *rand.Rand
	Words WordSuggester
}

// Coordinator applies inbound messages to rooms and emits the results through
// a Transport. It is safe for concurrent use; operations on the same room are
// serialized by the room lock, different rooms proceed independently.
type Coordinator struct {
	rooms     *RoomManager
	transport Transport
	sessions  *sessions
	sched     Scheduler
	delay     time.Duration
	words     WordSuggester

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewCoordinator(rooms *RoomManager, t Transport, opts Options) *Coordinator {
	c := &Coordinator{
		rooms:     rooms,
		transport: t,
		sessions:  newSessions(),
		sched:     opts.Scheduler,
		delay:     opts.RotationDelay,
		words:     opts.Words,
		rng:       opts.Rand,
	}
	if c.sched == nil {
		c.sched = timeScheduler{}
	}
	if c.delay <= 0 {
		c.delay = DefaultRotationDelay
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Session returns the room membership of conn, if any.
func (c *Coordinator) Session(conn ConnID) (Session, bool) {
	return c.sessions.get(conn)
}

// Reset drops all rooms and sessions.
func (c *Coordinator) Reset() {
	c.rooms.Clear()
	c.sessions.clear()
}

func (c *Coordinator) RoomExists(code string) bool {
	return c.rooms.Exists(code)
}

// SendMessage relays an opaque chat payload to the sender's whole room.
func (c *Coordinator) SendMessage(conn ConnID, payload any) error {
	return c.withMember(conn, "sendMessage", func(r *Room, _ *Player) error {
		c.transport.BroadcastToGroup(r.Code, EventReceiveMessage, payload)
		return nil
	})
}

// RelayDrawing relays an opaque stroke payload to everyone else in the room.
func (c *Coordinator) RelayDrawing(conn ConnID, payload any) error {
	return c.withMember(conn, "drawing", func(r *Room, _ *Player) error {
		c.transport.BroadcastToGroup(r.Code, EventDrawing, payload, conn)
		return nil
	})
}

// withMember runs fn with the room lock held and the sender's player record.
func (c *Coordinator) withMember(conn ConnID, op string, fn func(r *Room, p *Player) error) error {
	sess, ok := c.sessions.get(conn)
	if !ok {
		return NewError(ErrNotFound, op, "not in a room")
	}
	r, ok := c.rooms.GetRoom(sess.RoomCode)
	if !ok {
		return NewError(ErrNotFound, op, "room %s not found", sess.RoomCode)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return NewError(ErrNotFound, op, "room %s not found", r.Code)
	}
	p, _ := r.player(conn)
	if p == nil {
		return NewError(ErrNotFound, op, "player not in room %s", r.Code)
	}
	return fn(r, p)
}

func (c *Coordinator) reject(conn ConnID, err error) {
	logger.Debug("rejected request from %s: %v", conn, err)
	c.transport.EmitTo(conn, EventError, ErrorPayloadFor(err))
}

func (c *Coordinator) intn(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Intn(n)
}

// offerWordsLocked sends word suggestions to the current drawer.
func (c *Coordinator) offerWordsLocked(r *Room) {
	if c.words == nil || r.drawer == "" {
		return
	}
	c.rngMu.Lock()
	words := c.words.Suggest(c.rng, wordChoiceCount)
	c.rngMu.Unlock()
	c.transport.EmitTo(r.drawer, EventWordChoices, WordChoicesPayload{Words: words})
}
