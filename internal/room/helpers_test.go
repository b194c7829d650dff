package room

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/sakshamg567/sketchguess/logger"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.EnableLogging(false)
}

type delivery struct {
	Event   string
	Payload any
}

// recordingTransport keeps every delivery per connection and tracks groups
// the way the gateway hub does.
type recordingTransport struct {
	mu     sync.Mutex
	groups map[string]map[ConnID]bool
	inbox  map[ConnID][]delivery
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{
		groups: make(map[string]map[ConnID]bool),
		inbox:  make(map[ConnID][]delivery),
	}
}

func (t *recordingTransport) EmitTo(conn ConnID, event string, payload any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inbox[conn] = append(t.inbox[conn], delivery{event, payload})
}

func (t *recordingTransport) JoinGroup(conn ConnID, code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.groups[code] == nil {
		t.groups[code] = make(map[ConnID]bool)
	}
	t.groups[code][conn] = true
}

func (t *recordingTransport) LeaveGroup(conn ConnID, code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.groups[code], conn)
}

func (t *recordingTransport) BroadcastToGroup(code, event string, payload any, exclude ...ConnID) {
	t.mu.Lock()
	defer t.mu.Unlock()
outer:
	for conn := range t.groups[code] {
		for _, ex := range exclude {
			if ex == conn {
				continue outer
			}
		}
		t.inbox[conn] = append(t.inbox[conn], delivery{event, payload})
	}
}

func (t *recordingTransport) inGroup(conn ConnID, code string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.groups[code][conn]
}

func (t *recordingTransport) events(conn ConnID) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.inbox[conn]))
	for _, d := range t.inbox[conn] {
		out = append(out, d.Event)
	}
	return out
}

// take returns and forgets every delivery of event to conn.
func (t *recordingTransport) take(conn ConnID, event string) []any {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []any
	kept := t.inbox[conn][:0]
	for _, d := range t.inbox[conn] {
		if d.Event == event {
			out = append(out, d.Payload)
			continue
		}
		kept = append(kept, d)
	}
	t.inbox[conn] = kept
	return out
}

func (t *recordingTransport) count(conn ConnID, event string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, d := range t.inbox[conn] {
		if d.Event == event {
			n++
		}
	}
	return n
}

func (t *recordingTransport) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inbox = make(map[ConnID][]delivery)
}

// last fails the test unless conn received event at least once.
func last[T any](tb testing.TB, tr *recordingTransport, conn ConnID, event string) T {
	tb.Helper()
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for i := len(tr.inbox[conn]) - 1; i >= 0; i-- {
		d := tr.inbox[conn][i]
		if d.Event == event {
			p, ok := d.Payload.(T)
			require.True(tb, ok, "payload of %s is %T", event, d.Payload)
			return p
		}
	}
	require.Failf(tb, "missing event", "%s never received %s", conn, event)
	var zero T
	return zero
}

type manualTask struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// manualScheduler only runs tasks when the test says so.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{delay: d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fireAll runs every pending task, including stopped ones when force is set,
// to emulate a timer that raced with Stop.
func (s *manualScheduler) fireAll(force bool) {
	s.mu.Lock()
	var run []func()
	for _, t := range s.tasks {
		if t.fired || (t.stopped && !force) {
			continue
		}
		t.fired = true
		run = append(run, t.f)
	}
	s.mu.Unlock()
	for _, f := range run {
		f()
	}
}

type staticWords []string

func (w staticWords) Suggest(_ *rand.Rand, n int) []string {
	if n > len(w) {
		n = len(w)
	}
	return append([]string(nil), w[:n]...)
}

type fixture struct {
	rooms *RoomManager
	tr    *recordingTransport
	sched *manualScheduler
	c     *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		rooms: NewRoomManager(rand.NewSource(42)),
		tr:    newRecordingTransport(),
		sched: &manualScheduler{},
	}
	f.c = NewCoordinator(f.rooms, f.tr, Options{
		RotationDelay: 3 * time.Second,
		Scheduler:     f.sched,
		Rand:          rand.New(rand.NewSource(7)),
		Words:         staticWords{"cat", "dog", "tree"},
	})
	t.Cleanup(f.c.Reset)
	return f
}

// room returns the registered room for code.
func (f *fixture) room(t *testing.T, code string) *Room {
	t.Helper()
	r, ok := f.rooms.GetRoom(code)
	require.True(t, ok, "room %s not registered", code)
	return r
}

// startRound creates code with the given players, readies them all, and
// returns the drawer and the other players.
func (f *fixture) startRound(t *testing.T, code string, names ...string) (ConnID, []ConnID) {
	t.Helper()
	require.GreaterOrEqual(t, len(names), 2)

	conns := make([]ConnID, len(names))
	for i, n := range names {
		conns[i] = ConnID("conn-" + n)
	}
	_, err := f.c.CreateRoom(conns[0], names[0], code)
	require.NoError(t, err)
	for i := 1; i < len(names); i++ {
		require.NoError(t, f.c.JoinRoom(conns[i], code, names[i]))
	}
	for _, conn := range conns {
		_, err := f.c.SetReady(conn, true)
		require.NoError(t, err)
	}

	r := f.room(t, code)
	require.Equal(t, PhaseWordPending, r.Snapshot().Phase)

	drawer := r.drawer
	var others []ConnID
	for _, conn := range conns {
		if conn != drawer {
			others = append(others, conn)
		}
	}
	f.tr.clear()
	return drawer, others
}
