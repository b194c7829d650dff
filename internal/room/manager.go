package room

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sakshamg567/sketchguess/logger"
	"github.com/sakshamg567/sketchguess/pkg/utils"
)

// maxRequestedCodeLen bounds caller-supplied room codes.
const maxRequestedCodeLen = 12

// RoomManager is the registry of active rooms. Its lock only guards the map;
// room state is guarded by each room's own lock.
type RoomManager struct {
	Rooms map[string]*Room
	sync.RWMutex

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRoomManager builds an empty registry. src seeds code generation; nil uses
// the clock.
func NewRoomManager(src rand.Source) *RoomManager {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &RoomManager{
		Rooms: make(map[string]*Room),
		rng:   rand.New(src),
	}
}

// NormalizeCode trims and upper-cases a room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateRoom registers a room whose first member is host, so no empty room is
// ever visible. A requested code that is already active fails with
// ErrConflict; without one a fresh code is generated.
func (rm *RoomManager) CreateRoom(requested string, host *Player) (*Room, error) {
	const op = "createRoom"

	requested = NormalizeCode(requested)
	if requested != "" && !utils.IsRoomCode(requested, maxRequestedCodeLen) {
		return nil, NewError(ErrValidation, op, "room code must be 1-%d letters or digits", maxRequestedCodeLen)
	}

	rm.Lock()
	defer rm.Unlock()

	code := requested
	if code != "" {
		if _, taken := rm.Rooms[code]; taken {
			return nil, NewError(ErrConflict, op, "room %s already exists", code)
		}
	} else {
		for {
			code = rm.genCode()
			if _, taken := rm.Rooms[code]; !taken {
				break
			}
		}
	}

	r := newRoom(code, host)
	rm.Rooms[code] = r
	logger.Info("room %s created", code)
	return r, nil
}

func (rm *RoomManager) genCode() string {
	rm.rngMu.Lock()
	defer rm.rngMu.Unlock()
	return utils.GenRoomCode(rm.rng, utils.RoomCodeLength)
}

func (rm *RoomManager) GetRoom(code string) (*Room, bool) {
	rm.RLock()
	defer rm.RUnlock()
	r, ok := rm.Rooms[NormalizeCode(code)]
	return r, ok
}

func (rm *RoomManager) Get(code string) (*Room, error) {
	r, ok := rm.GetRoom(code)
	if !ok {
		return nil, NewError(ErrNotFound, "getRoom", "room %s not found", NormalizeCode(code))
	}
	return r, nil
}

func (rm *RoomManager) Exists(code string) bool {
	_, ok := rm.GetRoom(code)
	return ok
}

// Destroy removes the room registered under code if it has no players.
// Calling it again, or for an unknown code, does nothing.
func (rm *RoomManager) Destroy(code string) {
	r, ok := rm.GetRoom(code)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed || len(r.players) > 0 {
		return
	}
	rm.destroyLocked(r)
}

// destroyLocked unregisters r. The caller holds r.mu.
func (rm *RoomManager) destroyLocked(r *Room) {
	r.destroyed = true
	r.cancelRotation()

	rm.Lock()
	// the code may already belong to a newer room
	if cur, ok := rm.Rooms[r.Code]; ok && cur == r {
		delete(rm.Rooms, r.Code)
	}
	rm.Unlock()
	logger.Info("room %s deleted (empty)", r.Code)
}

// Clear drops every room and stops their scheduled tasks.
func (rm *RoomManager) Clear() {
	rm.Lock()
	rooms := rm.Rooms
	rm.Rooms = make(map[string]*Room)
	rm.Unlock()

	for _, r := range rooms {
		r.mu.Lock()
		r.destroyed = true
		r.cancelRotation()
		r.mu.Unlock()
	}
}

func (rm *RoomManager) Len() int {
	rm.RLock()
	defer rm.RUnlock()
	return len(rm.Rooms)
}

// Snapshot copies every active room, ordered by code.
func (rm *RoomManager) Snapshot() []RoomSnapshot {
	rm.RLock()
	rooms := make([]*Room, 0, len(rm.Rooms))
	for _, r := range rm.Rooms {
		rooms = append(rooms, r)
	}
	rm.RUnlock()

	out := make([]RoomSnapshot, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomCode < out[j].RoomCode })
	return out
}
