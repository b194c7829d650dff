package room

import (
	"strings"
	"sync"
)

// Room holds the state of one game session. All fields except Code are guarded
// by mu; coordinator operations hold it for their whole duration.
type Room struct {
	Code string

	mu      sync.Mutex
	players []*Player // join order, used for rotation
	drawer  ConnID
	word    string
	phase   Phase
	round   int

	// set once the room has been removed from the registry
	destroyed bool
	rotation  Task
}

func newRoom(code string, first *Player) *Room {
	return &Room{
		Code:    code,
		players: []*Player{first},
		phase:   PhaseIdle,
	}
}

func (r *Room) player(conn ConnID) (*Player, int) {
	for i, p := range r.players {
		if p.ConnID == conn {
			return p, i
		}
	}
	return nil, -1
}

func (r *Room) playerByName(name string) *Player {
	for _, p := range r.players {
		if strings.EqualFold(p.Username, name) {
			return p
		}
	}
	return nil
}

func (r *Room) add(p *Player) {
	r.players = append(r.players, p)
}

func (r *Room) remove(conn ConnID) (*Player, bool) {
	p, i := r.player(conn)
	if p == nil {
		return nil, false
	}
	r.players = append(r.players[:i], r.players[i+1:]...)
	return p, true
}

func (r *Room) roster() []PlayerSummary {
	out := make([]PlayerSummary, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.Summary())
	}
	return out
}

func (r *Room) allReady() bool {
	for _, p := range r.players {
		if !p.Ready {
			return false
		}
	}
	return len(r.players) > 0
}

func (r *Room) drawerName() string {
	if p, _ := r.player(r.drawer); p != nil {
		return p.Username
	}
	return ""
}

func (r *Room) cancelRotation() {
	if r.rotation != nil {
		r.rotation.Stop()
		r.rotation = nil
	}
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomSnapshot{
		RoomCode: r.Code,
		Players:  r.roster(),
		Phase:    r.phase,
		Drawer:   r.drawerName(),
		Round:    r.round,
	}
}
