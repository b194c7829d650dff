package gateway

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sakshamg567/sketchguess/internal/room"
	"github.com/sakshamg567/sketchguess/logger"
)

// Peer is one live transport session able to receive events.
// Send must not block.
type Peer interface {
	Send(event string, payload any) error
}

// Hub implements room.Transport over every registered peer, whichever
// gateway it came from.
type Hub struct {
	mu     sync.RWMutex
	peers  map[room.ConnID]Peer
	groups map[string]map[room.ConnID]struct{}
}

var _ room.Transport = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		peers:  make(map[room.ConnID]Peer),
		groups: make(map[string]map[room.ConnID]struct{}),
	}
}

// Register assigns p a fresh connection identity.
func (h *Hub) Register(p Peer) room.ConnID {
	id := room.ConnID(uuid.NewString())
	h.mu.Lock()
	h.peers[id] = p
	h.mu.Unlock()
	return id
}

// Unregister forgets id and drops it from every group.
func (h *Hub) Unregister(id room.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, id)
	for code, members := range h.groups {
		delete(members, id)
		if len(members) == 0 {
			delete(h.groups, code)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Hub) EmitTo(id room.ConnID, event string, payload any) {
	h.mu.RLock()
	p, ok := h.peers[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.send(id, p, event, payload)
}

func (h *Hub) JoinGroup(id room.ConnID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[id]; !ok {
		return
	}
	members, ok := h.groups[code]
	if !ok {
		members = make(map[room.ConnID]struct{})
		h.groups[code] = members
	}
	members[id] = struct{}{}
}

func (h *Hub) LeaveGroup(id room.ConnID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[code]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.groups, code)
	}
}

func (h *Hub) BroadcastToGroup(code, event string, payload any, exclude ...room.ConnID) {
	type target struct {
		id room.ConnID
		p  Peer
	}

	h.mu.RLock()
	targets := make([]target, 0, len(h.groups[code]))
outer:
	for id := range h.groups[code] {
		for _, ex := range exclude {
			if id == ex {
				continue outer
			}
		}
		if p, ok := h.peers[id]; ok {
			targets = append(targets, target{id, p})
		}
	}
	h.mu.RUnlock()

	for _, t := range targets {
		h.send(t.id, t.p, event, payload)
	}
}

func (h *Hub) send(id room.ConnID, p Peer, event string, payload any) {
	if err := p.Send(event, payload); err != nil {
		logger.Warn("dropping %s for %s: %v", event, id, err)
	}
}
