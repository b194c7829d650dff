package room

import (
	"fmt"
	"strings"

	"github.com/sakshamg567/sketchguess/logger"
)

// CreateRoom creates a room with conn as its first player and replies
// roomCreated. A connection already in another room leaves it.
func (c *Coordinator) CreateRoom(conn ConnID, username, requestedCode string) (string, error) {
	const op = "createRoom"

	name := strings.TrimSpace(username)
	if name == "" {
		return "", NewError(ErrValidation, op, "username is required")
	}

	r, err := c.rooms.CreateRoom(requestedCode, &Player{ConnID: conn, Username: name})
	if err != nil {
		return "", err
	}
	c.Leave(conn)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return "", NewError(ErrNotFound, op, "room %s not found", r.Code)
	}

	c.sessions.set(conn, Session{RoomCode: r.Code, Username: name})
	c.transport.JoinGroup(conn, r.Code)
	c.transport.EmitTo(conn, EventRoomCreated, RoomPayload{RoomCode: r.Code, Players: r.roster()})
	logger.Info("%s created room %s", name, r.Code)
	return r.Code, nil
}

// JoinRoom adds conn to the room. Joining the room conn is already in only
// replays the roster to it.
func (c *Coordinator) JoinRoom(conn ConnID, roomCode, username string) error {
	const op = "joinRoom"

	code := NormalizeCode(roomCode)
	name := strings.TrimSpace(username)
	if code == "" || name == "" {
		return NewError(ErrValidation, op, "roomCode and username are required")
	}
	if !c.rooms.Exists(code) {
		return NewError(ErrNotFound, op, "room %s not found", code)
	}
	if sess, ok := c.sessions.get(conn); ok && sess.RoomCode != code {
		c.Leave(conn)
	}

	r, err := c.rooms.Get(code)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return NewError(ErrNotFound, op, "room %s not found", code)
	}

	if p, _ := r.player(conn); p != nil {
		if !strings.EqualFold(p.Username, name) {
			if r.playerByName(name) != nil {
				return NewError(ErrConflict, op, "username %s already taken", name)
			}
			p.Username = name
		}
		c.sessions.set(conn, Session{RoomCode: code, Username: p.Username})
		c.transport.JoinGroup(conn, code)
		c.transport.EmitTo(conn, EventRoomJoined, RoomPayload{RoomCode: code, Players: r.roster()})
		logger.Info("%s reconnected to room %s", p.Username, code)
		return nil
	}

	if r.playerByName(name) != nil {
		return NewError(ErrConflict, op, "username %s already taken", name)
	}

	r.add(&Player{ConnID: conn, Username: name})
	c.sessions.set(conn, Session{RoomCode: code, Username: name})
	c.transport.JoinGroup(conn, code)

	roster := r.roster()
	c.transport.EmitTo(conn, EventRoomJoined, RoomPayload{RoomCode: code, Players: roster})
	c.transport.BroadcastToGroup(code, EventUserJoined, NoticePayload{
		Message: fmt.Sprintf("%s has joined the room.", name),
		Players: roster,
	}, conn)
	logger.Info("%s joined room %s", name, code)
	return nil
}

// Leave removes conn from its room. It reports whether a player was removed;
// calling it for a connection in no room is a no-op.
func (c *Coordinator) Leave(conn ConnID) bool {
	sess, ok := c.sessions.get(conn)
	if !ok {
		return false
	}
	c.sessions.delete(conn)

	r, ok := c.rooms.GetRoom(sess.RoomCode)
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return false
	}
	p, ok := r.remove(conn)
	if !ok {
		return false
	}
	c.transport.LeaveGroup(conn, r.Code)
	logger.Info("%s left room %s", p.Username, r.Code)

	if len(r.players) == 0 {
		c.rooms.destroyLocked(r)
		return true
	}

	c.transport.BroadcastToGroup(r.Code, EventUserLeft, NoticePayload{
		Message: fmt.Sprintf("%s has left the room.", p.Username),
		Players: r.roster(),
	})

	wasDrawer := r.drawer == conn
	if wasDrawer {
		r.drawer = ""
	}
	switch {
	case r.phase != PhaseIdle && len(r.players) < 2:
		c.resetLocked(r)
	case wasDrawer && r.phase != PhaseIdle:
		r.cancelRotation()
		c.rotateLocked(r)
	}
	return true
}

// Disconnect handles the end of a transport session.
func (c *Coordinator) Disconnect(conn ConnID) {
	if c.Leave(conn) {
		logger.Debug("connection %s disconnected", conn)
	}
}

// SetReady sets the sender's readiness, broadcasts it, and starts a round when
// every player is ready and there are at least two of them. A round starts at
// most once per readiness cycle: only from PhaseIdle.
func (c *Coordinator) SetReady(conn ConnID, ready bool) (ReadyOutcome, error) {
	var outcome ReadyOutcome
	err := c.withMember(conn, "sendReadyStatus", func(r *Room, p *Player) error {
		p.Ready = ready
		c.transport.BroadcastToGroup(r.Code, EventReadyStatus, ReadyStatusPayload{
			Username: p.Username,
			Ready:    ready,
		})

		switch {
		case r.phase != PhaseIdle:
			outcome = ReadyInProgress
		case !r.allReady():
			outcome = ReadyWaiting
		case len(r.players) < 2:
			outcome = ReadyNeedMorePlayers
			c.transport.EmitTo(conn, EventNotEnoughPlayers, NoticePayload{
				Message: "At least two players are needed to start.",
				Players: r.roster(),
			})
		default:
			outcome = ReadyRoundStarted
			c.startRoundLocked(r)
		}
		return nil
	})
	return outcome, err
}

func (c *Coordinator) startRoundLocked(r *Room) {
	drawer := r.players[c.intn(len(r.players))]
	r.drawer = drawer.ConnID
	r.word = ""
	r.phase = PhaseWordPending
	r.round++

	c.transport.BroadcastToGroup(r.Code, EventAllReady, AllReadyPayload{
		Message:        "All users are ready!",
		DrawerUsername: drawer.Username,
		Round:          r.round,
	})
	c.offerWordsLocked(r)
	logger.Info("room %s: all players ready, %s draws first", r.Code, drawer.Username)
}

// resetLocked returns r to PhaseIdle, ending the readiness cycle.
func (c *Coordinator) resetLocked(r *Room) {
	r.cancelRotation()
	r.drawer = ""
	r.word = ""
	r.phase = PhaseIdle
	c.transport.BroadcastToGroup(r.Code, EventGameReset, GameResetPayload{
		Message: "Not enough players, waiting for everyone to get ready.",
	})
	logger.Info("room %s reset to idle", r.Code)
}
