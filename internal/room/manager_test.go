package room

import (
	"errors"
	"math/rand"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[0-9A-Z]{6}$`)

func host(id string) *Player {
	return &Player{ConnID: ConnID(id), Username: id}
}

func TestCreateRoomGeneratesCode(t *testing.T) {
	rm := NewRoomManager(rand.NewSource(1))

	r, err := rm.CreateRoom("", host("a"))
	require.NoError(t, err)

	assert.Regexp(t, codePattern, r.Code)
	assert.True(t, rm.Exists(r.Code))
	assert.Equal(t, 1, r.PlayerCount())
}

func TestCreateRoomRequestedCode(t *testing.T) {
	rm := NewRoomManager(rand.NewSource(1))

	r, err := rm.CreateRoom(" ab12cd ", host("a"))
	require.NoError(t, err)
	assert.Equal(t, "AB12CD", r.Code)

	_, err = rm.CreateRoom("AB12CD", host("b"))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = rm.CreateRoom("no spaces!", host("c"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = rm.CreateRoom("ABCDEFGHIJKLM", host("d"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRoomCodesStayUnique(t *testing.T) {
	rm := NewRoomManager(rand.NewSource(3))

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := rm.CreateRoom("", host(string(rune('a'+i%26))))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, s := range rm.Snapshot() {
		assert.False(t, seen[s.RoomCode], "duplicate code %s", s.RoomCode)
		seen[s.RoomCode] = true
	}
	assert.Len(t, seen, 200)
}

func TestCreateRoomResamplesOnCollision(t *testing.T) {
	// two managers with the same seed produce the same first code
	first, err := NewRoomManager(rand.NewSource(9)).CreateRoom("", host("x"))
	require.NoError(t, err)

	rm := NewRoomManager(rand.NewSource(9))
	_, err = rm.CreateRoom(first.Code, host("a"))
	require.NoError(t, err)

	r, err := rm.CreateRoom("", host("b"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Code, r.Code)
	assert.Equal(t, 2, rm.Len())
}

func TestGetAndExists(t *testing.T) {
	rm := NewRoomManager(nil)
	r, err := rm.CreateRoom("QWERTY", host("a"))
	require.NoError(t, err)

	got, err := rm.Get("qwerty")
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = rm.Get("NOPE")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, rm.Exists("NOPE"))
}

func TestDestroyIsIdempotentAndSkipsOccupiedRooms(t *testing.T) {
	rm := NewRoomManager(nil)
	r, err := rm.CreateRoom("ROOM1", host("a"))
	require.NoError(t, err)

	rm.Destroy("ROOM1")
	assert.True(t, rm.Exists("ROOM1"), "a room with players is kept")

	r.mu.Lock()
	r.players = nil
	r.mu.Unlock()

	rm.Destroy("ROOM1")
	assert.False(t, rm.Exists("ROOM1"))
	assert.True(t, r.destroyed)

	assert.NotPanics(t, func() {
		rm.Destroy("ROOM1")
		rm.Destroy("NEVER")
	})
}

func TestDestroyLeavesReusedCodeAlone(t *testing.T) {
	rm := NewRoomManager(nil)
	old, err := rm.CreateRoom("REUSE", host("a"))
	require.NoError(t, err)

	old.mu.Lock()
	rm.destroyLocked(old)
	old.mu.Unlock()

	fresh, err := rm.CreateRoom("REUSE", host("b"))
	require.NoError(t, err)

	old.mu.Lock()
	rm.destroyLocked(old)
	old.mu.Unlock()

	got, ok := rm.GetRoom("REUSE")
	require.True(t, ok)
	assert.Same(t, fresh, got)
}

func TestClear(t *testing.T) {
	rm := NewRoomManager(nil)
	sched := &manualScheduler{}
	r, err := rm.CreateRoom("", host("a"))
	require.NoError(t, err)
	r.rotation = sched.AfterFunc(0, func() {})
	_, err = rm.CreateRoom("", host("b"))
	require.NoError(t, err)

	rm.Clear()

	assert.Zero(t, rm.Len())
	assert.True(t, r.destroyed)
	assert.Zero(t, sched.pending())
}
