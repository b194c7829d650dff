package room

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownMessage struct{}

func (unknownMessage) inbound() {}

func TestDispatchReplies(t *testing.T) {
	f := newFixture(t)

	reply, err := f.c.Dispatch("alice", CreateRoom{Username: "alice", RequestedCode: "DISP01"})
	require.NoError(t, err)
	assert.Equal(t, CreatedReply{RoomCode: "DISP01"}, reply)

	reply, err = f.c.Dispatch("bob", RoomExists{Code: "disp01"})
	require.NoError(t, err)
	assert.Equal(t, true, reply)

	reply, err = f.c.Dispatch("bob", RoomExists{Code: "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, false, reply)

	reply, err = f.c.Dispatch("bob", JoinRoom{RoomCode: "DISP01", Username: "bob"})
	require.NoError(t, err)
	assert.Nil(t, reply)

	reply, err = f.c.Dispatch("bob", LeaveRoom{RoomCode: "DISP01", Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, LeftReply{OK: true}, reply)
	assert.Equal(t, 1, f.room(t, "DISP01").PlayerCount())

	reply, err = f.c.Dispatch("bob", LeaveRoom{})
	require.NoError(t, err, "leaving twice is acknowledged")
	assert.Equal(t, LeftReply{OK: true}, reply)
}

func TestDispatchGameFlow(t *testing.T) {
	f := newFixture(t)
	_, err := f.c.Dispatch("alice", CreateRoom{Username: "alice"})
	require.NoError(t, err)
	sess, _ := f.c.Session("alice")
	_, err = f.c.Dispatch("bob", JoinRoom{RoomCode: sess.RoomCode, Username: "bob"})
	require.NoError(t, err)

	for _, conn := range []ConnID{"alice", "bob"} {
		_, err = f.c.Dispatch(conn, SetReady{Ready: true})
		require.NoError(t, err)
	}
	drawer := ConnID(f.room(t, sess.RoomCode).Snapshot().Drawer)
	other := ConnID("alice")
	if drawer == other {
		other = "bob"
	}

	_, err = f.c.Dispatch(drawer, SubmitWord{Word: "cat"})
	require.NoError(t, err)
	_, err = f.c.Dispatch(other, SubmitGuess{Guess: "CAT"})
	require.NoError(t, err)
	assert.Equal(t, PhaseRoundResolved, f.room(t, sess.RoomCode).Snapshot().Phase)

	_, err = f.c.Dispatch(other, Disconnect{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.room(t, sess.RoomCode).PlayerCount())
}

func TestDispatchPassThrough(t *testing.T) {
	f := newFixture(t)
	code, err := f.c.CreateRoom("alice", "alice", "")
	require.NoError(t, err)
	require.NoError(t, f.c.JoinRoom("bob", code, "bob"))
	f.tr.clear()

	chat := map[string]any{"username": "alice", "text": "hi <b>"}
	_, err = f.c.Dispatch("alice", SendMessage{Payload: chat})
	require.NoError(t, err)
	assert.Equal(t, chat, last[map[string]any](t, f.tr, "alice", EventReceiveMessage))
	assert.Equal(t, chat, last[map[string]any](t, f.tr, "bob", EventReceiveMessage))

	stroke := []byte(`{"offsetX":1,"offsetY":2}`)
	_, err = f.c.Dispatch("bob", Drawing{Payload: stroke})
	require.NoError(t, err)
	assert.Equal(t, stroke, last[[]byte](t, f.tr, "alice", EventDrawing))
	assert.Zero(t, f.tr.count("bob", EventDrawing), "the sender does not get its own strokes")

	_, err = f.c.Dispatch("outsider", SendMessage{Payload: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDispatchErrorsGoOnlyToSender(t *testing.T) {
	f := newFixture(t)
	code, err := f.c.CreateRoom("alice", "alice", "")
	require.NoError(t, err)
	require.NoError(t, f.c.JoinRoom("bob", code, "bob"))
	f.tr.clear()

	_, err = f.c.Dispatch("bob", SubmitWord{Word: "cat"})
	require.Error(t, err)

	payload := last[ErrorPayload](t, f.tr, "bob", EventError)
	assert.Equal(t, "state", payload.Code)
	assert.Equal(t, "only the drawer can submit a word", payload.Message)
	assert.Empty(t, f.tr.events("alice"))

	_, err = f.c.Dispatch("bob", unknownMessage{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, "validation", Code(NewError(ErrValidation, "op", "x")))
	assert.Equal(t, "not_found", Code(NewError(ErrNotFound, "op", "x")))
	assert.Equal(t, "conflict", Code(NewError(ErrConflict, "op", "x")))
	assert.Equal(t, "state", Code(NewError(ErrState, "op", "x")))
	assert.Equal(t, "internal", Code(errors.New("boom")))

	err := NewError(ErrNotFound, "joinRoom", "room %s not found", "ABC")
	assert.Equal(t, "joinRoom: room ABC not found", err.Error())
	assert.Equal(t, "room ABC not found", message(err))
}
