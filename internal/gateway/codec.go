package gateway

import (
	"bytes"
	"encoding/json"

	"github.com/sakshamg567/sketchguess/internal/room"
)

// Inbound event names shared by both gateways.
const (
	EventCreateRoom      = "createRoom"
	EventJoinRoom        = "joinRoom"
	EventRoomExists      = "roomExists"
	EventLeaveRoom       = "leaveRoom"
	EventSendReadyStatus = "sendReadyStatus"
	EventSubmitWord      = "submitWord"
	EventSubmitGuess     = "submitGuess"
	EventSendMessage     = "sendMessage"
	EventDrawing         = "drawing"

	// EventAck frames replies to websocket requests that carried an ack id.
	EventAck = "ack"
)

var InboundEvents = []string{
	EventCreateRoom,
	EventJoinRoom,
	EventRoomExists,
	EventLeaveRoom,
	EventSendReadyStatus,
	EventSubmitWord,
	EventSubmitGuess,
	EventSendMessage,
	EventDrawing,
}

// WSMessage is the websocket frame in both directions.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	Ack  *int64          `json:"ack,omitempty"`
}

type outFrame struct {
	Type  string `json:"type"`
	Ack   *int64 `json:"ack,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type createRoomPayload struct {
	Username      string `json:"username"`
	RequestedCode string `json:"requestedCode"`
	RoomCodeUser  string `json:"roomCodeUser"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

type readyPayload struct {
	Username string `json:"username"`
	Ready    bool   `json:"ready"`
}

type wordPayload struct {
	Word     string `json:"word"`
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

type guessPayload struct {
	Guess    string `json:"guess"`
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

// isRelay reports events that carry opaque payloads and may be rate limited.
func isRelay(event string) bool {
	return event == EventDrawing || event == EventSendMessage
}

// Decode turns a wire event into a room message. Missing data decodes as an
// empty object so field validation stays with the coordinator.
func Decode(event string, data json.RawMessage) (room.Inbound, error) {
	const op = "decode"

	data = bytes.TrimSpace(data)
	obj := data
	if len(obj) == 0 || bytes.Equal(obj, []byte("null")) {
		obj = []byte("{}")
	}

	bad := func(err error) error {
		return room.NewError(room.ErrValidation, op, "invalid %s payload: %v", event, err)
	}

	switch event {
	case EventCreateRoom:
		var p createRoomPayload
		if err := json.Unmarshal(obj, &p); err != nil {
			return nil, bad(err)
		}
		code := p.RequestedCode
		if code == "" {
			code = p.RoomCodeUser
		}
		return room.CreateRoom{Username: p.Username, RequestedCode: code}, nil

	case EventJoinRoom:
		var p joinRoomPayload
		if err := json.Unmarshal(obj, &p); err != nil {
			return nil, bad(err)
		}
		return room.JoinRoom{RoomCode: p.RoomCode, Username: p.Username}, nil

	case EventRoomExists:
		var code string
		if err := json.Unmarshal(obj, &code); err == nil {
			return room.RoomExists{Code: code}, nil
		}
		var p struct {
			RoomCode string `json:"roomCode"`
			Code     string `json:"code"`
		}
		if err := json.Unmarshal(obj, &p); err != nil {
			return nil, bad(err)
		}
		if p.RoomCode == "" {
			p.RoomCode = p.Code
		}
		return room.RoomExists{Code: p.RoomCode}, nil

	case EventLeaveRoom:
		var p joinRoomPayload
		if err := json.Unmarshal(obj, &p); err != nil {
			return nil, bad(err)
		}
		return room.LeaveRoom{RoomCode: p.RoomCode, Username: p.Username}, nil

	case EventSendReadyStatus:
		var p readyPayload
		if err := json.Unmarshal(obj, &p); err != nil {
			return nil, bad(err)
		}
		return room.SetReady{Ready: p.Ready}, nil

	case EventSubmitWord:
		var p wordPayload
		if err := json.Unmarshal(obj, &p); err != nil {
			return nil, bad(err)
		}
		return room.SubmitWord{Word: p.Word}, nil

	case EventSubmitGuess:
		var p guessPayload
		if err := json.Unmarshal(obj, &p); err != nil {
			return nil, bad(err)
		}
		return room.SubmitGuess{Guess: p.Guess}, nil

	case EventSendMessage:
		return room.SendMessage{Payload: rawOrNil(data)}, nil

	case EventDrawing:
		return room.Drawing{Payload: rawOrNil(data)}, nil

	default:
		return nil, room.NewError(room.ErrValidation, op, "unknown event %q", event)
	}
}

func rawOrNil(data json.RawMessage) any {
	if len(data) == 0 {
		return nil
	}
	return json.RawMessage(append([]byte(nil), data...))
}
