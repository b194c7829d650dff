package room

// Inbound is the closed set of messages a connection can send. Dispatch
// handles every implementation.
type Inbound interface {
	inbound()
}

type CreateRoom struct {
	Username      string
	RequestedCode string
}

type JoinRoom struct {
	RoomCode string
	Username string
}

type RoomExists struct {
	Code string
}

// LeaveRoom leaves the sender's current room. The fields are informational;
// membership is resolved from the connection.
type LeaveRoom struct {
	RoomCode string
	Username string
}

type SetReady struct {
	Ready bool
}

type SubmitWord struct {
	Word string
}

type SubmitGuess struct {
	Guess string
}

// SendMessage carries an opaque chat payload.
type SendMessage struct {
	Payload any
}

// Drawing carries an opaque stroke payload.
type Drawing struct {
	Payload any
}

// Disconnect is produced by the gateway when the transport session ends.
type Disconnect struct{}

func (CreateRoom) inbound()  {}
func (JoinRoom) inbound()    {}
func (RoomExists) inbound()  {}
func (LeaveRoom) inbound()   {}
func (SetReady) inbound()    {}
func (SubmitWord) inbound()  {}
func (SubmitGuess) inbound() {}
func (SendMessage) inbound() {}
func (Drawing) inbound()     {}
func (Disconnect) inbound()  {}

// Dispatch runs msg for conn. Request/response kinds return their reply:
// CreatedReply for CreateRoom, bool for RoomExists, LeftReply for LeaveRoom.
// Errors are also sent to conn as an errorMessage event.
func (c *Coordinator) Dispatch(conn ConnID, msg Inbound) (any, error) {
	var (
		reply any
		err   error
	)

	switch m := msg.(type) {
	case CreateRoom:
		var code string
		if code, err = c.CreateRoom(conn, m.Username, m.RequestedCode); err == nil {
			reply = CreatedReply{RoomCode: code}
		}
	case JoinRoom:
		err = c.JoinRoom(conn, m.RoomCode, m.Username)
	case RoomExists:
		reply = c.RoomExists(m.Code)
	case LeaveRoom:
		c.Leave(conn)
		reply = LeftReply{OK: true}
	case SetReady:
		_, err = c.SetReady(conn, m.Ready)
	case SubmitWord:
		err = c.SubmitWord(conn, m.Word)
	case SubmitGuess:
		_, err = c.SubmitGuess(conn, m.Guess)
	case SendMessage:
		err = c.SendMessage(conn, m.Payload)
	case Drawing:
		err = c.RelayDrawing(conn, m.Payload)
	case Disconnect:
		c.Disconnect(conn)
	default:
		err = NewError(ErrValidation, "dispatch", "unsupported message %T", msg)
	}

	if err != nil {
		c.reject(conn, err)
		return nil, err
	}
	return reply, nil
}
