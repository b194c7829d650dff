package room

// Phase is the round state of a room.
//
//	Idle -> WordPending -> Drawing -> RoundResolved -> WordPending ...
//
// A room falls back to Idle when fewer than two players remain.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWordPending
	PhaseDrawing
	PhaseRoundResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWordPending:
		return "word_pending"
	case PhaseDrawing:
		return "drawing"
	case PhaseRoundResolved:
		return "round_resolved"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ReadyOutcome reports what a SetReady call did to the round.
type ReadyOutcome int

const (
	// Waiting: at least one player is not ready yet.
	ReadyWaiting ReadyOutcome = iota
	// NeedMorePlayers: everyone is ready but the room has a single player.
	ReadyNeedMorePlayers
	ReadyRoundStarted
	// InProgress: a round is already running, only the flag changed.
	ReadyInProgress
)

func (o ReadyOutcome) String() string {
	switch o {
	case ReadyWaiting:
		return "waiting"
	case ReadyNeedMorePlayers:
		return "need_more_players"
	case ReadyRoundStarted:
		return "round_started"
	case ReadyInProgress:
		return "in_progress"
	default:
		return "unknown"
	}
}
