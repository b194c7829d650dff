package room

// ConnID identifies one transport session. The gateway issues it.
type ConnID string

type Player struct {
	ConnID   ConnID
	Username string
	Ready    bool
	Score    int
}

func (p *Player) Summary() PlayerSummary {
	return PlayerSummary{
		Username: p.Username,
		Ready:    p.Ready,
		Score:    p.Score,
	}
}
