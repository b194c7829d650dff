package room

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/sakshamg567/sketchguess/logger"
)

const (
	// closeGuessDistance is the largest edit distance reported as a close guess.
	closeGuessDistance = 2
	// MaxWordLen bounds a secret word in runes.
	MaxWordLen = 64
)

func normalizeWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SubmitWord stores the drawer's secret word and opens the room for guesses.
func (c *Coordinator) SubmitWord(conn ConnID, word string) error {
	const op = "submitWord"

	w := normalizeWord(word)
	if w == "" {
		return NewError(ErrValidation, op, "word is required")
	}
	if utf8.RuneCountInString(w) > MaxWordLen {
		return NewError(ErrValidation, op, "word longer than %d characters", MaxWordLen)
	}

	return c.withMember(conn, op, func(r *Room, p *Player) error {
		if r.drawer != conn {
			return NewError(ErrState, op, "only the drawer can submit a word")
		}
		if r.phase != PhaseWordPending {
			return NewError(ErrState, op, "no word expected while %s", r.phase)
		}

		r.word = w
		r.phase = PhaseDrawing

		c.transport.EmitTo(conn, EventWordAccepted, WordAcceptedPayload{Word: w})
		c.transport.BroadcastToGroup(r.Code, EventWordSubmitted, WordSubmittedPayload{Username: p.Username}, conn)
		logger.Debug("room %s: %s submitted a word", r.Code, p.Username)
		return nil
	})
}

// SubmitGuess checks guess against the room's word. The raw text of a wrong
// guess goes to the drawer only.
func (c *Coordinator) SubmitGuess(conn ConnID, guess string) (bool, error) {
	const op = "submitGuess"

	var correct bool
	err := c.withMember(conn, op, func(r *Room, p *Player) error {
		if r.phase != PhaseDrawing {
			return NewError(ErrState, op, "no word to guess while %s", r.phase)
		}
		if r.drawer == conn {
			return NewError(ErrState, op, "the drawer cannot guess")
		}

		g := normalizeWord(guess)
		if g == r.word {
			correct = true
			c.resolveLocked(r, p)
			return nil
		}

		c.transport.EmitTo(conn, EventGuessResult, GuessResultPayload{Correct: false})
		if d, ok := closeDistance(g, r.word); ok {
			c.transport.EmitTo(conn, EventCloseGuess, CloseGuessPayload{Distance: d})
		}
		c.transport.EmitTo(r.drawer, EventNewGuess, NewGuessPayload{Username: p.Username, Guess: guess})
		return nil
	})
	return correct, err
}

// closeDistance reports the edit distance between guess and word when it is
// small enough to hint. The distance is at least the length difference, so
// far-off lengths skip the computation.
func closeDistance(guess, word string) (int, bool) {
	if guess == "" {
		return 0, false
	}
	diff := utf8.RuneCountInString(guess) - utf8.RuneCountInString(word)
	if diff > closeGuessDistance || -diff > closeGuessDistance {
		return 0, false
	}
	d := levenshtein.ComputeDistance(guess, word)
	return d, d <= closeGuessDistance
}

func (c *Coordinator) resolveLocked(r *Room, guesser *Player) {
	r.phase = PhaseRoundResolved
	guesser.Score++
	if d, _ := r.player(r.drawer); d != nil {
		d.Score++
	}

	c.transport.EmitTo(guesser.ConnID, EventGuessResult, GuessResultPayload{Correct: true})
	c.transport.BroadcastToGroup(r.Code, EventUserGuessedCorrectly, CorrectGuessPayload{
		Username: guesser.Username,
		Word:     r.word,
	})
	logger.Info("room %s: %s guessed %q", r.Code, guesser.Username, r.word)

	r.cancelRotation()
	code := r.Code
	r.rotation = c.sched.AfterFunc(c.delay, func() {
		c.rotateScheduled(code, r)
	})
}

// rotateScheduled runs after the post-guess delay. It does nothing when the
// room is gone, the code now names a different room, or the round moved on.
func (c *Coordinator) rotateScheduled(code string, want *Room) {
	cur, ok := c.rooms.GetRoom(code)
	if !ok || cur != want {
		return
	}
	want.mu.Lock()
	defer want.mu.Unlock()
	if want.destroyed || want.phase != PhaseRoundResolved {
		return
	}
	want.rotation = nil
	c.rotateLocked(want)
}

// RotateDrawer hands the drawer role to the next player immediately.
func (c *Coordinator) RotateDrawer(code string) error {
	r, err := c.rooms.Get(code)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return NewError(ErrNotFound, "rotateDrawer", "room %s not found", r.Code)
	}
	r.cancelRotation()
	c.rotateLocked(r)
	return nil
}

// rotateLocked advances the drawer cyclically in join order, or to the first
// player when the current drawer is gone.
func (c *Coordinator) rotateLocked(r *Room) {
	if len(r.players) == 0 {
		return
	}
	next := r.players[0]
	if _, i := r.player(r.drawer); i >= 0 {
		next = r.players[(i+1)%len(r.players)]
	}

	r.drawer = next.ConnID
	r.word = ""
	r.phase = PhaseWordPending
	r.round++

	c.transport.BroadcastToGroup(r.Code, EventDrawerChanged, DrawerChangedPayload{
		NewDrawer: next.Username,
		Round:     r.round,
	})
	c.offerWordsLocked(r)
	logger.Info("room %s: %s is drawing (round %d)", r.Code, next.Username, r.round)
}
