// Package gateway adapts client transports to the room coordinator. Every
// transport registers its sessions with a shared Hub and feeds decoded
// messages to a Dispatcher.
package gateway

import (
	"time"

	"github.com/sakshamg567/sketchguess/internal/room"
	"github.com/sakshamg567/sketchguess/logger"
	"golang.org/x/time/rate"
)

var errRateLimited = room.NewError(room.ErrState, "relay", "too many messages")

// Dispatcher runs one inbound message for a connection.
type Dispatcher interface {
	Dispatch(conn room.ConnID, msg room.Inbound) (any, error)
}

type Options struct {
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SendBuffer   int

	// RelayRate limits drawing and chat frames per connection per second.
	// Zero disables the limit.
	RelayRate  float64
	RelayBurst int

	// AllowedOrigins is a comma separated list, or "*".
	AllowedOrigins string
}

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = 54 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 60 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 256
	}
	if o.RelayBurst <= 0 {
		o.RelayBurst = 1
	}
	if o.AllowedOrigins == "" {
		o.AllowedOrigins = "*"
	}
	return o
}

func (o Options) limiter() *rate.Limiter {
	if o.RelayRate <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(o.RelayRate), o.RelayBurst)
}

// dispatch decodes and runs one wire event. Decode failures are reported
// to the sender the same way coordinator errors are.
func dispatch(hub *Hub, d Dispatcher, id room.ConnID, lim *rate.Limiter, event string, data []byte) (any, error) {
	if isRelay(event) && !lim.Allow() {
		logger.Debug("rate limited %s from %s", event, id)
		return nil, errRateLimited
	}
	msg, err := Decode(event, data)
	if err != nil {
		logger.Warn("bad %s frame from %s: %v", event, id, err)
		hub.EmitTo(id, room.EventError, room.ErrorPayloadFor(err))
		return nil, err
	}
	return d.Dispatch(id, msg)
}
