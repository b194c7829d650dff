// Package api exposes read-only HTTP endpoints over the room registry.
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sakshamg567/sketchguess/internal/room"
)

type RoomLister interface {
	GetRoom(code string) (*room.Room, bool)
	Snapshot() []room.RoomSnapshot
}

func Register(r fiber.Router, rooms RoomLister) {
	r.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	r.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	r.Get("/api/rooms", func(c *fiber.Ctx) error {
		return c.JSON(rooms.Snapshot())
	})

	r.Get("/room/:code", func(c *fiber.Ctx) error {
		rm, ok := rooms.GetRoom(c.Params("code"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "room not found"})
		}
		snap := rm.Snapshot()
		return c.JSON(fiber.Map{
			"roomCode": snap.RoomCode,
			"exists":   true,
			"players":  snap.Players,
			"phase":    snap.Phase,
		})
	})
}
