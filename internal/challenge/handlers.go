package challenge

import (
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/apperr"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		challenges, err := svc.ListChallenges(c.Context(), ListFilter{
			Status: c.Query("status"),
			UserID: c.Query("userId"),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if challenges == nil {
			challenges = []Challenge{}
		}
		return c.JSON(challenges)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Challenge
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		created, err := svc.CreateChallenge(c.Context(), req)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(created)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		ch, err := svc.GetChallenge(c.Context(), c.Params("id"))
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(ch)
	})

	r.Patch("/:id/status", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil || body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status required")
		}
		if err := svc.UpdateStatus(c.Context(), c.Params("id"), body.Status); err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	r.Get("/:id/leaderboard", func(c *fiber.Ctx) error {
		board, err := svc.Leaderboard(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if board == nil {
			board = []LeaderboardEntry{}
		}
		return c.JSON(board)
	})

	r.Get("/:id/participants", func(c *fiber.Ctx) error {
		users, err := svc.ListParticipants(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if users == nil {
			users = []auth.User{}
		}
		return c.JSON(users)
	})

	r.Post("/:id/participants", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			UserIDs []string `json:"userIds"`
		}
		if err := c.BodyParser(&body); err != nil || body.UserIDs == nil {
			return fiber.NewError(fiber.StatusBadRequest, "userIds must be an array")
		}
		if err := svc.AddParticipants(c.Context(), c.Params("id"), body.UserIDs); err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	r.Get("/:id/entries", func(c *fiber.Ctx) error {
		entries, err := svc.ListEntries(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if entries == nil {
			entries = []Entry{}
		}
		return c.JSON(entries)
	})

	r.Post("/:id/entries", authMiddleware, func(c *fiber.Ctx) error {
		var req Entry
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.ChallengeID = c.Params("id")
		entry, err := svc.CreateEntry(c.Context(), req)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(entry)
	})
}

// RegisterEntryRoutes handles the top-level entry deletion route.
func RegisterEntryRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteEntry(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
