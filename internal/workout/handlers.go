package workout

import (
	"time"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			UserID string  `json:"userId"`
			Note   *string `json:"note"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID := requestUserID(c)
		if userID == "" {
			userID = req.UserID
		}
		if userID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "userId required")
		}
		session, err := svc.StartSession(c.Context(), userID, req.Note)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(session)
	})

	r.Get("/sessions", func(c *fiber.Ctx) error {
		userID := c.Query("userId")
		if userID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "userId required")
		}
		before, err := queryTime(c, "before")
		if err != nil {
			return apperr.ToFiber(err)
		}
		after, err := queryTime(c, "after")
		if err != nil {
			return apperr.ToFiber(err)
		}
		filter := ListFilter{
			UserID: userID,
			Limit:  c.QueryInt("limit"),
			Before: before,
			After:  after,
		}
		sessions, err := svc.ListSessions(c.Context(), filter)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if sessions == nil {
			sessions = []Session{}
		}
		return c.JSON(sessions)
	})

	r.Get("/active-session", func(c *fiber.Ctx) error {
		userID := c.Query("userId")
		if userID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "userId required")
		}
		session, err := svc.ActiveSession(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(session)
	})

	r.Patch("/sessions/:id", authMiddleware, func(c *fiber.Ctx) error {
		var p SessionPatch
		if err := c.BodyParser(&p); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var (
			session Session
			err     error
		)
		if p.Action == "end" {
			session, err = svc.EndSession(c.Context(), requestUserID(c), c.Params("id"))
		} else {
			session, err = svc.UpdateSession(c.Context(), requestUserID(c), c.Params("id"), p)
		}
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(session)
	})

	r.Delete("/sessions/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteSession(c.Context(), requestUserID(c), c.Params("id")); err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	r.Post("/sessions/:sessionId/sets", authMiddleware, func(c *fiber.Ctx) error {
		var req Set
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		set, err := svc.AddSet(c.Context(), requestUserID(c), c.Params("sessionId"), req)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(set)
	})

	r.Get("/sessions/:sessionId/sets", func(c *fiber.Ctx) error {
		sets, err := svc.ListSets(c.Context(), c.Params("sessionId"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if sets == nil {
			sets = []Set{}
		}
		return c.JSON(sets)
	})

	r.Patch("/sets/:id", authMiddleware, func(c *fiber.Ctx) error {
		var p SetPatch
		if err := c.BodyParser(&p); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		set, err := svc.UpdateSet(c.Context(), requestUserID(c), c.Params("id"), p)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(set)
	})

	r.Delete("/sets/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteSet(c.Context(), requestUserID(c), c.Params("id")); err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(fiber.Map{"success": true})
	})
}

// requestUserID prefers the authenticated identity, falling back to the
// userId query param used by legacy clients.
func requestUserID(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_id").(string); ok && v != "" {
		return v
	}
	return c.Query("userId")
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.Validation("%s must be an RFC3339 timestamp", key)
	}
	return &t, nil
}
