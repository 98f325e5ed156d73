package exercise

import (
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Exercise
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		created, err := svc.CreateExercise(c.Context(), req)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(created)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		exercises, err := svc.ListExercises(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if exercises == nil {
			exercises = []Exercise{}
		}
		return c.JSON(exercises)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		e, err := svc.GetExercise(c.Context(), c.Params("id"))
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(e)
	})
}
