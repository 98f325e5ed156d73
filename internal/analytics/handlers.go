package analytics

import (
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/:userId/prs", func(c *fiber.Ctx) error {
		records, err := svc.PersonalRecords(c.Context(), c.Params("userId"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if records == nil {
			records = []PersonalRecord{}
		}
		return c.JSON(records)
	})

	r.Get("/:userId/progress", func(c *fiber.Ctx) error {
		exerciseID := c.Query("exerciseId")
		if exerciseID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "exerciseId required")
		}
		granularity := c.Query("granularity", "day")

		points, err := svc.ExerciseTimeseries(c.Context(), c.Params("userId"), exerciseID, granularity)
		if err != nil {
			return apperr.ToFiber(err)
		}
		if points == nil {
			points = []TimeseriesPoint{}
		}
		return c.JSON(points)
	})

	r.Get("/:userId/today-stats", func(c *fiber.Ctx) error {
		stats, err := svc.TodayStats(c.Context(), c.Params("userId"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(stats)
	})
}
