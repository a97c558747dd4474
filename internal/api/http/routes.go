package httpapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/dwd-pollen/internal/pollen"
	"github.com/i474232898/dwd-pollen/internal/store"
)

var validate = validator.New()

// EntityReader is the part of pollen.Service the routes need.
type EntityReader interface {
	Entity(key pollen.Key) (pollen.Entity, error)
	Entities() []pollen.Entity
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service EntityReader) {
	v1 := app.Group("/api/v1")

	v1.Get("/sensors", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sensors": service.Entities(),
		})
	})

	v1.Get("/sensors/:partregion/:category", func(c *fiber.Ctx) error {
		req, err := parseSensorPath(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entity, err := service.Entity(req.toKey())
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return fiber.NewError(fiber.StatusNotFound, "no sensor for requested partregion and category")
			case errors.Is(err, pollen.ErrNoSnapshot):
				return fiber.NewError(fiber.StatusServiceUnavailable, "sensor has not refreshed yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read sensor")
		}

		return c.JSON(entity)
	})
}

// sensorPath holds the path parameters identifying a sensor.
type sensorPath struct {
	PartregionID int             `validate:"gt=0"`
	Category     pollen.Category `validate:"required"`
}

func (p sensorPath) toKey() pollen.Key {
	return pollen.Key{
		PartregionID: p.PartregionID,
		Category:     p.Category,
	}
}

func parseSensorPath(c *fiber.Ctx) (sensorPath, error) {
	var p sensorPath

	id, err := strconv.Atoi(c.Params("partregion"))
	if err != nil {
		return p, errors.New("partregion must be an integer")
	}
	p.PartregionID = id

	category, ok := pollen.ParseCategory(c.Params("category"))
	if !ok {
		return p, fmt.Errorf("unknown category %q", c.Params("category"))
	}
	p.Category = category

	if err := validate.Struct(p); err != nil {
		return p, err
	}
	return p, nil
}
