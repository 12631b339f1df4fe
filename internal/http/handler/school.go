package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"schoolapi/internal/http/middleware"
	"schoolapi/internal/model"
	"schoolapi/internal/service"
)

// parseID reads the :id path segment as a signed integer.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil
}

// ListSchools godoc
// @Summary List schools
// @Tags school
// @Produce json
// @Success 200 {array} model.School
// @Failure 500 {object} model.ErrorDetail
// @Router /school/ [get]
func ListSchools(svc service.SchoolService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		schools, err := svc.List(c.UserContext())
		if err != nil {
			return writeAPIError(c, Translate(middleware.RequestLogger(c, log), err))
		}
		if schools == nil {
			schools = []model.School{}
		}
		return c.JSON(schools)
	}
}

// GetSchool godoc
// @Summary Get a school
// @Tags school
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} model.School
// @Failure 400 {object} model.ErrorDetail
// @Failure 404 {object} model.ErrorDetail
// @Failure 500 {object} model.ErrorDetail
// @Router /school/{id} [get]
func GetSchool(svc service.SchoolService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, msgInvalidID)
		}
		school, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeAPIError(c, Translate(middleware.RequestLogger(c, log), err))
		}
		return c.JSON(school)
	}
}

// CreateSchool godoc
// @Summary Create a school
// @Description Responds 200 with the stored school, including its assigned id.
// @Tags school
// @Accept json
// @Produce json
// @Param school body model.CreateSchool true "School to create"
// @Success 200 {object} model.School
// @Failure 400 {object} model.ErrorDetail
// @Failure 500 {object} model.ErrorDetail
// @Router /school/ [post]
func CreateSchool(svc service.SchoolService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.CreateSchool
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, msgInvalidBody)
		}

		school, err := svc.Create(c.UserContext(), in)
		if err != nil {
			if errors.Is(err, service.ErrInvalidSchool) {
				return writeError(c, fiber.StatusBadRequest, msgInvalidBody)
			}
			return writeAPIError(c, Translate(middleware.RequestLogger(c, log), err))
		}
		return c.Status(fiber.StatusOK).JSON(school)
	}
}

// DeleteSchool godoc
// @Summary Delete a school
// @Description Responds with the number of rows removed; a missing id yields 0.
// @Tags school
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {integer} integer
// @Failure 400 {object} model.ErrorDetail
// @Failure 500 {object} model.ErrorDetail
// @Router /school/{id} [delete]
func DeleteSchool(svc service.SchoolService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, msgInvalidID)
		}
		n, err := svc.Delete(c.UserContext(), id)
		if err != nil {
			return writeAPIError(c, Translate(middleware.RequestLogger(c, log), err))
		}
		return c.JSON(n)
	}
}
