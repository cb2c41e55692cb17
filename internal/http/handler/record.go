package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fdms/internal/model"
	"fdms/internal/service"
)

// RecordHandler serves the generic CRUD surface of every catalog entity.
type RecordHandler struct {
	svc service.RecordService
	log *zap.Logger
}

// NewRecordHandler constructs a RecordHandler.
func NewRecordHandler(svc service.RecordService, log *zap.Logger) *RecordHandler {
	return &RecordHandler{svc: svc, log: orNop(log)}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func queryInt(c *fiber.Ctx, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// List godoc
// @Summary List records
// @Tags records
// @Produce json
// @Param resource path string true "Resource path"
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Page size" default(100)
// @Param search query string false "Substring search"
// @Success 200 {array} object
// @Failure 400 {object} errorPayload
// @Router /api/{resource} [get]
func (h *RecordHandler) List(e *model.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip, ok := queryInt(c, "skip", 0)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SKIP", "invalid skip")
		}
		limit, ok := queryInt(c, "limit", service.DefaultLimit)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		filters := make(map[string]string, len(e.Filters))
		for _, f := range e.Filters {
			if v := c.Query(f.Param); v != "" {
				filters[f.Param] = v
			}
		}

		out, err := h.svc.List(c.UserContext(), e, service.ListParams{
			Skip:    skip,
			Limit:   limit,
			Search:  c.Query("search"),
			Filters: filters,
		})
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// Get godoc
// @Summary Get a record by id
// @Tags records
// @Produce json
// @Param resource path string true "Resource path"
// @Param id path int true "Record id"
// @Success 200 {object} object
// @Failure 404 {object} errorPayload
// @Router /api/{resource}/{id} [get]
func (h *RecordHandler) Get(e *model.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := h.svc.Get(c.UserContext(), e, id)
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(rec)
	}
}

// Create godoc
// @Summary Create a record
// @Tags records
// @Accept json
// @Produce json
// @Param resource path string true "Resource path"
// @Success 201 {object} object
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/{resource} [post]
func (h *RecordHandler) Create(e *model.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := model.DecodePatch(e, c.Body())
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		rec, err := h.svc.Create(c.UserContext(), e, p)
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// Update godoc
// @Summary Update the supplied fields of a record
// @Tags records
// @Accept json
// @Produce json
// @Param resource path string true "Resource path"
// @Param id path int true "Record id"
// @Success 200 {object} object
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/{resource}/{id} [put]
func (h *RecordHandler) Update(e *model.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := model.DecodePatch(e, c.Body())
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		rec, err := h.svc.Update(c.UserContext(), e, id, p)
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(rec)
	}
}

// Delete godoc
// @Summary Delete a record
// @Tags records
// @Produce json
// @Param resource path string true "Resource path"
// @Param id path int true "Record id"
// @Success 200 {object} object
// @Failure 404 {object} errorPayload
// @Router /api/{resource}/{id} [delete]
func (h *RecordHandler) Delete(e *model.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		out, err := h.svc.Delete(c.UserContext(), e, id)
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// Stats godoc
// @Summary Aggregate statistics
// @Tags records
// @Produce json
// @Param resource path string true "Resource path"
// @Success 200 {object} object
// @Router /api/{resource}/stats [get]
func (h *RecordHandler) Stats(e *model.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.svc.Stats(c.UserContext(), e)
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// ListBy serves GET /api/<path>/<related>/:value.
func (h *RecordHandler) ListBy(e *model.Entity, r model.Related) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.svc.ListBy(c.UserContext(), e, r, c.Params("value"))
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// Distinct serves the enumeration routes such as /types and /categories.
func (h *RecordHandler) Distinct(e *model.Entity, en model.Enum) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.svc.Distinct(c.UserContext(), e, en)
		if err != nil {
			return writeServiceError(c, h.log, err)
		}
		return c.JSON(out)
	}
}
