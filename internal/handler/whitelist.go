package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/MukkuChemjong/youtube-api/internal/middleware"
	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/internal/service"
)

type WhitelistHandler struct {
	svc *service.WhitelistService
}

func NewWhitelistHandler(svc *service.WhitelistService) *WhitelistHandler {
	return &WhitelistHandler{svc: svc}
}

// List handles GET /api/whitelist?active=true|false
func (h *WhitelistHandler) List(c fiber.Ctx) error {
	owner := middleware.Owner(c)

	var filter model.ChannelListFilter
	switch fiber.Query[string](c, "active") {
	case "":
		// no filter
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", "active must be true or false")
	}

	records, err := h.svc.List(c.Context(), owner, filter)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"channels": records,
		"count":    len(records),
	})
}

// Add handles POST /api/whitelist
func (h *WhitelistHandler) Add(c fiber.Ctx) error {
	owner := middleware.Owner(c)

	var req model.AddChannelRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	channelID, errMsg := middleware.ValidateChannelID(req.ChannelID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.ChannelID = channelID

	rec, err := h.svc.Add(c.Context(), owner, req)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

// Update handles PATCH /api/whitelist/:channelId
func (h *WhitelistHandler) Update(c fiber.Ctx) error {
	owner := middleware.Owner(c)

	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var patch model.ChannelPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	rec, err := h.svc.Update(c.Context(), owner, channelID, patch)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return c.JSON(rec)
}

// MarkChecked handles POST /api/whitelist/:channelId/checked
func (h *WhitelistHandler) MarkChecked(c fiber.Ctx) error {
	owner := middleware.Owner(c)

	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.MarkChecked(c.Context(), owner, channelID); err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// Remove handles DELETE /api/whitelist/:channelId
func (h *WhitelistHandler) Remove(c fiber.Ctx) error {
	owner := middleware.Owner(c)

	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Remove(c.Context(), owner, channelID); err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// Purge handles DELETE /api/whitelist — removes every record, category and
// preference row the owner has.
func (h *WhitelistHandler) Purge(c fiber.Ctx) error {
	owner := middleware.Owner(c)

	if err := h.svc.Purge(c.Context(), owner); err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
