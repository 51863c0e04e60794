package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/MukkuChemjong/youtube-api/internal/middleware"
	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/internal/service"
)

type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func categoryIDParam(c fiber.Ctx) (int64, string) {
	id, err := strconv.ParseInt(c.Params("categoryId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, "categoryId must be a positive integer"
	}
	return id, ""
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(c fiber.Ctx) error {
	var req model.CreateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	name, errMsg := middleware.ValidateCategoryName(req.Name)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	cat, err := h.svc.Create(c.Context(), middleware.Owner(c), name)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// List handles GET /api/categories
func (h *CategoryHandler) List(c fiber.Ctx) error {
	cats, err := h.svc.List(c.Context(), middleware.Owner(c))
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"categories": cats,
		"count":      len(cats),
	})
}

// Rename handles PATCH /api/categories/:categoryId
func (h *CategoryHandler) Rename(c fiber.Ctx) error {
	id, errMsg := categoryIDParam(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.CreateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	name, errMsg := middleware.ValidateCategoryName(req.Name)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Rename(c.Context(), middleware.Owner(c), id, name); err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/categories/:categoryId — membership edges go
// with it, member records survive.
func (h *CategoryHandler) Delete(c fiber.Ctx) error {
	id, errMsg := categoryIDParam(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Delete(c.Context(), middleware.Owner(c), id); err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// AddMember handles PUT /api/categories/:categoryId/members/:channelId
func (h *CategoryHandler) AddMember(c fiber.Ctx) error {
	id, errMsg := categoryIDParam(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.AddMember(c.Context(), middleware.Owner(c), id, channelID); err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// RemoveMember handles DELETE /api/categories/:categoryId/members/:channelId
func (h *CategoryHandler) RemoveMember(c fiber.Ctx) error {
	id, errMsg := categoryIDParam(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.RemoveMember(c.Context(), middleware.Owner(c), id, channelID); err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Members handles GET /api/categories/:categoryId/members
func (h *CategoryHandler) Members(c fiber.Ctx) error {
	id, errMsg := categoryIDParam(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	records, err := h.svc.Members(c.Context(), middleware.Owner(c), id)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"channels": records,
		"count":    len(records),
	})
}

// ActiveCount handles GET /api/categories/:categoryId/active-count
func (h *CategoryHandler) ActiveCount(c fiber.Ctx) error {
	id, errMsg := categoryIDParam(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	total, err := h.svc.TotalActiveChannels(c.Context(), middleware.Owner(c), id)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"totalActiveChannels": total})
}
