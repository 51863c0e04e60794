package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/MukkuChemjong/youtube-api/internal/middleware"
	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/internal/service"
)

type PreferencesHandler struct {
	svc *service.PreferencesService
}

func NewPreferencesHandler(svc *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{svc: svc}
}

// Get handles GET /api/preferences
func (h *PreferencesHandler) Get(c fiber.Ctx) error {
	prefs, err := h.svc.Get(c.Context(), middleware.Owner(c))
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(prefs)
}

// Update handles PATCH /api/preferences
func (h *PreferencesHandler) Update(c fiber.Ctx) error {
	var patch model.PreferencesPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	prefs, err := h.svc.Update(c.Context(), middleware.Owner(c), patch)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(prefs)
}

// Recount handles POST /api/preferences/recount — forces the cached
// active-channel total back in line with the store.
func (h *PreferencesHandler) Recount(c fiber.Ctx) error {
	start := time.Now()
	total, err := h.svc.Recount(c.Context(), middleware.Owner(c))
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	if Metrics.RecountDuration != nil {
		Metrics.RecountDuration.Observe(time.Since(start).Seconds())
	}
	return c.JSON(fiber.Map{"totalChannels": total})
}
