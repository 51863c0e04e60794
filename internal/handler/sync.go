package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/MukkuChemjong/youtube-api/internal/middleware"
	"github.com/MukkuChemjong/youtube-api/internal/model"
	"github.com/MukkuChemjong/youtube-api/internal/service"
	"github.com/MukkuChemjong/youtube-api/pkg/apperr"
	"github.com/MukkuChemjong/youtube-api/pkg/hash"
)

type SyncHandler struct {
	svc    *service.SyncService
	ipSalt string
}

func NewSyncHandler(svc *service.SyncService, ipSalt string) *SyncHandler {
	return &SyncHandler{svc: svc, ipSalt: ipSalt}
}

// clientMeta captures hashed client context for the sync audit log. The raw
// IP never leaves this function.
func (h *SyncHandler) clientMeta(c fiber.Ctx) *model.ClientMeta {
	return &model.ClientMeta{
		IPHash:    hash.HashIP(c.IP(), h.ipSalt),
		UserAgent: middleware.ValidateUserAgent(c.Get("User-Agent")),
	}
}

type fullSyncRequest struct {
	Channels []model.SnapshotEntry `json:"channels"`
}

// FullSync handles POST /api/sync/full. The body carries the client's
// complete whitelist snapshot; the server state is reconciled to match it in
// one atomic batch.
func (h *SyncHandler) FullSync(c fiber.Ctx) error {
	owner := middleware.Owner(c)

	var req fullSyncRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	for i := range req.Channels {
		channelID, errMsg := middleware.ValidateChannelID(req.Channels[i].ChannelID)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.Channels[i].ChannelID = channelID
	}

	result, err := h.svc.Reconcile(c.Context(), owner, req.Channels, h.clientMeta(c))
	return h.respond(c, result, err)
}

type partialSyncRequest struct {
	Instructions []model.SyncInstruction `json:"instructions"`
}

// PartialSync handles POST /api/sync/partial. The body is an explicit list of
// add/update/remove instructions applied all-or-nothing.
func (h *SyncHandler) PartialSync(c fiber.Ctx) error {
	owner := middleware.Owner(c)

	var req partialSyncRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if len(req.Instructions) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "instructions must not be empty")
	}

	for i := range req.Instructions {
		channelID, errMsg := middleware.ValidateChannelID(req.Instructions[i].Channel.ChannelID)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.Instructions[i].Channel.ChannelID = channelID
	}

	result, err := h.svc.ApplyPartial(c.Context(), owner, req.Instructions, h.clientMeta(c))
	return h.respond(c, result, err)
}

type metadataRefreshRequest struct {
	ChannelIDs []string `json:"channelIds"`
}

// MetadataRefresh handles POST /api/sync/metadata-refresh. The external
// fetcher reports which channels it re-checked; each gets its timestamp
// marked and the pass is audited.
func (h *SyncHandler) MetadataRefresh(c fiber.Ctx) error {
	owner := middleware.Owner(c)

	var req metadataRefreshRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if len(req.ChannelIDs) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "channelIds must not be empty")
	}

	for i, id := range req.ChannelIDs {
		channelID, errMsg := middleware.ValidateChannelID(id)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.ChannelIDs[i] = channelID
	}

	result, err := h.svc.RecordMetadataRefresh(c.Context(), owner, req.ChannelIDs, h.clientMeta(c))
	return h.respond(c, result, err)
}

// Logs handles GET /api/sync/logs?limit=N
func (h *SyncHandler) Logs(c fiber.Ctx) error {
	limit := fiber.Query[int](c, "limit")

	logs, err := h.svc.Logs(c.Context(), middleware.Owner(c), limit)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}

// respond renders a sync outcome. A failed batch still produced a resolved
// (failed) log, which is returned alongside the error so the client can
// correlate the attempt.
func (h *SyncHandler) respond(c fiber.Ctx, result *model.SyncResult, err error) error {
	if result != nil && Metrics.SyncAttemptsTotal != nil {
		Metrics.SyncAttemptsTotal.WithLabelValues(string(result.Log.Kind), string(result.Log.Status)).Inc()
	}

	if err == nil {
		return c.JSON(result)
	}
	if result == nil {
		return middleware.AppErrorResponse(c, err)
	}

	code := apperr.CodeOf(err)
	status := middleware.StatusForCode(code)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		code = apperr.CodeInternal
		message = "Internal error"
	}
	return c.Status(status).JSON(fiber.Map{
		"log": result.Log,
		"error": fiber.Map{
			"code":    string(code),
			"message": message,
		},
	})
}
