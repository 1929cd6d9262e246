package addon

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/DavidGracias/stream-save/internal/store"
	"github.com/DavidGracias/stream-save/internal/tenant"
)

// headerDBURL carries the tenant's connection string on management API
// requests. The management UI and the addon path segments are two encodings
// of the same credential.
const headerDBURL = "x-db-url"

type contentListResponse struct {
	Content    []store.ContentRecord `json:"content"`
	TotalCount int                   `json:"total_count"`
}

type contentItemResponse struct {
	Item store.ContentRecord `json:"item"`
	// Stream is set for movies only. An empty string means the movie has no
	// saved link.
	Stream *string `json:"stream,omitempty"`
}

type addContentRequest struct {
	Type   string `json:"type"`
	ImdbID string `json:"imdbID"`
	Stream string `json:"stream"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// sendError maps store, tenant and validation errors to their HTTP status.
func sendError(c fiber.Ctx, logger *zap.Logger, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, tenant.ErrMissingCredentials), errors.Is(err, store.ErrInvalidType):
		status = fiber.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, tenant.ErrStorageUnavailable):
		logger.Error("Storage unavailable", zap.Error(err))
	default:
		logger.Error("Request failed", zap.Error(err))
	}
	return c.Status(status).JSON(errorResponse{Error: err.Error()})
}

func createListContentHandler(contentStore ContentStore, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		tenantKey, err := tenant.KeyFromHeader(c.Get(headerDBURL))
		if err != nil {
			return sendError(c, logger, err)
		}
		content, err := contentStore.ListAll(c.Context(), tenantKey)
		if err != nil {
			return sendError(c, logger, err)
		}
		if content == nil {
			content = []store.ContentRecord{}
		}
		return c.JSON(contentListResponse{Content: content, TotalCount: len(content)})
	}
}

func createAddContentHandler(contentStore ContentStore, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		tenantKey, err := tenant.KeyFromHeader(c.Get(headerDBURL))
		if err != nil {
			return sendError(c, logger, err)
		}
		var req addContentRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
		}
		if req.Type == "" || req.ImdbID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "type and imdbID required"})
		}
		if err := contentStore.Upsert(c.Context(), tenantKey, req.Type, req.ImdbID, req.Stream); err != nil {
			return sendError(c, logger, err)
		}
		logger.Info("Added content", zap.String("type", req.Type), zap.String("id", req.ImdbID))
		return c.SendString("Success")
	}
}

func createGetContentHandler(contentStore ContentStore, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		tenantKey, err := tenant.KeyFromHeader(c.Get(headerDBURL))
		if err != nil {
			return sendError(c, logger, err)
		}
		contentType := c.Params("type")
		record, streamURL, err := contentStore.GetOne(c.Context(), tenantKey, contentType, c.Params("id"))
		if err != nil {
			return sendError(c, logger, err)
		}
		res := contentItemResponse{Item: record}
		if contentType == store.TypeMovie {
			res.Stream = &streamURL
		}
		return c.JSON(res)
	}
}

func createUpdateContentHandler(contentStore ContentStore, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		tenantKey, err := tenant.KeyFromHeader(c.Get(headerDBURL))
		if err != nil {
			return sendError(c, logger, err)
		}
		var update store.FieldUpdate
		if err := c.Bind().Body(&update); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
		}
		if err := contentStore.UpdateFields(c.Context(), tenantKey, c.Params("type"), c.Params("id"), update); err != nil {
			return sendError(c, logger, err)
		}
		return c.SendString("Success")
	}
}

func createRemoveContentHandler(contentStore ContentStore, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		tenantKey, err := tenant.KeyFromHeader(c.Get(headerDBURL))
		if err != nil {
			return sendError(c, logger, err)
		}
		if err := contentStore.Remove(c.Context(), tenantKey, c.Params("type"), c.Params("id")); err != nil {
			return sendError(c, logger, err)
		}
		return c.SendString("Success")
	}
}
