package addon

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/DavidGracias/stream-save/internal/store"
	"github.com/DavidGracias/stream-save/internal/stremio"
	"github.com/DavidGracias/stream-save/internal/tenant"
)

// createManifestHandler serves the precomputed manifest document. The body
// is byte-identical on every call, with or without credentials in the path.
func createManifestHandler(manifestBody []byte, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		logger.Debug("Handling manifest request")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(manifestBody)
	}
}

// createConfigureHandler redirects Stremio's "Configure" button to the
// management UI with the credentials pre-filled.
func createConfigureHandler() fiber.Handler {
	return func(c fiber.Ctx) error {
		location := fmt.Sprintf("/configure?user=%s&passw=%s&cluster=%s",
			c.Params("user"), c.Params("passw"), c.Params("cluster"))
		c.Set(fiber.HeaderLocation, location)
		return c.SendStatus(fiber.StatusFound)
	}
}

// createCatalogHandler answers catalog requests. Any internal failure,
// including unusable credentials, collapses into an empty catalog: Stremio
// treats "no results" as normal, not as an error.
func createCatalogHandler(contentStore ContentStore, cacheAge time.Duration, handleEtag bool, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		records := catalogRecords(c, contentStore, logger)
		metas := make([]stremio.MetaPreviewItem, len(records))
		for i, record := range records {
			metas[i] = toMetaPreview(record)
		}
		return sendCacheableJSON(c, stremio.CatalogResponse{Metas: metas}, cacheAge, handleEtag)
	}
}

func catalogRecords(c fiber.Ctx, contentStore ContentStore, logger *zap.Logger) []store.ContentRecord {
	tenantKey, err := tenant.KeyFromPath(c.Params("user"), c.Params("passw"), c.Params("cluster"))
	if err != nil {
		logger.Warn("Catalog request without usable credentials")
		return nil
	}

	var records []store.ContentRecord
	catalogID := c.Params("id")
	switch catalogID {
	case CatalogAll:
		records, err = contentStore.ListAll(c.Context(), tenantKey)
	case CatalogMovies:
		records, err = contentStore.ListByType(c.Context(), tenantKey, store.TypeMovie)
	case CatalogSeries:
		records, err = contentStore.ListByType(c.Context(), tenantKey, store.TypeSeries)
	default:
		logger.Debug("Unknown catalog requested", zap.String("catalogID", catalogID))
		return nil
	}
	if err != nil {
		logger.Error("Couldn't list catalog", zap.String("catalogID", catalogID), zap.Error(err))
		return nil
	}
	return records
}

func toMetaPreview(record store.ContentRecord) stremio.MetaPreviewItem {
	item := stremio.MetaPreviewItem{
		ID:          record.ID,
		Type:        record.Type,
		Name:        record.Name,
		Poster:      record.Poster,
		ReleaseInfo: record.ReleaseInfo,
	}
	if record.Description != nil {
		item.Description = *record.Description
	}
	if record.IMDbRating != nil {
		item.IMDbRating = *record.IMDbRating
	}
	return item
}

// createStreamHandler answers stream requests. Movies return the saved link
// when there is one; series streams are not implemented and always return an
// empty list. Failures collapse into an empty list like in the catalog
// handler.
func createStreamHandler(contentStore ContentStore, cacheAge time.Duration, handleEtag bool, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		var streams []stremio.StreamItem
		contentType := c.Params("type")
		id := c.Params("id")

		tenantKey, err := tenant.KeyFromPath(c.Params("user"), c.Params("passw"), c.Params("cluster"))
		if err != nil {
			logger.Warn("Stream request without usable credentials")
		} else if contentType == store.TypeMovie {
			streamURL, err := contentStore.StreamURL(c.Context(), tenantKey, contentType, id)
			if err != nil {
				logger.Error("Couldn't look up stream link", zap.String("id", id), zap.Error(err))
			} else if streamURL != "" {
				streams = append(streams, stremio.StreamItem{
					URL:   streamURL,
					Title: streamTitle,
				})
			}
		}

		if streams == nil {
			streams = []stremio.StreamItem{}
		}
		return sendCacheableJSON(c, stremio.StreamResponse{Streams: streams}, cacheAge, handleEtag)
	}
}

// sendCacheableJSON serializes the body and applies the optional caching
// headers. The ETag is an xxhash of the serialized body, so clients sending
// If-None-Match get a 304 when the data didn't change.
func sendCacheableJSON(c fiber.Ctx, body any, cacheAge time.Duration, handleEtag bool) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("couldn't marshal response body: %w", err)
	}
	if cacheAge > 0 {
		c.Set(fiber.HeaderCacheControl, fmt.Sprintf("max-age=%d, public", int(cacheAge.Seconds())))
	}
	if handleEtag {
		etag := strconv.Quote(strconv.FormatUint(xxhash.Sum64(data), 16))
		c.Set(fiber.HeaderETag, etag)
		if c.Get(fiber.HeaderIfNoneMatch) == etag {
			return c.SendStatus(fiber.StatusNotModified)
		}
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}
