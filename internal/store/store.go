// Package store implements the per-tenant content store: a movie catalog, a
// series catalog and the stream links saved for movies.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/DavidGracias/stream-save/internal/meta"
	"github.com/DavidGracias/stream-save/internal/tenant"
)

var (
	// ErrNotFound signals that the requested content id doesn't exist for
	// the tenant. It leads to a "404 Not Found" response.
	ErrNotFound = errors.New("content not found")
	// ErrInvalidType signals a content type other than "movie" or "series".
	// It leads to a "400 Bad Request" response.
	ErrInvalidType = errors.New("invalid type")
)

// Enricher supplies best-effort metadata for new content.
type Enricher interface {
	Fetch(ctx context.Context, kind, id string) meta.Meta
}

// CollectionNames are the per-tenant collection names. The defaults match
// what earlier releases created, so existing databases keep working.
type CollectionNames struct {
	MovieCatalog  string
	MovieStreams  string
	SeriesCatalog string
}

// DefaultCollectionNames are the collection names used when none are configured.
var DefaultCollectionNames = CollectionNames{
	MovieCatalog:  "movieCatalog",
	MovieStreams:  "movieStreams",
	SeriesCatalog: "seriesCatalog",
}

// Store gives CRUD access to the three collections of whichever tenant a
// request resolved to. It holds no per-tenant state itself; the pool does.
type Store struct {
	pool     *tenant.Pool
	enricher Enricher
	dbName   string
	names    CollectionNames
	logger   *zap.Logger
}

// New creates a store on top of the tenant pool.
func New(pool *tenant.Pool, enricher Enricher, dbName string, names CollectionNames, logger *zap.Logger) *Store {
	if names == (CollectionNames{}) {
		names = DefaultCollectionNames
	}
	return &Store{
		pool:     pool,
		enricher: enricher,
		dbName:   dbName,
		names:    names,
		logger:   logger,
	}
}

type collections struct {
	movieCatalog  *mongo.Collection
	movieStreams  *mongo.Collection
	seriesCatalog *mongo.Collection
}

func (s *Store) collections(ctx context.Context, tenantKey string) (collections, error) {
	client, err := s.pool.Acquire(ctx, tenantKey)
	if err != nil {
		return collections{}, err
	}
	db := client.Database(s.dbName)
	return collections{
		movieCatalog:  db.Collection(s.names.MovieCatalog),
		movieStreams:  db.Collection(s.names.MovieStreams),
		seriesCatalog: db.Collection(s.names.SeriesCatalog),
	}, nil
}

func (c collections) catalog(contentType string) *mongo.Collection {
	if contentType == TypeMovie {
		return c.movieCatalog
	}
	return c.seriesCatalog
}

// ListAll returns all movies and series of the tenant, each tagged with its
// type. Order is storage-native; callers sort for display.
func (s *Store) ListAll(ctx context.Context, tenantKey string) ([]ContentRecord, error) {
	cols, err := s.collections(ctx, tenantKey)
	if err != nil {
		return nil, err
	}
	movies, err := listCatalog(ctx, cols.movieCatalog, TypeMovie)
	if err != nil {
		return nil, err
	}
	series, err := listCatalog(ctx, cols.seriesCatalog, TypeSeries)
	if err != nil {
		return nil, err
	}
	return append(movies, series...), nil
}

// ListByType returns all entries of one type.
func (s *Store) ListByType(ctx context.Context, tenantKey, contentType string) ([]ContentRecord, error) {
	if !ValidType(contentType) {
		return nil, ErrInvalidType
	}
	cols, err := s.collections(ctx, tenantKey)
	if err != nil {
		return nil, err
	}
	return listCatalog(ctx, cols.catalog(contentType), contentType)
}

// CountByType returns the number of entries of one type.
func (s *Store) CountByType(ctx context.Context, tenantKey, contentType string) (int64, error) {
	if !ValidType(contentType) {
		return 0, ErrInvalidType
	}
	cols, err := s.collections(ctx, tenantKey)
	if err != nil {
		return 0, err
	}
	return cols.catalog(contentType).CountDocuments(ctx, bson.D{})
}

func listCatalog(ctx context.Context, col *mongo.Collection, contentType string) ([]ContentRecord, error) {
	cursor, err := col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("couldn't list %v catalog: %w", contentType, err)
	}
	var docs []catalogDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("couldn't decode %v catalog: %w", contentType, err)
	}
	records := make([]ContentRecord, len(docs))
	for i, doc := range docs {
		records[i] = normalize(doc, contentType)
	}
	return records, nil
}

// Upsert replaces the catalog entry for the id, enriching its fields from
// the metadata sources. The full document is replaced, so no stale fields
// from an earlier add under the same id survive. For movies a non-empty
// streamURL replaces the stream link and an empty one clears it; series
// never get a stream link.
func (s *Store) Upsert(ctx context.Context, tenantKey, contentType, id, streamURL string) error {
	if !ValidType(contentType) {
		return ErrInvalidType
	}
	cols, err := s.collections(ctx, tenantKey)
	if err != nil {
		return err
	}

	m := s.enricher.Fetch(ctx, contentType, id)
	doc := catalogDoc{
		Key:         id,
		ID:          id,
		Type:        contentType,
		Name:        m.DisplayName(id),
		Description: optional(m.Description),
		Poster:      m.Poster,
		ReleaseInfo: m.ReleaseInfo,
		IMDbRating:  optional(string(m.IMDbRating)),
	}
	filter := bson.D{{Key: "_id", Value: id}}
	if _, err := cols.catalog(contentType).ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("couldn't replace catalog entry: %w", err)
	}

	if contentType != TypeMovie {
		return nil
	}
	if streamURL == "" {
		if _, err := cols.movieStreams.DeleteOne(ctx, filter); err != nil {
			return fmt.Errorf("couldn't clear stream link: %w", err)
		}
		return nil
	}
	link := streamDoc{Key: id, Data: streamData{URL: streamURL}}
	if _, err := cols.movieStreams.ReplaceOne(ctx, filter, link, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("couldn't replace stream link: %w", err)
	}
	s.logger.Debug("Saved stream link", zap.String("id", id))
	return nil
}

// UpdateFields merges the present fields into the existing catalog entry and
// applies the update's stream link semantics. Updating an id that doesn't
// exist fails with ErrNotFound.
func (s *Store) UpdateFields(ctx context.Context, tenantKey, contentType, id string, update FieldUpdate) error {
	if !ValidType(contentType) {
		return ErrInvalidType
	}
	cols, err := s.collections(ctx, tenantKey)
	if err != nil {
		return err
	}

	filter := bson.D{{Key: "_id", Value: id}}
	set := update.setDocument()
	if len(set) > 0 {
		res, err := cols.catalog(contentType).UpdateOne(ctx, filter, bson.M{"$set": set})
		if err != nil {
			return fmt.Errorf("couldn't update catalog entry: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
	}

	if contentType != TypeMovie || update.Stream == nil {
		return nil
	}
	if *update.Stream == "" {
		if _, err := cols.movieStreams.DeleteOne(ctx, filter); err != nil {
			return fmt.Errorf("couldn't clear stream link: %w", err)
		}
		return nil
	}
	setLink := bson.M{"$set": bson.M{"data": streamData{URL: *update.Stream}}}
	if _, err := cols.movieStreams.UpdateOne(ctx, filter, setLink, options.UpdateOne().SetUpsert(true)); err != nil {
		return fmt.Errorf("couldn't upsert stream link: %w", err)
	}
	return nil
}

// Remove deletes the catalog entry and, for movies, the paired stream link.
// Removing an id that doesn't exist is a successful no-op.
func (s *Store) Remove(ctx context.Context, tenantKey, contentType, id string) error {
	if !ValidType(contentType) {
		return ErrInvalidType
	}
	cols, err := s.collections(ctx, tenantKey)
	if err != nil {
		return err
	}
	filter := bson.D{{Key: "_id", Value: id}}
	if _, err := cols.catalog(contentType).DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("couldn't delete catalog entry: %w", err)
	}
	if contentType == TypeMovie {
		if _, err := cols.movieStreams.DeleteOne(ctx, filter); err != nil {
			return fmt.Errorf("couldn't delete stream link: %w", err)
		}
	}
	return nil
}

// GetOne returns the catalog entry and, for movies, the stored stream URL
// ("" when there is none).
func (s *Store) GetOne(ctx context.Context, tenantKey, contentType, id string) (ContentRecord, string, error) {
	if !ValidType(contentType) {
		return ContentRecord{}, "", ErrInvalidType
	}
	cols, err := s.collections(ctx, tenantKey)
	if err != nil {
		return ContentRecord{}, "", err
	}
	filter := bson.D{{Key: "_id", Value: id}}
	var doc catalogDoc
	if err := cols.catalog(contentType).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ContentRecord{}, "", ErrNotFound
		}
		return ContentRecord{}, "", fmt.Errorf("couldn't fetch catalog entry: %w", err)
	}
	record := normalize(doc, contentType)

	if contentType != TypeMovie {
		return record, "", nil
	}
	streamURL, err := s.streamURL(ctx, cols, id)
	if err != nil {
		return ContentRecord{}, "", err
	}
	return record, streamURL, nil
}

// StreamURL returns the stored stream URL for a movie, or "" when the movie
// has no link. Series have no stream links in this design.
func (s *Store) StreamURL(ctx context.Context, tenantKey, contentType, id string) (string, error) {
	if !ValidType(contentType) {
		return "", ErrInvalidType
	}
	if contentType != TypeMovie {
		return "", nil
	}
	cols, err := s.collections(ctx, tenantKey)
	if err != nil {
		return "", err
	}
	return s.streamURL(ctx, cols, id)
}

func (s *Store) streamURL(ctx context.Context, cols collections, id string) (string, error) {
	var link streamDoc
	err := cols.movieStreams.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("couldn't fetch stream link: %w", err)
	}
	return link.Data.URL, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
