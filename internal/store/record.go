package store

// Content types accepted by the store.
const (
	TypeMovie  = "movie"
	TypeSeries = "series"
)

// ValidType reports whether contentType is one the store manages.
func ValidType(contentType string) bool {
	return contentType == TypeMovie || contentType == TypeSeries
}

// ContentRecord is the normalized shape of one saved catalog entry. Every
// record leaving the store has exactly this shape, no matter what extra
// fields the raw document carries.
type ContentRecord struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Poster      string  `json:"poster"`
	ReleaseInfo string  `json:"releaseInfo"`
	IMDbRating  *string `json:"imdbRating"`
}

// catalogDoc is the raw catalog document. The IMDb id doubles as the Mongo
// document key, which is what makes replace and delete by id atomic.
type catalogDoc struct {
	Key         string  `bson:"_id"`
	ID          string  `bson:"id"`
	Type        string  `bson:"type"`
	Name        string  `bson:"name"`
	Description *string `bson:"description"`
	Poster      string  `bson:"poster"`
	ReleaseInfo string  `bson:"releaseInfo"`
	IMDbRating  *string `bson:"imdbRating"`
}

// streamDoc is the raw stream link document, keyed like its catalog entry.
type streamDoc struct {
	Key  string     `bson:"_id"`
	Data streamData `bson:"data"`
}

type streamData struct {
	URL string `bson:"url" json:"url"`
}

// normalize maps a raw document to the ContentRecord shape. Older documents
// may only have one of _id/id set.
func normalize(d catalogDoc, contentType string) ContentRecord {
	id := d.Key
	if id == "" {
		id = d.ID
	}
	return ContentRecord{
		ID:          id,
		Type:        contentType,
		Name:        d.Name,
		Description: d.Description,
		Poster:      d.Poster,
		ReleaseInfo: d.ReleaseInfo,
		IMDbRating:  d.IMDbRating,
	}
}

// FieldUpdate carries a partial update. Nil pointers mean "leave untouched".
// For movies, a non-nil empty Stream deletes the stream link and a non-empty
// one upserts it; Stream is ignored for series.
type FieldUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Poster      *string `json:"poster"`
	ReleaseInfo *string `json:"releaseInfo"`
	IMDbRating  *string `json:"imdbRating"`
	Stream      *string `json:"stream"`
}

// setDocument returns the $set document for the fields present in the
// update, without the stream link which lives in its own collection.
func (u FieldUpdate) setDocument() map[string]any {
	set := map[string]any{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Poster != nil {
		set["poster"] = *u.Poster
	}
	if u.ReleaseInfo != nil {
		set["releaseInfo"] = *u.ReleaseInfo
	}
	if u.IMDbRating != nil {
		set["imdbRating"] = *u.IMDbRating
	}
	return set
}
