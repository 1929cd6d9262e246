package stremio

// MetaPreviewItem is one entry of a catalog response.
// See https://github.com/Stremio/stremio-addon-sdk/blob/master/docs/api/responses/meta.md#meta-preview-object
type MetaPreviewItem struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Poster string `json:"poster"` // URL

	// Optional, used for the "Discover" page sidebar
	IMDbRating  string `json:"imdbRating,omitempty"`
	ReleaseInfo string `json:"releaseInfo,omitempty"` // E.g. "2000" for movies and "2000-2014" or "2000-" for TV shows
	Description string `json:"description,omitempty"`
}

// CatalogResponse is the body of a catalog request.
// Stremio treats an empty Metas slice as a normal, empty catalog.
type CatalogResponse struct {
	Metas []MetaPreviewItem `json:"metas"`
}
