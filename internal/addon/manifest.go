package addon

import "github.com/DavidGracias/stream-save/internal/stremio"

// Catalog ids the responder answers. The manifest advertises the combined
// catalog; the per-type ids are kept working for clients that installed an
// earlier release.
const (
	CatalogAll    = "stream_save_all"
	CatalogMovies = "stream_save_movies"
	CatalogSeries = "stream_save_series"
)

// streamTitle is the fixed display title of every saved stream.
const streamTitle = "Stream Save"

// DefaultManifest returns the static addon descriptor. It is independent of
// the tenant and never consults the store.
func DefaultManifest() stremio.Manifest {
	return stremio.Manifest{
		ID:          "org.stremio.streamsave",
		Name:        "Stream Save",
		Description: "save custom stream links and play in different devices",
		Version:     "1.0.0",

		ResourceItems: []stremio.ResourceItem{
			{
				Name: "catalog",
			},
			{
				Name:       "stream",
				Types:      []string{"movie", "series"},
				IDprefixes: []string{"tt"},
			},
		},

		Types: []string{"movie", "series", "other"},
		Catalogs: []stremio.CatalogItem{
			{
				Type: "other",
				ID:   CatalogAll,
				Name: "All Saved Content",
			},
		},

		IDprefixes: []string{"tt"},
		BehaviorHints: stremio.ManifestBehaviorHints{
			Configurable: true,
		},
	}
}
