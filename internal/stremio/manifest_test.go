package stremio_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DavidGracias/stream-save/internal/stremio"
)

func TestManifestClone(t *testing.T) {
	// Test empty struct to make sure empty slices are nil and not slices with 0 elements.
	m := stremio.Manifest{}
	require.Equal(t, m, m.Clone())

	// Fill every field to ensure initial equality after the clone.
	m = stremio.Manifest{
		ID:          "org.stremio.streamsave",
		Name:        "Stream Save",
		Description: "save custom stream links and play in different devices",
		Version:     "1.0.0",

		ResourceItems: []stremio.ResourceItem{
			{
				Name:  "stream",
				Types: []string{"movie"},

				IDprefixes: []string{"tt"},
			},
		},

		Types: []string{"movie"},
		Catalogs: []stremio.CatalogItem{
			{
				Type: "other",
				ID:   "stream_save_all",
				Name: "All Saved Content",
			},
		},

		IDprefixes: []string{"tt"},
		BehaviorHints: stremio.ManifestBehaviorHints{
			Configurable: true,
		},
	}
	require.Equal(t, m, m.Clone())

	// Each scenario alters a single non-simple field of a clone; the
	// original must stay untouched.
	tests := []struct {
		name string
		f    func(m *stremio.Manifest)
	}{
		{
			name: "ResourceItems.Name",
			f:    func(m *stremio.Manifest) { m.ResourceItems[0].Name = "changed" },
		},
		{
			name: "ResourceItems.Types",
			f:    func(m *stremio.Manifest) { m.ResourceItems[0].Types[0] = "changed" },
		},
		{
			name: "ResourceItems.IDprefixes",
			f:    func(m *stremio.Manifest) { m.ResourceItems[0].IDprefixes[0] = "changed" },
		},
		{
			name: "Types",
			f:    func(m *stremio.Manifest) { m.Types[0] = "changed" },
		},
		{
			name: "Catalogs.ID",
			f:    func(m *stremio.Manifest) { m.Catalogs[0].ID = "changed" },
		},
		{
			name: "IDprefixes",
			f:    func(m *stremio.Manifest) { m.IDprefixes[0] = "changed" },
		},
		{
			name: "BehaviorHints",
			f:    func(m *stremio.Manifest) { m.BehaviorHints.Configurable = false },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m2 := m.Clone()
			test.f(&m2)
			require.NotEqual(t, m, m2)
		})
	}
}

// The empty responses Stremio expects serialize with empty arrays, not null.
func TestEmptyResponsesSerializeAsArrays(t *testing.T) {
	catalogJSON, err := json.Marshal(stremio.CatalogResponse{Metas: []stremio.MetaPreviewItem{}})
	require.NoError(t, err)
	require.JSONEq(t, `{"metas":[]}`, string(catalogJSON))

	streamJSON, err := json.Marshal(stremio.StreamResponse{Streams: []stremio.StreamItem{}})
	require.NoError(t, err)
	require.JSONEq(t, `{"streams":[]}`, string(streamJSON))
}
