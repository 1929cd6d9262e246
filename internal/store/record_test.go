package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		doc      catalogDoc
		expected ContentRecord
	}{
		{
			name: "full document",
			doc: catalogDoc{
				Key:         "tt0468569",
				ID:          "tt0468569",
				Type:        "movie",
				Name:        "The Dark Knight",
				Description: strPtr("Batman raises the stakes."),
				Poster:      "https://img/p.jpg",
				ReleaseInfo: "2008",
				IMDbRating:  strPtr("9.0"),
			},
			expected: ContentRecord{
				ID:          "tt0468569",
				Type:        "movie",
				Name:        "The Dark Knight",
				Description: strPtr("Batman raises the stakes."),
				Poster:      "https://img/p.jpg",
				ReleaseInfo: "2008",
				IMDbRating:  strPtr("9.0"),
			},
		},
		{
			name: "legacy document without _id mirror",
			doc: catalogDoc{
				ID:   "tt1254207",
				Name: "Big Buck Bunny",
			},
			expected: ContentRecord{
				ID:   "tt1254207",
				Type: "movie",
				Name: "Big Buck Bunny",
			},
		},
		{
			name: "empty enrichment stays empty",
			doc: catalogDoc{
				Key:  "tt0000001",
				Name: "tt0000001",
			},
			expected: ContentRecord{
				ID:   "tt0000001",
				Type: "movie",
				Name: "tt0000001",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, normalize(test.doc, TypeMovie))
		})
	}
}

func TestSetDocumentOnlyIncludesPresentFields(t *testing.T) {
	update := FieldUpdate{
		Name:   strPtr("New Name"),
		Poster: strPtr(""),
		Stream: strPtr("magnet:?xt=urn:btih:ABC"),
	}
	set := update.setDocument()
	require.Equal(t, map[string]any{
		"name":   "New Name",
		"poster": "",
	}, set)

	require.Empty(t, FieldUpdate{}.setDocument())
	// The stream link lives in its own collection and never ends up in $set.
	require.Empty(t, FieldUpdate{Stream: strPtr("x")}.setDocument())
}

func TestValidType(t *testing.T) {
	require.True(t, ValidType(TypeMovie))
	require.True(t, ValidType(TypeSeries))
	require.False(t, ValidType("other"))
	require.False(t, ValidType(""))
	require.False(t, ValidType("Movie"))
}
