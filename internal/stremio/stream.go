package stremio

// StreamItem represents one playable stream for a meta item.
// See https://github.com/Stremio/stremio-addon-sdk/blob/master/docs/api/responses/stream.md
type StreamItem struct {
	// One of the following is required
	URL       string `json:"url,omitempty"` // URL, can also be a magnet link
	YoutubeID string `json:"ytId,omitempty"`

	// Optional
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
}

// StreamResponse is the body of a stream request.
// An empty Streams slice means "no streams known", not an error.
type StreamResponse struct {
	Streams []StreamItem `json:"streams"`
}
