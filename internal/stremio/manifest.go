// Package stremio contains the wire types of the Stremio addon protocol
// that Stream Save serves.
// See https://github.com/Stremio/stremio-addon-sdk/tree/master/docs/api/responses
package stremio

// Manifest describes the capabilities of the addon.
type Manifest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`

	ResourceItems []ResourceItem `json:"resources,omitempty"`

	Types    []string      `json:"types"` // Stremio supports "movie", "series", "channel" and "tv"
	Catalogs []CatalogItem `json:"catalogs"`

	// Optional
	IDprefixes    []string              `json:"idPrefixes,omitempty"`
	BehaviorHints ManifestBehaviorHints `json:"behaviorHints,omitempty"`
}

// Clone returns a deep copy of m.
func (m Manifest) Clone() Manifest {
	var resourceItems []ResourceItem
	if m.ResourceItems != nil {
		resourceItems = make([]ResourceItem, len(m.ResourceItems))
		for i, resourceItem := range m.ResourceItems {
			resourceItems[i] = resourceItem.Clone()
		}
	}

	var types []string
	if m.Types != nil {
		types = make([]string, len(m.Types))
		copy(types, m.Types)
	}

	var catalogs []CatalogItem
	if m.Catalogs != nil {
		catalogs = make([]CatalogItem, len(m.Catalogs))
		copy(catalogs, m.Catalogs)
	}

	var idPrefixes []string
	if m.IDprefixes != nil {
		idPrefixes = make([]string, len(m.IDprefixes))
		copy(idPrefixes, m.IDprefixes)
	}

	return Manifest{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Version:     m.Version,

		ResourceItems: resourceItems,

		Types:    types,
		Catalogs: catalogs,

		IDprefixes:    idPrefixes,
		BehaviorHints: m.BehaviorHints,
	}
}

type ManifestBehaviorHints struct {
	// Note: Must include `omitempty`, otherwise it will be included if this struct is used in another one, even if the field of the containing struct is marked as `omitempty`
	Adult        bool `json:"adult,omitempty"`
	P2P          bool `json:"p2p,omitempty"`
	Configurable bool `json:"configurable,omitempty"`
}

type ResourceItem struct {
	Name  string   `json:"name"`
	Types []string `json:"types,omitempty"`

	// Optional
	IDprefixes []string `json:"idPrefixes,omitempty"`
}

func (ri ResourceItem) Clone() ResourceItem {
	var types []string
	if ri.Types != nil {
		types = make([]string, len(ri.Types))
		copy(types, ri.Types)
	}

	var idPrefixes []string
	if ri.IDprefixes != nil {
		idPrefixes = make([]string, len(ri.IDprefixes))
		copy(idPrefixes, ri.IDprefixes)
	}

	return ResourceItem{
		Name:  ri.Name,
		Types: types,

		IDprefixes: idPrefixes,
	}
}

// CatalogItem represents one catalog offered by the addon.
type CatalogItem struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}
