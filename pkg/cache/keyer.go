package cache

// Keyer builds cache keys.
type Keyer interface {
	// TableKey addresses the table produced from an input document.
	TableKey(inputHash string, opts TableKeyOpts) string

	// ArtifactKey addresses one rendered format of a table.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
}

// TableKeyOpts lists every option that changes a transformed table.
type TableKeyOpts struct {
	Select      string            `json:"select,omitempty"`
	MaxDepth    int               `json:"max_depth"`
	EmptyArrays string            `json:"empty_arrays,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Locale   string `json:"locale,omitempty"`
	Collapse bool   `json:"collapse,omitempty"`
	Sheet    string `json:"sheet,omitempty"`
	Title    string `json:"title,omitempty"`
}

// DefaultKeyer produces "table:<hash>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TableKey hashes the input hash together with opts. Label maps are
// encoded with sorted keys, so equal maps give equal keys.
func (DefaultKeyer) TableKey(inputHash string, opts TableKeyOpts) string {
	return hashKey("table", inputHash, opts)
}

// ArtifactKey hashes the table hash together with opts.
func (DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", tableHash, opts)
}
