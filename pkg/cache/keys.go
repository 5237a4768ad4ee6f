package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer produces cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey identifies a packed layout of the document with hash docHash.
	LayoutKey(docHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendering of the layout with hash layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the settings that change a packed layout.
type LayoutKeyOpts struct {
	Direction      string  `json:"direction"`
	CellWidth      float64 `json:"cell_width"`
	CellHeight     float64 `json:"cell_height"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
}

// ArtifactKeyOpts holds the settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Grid   bool   `json:"grid,omitempty"`
	Labels bool   `json:"labels,omitempty"`
}

// DefaultKeyer builds "stage:sha256(json([inputHash, opts]))" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return stageKey("layout", docHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return stageKey("artifact", layoutHash, opts)
}

func stageKey(stage, input string, opts any) string {
	data, _ := json.Marshal([]any{input, opts})
	return stage + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Documents and layouts are keyed by
// the hash of their canonical JSON.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ScopedKeyer puts a fixed prefix in front of every key of an inner Keyer.
// The server uses it to keep its entries apart from CLI entries in a shared
// backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
