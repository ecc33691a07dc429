package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// keyVersion is part of every derived key. Bump it whenever solver or
// renderer output changes for the same inputs.
const keyVersion = 1

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// LayoutKey identifies a document solved at one container size.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// HintsKey identifies the size hints of a document under a constraint.
	HintsKey(docHash string, opts HintsKeyOpts) string

	// ArtifactKey identifies one rendered format of a solved layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the inputs besides the document that change a layout.
type LayoutKeyOpts struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Direction string  `json:"direction,omitempty"`
}

// HintsKeyOpts holds the constraint a hint query was made under.
type HintsKeyOpts struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ArtifactKeyOpts holds the renderer settings of an artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Scale   float64 `json:"scale,omitempty"`
	Grid    bool    `json:"grid,omitempty"`
	Cells   bool    `json:"cells,omitempty"`
	Columns int     `json:"columns,omitempty"`
	Rows    int     `json:"rows,omitempty"`
}

// DefaultKeyer hashes the options into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the keyer used when none is configured.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// HintsKey returns "hints:<sha256>".
func (DefaultKeyer) HintsKey(docHash string, opts HintsKeyOpts) string {
	return hashKey("hints", docHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// hashKey returns kind:hex(sha256(kind, version, parts)).
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	h.Write([]byte(kind + "/v" + strconv.Itoa(keyVersion) + "\n"))
	_ = json.NewEncoder(h).Encode(parts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. Documents and layouts are keyed by
// the hash of their canonical JSON.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
