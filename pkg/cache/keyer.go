package cache

// TransformKeyOpts are the inputs besides the content hash that change a
// transform result.
type TransformKeyOpts struct {
	Fingerprint string `json:"fingerprint"`
}

// Keyer derives cache keys.
type Keyer interface {
	// TransformKey returns the key of a transformed icon.
	TransformKey(contentHash string, opts TransformKeyOpts) string
}

// DefaultKeyer builds namespaced, hashed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TransformKey implements Keyer.
func (DefaultKeyer) TransformKey(contentHash string, opts TransformKeyOpts) string {
	return hashKey("transform", contentHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
