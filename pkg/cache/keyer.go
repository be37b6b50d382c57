package cache

// LayoutKeyOpts are the options that change where a layout settles.
type LayoutKeyOpts struct {
	Preset         string  `json:"preset"`
	MinConnections int     `json:"min_connections"`
	ChargeStrength float64 `json:"charge_strength"`
	LinkDistance   float64 `json:"link_distance"`
	LinkStrength   float64 `json:"link_strength"`
	SizeMultiplier float64 `json:"size_multiplier"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>" over the graph hash and opts.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ScopedKeyer prefixes every key, so several datasets or tenants can share
// one Redis or Mongo backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey returns the inner key with the scope prefix.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
