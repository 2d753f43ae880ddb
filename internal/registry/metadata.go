package registry

// Name returns the collection name.
func (r *Registry) Name() string { return r.cfg.Name }

// Symbol returns the collection symbol.
func (r *Registry) Symbol() string { return r.cfg.Symbol }

// BaseURI returns the metadata base URI.
func (r *Registry) BaseURI() string { return r.cfg.BaseURI }

// MaxSupply returns the mint ceiling (0 = unlimited).
func (r *Registry) MaxSupply() uint64 { return r.cfg.MaxSupply }

// TokenURI returns the token's metadata location: base URI plus the
// ref recorded at mint. How the ref resolves is the metadata layer's
// concern; the registry only stores the handle.
func (r *Registry) TokenURI(id uint64) (string, error) {
	t, ok := r.st.tokens[id]
	if !ok {
		return "", ErrNotFound
	}
	return r.cfg.BaseURI + t.uri, nil
}
