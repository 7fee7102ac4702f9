package auth

// Registry is the process-wide, read-only set of valid API keys. It is
// built once at startup and never mutated afterwards, so lookups need no
// locking.
type Registry struct {
	keys map[string]struct{}
}

// NewRegistry builds a registry from the configured key list.
func NewRegistry(keys []string) *Registry {
	r := &Registry{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k != "" {
			r.keys[k] = struct{}{}
		}
	}
	return r
}

// Validate reports whether the presented key is registered. The match is
// exact; an absent or empty key is simply invalid.
func (r *Registry) Validate(presented string) bool {
	if presented == "" {
		return false
	}
	_, ok := r.keys[presented]
	return ok
}

// Len reports how many keys are registered.
func (r *Registry) Len() int {
	return len(r.keys)
}
