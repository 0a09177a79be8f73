package server

// NewOriginChecker builds the pure predicate deciding whether a websocket
// Origin header is acceptable. An empty Origin (non-browser clients, tests)
// is always allowed; otherwise the value must appear in the configured
// allow-list, with "*" accepting everything.
func NewOriginChecker(allowed []string) func(origin string) bool {
	set := make(map[string]bool, len(allowed))
	wildcard := false
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
		}
		set[o] = true
	}
	return func(origin string) bool {
		if origin == "" || wildcard {
			return true
		}
		return set[origin]
	}
}
