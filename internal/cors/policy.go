// Package cors decides which browser origins may call the API.
package cors

// DefaultOrigins is the allow-list used when none is configured.
var DefaultOrigins = []string{
	"http://localhost:8080",
	"http://localhost:1234",
	"https://movies.com",
	"https://midu.dev",
}

// Reasons reported alongside a decision.
const (
	ReasonNoOrigin    = "no origin"
	ReasonAllowListed = "allow-listed"
	ReasonDenied      = "origin not allowed"
)

// Policy is a fixed allow-list of origins. It is safe for concurrent use.
type Policy struct {
	allowed map[string]struct{}
}

// New returns a Policy that allows exactly the given origins.
func New(origins ...string) *Policy {
	p := &Policy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		p.allowed[o] = struct{}{}
	}
	return p
}

// Allow reports whether a request declaring origin may proceed, and why.
// An empty origin means the caller is not a browser and is always allowed;
// otherwise the origin must match an allow-list entry exactly.
func (p *Policy) Allow(origin string) (bool, string) {
	if origin == "" {
		return true, ReasonNoOrigin
	}
	if _, ok := p.allowed[origin]; ok {
		return true, ReasonAllowListed
	}
	return false, ReasonDenied
}
