package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No session needed
	SecuritySession                      // X-User-ID must name a known user
)

// EndpointSecurityConfig maps "METHOD path-template" to the level a route
// requires. Routes not listed default to SecuritySession.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /healthz": SecurityPublic,

	// Catalog browsing is open
	"GET /api/v1/equipment":      SecurityPublic,
	"GET /api/v1/equipment/{id}": SecurityPublic,
	"GET /api/v1/images/{key}":   SecurityPublic,

	// Everything that acts on behalf of a user
	"GET /api/v1/equipment/mine":          SecuritySession,
	"POST /api/v1/equipment":              SecuritySession,
	"PUT /api/v1/equipment/{id}":          SecuritySession,
	"DELETE /api/v1/equipment/{id}":       SecuritySession,
	"POST /api/v1/equipment/{id}/rentals": SecuritySession,
	"GET /api/v1/rentals":                 SecuritySession,
	"GET /api/v1/rentals/{id}":            SecuritySession,
	"POST /api/v1/rentals/{id}/decision":  SecuritySession,
	"POST /api/v1/images":                 SecuritySession,
}

// RouteSecurity returns the level for a route, defaulting to SecuritySession.
func RouteSecurity(method, pathTemplate string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[method+" "+pathTemplate]; ok {
		return level
	}
	return SecuritySession
}
