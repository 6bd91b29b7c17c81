package types

import "time"

// ComponentsResponse wraps the list of component names returned by GET /components.
type ComponentsResponse struct {
	// Sorted component (crate/library) names known to the index.
	// example: ["mistralrs_core","mistralrs_lora"]
	Components []string `json:"components"`
}

// ImplementorsResponse is the payload of GET /implementors/{component}.
type ImplementorsResponse struct {
	// Component the entries belong to.
	// example: mistralrs_core
	Component string `json:"component" example:"mistralrs_core"`
	// Ordered implementor entries for the component.
	Implementors []ImplementorEntry `json:"implementors"`
}

// PublishResponse acknowledges a POST /implementors publish.
type PublishResponse struct {
	// Number of components in the accepted map.
	// example: 2
	Components int `json:"components" example:"2"`
	// Total entries across all components in the accepted map.
	// example: 17
	Entries int `json:"entries" example:"17"`
	// Whether the map was handed to the registrar directly ("direct")
	// or parked in the pending slot ("deferred").
	// example: direct
	Mode string `json:"mode" example:"direct"`
}

// StatusResponse summarizes index state for GET /status.
type StatusResponse struct {
	// Number of components currently in the index.
	// example: 4
	Components int `json:"components" example:"4"`
	// Total implementor entries across all components.
	// example: 132
	Entries int `json:"entries" example:"132"`
	// Number of registrations consumed since startup (snapshot restore excluded).
	// example: 4
	Registrations int `json:"registrations" example:"4"`
	// Time of the last consumed registration; zero when none yet.
	LastRegistered time.Time `json:"last_registered,omitempty"`
	// Snapshot file path when persistence is enabled.
	// example: /var/lib/implidx/index.json
	SnapshotPath string `json:"snapshot_path,omitempty" example:"/var/lib/implidx/index.json"`
	// Whether the index is ready to serve queries.
	// example: true
	Ready bool `json:"ready" example:"true"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: component not found: unknown_crate
	Error string `json:"error" example:"component not found: unknown_crate"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
