// Package api provides the HTTP management API for the sync service.
package api

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the version information response.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}
