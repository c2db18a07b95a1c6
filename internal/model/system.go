package model

// HealthStatus describes the reachability of the configured data source.
type HealthStatus struct {
	Status   string `json:"status"`
	Source   string `json:"source"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}
