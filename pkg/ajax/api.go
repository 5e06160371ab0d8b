package ajax

import "time"

// StatusResponse is returned by GET /api/v1/status.
type StatusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	BusRunning  bool      `json:"bus_running"`
	StartedAt   time.Time `json:"started_at"`
	ScriptCount int       `json:"script_count"`
}

// ScriptInfo is one entry in the GET /api/v1/actions response.
type ScriptInfo struct {
	Name       string    `json:"name"`
	FilePath   string    `json:"file_path"`
	Actions    []string  `json:"actions"`
	LoadedAt   time.Time `json:"loaded_at"`
	Dispatches int64     `json:"dispatches"`
	Errors     int64     `json:"errors"`
}

// ScriptsResponse is returned by GET /api/v1/actions.
type ScriptsResponse struct {
	Scripts []ScriptInfo `json:"scripts"`
}
