package models

// SyncResult aggregates the outcome of one sync pass. Conflicts is a
// reserved extension point and is always zero for now.
type SyncResult struct {
	Success   bool     `json:"success"`
	Processed uint     `json:"processed"`
	Failed    uint     `json:"failed"`
	Conflicts uint     `json:"conflicts"`
	Errors    []string `json:"errors,omitempty"`
}
