package domain

import "time"

// ImportStatus records the outcome of the last completed dataset import.
type ImportStatus struct {
	RunID      string          `json:"run_id"`
	Source     string          `json:"source"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Entities   map[string]int  `json:"entities"`
	Relations  int             `json:"relations"`
	BackRefs   int             `json:"back_references"`
	Unmapped   []UnmappedField `json:"unmapped,omitempty"`
}

// UnmappedField is a shape field that had no source value during an import.
type UnmappedField struct {
	Shape string `json:"shape"`
	Field string `json:"field"`
}

// Duration returns how long the import ran.
func (s ImportStatus) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
