package monitor

import "time"

// Status is the last observed state of every backing service. Components that
// are not configured report false and are listed in Disabled.
type Status struct {
	Online     bool      `json:"online"`
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	NATS       bool      `json:"nats"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	Disabled   []string  `json:"disabled,omitempty"`
	LastCheck  time.Time `json:"last_check"`
}
