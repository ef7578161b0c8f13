package api

import "github.com/bigredeye/temrin/internal/stats"

type StatsResponse struct {
	Status

	// Stats is absent when the class is empty.
	Stats *stats.ClassStats `json:"stats,omitempty"`
}
