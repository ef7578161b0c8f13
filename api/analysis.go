package api

import "github.com/bigredeye/temrin/internal/analysis"

type AnalyzeRequest struct {
	// Fresh skips the cached result for unchanged class data.
	Fresh bool `json:"fresh" form:"fresh"`
}

type AnalysisResponse struct {
	Status

	Analysis *analysis.Analysis `json:"analysis,omitempty"`
}
