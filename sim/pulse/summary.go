package pulse

// Summary aggregates statistics from a Registry.
type Summary struct {
	Total       int            `json:"total"`
	Sources     int            `json:"sources"`
	Completions int            `json:"completions"`
	ByPolicy    map[string]int `json:"by_policy"` // policy → completion pulses
	ByColor     map[string]int `json:"by_color"`
	LastAt      int64          `json:"last_at"`
}

// Summarize computes aggregate statistics from a Registry.
// Safe for nil or empty registries (returns zero-value fields).
func Summarize(r *Registry) *Summary {
	summary := &Summary{
		ByPolicy: make(map[string]int),
		ByColor:  make(map[string]int),
	}
	if r == nil {
		return summary
	}

	for rec := range r.All() {
		summary.Total++
		summary.ByColor[rec.Color]++
		switch rec.Kind {
		case KindSource:
			summary.Sources++
		case KindCompletion:
			summary.Completions++
			summary.ByPolicy[rec.Policy]++
		}
		if rec.CreatedAt > summary.LastAt {
			summary.LastAt = rec.CreatedAt
		}
	}
	return summary
}
