package usecase

// FallbackLeadStore is the degraded-mode sink for public lead capture.
type FallbackLeadStore interface {
	UpsertLead(rec map[string]any) (map[string]any, error)
}
