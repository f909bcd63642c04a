package reconcile

// Config holds configuration for reconciliation passes.
type Config struct {
	// AccountID is the ads account whose queue and snapshots are reconciled.
	AccountID string `mapstructure:"account_id" default:""`
	// SnapshotCacheTTLSeconds keeps loaded snapshots between passes. Zero disables it.
	SnapshotCacheTTLSeconds int `mapstructure:"snapshot_cache_ttl_seconds" default:"0" validate:"gte=0"`
	// PageSize bounds the ids per lookup of the current state resolver.
	PageSize int `mapstructure:"page_size" default:"1000" validate:"gte=0"`
}
