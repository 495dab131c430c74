package metadata

// --- SQLite Keys ---
// These keys are used for the 'key' column in the 'metadata' SQLite table.
const (
	// SchemaVersionKey stores the save-table schema version that was last migrated,
	// so that incompatible snapshots can be detected after an upgrade.
	SchemaVersionKey = "schema_version"

	// LastCacheRebuildKey stores the unix timestamp of the last successful
	// leaderboard cache rebuild.
	LastCacheRebuildKey = "last_cache_rebuild"
)

// --- Redis Keys ---
// These keys are used for storing metadata in Redis.
const (
	// RedisCacheEpochKey is a Redis String holding the epoch of the current
	// leaderboard cache. It is bumped on every full rebuild.
	RedisCacheEpochKey = "meta:cache_epoch"
)
