package common

// Storage keys define the persisted state layout of the durable key-value
// store. Each key holds one serialized list (or object, for metadata).
const (
	StorageKeyRecipes           = "USER_RECIPES"
	StorageKeyBrewSessions      = "USER_BREW_SESSIONS"
	StorageKeyPendingOperations = "PENDING_OPERATIONS"
	StorageKeySyncMetadata      = "SYNC_METADATA"

	// RefCatalogKeyPrefix prefixes the per-catalog keys of the
	// reference-data cache.
	RefCatalogKeyPrefix = "REF_CATALOG_"
)

// RefCatalogKey returns the storage key for a named reference catalog.
func RefCatalogKey(name string) string {
	return RefCatalogKeyPrefix + name
}
