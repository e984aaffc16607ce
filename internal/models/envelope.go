package models

import "time"

// SyncStatus tracks an envelope's position in the sync lifecycle.
type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusPending SyncStatus = "pending"
	SyncStatusError   SyncStatus = "error"
)

// Envelope wraps a cached entity with its sync metadata. Exactly one
// envelope exists per logical entity per collection. A soft-deleted envelope
// (IsDeleted set) is a tombstone: invisible to read APIs, retained in
// storage until the server acknowledges the delete.
type Envelope[T Entity[T]] struct {
	ID           EntityID   `json:"id"`
	Data         T          `json:"data"`
	LastModified time.Time  `json:"last_modified"`
	SyncStatus   SyncStatus `json:"sync_status"`
	NeedsSync    bool       `json:"needs_sync"`
	TempID       EntityID   `json:"temp_id"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// NewEnvelope wraps a freshly created entity. The entity's id doubles as the
// temp id until the server acknowledges the create.
func NewEnvelope[T Entity[T]](data T, now time.Time) Envelope[T] {
	return Envelope[T]{
		ID:           data.EntityID(),
		Data:         data,
		LastModified: now,
		SyncStatus:   SyncStatusPending,
		NeedsSync:    true,
		TempID:       data.EntityID(),
	}
}

// Matches reports whether the envelope answers to the given identifier,
// either by its current id or by its not-yet-remapped temp id. Callers
// holding a temp id keep working until the remap clears it.
func (e Envelope[T]) Matches(id EntityID) bool {
	return e.ID == id || (!e.TempID.IsZero() && e.TempID == id)
}

// MarkPending flags the envelope as locally modified and awaiting sync.
func (e *Envelope[T]) MarkPending(now time.Time) {
	e.SyncStatus = SyncStatusPending
	e.NeedsSync = true
	e.LastModified = now
}

// MarkSynced flags the envelope as acknowledged by the server.
func (e *Envelope[T]) MarkSynced() {
	e.SyncStatus = SyncStatusSynced
	e.NeedsSync = false
}
