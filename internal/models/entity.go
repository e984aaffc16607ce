// Package models defines the syncable domain entities, their storage
// envelopes, and the pending-operation records replayed by the sync engine.
package models

import "time"

// EntityType classifies an entity kind.
type EntityType string

const (
	EntityTypeRecipe      EntityType = "recipe"
	EntityTypeBrewSession EntityType = "brew_session"
)

// Entity is the constraint satisfied by every syncable payload. Methods are
// value receivers returning modified copies, so envelopes can be rewritten
// without aliasing surprises.
type Entity[T any] interface {
	// Kind names the entity type for queue records and remote routing.
	Kind() EntityType

	// EntityID returns the entity's current identifier (temp or permanent).
	EntityID() EntityID

	// WithID returns a copy carrying the given identifier.
	WithID(id EntityID) T

	// Owner returns the owning user id.
	Owner() string

	// ModifiedAt returns the domain-level modification time, used for list
	// ordering ahead of the envelope clock.
	ModifiedAt() time.Time

	// StampNew returns a copy prepared for local creation: identifier,
	// owner, and both timestamps set.
	StampNew(id EntityID, userID string, now time.Time) T

	// Touch returns a copy with the modification time bumped.
	Touch(now time.Time) T

	// RewriteRefs returns a copy with every foreign-key reference equal to
	// old replaced, and reports whether anything changed.
	RewriteRefs(old, replacement EntityID) (T, bool)
}

// Update is the constraint for typed partial updates.
type Update[T any] interface {
	// ApplyTo merges the set fields into the entity and returns the result.
	ApplyTo(entity T) T
}

// Ingredient is one line of a recipe's grain/hop/yeast bill.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Recipe is a user-owned brewing recipe.
type Recipe struct {
	ID          EntityID     `json:"id"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	Style       string       `json:"style"`
	BatchSizeL  float64      `json:"batch_size_l"`
	Notes       string       `json:"notes,omitempty"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (r Recipe) Kind() EntityType      { return EntityTypeRecipe }
func (r Recipe) EntityID() EntityID    { return r.ID }
func (r Recipe) Owner() string         { return r.UserID }
func (r Recipe) ModifiedAt() time.Time { return r.UpdatedAt }

func (r Recipe) WithID(id EntityID) Recipe {
	r.ID = id
	return r
}

func (r Recipe) StampNew(id EntityID, userID string, now time.Time) Recipe {
	r.ID = id
	r.UserID = userID
	r.CreatedAt = now
	r.UpdatedAt = now
	return r
}

func (r Recipe) Touch(now time.Time) Recipe {
	r.UpdatedAt = now
	return r
}

// RewriteRefs is a no-op: recipes reference no other entities.
func (r Recipe) RewriteRefs(EntityID, EntityID) (Recipe, bool) {
	return r, false
}

// Session status values. Free-form strings beyond these are accepted.
const (
	SessionStatusPlanned    = "planned"
	SessionStatusFermenting = "fermenting"
	SessionStatusCompleted  = "completed"
)

// BrewSession records one brew day of a recipe, including measured gravities.
// RecipeID may hold a temporary identifier while the referenced recipe has
// not been synced yet; the remapper rewrites it before the session itself is
// sent to the server.
type BrewSession struct {
	ID              EntityID  `json:"id"`
	UserID          string    `json:"user_id"`
	RecipeID        EntityID  `json:"recipe_id"`
	BrewDate        time.Time `json:"brew_date"`
	Status          string    `json:"status"`
	OriginalGravity float64   `json:"original_gravity,omitempty"`
	FinalGravity    float64   `json:"final_gravity,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s BrewSession) Kind() EntityType      { return EntityTypeBrewSession }
func (s BrewSession) EntityID() EntityID    { return s.ID }
func (s BrewSession) Owner() string         { return s.UserID }
func (s BrewSession) ModifiedAt() time.Time { return s.UpdatedAt }

func (s BrewSession) WithID(id EntityID) BrewSession {
	s.ID = id
	return s
}

func (s BrewSession) StampNew(id EntityID, userID string, now time.Time) BrewSession {
	s.ID = id
	s.UserID = userID
	s.CreatedAt = now
	s.UpdatedAt = now
	return s
}

func (s BrewSession) Touch(now time.Time) BrewSession {
	s.UpdatedAt = now
	return s
}

func (s BrewSession) RewriteRefs(old, replacement EntityID) (BrewSession, bool) {
	if s.RecipeID == old {
		s.RecipeID = replacement
		return s, true
	}
	return s, false
}

// RecipeUpdate carries the fields of a partial recipe edit. Nil means
// "leave unchanged".
type RecipeUpdate struct {
	Name        *string       `json:"name,omitempty"`
	Style       *string       `json:"style,omitempty"`
	BatchSizeL  *float64      `json:"batch_size_l,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
	Ingredients *[]Ingredient `json:"ingredients,omitempty"`
}

func (u RecipeUpdate) ApplyTo(r Recipe) Recipe {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Style != nil {
		r.Style = *u.Style
	}
	if u.BatchSizeL != nil {
		r.BatchSizeL = *u.BatchSizeL
	}
	if u.Notes != nil {
		r.Notes = *u.Notes
	}
	if u.Ingredients != nil {
		r.Ingredients = *u.Ingredients
	}
	return r
}

// BrewSessionUpdate carries the fields of a partial session edit.
type BrewSessionUpdate struct {
	RecipeID        *EntityID  `json:"recipe_id,omitempty"`
	BrewDate        *time.Time `json:"brew_date,omitempty"`
	Status          *string    `json:"status,omitempty"`
	OriginalGravity *float64   `json:"original_gravity,omitempty"`
	FinalGravity    *float64   `json:"final_gravity,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func (u BrewSessionUpdate) ApplyTo(s BrewSession) BrewSession {
	if u.RecipeID != nil {
		s.RecipeID = *u.RecipeID
	}
	if u.BrewDate != nil {
		s.BrewDate = *u.BrewDate
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.OriginalGravity != nil {
		s.OriginalGravity = *u.OriginalGravity
	}
	if u.FinalGravity != nil {
		s.FinalGravity = *u.FinalGravity
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	return s
}
