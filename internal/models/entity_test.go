package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRecipeUpdate_ApplyTo_MergesOnlySetFields(t *testing.T) {
	r := Recipe{Name: "IPA", Style: "American IPA", BatchSizeL: 20, Notes: "dry hop day 3"}

	got := RecipeUpdate{Name: ptr("Double IPA"), BatchSizeL: ptr(25.0)}.ApplyTo(r)

	require.Equal(t, "Double IPA", got.Name)
	require.Equal(t, 25.0, got.BatchSizeL)
	require.Equal(t, "American IPA", got.Style)
	require.Equal(t, "dry hop day 3", got.Notes)
}

func TestBrewSessionUpdate_ApplyTo(t *testing.T) {
	s := BrewSession{Status: SessionStatusPlanned, OriginalGravity: 1.062}

	got := BrewSessionUpdate{
		Status:       ptr(SessionStatusFermenting),
		FinalGravity: ptr(1.012),
	}.ApplyTo(s)

	require.Equal(t, SessionStatusFermenting, got.Status)
	require.Equal(t, 1.012, got.FinalGravity)
	require.Equal(t, 1.062, got.OriginalGravity)
}

func TestRecipe_StampNewAndTouch(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := NewTempID()

	r := Recipe{Name: "Stout"}.StampNew(id, "u1", now)
	require.Equal(t, id, r.ID)
	require.Equal(t, "u1", r.UserID)
	require.Equal(t, now, r.CreatedAt)
	require.Equal(t, now, r.UpdatedAt)

	later := now.Add(time.Hour)
	require.Equal(t, later, r.Touch(later).UpdatedAt)
}

func TestBrewSession_RewriteRefs(t *testing.T) {
	old := NewTempID()
	real := PermanentID("r-42")

	s := BrewSession{RecipeID: old}
	got, changed := s.RewriteRefs(old, real)
	require.True(t, changed)
	require.Equal(t, real, got.RecipeID)

	// unrelated reference untouched
	other := BrewSession{RecipeID: PermanentID("r-7")}
	got, changed = other.RewriteRefs(old, real)
	require.False(t, changed)
	require.Equal(t, PermanentID("r-7"), got.RecipeID)
}

func TestEnvelope_MatchesByIDOrTempID(t *testing.T) {
	temp := NewTempID()
	now := time.Now()
	env := NewEnvelope(Recipe{}.StampNew(temp, "u1", now), now)

	require.True(t, env.Matches(temp))
	require.Equal(t, SyncStatusPending, env.SyncStatus)
	require.True(t, env.NeedsSync)

	// the temp id keeps matching while it is still set
	env.ID = PermanentID("r-42")
	require.True(t, env.Matches(temp))
	require.True(t, env.Matches(PermanentID("r-42")))
	require.False(t, env.Matches(PermanentID("r-7")))

	// cleared temp id no longer matches anything
	env.TempID = EntityID{}
	require.False(t, env.Matches(temp))
}
