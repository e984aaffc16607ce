package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewOperation_EncodesPayload(t *testing.T) {
	now := time.Now()
	id := NewTempID()

	op, err := NewOperation(OperationCreate, EntityTypeRecipe, id, "u1", Recipe{ID: id, Name: "IPA"}, now)
	require.NoError(t, err)

	require.NotEmpty(t, op.ID)
	require.Equal(t, OperationCreate, op.Type)
	require.Equal(t, id, op.EntityID)
	require.Equal(t, DefaultMaxRetries, op.MaxRetries)
	require.Zero(t, op.RetryCount)

	var r Recipe
	require.NoError(t, json.Unmarshal(op.Data, &r))
	require.Equal(t, "IPA", r.Name)
}

func TestNewOperation_NilPayload(t *testing.T) {
	op, err := NewOperation(OperationDelete, EntityTypeRecipe, PermanentID("r-1"), "u1", nil, time.Now())
	require.NoError(t, err)
	require.Empty(t, op.Data)
}

func TestOperationRewriteRefs_RecipeCreate(t *testing.T) {
	temp := NewTempID()
	real := PermanentID("r-42")

	op, err := NewOperation(OperationCreate, EntityTypeRecipe, temp, "u1", Recipe{ID: temp, Name: "IPA"}, time.Now())
	require.NoError(t, err)

	got, changed, err := op.RewriteRefs(temp, real)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, real, got.EntityID)

	var r Recipe
	require.NoError(t, json.Unmarshal(got.Data, &r))
	require.Equal(t, real, r.ID)
}

func TestOperationRewriteRefs_SessionCreateForeignKey(t *testing.T) {
	tempRecipe := NewTempID()
	real := PermanentID("r-42")
	sessionID := NewTempID()

	op, err := NewOperation(OperationCreate, EntityTypeBrewSession, sessionID, "u1",
		BrewSession{ID: sessionID, RecipeID: tempRecipe}, time.Now())
	require.NoError(t, err)

	got, changed, err := op.RewriteRefs(tempRecipe, real)
	require.NoError(t, err)
	require.True(t, changed)

	// the session's own id is untouched, only the recipe reference moves
	require.Equal(t, sessionID, got.EntityID)
	var s BrewSession
	require.NoError(t, json.Unmarshal(got.Data, &s))
	require.Equal(t, sessionID, s.ID)
	require.Equal(t, real, s.RecipeID)
}

func TestOperationRewriteRefs_SessionUpdatePayload(t *testing.T) {
	tempRecipe := NewTempID()
	real := PermanentID("r-42")

	op, err := NewOperation(OperationUpdate, EntityTypeBrewSession, PermanentID("s-1"), "u1",
		BrewSessionUpdate{RecipeID: &tempRecipe}, time.Now())
	require.NoError(t, err)

	got, changed, err := op.RewriteRefs(tempRecipe, real)
	require.NoError(t, err)
	require.True(t, changed)

	var u BrewSessionUpdate
	require.NoError(t, json.Unmarshal(got.Data, &u))
	require.NotNil(t, u.RecipeID)
	require.Equal(t, real, *u.RecipeID)
}

func TestOperationRewriteRefs_NoMatch(t *testing.T) {
	op, err := NewOperation(OperationUpdate, EntityTypeRecipe, PermanentID("r-1"), "u1",
		RecipeUpdate{Name: ptr("Stout")}, time.Now())
	require.NoError(t, err)

	got, changed, err := op.RewriteRefs(NewTempID(), PermanentID("r-42"))
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, op, got)
}

func TestOperationRewriteRefs_CorruptPayload(t *testing.T) {
	temp := NewTempID()
	op := PendingOperation{
		Type:       OperationCreate,
		EntityType: EntityTypeRecipe,
		EntityID:   temp,
		Data:       json.RawMessage(`{not json`),
	}

	got, changed, err := op.RewriteRefs(temp, PermanentID("r-42"))
	require.Error(t, err)
	// the entity id rewrite still happened before the payload failed
	require.True(t, changed)
	require.Equal(t, PermanentID("r-42"), got.EntityID)
}
