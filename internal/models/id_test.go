package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTempID_HasPrefixAndIsTemp(t *testing.T) {
	id := NewTempID()
	require.True(t, id.IsTemp())
	require.False(t, id.IsZero())
	require.True(t, strings.HasPrefix(id.String(), TempIDPrefix))
}

func TestNewTempID_Unique(t *testing.T) {
	require.NotEqual(t, NewTempID(), NewTempID())
}

func TestPermanentID_NotTemp(t *testing.T) {
	id := PermanentID("r-42")
	require.False(t, id.IsTemp())
	require.Equal(t, "r-42", id.String())
}

func TestParseEntityID_ClassifiesByPrefix(t *testing.T) {
	require.True(t, ParseEntityID("temp_abc").IsTemp())
	require.False(t, ParseEntityID("r-42").IsTemp())
	require.True(t, ParseEntityID("").IsZero())
}

func TestEntityID_JSONRoundTrip(t *testing.T) {
	type doc struct {
		ID EntityID `json:"id"`
	}

	orig := doc{ID: NewTempID()}
	b, err := json.Marshal(orig)
	require.NoError(t, err)

	var got doc
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, orig.ID, got.ID)
	require.True(t, got.ID.IsTemp())
}

func TestEntityID_ZeroMarshalsEmpty(t *testing.T) {
	b, err := json.Marshal(EntityID{})
	require.NoError(t, err)
	require.Equal(t, `""`, string(b))
}
