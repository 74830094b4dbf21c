package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileRequest_DistinguishesAbsentFromNull(t *testing.T) {
	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"headline":null,"summary":"hello"}`), &req))

	p := req.ToDomainPatch()

	// headline was an explicit null: present, clearing
	assert.True(t, p.Headline.Set)
	assert.False(t, p.Headline.Valid)

	// summary carried a value
	assert.True(t, p.Summary.Set)
	assert.True(t, p.Summary.Valid)
	assert.Equal(t, "hello", p.Summary.Value)

	// location never appeared, so it stays untouched
	assert.False(t, p.Location.Set)
	assert.False(t, p.IsEmpty())
}

func TestUpdateExperienceRequest_NullEndDate(t *testing.T) {
	var req UpdateExperienceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"endDate":null,"isCurrent":true}`), &req))

	assert.True(t, req.EndDate.Set)
	assert.False(t, req.EndDate.Valid)
	require.NotNil(t, req.IsCurrent)
	assert.True(t, *req.IsCurrent)

	var absent UpdateExperienceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"position":"Lead"}`), &absent))
	assert.False(t, absent.EndDate.Set)
}
