package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONOmitsUnsetTimes(t *testing.T) {
	u := User{ID: "u1", Email: "u1@example.com", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "premiumExpiry")
	assert.NotContains(t, fields, "lastLogin")
	assert.NotContains(t, fields, "updatedAt")
	assert.Equal(t, "2025-03-01T00:00:00Z", fields["createdAt"])
}

func TestUser_JSONKeepsSetTimes(t *testing.T) {
	login := time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC)
	raw, err := json.Marshal(User{ID: "u1", LastLogin: login})
	require.NoError(t, err)

	var back User
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, login.Equal(back.LastLogin))
	assert.True(t, back.PremiumExpiry.IsZero())
}

func TestUser_Expired(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&User{}).Expired(now))
	assert.True(t, (&User{PremiumExpiry: now.Add(-time.Minute)}).Expired(now))
	assert.False(t, (&User{PremiumExpiry: now}).Expired(now))
}
