package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_SummaryAndProfile(t *testing.T) {
	u := &User{
		ID:           "u1",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		FullName:     "Ada",
		CreatedAt:    "2025-03-01T12:00:00.000Z",
		URL:          "https://example.com/u1",
	}

	summary, err := json.Marshal(u.Summary())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","email":"ada@example.com","fullName":"Ada","phone":""}`, string(summary))

	profile, err := json.Marshal(u.Profile())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","email":"ada@example.com","fullName":"Ada","phone":"","createdAt":"2025-03-01T12:00:00.000Z"}`, string(profile))
}
