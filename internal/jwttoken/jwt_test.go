package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "permitdesk/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-signing-key", "permitdesk", "permitdesk-api")
	actorID := uuid.New()

	token, err := svc.GenerateAccessToken(actorID, "Inspector Reyes", "inspector", time.Minute)
	require.NoError(t, err)

	actor, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actorID.String(), actor.ID)
	assert.Equal(t, "Inspector Reyes", actor.DisplayName)
	assert.Equal(t, "inspector", actor.Role)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewService("test-signing-key", "permitdesk", "permitdesk-api")

	token, err := svc.GenerateAccessToken(uuid.New(), "", "", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	minter := NewService("key-one", "permitdesk", "permitdesk-api")
	verifier := NewService("key-two", "permitdesk", "permitdesk-api")

	token, err := minter.GenerateAccessToken(uuid.New(), "", "", time.Minute)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongAudience(t *testing.T) {
	minter := NewService("key", "permitdesk", "other-api")
	verifier := NewService("key", "permitdesk", "permitdesk-api")

	token, err := minter.GenerateAccessToken(uuid.New(), "", "", time.Minute)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
