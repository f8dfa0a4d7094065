package consultation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-triage/internal/triage"
)

func TestRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	a, err := repo.Create(ctx)
	require.NoError(t, err)
	b, err := repo.Create(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, StatusActive, a.Status)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, repo.IDs(ctx))
}

func TestRepository_CreateRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository().(*memoryRepo)
	fixed := uuid.MustParse("6f1c2a3e-8d4b-4c1a-9e2f-0a1b2c3d4e5f")
	other := uuid.MustParse("0b7e9a44-2f3c-4d5e-8a6b-7c8d9e0f1a2b")

	ids := []uuid.UUID{fixed, fixed, other}
	repo.newID = func() (uuid.UUID, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	first, err := repo.Create(ctx)
	require.NoError(t, err)
	second, err := repo.Create(ctx)
	require.NoError(t, err)

	assert.Equal(t, fixed, first.ID)
	assert.Equal(t, other, second.ID)
}

func TestRepository_CreateFailsWhenIDSourceFails(t *testing.T) {
	repo := NewRepository().(*memoryRepo)
	repo.newID = func() (uuid.UUID, error) { return uuid.Nil, errors.New("no entropy") }

	_, err := repo.Create(context.Background())
	assert.Error(t, err)
}

func TestRepository_DeleteErasesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	s, err := repo.Create(ctx)
	require.NoError(t, err)

	s.Symptoms = append(s.Symptoms, triage.SymptomEntity{Symptom: "fever", Severity: triage.SeverityMild, Confidence: 0.8})
	s.addTurn(RoleUser, "I have a fever", s.StartedAt)
	s.Assessment = &triage.RiskAssessment{Level: triage.RiskModerate, Confidence: 0.6}

	require.NoError(t, repo.Delete(ctx, s.ID))

	assert.Empty(t, s.Symptoms)
	assert.Empty(t, s.History)
	assert.Nil(t, s.Assessment)
	assert.Equal(t, StatusTerminated, s.Status)

	_, err = repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.NoError(t, repo.Delete(ctx, s.ID))
	assert.NoError(t, repo.Delete(ctx, uuid.New()))
}
