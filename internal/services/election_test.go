package services

import (
	"testing"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"
	"github.com/eben2468/srcwebsite-sub006/internal/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupElection(t *testing.T, ts *testServices, status string) (*models.Election, *models.Position) {
	t.Helper()
	es := NewElectionService()

	election, err := es.CreateElection("SRC General Election", "annual election",
		time.Now(), time.Now().Add(48*time.Hour), 1)
	require.NoError(t, err)

	if status != "draft" {
		election, err = es.UpdateStatus(election.ID, status)
		require.NoError(t, err)
	}

	position, err := es.AddPosition(election.ID, "President")
	require.NoError(t, err)
	return election, position
}

func TestCandidacyWorkflow(t *testing.T) {
	ts := setupTest(t)
	es := NewElectionService()
	user := createTestUser(t, ts, "cand@src.local", "long-enough", rbac.RoleStudent)
	_, position := setupElection(t, ts, "draft")

	candidate, err := es.Apply(position.ID, user.ID, "my manifesto")
	require.NoError(t, err)
	assert.Equal(t, "pending", candidate.Status)

	// Duplicate application is refused while one is live
	_, err = es.Apply(position.ID, user.ID, "again")
	assert.ErrorIs(t, err, ErrAlreadyCandidate)

	approved, err := es.SetCandidateStatus(candidate.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	withdrawn, err := es.SetCandidateStatus(candidate.ID, "withdrawn")
	require.NoError(t, err)
	assert.Equal(t, "withdrawn", withdrawn.Status)

	// A withdrawn candidacy no longer blocks a fresh application
	_, err = es.Apply(position.ID, user.ID, "round two")
	assert.NoError(t, err)
}

func TestOneVotePerPosition(t *testing.T) {
	ts := setupTest(t)
	es := NewElectionService()
	cand := createTestUser(t, ts, "cand@src.local", "long-enough", rbac.RoleStudent)
	voter := createTestUser(t, ts, "voter@src.local", "long-enough", rbac.RoleStudent)
	_, position := setupElection(t, ts, "active")

	candidate, err := es.Apply(position.ID, cand.ID, "manifesto")
	require.NoError(t, err)
	_, err = es.SetCandidateStatus(candidate.ID, "approved")
	require.NoError(t, err)

	_, err = es.CastVote(position.ID, voter.ID, candidate.ID)
	require.NoError(t, err)

	_, err = es.CastVote(position.ID, voter.ID, candidate.ID)
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	results, err := es.Results(position.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].Votes)
}

func TestVoteRequiresApprovedCandidateAndActiveElection(t *testing.T) {
	ts := setupTest(t)
	es := NewElectionService()
	cand := createTestUser(t, ts, "cand@src.local", "long-enough", rbac.RoleStudent)
	voter := createTestUser(t, ts, "voter@src.local", "long-enough", rbac.RoleStudent)
	election, position := setupElection(t, ts, "active")

	candidate, err := es.Apply(position.ID, cand.ID, "manifesto")
	require.NoError(t, err)

	// Still pending
	_, err = es.CastVote(position.ID, voter.ID, candidate.ID)
	assert.ErrorIs(t, err, ErrCandidateNotApproved)

	_, err = es.SetCandidateStatus(candidate.ID, "approved")
	require.NoError(t, err)
	_, err = es.UpdateStatus(election.ID, "closed")
	require.NoError(t, err)

	_, err = es.CastVote(position.ID, voter.ID, candidate.ID)
	assert.ErrorIs(t, err, ErrElectionNotActive)
}

func TestApplyToClosedElection(t *testing.T) {
	ts := setupTest(t)
	es := NewElectionService()
	user := createTestUser(t, ts, "cand@src.local", "long-enough", rbac.RoleStudent)
	_, position := setupElection(t, ts, "closed")

	_, err := es.Apply(position.ID, user.ID, "too late")
	assert.ErrorIs(t, err, ErrElectionNotActive)
}
