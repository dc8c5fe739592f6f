package services

import (
	"errors"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"

	"gorm.io/gorm"
)

var (
	ErrElectionNotFound     = errors.New("election not found")
	ErrElectionNotActive    = errors.New("election is not active")
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrCandidateNotApproved = errors.New("candidate is not approved")
	ErrAlreadyVoted         = errors.New("already voted for this position")
	ErrAlreadyCandidate     = errors.New("already a candidate for this position")
)

type ElectionService struct{}

func NewElectionService() *ElectionService {
	return &ElectionService{}
}

func (s *ElectionService) CreateElection(title, description string, startsAt, endsAt time.Time, createdBy uint) (*models.Election, error) {
	election := &models.Election{
		Title:       title,
		Description: description,
		Status:      "draft",
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		CreatedBy:   createdBy,
	}
	if err := models.DB.Create(election).Error; err != nil {
		return nil, err
	}
	return election, nil
}

func (s *ElectionService) GetElections() ([]models.Election, error) {
	var elections []models.Election
	if err := models.DB.Order("starts_at DESC").Find(&elections).Error; err != nil {
		return nil, err
	}
	return elections, nil
}

func (s *ElectionService) GetElection(id uint) (*models.Election, error) {
	var election models.Election
	if err := models.DB.First(&election, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, err
	}
	return &election, nil
}

func (s *ElectionService) UpdateStatus(id uint, status string) (*models.Election, error) {
	if status != "draft" && status != "active" && status != "closed" {
		return nil, errors.New("invalid election status")
	}

	election, err := s.GetElection(id)
	if err != nil {
		return nil, err
	}

	election.Status = status
	if err := models.DB.Save(election).Error; err != nil {
		return nil, err
	}
	return election, nil
}

func (s *ElectionService) AddPosition(electionID uint, title string) (*models.Position, error) {
	if _, err := s.GetElection(electionID); err != nil {
		return nil, err
	}

	position := &models.Position{ElectionID: electionID, Title: title}
	if err := models.DB.Create(position).Error; err != nil {
		return nil, err
	}
	return position, nil
}

func (s *ElectionService) GetPositions(electionID uint) ([]models.Position, error) {
	var positions []models.Position
	if err := models.DB.Where("election_id = ?", electionID).Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// Apply registers a candidacy; it starts pending until the electoral
// commission approves it.
func (s *ElectionService) Apply(positionID, userID uint, manifesto string) (*models.Candidate, error) {
	var position models.Position
	if err := models.DB.Preload("Election").First(&position, positionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, err
	}
	if position.Election.Status == "closed" {
		return nil, ErrElectionNotActive
	}

	var existing models.Candidate
	err := models.DB.
		Where("position_id = ? AND user_id = ? AND status IN ?", positionID, userID, []string{"pending", "approved"}).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyCandidate
	}

	candidate := &models.Candidate{
		PositionID: positionID,
		UserID:     userID,
		Manifesto:  manifesto,
		Status:     "pending",
	}
	if err := models.DB.Create(candidate).Error; err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *ElectionService) GetCandidate(id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := models.DB.Preload("User").Preload("Position").First(&candidate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	candidate.User.PasswordHash = ""
	return &candidate, nil
}

func (s *ElectionService) GetCandidates(positionID uint) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := models.DB.Preload("User").Where("position_id = ?", positionID).Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].User.PasswordHash = ""
	}
	return candidates, nil
}

// SetCandidateStatus moves a candidacy through its workflow
// (pending -> approved/rejected, or withdrawn by its owner).
func (s *ElectionService) SetCandidateStatus(id uint, status string) (*models.Candidate, error) {
	if status != "approved" && status != "rejected" && status != "withdrawn" {
		return nil, errors.New("invalid candidate status")
	}

	candidate, err := s.GetCandidate(id)
	if err != nil {
		return nil, err
	}

	candidate.Status = status
	if err := models.DB.Save(candidate).Error; err != nil {
		return nil, err
	}
	return candidate, nil
}

// CastVote records one ballot. The unique index on (position_id, voter_id)
// backstops the application check under concurrent submissions.
func (s *ElectionService) CastVote(positionID, voterID, candidateID uint) (*models.Vote, error) {
	var candidate models.Candidate
	if err := models.DB.Preload("Position.Election").First(&candidate, candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	if candidate.PositionID != positionID {
		return nil, ErrCandidateNotFound
	}
	if candidate.Status != "approved" {
		return nil, ErrCandidateNotApproved
	}
	if candidate.Position.Election.Status != "active" {
		return nil, ErrElectionNotActive
	}

	var existing models.Vote
	if err := models.DB.Where("position_id = ? AND voter_id = ?", positionID, voterID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyVoted
	}

	vote := &models.Vote{
		PositionID:  positionID,
		VoterID:     voterID,
		CandidateID: candidateID,
	}
	if err := models.DB.Create(vote).Error; err != nil {
		// Unique index violation from a racing duplicate lands here.
		return nil, ErrAlreadyVoted
	}
	return vote, nil
}

type PositionResult struct {
	CandidateID uint   `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int64  `json:"votes"`
}

// Results tallies approved candidates for a position.
func (s *ElectionService) Results(positionID uint) ([]PositionResult, error) {
	candidates, err := s.GetCandidates(positionID)
	if err != nil {
		return nil, err
	}

	var results []PositionResult
	for _, c := range candidates {
		if c.Status != "approved" {
			continue
		}
		var count int64
		if err := models.DB.Model(&models.Vote{}).Where("candidate_id = ?", c.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		results = append(results, PositionResult{CandidateID: c.ID, Name: c.User.Name, Votes: count})
	}
	return results, nil
}
