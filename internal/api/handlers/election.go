package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"
	"github.com/eben2468/srcwebsite-sub006/internal/rbac"
	"github.com/eben2468/srcwebsite-sub006/internal/services"

	"github.com/gin-gonic/gin"
)

type ElectionHandler struct {
	electionService *services.ElectionService
}

func NewElectionHandler(electionService *services.ElectionService) *ElectionHandler {
	return &ElectionHandler{electionService: electionService}
}

type CreateElectionRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

func (h *ElectionHandler) CreateElection(c *gin.Context) {
	var req CreateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Title, start, and end are required"})
		return
	}

	election, err := h.electionService.CreateElection(req.Title, req.Description, req.StartsAt, req.EndsAt, actingUserID(c))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to create election"})
		return
	}

	c.JSON(201, gin.H{"success": true, "election": election})
}

func (h *ElectionHandler) GetElections(c *gin.Context) {
	elections, err := h.electionService.GetElections()
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to get elections"})
		return
	}

	c.JSON(200, gin.H{"success": true, "elections": elections})
}

type UpdateElectionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft active closed"`
}

func (h *ElectionHandler) UpdateElectionStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid election ID"})
		return
	}

	var req UpdateElectionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "A valid status is required"})
		return
	}

	election, err := h.electionService.UpdateStatus(uint(id), req.Status)
	if err != nil {
		if errors.Is(err, services.ErrElectionNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Election not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to update election"})
		return
	}

	c.JSON(200, gin.H{"success": true, "election": election})
}

type AddPositionRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *ElectionHandler) AddPosition(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid election ID"})
		return
	}

	var req AddPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Title is required"})
		return
	}

	position, err := h.electionService.AddPosition(uint(id), req.Title)
	if err != nil {
		if errors.Is(err, services.ErrElectionNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Election not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to add position"})
		return
	}

	c.JSON(201, gin.H{"success": true, "position": position})
}

func (h *ElectionHandler) GetPositions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid election ID"})
		return
	}

	positions, err := h.electionService.GetPositions(uint(id))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to get positions"})
		return
	}

	c.JSON(200, gin.H{"success": true, "positions": positions})
}

type ApplyRequest struct {
	PositionID uint   `json:"position_id" binding:"required"`
	Manifesto  string `json:"manifesto"`
}

// Apply submits the acting user's own candidacy.
func (h *ElectionHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Position is required"})
		return
	}

	candidate, err := h.electionService.Apply(req.PositionID, actingUserID(c), req.Manifesto)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrElectionNotFound):
			c.JSON(404, gin.H{"success": false, "message": "Position not found"})
		case errors.Is(err, services.ErrElectionNotActive):
			c.JSON(409, gin.H{"success": false, "message": "Election is closed"})
		case errors.Is(err, services.ErrAlreadyCandidate):
			c.JSON(409, gin.H{"success": false, "message": "You are already a candidate for this position"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to submit candidacy"})
		}
		return
	}

	c.JSON(201, gin.H{"success": true, "candidate": candidate})
}

func (h *ElectionHandler) GetCandidates(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid position ID"})
		return
	}

	candidates, err := h.electionService.GetCandidates(uint(id))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to get candidates"})
		return
	}

	c.JSON(200, gin.H{"success": true, "candidates": candidates})
}

type CandidateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected withdrawn"`
}

// SetCandidateStatus moves a candidacy through its workflow. Approve/reject
// needs the candidates update grant; withdraw is additionally open to the
// candidacy's owner through the ownership override.
func (h *ElectionHandler) SetCandidateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid candidate ID"})
		return
	}

	var req CandidateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "A valid status is required"})
		return
	}

	candidate, err := h.electionService.GetCandidate(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrCandidateNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Candidate not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to load candidate"})
		return
	}

	user := c.MustGet("user").(*models.User)
	var allowed bool
	if req.Status == "withdrawn" {
		allowed = rbac.Can(user.Role, user.ID, rbac.ActionWithdraw, rbac.ResourceCandidates, candidate.UserID)
	} else {
		// Approve/reject is commission workflow; owning the candidacy
		// grants nothing here.
		allowed = rbac.HasPermission(user.Role, rbac.ActionUpdate, rbac.ResourceCandidates)
	}
	if !allowed {
		c.JSON(403, gin.H{"success": false, "message": "Access denied"})
		return
	}

	updated, err := h.electionService.SetCandidateStatus(uint(id), req.Status)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to update candidate"})
		return
	}

	c.JSON(200, gin.H{"success": true, "candidate": updated})
}

type CastVoteRequest struct {
	PositionID  uint `json:"position_id" binding:"required"`
	CandidateID uint `json:"candidate_id" binding:"required"`
}

func (h *ElectionHandler) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Position and candidate are required"})
		return
	}

	vote, err := h.electionService.CastVote(req.PositionID, actingUserID(c), req.CandidateID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCandidateNotFound):
			c.JSON(404, gin.H{"success": false, "message": "Candidate not found"})
		case errors.Is(err, services.ErrCandidateNotApproved):
			c.JSON(409, gin.H{"success": false, "message": "Candidate is not approved"})
		case errors.Is(err, services.ErrElectionNotActive):
			c.JSON(409, gin.H{"success": false, "message": "Election is not active"})
		case errors.Is(err, services.ErrAlreadyVoted):
			c.JSON(409, gin.H{"success": false, "message": "You have already voted for this position"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to cast vote"})
		}
		return
	}

	c.JSON(201, gin.H{"success": true, "vote": vote})
}

func (h *ElectionHandler) GetResults(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid position ID"})
		return
	}

	results, err := h.electionService.Results(uint(id))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to get results"})
		return
	}

	c.JSON(200, gin.H{"success": true, "results": results})
}
