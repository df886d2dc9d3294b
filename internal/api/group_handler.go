package api

import (
	"net/http"
	"time"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/service"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupService       service.GroupService
	leaderboardService service.LeaderboardService
}

func NewGroupHandler(groupService service.GroupService, leaderboardService service.LeaderboardService) *GroupHandler {
	return &GroupHandler{groupService: groupService, leaderboardService: leaderboardService}
}

// --- DTOs for Groups ---

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GroupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy"`
	Members     []string  `json:"members"`
	MemberCount int       `json:"memberCount"`
	WorkoutIDs  []string  `json:"workoutIds"`
	CreatedAt   time.Time `json:"createdAt"`
	IsPublic    bool      `json:"isPublic"`
}

// MapGroupToResponse converts a domain WorkoutGroup to its DTO.
func MapGroupToResponse(g *domain.WorkoutGroup) GroupResponse {
	clone := g.Clone()
	return GroupResponse{
		ID:          clone.ID,
		Name:        clone.Name,
		Description: clone.Description,
		CreatedBy:   clone.CreatedBy,
		Members:     clone.Members,
		MemberCount: len(clone.Members),
		WorkoutIDs:  clone.WorkoutIDs,
		CreatedAt:   clone.CreatedAt,
		IsPublic:    clone.IsPublic,
	}
}

// MapGroupsToResponse converts a slice of groups, never returning nil.
func MapGroupsToResponse(groups []domain.WorkoutGroup) []GroupResponse {
	resp := make([]GroupResponse, len(groups))
	for i := range groups {
		resp[i] = MapGroupToResponse(&groups[i])
	}
	return resp
}

// --- Handler Methods ---

// CreateGroup godoc
// @Summary Create a workout group
// @Description Creates a public group with the authenticated user as its only member.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param group body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse "Group created"
// @Failure 400 {object} gin.H "Empty name or description"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), domain.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapGroupToResponse(group))
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.ListGroups(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGroupsToResponse(groups))
}

// MyGroups lists the groups the authenticated user belongs to.
func (h *GroupHandler) MyGroups(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	groups, err := h.groupService.ListUserGroups(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGroupsToResponse(groups))
}

// AvailableGroups lists public groups the authenticated user can join.
func (h *GroupHandler) AvailableGroups(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	groups, err := h.groupService.ListAvailableGroups(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGroupsToResponse(groups))
}

func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.groupService.GetGroup(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGroupToResponse(group))
}

// JoinGroup godoc
// @Summary Join a group
// @Description Adds the authenticated user to the group. Joining twice has no effect.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Success 200 {object} GroupResponse "Current group state"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Group not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /groups/{groupId}/join [post]
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	group, err := h.groupService.JoinGroup(c.Request.Context(), c.Param("groupId"), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGroupToResponse(group))
}

// GetLeaderboard godoc
// @Summary Group leaderboard
// @Description Ranks the group's users by the summed score of their submissions.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Success 200 {array} domain.LeaderboardEntry "Standings, rank 1 first"
// @Failure 404 {object} gin.H "Group not found"
// @Router /groups/{groupId}/leaderboard [get]
func (h *GroupHandler) GetLeaderboard(c *gin.Context) {
	ctx := c.Request.Context()
	groupID := c.Param("groupId")
	if _, err := h.groupService.GetGroup(ctx, groupID); err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.leaderboardService.GetLeaderboard(ctx, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
