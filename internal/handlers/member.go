package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pm-assistant-api/internal/services"
	"github.com/yukikurage/pm-assistant-api/internal/utils"
)

type MemberHandler struct {
	memberService    *services.MemberService
	analyticsService *services.AnalyticsService
}

func NewMemberHandler(memberService *services.MemberService, analyticsService *services.AnalyticsService) *MemberHandler {
	return &MemberHandler{
		memberService:    memberService,
		analyticsService: analyticsService,
	}
}

// ListMembers returns one page of team members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	members, total, err := h.memberService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, members, params, total)
}

// GetMember returns a member by ID
func (h *MemberHandler) GetMember(c *gin.Context) {
	member, err := h.memberService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// CreateMember creates a new team member
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req services.CreateMemberInput
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// UpdateMember applies a partial update to a member
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	var req services.UpdateMemberInput
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// DeleteMember deletes a member without logged time
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	if err := h.memberService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetWorkload returns the member's open work against weekly capacity
func (h *MemberHandler) GetWorkload(c *gin.Context) {
	workload, err := h.analyticsService.MemberWorkload(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workload)
}

// GetTeamWorkload returns the workload of every member
func (h *MemberHandler) GetTeamWorkload(c *gin.Context) {
	workloads, err := h.analyticsService.TeamWorkload(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workloads": workloads})
}
