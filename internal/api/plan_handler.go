package api

import (
	"errors"
	"net/http"

	"ptrainer/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	MembershipID string `json:"membership_id" binding:"required"`
	service.PlanInput
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Add the next weekly plan to a membership
// @Description The plan covers the Monday..Sunday after the membership's latest plan, or the first
// @Description Monday on or after the membership start. Title, status and rest days are derived.
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} domain.Plan "Plan created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Membership or client not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	membershipID, err := primitive.ObjectIDFromHex(req.MembershipID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid membership ID format.")
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), membershipID, req.PlanInput, updatedBy(c))
	if err != nil {
		h.handleError(c, err, "Failed to create plan.")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), planID, input, updatedBy(c))
	if err != nil {
		h.handleError(c, err, "Failed to update plan.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), planID); err != nil {
		h.handleError(c, err, "Failed to delete plan.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) handleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrMembershipNotFound),
		errors.Is(err, service.ErrClientNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMembershipNoDate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
