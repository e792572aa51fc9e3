package api

import (
	"errors"
	"net/http"
	"time"

	"ptrainer/backend/internal/repository"
	"ptrainer/backend/internal/service"
	"ptrainer/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MembershipHandler serves the membership aggregate and the membership lifecycle.
type MembershipHandler struct {
	membershipService service.MembershipService
	signer            storage.MediaSigner
	urlExpiry         time.Duration
	logger            *zap.Logger
}

func NewMembershipHandler(membershipService service.MembershipService, signer storage.MediaSigner, urlExpiry time.Duration, logger *zap.Logger) *MembershipHandler {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &MembershipHandler{
		membershipService: membershipService,
		signer:            signer,
		urlExpiry:         urlExpiry,
		logger:            logger,
	}
}

// --- DTOs ---

type CreateMembershipRequest struct {
	ClientID  string     `json:"client_id" binding:"required"`
	PackageID string     `json:"package_id" binding:"required"`
	Start     *time.Time `json:"start"`
}

type ChangePackageRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

// --- Handler Methods ---

// GetMembership returns the membership aggregate. Every failure is reported as
// a message payload with HTTP 200 so callers always get a renderable body.
func (h *MembershipHandler) GetMembership(c *gin.Context) {
	membershipID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": service.FailureMessage(repository.ErrNotFound)})
		return
	}

	aggregate, err := h.membershipService.GetMembership(c.Request.Context(), membershipID)
	if err != nil {
		h.logger.Info("membership aggregate unavailable", zap.String("membership", membershipID.Hex()), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"message": service.FailureMessage(err)})
		return
	}

	// Media is signed on the way out so cached payloads never hold expiring URLs.
	aggregate.References = storage.SignReferences(c.Request.Context(), h.signer, aggregate.References, h.urlExpiry, h.logger)
	c.JSON(http.StatusOK, aggregate)
}

func (h *MembershipHandler) CreateMembership(c *gin.Context) {
	var req CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}
	packageID, err := primitive.ObjectIDFromHex(req.PackageID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid package ID format.")
		return
	}

	membership, err := h.membershipService.CreateMembership(c.Request.Context(), clientID, packageID, req.Start, updatedBy(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound), errors.Is(err, service.ErrPackageNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to create membership.")
		}
		return
	}
	c.JSON(http.StatusCreated, membership)
}

func (h *MembershipHandler) ChangePackage(c *gin.Context) {
	membershipID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid membership ID format.")
		return
	}
	var req ChangePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	packageID, err := primitive.ObjectIDFromHex(req.PackageID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid package ID format.")
		return
	}

	membership, err := h.membershipService.ChangePackage(c.Request.Context(), membershipID, packageID, updatedBy(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMembershipNotFound), errors.Is(err, service.ErrPackageNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to change package.")
		}
		return
	}
	c.JSON(http.StatusOK, membership)
}
