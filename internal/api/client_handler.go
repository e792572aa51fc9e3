package api

import (
	"errors"
	"net/http"

	"ptrainer/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// UpdateClient godoc
// @Summary Update client fields
// @Description Sets allow-listed client fields. "weight" appends a weight entry dated today and
// @Description "exercise" ("<exerciseId>,<weight>,<reps>") records a performance log.
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client's ObjectID Hex"
// @Param fields body map[string]interface{} true "Field name to value"
// @Success 200 {object} domain.Client "Updated client"
// @Failure 400 {object} gin.H "Unknown field or invalid value"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /clients/{id} [post]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if len(fields) == 0 {
		abortWithError(c, http.StatusBadRequest, "No fields to update.")
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, fields, updatedBy(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownField),
			errors.Is(err, service.ErrInvalidFieldValue),
			errors.Is(err, service.ErrInvalidExercise):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to update client.")
		}
		return
	}
	c.JSON(http.StatusOK, client)
}
