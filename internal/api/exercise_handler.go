package api

import (
	"errors"
	"net/http"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LibraryHandler edits the exercise and food libraries.
type LibraryHandler struct {
	libraryService service.LibraryService
}

func NewLibraryHandler(libraryService service.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Import an exercise into the library
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exercise body domain.Exercise true "Exercise details"
// @Success 201 {object} domain.Exercise "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises [post]
func (h *LibraryHandler) CreateExercise(c *gin.Context) {
	var exercise domain.Exercise
	if err := c.ShouldBindJSON(&exercise); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	exercise.ID = primitive.NilObjectID

	created, err := h.libraryService.CreateExercise(c.Request.Context(), &exercise)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LibraryHandler) GetExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}
	exercise, err := h.libraryService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve exercise.")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise godoc
// @Summary Replace an exercise
// @Description Cached aggregates referencing the exercise pick up the change once its library entry expires or is rebuilt.
// @Tags Exercises
// @Accept json
// @Produce json
// @Param id path string true "Exercise's ObjectID Hex"
// @Param exercise body domain.Exercise true "Exercise details"
// @Success 200 {object} domain.Exercise
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [put]
func (h *LibraryHandler) UpdateExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}
	var exercise domain.Exercise
	if err := c.ShouldBindJSON(&exercise); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	exercise.ID = exerciseID

	updated, err := h.libraryService.UpdateExercise(c.Request.Context(), &exercise)
	if err != nil {
		h.handleError(c, err, "Failed to update exercise.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *LibraryHandler) CreateFood(c *gin.Context) {
	var food domain.Food
	if err := c.ShouldBindJSON(&food); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	food.ID = primitive.NilObjectID

	created, err := h.libraryService.CreateFood(c.Request.Context(), &food)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to create food.")
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LibraryHandler) GetFood(c *gin.Context) {
	foodID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid food ID format.")
		return
	}
	food, err := h.libraryService.GetFoodByID(c.Request.Context(), foodID)
	if err != nil {
		h.handleError(c, err, "Failed to retrieve food.")
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *LibraryHandler) UpdateFood(c *gin.Context) {
	foodID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid food ID format.")
		return
	}
	var food domain.Food
	if err := c.ShouldBindJSON(&food); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	food.ID = foodID

	updated, err := h.libraryService.UpdateFood(c.Request.Context(), &food)
	if err != nil {
		h.handleError(c, err, "Failed to update food.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *LibraryHandler) handleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrExerciseNotFound), errors.Is(err, service.ErrFoodNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
