package api

import (
	"errors"
	"io"
	"net/http"

	"ptrainer/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type NutritionHandler struct {
	nutritionService service.NutritionService
}

func NewNutritionHandler(nutritionService service.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

// CalculateTotals godoc
// @Summary Sum the macros of nutrition tables
// @Description The body is either an object {tableId: [{food, amount}]} or a JSON string holding that object.
// @Tags Nutrition
// @Accept json
// @Produce json
// @Success 200 {object} map[string]service.MacroTotals
// @Failure 400 {object} gin.H "Malformed table data"
// @Router /nutrition/totals [post]
func (h *NutritionHandler) CalculateTotals(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Unable to read request body.")
		return
	}
	data, err := service.ParseTableData(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	totals, err := h.nutritionService.CalculateAllNutritionalTotals(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTableData) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to calculate nutritional totals.")
		return
	}
	c.JSON(http.StatusOK, totals)
}
