package handler

import (
	"net/http"

	"github.com/marvingbh/clinica-sub005/internal/dto"
	"github.com/marvingbh/clinica-sub005/internal/middleware"
	"github.com/marvingbh/clinica-sub005/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditosHandler struct{ svc service.CreditoService }

func NewCreditosHandler(svc service.CreditoService) *CreditosHandler {
	return &CreditosHandler{svc: svc}
}

// Listar godoc
// @Summary Listar créditos de sessão do paciente
// @Description Lista os créditos do paciente em ordem de criação (FIFO). Por padrão só os disponíveis; todos=true inclui os já consumidos.
// @Tags creditos
// @Produce json
// @Security BearerAuth
// @Param paciente_id query string true "UUID do paciente"
// @Param profissional_id query string false "Filtrar por profissional"
// @Param todos query bool false "Incluir créditos consumidos"
// @Success 200 {array} dto.CreditoResponse
// @Router /v1/creditos [get]
func (h *CreditosHandler) Listar(c *gin.Context) {
	var filter dto.CreditoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListarPorPaciente(c.Request.Context(), middleware.ClinicaID(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
