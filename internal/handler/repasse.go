package handler

import (
	"net/http"

	"github.com/marvingbh/clinica-sub005/internal/dto"
	"github.com/marvingbh/clinica-sub005/internal/middleware"
	"github.com/marvingbh/clinica-sub005/internal/service"

	"github.com/gin-gonic/gin"
)

type RepasseHandler struct{ svc service.RepasseService }

func NewRepasseHandler(svc service.RepasseService) *RepasseHandler {
	return &RepasseHandler{svc: svc}
}

// Relatorio godoc
// @Summary Relatório de repasse do profissional
// @Description Calcula, por fatura elegível (ENVIADO/PAGO), bruto, imposto retido e repasse com arredondamento a 2 casas em cada etapa. O resumo soma os valores já arredondados.
// @Tags repasse
// @Produce json
// @Security BearerAuth
// @Param profissional_id query string true "UUID do profissional"
// @Param mes query int true "Mês de referência (1-12)"
// @Param ano query int true "Ano de referência"
// @Success 200 {object} dto.RepasseResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/repasse [get]
func (h *RepasseHandler) Relatorio(c *gin.Context) {
	var filter dto.RepasseFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Relatorio(c.Request.Context(), middleware.ClinicaID(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
