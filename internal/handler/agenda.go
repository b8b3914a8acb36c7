package handler

import (
	"net/http"

	"github.com/marvingbh/clinica-sub005/internal/apierror"
	"github.com/marvingbh/clinica-sub005/internal/dto"
	"github.com/marvingbh/clinica-sub005/internal/middleware"
	"github.com/marvingbh/clinica-sub005/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AgendaHandler struct{ svc service.AgendaService }

func NewAgendaHandler(svc service.AgendaService) *AgendaHandler { return &AgendaHandler{svc: svc} }

// AtualizarStatus godoc
// @Summary Atualizar status de agendamento
// @Description Transiciona o agendamento na máquina de estados. Transições inválidas retornam 409 com as transições permitidas. Cancelamentos com direito a crédito criam o crédito na mesma transação.
// @Tags agendamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID do agendamento"
// @Param body body dto.AtualizarStatusRequest true "Novo status"
// @Success 200 {object} dto.AgendamentoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.TransitionError
// @Router /v1/agendamentos/{id}/status [patch]
func (h *AgendaHandler) AtualizarStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AtualizarStatus(c.Request.Context(), middleware.ClinicaID(c), usuarioID, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
