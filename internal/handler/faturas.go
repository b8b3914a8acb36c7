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

type FaturasHandler struct{ svc service.FaturaService }

func NewFaturasHandler(svc service.FaturaService) *FaturasHandler {
	return &FaturasHandler{svc: svc}
}

// Gerar godoc
// @Summary Gerar faturas do mês
// @Description Gera (ou regenera) o lote de faturas de um profissional para o mês de referência. Faturas ENVIADO/PAGO são puladas; as demais são apagadas e recriadas com os créditos reaplicados em ordem FIFO.
// @Tags faturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GerarFaturasRequest true "Profissional e mês de referência"
// @Success 200 {object} dto.GerarFaturasResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/faturas/gerar [post]
func (h *FaturasHandler) Gerar(c *gin.Context) {
	var req dto.GerarFaturasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GerarFaturas(c.Request.Context(), middleware.ClinicaID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdicionarItem godoc
// @Summary Adicionar item manual à fatura
// @Tags faturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID da fatura"
// @Param body body dto.AdicionarItemRequest true "Item extra"
// @Success 200 {object} dto.FaturaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/faturas/{id}/itens [post]
func (h *FaturasHandler) AdicionarItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AdicionarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarItem(c.Request.Context(), middleware.ClinicaID(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Excluir godoc
// @Summary Excluir fatura
// @Description Apaga a fatura e devolve seus créditos ao saldo do paciente.
// @Tags faturas
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID da fatura"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/faturas/{id} [delete]
func (h *FaturasHandler) Excluir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.ExcluirFatura(c.Request.Context(), middleware.ClinicaID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AtualizarStatus godoc
// @Summary Atualizar status da fatura
// @Description Move a fatura ao longo de PENDENTE → ENVIADO → PAGO. ENVIADO dispara a cobrança por e-mail com o PDF anexado.
// @Tags faturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID da fatura"
// @Param body body dto.AtualizarStatusFaturaRequest true "Novo status"
// @Success 200 {object} dto.FaturaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/faturas/{id}/status [patch]
func (h *FaturasHandler) AtualizarStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarStatusFaturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarStatus(c.Request.Context(), middleware.ClinicaID(c), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Listar faturas do mês
// @Description Retorna as faturas do profissional no mês, ordenadas pela recorrência mais cedo de cada paciente (segunda antes de domingo, horário como desempate) e por nome quando não há recorrência.
// @Tags faturas
// @Produce json
// @Security BearerAuth
// @Param profissional_id query string true "UUID do profissional"
// @Param mes query int true "Mês de referência (1-12)"
// @Param ano query int true "Ano de referência"
// @Success 200 {array} dto.FaturaResponse
// @Router /v1/faturas [get]
func (h *FaturasHandler) Listar(c *gin.Context) {
	var filter dto.FaturaFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.ClinicaID(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
