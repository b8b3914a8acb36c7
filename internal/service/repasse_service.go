package service

import (
	"context"

	"github.com/marvingbh/clinica-sub005/internal/apierror"
	"github.com/marvingbh/clinica-sub005/internal/dto"
	"github.com/marvingbh/clinica-sub005/internal/model"
	"github.com/marvingbh/clinica-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var cem = decimal.NewFromInt(100)

// RepasseLinha is the per-invoice payout computation. Derived, never persisted.
type RepasseLinha struct {
	ValorBruto   decimal.Decimal
	Imposto      decimal.Decimal
	ValorLiquido decimal.Decimal
	Repasse      decimal.Decimal
}

// CalcularRepasse computes tax and payout from one invoice's gross value.
// Each step rounds to 2 decimals independently; the monthly summary then sums
// these already-rounded values and rounds once more. The sum of rounded parts
// may differ by a cent from rounding the sum — that behavior is a contract
// with the historical reports, not an accident.
func CalcularRepasse(bruto, percImposto, percRepasse decimal.Decimal) RepasseLinha {
	imposto := bruto.Mul(percImposto).Div(cem).Round(2)
	liquido := bruto.Sub(imposto).Round(2)
	repasse := liquido.Mul(percRepasse).Div(cem).Round(2)
	return RepasseLinha{
		ValorBruto:   bruto,
		Imposto:      imposto,
		ValorLiquido: liquido,
		Repasse:      repasse,
	}
}

// ElegivelParaRepasse reports whether an invoice participates in the payout
// report: any live billable invoice regardless of payment state.
func ElegivelParaRepasse(status string) bool {
	switch status {
	case model.FaturaPendente, model.FaturaEnviado, model.FaturaPago:
		return true
	}
	return false
}

// ─── RepasseService ──────────────────────────────────────────────────────────

type RepasseService interface {
	Relatorio(ctx context.Context, clinicaID uuid.UUID, filter dto.RepasseFilter) (*dto.RepasseResponse, error)
}

type repasseService struct {
	faturaRepo       repository.FaturaRepository
	profissionalRepo repository.ProfissionalRepository
	pacienteRepo     repository.PacienteRepository
	clinicaRepo      repository.ClinicaRepository
}

func NewRepasseService(
	faturaRepo repository.FaturaRepository,
	profissionalRepo repository.ProfissionalRepository,
	pacienteRepo repository.PacienteRepository,
	clinicaRepo repository.ClinicaRepository,
) RepasseService {
	return &repasseService{
		faturaRepo:       faturaRepo,
		profissionalRepo: profissionalRepo,
		pacienteRepo:     pacienteRepo,
		clinicaRepo:      clinicaRepo,
	}
}

// Relatorio builds the professional's monthly payout report from persisted
// invoices: one line per eligible invoice plus an aggregate summary.
func (s *repasseService) Relatorio(ctx context.Context, clinicaID uuid.UUID, filter dto.RepasseFilter) (*dto.RepasseResponse, error) {
	profissionalID, err := uuid.Parse(filter.ProfissionalID)
	if err != nil {
		return nil, err
	}

	profissional, err := s.profissionalRepo.FindByID(ctx, clinicaID, profissionalID)
	if err != nil {
		return nil, apierror.NewNotFound("profissional")
	}
	clinica, err := s.clinicaRepo.FindByID(ctx, clinicaID)
	if err != nil {
		return nil, apierror.NewNotFound("clínica")
	}

	faturas, err := s.faturaRepo.ListByProfissionalMes(ctx, clinicaID, profissionalID, filter.Mes, filter.Ano)
	if err != nil {
		return nil, err
	}

	resp := &dto.RepasseResponse{
		ProfissionalID: profissionalID.String(),
		Mes:            filter.Mes,
		Ano:            filter.Ano,
		Linhas:         []dto.RepasseLinhaResponse{},
	}

	totalBruto := decimal.Zero
	totalImposto := decimal.Zero
	totalLiquido := decimal.Zero
	totalRepasse := decimal.Zero
	totalSessoes := 0

	for _, f := range faturas {
		if !ElegivelParaRepasse(f.Status) {
			continue
		}
		linha := CalcularRepasse(f.ValorTotal, clinica.PercentualImposto, profissional.PercentualRepasse)

		pacienteNome := ""
		if p, err := s.pacienteRepo.FindByID(ctx, clinicaID, f.PacienteID); err == nil {
			pacienteNome = p.Nome
		}

		resp.Linhas = append(resp.Linhas, dto.RepasseLinhaResponse{
			FaturaID:     f.ID.String(),
			PacienteNome: pacienteNome,
			Sessoes:      f.TotalSessoes,
			ValorBruto:   linha.ValorBruto,
			Imposto:      linha.Imposto,
			ValorLiquido: linha.ValorLiquido,
			Repasse:      linha.Repasse,
		})

		totalBruto = totalBruto.Add(linha.ValorBruto)
		totalImposto = totalImposto.Add(linha.Imposto)
		totalLiquido = totalLiquido.Add(linha.ValorLiquido)
		totalRepasse = totalRepasse.Add(linha.Repasse)
		totalSessoes += f.TotalSessoes
	}

	resp.Resumo = dto.RepasseResumoResponse{
		TotalBruto:   totalBruto.Round(2),
		TotalImposto: totalImposto.Round(2),
		TotalLiquido: totalLiquido.Round(2),
		TotalRepasse: totalRepasse.Round(2),
		TotalSessoes: totalSessoes,
	}
	return resp, nil
}
