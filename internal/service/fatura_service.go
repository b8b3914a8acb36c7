package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marvingbh/clinica-sub005/internal/apierror"
	"github.com/marvingbh/clinica-sub005/internal/config"
	"github.com/marvingbh/clinica-sub005/internal/dto"
	"github.com/marvingbh/clinica-sub005/internal/infra"
	"github.com/marvingbh/clinica-sub005/internal/model"
	"github.com/marvingbh/clinica-sub005/internal/repository"
	"github.com/marvingbh/clinica-sub005/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FaturaService interface {
	// GerarFaturas (re)generates one professional's monthly batch: deletes
	// prior PENDENTE invoices releasing their credits, reclassifies the
	// month's appointments, re-applies credits FIFO and recreates invoices —
	// all inside a single transaction. ENVIADO/PAGO invoices are skipped.
	GerarFaturas(ctx context.Context, clinicaID uuid.UUID, req dto.GerarFaturasRequest) (*dto.GerarFaturasResponse, error)
	AdicionarItem(ctx context.Context, clinicaID, faturaID uuid.UUID, req dto.AdicionarItemRequest) (*dto.FaturaResponse, error)
	ExcluirFatura(ctx context.Context, clinicaID, faturaID uuid.UUID) error
	AtualizarStatus(ctx context.Context, clinicaID, faturaID uuid.UUID, status string) (*dto.FaturaResponse, error)
	Listar(ctx context.Context, clinicaID uuid.UUID, filter dto.FaturaFilter) ([]dto.FaturaResponse, error)
}

type faturaService struct {
	faturaRepo       repository.FaturaRepository
	agendamentoRepo  repository.AgendamentoRepository
	creditoRepo      repository.CreditoRepository
	pacienteRepo     repository.PacienteRepository
	profissionalRepo repository.ProfissionalRepository
	clinicaRepo      repository.ClinicaRepository
	recorrenciaRepo  repository.RecorrenciaRepository
	dispatcher       *worker.Dispatcher
	cfg              *config.Config

	// lotes serializes concurrent regenerations of the same
	// (profissional, mês, ano) so two batches never race on one credit pool.
	lotes   map[string]*sync.Mutex
	lotesMu sync.Mutex

	agora func() time.Time
}

func NewFaturaService(
	faturaRepo repository.FaturaRepository,
	agendamentoRepo repository.AgendamentoRepository,
	creditoRepo repository.CreditoRepository,
	pacienteRepo repository.PacienteRepository,
	profissionalRepo repository.ProfissionalRepository,
	clinicaRepo repository.ClinicaRepository,
	recorrenciaRepo repository.RecorrenciaRepository,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) FaturaService {
	return &faturaService{
		faturaRepo:       faturaRepo,
		agendamentoRepo:  agendamentoRepo,
		creditoRepo:      creditoRepo,
		pacienteRepo:     pacienteRepo,
		profissionalRepo: profissionalRepo,
		clinicaRepo:      clinicaRepo,
		recorrenciaRepo:  recorrenciaRepo,
		dispatcher:       dispatcher,
		cfg:              cfg,
		lotes:            make(map[string]*sync.Mutex),
		agora:            time.Now,
	}
}

// ── Pure builders ─────────────────────────────────────────────────────────────

// MontarItensFatura assembles the invoice lines for one patient's month:
// one item per billable appointment (per-session price override wins over
// valorSessao) and one negative CREDITO line per applied credit. Applied
// credits come from prior periods; the appointments that minted them never
// appear as lines on this invoice.
func MontarItensFatura(cls Classificacao, valorSessao decimal.Decimal, creditosAplicados []model.CreditoSessao, mostrarDias bool) []model.FaturaItem {
	itens := make([]model.FaturaItem, 0, len(cls.Faturaveis)+len(creditosAplicados))

	for _, a := range cls.Faturaveis {
		a := a
		valor := a.ValorCobrado(valorSessao)
		itens = append(itens, model.FaturaItem{
			AgendamentoID: &a.ID,
			Tipo:          tipoItemParaAgendamento(a.Tipo),
			Descricao:     descricaoSessao(a, mostrarDias),
			Quantidade:    1,
			ValorUnitario: valor,
			Total:         valor,
		})
	}

	for range creditosAplicados {
		itens = append(itens, model.FaturaItem{
			Tipo:          model.ItemCredito,
			Descricao:     "Crédito de sessão",
			Quantidade:    1,
			ValorUnitario: valorSessao.Neg(),
			Total:         valorSessao.Neg(),
		})
	}
	return itens
}

func tipoItemParaAgendamento(tipo string) string {
	switch tipo {
	case model.TipoGrupo:
		return model.ItemSessaoGrupo
	case model.TipoReuniao:
		return model.ItemReuniaoEscola
	default:
		return model.ItemSessaoRegular
	}
}

func descricaoSessao(a model.Agendamento, mostrarDias bool) string {
	base := "Sessão"
	switch a.Tipo {
	case model.TipoGrupo:
		base = "Sessão em grupo"
	case model.TipoReuniao:
		base = "Reunião escolar"
	}
	if mostrarDias {
		return fmt.Sprintf("%s %s", base, a.Inicio.Format("02/01"))
	}
	return base
}

// TotaisFatura aggregates one invoice's items.
type TotaisFatura struct {
	TotalSessoes      int
	CreditosAplicados int
	ExtrasAdicionados int
	ValorTotal        decimal.Decimal
}

// CalcularTotais recomputes the invoice aggregates from its items.
// ValorTotal is the exact decimal sum of every line (credits subtract);
// TotalSessoes counts non-credit session items; ExtrasAdicionados counts
// manual extras (a SESSAO_EXTRA is both a session and an extra).
func CalcularTotais(itens []model.FaturaItem) TotaisFatura {
	t := TotaisFatura{ValorTotal: decimal.Zero}
	for _, item := range itens {
		t.ValorTotal = t.ValorTotal.Add(item.Total)
		switch item.Tipo {
		case model.ItemCredito:
			t.CreditosAplicados++
		case model.ItemSessaoRegular, model.ItemSessaoGrupo:
			t.TotalSessoes++
		case model.ItemSessaoExtra:
			t.TotalSessoes++
			t.ExtrasAdicionados++
		case model.ItemReuniaoEscola:
			t.ExtrasAdicionados++
		}
	}
	return t
}

// VerificarConsistencia enforces the items-sum-equals-total invariant.
func VerificarConsistencia(f *model.Fatura) error {
	soma := decimal.Zero
	for _, item := range f.Itens {
		soma = soma.Add(item.Total)
	}
	if !soma.Equal(f.ValorTotal) {
		return apierror.NewConsistency(fmt.Sprintf(
			"soma dos itens (%s) difere do total da fatura (%s)",
			soma.StringFixed(2), f.ValorTotal.StringFixed(2)))
	}
	return nil
}

// ── Batch generation ──────────────────────────────────────────────────────────

func (s *faturaService) trancaLote(profissionalID uuid.UUID, mes, ano int) *sync.Mutex {
	chave := fmt.Sprintf("%s:%d:%d", profissionalID, ano, mes)
	s.lotesMu.Lock()
	defer s.lotesMu.Unlock()
	mu, ok := s.lotes[chave]
	if !ok {
		mu = &sync.Mutex{}
		s.lotes[chave] = mu
	}
	return mu
}

func (s *faturaService) GerarFaturas(ctx context.Context, clinicaID uuid.UUID, req dto.GerarFaturasRequest) (*dto.GerarFaturasResponse, error) {
	profissionalID, err := uuid.Parse(req.ProfissionalID)
	if err != nil {
		return nil, fmt.Errorf("profissional_id inválido: %w", err)
	}

	if _, err := s.profissionalRepo.FindByID(ctx, clinicaID, profissionalID); err != nil {
		return nil, apierror.NewNotFound("profissional")
	}
	clinica, err := s.clinicaRepo.FindByID(ctx, clinicaID)
	if err != nil {
		return nil, apierror.NewNotFound("clínica")
	}

	// Serialize concurrent batches for the same key.
	mu := s.trancaLote(profissionalID, req.Mes, req.Ano)
	mu.Lock()
	defer mu.Unlock()

	inicioMes := time.Date(req.Ano, time.Month(req.Mes), 1, 0, 0, 0, 0, time.UTC)
	fimMes := inicioMes.AddDate(0, 1, 0)

	// Pre-flight reads, outside the transaction.
	agendamentos, err := s.agendamentoRepo.ListByProfissionalPeriodo(ctx, clinicaID, profissionalID, inicioMes, fimMes)
	if err != nil {
		return nil, err
	}

	// Group per patient, preserving chronological first-appearance order.
	porPaciente := make(map[uuid.UUID][]model.Agendamento)
	var ordem []uuid.UUID
	for _, a := range agendamentos {
		if a.PacienteID == nil {
			continue
		}
		pid := *a.PacienteID
		if _, ok := porPaciente[pid]; !ok {
			ordem = append(ordem, pid)
		}
		porPaciente[pid] = append(porPaciente[pid], a)
	}

	pacientes := make(map[uuid.UUID]*model.Paciente, len(ordem))
	for _, pid := range ordem {
		p, err := s.pacienteRepo.FindByID(ctx, clinicaID, pid)
		if err != nil {
			return nil, apierror.NewNotFound("paciente")
		}
		pacientes[pid] = p
	}

	existentes, err := s.faturaRepo.ListByProfissionalMes(ctx, clinicaID, profissionalID, req.Mes, req.Ano)
	if err != nil {
		return nil, err
	}
	existentePorPaciente := make(map[uuid.UUID]*model.Fatura, len(existentes))
	for i := range existentes {
		existentePorPaciente[existentes[i].PacienteID] = &existentes[i]
	}

	resp := &dto.GerarFaturasResponse{
		Geradas: []dto.FaturaResponse{},
		Puladas: []string{},
		Mes:     req.Mes,
		Ano:     req.Ano,
	}

	agora := s.agora()
	vencimento := s.vencimentoPara(req.Mes, req.Ano)

	txErr := runTx(ctx, s.faturaRepo.DB(), func(tx *gorm.DB) error {
		for _, pid := range ordem {
			paciente := pacientes[pid]
			cls := ClassificarAgendamentos(porPaciente[pid])

			// Credits exist independently of whether an invoice is created:
			// a month of pure cancellations still banks its sessions.
			for _, g := range cls.GeradoresDeCredito {
				g := g
				if err := s.creditoRepo.CriarSeAusenteTx(tx, NovoCredito(&g)); err != nil {
					return err
				}
			}

			if existente := existentePorPaciente[pid]; existente != nil {
				if existente.Faturada() {
					// Billed history is immutable — skip outright.
					resp.Puladas = append(resp.Puladas, existente.ID.String())
					continue
				}
				// Release-then-delete: the freed credits return to the pool
				// that the rebuild below draws from.
				if err := s.creditoRepo.LiberarPorFaturaTx(tx, existente.ID); err != nil {
					return err
				}
				if err := s.faturaRepo.DeleteTx(tx, existente.ID); err != nil {
					return err
				}
			}

			// No billable sessions — no invoice, not even an empty one.
			if len(cls.Faturaveis) == 0 {
				continue
			}

			// Credits redeemable this month come from prior periods only.
			pool, err := s.creditoRepo.ListarDisponiveisTx(tx, pid, profissionalID, inicioMes)
			if err != nil {
				return err
			}
			aplicados, _ := AplicarCreditos(pool, len(cls.Faturaveis))

			itens := MontarItensFatura(cls, paciente.ValorSessao, aplicados, paciente.MostrarDiasNaFatura)
			totais := CalcularTotais(itens)

			fatura := &model.Fatura{
				ClinicaID:         clinicaID,
				ProfissionalID:    profissionalID,
				PacienteID:        pid,
				MesReferencia:     req.Mes,
				AnoReferencia:     req.Ano,
				TotalSessoes:      totais.TotalSessoes,
				CreditosAplicados: totais.CreditosAplicados,
				ExtrasAdicionados: totais.ExtrasAdicionados,
				ValorTotal:        totais.ValorTotal,
				Vencimento:        vencimento,
				Status:            model.FaturaPendente,
				MostrarDias:       paciente.MostrarDiasNaFatura,
				Itens:             itens,
			}
			fatura.Mensagem = s.renderizarMensagem(clinica, paciente, fatura)

			if err := VerificarConsistencia(fatura); err != nil {
				return err
			}
			if err := s.faturaRepo.CreateTx(tx, fatura); err != nil {
				return err
			}

			ids := make([]uuid.UUID, len(aplicados))
			for i, c := range aplicados {
				ids[i] = c.ID
			}
			if err := s.creditoRepo.ConsumirTx(tx, ids, fatura.ID, agora); err != nil {
				return err
			}

			resp.Geradas = append(resp.Geradas, *faturaToResponse(fatura, paciente.Nome))
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// vencimentoPara computes the due date: configured day of the month
// following the reference month. time.Date normalizes December overflow.
func (s *faturaService) vencimentoPara(mes, ano int) time.Time {
	dia := 10
	if s.cfg != nil && s.cfg.FaturaDiaVencimento > 0 {
		dia = s.cfg.FaturaDiaVencimento
	}
	return time.Date(ano, time.Month(mes)+1, dia, 0, 0, 0, 0, time.UTC)
}

var nomesMeses = [...]string{"", "janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro"}

func (s *faturaService) renderizarMensagem(clinica *model.Clinica, paciente *model.Paciente, f *model.Fatura) string {
	template := clinica.MensagemFatura
	if paciente.MensagemFatura != nil && *paciente.MensagemFatura != "" {
		template = *paciente.MensagemFatura
	}
	valores := map[string]string{
		"paciente":   paciente.Nome,
		"valor":      f.ValorTotal.StringFixed(2),
		"mes":        nomesMeses[f.MesReferencia],
		"ano":        fmt.Sprintf("%d", f.AnoReferencia),
		"vencimento": f.Vencimento.Format("02/01/2006"),
	}
	if paciente.NomeMae != nil {
		valores["mae"] = *paciente.NomeMae
	}
	if paciente.NomePai != nil {
		valores["pai"] = *paciente.NomePai
	}
	return RenderMensagem(template, valores)
}

// ── Post-generation operations ────────────────────────────────────────────────

func (s *faturaService) AdicionarItem(ctx context.Context, clinicaID, faturaID uuid.UUID, req dto.AdicionarItemRequest) (*dto.FaturaResponse, error) {
	fatura, err := s.faturaRepo.FindByID(ctx, clinicaID, faturaID)
	if err != nil {
		return nil, apierror.NewNotFound("fatura")
	}
	if fatura.Status == model.FaturaPago {
		return nil, fmt.Errorf("fatura já paga não admite novos itens")
	}

	total := req.ValorUnitario.Mul(decimal.NewFromInt(int64(req.Quantidade)))
	item := model.FaturaItem{
		FaturaID:      fatura.ID,
		Tipo:          req.Tipo,
		Descricao:     req.Descricao,
		Quantidade:    req.Quantidade,
		ValorUnitario: req.ValorUnitario,
		Total:         total,
	}

	// Recalculation keeps every auto-generated item; only aggregates change.
	itens := append(append([]model.FaturaItem{}, fatura.Itens...), item)
	totais := CalcularTotais(itens)

	txErr := runTx(ctx, s.faturaRepo.DB(), func(tx *gorm.DB) error {
		if err := s.faturaRepo.AddItemTx(tx, &item); err != nil {
			return err
		}
		return s.faturaRepo.AtualizarTotaisTx(tx, fatura.ID,
			totais.TotalSessoes, totais.CreditosAplicados, totais.ExtrasAdicionados, totais.ValorTotal)
	})
	if txErr != nil {
		return nil, txErr
	}

	fatura.Itens = itens
	fatura.TotalSessoes = totais.TotalSessoes
	fatura.CreditosAplicados = totais.CreditosAplicados
	fatura.ExtrasAdicionados = totais.ExtrasAdicionados
	fatura.ValorTotal = totais.ValorTotal
	return faturaToResponse(fatura, s.nomePaciente(ctx, clinicaID, fatura.PacienteID)), nil
}

func (s *faturaService) ExcluirFatura(ctx context.Context, clinicaID, faturaID uuid.UUID) error {
	fatura, err := s.faturaRepo.FindByID(ctx, clinicaID, faturaID)
	if err != nil {
		return apierror.NewNotFound("fatura")
	}
	// Deletion returns the invoice's credits to the pool atomically.
	return runTx(ctx, s.faturaRepo.DB(), func(tx *gorm.DB) error {
		if err := s.creditoRepo.LiberarPorFaturaTx(tx, fatura.ID); err != nil {
			return err
		}
		return s.faturaRepo.DeleteTx(tx, fatura.ID)
	})
}

func (s *faturaService) AtualizarStatus(ctx context.Context, clinicaID, faturaID uuid.UUID, status string) (*dto.FaturaResponse, error) {
	fatura, err := s.faturaRepo.FindByID(ctx, clinicaID, faturaID)
	if err != nil {
		return nil, apierror.NewNotFound("fatura")
	}
	if !statusFaturaAvanca(fatura.Status, status) {
		return nil, fmt.Errorf("fatura %s não pode voltar para %s", fatura.Status, status)
	}

	txErr := runTx(ctx, s.faturaRepo.DB(), func(tx *gorm.DB) error {
		return s.faturaRepo.AtualizarStatusTx(tx, fatura.ID, status)
	})
	if txErr != nil {
		return nil, txErr
	}
	fatura.Status = status

	if status == model.FaturaEnviado {
		s.despacharCobranca(ctx, clinicaID, fatura)
	}
	return faturaToResponse(fatura, s.nomePaciente(ctx, clinicaID, fatura.PacienteID)), nil
}

// statusFaturaAvanca allows only forward movement: PENDENTE → ENVIADO → PAGO.
func statusFaturaAvanca(atual, novo string) bool {
	ordem := map[string]int{model.FaturaPendente: 0, model.FaturaEnviado: 1, model.FaturaPago: 2}
	a, okA := ordem[atual]
	n, okN := ordem[novo]
	return okA && okN && n > a
}

// despacharCobranca renders the PDF and enqueues the cobrança email.
// Best-effort: the status change already committed; delivery failures are
// logged by the worker.
func (s *faturaService) despacharCobranca(ctx context.Context, clinicaID uuid.UUID, fatura *model.Fatura) {
	if s.dispatcher == nil {
		return
	}
	paciente, err := s.pacienteRepo.FindByID(ctx, clinicaID, fatura.PacienteID)
	if err != nil || paciente.Email == nil || *paciente.Email == "" {
		return
	}

	clinicaNome := ""
	if clinica, err := s.clinicaRepo.FindByID(ctx, clinicaID); err == nil {
		clinicaNome = clinica.Nome
	}

	pdfPath := ""
	if s.cfg != nil && s.cfg.PDFStoragePath != "" {
		if path, err := infra.GenerateFaturaPDF(fatura, clinicaNome, paciente.Nome, s.cfg.PDFStoragePath); err == nil {
			pdfPath = path
		}
	}

	_ = s.dispatcher.EnqueueCobranca(ctx, worker.CobrancaJobPayload{
		FaturaID: fatura.ID.String(),
		ToEmail:  *paciente.Email,
		Subject:  fmt.Sprintf("Fatura %s/%d", nomesMeses[fatura.MesReferencia], fatura.AnoReferencia),
		Body:     fatura.Mensagem,
		PDFPath:  pdfPath,
	})
}

func (s *faturaService) Listar(ctx context.Context, clinicaID uuid.UUID, filter dto.FaturaFilter) ([]dto.FaturaResponse, error) {
	profissionalID, err := uuid.Parse(filter.ProfissionalID)
	if err != nil {
		return nil, fmt.Errorf("profissional_id inválido: %w", err)
	}

	faturas, err := s.faturaRepo.ListByProfissionalMes(ctx, clinicaID, profissionalID, filter.Mes, filter.Ano)
	if err != nil {
		return nil, err
	}
	recorrencias, err := s.recorrenciaRepo.ListByProfissional(ctx, clinicaID, profissionalID)
	if err != nil {
		return nil, err
	}

	nomes := make(map[uuid.UUID]string, len(faturas))
	for _, f := range faturas {
		if _, ok := nomes[f.PacienteID]; ok {
			continue
		}
		nomes[f.PacienteID] = s.nomePaciente(ctx, clinicaID, f.PacienteID)
	}

	ordenadas := OrdenarFaturasPorRecorrencia(faturas, recorrencias, nomes)
	out := make([]dto.FaturaResponse, 0, len(ordenadas))
	for i := range ordenadas {
		out = append(out, *faturaToResponse(&ordenadas[i], nomes[ordenadas[i].PacienteID]))
	}
	return out, nil
}

func (s *faturaService) nomePaciente(ctx context.Context, clinicaID, pacienteID uuid.UUID) string {
	if p, err := s.pacienteRepo.FindByID(ctx, clinicaID, pacienteID); err == nil {
		return p.Nome
	}
	return ""
}

// ── Mapping helpers ───────────────────────────────────────────────────────────

func faturaToResponse(f *model.Fatura, pacienteNome string) *dto.FaturaResponse {
	itens := make([]dto.FaturaItemResponse, 0, len(f.Itens))
	for _, item := range f.Itens {
		ir := dto.FaturaItemResponse{
			ID:            item.ID.String(),
			Tipo:          item.Tipo,
			Descricao:     item.Descricao,
			Quantidade:    item.Quantidade,
			ValorUnitario: item.ValorUnitario,
			Total:         item.Total,
		}
		if item.AgendamentoID != nil {
			s := item.AgendamentoID.String()
			ir.AgendamentoID = &s
		}
		itens = append(itens, ir)
	}
	return &dto.FaturaResponse{
		ID:                f.ID.String(),
		ProfissionalID:    f.ProfissionalID.String(),
		PacienteID:        f.PacienteID.String(),
		PacienteNome:      pacienteNome,
		MesReferencia:     f.MesReferencia,
		AnoReferencia:     f.AnoReferencia,
		TotalSessoes:      f.TotalSessoes,
		CreditosAplicados: f.CreditosAplicados,
		ExtrasAdicionados: f.ExtrasAdicionados,
		ValorTotal:        f.ValorTotal,
		Vencimento:        f.Vencimento.Format("2006-01-02"),
		Status:            f.Status,
		MostrarDias:       f.MostrarDias,
		Mensagem:          f.Mensagem,
		Itens:             itens,
	}
}
