package service

import (
	"context"
	"errors"
	"time"

	"github.com/marvingbh/clinica-sub005/internal/model"
	"github.com/marvingbh/clinica-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ────────────────────────────────────────────────
// Shared by the service tests. All run in nil-DB mode: runTx calls fn(nil)
// directly, so the Tx variants ignore their *gorm.DB argument.

type stubAgendamentoRepo struct {
	agendamentos map[uuid.UUID]*model.Agendamento
	// updates records every partial update applied, newest last.
	updates []map[string]interface{}
}

func newStubAgendamentoRepo() *stubAgendamentoRepo {
	return &stubAgendamentoRepo{agendamentos: make(map[uuid.UUID]*model.Agendamento)}
}

func (r *stubAgendamentoRepo) add(a *model.Agendamento) *model.Agendamento {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.agendamentos[a.ID] = a
	return a
}

func (r *stubAgendamentoRepo) FindByID(_ context.Context, clinicaID, id uuid.UUID) (*model.Agendamento, error) {
	a, ok := r.agendamentos[id]
	if !ok || a.ClinicaID != clinicaID {
		return nil, errors.New("not found")
	}
	return a, nil
}

func (r *stubAgendamentoRepo) ListByProfissionalPeriodo(_ context.Context, clinicaID, profissionalID uuid.UUID, inicio, fim time.Time) ([]model.Agendamento, error) {
	var out []model.Agendamento
	for _, a := range r.agendamentos {
		if a.ClinicaID != clinicaID || a.ProfissionalID != profissionalID {
			continue
		}
		if a.Inicio.Before(inicio) || !a.Inicio.Before(fim) {
			continue
		}
		out = append(out, *a)
	}
	// Chronological, as the real query orders by inicio.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Inicio.Before(out[j-1].Inicio); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (r *stubAgendamentoRepo) AtualizarStatusTx(_ *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	a, ok := r.agendamentos[id]
	if !ok {
		return errors.New("not found")
	}
	if v, ok := campos["status"]; ok {
		a.Status = v.(model.Status)
	}
	r.updates = append(r.updates, campos)
	return nil
}

func (r *stubAgendamentoRepo) DB() *gorm.DB { return nil }

var _ repository.AgendamentoRepository = (*stubAgendamentoRepo)(nil)

type stubPacienteRepo struct {
	pacientes     map[uuid.UUID]*model.Paciente
	ultimaVisitas map[uuid.UUID]time.Time
}

func newStubPacienteRepo() *stubPacienteRepo {
	return &stubPacienteRepo{
		pacientes:     make(map[uuid.UUID]*model.Paciente),
		ultimaVisitas: make(map[uuid.UUID]time.Time),
	}
}

func (r *stubPacienteRepo) add(p *model.Paciente) *model.Paciente {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pacientes[p.ID] = p
	return p
}

func (r *stubPacienteRepo) FindByID(_ context.Context, clinicaID, id uuid.UUID) (*model.Paciente, error) {
	p, ok := r.pacientes[id]
	if !ok || p.ClinicaID != clinicaID {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubPacienteRepo) AtualizarUltimaVisitaTx(_ *gorm.DB, id uuid.UUID, em time.Time) error {
	r.ultimaVisitas[id] = em
	return nil
}

var _ repository.PacienteRepository = (*stubPacienteRepo)(nil)

type stubCreditoRepo struct {
	creditos map[uuid.UUID]*model.CreditoSessao
	agora    func() time.Time
	seq      time.Duration
}

func newStubCreditoRepo() *stubCreditoRepo {
	return &stubCreditoRepo{
		creditos: make(map[uuid.UUID]*model.CreditoSessao),
		agora:    time.Now,
	}
}

func (r *stubCreditoRepo) add(c *model.CreditoSessao) *model.CreditoSessao {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		// gorm stamps CreatedAt on insert; keep inserts strictly ordered.
		r.seq += time.Minute
		c.CreatedAt = r.agora().Add(r.seq)
	}
	r.creditos[c.ID] = c
	return c
}

func (r *stubCreditoRepo) porOrigem(origem uuid.UUID) *model.CreditoSessao {
	for _, c := range r.creditos {
		if c.OrigemAgendamentoID == origem {
			return c
		}
	}
	return nil
}

func (r *stubCreditoRepo) ListarDisponiveisTx(_ *gorm.DB, pacienteID, profissionalID uuid.UUID, corte time.Time) ([]model.CreditoSessao, error) {
	var out []model.CreditoSessao
	for _, c := range r.creditos {
		if c.PacienteID != pacienteID || c.ProfissionalID != profissionalID {
			continue
		}
		if !c.Disponivel() || !c.CreatedAt.Before(corte) {
			continue
		}
		out = append(out, *c)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.Before(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (r *stubCreditoRepo) CriarSeAusenteTx(_ *gorm.DB, c *model.CreditoSessao) error {
	if existente := r.porOrigem(c.OrigemAgendamentoID); existente != nil {
		*c = *existente
		return nil
	}
	r.add(c)
	return nil
}

func (r *stubCreditoRepo) ConsumirTx(_ *gorm.DB, ids []uuid.UUID, faturaID uuid.UUID, em time.Time) error {
	for _, id := range ids {
		c, ok := r.creditos[id]
		if !ok {
			return errors.New("credito not found")
		}
		fid := faturaID
		t := em
		c.ConsumidoPorFaturaID = &fid
		c.ConsumidoEm = &t
	}
	return nil
}

func (r *stubCreditoRepo) LiberarPorFaturaTx(_ *gorm.DB, faturaID uuid.UUID) error {
	for _, c := range r.creditos {
		if c.ConsumidoPorFaturaID != nil && *c.ConsumidoPorFaturaID == faturaID {
			c.ConsumidoPorFaturaID = nil
			c.ConsumidoEm = nil
		}
	}
	return nil
}

func (r *stubCreditoRepo) ExcluirNaoConsumidoPorOrigemTx(_ *gorm.DB, origem uuid.UUID) error {
	for id, c := range r.creditos {
		if c.OrigemAgendamentoID == origem && c.Disponivel() {
			delete(r.creditos, id)
		}
	}
	return nil
}

func (r *stubCreditoRepo) ListarPorPaciente(_ context.Context, clinicaID, pacienteID uuid.UUID, apenasDisponiveis bool) ([]model.CreditoSessao, error) {
	var out []model.CreditoSessao
	for _, c := range r.creditos {
		if c.ClinicaID != clinicaID || c.PacienteID != pacienteID {
			continue
		}
		if apenasDisponiveis && !c.Disponivel() {
			continue
		}
		out = append(out, *c)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.Before(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

var _ repository.CreditoRepository = (*stubCreditoRepo)(nil)

type stubFaturaRepo struct {
	faturas map[uuid.UUID]*model.Fatura
}

func newStubFaturaRepo() *stubFaturaRepo {
	return &stubFaturaRepo{faturas: make(map[uuid.UUID]*model.Fatura)}
}

func (r *stubFaturaRepo) add(f *model.Fatura) *model.Fatura {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.faturas[f.ID] = f
	return f
}

func (r *stubFaturaRepo) FindByID(_ context.Context, clinicaID, id uuid.UUID) (*model.Fatura, error) {
	f, ok := r.faturas[id]
	if !ok || f.ClinicaID != clinicaID {
		return nil, errors.New("not found")
	}
	return f, nil
}

func (r *stubFaturaRepo) ListByProfissionalMes(_ context.Context, clinicaID, profissionalID uuid.UUID, mes, ano int) ([]model.Fatura, error) {
	var out []model.Fatura
	for _, f := range r.faturas {
		if f.ClinicaID != clinicaID || f.ProfissionalID != profissionalID {
			continue
		}
		if f.MesReferencia != mes || f.AnoReferencia != ano {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

func (r *stubFaturaRepo) CreateTx(_ *gorm.DB, f *model.Fatura) error {
	r.add(f)
	for i := range f.Itens {
		if f.Itens[i].ID == uuid.Nil {
			f.Itens[i].ID = uuid.New()
		}
		f.Itens[i].FaturaID = f.ID
	}
	return nil
}

func (r *stubFaturaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.faturas, id)
	return nil
}

func (r *stubFaturaRepo) AddItemTx(_ *gorm.DB, item *model.FaturaItem) error {
	f, ok := r.faturas[item.FaturaID]
	if !ok {
		return errors.New("fatura not found")
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.Itens = append(f.Itens, *item)
	return nil
}

func (r *stubFaturaRepo) AtualizarTotaisTx(_ *gorm.DB, id uuid.UUID, totalSessoes, creditos, extras int, valorTotal decimal.Decimal) error {
	f, ok := r.faturas[id]
	if !ok {
		return errors.New("fatura not found")
	}
	f.TotalSessoes = totalSessoes
	f.CreditosAplicados = creditos
	f.ExtrasAdicionados = extras
	f.ValorTotal = valorTotal
	return nil
}

func (r *stubFaturaRepo) AtualizarStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	f, ok := r.faturas[id]
	if !ok {
		return errors.New("fatura not found")
	}
	f.Status = status
	return nil
}

func (r *stubFaturaRepo) DB() *gorm.DB { return nil }

var _ repository.FaturaRepository = (*stubFaturaRepo)(nil)

type stubProfissionalRepo struct {
	profissionais map[uuid.UUID]*model.Profissional
}

func newStubProfissionalRepo() *stubProfissionalRepo {
	return &stubProfissionalRepo{profissionais: make(map[uuid.UUID]*model.Profissional)}
}

func (r *stubProfissionalRepo) add(p *model.Profissional) *model.Profissional {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.profissionais[p.ID] = p
	return p
}

func (r *stubProfissionalRepo) FindByID(_ context.Context, clinicaID, id uuid.UUID) (*model.Profissional, error) {
	p, ok := r.profissionais[id]
	if !ok || p.ClinicaID != clinicaID {
		return nil, errors.New("not found")
	}
	return p, nil
}

var _ repository.ProfissionalRepository = (*stubProfissionalRepo)(nil)

type stubClinicaRepo struct {
	clinicas map[uuid.UUID]*model.Clinica
}

func newStubClinicaRepo() *stubClinicaRepo {
	return &stubClinicaRepo{clinicas: make(map[uuid.UUID]*model.Clinica)}
}

func (r *stubClinicaRepo) add(c *model.Clinica) *model.Clinica {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clinicas[c.ID] = c
	return c
}

func (r *stubClinicaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Clinica, error) {
	c, ok := r.clinicas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

var _ repository.ClinicaRepository = (*stubClinicaRepo)(nil)

type stubRecorrenciaRepo struct {
	recorrencias []model.Recorrencia
}

func (r *stubRecorrenciaRepo) ListByProfissional(_ context.Context, _, profissionalID uuid.UUID) ([]model.Recorrencia, error) {
	var out []model.Recorrencia
	for _, rec := range r.recorrencias {
		if rec.ProfissionalID == profissionalID {
			out = append(out, rec)
		}
	}
	return out, nil
}

var _ repository.RecorrenciaRepository = (*stubRecorrenciaRepo)(nil)
