package service

import (
	"context"
	"testing"
	"time"

	"github.com/marvingbh/clinica-sub005/internal/apierror"
	"github.com/marvingbh/clinica-sub005/internal/dto"
	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Pure builders ─────────────────────────────────────────────────────────────

func TestMontarItensFatura(t *testing.T) {
	pacienteID := uuid.New()
	valorPadrao := dec("200")
	override := dec("250")

	consulta := model.Agendamento{
		ID: uuid.New(), PacienteID: &pacienteID, Tipo: model.TipoConsulta,
		Status: model.StatusFinalizado,
		Inicio: time.Date(2025, 3, 3, 14, 0, 0, 0, time.UTC),
	}
	comOverride := model.Agendamento{
		ID: uuid.New(), PacienteID: &pacienteID, Tipo: model.TipoConsulta,
		Status: model.StatusFinalizado, Valor: &override,
		Inicio: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
	}
	grupo := model.Agendamento{
		ID: uuid.New(), PacienteID: &pacienteID, Tipo: model.TipoGrupo,
		Status: model.StatusFinalizado,
		Inicio: time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC),
	}
	reuniao := model.Agendamento{
		ID: uuid.New(), PacienteID: &pacienteID, Tipo: model.TipoReuniao,
		Status: model.StatusFinalizado,
		Inicio: time.Date(2025, 3, 20, 11, 0, 0, 0, time.UTC),
	}
	cls := Classificacao{Faturaveis: []model.Agendamento{consulta, comOverride, grupo, reuniao}}
	creditos := []model.CreditoSessao{{ID: uuid.New()}}

	itens := MontarItensFatura(cls, valorPadrao, creditos, false)

	require.Len(t, itens, 5)
	assert.Equal(t, model.ItemSessaoRegular, itens[0].Tipo)
	assert.True(t, itens[0].Total.Equal(dec("200")))
	assert.Equal(t, "Sessão", itens[0].Descricao)

	// Per-session price override wins over the patient default.
	assert.True(t, itens[1].Total.Equal(dec("250")))

	assert.Equal(t, model.ItemSessaoGrupo, itens[2].Tipo)
	assert.Equal(t, "Sessão em grupo", itens[2].Descricao)
	assert.Equal(t, model.ItemReuniaoEscola, itens[3].Tipo)
	assert.Equal(t, "Reunião escolar", itens[3].Descricao)

	// Credit line: negative, no appointment link.
	assert.Equal(t, model.ItemCredito, itens[4].Tipo)
	assert.True(t, itens[4].Total.Equal(dec("-200")))
	assert.Nil(t, itens[4].AgendamentoID)
}

func TestMontarItensFatura_MostrarDias(t *testing.T) {
	pacienteID := uuid.New()
	cls := Classificacao{Faturaveis: []model.Agendamento{{
		ID: uuid.New(), PacienteID: &pacienteID, Tipo: model.TipoConsulta,
		Status: model.StatusFinalizado,
		Inicio: time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC),
	}}}

	itens := MontarItensFatura(cls, dec("180"), nil, true)

	require.Len(t, itens, 1)
	assert.Equal(t, "Sessão 05/03", itens[0].Descricao)
}

func TestCalcularTotais(t *testing.T) {
	itens := []model.FaturaItem{
		{Tipo: model.ItemSessaoRegular, Total: dec("200")},
		{Tipo: model.ItemSessaoRegular, Total: dec("200")},
		{Tipo: model.ItemSessaoGrupo, Total: dec("150")},
		{Tipo: model.ItemSessaoExtra, Total: dec("220")},
		{Tipo: model.ItemReuniaoEscola, Total: dec("300")},
		{Tipo: model.ItemCredito, Total: dec("-200")},
	}

	totais := CalcularTotais(itens)

	assert.Equal(t, 4, totais.TotalSessoes) // regulares + grupo + extra
	assert.Equal(t, 1, totais.CreditosAplicados)
	assert.Equal(t, 2, totais.ExtrasAdicionados) // extra + reunião
	assert.True(t, totais.ValorTotal.Equal(dec("870")), "total: %s", totais.ValorTotal)
}

func TestVerificarConsistencia(t *testing.T) {
	f := &model.Fatura{
		ValorTotal: dec("400"),
		Itens: []model.FaturaItem{
			{Total: dec("200")},
			{Total: dec("200")},
		},
	}
	require.NoError(t, VerificarConsistencia(f))

	f.ValorTotal = dec("399")
	err := VerificarConsistencia(f)
	var ce *apierror.ConsistencyError
	require.ErrorAs(t, err, &ce)
}

// ── Batch generation fixture ──────────────────────────────────────────────────

type faturaFixture struct {
	svc       *faturaService
	faturas   *stubFaturaRepo
	ags       *stubAgendamentoRepo
	creditos  *stubCreditoRepo
	pacientes *stubPacienteRepo
	profs     *stubProfissionalRepo
	clinicas  *stubClinicaRepo
	recs      *stubRecorrenciaRepo

	clinicaID  uuid.UUID
	profID     uuid.UUID
	pacienteID uuid.UUID
}

func newFaturaFixture(t *testing.T) *faturaFixture {
	t.Helper()
	f := &faturaFixture{
		faturas:   newStubFaturaRepo(),
		ags:       newStubAgendamentoRepo(),
		creditos:  newStubCreditoRepo(),
		pacientes: newStubPacienteRepo(),
		profs:     newStubProfissionalRepo(),
		clinicas:  newStubClinicaRepo(),
		recs:      &stubRecorrenciaRepo{},
	}
	f.clinicaID = f.clinicas.add(&model.Clinica{
		Nome:           "Clínica Demo",
		MensagemFatura: "Olá {{paciente}}, total R$ {{valor}} de {{mes}}/{{ano}}, vencimento {{vencimento}}.",
	}).ID
	f.profID = f.profs.add(&model.Profissional{
		ClinicaID: f.clinicaID, Nome: "Dra. Lúcia",
		PercentualRepasse: dec("80"),
	}).ID
	f.pacienteID = f.pacientes.add(&model.Paciente{
		ClinicaID: f.clinicaID, Nome: "Maria",
		ValorSessao: dec("200"),
	}).ID

	svc := NewFaturaService(f.faturas, f.ags, f.creditos, f.pacientes,
		f.profs, f.clinicas, f.recs, nil, nil).(*faturaService)
	svc.agora = func() time.Time { return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC) }
	f.creditos.agora = svc.agora
	f.svc = svc
	return f
}

// sessao creates a March/2025 appointment for the fixture's patient.
func (f *faturaFixture) sessao(dia int, status model.Status) *model.Agendamento {
	return f.ags.add(&model.Agendamento{
		ClinicaID:      f.clinicaID,
		ProfissionalID: f.profID,
		PacienteID:     &f.pacienteID,
		Tipo:           model.TipoConsulta,
		Status:         status,
		Inicio:         time.Date(2025, 3, dia, 14, 0, 0, 0, time.UTC),
		Fim:            time.Date(2025, 3, dia, 15, 0, 0, 0, time.UTC),
	})
}

// creditoAnterior banks a credit created before March 1st, redeemable in March.
func (f *faturaFixture) creditoAnterior(em time.Time) *model.CreditoSessao {
	return f.creditos.add(&model.CreditoSessao{
		ClinicaID:           f.clinicaID,
		ProfissionalID:      f.profID,
		PacienteID:          f.pacienteID,
		OrigemAgendamentoID: uuid.New(),
		CreatedAt:           em,
	})
}

func (f *faturaFixture) gerar(t *testing.T) *dto.GerarFaturasResponse {
	t.Helper()
	resp, err := f.svc.GerarFaturas(context.Background(), f.clinicaID, dto.GerarFaturasRequest{
		ProfissionalID: f.profID.String(), Mes: 3, Ano: 2025,
	})
	require.NoError(t, err)
	return resp
}

// ── Batch generation tests ────────────────────────────────────────────────────

func TestGerarFaturas_MesSimples(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)
	f.sessao(10, model.StatusFinalizado)
	f.sessao(17, model.StatusFinalizado)

	resp := f.gerar(t)

	require.Len(t, resp.Geradas, 1)
	fat := resp.Geradas[0]
	assert.Equal(t, 3, fat.TotalSessoes)
	assert.Equal(t, 0, fat.CreditosAplicados)
	assert.True(t, fat.ValorTotal.Equal(dec("600")), "total: %s", fat.ValorTotal)
	assert.Equal(t, "PENDENTE", fat.Status)
	assert.Len(t, fat.Itens, 3)
	// Due date: configured day (default 10) of the following month.
	assert.Equal(t, "2025-04-10", fat.Vencimento)
	assert.Contains(t, fat.Mensagem, "Olá Maria")
	assert.Contains(t, fat.Mensagem, "600.00")
	assert.Contains(t, fat.Mensagem, "março/2025")
}

func TestGerarFaturas_AplicaCreditoAnterior(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)
	f.sessao(10, model.StatusFinalizado)
	credito := f.creditoAnterior(time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC))

	resp := f.gerar(t)

	require.Len(t, resp.Geradas, 1)
	fat := resp.Geradas[0]
	assert.Equal(t, 2, fat.TotalSessoes)
	assert.Equal(t, 1, fat.CreditosAplicados)
	// 2 × 200 − 200 credit.
	assert.True(t, fat.ValorTotal.Equal(dec("200")), "total: %s", fat.ValorTotal)
	assert.Len(t, fat.Itens, 3)

	consumido := f.creditos.creditos[credito.ID]
	require.NotNil(t, consumido.ConsumidoPorFaturaID)
	assert.Equal(t, fat.ID, consumido.ConsumidoPorFaturaID.String())
}

func TestGerarFaturas_CreditoDoProprioMesNaoEhAplicado(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)
	// Cancelled mid-March: mints a credit for April, never for March itself.
	f.sessao(14, model.StatusCanceladoFalta)

	resp := f.gerar(t)

	require.Len(t, resp.Geradas, 1)
	fat := resp.Geradas[0]
	assert.Equal(t, 0, fat.CreditosAplicados)
	assert.True(t, fat.ValorTotal.Equal(dec("200")))

	// The credit exists, available for the next month's batch.
	creditos, err := f.creditos.ListarPorPaciente(context.Background(), f.clinicaID, f.pacienteID, true)
	require.NoError(t, err)
	assert.Len(t, creditos, 1)
}

func TestGerarFaturas_CreditosFIFO(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)
	f.sessao(10, model.StatusFinalizado)
	antigo := f.creditoAnterior(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	recente := f.creditoAnterior(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC))
	// Pool of 2 covers both sessions; the oldest is consumed first but both go.
	resp := f.gerar(t)

	require.Len(t, resp.Geradas, 1)
	assert.Equal(t, 2, resp.Geradas[0].CreditosAplicados)
	assert.True(t, resp.Geradas[0].ValorTotal.IsZero())
	assert.False(t, f.creditos.creditos[antigo.ID].Disponivel())
	assert.False(t, f.creditos.creditos[recente.ID].Disponivel())
}

func TestGerarFaturas_SemFaturaveisNaoCriaFatura(t *testing.T) {
	f := newFaturaFixture(t)
	// Only cancellations and open sessions: no invoice at all, but the
	// agreed cancellation still banks its credit.
	f.sessao(3, model.StatusCanceladoAcordado)
	f.sessao(10, model.StatusAgendado)

	resp := f.gerar(t)

	assert.Empty(t, resp.Geradas)
	assert.Empty(t, f.faturas.faturas)

	creditos, err := f.creditos.ListarPorPaciente(context.Background(), f.clinicaID, f.pacienteID, true)
	require.NoError(t, err)
	assert.Len(t, creditos, 1)
}

func TestGerarFaturas_RegeneracaoEhIdempotente(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)
	f.sessao(10, model.StatusFinalizado)
	credito := f.creditoAnterior(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	primeira := f.gerar(t)
	require.Len(t, primeira.Geradas, 1)

	segunda := f.gerar(t)
	require.Len(t, segunda.Geradas, 1)

	// Still exactly one invoice; the credit was released and re-consumed by
	// the new one, never double-counted.
	assert.Len(t, f.faturas.faturas, 1)
	consumido := f.creditos.creditos[credito.ID]
	require.NotNil(t, consumido.ConsumidoPorFaturaID)
	assert.Equal(t, segunda.Geradas[0].ID, consumido.ConsumidoPorFaturaID.String())
	assert.True(t, segunda.Geradas[0].ValorTotal.Equal(dec("200")))
}

func TestGerarFaturas_PulaFaturada(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)

	primeira := f.gerar(t)
	require.Len(t, primeira.Geradas, 1)
	faturaID := uuid.MustParse(primeira.Geradas[0].ID)

	// Invoice leaves PENDENTE — billed history is immutable.
	require.NoError(t, f.faturas.AtualizarStatusTx(nil, faturaID, model.FaturaEnviado))

	// More sessions appear; regeneration must not touch the sent invoice.
	f.sessao(20, model.StatusFinalizado)
	segunda := f.gerar(t)

	assert.Empty(t, segunda.Geradas)
	require.Len(t, segunda.Puladas, 1)
	assert.Equal(t, faturaID.String(), segunda.Puladas[0])
	assert.Len(t, f.faturas.faturas, 1)
}

func TestGerarFaturas_ProfissionalInexistente(t *testing.T) {
	f := newFaturaFixture(t)

	_, err := f.svc.GerarFaturas(context.Background(), f.clinicaID, dto.GerarFaturasRequest{
		ProfissionalID: uuid.NewString(), Mes: 3, Ano: 2025,
	})

	var nfe *apierror.NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestVencimentoPara_ViradaDeAno(t *testing.T) {
	f := newFaturaFixture(t)

	v := f.svc.vencimentoPara(12, 2025)

	assert.Equal(t, 2026, v.Year())
	assert.Equal(t, time.January, v.Month())
	assert.Equal(t, 10, v.Day())
}

// ── Post-generation operations ────────────────────────────────────────────────

func TestAdicionarItem_RecalculaTotais(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)
	resp := f.gerar(t)
	faturaID := uuid.MustParse(resp.Geradas[0].ID)

	atualizada, err := f.svc.AdicionarItem(context.Background(), f.clinicaID, faturaID, dto.AdicionarItemRequest{
		Tipo:          model.ItemReuniaoEscola,
		Descricao:     "Reunião escolar extraordinária",
		Quantidade:    1,
		ValorUnitario: dec("300"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, atualizada.TotalSessoes)
	assert.Equal(t, 1, atualizada.ExtrasAdicionados)
	assert.True(t, atualizada.ValorTotal.Equal(dec("500")), "total: %s", atualizada.ValorTotal)
	assert.Len(t, atualizada.Itens, 2)
}

func TestAdicionarItem_FaturaPagaRejeita(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)
	resp := f.gerar(t)
	faturaID := uuid.MustParse(resp.Geradas[0].ID)
	require.NoError(t, f.faturas.AtualizarStatusTx(nil, faturaID, model.FaturaPago))

	_, err := f.svc.AdicionarItem(context.Background(), f.clinicaID, faturaID, dto.AdicionarItemRequest{
		Tipo: model.ItemSessaoExtra, Descricao: "extra", Quantidade: 1, ValorUnitario: dec("100"),
	})

	assert.Error(t, err)
}

func TestExcluirFatura_LiberaCreditos(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)
	credito := f.creditoAnterior(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	resp := f.gerar(t)
	faturaID := uuid.MustParse(resp.Geradas[0].ID)
	require.False(t, f.creditos.creditos[credito.ID].Disponivel())

	require.NoError(t, f.svc.ExcluirFatura(context.Background(), f.clinicaID, faturaID))

	assert.Empty(t, f.faturas.faturas)
	assert.True(t, f.creditos.creditos[credito.ID].Disponivel(), "crédito deveria voltar ao saldo")
}

func TestAtualizarStatusFatura_SomenteAvanca(t *testing.T) {
	f := newFaturaFixture(t)
	f.sessao(3, model.StatusFinalizado)
	resp := f.gerar(t)
	faturaID := uuid.MustParse(resp.Geradas[0].ID)

	atualizada, err := f.svc.AtualizarStatus(context.Background(), f.clinicaID, faturaID, model.FaturaPago)
	require.NoError(t, err)
	assert.Equal(t, model.FaturaPago, atualizada.Status)

	// Backward movement is rejected.
	_, err = f.svc.AtualizarStatus(context.Background(), f.clinicaID, faturaID, model.FaturaEnviado)
	assert.Error(t, err)
}

func TestListar_OrdenaPorRecorrencia(t *testing.T) {
	f := newFaturaFixture(t)
	// Second patient with an earlier weekly slot than Maria's.
	segundo := f.pacientes.add(&model.Paciente{
		ClinicaID: f.clinicaID, Nome: "Bruno", ValorSessao: dec("180"),
	})
	f.recs.recorrencias = []model.Recorrencia{
		{ProfissionalID: f.profID, PacienteID: f.pacienteID, DiaSemana: 5, HoraInicio: "14:00"},
		{ProfissionalID: f.profID, PacienteID: segundo.ID, DiaSemana: 1, HoraInicio: "09:00"},
	}
	f.sessao(3, model.StatusFinalizado)
	f.ags.add(&model.Agendamento{
		ClinicaID:      f.clinicaID,
		ProfissionalID: f.profID,
		PacienteID:     &segundo.ID,
		Tipo:           model.TipoConsulta,
		Status:         model.StatusFinalizado,
		Inicio:         time.Date(2025, 3, 24, 9, 0, 0, 0, time.UTC),
		Fim:            time.Date(2025, 3, 24, 10, 0, 0, 0, time.UTC),
	})
	f.gerar(t)

	lista, err := f.svc.Listar(context.Background(), f.clinicaID, dto.FaturaFilter{
		ProfissionalID: f.profID.String(), Mes: 3, Ano: 2025,
	})

	require.NoError(t, err)
	require.Len(t, lista, 2)
	// Monday slot (Bruno) prints before Friday slot (Maria).
	assert.Equal(t, "Bruno", lista[0].PacienteNome)
	assert.Equal(t, "Maria", lista[1].PacienteNome)
}
