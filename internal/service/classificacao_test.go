package service

import (
	"testing"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agComStatus(pacienteID *uuid.UUID, tipo string, status model.Status) model.Agendamento {
	return model.Agendamento{
		ID:         uuid.New(),
		PacienteID: pacienteID,
		Tipo:       tipo,
		Status:     status,
	}
}

func TestClassificarAgendamentos(t *testing.T) {
	pacienteID := uuid.New()
	p := &pacienteID

	finalizado := agComStatus(p, model.TipoConsulta, model.StatusFinalizado)
	grupoFinalizado := agComStatus(p, model.TipoGrupo, model.StatusFinalizado)
	acordado := agComStatus(p, model.TipoConsulta, model.StatusCanceladoAcordado)
	falta := agComStatus(p, model.TipoConsulta, model.StatusCanceladoFalta)
	canceladoProf := agComStatus(p, model.TipoConsulta, model.StatusCanceladoProfissional)
	naoCompareceu := agComStatus(p, model.TipoConsulta, model.StatusNaoCompareceu)
	agendado := agComStatus(p, model.TipoConsulta, model.StatusAgendado)
	bloqueio := agComStatus(nil, model.TipoBloqueio, model.StatusAgendado)
	semPaciente := agComStatus(nil, model.TipoConsulta, model.StatusFinalizado)

	cls := ClassificarAgendamentos([]model.Agendamento{
		finalizado, grupoFinalizado, acordado, falta,
		canceladoProf, naoCompareceu, agendado, bloqueio, semPaciente,
	})

	require.Len(t, cls.Faturaveis, 2)
	assert.Equal(t, finalizado.ID, cls.Faturaveis[0].ID)
	assert.Equal(t, grupoFinalizado.ID, cls.Faturaveis[1].ID)

	require.Len(t, cls.GeradoresDeCredito, 2)
	assert.Equal(t, acordado.ID, cls.GeradoresDeCredito[0].ID)
	assert.Equal(t, falta.ID, cls.GeradoresDeCredito[1].ID)

	// Clinic-caused cancellation, no-show, open statuses, blocks and
	// patient-less sessions all stay off the invoice.
	assert.Len(t, cls.Excluidos, 5)
}

func TestClassificarAgendamentos_Vazio(t *testing.T) {
	cls := ClassificarAgendamentos(nil)
	assert.Empty(t, cls.Faturaveis)
	assert.Empty(t, cls.GeradoresDeCredito)
	assert.Empty(t, cls.Excluidos)
}
