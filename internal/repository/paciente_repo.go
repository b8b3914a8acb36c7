package repository

import (
	"context"
	"time"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PacienteRepository interface {
	FindByID(ctx context.Context, clinicaID, id uuid.UUID) (*model.Paciente, error)
	// AtualizarUltimaVisitaTx refreshes UltimaVisitaEm inside the status
	// transition transaction.
	AtualizarUltimaVisitaTx(tx *gorm.DB, id uuid.UUID, em time.Time) error
}

type pacienteRepo struct{ db *gorm.DB }

func NewPacienteRepository(db *gorm.DB) PacienteRepository { return &pacienteRepo{db: db} }

func (r *pacienteRepo) FindByID(ctx context.Context, clinicaID, id uuid.UUID) (*model.Paciente, error) {
	var p model.Paciente
	err := r.db.WithContext(ctx).
		Where("clinica_id = ?", clinicaID).
		First(&p, id).Error
	return &p, err
}

func (r *pacienteRepo) AtualizarUltimaVisitaTx(tx *gorm.DB, id uuid.UUID, em time.Time) error {
	return tx.Model(&model.Paciente{}).
		Where("id = ?", id).
		Update("ultima_visita_em", em).Error
}
