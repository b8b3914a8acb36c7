package repository

import (
	"context"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FaturaRepository interface {
	FindByID(ctx context.Context, clinicaID, id uuid.UUID) (*model.Fatura, error)
	// ListByProfissionalMes returns all invoices of the reference month with
	// items preloaded, in no particular order — the service sorts by recurrence.
	ListByProfissionalMes(ctx context.Context, clinicaID, profissionalID uuid.UUID, mes, ano int) ([]model.Fatura, error)
	CreateTx(tx *gorm.DB, f *model.Fatura) error
	// DeleteTx removes the invoice and its items (FK cascade).
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	AddItemTx(tx *gorm.DB, item *model.FaturaItem) error
	// AtualizarTotaisTx rewrites the aggregate columns after recalculation.
	AtualizarTotaisTx(tx *gorm.DB, id uuid.UUID, totalSessoes, creditos, extras int, valorTotal decimal.Decimal) error
	AtualizarStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	DB() *gorm.DB
}

type faturaRepo struct{ db *gorm.DB }

func NewFaturaRepository(db *gorm.DB) FaturaRepository { return &faturaRepo{db: db} }

func (r *faturaRepo) DB() *gorm.DB { return r.db }

func (r *faturaRepo) FindByID(ctx context.Context, clinicaID, id uuid.UUID) (*model.Fatura, error) {
	var f model.Fatura
	err := r.db.WithContext(ctx).
		Preload("Itens").
		Where("clinica_id = ?", clinicaID).
		First(&f, id).Error
	return &f, err
}

func (r *faturaRepo) ListByProfissionalMes(ctx context.Context, clinicaID, profissionalID uuid.UUID, mes, ano int) ([]model.Fatura, error) {
	var faturas []model.Fatura
	err := r.db.WithContext(ctx).
		Preload("Itens").
		Where("clinica_id = ? AND profissional_id = ?", clinicaID, profissionalID).
		Where("mes_referencia = ? AND ano_referencia = ?", mes, ano).
		Find(&faturas).Error
	return faturas, err
}

func (r *faturaRepo) CreateTx(tx *gorm.DB, f *model.Fatura) error {
	return tx.Create(f).Error
}

func (r *faturaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("fatura_id = ?", id).Delete(&model.FaturaItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Fatura{}, id).Error
}

func (r *faturaRepo) AddItemTx(tx *gorm.DB, item *model.FaturaItem) error {
	return tx.Create(item).Error
}

func (r *faturaRepo) AtualizarTotaisTx(tx *gorm.DB, id uuid.UUID, totalSessoes, creditos, extras int, valorTotal decimal.Decimal) error {
	return tx.Model(&model.Fatura{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_sessoes":      totalSessoes,
			"creditos_aplicados": creditos,
			"extras_adicionados": extras,
			"valor_total":        valorTotal,
		}).Error
}

func (r *faturaRepo) AtualizarStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Fatura{}).
		Where("id = ?", id).
		Update("status", status).Error
}
