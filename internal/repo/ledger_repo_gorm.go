package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"energy-trading-api/internal/domain"
)

type LedgerRepo struct{ db *gorm.DB }

func NewLedgerRepo(db *gorm.DB) *LedgerRepo { return &LedgerRepo{db: db} }

// InvoicesByUser 最新在前，带关联交易
func (r *LedgerRepo) InvoicesByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Invoice, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Transaction").
		Where("user_id = ?", userID).
		Order("issued_at desc").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// TransactionsByUser 用户作为买方或卖方参与的交易
func (r *LedgerRepo) TransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.EnergyTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var txs []domain.EnergyTransaction
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("transaction_date desc").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}
