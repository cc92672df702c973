package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository 账户仓储。FindByEmail 为精确匹配（区分大小写），
// 未命中返回 (nil, nil)，调用方自行判空
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	CreateWithAddress(ctx context.Context, a *Address, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q string, offset, limit int, withDeleted bool) ([]User, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// LedgerRepository 交易与发票的只读查询
type LedgerRepository interface {
	InvoicesByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Invoice, error)
	TransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]EnergyTransaction, error)
}
