package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"energy-trading-api/internal/core/cache"
	"energy-trading-api/internal/domain"
	"energy-trading-api/pkg/utils"
)

const invoiceCacheTTL = 30 * time.Second

// LedgerService 交易/发票/余额的只读入口
type LedgerService struct {
	users  domain.UserRepository
	ledger domain.LedgerRepository
	cache  *cache.Cache // 可为 nil（未配置 redis 时直接回源）
}

func NewLedgerService(users domain.UserRepository, ledger domain.LedgerRepository, c *cache.Cache) *LedgerService {
	return &LedgerService{users: users, ledger: ledger, cache: c}
}

// Invoices 按用户取发票，短 TTL 缓存兜住重复拉取
func (s *LedgerService) Invoices(ctx context.Context, userID string, limit int) ([]domain.Invoice, error) {
	uid, err := utils.ParseID(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	load := func(ctx context.Context) (*[]domain.Invoice, error) {
		out, err := s.ledger.InvoicesByUser(ctx, uid, limit)
		if err != nil {
			return nil, err
		}
		return &out, nil
	}
	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return *out, nil
	}
	key := fmt.Sprintf("invoices:%s:%d", uid, limit)
	out, err := cache.GetOrLoadJSON[[]domain.Invoice](s.cache, ctx, key, invoiceCacheTTL, load)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	return *out, nil
}

func (s *LedgerService) Transactions(ctx context.Context, userID string, limit int) ([]domain.EnergyTransaction, error) {
	uid, err := utils.ParseID(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return s.ledger.TransactionsByUser(ctx, uid, limit)
}

func (s *LedgerService) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	uid, err := utils.ParseID(userID)
	if err != nil {
		return decimal.Zero, domain.ErrUserNotFound
	}
	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return decimal.Zero, err
	}
	if user == nil {
		return decimal.Zero, domain.ErrUserNotFound
	}
	return user.WalletBalance, nil
}
