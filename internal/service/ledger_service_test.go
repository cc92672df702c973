package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-trading-api/internal/domain"
	"energy-trading-api/internal/repo"
)

func TestLedgerService(t *testing.T) {
	accounts, db := setupService(t)
	ledger := NewLedgerService(repo.NewUserRepo(db), repo.NewLedgerRepo(db), nil)
	ctx := context.Background()

	alice, err := accounts.Register(ctx, aliceInput())
	require.NoError(t, err)

	bobIn := aliceInput()
	bobIn.Name = "Bob"
	bobIn.Email = "bob@example.com"
	bob, err := accounts.Register(ctx, bobIn)
	require.NoError(t, err)

	offer := &domain.Offer{
		SellerID:    bob.ID,
		QuantityKWh: decimal.RequireFromString("15"),
		PricePerKWh: decimal.RequireFromString("0.10"),
	}
	require.NoError(t, db.Create(offer).Error)

	tx := &domain.EnergyTransaction{
		BuyerID:     alice.ID,
		SellerID:    bob.ID,
		OfferID:     offer.ID,
		QuantityKWh: decimal.RequireFromString("15"),
		TotalPrice:  decimal.RequireFromString("1.50"),
	}
	require.NoError(t, db.Create(tx).Error)
	require.NoError(t, db.Create(&domain.Invoice{
		TransactionID: tx.ID,
		UserID:        alice.ID,
		Amount:        decimal.RequireFromString("1.50"),
	}).Error)

	t.Run("balance_defaults_to_zero", func(t *testing.T) {
		bal, err := ledger.Balance(ctx, alice.ID.String())
		require.NoError(t, err)
		assert.True(t, bal.Equal(decimal.Zero))
	})

	t.Run("balance_unknown_user", func(t *testing.T) {
		_, err := ledger.Balance(ctx, "00000000-0000-0000-0000-000000000001")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("invoices_without_cache", func(t *testing.T) {
		got, err := ledger.Invoices(ctx, alice.ID.String(), 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("1.50")))
	})

	t.Run("transactions_both_sides", func(t *testing.T) {
		forAlice, err := ledger.Transactions(ctx, alice.ID.String(), 10)
		require.NoError(t, err)
		require.Len(t, forAlice, 1)

		forBob, err := ledger.Transactions(ctx, bob.ID.String(), 10)
		require.NoError(t, err)
		require.Len(t, forBob, 1)
	})
}
