package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/domain"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/storage"
)

const pricePaise = 500 // ₹5 per account

func newTestShop(t *testing.T) *Shop {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "shop.json"), "")
	require.NoError(t, err)
	return NewShop(db, pricePaise)
}

func seedUser(t *testing.T, s *Shop, id domain.UserID, walletPaise int64) {
	t.Helper()
	ctx := context.Background()
	_, err := s.EnsureUser(ctx, id, "tester")
	require.NoError(t, err)
	err = s.store.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Users[id].Wallet = walletPaise
		return nil
	})
	require.NoError(t, err)
}

func seedStock(t *testing.T, s *Shop, n int) {
	t.Helper()
	accounts := make([]domain.Account, n)
	for i := range accounts {
		accounts[i] = domain.Account{
			Username: string(rune('a' + i)),
			Password: "pass",
			Email:    "x@y.com",
		}
	}
	_, err := s.AddStock(context.Background(), accounts)
	require.NoError(t, err)
}

func TestPurchaseSettlesWalletAndStock(t *testing.T) {
	// stock = 3, price = ₹5, wallet = ₹20 → buy 3 leaves ₹5 and empty stock
	ctx := context.Background()
	s := newTestShop(t)
	seedUser(t, s, "1", 2000)
	seedStock(t, s, 3)

	accounts, cost, err := s.Purchase(ctx, "1", 3)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
	assert.Equal(t, int64(1500), cost)
	assert.Equal(t, 0, s.StockCount())

	u, err := s.User("1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), u.Wallet)
	assert.Equal(t, int64(1500), u.TotalSpent)
	assert.Equal(t, domain.ModeIdle, u.Mode)

	txs := s.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TxPurchase, txs[0].Type)
	assert.Equal(t, int64(1500), txs[0].Amount)
	assert.Equal(t, 3, txs[0].Quantity)
}

func TestPurchaseAllocatesEachAccountOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)
	seedUser(t, s, "1", 10000)
	seedStock(t, s, 4)

	first, _, err := s.Purchase(ctx, "1", 2)
	require.NoError(t, err)
	second, _, err := s.Purchase(ctx, "1", 2)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, acc := range append(first, second...) {
		assert.False(t, seen[acc.Username], "account %q sold twice", acc.Username)
		seen[acc.Username] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 0, s.StockCount())
}

func TestPurchaseRejectionsMutateNothing(t *testing.T) {
	ctx := context.Background()

	assertUntouched := func(t *testing.T, s *Shop, wallet int64, stock int) {
		t.Helper()
		u, err := s.User("1")
		require.NoError(t, err)
		assert.Equal(t, wallet, u.Wallet)
		assert.Zero(t, u.TotalSpent)
		assert.Equal(t, stock, s.StockCount())
		assert.Empty(t, s.Transactions())
	}

	t.Run("quantity above stock", func(t *testing.T) {
		// stock = 1, wallet = ₹100 → buy 2 rejected, nothing changes
		s := newTestShop(t)
		seedUser(t, s, "1", 10000)
		seedStock(t, s, 1)

		_, _, err := s.Purchase(ctx, "1", 2)
		var oos *ErrOutOfStock
		require.ErrorAs(t, err, &oos)
		assert.Equal(t, 1, oos.Available)
		assertUntouched(t, s, 10000, 1)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		s := newTestShop(t)
		seedUser(t, s, "1", 400) // less than one account
		seedStock(t, s, 3)

		_, _, err := s.Purchase(ctx, "1", 1)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assertUntouched(t, s, 400, 3)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		s := newTestShop(t)
		seedUser(t, s, "1", 10000)
		seedStock(t, s, 3)

		_, _, err := s.Purchase(ctx, "1", 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		_, _, err = s.Purchase(ctx, "1", -2)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assertUntouched(t, s, 10000, 3)
	})
}

func TestTopupApproveCreditsExactlyOnce(t *testing.T) {
	// request ₹100, submit screenshot, approve twice → +₹100 exactly once
	ctx := context.Background()
	s := newTestShop(t)
	seedUser(t, s, "1", 0)

	topup, err := s.RequestTopup(ctx, "1", 10000)
	require.NoError(t, err)
	assert.Equal(t, domain.TopupOpen, topup.Status)

	submitted, err := s.AttachScreenshot(ctx, "1", "file-123")
	require.NoError(t, err)
	assert.Equal(t, domain.TopupSubmitted, submitted.Status)
	assert.Equal(t, "file-123", submitted.ScreenshotFileID)

	approved, err := s.ApproveTopup(ctx, topup.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TopupApproved, approved.Status)

	_, err = s.ApproveTopup(ctx, topup.ID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	u, err := s.User("1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), u.Wallet)

	txs := s.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TxTopup, txs[0].Type)
}

func TestTopupDeclineLeavesWalletUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)
	seedUser(t, s, "1", 500)

	topup, err := s.RequestTopup(ctx, "1", 10000)
	require.NoError(t, err)

	declined, err := s.DeclineTopup(ctx, topup.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TopupDeclined, declined.Status)

	_, err = s.DeclineTopup(ctx, topup.ID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	_, err = s.ApproveTopup(ctx, topup.ID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	u, err := s.User("1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), u.Wallet)
	assert.Empty(t, s.Transactions())
}

func TestNewTopupSupersedesOpenOne(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)
	seedUser(t, s, "1", 0)

	first, err := s.RequestTopup(ctx, "1", 5000)
	require.NoError(t, err)
	second, err := s.RequestTopup(ctx, "1", 7000)
	require.NoError(t, err)

	// the old request can no longer be approved
	_, err = s.ApproveTopup(ctx, first.ID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	unresolved, err := s.UnresolvedTopup("1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, unresolved.ID)
	assert.Equal(t, int64(7000), unresolved.Amount)
}

func TestAttachScreenshotWithoutPendingTopup(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)
	seedUser(t, s, "1", 0)

	_, err := s.AttachScreenshot(ctx, "1", "file-123")
	assert.ErrorIs(t, err, ErrNoPendingTopup)
}

func TestParseStockLines(t *testing.T) {
	text := "alice,secret,alice@mail.com\n\nbob, hunter2 , bob@mail.com\nbroken-line\n"
	accounts, skipped := ParseStockLines(text)
	require.Len(t, accounts, 2)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, domain.Account{Username: "alice", Password: "secret", Email: "alice@mail.com"}, accounts[0])
	assert.Equal(t, domain.Account{Username: "bob", Password: "hunter2", Email: "bob@mail.com"}, accounts[1])
}

func TestEnsureUserIsLazyAndIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)

	u, err := s.EnsureUser(ctx, "7", "first")
	require.NoError(t, err)
	assert.Zero(t, u.Wallet)
	assert.Equal(t, domain.ModeIdle, u.Mode)

	seedUser(t, s, "7", 1234)
	again, err := s.EnsureUser(ctx, "7", "renamed")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), again.Wallet)
	assert.Equal(t, "renamed", again.Username)
	assert.Len(t, s.Users(), 1)
}

func TestExportTransactionsCSV(t *testing.T) {
	ctx := context.Background()
	s := newTestShop(t)
	seedUser(t, s, "1", 2000)
	seedStock(t, s, 1)

	_, _, err := s.Purchase(ctx, "1", 1)
	require.NoError(t, err)

	out, err := s.ExportTransactionsCSV()
	require.NoError(t, err)
	assert.Contains(t, string(out), "tx_id,type,user_id,amount_paise,quantity,status,created_at")
	assert.Contains(t, string(out), "purchase,1,500,1,completed")
}
