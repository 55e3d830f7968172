package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/domain"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/storage"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be a positive number")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrNoPendingTopup    = errors.New("no pending top-up for user")
	ErrAlreadyProcessed  = errors.New("top-up already processed")
)

// ErrOutOfStock reports how many accounts are actually available.
type ErrOutOfStock struct {
	Available int
}

func (e *ErrOutOfStock) Error() string {
	return fmt.Sprintf("only %d account(s) in stock", e.Available)
}

// Shop holds the business rules: stock allocation, wallet settlement and
// the top-up verification handshake. Every state change runs inside a
// single store Update, so each operation is all-or-nothing.
type Shop struct {
	store *storage.FileDB
	price int64 // paise per account
}

func NewShop(store *storage.FileDB, pricePaise int64) *Shop {
	return &Shop{store: store, price: pricePaise}
}

func (s *Shop) Price() int64 { return s.price }

func now() time.Time { return time.Now().UTC() }

// EnsureUser creates the user record on first contact and keeps the
// Telegram username fresh. Users are never deleted.
func (s *Shop) EnsureUser(ctx context.Context, id domain.UserID, username string) (*domain.User, error) {
	var out domain.User
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		u, ok := snap.Users[id]
		if !ok {
			u = &domain.User{ID: id, Mode: domain.ModeIdle, CreatedAt: now()}
			snap.Users[id] = u
		}
		if username != "" {
			u.Username = username
		}
		out = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Shop) User(id domain.UserID) (*domain.User, error) {
	var out *domain.User
	s.store.View(func(snap *domain.Snapshot) error {
		if u, ok := snap.Users[id]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	if out == nil {
		return nil, storage.ErrNotFound
	}
	return out, nil
}

func (s *Shop) SetMode(ctx context.Context, id domain.UserID, mode domain.Mode) error {
	return s.store.Update(ctx, func(snap *domain.Snapshot) error {
		u, ok := snap.Users[id]
		if !ok {
			return storage.ErrNotFound
		}
		u.Mode = mode
		return nil
	})
}

func (s *Shop) StockCount() int {
	var n int
	s.store.View(func(snap *domain.Snapshot) error {
		n = len(snap.Stock)
		return nil
	})
	return n
}

// Purchase allocates qty accounts from the front of the stock and settles
// the wallet. Any validation failure leaves stock, wallet and totalSpent
// untouched; on success all three change together and the user's input
// mode is cleared.
func (s *Shop) Purchase(ctx context.Context, id domain.UserID, qty int) ([]domain.Account, int64, error) {
	if qty <= 0 {
		return nil, 0, ErrInvalidQuantity
	}
	var (
		allocated []domain.Account
		cost      int64
	)
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		u, ok := snap.Users[id]
		if !ok {
			return storage.ErrNotFound
		}
		if qty > len(snap.Stock) {
			return &ErrOutOfStock{Available: len(snap.Stock)}
		}
		cost = int64(qty) * s.price
		if u.Wallet < cost {
			return ErrInsufficientFunds
		}
		allocated = append([]domain.Account(nil), snap.Stock[:qty]...)
		snap.Stock = snap.Stock[qty:]
		u.Wallet -= cost
		u.TotalSpent += cost
		u.Mode = domain.ModeIdle
		snap.Transactions = append(snap.Transactions, &domain.Transaction{
			ID:        domain.TxID(uuid.NewString()),
			Type:      domain.TxPurchase,
			UserID:    id,
			Amount:    cost,
			Quantity:  qty,
			Status:    "completed",
			CreatedAt: now(),
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return allocated, cost, nil
}

// RequestTopup records a new open top-up for the user and clears the input
// mode. Only one unresolved top-up per user: an earlier open request is
// resolved as declined with a superseded note.
func (s *Shop) RequestTopup(ctx context.Context, id domain.UserID, amountPaise int64) (*domain.PendingTopup, error) {
	if amountPaise <= 0 {
		return nil, ErrInvalidAmount
	}
	var out domain.PendingTopup
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		u, ok := snap.Users[id]
		if !ok {
			return storage.ErrNotFound
		}
		for _, t := range snap.Topups {
			if t.UserID == id && !t.Status.Resolved() {
				ts := now()
				t.Status = domain.TopupDeclined
				t.Note = "superseded by a newer request"
				t.ResolvedAt = &ts
			}
		}
		t := &domain.PendingTopup{
			ID:        domain.TopupID(uuid.NewString()),
			UserID:    id,
			Amount:    amountPaise,
			Status:    domain.TopupOpen,
			CreatedAt: now(),
		}
		snap.Topups[t.ID] = t
		u.Mode = domain.ModeIdle
		out = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AttachScreenshot records the payment screenshot against the user's
// unresolved top-up and marks it submitted.
func (s *Shop) AttachScreenshot(ctx context.Context, id domain.UserID, fileID string) (*domain.PendingTopup, error) {
	var out *domain.PendingTopup
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		for _, t := range snap.Topups {
			if t.UserID == id && !t.Status.Resolved() {
				t.ScreenshotFileID = fileID
				t.Status = domain.TopupSubmitted
				cp := *t
				out = &cp
				return nil
			}
		}
		return ErrNoPendingTopup
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UnresolvedTopup returns the user's open or submitted top-up, if any.
func (s *Shop) UnresolvedTopup(id domain.UserID) (*domain.PendingTopup, error) {
	var out *domain.PendingTopup
	s.store.View(func(snap *domain.Snapshot) error {
		for _, t := range snap.Topups {
			if t.UserID == id && !t.Status.Resolved() {
				cp := *t
				out = &cp
				break
			}
		}
		return nil
	})
	if out == nil {
		return nil, ErrNoPendingTopup
	}
	return out, nil
}

// ApproveTopup credits the wallet exactly once. A decision on an already
// resolved top-up returns ErrAlreadyProcessed and mutates nothing.
func (s *Shop) ApproveTopup(ctx context.Context, id domain.TopupID) (*domain.PendingTopup, error) {
	return s.resolveTopup(ctx, id, true)
}

// DeclineTopup resolves the record without crediting. Idempotent the same
// way as ApproveTopup.
func (s *Shop) DeclineTopup(ctx context.Context, id domain.TopupID) (*domain.PendingTopup, error) {
	return s.resolveTopup(ctx, id, false)
}

func (s *Shop) resolveTopup(ctx context.Context, id domain.TopupID, approve bool) (*domain.PendingTopup, error) {
	var out domain.PendingTopup
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		t, ok := snap.Topups[id]
		if !ok {
			return ErrNoPendingTopup
		}
		if t.Status.Resolved() {
			return ErrAlreadyProcessed
		}
		ts := now()
		t.ResolvedAt = &ts
		if approve {
			u, ok := snap.Users[t.UserID]
			if !ok {
				return storage.ErrNotFound
			}
			u.Wallet += t.Amount
			t.Status = domain.TopupApproved
			snap.Transactions = append(snap.Transactions, &domain.Transaction{
				ID:        domain.TxID(uuid.NewString()),
				Type:      domain.TxTopup,
				UserID:    t.UserID,
				Amount:    t.Amount,
				Status:    "approved",
				CreatedAt: ts,
			})
		} else {
			t.Status = domain.TopupDeclined
		}
		out = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddStock appends credential triples. Duplicates are allowed, matching
// the original stock list behaviour.
func (s *Shop) AddStock(ctx context.Context, accounts []domain.Account) (int, error) {
	if len(accounts) == 0 {
		return 0, errors.New("no accounts to add")
	}
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Stock = append(snap.Stock, accounts...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}

// ParseStockLines parses "username,password,email" lines. Malformed lines
// are skipped and counted so bulk imports report instead of failing.
func ParseStockLines(text string) (accounts []domain.Account, skipped int) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 3)
		if len(parts) < 3 {
			skipped++
			continue
		}
		accounts = append(accounts, domain.Account{
			Username: strings.TrimSpace(parts[0]),
			Password: strings.TrimSpace(parts[1]),
			Email:    strings.TrimSpace(parts[2]),
		})
	}
	return accounts, skipped
}

// Users returns all known users ordered by creation time.
func (s *Shop) Users() []*domain.User {
	var out []*domain.User
	s.store.View(func(snap *domain.Snapshot) error {
		for _, u := range snap.Users {
			cp := *u
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Shop) Transactions() []*domain.Transaction {
	var out []*domain.Transaction
	s.store.View(func(snap *domain.Snapshot) error {
		for _, t := range snap.Transactions {
			cp := *t
			out = append(out, &cp)
		}
		return nil
	})
	return out
}
