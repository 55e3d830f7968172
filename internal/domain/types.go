package domain

import (
	"time"
)

type UserID string
type TopupID string
type TxID string

// Mode is the per-user input mode. Replaces the ad-hoc expecting-X flags:
// a user is in exactly one mode at a time.
type Mode string

const (
	ModeIdle        Mode = "idle"
	ModeAwaitQty    Mode = "await_qty"
	ModeAwaitAmount Mode = "await_amount"
)

type User struct {
	ID         UserID    `json:"id"`
	Username   string    `json:"username"`
	Wallet     int64     `json:"wallet"`      // paise
	TotalSpent int64     `json:"total_spent"` // paise, never decreases
	Mode       Mode      `json:"mode"`
	CreatedAt  time.Time `json:"created_at"`
}

// Account is one sellable credential triple. It lives in the stock list
// until allocated to a buyer, then it is gone.
type Account struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type TopupStatus string

const (
	TopupOpen      TopupStatus = "open"      // amount recorded, waiting for screenshot
	TopupSubmitted TopupStatus = "submitted" // screenshot forwarded to admin
	TopupApproved  TopupStatus = "approved"
	TopupDeclined  TopupStatus = "declined"
)

// Resolved reports whether an admin decision has already been made.
func (s TopupStatus) Resolved() bool {
	return s == TopupApproved || s == TopupDeclined
}

type PendingTopup struct {
	ID               TopupID     `json:"id"`
	UserID           UserID      `json:"user_id"`
	Amount           int64       `json:"amount"` // paise
	ScreenshotFileID string      `json:"screenshot_file_id,omitempty"`
	Status           TopupStatus `json:"status"`
	Note             string      `json:"note,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	ResolvedAt       *time.Time  `json:"resolved_at,omitempty"`
}

type TxType string

const (
	TxPurchase TxType = "purchase"
	TxTopup    TxType = "topup"
)

// Transaction is an append-only log entry of a settled purchase or top-up.
type Transaction struct {
	ID        TxID      `json:"id"`
	Type      TxType    `json:"type"`
	UserID    UserID    `json:"user_id"`
	Amount    int64     `json:"amount"` // paise
	Quantity  int       `json:"quantity,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the whole on-disk document.
type Snapshot struct {
	Version      int                       `json:"version"`
	Users        map[UserID]*User          `json:"users"`
	Stock        []Account                 `json:"stock"`
	Topups       map[TopupID]*PendingTopup `json:"topups"`
	Transactions []*Transaction            `json:"transactions"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}
