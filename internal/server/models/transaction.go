package models

import "time"

// TransactionType labels a ledger entry. The set is open-ended; the well-known
// values cover task charges and account top-ups.
type TransactionType string

const (
	TransactionTypeTaskCharge TransactionType = "task_charge"
	TransactionTypeTopUp      TransactionType = "top_up"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// Breakdown is an advisory split of a transaction amount into usage and print
// counters. Its sum is not required to equal the amount.
type Breakdown struct {
	Usage      float64 `json:"usage"`
	PrintBW    float64 `json:"print_bw"`
	PrintColor float64 `json:"print_color"`
}

// Transaction is an immutable ledger entry. The ledger is append-only: once
// created, a transaction is never modified or deleted.
type Transaction struct {
	ID         string          `json:"id"`
	Type       TransactionType `json:"type"`
	TaskID     string          `json:"task_id,omitempty"`
	SessionRef string          `json:"session_ref,omitempty"`
	Amount     float64         `json:"amount"`
	Actor      string          `json:"actor"`
	Breakdown  Breakdown       `json:"breakdown"`
	CreatedAt  time.Time       `json:"created_at"`
}
