package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// ExportTransactionsCSV renders the transaction log as CSV, one settled
// purchase or top-up per row.
func (s *Shop) ExportTransactionsCSV() ([]byte, error) {
	rows := [][]string{{"tx_id", "type", "user_id", "amount_paise", "quantity", "status", "created_at"}}
	for _, t := range s.Transactions() {
		rows = append(rows, []string{
			string(t.ID),
			string(t.Type),
			string(t.UserID),
			fmt.Sprintf("%d", t.Amount),
			fmt.Sprintf("%d", t.Quantity),
			t.Status,
			t.CreatedAt.Format(time.RFC3339),
		})
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
