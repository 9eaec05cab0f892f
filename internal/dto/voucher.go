package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
)

// JournalEntryResponse is one debit or credit line of a voucher.
type JournalEntryResponse struct {
	Account string          `json:"account"`
	Side    string          `json:"side"`
	Amount  decimal.Decimal `json:"amount"`
}

// VoucherResponse is a posted voucher with its entries.
type VoucherResponse struct {
	VoucherNo   string                 `json:"voucherNo"`
	PayrollID   string                 `json:"payrollID"`
	VoucherDate time.Time              `json:"voucherDate"`
	Narration   string                 `json:"narration"`
	Entries     []JournalEntryResponse `json:"entries"`
}

// ToVoucherResponse converts a domain.JournalVoucher to its DTO.
func ToVoucherResponse(v *domain.JournalVoucher) VoucherResponse {
	entries := make([]JournalEntryResponse, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = JournalEntryResponse{
			Account: e.Account,
			Side:    string(e.Side),
			Amount:  e.Amount,
		}
	}
	return VoucherResponse{
		VoucherNo:   v.VoucherNo,
		PayrollID:   v.PayrollID,
		VoucherDate: v.VoucherDate,
		Narration:   v.Narration,
		Entries:     entries,
	}
}
