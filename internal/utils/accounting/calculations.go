package accounting

import (
	"fmt"

	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the accounting sign convention to a journal line for
// an account of the given class.
// Debit to asset/expense counts positive; credit negative.
// Debit to liability/equity/revenue counts negative; credit positive.
func SignedAmount(line domain.JournalLine, class domain.AccountClass) (decimal.Decimal, error) {
	net := line.Debit.Sub(line.Credit)
	switch class {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account class %q for account %s", class, line.AccountID)
	}
}
