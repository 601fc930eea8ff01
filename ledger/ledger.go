// Package ledger finalizes auction sales. It is the only writer of team
// budgets, roster counts, item sold flags, and the sold-record sequence.
package ledger

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opendraft/auctionhall/catalog"
	"github.com/opendraft/auctionhall/core"
)

// ManualBuyer is the buyer recorded when an item is sold at a manual price
// with no leading bidder.
const ManualBuyer = "Manual Sale"

var (
	// ErrNoPrice is returned when settlement has neither a positive manual
	// price nor a leading bidder to take the auction price from.
	ErrNoPrice = errors.New("ledger: no manual price and no leading bidder")
	// ErrInvalidManualPrice is returned for a negative manual price.
	ErrInvalidManualPrice = errors.New("ledger: manual price must be positive")
	// ErrInsufficientBudget is returned when the leading bidder cannot pay
	// the final price.
	ErrInsufficientBudget = errors.New("ledger: buyer budget below final price")
	// ErrRosterFull is returned when the leading bidder is already at the
	// roster cap at settlement time.
	ErrRosterFull = errors.New("ledger: buyer roster is full")
)

// SoldRecord is the permanent outcome of one settled auction. Records are
// append-only and keep plain name strings, so later catalog edits or
// deletes never rewrite history.
type SoldRecord struct {
	ID       string  `json:"id"`
	Item     string  `json:"item"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating,omitempty"`
	Buyer    string  `json:"buyer"`
	Price    float64 `json:"price"`
}

// Ledger settles sales against a catalog store and accumulates the ordered
// sold-record sequence.
type Ledger struct {
	store   *catalog.Store
	records []SoldRecord
}

// New returns a ledger writing to store.
func New(store *catalog.Store) *Ledger {
	return &Ledger{store: store}
}

// Settle finalizes the sale of the engine's selected item. The final price
// is manualPrice when positive; otherwise the engine's current price,
// which requires a leading bidder. When a leading bidder exists its budget
// is debited and its roster count incremented; a manual sale touches no
// team. The item is marked sold, a sold record is appended, and the engine
// is closed for the item so the sale cannot settle twice.
//
// All checks run before any mutation, so a rejected settlement leaves the
// catalog, the engine, and the record sequence untouched.
func (l *Ledger) Settle(eng *core.Engine, manualPrice float64) (SoldRecord, error) {
	switch eng.State() {
	case core.StateIdle:
		return SoldRecord{}, core.ErrNoItemSelected
	case core.StateSold:
		return SoldRecord{}, core.ErrSaleComplete
	}

	if manualPrice < 0 {
		return SoldRecord{}, ErrInvalidManualPrice
	}

	item := eng.SelectedItem()
	buyer := eng.LeadingBidder()

	var finalPrice float64
	switch {
	case manualPrice > 0:
		finalPrice = roundPrice(manualPrice)
	case buyer != "":
		finalPrice = eng.Price()
	default:
		return SoldRecord{}, ErrNoPrice
	}

	if buyer != "" {
		team, err := l.store.Team(buyer)
		if err != nil {
			return SoldRecord{}, err
		}
		if !core.BudgetCovers(team.Budget, finalPrice) {
			return SoldRecord{}, ErrInsufficientBudget
		}
		if team.PlayersSold >= eng.Rules().RosterCap {
			return SoldRecord{}, ErrRosterFull
		}

		if err := l.store.DebitTeam(buyer, finalPrice); err != nil {
			return SoldRecord{}, err
		}
		if err := l.store.IncrementPlayersSold(buyer); err != nil {
			return SoldRecord{}, err
		}
	}

	record := SoldRecord{
		ID:       uuid.NewString(),
		Item:     item.Name,
		Category: item.Category,
		Rating:   item.Rating,
		Buyer:    buyer,
		Price:    finalPrice,
	}
	if record.Buyer == "" {
		record.Buyer = ManualBuyer
	}
	l.records = append(l.records, record)

	// The item may have been admin-deleted mid-auction; the record above
	// still stands on its name string.
	_ = l.store.MarkSold(item.Name)

	eng.CloseSale()
	return record, nil
}

// Records returns a copy of the sold-record sequence in settlement order.
func (l *Ledger) Records() []SoldRecord {
	out := make([]SoldRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Unsold returns the catalog items not yet marked sold, in catalog order.
func (l *Ledger) Unsold() []catalog.Item {
	var out []catalog.Item
	for _, item := range l.store.Items() {
		if !item.Sold {
			out = append(out, item)
		}
	}
	return out
}

func roundPrice(price float64) float64 {
	rounded, _ := decimal.NewFromFloat(price).Round(2).Float64()
	return rounded
}
