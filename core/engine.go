package core

import (
	"errors"

	"github.com/opendraft/auctionhall/catalog"
)

var (
	// ErrNoItemSelected is returned when an operation needs a selected item
	// and none is.
	ErrNoItemSelected = errors.New("core: no item selected")
	// ErrSaleComplete is returned for bids or settlement attempted after
	// the selected item has already been settled.
	ErrSaleComplete = errors.New("core: sale already completed for selected item")
	// ErrRosterFull is returned when the bidding team is at the roster cap.
	ErrRosterFull = errors.New("core: team roster is full")
	// ErrInsufficientBudget is returned when the bidding team cannot cover
	// the price its bid would commit it to.
	ErrInsufficientBudget = errors.New("core: insufficient team budget")
)

// Engine is the auction state machine for the currently selected item. It
// owns the current price, the leading bidder, and the bid and price
// histories. It reads team budgets and roster counts but never mutates the
// catalog; settlement does that.
//
// The engine is single-operator by design: every operation runs to
// completion before the next, so there is no locking.
type Engine struct {
	rules Rules

	state         State
	item          catalog.Item
	price         float64
	leadingBidder string
	bidStarted    bool
	isFirstBid    bool

	// bidHistory is most-recent-first; priceHistory is chronological and
	// doubles as the undo stack. While an item is selected, priceHistory is
	// never empty and its last element equals price.
	bidHistory   []BidEvent
	priceHistory []float64
}

// NewEngine returns an idle engine governed by rules.
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules, state: StateIdle}
}

// SelectItem starts a fresh auction for item from any state. The price is
// anchored to the item's base price and both histories are cleared.
func (e *Engine) SelectItem(item catalog.Item) {
	e.state = StateBase
	e.item = item
	e.price = item.BasePrice
	e.leadingBidder = ""
	e.bidStarted = false
	e.isFirstBid = true
	e.bidHistory = nil
	e.priceHistory = []float64{item.BasePrice}
}

// PlaceBid records a bid by team on the selected item. The first bid accepts
// the base price without an increment; every later bid advances the price by
// the tier increment for the pre-increment price. The bid is rejected, with
// no state change, if the team is at the roster cap or its budget cannot
// cover the price the bid would commit it to.
func (e *Engine) PlaceBid(team catalog.Team) error {
	if err := e.biddable(); err != nil {
		return err
	}
	if team.PlayersSold >= e.rules.RosterCap {
		return ErrRosterFull
	}

	increment := e.rules.IncrementFor(e.price)
	required := e.price
	if !e.isFirstBid {
		required = AdvancePrice(e.price, increment)
	}
	if !BudgetCovers(team.Budget, required) {
		return ErrInsufficientBudget
	}

	if e.isFirstBid {
		e.isFirstBid = false
		e.bidStarted = true
		e.state = StateActive
	} else {
		e.price = required
		e.priceHistory = append(e.priceHistory, e.price)
	}

	e.leadingBidder = team.Name
	e.pushEvent(BidEvent{Kind: BidKindTeam, Team: team.Name, Price: e.price, Item: e.item.Name})
	return nil
}

// Raise advances the price without attributing the bid to any team, clearing
// the leading bidder. Used to push the floor up when no franchise has
// claimed the item. The first raise, like the first bid, opens the auction
// at the base price without an increment.
func (e *Engine) Raise() error {
	if err := e.biddable(); err != nil {
		return err
	}

	if e.isFirstBid {
		e.isFirstBid = false
		e.bidStarted = true
		e.state = StateActive
	} else {
		e.price = AdvancePrice(e.price, e.rules.IncrementFor(e.price))
		e.priceHistory = append(e.priceHistory, e.price)
	}

	e.leadingBidder = ""
	e.pushEvent(BidEvent{Kind: BidKindRaise, Price: e.price, Item: e.item.Name})
	return nil
}

// Undo reverses the most recent bid or raise. The price falls back to the
// previous entry of the price history, re-anchoring to the base price when
// the history is down to its final entry. The leading bidder is re-derived
// from the new most recent history entry; with no entries left the engine
// returns to the no-bids-yet state. Undo on an empty history is a no-op.
func (e *Engine) Undo() {
	if e.state != StateActive && e.state != StateBase {
		return
	}

	if len(e.bidHistory) > 0 {
		e.bidHistory = e.bidHistory[1:]
	}

	if len(e.priceHistory) > 1 {
		e.priceHistory = e.priceHistory[:len(e.priceHistory)-1]
		e.price = e.priceHistory[len(e.priceHistory)-1]
	} else {
		e.price = e.item.BasePrice
		e.priceHistory = []float64{e.item.BasePrice}
	}

	if len(e.bidHistory) == 0 {
		e.leadingBidder = ""
		e.bidStarted = false
		e.isFirstBid = true
		e.state = StateBase
		return
	}

	// A raise entry carries no team, so the leading bidder correctly
	// becomes "none" when a raise is on top after the pop.
	e.leadingBidder = e.bidHistory[0].Team
}

// Reset restarts the auction for the currently selected item, as if it had
// just been selected. No-op when no item is selected.
func (e *Engine) Reset() {
	if e.state == StateIdle {
		return
	}
	e.SelectItem(e.item)
}

// CloseSale parks the engine after settlement: the price re-anchors to the
// item's base price, histories clear, and further bids or settlement are
// rejected until the next SelectItem. Only the settlement ledger calls this.
func (e *Engine) CloseSale() {
	if e.state == StateIdle {
		return
	}
	e.SelectItem(e.item)
	e.state = StateSold
}

func (e *Engine) biddable() error {
	switch e.state {
	case StateBase, StateActive:
		return nil
	case StateSold:
		return ErrSaleComplete
	default:
		return ErrNoItemSelected
	}
}

func (e *Engine) pushEvent(ev BidEvent) {
	e.bidHistory = append([]BidEvent{ev}, e.bidHistory...)
}

// State returns the engine's current state.
func (e *Engine) State() State { return e.state }

// Price returns the current auction price.
func (e *Engine) Price() float64 { return e.price }

// SelectedItem returns the currently selected item. The zero Item means
// nothing is selected.
func (e *Engine) SelectedItem() catalog.Item {
	if e.state == StateIdle {
		return catalog.Item{}
	}
	return e.item
}

// LeadingBidder returns the team currently winning the auction, or the
// empty string when no team is leading.
func (e *Engine) LeadingBidder() string { return e.leadingBidder }

// BidStarted reports whether at least one bid or raise has been accepted
// for the selected item.
func (e *Engine) BidStarted() bool { return e.bidStarted }

// History returns a copy of the bid history, most recent first.
func (e *Engine) History() []BidEvent {
	out := make([]BidEvent, len(e.bidHistory))
	copy(out, e.bidHistory)
	return out
}

// PriceHistory returns a copy of the chronological price history.
func (e *Engine) PriceHistory() []float64 {
	out := make([]float64, len(e.priceHistory))
	copy(out, e.priceHistory)
	return out
}

// Rules returns the rules the engine enforces.
func (e *Engine) Rules() Rules { return e.rules }
