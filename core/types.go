package core

// BidKind distinguishes how a bid history entry came about.
type BidKind string

const (
	// BidKindTeam is a bid placed by a specific team.
	BidKindTeam BidKind = "bid"
	// BidKindRaise is a procedural price raise with no claiming team.
	BidKindRaise BidKind = "raise"
)

// BidEvent is one entry in the bid history. Entries are structured so that
// undo can recover the leading bidder without parsing display text: a raise
// entry simply carries an empty Team.
type BidEvent struct {
	Kind  BidKind `json:"kind"`
	Team  string  `json:"team,omitempty"`
	Price float64 `json:"price"`
	Item  string  `json:"item"`
}

// State identifies where the engine is in one item's auction.
type State string

const (
	// StateIdle means no item is selected.
	StateIdle State = "idle"
	// StateBase means an item is selected but no bid has been taken yet;
	// the current price is the item's base price.
	StateBase State = "base"
	// StateActive means at least one bid or raise has been accepted.
	StateActive State = "active"
	// StateSold means the selected item has been settled; the engine stays
	// parked here until the next SelectItem.
	StateSold State = "sold"
)

// Tier maps a price band to its bid increment. The band covers prices
// strictly below Below; a tier with Below = 0 is open-ended and must come
// last.
type Tier struct {
	Below     float64 `yaml:"below" json:"below"`
	Increment float64 `yaml:"increment" json:"increment"`
}

// Rules carries the auction parameters the engine enforces.
type Rules struct {
	Tiers     []Tier `yaml:"tiers" json:"tiers"`
	RosterCap int    `yaml:"rosterCap" json:"rosterCap"`
}

// DefaultRules returns the standard draft-auction rules: 0.25 CR increments
// below 4 CR, 0.40 below 8 CR, 0.50 from 8 CR up, and a 25-player roster
// cap.
func DefaultRules() Rules {
	return Rules{
		Tiers: []Tier{
			{Below: 4, Increment: 0.25},
			{Below: 8, Increment: 0.40},
			{Below: 0, Increment: 0.50},
		},
		RosterCap: 25,
	}
}
