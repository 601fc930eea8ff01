package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownItem is returned when an item name has no catalog entry.
	ErrUnknownItem = errors.New("catalog: unknown item")
	// ErrUnknownTeam is returned when a team name has no catalog entry.
	ErrUnknownTeam = errors.New("catalog: unknown team")
)

// Item is a single auctionable catalog entry, keyed by Name.
type Item struct {
	Name      string  `json:"name"`
	BasePrice float64 `json:"base_price"`
	ImageURL  string  `json:"image_url,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Category  string  `json:"category"`
	Sold      bool    `json:"sold"`
}

// Team is a bidding franchise, keyed by Name. Budget and PlayersSold are
// mutated only through the settlement path.
type Team struct {
	Name        string  `json:"name"`
	Budget      float64 `json:"budget"`
	LogoURL     string  `json:"logo_url,omitempty"`
	PlayersSold int     `json:"players_sold"`
}

// Store holds the item and team collections. Lookups are keyed by name with
// no uniqueness constraint beyond the key itself. Deleting a record does not
// cascade: historical sold records and bid history keep the plain name
// string.
//
// Insertion order is preserved so listings and exports are stable across
// runs.
type Store struct {
	items     map[string]Item
	teams     map[string]Team
	itemOrder []string
	teamOrder []string
}

// NewStore returns an empty catalog. The store tolerates starting empty;
// bidding simply cannot begin until an import or admin add populates it.
func NewStore() *Store {
	return &Store{
		items: make(map[string]Item),
		teams: make(map[string]Team),
	}
}

// PutItem inserts or replaces an item keyed by its name. An update keeps the
// item's position in listing order.
func (s *Store) PutItem(item Item) {
	if _, exists := s.items[item.Name]; !exists {
		s.itemOrder = append(s.itemOrder, item.Name)
	}
	s.items[item.Name] = item
}

// PutTeam inserts or replaces a team keyed by its name.
func (s *Store) PutTeam(team Team) {
	if _, exists := s.teams[team.Name]; !exists {
		s.teamOrder = append(s.teamOrder, team.Name)
	}
	s.teams[team.Name] = team
}

// Item returns the item for name, or ErrUnknownItem.
func (s *Store) Item(name string) (Item, error) {
	item, ok := s.items[name]
	if !ok {
		return Item{}, ErrUnknownItem
	}
	return item, nil
}

// Team returns the team for name, or ErrUnknownTeam.
func (s *Store) Team(name string) (Team, error) {
	team, ok := s.teams[name]
	if !ok {
		return Team{}, ErrUnknownTeam
	}
	return team, nil
}

// DeleteItem removes the item for name. Removing an item referenced by the
// auction state or by sold records leaves those references as dangling name
// strings; that is the documented weak-reference model.
func (s *Store) DeleteItem(name string) error {
	if _, ok := s.items[name]; !ok {
		return ErrUnknownItem
	}
	delete(s.items, name)
	s.itemOrder = removeName(s.itemOrder, name)
	return nil
}

// DeleteTeam removes the team for name.
func (s *Store) DeleteTeam(name string) error {
	if _, ok := s.teams[name]; !ok {
		return ErrUnknownTeam
	}
	delete(s.teams, name)
	s.teamOrder = removeName(s.teamOrder, name)
	return nil
}

// Items returns all items in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, 0, len(s.itemOrder))
	for _, name := range s.itemOrder {
		out = append(out, s.items[name])
	}
	return out
}

// Teams returns all teams in insertion order.
func (s *Store) Teams() []Team {
	out := make([]Team, 0, len(s.teamOrder))
	for _, name := range s.teamOrder {
		out = append(out, s.teams[name])
	}
	return out
}

// MarkSold flips the sold flag for name. Settlement is the only caller.
func (s *Store) MarkSold(name string) error {
	item, ok := s.items[name]
	if !ok {
		return ErrUnknownItem
	}
	item.Sold = true
	s.items[name] = item
	return nil
}

// DebitTeam subtracts amount from the team's budget. Settlement is the only
// caller; it has already verified the budget covers the amount.
func (s *Store) DebitTeam(name string, amount float64) error {
	team, ok := s.teams[name]
	if !ok {
		return ErrUnknownTeam
	}
	// Decimal arithmetic keeps repeated debits from accumulating float drift.
	budget := decimal.NewFromFloat(team.Budget).Sub(decimal.NewFromFloat(amount)).Round(2)
	team.Budget, _ = budget.Float64()
	s.teams[name] = team
	return nil
}

// IncrementPlayersSold bumps the team's roster count by one. Settlement is
// the only caller.
func (s *Store) IncrementPlayersSold(name string) error {
	team, ok := s.teams[name]
	if !ok {
		return ErrUnknownTeam
	}
	team.PlayersSold++
	s.teams[name] = team
	return nil
}

func removeName(order []string, name string) []string {
	for i, n := range order {
		if n == name {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
