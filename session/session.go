// Package session wires the catalog store, bid engine, and settlement
// ledger into one auction session object. The session is built once at
// startup and handed to the presentation adapter; there are no package
// globals.
package session

import (
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opendraft/auctionhall/catalog"
	"github.com/opendraft/auctionhall/core"
	"github.com/opendraft/auctionhall/csvio"
	"github.com/opendraft/auctionhall/ledger"
)

// Session owns all auction state for one operator. Every adapter entry
// point goes through it, which is where operations get logged.
type Session struct {
	ID  string
	cfg Config
	log *logrus.Logger

	Catalog *catalog.Store
	Engine  *core.Engine
	Ledger  *ledger.Ledger
}

// New builds a session from cfg. The catalog starts empty; call LoadCatalog
// to import the tabular files.
func New(cfg Config, log *logrus.Logger) *Session {
	if log == nil {
		log = logrus.New()
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	store := catalog.NewStore()
	return &Session{
		ID:      uuid.NewString(),
		cfg:     cfg,
		log:     log,
		Catalog: store,
		Engine:  core.NewEngine(cfg.Rules),
		Ledger:  ledger.New(store),
	}
}

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// LoadCatalog imports the items and teams files named by the config. A
// missing file is not an error; the session just starts with that
// collection empty.
func (s *Session) LoadCatalog() error {
	items, err := csvio.LoadItems(s.cfg.ItemsPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.log.WithField("path", s.cfg.ItemsPath()).Warn("items file missing, starting empty")
	case err != nil:
		return err
	}
	for _, item := range items {
		s.Catalog.PutItem(item)
	}

	teams, err := csvio.LoadTeams(s.cfg.TeamsPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.log.WithField("path", s.cfg.TeamsPath()).Warn("teams file missing, starting empty")
	case err != nil:
		return err
	}
	for _, team := range teams {
		s.Catalog.PutTeam(team)
	}

	s.log.WithFields(logrus.Fields{
		"items": len(items),
		"teams": len(teams),
	}).Info("catalog loaded")
	return nil
}

// SelectItem starts the auction for the named catalog item.
func (s *Session) SelectItem(name string) error {
	item, err := s.Catalog.Item(name)
	if err != nil {
		s.log.WithField("item", name).Warn("select rejected: unknown item")
		return err
	}
	s.Engine.SelectItem(item)
	s.log.WithFields(logrus.Fields{
		"item":       item.Name,
		"base_price": item.BasePrice,
	}).Info("item selected")
	return nil
}

// PlaceBid records a bid by the named team on the selected item.
func (s *Session) PlaceBid(teamName string) error {
	team, err := s.Catalog.Team(teamName)
	if err != nil {
		s.log.WithField("team", teamName).Warn("bid rejected: unknown team")
		return err
	}
	if err := s.Engine.PlaceBid(team); err != nil {
		s.log.WithFields(logrus.Fields{
			"team":  teamName,
			"price": s.Engine.Price(),
		}).WithError(err).Warn("bid rejected")
		return err
	}
	s.log.WithFields(logrus.Fields{
		"team":  teamName,
		"item":  s.Engine.SelectedItem().Name,
		"price": s.Engine.Price(),
	}).Info("bid placed")
	return nil
}

// Raise advances the price without a claiming team.
func (s *Session) Raise() error {
	if err := s.Engine.Raise(); err != nil {
		s.log.WithError(err).Warn("raise rejected")
		return err
	}
	s.log.WithFields(logrus.Fields{
		"item":  s.Engine.SelectedItem().Name,
		"price": s.Engine.Price(),
	}).Info("price raised")
	return nil
}

// Undo reverses the most recent bid or raise.
func (s *Session) Undo() {
	s.Engine.Undo()
	s.log.WithFields(logrus.Fields{
		"item":  s.Engine.SelectedItem().Name,
		"price": s.Engine.Price(),
	}).Info("bid undone")
}

// Reset restarts the auction for the currently selected item.
func (s *Session) Reset() {
	s.Engine.Reset()
	s.log.WithField("item", s.Engine.SelectedItem().Name).Info("auction reset")
}

// Settle finalizes the sale of the selected item. Pass 0 to sell at the
// engine's current price to the leading bidder.
func (s *Session) Settle(manualPrice float64) (ledger.SoldRecord, error) {
	record, err := s.Ledger.Settle(s.Engine, manualPrice)
	if err != nil {
		s.log.WithError(err).Warn("settlement rejected")
		return ledger.SoldRecord{}, err
	}
	s.log.WithFields(logrus.Fields{
		"item":  record.Item,
		"buyer": record.Buyer,
		"price": record.Price,
	}).Info("item sold")
	return record, nil
}

// UpsertTeam adds or updates a team. An update keeps the existing roster
// count, and the existing logo when none is given.
func (s *Session) UpsertTeam(name string, budget float64, logoURL string) {
	team := catalog.Team{Name: name, Budget: budget, LogoURL: logoURL}
	if existing, err := s.Catalog.Team(name); err == nil {
		team.PlayersSold = existing.PlayersSold
		if team.LogoURL == "" {
			team.LogoURL = existing.LogoURL
		}
	}
	s.Catalog.PutTeam(team)
	s.log.WithFields(logrus.Fields{"team": name, "budget": budget}).Info("team saved")
}

// UpsertItem adds or updates a catalog item. An update keeps the existing
// sold flag.
func (s *Session) UpsertItem(name, category string, basePrice float64, imageURL string, rating float64) {
	item := catalog.Item{
		Name:      name,
		Category:  category,
		BasePrice: basePrice,
		ImageURL:  imageURL,
		Rating:    rating,
	}
	if existing, err := s.Catalog.Item(name); err == nil {
		item.Sold = existing.Sold
	}
	s.Catalog.PutItem(item)
	s.log.WithFields(logrus.Fields{"item": name, "base_price": basePrice}).Info("item saved")
}

// DeleteTeam removes a team from the catalog. Sold records naming the team
// are untouched.
func (s *Session) DeleteTeam(name string) error {
	if err := s.Catalog.DeleteTeam(name); err != nil {
		return err
	}
	s.log.WithField("team", name).Info("team deleted")
	return nil
}

// DeleteItem removes an item from the catalog. Sold records naming the item
// are untouched.
func (s *Session) DeleteItem(name string) error {
	if err := s.Catalog.DeleteItem(name); err != nil {
		return err
	}
	s.log.WithField("item", name).Info("item deleted")
	return nil
}

// ExportTeams writes the team budgets/roster export file.
func (s *Session) ExportTeams() error {
	return csvio.WriteTeams(s.cfg.TeamBudgetsPath(), s.Catalog.Teams())
}

// ExportSoldItems writes the sold-items export file, sold records first and
// unsold items after.
func (s *Session) ExportSoldItems() error {
	return csvio.WriteSoldItems(s.cfg.SoldItemsPath(), s.Ledger.Records(), s.Ledger.Unsold())
}

// ExportCatalog re-writes the items import file from the current catalog.
// Called after admin edits so the file stays authoritative.
func (s *Session) ExportCatalog() error {
	return csvio.WriteItems(s.cfg.ItemsPath(), s.Catalog.Items())
}
