// Package ui is the presentation adapter: a terminal console that renders
// the session state and relays operator key gestures into the bid engine
// and settlement ledger. It holds no auction logic of its own.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opendraft/auctionhall/core"
	"github.com/opendraft/auctionhall/ledger"
	"github.com/opendraft/auctionhall/session"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	priceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("120"))
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("228"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	soldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("77"))
	unsoldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// inputMode tracks whether keys drive the auction or a manual price entry.
type inputMode int

const (
	modeNormal inputMode = iota
	modeManualPrice
)

// Model is the bubbletea model over one auction session.
type Model struct {
	sess *session.Session

	itemCursor  int
	mode        inputMode
	manualInput string
	errMsg      string
	statusMsg   string
	width       int
	height      int
}

// NewModel returns a console model for sess.
func NewModel(sess *session.Session) Model {
	return Model{sess: sess}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model: it relays key gestures into the session and
// records the outcome for the next render.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeManualPrice {
			return m.updateManualPrice(msg), nil
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""
	m.statusMsg = ""

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.itemCursor > 0 {
			m.itemCursor--
		}
	case "down", "j":
		if m.itemCursor < len(m.sess.Catalog.Items())-1 {
			m.itemCursor++
		}
	case "enter":
		items := m.sess.Catalog.Items()
		if m.itemCursor < len(items) {
			m.relay(m.sess.SelectItem(items[m.itemCursor].Name))
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx, _ := strconv.Atoi(key)
		teams := m.sess.Catalog.Teams()
		if idx >= 1 && idx <= len(teams) {
			m.relay(m.sess.PlaceBid(teams[idx-1].Name))
		}

	case "b":
		m.relay(m.sess.Raise())
	case "u":
		m.sess.Undo()
	case "r":
		m.sess.Reset()

	case "s":
		if record, err := m.sess.Settle(0); err != nil {
			m.errMsg = errorText(err)
		} else {
			m.statusMsg = fmt.Sprintf("%s sold to %s for %s", record.Item, record.Buyer, m.price(record.Price))
		}
	case "m":
		m.mode = modeManualPrice
		m.manualInput = ""

	case "e":
		if err := m.sess.ExportTeams(); err != nil {
			m.errMsg = err.Error()
			break
		}
		if err := m.sess.ExportSoldItems(); err != nil {
			m.errMsg = err.Error()
			break
		}
		m.statusMsg = "catalog exported"
	}
	return m, nil
}

func (m Model) updateManualPrice(msg tea.KeyMsg) Model {
	switch key := msg.String(); key {
	case "esc":
		m.mode = modeNormal
		m.manualInput = ""
	case "enter":
		m.mode = modeNormal
		price, err := strconv.ParseFloat(m.manualInput, 64)
		m.manualInput = ""
		if err != nil || price <= 0 {
			m.errMsg = "enter a valid manual price"
			return m
		}
		if record, sErr := m.sess.Settle(price); sErr != nil {
			m.errMsg = errorText(sErr)
		} else {
			m.statusMsg = fmt.Sprintf("%s sold to %s for %s", record.Item, record.Buyer, m.price(record.Price))
		}
	case "backspace":
		if len(m.manualInput) > 0 {
			m.manualInput = m.manualInput[:len(m.manualInput)-1]
		}
	default:
		if len(key) == 1 && (key[0] >= '0' && key[0] <= '9' || key[0] == '.') {
			m.manualInput += key
		}
	}
	return m
}

func (m *Model) relay(err error) {
	if err != nil {
		m.errMsg = errorText(err)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("AUCTION HALL"))
	sections = append(sections, m.renderCurrentAuction())
	sections = append(sections, m.renderBidHistory())
	sections = append(sections, m.renderItemPicker())
	sections = append(sections, m.renderTeams())
	sections = append(sections, m.renderSoldList())

	if m.mode == modeManualPrice {
		sections = append(sections, bannerStyle.Render("Manual price: "+m.manualInput+"_  (enter to sell, esc to cancel)"))
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	if m.statusMsg != "" {
		sections = append(sections, soldStyle.Render(m.statusMsg))
	}

	sections = append(sections, helpStyle.Render(
		"enter select | 1-9 team bid | b just bid | u undo | r reset | s sell | m manual price | e export | q quit"))

	return strings.Join(sections, "\n\n") + "\n"
}

func (m Model) renderCurrentAuction() string {
	eng := m.sess.Engine
	item := eng.SelectedItem()
	if item.Name == "" {
		return labelStyle.Render("No item selected.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", item.Name, item.Category)
	if item.Rating > 0 {
		fmt.Fprintf(&b, "  Rating: %g", item.Rating)
	}
	b.WriteString("\n")

	// Price label: base before any bid, current while active, blank after
	// the sale closes.
	switch eng.State() {
	case core.StateBase:
		fmt.Fprintf(&b, "%s %s", labelStyle.Render("Base Price:"), priceStyle.Render(m.price(eng.Price())))
	case core.StateActive:
		fmt.Fprintf(&b, "%s %s", labelStyle.Render("Current Price:"), priceStyle.Render(m.price(eng.Price())))
	case core.StateSold:
		b.WriteString(soldStyle.Render(item.Name + " SOLD"))
	}
	b.WriteString("\n")
	b.WriteString(bannerStyle.Render(m.banner()))
	return b.String()
}

func (m Model) banner() string {
	eng := m.sess.Engine
	switch {
	case eng.State() != core.StateActive:
		return "No bids yet."
	case eng.LeadingBidder() != "":
		return "Current highest bid by: " + eng.LeadingBidder()
	default:
		return "Bid increased to " + m.price(eng.Price())
	}
}

func (m Model) renderBidHistory() string {
	history := m.sess.Engine.History()
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history)+1)
	lines = append(lines, labelStyle.Render("Bid history"))
	for _, ev := range history {
		if ev.Kind == core.BidKindTeam {
			lines = append(lines, fmt.Sprintf("  %s bids %s for %s", ev.Team, m.price(ev.Price), ev.Item))
		} else {
			lines = append(lines, fmt.Sprintf("  Bid increased to %s", m.price(ev.Price)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderItemPicker() string {
	items := m.sess.Catalog.Items()
	if len(items) == 0 {
		return labelStyle.Render("Catalog is empty.")
	}
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, labelStyle.Render("Items"))
	for i, item := range items {
		line := fmt.Sprintf("  %s (%s) - %s", item.Name, item.Category, m.price(item.BasePrice))
		if item.Sold {
			line += soldStyle.Render(" [sold]")
		}
		if i == m.itemCursor {
			line = cursorStyle.Render("▶" + line[1:])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTeams() string {
	teams := m.sess.Catalog.Teams()
	if len(teams) == 0 {
		return ""
	}
	rosterCap := m.sess.Engine.Rules().RosterCap
	lines := make([]string, 0, len(teams)+1)
	lines = append(lines, labelStyle.Render("Teams"))
	for i, team := range teams {
		lines = append(lines, fmt.Sprintf("  [%d] %-18s %10s  %d of %d",
			i+1, team.Name, m.price(team.Budget), team.PlayersSold, rosterCap))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSoldList() string {
	records := m.sess.Ledger.Records()
	unsold := m.sess.Ledger.Unsold()
	if len(records) == 0 && len(unsold) == 0 {
		return ""
	}
	lines := []string{labelStyle.Render("Sold / Unsold")}
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		lines = append(lines, soldStyle.Render(
			fmt.Sprintf("  %s (%s) - %s - %s", rec.Item, rec.Category, rec.Buyer, m.price(rec.Price))))
	}
	for _, item := range unsold {
		lines = append(lines, unsoldStyle.Render(
			fmt.Sprintf("  %s (%s) - Not Sold Yet!", item.Name, item.Category)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) price(v float64) string {
	return fmt.Sprintf("%.2f %s", v, m.sess.Config().CurrencyLabel)
}

func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case err == core.ErrNoItemSelected:
		return "Please select an item first."
	case err == core.ErrSaleComplete:
		return "This sale is complete; select the next item."
	case err == core.ErrRosterFull:
		return "That team has already bought the maximum number of players."
	case err == core.ErrInsufficientBudget:
		return "That team does not have enough budget to place a bid."
	case err == ledger.ErrInsufficientBudget:
		return "The leading bidder does not have enough budget to buy this item."
	case err == ledger.ErrRosterFull:
		return "The leading bidder's roster is already full."
	case err == ledger.ErrNoPrice:
		return "Place a bid or enter a manual price before selling."
	case err == ledger.ErrInvalidManualPrice:
		return "Please enter a valid manual price."
	default:
		return err.Error()
	}
}
