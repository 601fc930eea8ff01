// Package csvio loads and writes the tabular catalog files.
//
// CSV layout
//
// items.csv
// Item,BasePrice,ImageURL,Sold,Ratings,Category
//
// teams.csv
// Team,Budget,LogoURL
//
// team_budgets.csv (export)
// Team,Budget,PlayersSold
//
// sold_items.csv (export)
// Item,Category,Rating,Buyer,Price
//
// Notes:
// - Sold parses the literal "true"; anything else is false.
// - Columns are matched by header name, not position.
// - Writes go through a temp file and rename, so a crashed export never
//   leaves a half-written catalog behind.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/opendraft/auctionhall/catalog"
	"github.com/opendraft/auctionhall/ledger"
)

// LoadItems reads the item catalog from path. Rows missing an item name are
// skipped; unparseable numerics default to zero.
func LoadItems(path string) ([]catalog.Item, error) {
	rows, header, err := readAll(path)
	if err != nil {
		return nil, err
	}

	items := make([]catalog.Item, 0, len(rows))
	for _, row := range rows {
		name := field(row, header, "Item")
		if name == "" {
			continue
		}
		items = append(items, catalog.Item{
			Name:      name,
			BasePrice: parseFloat(field(row, header, "BasePrice")),
			ImageURL:  field(row, header, "ImageURL"),
			Sold:      field(row, header, "Sold") == "true",
			Rating:    parseFloat(field(row, header, "Ratings")),
			Category:  field(row, header, "Category"),
		})
	}
	return items, nil
}

// LoadTeams reads the team catalog from path. Roster counts always start at
// zero on import.
func LoadTeams(path string) ([]catalog.Team, error) {
	rows, header, err := readAll(path)
	if err != nil {
		return nil, err
	}

	teams := make([]catalog.Team, 0, len(rows))
	for _, row := range rows {
		name := field(row, header, "Team")
		if name == "" {
			continue
		}
		teams = append(teams, catalog.Team{
			Name:    name,
			Budget:  parseFloat(field(row, header, "Budget")),
			LogoURL: field(row, header, "LogoURL"),
		})
	}
	return teams, nil
}

// WriteTeams exports the team collection with budgets and roster counts.
func WriteTeams(path string, teams []catalog.Team) error {
	rows := make([][]string, 0, len(teams)+1)
	rows = append(rows, []string{"Team", "Budget", "PlayersSold"})
	for _, team := range teams {
		rows = append(rows, []string{
			team.Name,
			formatPrice(team.Budget),
			strconv.Itoa(team.PlayersSold),
		})
	}
	return atomicWriteCSV(path, rows)
}

// WriteSoldItems exports the sold-record sequence followed by the
// not-yet-sold items, which carry Buyer "Not Sold" and Price "0".
func WriteSoldItems(path string, records []ledger.SoldRecord, unsold []catalog.Item) error {
	rows := make([][]string, 0, len(records)+len(unsold)+1)
	rows = append(rows, []string{"Item", "Category", "Rating", "Buyer", "Price"})
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Item,
			rec.Category,
			formatRating(rec.Rating),
			rec.Buyer,
			formatPrice(rec.Price),
		})
	}
	for _, item := range unsold {
		rows = append(rows, []string{
			item.Name,
			item.Category,
			formatRating(item.Rating),
			"Not Sold",
			"0",
		})
	}
	return atomicWriteCSV(path, rows)
}

// WriteItems exports the full item catalog, including sold flags, in the
// import layout. Used after admin edits so the files stay authoritative.
func WriteItems(path string, items []catalog.Item) error {
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, []string{"Item", "BasePrice", "ImageURL", "Sold", "Ratings", "Category"})
	for _, item := range items {
		rows = append(rows, []string{
			item.Name,
			formatPrice(item.BasePrice),
			item.ImageURL,
			strconv.FormatBool(item.Sold),
			formatRating(item.Rating),
			item.Category,
		})
	}
	return atomicWriteCSV(path, rows)
}

func readAll(path string) (rows [][]string, header map[string]int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csvio: read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, map[string]int{}, nil
	}

	header = make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[name] = i
	}
	return all[1:], header, nil
}

func field(row []string, header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatRating(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func atomicWriteCSV(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*.csv")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
