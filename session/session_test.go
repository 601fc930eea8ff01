package session

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/sirupsen/logrus"

	"github.com/opendraft/auctionhall/catalog"
	"github.com/opendraft/auctionhall/core"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Data.Dir = t.TempDir()

	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(cfg, log)
}

func seedCatalog(t *testing.T, dir string) {
	t.Helper()
	items := "Item,BasePrice,ImageURL,Sold,Ratings,Category\n" +
		"Striker One,2,,false,8.5,Batsman\n" +
		"Spinner Two,1.5,,false,,Bowler\n"
	teams := "Team,Budget,LogoURL\n" +
		"Thunder,90,\n" +
		"Blaze,80,\n"
	assert.Nil(t, os.WriteFile(filepath.Join(dir, "items.csv"), []byte(items), 0o644))
	assert.Nil(t, os.WriteFile(filepath.Join(dir, "teams.csv"), []byte(teams), 0o644))
}

func TestSession_LoadCatalog(t *testing.T) {
	sess := testSession(t)
	seedCatalog(t, sess.Config().Data.Dir)

	assert.Nil(t, sess.LoadCatalog())

	check.Equal(t, 2, len(sess.Catalog.Items()))
	check.Equal(t, 2, len(sess.Catalog.Teams()))
}

func TestSession_LoadCatalog_MissingFilesStartEmpty(t *testing.T) {
	sess := testSession(t)

	assert.Nil(t, sess.LoadCatalog())

	check.Equal(t, 0, len(sess.Catalog.Items()))
	// Bidding is simply unavailable until the catalog has entries.
	check.Equal(t, catalog.ErrUnknownItem, sess.SelectItem("Striker One"), cmpopts.EquateErrors())
}

func TestSession_FullAuctionCycle(t *testing.T) {
	sess := testSession(t)
	seedCatalog(t, sess.Config().Data.Dir)
	assert.Nil(t, sess.LoadCatalog())

	assert.Nil(t, sess.SelectItem("Striker One"))
	assert.Nil(t, sess.PlaceBid("Thunder"))
	assert.Nil(t, sess.PlaceBid("Blaze"))
	assert.Nil(t, sess.Raise())
	assert.Nil(t, sess.PlaceBid("Thunder"))
	check.Equal(t, 2.75, sess.Engine.Price())

	sess.Undo()
	check.Equal(t, "", sess.Engine.LeadingBidder())
	check.Equal(t, 2.5, sess.Engine.Price())

	assert.Nil(t, sess.PlaceBid("Thunder"))
	record, err := sess.Settle(0)
	assert.Nil(t, err)

	check.Equal(t, "Thunder", record.Buyer)
	check.Equal(t, 2.75, record.Price)

	thunder, err := sess.Catalog.Team("Thunder")
	assert.Nil(t, err)
	check.Equal(t, 87.25, thunder.Budget)
	check.Equal(t, 1, thunder.PlayersSold)
}

func TestSession_UnknownNamesRejected(t *testing.T) {
	sess := testSession(t)
	seedCatalog(t, sess.Config().Data.Dir)
	assert.Nil(t, sess.LoadCatalog())

	check.Equal(t, catalog.ErrUnknownItem, sess.SelectItem("Ghost"), cmpopts.EquateErrors())

	assert.Nil(t, sess.SelectItem("Striker One"))
	check.Equal(t, catalog.ErrUnknownTeam, sess.PlaceBid("Nowhere"), cmpopts.EquateErrors())
}

func TestSession_AdminUpserts(t *testing.T) {
	sess := testSession(t)

	sess.UpsertTeam("Thunder", 90, "http://x/t.png")
	sess.UpsertItem("Striker One", "Batsman", 2, "", 8.5)

	// Edits keep roster counts and sold flags.
	assert.Nil(t, sess.Catalog.IncrementPlayersSold("Thunder"))
	sess.UpsertTeam("Thunder", 75, "")

	thunder, err := sess.Catalog.Team("Thunder")
	assert.Nil(t, err)
	check.Equal(t, 75.0, thunder.Budget)
	check.Equal(t, 1, thunder.PlayersSold)
	check.Equal(t, "http://x/t.png", thunder.LogoURL)

	assert.Nil(t, sess.Catalog.MarkSold("Striker One"))
	sess.UpsertItem("Striker One", "Batsman", 3, "", 8.5)

	item, err := sess.Catalog.Item("Striker One")
	assert.Nil(t, err)
	check.Equal(t, 3.0, item.BasePrice)
	check.True(t, item.Sold)
}

func TestSession_DeleteLeavesSoldRecordsIntact(t *testing.T) {
	sess := testSession(t)
	sess.UpsertTeam("Thunder", 90, "")
	sess.UpsertItem("Striker One", "Batsman", 2, "", 0)

	assert.Nil(t, sess.SelectItem("Striker One"))
	assert.Nil(t, sess.PlaceBid("Thunder"))
	_, err := sess.Settle(0)
	assert.Nil(t, err)

	assert.Nil(t, sess.DeleteTeam("Thunder"))
	assert.Nil(t, sess.DeleteItem("Striker One"))

	// Historical records keep the plain name strings.
	records := sess.Ledger.Records()
	assert.Equal(t, 1, len(records))
	check.Equal(t, "Thunder", records[0].Buyer)
	check.Equal(t, "Striker One", records[0].Item)
}

func TestSession_Exports(t *testing.T) {
	sess := testSession(t)
	seedCatalog(t, sess.Config().Data.Dir)
	assert.Nil(t, sess.LoadCatalog())

	assert.Nil(t, sess.SelectItem("Striker One"))
	assert.Nil(t, sess.PlaceBid("Thunder"))
	_, err := sess.Settle(0)
	assert.Nil(t, err)

	assert.Nil(t, sess.ExportTeams())
	assert.Nil(t, sess.ExportSoldItems())
	assert.Nil(t, sess.ExportCatalog())

	teams, err := os.ReadFile(sess.Config().TeamBudgetsPath())
	assert.Nil(t, err)
	check.Equal(t,
		"Team,Budget,PlayersSold\n"+
			"Thunder,88.00,1\n"+
			"Blaze,80.00,0\n",
		string(teams))

	sold, err := os.ReadFile(sess.Config().SoldItemsPath())
	assert.Nil(t, err)
	check.Equal(t,
		"Item,Category,Rating,Buyer,Price\n"+
			"Striker One,Batsman,8.5,Thunder,2.00\n"+
			"Spinner Two,Bowler,,Not Sold,0\n",
		string(sold))
}

func TestSession_SettleWithoutSelectionFails(t *testing.T) {
	sess := testSession(t)

	_, err := sess.Settle(5)
	check.Equal(t, core.ErrNoItemSelected, err)
}
