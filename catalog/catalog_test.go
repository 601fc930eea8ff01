package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestStore_PutItemUpsert(t *testing.T) {
	store := NewStore()

	store.PutItem(Item{Name: "Striker One", BasePrice: 2.0, Category: "Batsman"})
	store.PutItem(Item{Name: "Spinner Two", BasePrice: 1.0, Category: "Bowler"})

	// Updating keeps listing position.
	store.PutItem(Item{Name: "Striker One", BasePrice: 3.0, Category: "Batsman"})

	items := store.Items()
	assert.Equal(t, 2, len(items))
	check.Equal(t, "Striker One", items[0].Name)
	check.Equal(t, 3.0, items[0].BasePrice)
	check.Equal(t, "Spinner Two", items[1].Name)
}

func TestStore_UnknownLookups(t *testing.T) {
	store := NewStore()

	_, err := store.Item("Nobody")
	check.Equal(t, ErrUnknownItem, err, cmpopts.EquateErrors())

	_, err = store.Team("Nowhere")
	check.Equal(t, ErrUnknownTeam, err, cmpopts.EquateErrors())

	check.Equal(t, ErrUnknownItem, store.DeleteItem("Nobody"), cmpopts.EquateErrors())
	check.Equal(t, ErrUnknownTeam, store.DeleteTeam("Nowhere"), cmpopts.EquateErrors())
	check.Equal(t, ErrUnknownItem, store.MarkSold("Nobody"), cmpopts.EquateErrors())
	check.Equal(t, ErrUnknownTeam, store.DebitTeam("Nowhere", 1.0), cmpopts.EquateErrors())
	check.Equal(t, ErrUnknownTeam, store.IncrementPlayersSold("Nowhere"), cmpopts.EquateErrors())
}

func TestStore_DeletePreservesOrder(t *testing.T) {
	store := NewStore()
	store.PutTeam(Team{Name: "Thunder", Budget: 90})
	store.PutTeam(Team{Name: "Blaze", Budget: 80})
	store.PutTeam(Team{Name: "Royals", Budget: 70})

	assert.Nil(t, store.DeleteTeam("Blaze"))

	teams := store.Teams()
	assert.Equal(t, 2, len(teams))
	check.Equal(t, "Thunder", teams[0].Name)
	check.Equal(t, "Royals", teams[1].Name)
}

func TestStore_MarkSold(t *testing.T) {
	store := NewStore()
	store.PutItem(Item{Name: "Striker One", BasePrice: 2.0})

	assert.Nil(t, store.MarkSold("Striker One"))

	item, err := store.Item("Striker One")
	assert.Nil(t, err)
	check.True(t, item.Sold)
}

func TestStore_DebitTeamUsesDecimalRounding(t *testing.T) {
	store := NewStore()
	store.PutTeam(Team{Name: "Thunder", Budget: 100})

	// Many small debits must not accumulate float drift.
	for i := 0; i < 300; i++ {
		assert.Nil(t, store.DebitTeam("Thunder", 0.1))
	}

	team, err := store.Team("Thunder")
	assert.Nil(t, err)
	check.Equal(t, 70.0, team.Budget)
}

func TestStore_IncrementPlayersSold(t *testing.T) {
	store := NewStore()
	store.PutTeam(Team{Name: "Thunder", Budget: 100})

	assert.Nil(t, store.IncrementPlayersSold("Thunder"))
	assert.Nil(t, store.IncrementPlayersSold("Thunder"))

	team, err := store.Team("Thunder")
	assert.Nil(t, err)
	check.Equal(t, 2, team.PlayersSold)
}
