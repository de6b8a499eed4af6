package sheets

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLayout(t *testing.T, name string) Layout {
	t.Helper()
	l, ok := LookupLayout(name)
	require.True(t, ok, name)
	return l
}

func TestLayout_Events(t *testing.T) {
	l := mustLayout(t, "events")

	t.Run("full row", func(t *testing.T) {
		cells := []string{"", "7/4/2020", "ignored", " Boston, MA ", "Jane", "Y", "", "", "", "", "", "", "https://motp"}
		row, ok := l.Row(cells)
		require.True(t, ok)

		assert.Equal(t, "Boston, MA", row.Key)
		assert.Equal(t, "Boston, MA Event", row.Properties["name"])
		assert.Equal(t, "events", row.Properties["source"])
		assert.Equal(t, true, row.Properties["affiliate"])
		assert.Equal(t, "https://motp", row.Properties["eventLink"])
		assert.Equal(t, "https://motp", row.Properties["motpLink"])
		assert.Equal(t, "7/4/2020", row.Properties["eventDate"])
		assert.Empty(t, row.Query)
		assert.Equal(t, "Boston, MA", row.GeocodeQuery())
	})

	t.Run("missing affiliate column resets the default", func(t *testing.T) {
		row, ok := l.Row([]string{"March", "7/4/2020", "", "Austin, TX"})
		require.True(t, ok)
		assert.Equal(t, "", row.Properties["affiliate"])
		assert.Equal(t, "March", row.Properties["name"])
		assert.Equal(t, "", row.Properties["contactEmail"])
	})

	t.Run("N becomes false", func(t *testing.T) {
		row, ok := l.Row([]string{"March", "", "", "Austin, TX", "", "N"})
		require.True(t, ok)
		assert.Equal(t, false, row.Properties["affiliate"])
	})

	t.Run("rows without location are skipped", func(t *testing.T) {
		_, ok := l.Row([]string{"March", "7/4/2020", ""})
		assert.False(t, ok)

		_, ok = l.Row([]string{"March", "7/4/2020", "", "   "})
		assert.False(t, ok)
	})
}

func TestLayout_Affiliates(t *testing.T) {
	row, ok := mustLayout(t, "affiliates").Row([]string{"Women of Boston", "Boston, MA"})
	require.True(t, ok)

	assert.Equal(t, "Boston, MA", row.Key)
	assert.Equal(t, "Women of Boston", row.Properties["name"])
	assert.Equal(t, true, row.Properties["affiliate"])
	assert.Equal(t, "events", row.Properties["source"])
	assert.Equal(t, "", row.Properties["photo"])
}

func TestLayout_FamilySeparation(t *testing.T) {
	row, ok := mustLayout(t, "family_separation").Row([]string{"", "06/30/2018", "", "Portland", "OR", "US"})
	require.True(t, ok)

	assert.Equal(t, "Portland OR US", row.Key)
	assert.Equal(t, "Portland OR US Event", row.Properties["name"])
	_, hasSource := row.Properties["source"]
	assert.False(t, hasSource)
	assert.Equal(t, "", row.Properties["affiliate"])

	_, ok = mustLayout(t, "family_separation").Row([]string{"", "06/30/2018", "", "Portland", "OR"})
	assert.False(t, ok)
}

func TestLayout_MarchOnPolls(t *testing.T) {
	l := mustLayout(t, "marchonpolls")

	cells := make([]string, 15)
	cells[10] = "1 Main St"
	cells[11] = "Reno"
	cells[12] = "NV"
	cells[14] = "11/3/2020"

	row, ok := l.Row(cells)
	require.True(t, ok)

	sum := md5.Sum([]byte("1 Main StRenoNV11/3/2020"))
	assert.Equal(t, hex.EncodeToString(sum[:]), row.Key)
	assert.Equal(t, "Reno Event", row.Properties["name"])
	assert.Equal(t, "1 Main St, Reno,NV", row.GeocodeQuery())
	assert.Equal(t, "", row.Properties["flagship"])

	// ключ не зависит от пропущенных необязательных колонок
	short, ok := l.Row([]string{"", "Rally", "Host", "x"})
	require.True(t, ok)
	empty := md5.Sum([]byte("Rally"))
	assert.Equal(t, hex.EncodeToString(empty[:]), short.Key)

	_, ok = l.Row([]string{"", "Rally", "Host"})
	assert.False(t, ok)
}

func TestLookupLayout(t *testing.T) {
	_, ok := LookupLayout("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"affiliates", "events", "family_separation", "marchonpolls"}, LayoutNames())
}
