package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa/internal/core/types"
	"kassa/internal/domain/catalogs/product"
)

var paidAt = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func milk(amount string) *product.Product {
	p := product.New("A1", "Milk", types.MustMoney("10.0"), product.PriceTypeQuantity)
	p.SetAmount(types.MustMoney(amount))
	return p
}

func apples(amount string) *product.Product {
	p := product.New("W1", "Apples", types.MustMoney("24.9"), product.PriceTypeWeight)
	p.SetAmount(types.MustMoney(amount))
	return p
}

func TestNewDraft(t *testing.T) {
	r := NewDraft("8", paidAt)

	assert.Equal(t, KindDraft, r.Kind())
	assert.Equal(t, "8", r.Serial())
	assert.Equal(t, "20240115", r.Date())
	assert.Equal(t, "10:30:00", r.Time())
	assert.True(t, r.IsEmpty())
	assert.Nil(t, r.Rows())
	assert.True(t, types.Zero().Equal(r.Total()))
	assert.True(t, paidAt.Equal(r.DateTime()))
}

func TestNewHistorical_InvalidTimestamp(t *testing.T) {
	_, err := NewHistorical("1", "20240115", "25:00:00")
	assert.Error(t, err)

	_, err = NewHistorical("1", "2024-01-15", "10:00:00")
	assert.Error(t, err)
}

func TestReceipt_AddLineCopies(t *testing.T) {
	r := NewDraft("1", paidAt)
	p := milk("3")
	require.NoError(t, r.AddLine(p))

	p.SetPrice(types.MustMoney("99"))
	p.SetAmount(types.MustMoney("1"))

	lines := r.Lines()
	require.Len(t, lines, 1)
	assert.True(t, types.MustMoney("10.0").Equal(lines[0].Price()))

	lines[0].SetDescription("changed")
	assert.Equal(t, "Milk", r.Lines()[0].Description())
}

func TestReceipt_AddLineRejectedOnHistorical(t *testing.T) {
	r, err := NewHistorical("1", "20240115", "10:00:00")
	require.NoError(t, err)

	assert.Error(t, r.AddLine(milk("1")))
}

func TestReceipt_Rows(t *testing.T) {
	r := NewDraft("4", paidAt)
	require.NoError(t, r.AddLine(milk("3")))
	require.NoError(t, r.AddLine(apples("0.75")))

	assert.Equal(t, [][]string{
		{"4", "10:30:00", "A1", "Milk", "3", "10.0", "q", "no"},
		{"4", "10:30:00", "W1", "Apples", "0.75", "24.9", "w", "no"},
	}, r.Rows())
}

func TestReceipt_PricesOnItsOwnDate(t *testing.T) {
	p := milk("2")
	p.StartCampaign(types.MustMoney("5.0"),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	inside := NewDraft("1", paidAt)
	require.NoError(t, inside.AddLine(p))
	assert.True(t, types.MustMoney("10").Equal(inside.Total()))
	assert.Equal(t, "yes", inside.Rows()[0][7])

	after := NewDraft("2", time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, after.AddLine(p))
	assert.True(t, types.MustMoney("20").Equal(after.Total()))
	assert.Equal(t, "no", after.Rows()[0][7])
}

func TestReceipt_Total(t *testing.T) {
	r := NewDraft("1", paidAt)
	require.NoError(t, r.AddLine(milk("3")))
	require.NoError(t, r.AddLine(apples("0.5")))

	assert.True(t, types.MustMoney("42.45").Equal(r.Total()))
}

func TestReceipt_Render(t *testing.T) {
	r := NewDraft("1", paidAt)
	require.NoError(t, r.AddLine(milk("3")))
	require.NoError(t, r.AddLine(apples("0.5")))

	var b strings.Builder
	require.NoError(t, r.Render(&b))
	assert.Equal(t, "Milk 3 * 10.0 = 30.0\nApples 0.5 * 24.9 = 12.45\nTotal: 42.45\n", b.String())

	b.Reset()
	require.NoError(t, NewDraft("2", paidAt).Render(&b))
	assert.Empty(t, b.String())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "draft", KindDraft.String())
	assert.Equal(t, "historical", KindHistorical.String())
}
