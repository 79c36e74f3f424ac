package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/warp/pos-engine/catalog"
	"github.com/warp/pos-engine/pos"
)

func TestTransactionCodec_BSONRoundTrip(t *testing.T) {
	// GIVEN: a sale with a nanosecond timestamp and fractional prices
	at := time.Date(2025, time.March, 10, 9, 15, 0, 987654321, time.UTC)
	tx := pos.Transaction{
		ID: "t1",
		Items: []pos.LineItem{
			{MenuItemID: "m1", Name: "Kopi Hitam", Price: pos.MustParseMoney("7000.50"), Quantity: 2},
		},
		Total:         pos.MustParseMoney("14001.00"),
		PaymentMethod: pos.PaymentCash,
		CashReceived:  pos.NewMoney(20000),
		Change:        pos.MustParseMoney("5999.00"),
		OperatorID:    "u1",
		OperatorName:  "Kasir Utama",
		CreatedAt:     at,
		Status:        pos.StatusCompleted,
	}

	// WHEN: encoded to BSON bytes and decoded back
	raw, err := bson.Marshal(encodeTransaction(tx))
	require.NoError(t, err)
	var doc transactionDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	got, err := decodeTransaction(doc)

	// THEN: nothing is lost, including nanoseconds
	require.NoError(t, err)
	assert.Equal(t, at, got.CreatedAt)
	assert.Equal(t, tx.ID, got.ID)
	assert.True(t, got.Total.Equal(tx.Total))
	assert.True(t, got.Change.Equal(tx.Change))
	assert.Equal(t, "7000.5", got.Items[0].Price.Decimal().String())
	assert.Equal(t, "Kasir Utama", got.OperatorName)
	assert.False(t, doc.OID.IsZero())
}

func TestDecodeTransaction_BadMoney(t *testing.T) {
	_, err := decodeTransaction(transactionDoc{ID: "t1", Total: "abc"})
	assert.Error(t, err)
}

func TestWindowFilter(t *testing.T) {
	w := pos.DayWindow(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))

	f := windowFilter(w)

	require.Len(t, f, 1)
	assert.Equal(t, "created_at_ns", f[0].Key)
	rng, ok := f[0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.D{
		{Key: "$gte", Value: w.Start.UnixNano()},
		{Key: "$lt", Value: w.End.UnixNano()},
	}, rng)
}

func TestWindowFilter_AllTimeHasNoUpperBound(t *testing.T) {
	f := windowFilter(pos.AllTime())

	rng := f[0].Value.(bson.D)
	require.Len(t, rng, 1)
	assert.Equal(t, "$gte", rng[0].Key)
}

func TestItemCodec(t *testing.T) {
	item := catalog.Item{
		ID: "m1", Name: "Es Cendol", Price: pos.NewMoney(8000), Category: "Minuman",
		Available: true, CreatedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	got, err := decodeItem(encodeItem(item))

	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.True(t, got.Price.Equal(item.Price))
	assert.True(t, got.Available)
	assert.Equal(t, item.CreatedAt, got.CreatedAt)
}
