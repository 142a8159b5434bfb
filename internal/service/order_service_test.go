package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	orders     []models.Order
	stocktakes []models.StocktakeEntry
	statusErr  error

	updatedID     string
	updatedStatus string
}

func (f *fakeOrderStore) DeleteOrder(ctx context.Context, orderID string) error {
	for i := range f.orders {
		if f.orders[i].OrderID == orderID {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("order not found: %s", orderID)
}

func (f *fakeOrderStore) ResolveStocktake(ctx context.Context, id int64) error {
	for i := range f.stocktakes {
		if f.stocktakes[i].ID == id && !f.stocktakes[i].Resolved {
			f.stocktakes[i].Resolved = true
			return nil
		}
	}
	return fmt.Errorf("stocktake entry not found or already resolved: %d", id)
}

func (f *fakeOrderStore) GetOrders(ctx context.Context) ([]models.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderStore) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].OrderID == orderID {
			return &f.orders[i], nil
		}
	}
	return nil, fmt.Errorf("order %s not found", orderID)
}

func (f *fakeOrderStore) UpdateOrderStatus(ctx context.Context, orderID, status string) (string, error) {
	if f.statusErr != nil {
		return "", f.statusErr
	}
	f.updatedID = orderID
	f.updatedStatus = status
	return models.OrderStatusReceived, nil
}

func (f *fakeOrderStore) UpdateOrderDetails(ctx context.Context, orderID, contactName, phone, address, note string) error {
	return nil
}

func (f *fakeOrderStore) GetStocktakeLog(ctx context.Context) ([]models.StocktakeEntry, error) {
	return f.stocktakes, nil
}

func (f *fakeOrderStore) RecordStocktake(ctx context.Context, entry *models.StocktakeEntry) error {
	f.stocktakes = append(f.stocktakes, *entry)
	return nil
}

type fakeCommandSink struct {
	statusEvents    []*models.OrderStatusChangedEvent
	deleteEvents    []*models.OrderDeletedEvent
	stocktakeEvents []*models.StocktakeRecordedEvent
	resolvedEvents  []*models.StocktakeResolvedEvent
}

func (f *fakeCommandSink) PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	f.deleteEvents = append(f.deleteEvents, event)
	return nil
}

func (f *fakeCommandSink) PublishStocktakeResolved(ctx context.Context, event *models.StocktakeResolvedEvent) error {
	f.resolvedEvents = append(f.resolvedEvents, event)
	return nil
}

func (f *fakeCommandSink) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	f.statusEvents = append(f.statusEvents, event)
	return nil
}

func (f *fakeCommandSink) PublishStocktakeRecorded(ctx context.Context, event *models.StocktakeRecordedEvent) error {
	f.stocktakeEvents = append(f.stocktakeEvents, event)
	return nil
}

func newTestOrderService(store *fakeOrderStore, sink *fakeCommandSink) *OrderService {
	availability := NewAvailabilityService(&fakeSource{}, nil, nil, time.Minute)
	var events CommandSink
	if sink != nil {
		events = sink
	}
	return NewOrderService(store, events, availability)
}

func sampleOrders(now time.Time) []models.Order {
	today := now.Format("2006-01-02")
	return []models.Order{
		{OrderID: "O-1", Company: "大安建材行", OrderType: "一般訂單", Status: models.OrderStatusReceived, Timestamp: now.Add(-3 * time.Hour)},
		{OrderID: "O-2", Company: "信義營造", OrderType: "保留單", Status: models.OrderStatusConfirmed, Timestamp: now.Add(-2 * time.Hour)},
		{OrderID: "O-3", Company: "大安建材行", OrderType: "一般訂單", Status: models.OrderStatusShipped, DeliveryDate: today, Timestamp: now.Add(-1 * time.Hour)},
		{OrderID: "O-4", Company: "中山水電", OrderType: "期貨單", Status: models.OrderStatusFutures, Timestamp: now},
	}
}

func TestListOrdersTabFiltering(t *testing.T) {
	store := &fakeOrderStore{orders: sampleOrders(time.Now())}
	svc := newTestOrderService(store, nil)
	ctx := context.Background()

	cases := []struct {
		tab  string
		want []string
	}{
		{"", []string{"O-1", "O-4", "O-3", "O-2"}},
		{TabReceived, []string{"O-1"}},
		{TabToday, []string{"O-3"}},
		{TabFutures, []string{"O-4"}},
		{TabHold, []string{"O-2"}},
		{TabConfirmed, []string{"O-2"}},
		{TabShipped, []string{"O-3"}},
		{"bogus", nil},
	}
	for _, tc := range cases {
		got, err := svc.ListOrders(ctx, tc.tab, "")
		require.NoError(t, err, "tab %q", tc.tab)
		ids := make([]string, 0, len(got))
		for _, o := range got {
			ids = append(ids, o.OrderID)
		}
		if tc.want == nil {
			assert.Empty(t, ids, "tab %q", tc.tab)
		} else {
			assert.Equal(t, tc.want, ids, "tab %q", tc.tab)
		}
	}
}

func TestListOrdersUnprocessedFirstThenNewest(t *testing.T) {
	store := &fakeOrderStore{orders: sampleOrders(time.Now())}
	svc := newTestOrderService(store, nil)

	got, err := svc.ListOrders(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, got, 4)

	// O-1 is the only unprocessed order; the rest follow newest-first.
	assert.Equal(t, "O-1", got[0].OrderID)
	assert.Equal(t, "O-4", got[1].OrderID)
	assert.Equal(t, "O-3", got[2].OrderID)
	assert.Equal(t, "O-2", got[3].OrderID)
}

func TestListOrdersSearchByCompanyOrID(t *testing.T) {
	store := &fakeOrderStore{orders: sampleOrders(time.Now())}
	svc := newTestOrderService(store, nil)
	ctx := context.Background()

	got, err := svc.ListOrders(ctx, "", "大安")
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = svc.ListOrders(ctx, "", "o-2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "O-2", got[0].OrderID)
}

func TestGetOrderIncludesParsedPreview(t *testing.T) {
	store := &fakeOrderStore{orders: []models.Order{
		{OrderID: "O-1", OrderType: "保留單", ItemsText: "[RD116] 紅磚 x 150\n白磚 x 20 包"},
	}}
	svc := newTestOrderService(store, nil)

	order, items, err := svc.GetOrder(context.Background(), "O-1")
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Len(t, items, 2)
	assert.Equal(t, "RD116", items[0].ProductID)
	assert.Equal(t, "紅磚", items[0].CleanName)
	require.NotNil(t, items[1].Quantity)
	assert.Equal(t, 20.0, *items[1].Quantity)
	assert.Equal(t, "包", items[1].Unit)
}

func TestUpdateStatusPublishesEvent(t *testing.T) {
	store := &fakeOrderStore{orders: sampleOrders(time.Now())}
	sink := &fakeCommandSink{}
	svc := newTestOrderService(store, sink)

	err := svc.UpdateStatus(context.Background(), "O-1", models.OrderStatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, "O-1", store.updatedID)
	assert.Equal(t, models.OrderStatusConfirmed, store.updatedStatus)
	require.Len(t, sink.statusEvents, 1)
	assert.Equal(t, "O-1", sink.statusEvents[0].OrderID)
	assert.Equal(t, models.OrderStatusReceived, sink.statusEvents[0].OldStatus)
	assert.Equal(t, models.OrderStatusConfirmed, sink.statusEvents[0].NewStatus)
}

func TestUpdateStatusStoreErrorSkipsEvent(t *testing.T) {
	store := &fakeOrderStore{statusErr: errors.New("row locked")}
	sink := &fakeCommandSink{}
	svc := newTestOrderService(store, sink)

	err := svc.UpdateStatus(context.Background(), "O-1", models.OrderStatusShipped)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "O-1")
	assert.Empty(t, sink.statusEvents)
}

func TestDeleteOrderPublishesEventAndRemoves(t *testing.T) {
	store := &fakeOrderStore{orders: sampleOrders(time.Now())}
	sink := &fakeCommandSink{}
	svc := newTestOrderService(store, sink)

	require.NoError(t, svc.DeleteOrder(context.Background(), "O-2"))

	require.Len(t, store.orders, 3)
	_, err := store.GetOrderByID(context.Background(), "O-2")
	assert.Error(t, err)

	require.Len(t, sink.deleteEvents, 1)
	assert.Equal(t, "O-2", sink.deleteEvents[0].OrderID)
	assert.Equal(t, models.EventTypeOrderDeleted, sink.deleteEvents[0].EventType)
}

func TestDeleteOrderNotFound(t *testing.T) {
	store := &fakeOrderStore{}
	sink := &fakeCommandSink{}
	svc := newTestOrderService(store, sink)

	err := svc.DeleteOrder(context.Background(), "O-404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "O-404")
	assert.Empty(t, sink.deleteEvents)
}

func TestResolveStocktakeClosesEntryOnce(t *testing.T) {
	store := &fakeOrderStore{stocktakes: []models.StocktakeEntry{
		{ID: 7, ProductID: "RD116", CountedQty: 950},
	}}
	sink := &fakeCommandSink{}
	svc := newTestOrderService(store, sink)

	require.NoError(t, svc.ResolveStocktake(context.Background(), 7))
	assert.True(t, store.stocktakes[0].Resolved)
	require.Len(t, sink.resolvedEvents, 1)
	assert.Equal(t, int64(7), sink.resolvedEvents[0].EntryID)

	// Second close-out of the same entry surfaces as an error.
	err := svc.ResolveStocktake(context.Background(), 7)
	require.Error(t, err)
	require.Len(t, sink.resolvedEvents, 1)
}

func TestRecordStocktakePublishesEvent(t *testing.T) {
	store := &fakeOrderStore{}
	sink := &fakeCommandSink{}
	svc := newTestOrderService(store, sink)

	entry := &models.StocktakeEntry{ProductID: "RD116", ProductName: "紅磚", CountedQty: 950}
	require.NoError(t, svc.RecordStocktake(context.Background(), entry))

	require.Len(t, store.stocktakes, 1)
	require.Len(t, sink.stocktakeEvents, 1)
	assert.Equal(t, "RD116", sink.stocktakeEvents[0].ProductID)
	assert.Equal(t, 950.0, sink.stocktakeEvents[0].CountedQty)

	log, err := svc.StocktakeLog(context.Background())
	require.NoError(t, err)
	require.Len(t, log, 1)
}
