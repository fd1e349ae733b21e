package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"restopos/entity"
	"restopos/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection: every test sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(entity.Models()...))
	return db
}

type published struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: key, payload: payload})
	return nil
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixture is a tiny café: coffee and milk in stock, a latte and an espresso
// on the menu, one table and one driver.
type fixture struct {
	db  *gorm.DB
	pub *recordingPublisher
	svc *OrderService

	coffee   entity.InventoryItem
	milk     entity.InventoryItem
	latte    entity.Product
	espresso entity.Product
	table    entity.Table
	driver   entity.Driver
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db, pub: &recordingPublisher{}}

	f.coffee = entity.InventoryItem{Name: "Café molido", CurrentStock: dec("5000"), MinStock: dec("1000"), Unit: entity.UnitGram}
	f.milk = entity.InventoryItem{Name: "Leche entera", CurrentStock: dec("20000"), MinStock: dec("5000"), Unit: entity.UnitMilliliter}
	require.NoError(t, db.Create(&f.coffee).Error)
	require.NoError(t, db.Create(&f.milk).Error)

	f.latte = entity.Product{
		Name: "Latte", Price: dec("4.50"), IsPreparable: true, IsActive: true,
		Modifiers: []entity.Modifier{
			{Name: "Leche Oat", PriceAdjust: dec("0.50")},
			{Name: "Shot extra", PriceAdjust: dec("1.00")},
		},
	}
	f.espresso = entity.Product{Name: "Espresso", Price: dec("2.50"), IsPreparable: true, IsActive: true}
	require.NoError(t, db.Create(&f.latte).Error)
	require.NoError(t, db.Create(&f.espresso).Error)

	require.NoError(t, db.Create(&[]entity.Recipe{
		{ProductID: f.latte.ID, InventoryItemID: f.coffee.ID, Quantity: dec("18")},
		{ProductID: f.latte.ID, InventoryItemID: f.milk.ID, Quantity: dec("200")},
		{ProductID: f.espresso.ID, InventoryItemID: f.coffee.ID, Quantity: dec("18")},
	}).Error)

	f.table = entity.Table{Number: 1, Capacity: 2, Status: entity.TableFree}
	require.NoError(t, db.Create(&f.table).Error)
	f.driver = entity.Driver{Name: "Carlos", Phone: "555-0101", IsActive: true}
	require.NoError(t, db.Create(&f.driver).Error)

	cfg := OrderConfig{DefaultDeliveryFee: dec("2.00"), DefaultEstimatedTime: 30, RejectUnknownModifiers: true}
	f.svc = NewOrderService(db, cfg, NewEventBus(f.pub, logger.Discard()), logger.Discard())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) stock(t *testing.T, it entity.InventoryItem) decimal.Decimal {
	t.Helper()
	var got entity.InventoryItem
	require.NoError(t, f.db.First(&got, it.ID).Error)
	return got.CurrentStock
}

func (f *fixture) setStock(t *testing.T, it entity.InventoryItem, qty string) {
	t.Helper()
	require.NoError(t, f.db.Model(&entity.InventoryItem{}).Where("id = ?", it.ID).Update("current_stock", dec(qty)).Error)
}

func (f *fixture) order(t *testing.T, id uint) entity.Order {
	t.Helper()
	var o entity.Order
	require.NoError(t, f.db.First(&o, id).Error)
	return o
}

func (f *fixture) createOrder(t *testing.T, req *CreateOrderReq) *entity.Order {
	t.Helper()
	o, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	return o
}

func espressos(f *fixture, qty int) *CreateOrderReq {
	return &CreateOrderReq{Items: []OrderItemIn{{ProductID: f.espresso.ID, Quantity: qty}}}
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}
