package services

import (
	"context"
	"sync"
	"testing"

	"restopos/entity"
	"restopos/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----- Create -----

func TestCreateOrderPricesLatte(t *testing.T) {
	f := newFixture(t)

	o := f.createOrder(t, &CreateOrderReq{
		Items: []OrderItemIn{{ProductID: f.latte.ID, Quantity: 2, Modifiers: []string{"Leche Oat"}}},
	})

	assert.Equal(t, entity.OrderPending, o.Status)
	assert.Equal(t, entity.OrderTakeaway, o.Type)
	require.Len(t, o.Items, 1)
	assert.True(t, dec("5.00").Equal(o.Items[0].UnitPrice), "unit price %s", o.Items[0].UnitPrice)
	assert.True(t, dec("10.00").Equal(o.Total), "total %s", o.Total)
	assert.Equal(t, "Latte", o.Items[0].Product.Name)
	assert.Equal(t, []string{EventOrderCreated}, f.pub.keys())
}

func TestCreateOrderKeepsPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, espressos(f, 2))

	require.NoError(t, f.db.Model(&entity.Product{}).Where("id = ?", f.espresso.ID).Update("price", dec("9.99")).Error)

	got, err := f.svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, dec("2.50").Equal(got.Items[0].UnitPrice))
	assert.True(t, dec("5.00").Equal(got.Total))
}

func TestCreateOrderTypeDefaults(t *testing.T) {
	f := newFixture(t)

	dineIn := f.createOrder(t, &CreateOrderReq{TableID: &f.table.ID, Items: espressos(f, 1).Items})
	assert.Equal(t, entity.OrderDineIn, dineIn.Type)

	explicit := f.createOrder(t, &CreateOrderReq{Type: entity.OrderTakeaway, TableID: &f.table.ID, Items: espressos(f, 1).Items})
	assert.Equal(t, entity.OrderTakeaway, explicit.Type)
}

func TestCreateOrderOccupiesTable(t *testing.T) {
	f := newFixture(t)

	o := f.createOrder(t, &CreateOrderReq{TableID: &f.table.ID, Items: espressos(f, 1).Items})

	var table entity.Table
	require.NoError(t, f.db.First(&table, f.table.ID).Error)
	assert.Equal(t, entity.TableOccupied, table.Status)
	require.NotNil(t, o.TableID)
	assert.Equal(t, f.table.ID, *o.TableID)
}

func TestCreateOrderFailureLeavesTableFree(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &CreateOrderReq{
		TableID: &f.table.ID,
		Items:   []OrderItemIn{{ProductID: f.latte.ID, Quantity: 1, Modifiers: []string{"Leche de coco"}}},
	})
	requireKind(t, err, KindValidation)

	_, err = f.svc.Create(context.Background(), &CreateOrderReq{
		TableID: &f.table.ID,
		Items:   []OrderItemIn{{ProductID: 4242, Quantity: 1}},
	})
	requireKind(t, err, KindNotFound)

	var table entity.Table
	require.NoError(t, f.db.First(&table, f.table.ID).Error)
	assert.Equal(t, entity.TableFree, table.Status)

	var n int64
	require.NoError(t, f.db.Model(&entity.Order{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, f.pub.keys())
}

func TestCreateOrderUnknownTable(t *testing.T) {
	f := newFixture(t)
	missing := uint(999)

	_, err := f.svc.Create(context.Background(), &CreateOrderReq{TableID: &missing, Items: espressos(f, 1).Items})
	requireKind(t, err, KindNotFound)

	var n int64
	require.NoError(t, f.db.Model(&entity.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)

	cases := map[string]*CreateOrderReq{
		"no items":          {},
		"zero quantity":     {Items: []OrderItemIn{{ProductID: f.espresso.ID, Quantity: 0}}},
		"missing product":   {Items: []OrderItemIn{{Quantity: 1}}},
		"unknown type":      {Type: "DRIVE_THRU", Items: espressos(f, 1).Items},
		"delivery w/o info": {Type: entity.OrderDelivery, Items: espressos(f, 1).Items},
		"incomplete info": {
			Items:        espressos(f, 1).Items,
			DeliveryInfo: &DeliveryInfo{CustomerName: "Ana", CustomerPhone: "+561111"},
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), req)
			requireKind(t, err, KindValidation)
		})
	}
}

func TestCreateDeliveryOrder(t *testing.T) {
	f := newFixture(t)
	eta := 45

	o := f.createOrder(t, &CreateOrderReq{
		Type:  entity.OrderDelivery,
		Items: espressos(f, 2).Items,
		DeliveryInfo: &DeliveryInfo{
			CustomerName: "Ana", CustomerPhone: "+561111", CustomerAddress: "A",
			EstimatedTime: &eta,
		},
	})

	// 2 × 2.50 plus the configured default fee
	assert.True(t, dec("7.00").Equal(o.Total), "total %s", o.Total)
	require.NotNil(t, o.Delivery)
	assert.Equal(t, entity.DeliveryPending, o.Delivery.Status)
	assert.True(t, dec("2.00").Equal(o.Delivery.DeliveryFee))
	assert.Equal(t, 45, o.Delivery.EstimatedTime)
	assert.Equal(t, "A", o.Delivery.CustomerAddress)
	require.NotNil(t, o.CustomerID)
}

func TestCreateDeliveryOrderExplicitFee(t *testing.T) {
	f := newFixture(t)
	fee := dec("3.50")

	o := f.createOrder(t, &CreateOrderReq{
		Items:        espressos(f, 1).Items,
		DeliveryInfo: &DeliveryInfo{CustomerName: "Ana", CustomerPhone: "+561111", CustomerAddress: "A", DeliveryFee: &fee},
	})
	assert.True(t, dec("6.00").Equal(o.Total))
	assert.Equal(t, 30, o.Delivery.EstimatedTime)
}

// ----- Status -----

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, espressos(f, 1))

	got, err := f.svc.UpdateStatus(context.Background(), o.ID, "PREPARING")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPreparing, got.Status)

	// forward jumps are accepted
	got, err = f.svc.UpdateStatus(context.Background(), o.ID, "DELIVERED")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, got.Status)

	assert.True(t, dec("5000").Equal(f.stock(t, f.coffee)), "status changes never touch stock")
	assert.Contains(t, f.pub.keys(), EventOrderStatus)
}

func TestUpdateStatusRejects(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, espressos(f, 1))

	_, err := f.svc.UpdateStatus(context.Background(), 777, "READY")
	requireKind(t, err, KindNotFound)

	_, err = f.svc.UpdateStatus(context.Background(), o.ID, "SERVED")
	requireKind(t, err, KindValidation)
	assert.Equal(t, entity.OrderPending, f.order(t, o.ID).Status)
}

func TestUpdateStatusToClosedSkipsStock(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, espressos(f, 2))

	// PENDING straight to CLOSED is allowed as a plain status write
	got, err := f.svc.UpdateStatus(context.Background(), o.ID, "CLOSED")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderClosed, got.Status)
	require.NotNil(t, got.ClosedAt)
	assert.True(t, fixedNow.Equal(*got.ClosedAt))
	assert.True(t, dec("5000").Equal(f.stock(t, f.coffee)))

	// and out again; closedAt keeps its first stamp
	got, err = f.svc.UpdateStatus(context.Background(), o.ID, "PENDING")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, got.Status)
}

// ----- Close -----

func TestCloseDeductsRecipes(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, &CreateOrderReq{
		TableID: &f.table.ID,
		Items: []OrderItemIn{
			{ProductID: f.latte.ID, Quantity: 2},
			{ProductID: f.espresso.ID, Quantity: 1},
		},
	})

	closed, err := f.svc.Close(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	assert.True(t, fixedNow.Equal(*closed.ClosedAt))

	// 3 cups × 18 g, 2 lattes × 200 ml
	assert.True(t, dec("4946").Equal(f.stock(t, f.coffee)), "coffee %s", f.stock(t, f.coffee))
	assert.True(t, dec("19600").Equal(f.stock(t, f.milk)), "milk %s", f.stock(t, f.milk))

	var table entity.Table
	require.NoError(t, f.db.First(&table, f.table.ID).Error)
	assert.Equal(t, entity.TableDirty, table.Status)
	assert.Contains(t, f.pub.keys(), EventOrderClosed)
}

func TestCloseInsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.setStock(t, f.coffee, "40")
	o := f.createOrder(t, &CreateOrderReq{TableID: &f.table.ID, Items: espressos(f, 3).Items})

	_, err := f.svc.Close(context.Background(), o.ID)
	requireKind(t, err, KindInsufficientStock)

	var e *Error
	require.ErrorAs(t, err, &e)
	shortage, ok := e.Detail.(StockShortage)
	require.True(t, ok)
	assert.Equal(t, "Café molido", shortage.Ingredient)
	assert.True(t, dec("54").Equal(shortage.Required))
	assert.True(t, dec("40").Equal(shortage.Available))
	assert.Equal(t, string(entity.UnitGram), shortage.Unit)

	assert.True(t, dec("40").Equal(f.stock(t, f.coffee)))
	got := f.order(t, o.ID)
	assert.Equal(t, entity.OrderPending, got.Status)
	assert.Nil(t, got.ClosedAt)

	var table entity.Table
	require.NoError(t, f.db.First(&table, f.table.ID).Error)
	assert.Equal(t, entity.TableOccupied, table.Status)
}

func TestCloseShortageOnOneIngredientRollsBackAll(t *testing.T) {
	f := newFixture(t)
	f.setStock(t, f.milk, "100")
	o := f.createOrder(t, &CreateOrderReq{Items: []OrderItemIn{{ProductID: f.latte.ID, Quantity: 1}}})

	_, err := f.svc.Close(context.Background(), o.ID)
	requireKind(t, err, KindInsufficientStock)

	assert.True(t, dec("5000").Equal(f.stock(t, f.coffee)))
	assert.True(t, dec("100").Equal(f.stock(t, f.milk)))
}

func TestCloseSumsIngredientAcrossLines(t *testing.T) {
	f := newFixture(t)
	// each line alone fits, together they need 36 g
	f.setStock(t, f.coffee, "30")
	o := f.createOrder(t, &CreateOrderReq{Items: []OrderItemIn{
		{ProductID: f.espresso.ID, Quantity: 1},
		{ProductID: f.latte.ID, Quantity: 1},
	}})

	_, err := f.svc.Close(context.Background(), o.ID)
	requireKind(t, err, KindInsufficientStock)
	assert.True(t, dec("30").Equal(f.stock(t, f.coffee)))
}

func TestCloseIgnoresRecipesOfNonPreparableProducts(t *testing.T) {
	f := newFixture(t)
	water := entity.Product{Name: "Agua", Price: dec("1.50"), IsActive: true}
	require.NoError(t, f.db.Create(&water).Error)
	// default:true swallows false on insert
	require.NoError(t, f.db.Model(&water).Update("is_preparable", false).Error)
	require.NoError(t, f.db.Create(&entity.Recipe{ProductID: water.ID, InventoryItemID: f.coffee.ID, Quantity: dec("10")}).Error)
	f.setStock(t, f.coffee, "5")

	o := f.createOrder(t, &CreateOrderReq{Items: []OrderItemIn{{ProductID: water.ID, Quantity: 1}}})
	closed, err := f.svc.Close(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderClosed, closed.Status)
	assert.True(t, dec("5").Equal(f.stock(t, f.coffee)), "coffee %s", f.stock(t, f.coffee))
}

func TestCloseTwice(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, espressos(f, 1))

	_, err := f.svc.Close(context.Background(), o.ID)
	require.NoError(t, err)
	_, err = f.svc.Close(context.Background(), o.ID)
	requireKind(t, err, KindAlreadyClosed)

	assert.True(t, dec("4982").Equal(f.stock(t, f.coffee)))
}

func TestCloseUnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Close(context.Background(), 31337)
	requireKind(t, err, KindNotFound)
}

func TestCloseMarksDeliveryDelivered(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, &CreateOrderReq{
		Items:        espressos(f, 1).Items,
		DeliveryInfo: &DeliveryInfo{CustomerName: "Ana", CustomerPhone: "+561111", CustomerAddress: "A"},
	})

	_, err := f.svc.Close(context.Background(), o.ID)
	require.NoError(t, err)

	var d entity.DeliveryOrder
	require.NoError(t, f.db.Where("order_id = ?", o.ID).First(&d).Error)
	assert.Equal(t, entity.DeliveryDelivered, d.Status)
	require.NotNil(t, d.DeliveredAt)
	assert.True(t, fixedNow.Equal(*d.DeliveredAt))
}

func TestCloseReportsLowStock(t *testing.T) {
	f := newFixture(t)
	f.setStock(t, f.coffee, "1010")
	o := f.createOrder(t, espressos(f, 1))

	_, err := f.svc.Close(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Contains(t, f.pub.keys(), EventInventoryLow)
}

func TestConcurrentClosesNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.setStock(t, f.coffee, "36")
	a := f.createOrder(t, espressos(f, 2))
	b := f.createOrder(t, espressos(f, 2))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uint{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = f.svc.Close(context.Background(), id)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, KindInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, dec("0").Equal(f.stock(t, f.coffee)), "stock %s", f.stock(t, f.coffee))
}

func TestConcurrentDoubleCloseDeductsOnce(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, espressos(f, 1))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Close(context.Background(), o.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, KindAlreadyClosed)
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, dec("4982").Equal(f.stock(t, f.coffee)))
}

// ----- Queries -----

func TestListOrdersFilters(t *testing.T) {
	f := newFixture(t)
	dineIn := f.createOrder(t, &CreateOrderReq{TableID: &f.table.ID, Items: espressos(f, 1).Items})
	f.createOrder(t, espressos(f, 1))

	all, err := f.svc.List(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	dt := entity.OrderDineIn
	onlyDineIn, err := f.svc.List(context.Background(), repository.OrderFilter{Type: &dt})
	require.NoError(t, err)
	require.Len(t, onlyDineIn, 1)
	assert.Equal(t, dineIn.ID, onlyDineIn[0].ID)

	closed := entity.OrderClosed
	none, err := f.svc.List(context.Background(), repository.OrderFilter{Status: &closed})
	require.NoError(t, err)
	assert.Empty(t, none)
}
