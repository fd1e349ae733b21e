package services

import (
	"context"
	"time"

	"restopos/entity"
	"restopos/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderConfig carries the knobs order creation depends on.
type OrderConfig struct {
	DefaultDeliveryFee     decimal.Decimal
	DefaultEstimatedTime   int // minutes
	RejectUnknownModifiers bool
}

type OrderService struct {
	DB         *gorm.DB
	Repo       *repository.OrderRepository
	Catalog    *repository.CatalogRepository
	Inventory  *repository.InventoryRepository
	Tables     *repository.TableRepository
	Deliveries *repository.DeliveryRepository
	Customers  *CustomerService
	Events     *EventBus
	Log        logrus.FieldLogger
	Config     OrderConfig

	now func() time.Time
}

func NewOrderService(db *gorm.DB, cfg OrderConfig, events *EventBus, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		DB:         db,
		Repo:       repository.NewOrderRepository(db),
		Catalog:    repository.NewCatalogRepository(db),
		Inventory:  repository.NewInventoryRepository(db),
		Tables:     repository.NewTableRepository(db),
		Deliveries: repository.NewDeliveryRepository(db),
		Customers:  NewCustomerService(db, repository.NewCustomerRepository(db)),
		Events:     events,
		Log:        log,
		Config:     cfg,
		now:        time.Now,
	}
}

// ----- DTOs from Controller -----
type OrderItemIn struct {
	ProductID uint     `json:"productId" binding:"required"`
	Quantity  int      `json:"quantity" binding:"required,min=1"`
	Modifiers []string `json:"modifiers"`
	Notes     string   `json:"notes"`
}

type DeliveryInfo struct {
	CustomerName    string           `json:"customerName" binding:"required"`
	CustomerPhone   string           `json:"customerPhone" binding:"required"`
	CustomerAddress string           `json:"customerAddress" binding:"required"`
	DeliveryFee     *decimal.Decimal `json:"deliveryFee"`
	EstimatedTime   *int             `json:"estimatedTime"`
}

type CreateOrderReq struct {
	TableID      *uint            `json:"tableId"`
	Type         entity.OrderType `json:"type"`
	Items        []OrderItemIn    `json:"items" binding:"required,min=1,dive"`
	Notes        string           `json:"notes"`
	DeliveryInfo *DeliveryInfo    `json:"deliveryInfo"`
}

// ----- Create -----
func (s *OrderService) Create(ctx context.Context, req *CreateOrderReq) (*entity.Order, error) {
	orderType, err := s.validateCreate(req)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)

	ids := make([]uint, 0, len(req.Items))
	seen := make(map[uint]bool, len(req.Items))
	for _, it := range req.Items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	found, err := s.Catalog.FindProductsByIDs(db, ids)
	if err != nil {
		return nil, s.fail(classify(err, "product", ids, "load products"), 0)
	}
	products := make(map[uint]*entity.Product, len(found))
	for i := range found {
		products[found[i].ID] = &found[i]
	}

	lines, total, err := PriceLines(req.Items, products, s.Config.RejectUnknownModifiers)
	if err != nil {
		return nil, err
	}

	var delivery *entity.DeliveryOrder
	if di := req.DeliveryInfo; di != nil {
		fee := s.Config.DefaultDeliveryFee
		if di.DeliveryFee != nil {
			fee = *di.DeliveryFee
		}
		eta := s.Config.DefaultEstimatedTime
		if di.EstimatedTime != nil {
			eta = *di.EstimatedTime
		}
		total = total.Add(fee)
		delivery = &entity.DeliveryOrder{
			CustomerName:    di.CustomerName,
			CustomerPhone:   di.CustomerPhone,
			CustomerAddress: di.CustomerAddress,
			DeliveryFee:     fee,
			EstimatedTime:   eta,
			Status:          entity.DeliveryPending,
		}
	}

	now := s.now()
	order := entity.Order{
		Status:  entity.OrderPending,
		Type:    orderType,
		Total:   total,
		Notes:   req.Notes,
		TableID: req.TableID,
		Items:   lines,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if req.TableID != nil {
			if _, err := s.Tables.Get(tx, *req.TableID); err != nil {
				return classify(err, "table", *req.TableID, "load table")
			}
		}
		if req.DeliveryInfo != nil {
			c, err := s.Customers.Upsert(tx, req.DeliveryInfo, now)
			if err != nil {
				return err
			}
			order.CustomerID = &c.ID
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}
		if delivery != nil {
			delivery.OrderID = order.ID
			if err := s.Deliveries.Create(tx, delivery); err != nil {
				return err
			}
		}
		if req.TableID != nil {
			if err := s.Tables.SetStatus(tx, *req.TableID, entity.TableOccupied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(classify(err, "order", 0, "create order"), 0)
	}

	out, err := s.Repo.GetOrder(db, order.ID)
	if err != nil {
		s.Log.WithError(err).WithField("order_id", order.ID).Warn("reload created order failed")
		out = &order
	}
	s.Events.emit(ctx, EventOrderCreated, orderEvent(out, now))
	return out, nil
}

func (s *OrderService) validateCreate(req *CreateOrderReq) (entity.OrderType, error) {
	if req == nil || len(req.Items) == 0 {
		return "", Validation("items is required")
	}
	for i, it := range req.Items {
		if it.ProductID == 0 {
			return "", Validation("items[%d]: productId is required", i)
		}
		if it.Quantity <= 0 {
			return "", Validation("items[%d]: quantity must be positive", i)
		}
	}

	t := req.Type
	switch {
	case t == "" && req.TableID != nil:
		t = entity.OrderDineIn
	case t == "":
		t = entity.OrderTakeaway
	case !t.Valid():
		return "", Validation("unknown order type %q", req.Type)
	}

	if di := req.DeliveryInfo; di != nil {
		if di.CustomerName == "" || di.CustomerPhone == "" || di.CustomerAddress == "" {
			return "", Validation("deliveryInfo requires customerName, customerPhone and customerAddress")
		}
		if di.DeliveryFee != nil && di.DeliveryFee.IsNegative() {
			return "", Validation("deliveryFee must not be negative")
		}
		if di.EstimatedTime != nil && *di.EstimatedTime < 0 {
			return "", Validation("estimatedTime must not be negative")
		}
	} else if t == entity.OrderDelivery {
		return "", Validation("delivery orders need deliveryInfo")
	}
	return t, nil
}

// ----- Status -----

// UpdateStatus writes the new status as given. Any valid status is accepted,
// CLOSED included; only Close consumes stock.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*entity.Order, error) {
	to, ok := entity.ParseOrderStatus(status)
	if !ok {
		return nil, Validation("unknown order status %q", status)
	}
	db := s.DB.WithContext(ctx)

	// MySQL reports zero rows for a no-op update, so existence is checked first
	if _, err := s.Repo.GetOrderRow(db, orderID); err != nil {
		return nil, s.fail(classify(err, "order", orderID, "load order"), orderID)
	}
	if _, err := s.Repo.UpdateStatus(db, orderID, to, s.now()); err != nil {
		return nil, s.fail(classify(err, "order", orderID, "update order status"), orderID)
	}

	out, err := s.Repo.GetOrder(db, orderID)
	if err != nil {
		return nil, s.fail(classify(err, "order", orderID, "load order"), orderID)
	}
	s.Events.emit(ctx, EventOrderStatus, orderEvent(out, s.now()))
	return out, nil
}

// ----- Close -----

type requirement struct {
	item     entity.InventoryItem
	required decimal.Decimal
}

// consumption sums what the order takes out of each inventory item, in the
// order ingredients first appear on its lines. Products that are not
// prepared (bottled drinks, retail) never draw on stock, recipe or not.
func consumption(o *entity.Order) []requirement {
	idx := map[uint]int{}
	var out []requirement
	for _, line := range o.Items {
		if !line.Product.IsPreparable {
			continue
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		for _, r := range line.Product.Recipes {
			need := r.Quantity.Mul(qty)
			if i, ok := idx[r.InventoryItemID]; ok {
				out[i].required = out[i].required.Add(need)
				continue
			}
			idx[r.InventoryItemID] = len(out)
			out = append(out, requirement{item: r.InventoryItem, required: need})
		}
	}
	return out
}

func shortage(it entity.InventoryItem, required decimal.Decimal) *Error {
	return InsufficientStock(StockShortage{
		InventoryItemID: it.ID,
		Ingredient:      it.Name,
		Unit:            string(it.Unit),
		Required:        required,
		Available:       it.CurrentStock,
	})
}

// Close settles an order: every ingredient its recipes consume is deducted,
// the order becomes CLOSED and a linked delivery DELIVERED, all or nothing.
// The table is marked DIRTY afterwards on a best-effort basis.
func (s *OrderService) Close(ctx context.Context, orderID uint) (*entity.Order, error) {
	db := s.DB.WithContext(ctx)
	log := s.Log.WithField("order_id", orderID)

	o, err := s.Repo.GetOrderForClose(db, orderID)
	if err != nil {
		return nil, s.fail(classify(err, "order", orderID, "load order"), orderID)
	}
	if o.Status == entity.OrderClosed {
		return nil, AlreadyClosed(orderID)
	}

	reqs := consumption(o)
	for _, r := range reqs {
		if r.required.GreaterThan(r.item.CurrentStock) {
			return nil, shortage(r.item, r.required)
		}
	}

	now := s.now()
	err = db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.CloseGuard(tx, orderID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return AlreadyClosed(orderID)
		}

		for _, r := range reqs {
			ok, err := s.Inventory.Decrement(tx, r.item.ID, r.required)
			if err != nil {
				return err
			}
			if !ok {
				current, err := s.Inventory.Get(tx, r.item.ID)
				if err != nil {
					return err
				}
				return shortage(*current, r.required)
			}
		}

		if o.Delivery != nil {
			if err := s.Deliveries.MarkDelivered(tx, orderID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(classify(err, "order", orderID, "close order"), orderID)
	}

	if o.TableID != nil {
		if err := s.Tables.SetStatus(db, *o.TableID, entity.TableDirty); err != nil {
			log.WithError(err).WithField("table_id", *o.TableID).Warn("mark table dirty failed")
		}
	}

	out, err := s.Repo.GetOrder(db, orderID)
	if err != nil {
		log.WithError(err).Warn("reload closed order failed")
		o.Status = entity.OrderClosed
		o.ClosedAt = &now
		out = o
	}
	s.Events.emit(ctx, EventOrderClosed, orderEvent(out, now))
	s.reportLowStock(ctx, reqs, now)

	log.WithField("ingredients", len(reqs)).Info("order closed")
	return out, nil
}

func (s *OrderService) reportLowStock(ctx context.Context, reqs []requirement, at time.Time) {
	if s.Events == nil || len(reqs) == 0 {
		return
	}
	ids := make([]uint, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.item.ID)
	}
	items, err := repository.NewInventoryRepository(s.DB.WithContext(ctx)).FindByIDs(ids)
	if err != nil {
		s.Log.WithError(err).Warn("low stock check failed")
		return
	}
	for i := range items {
		it := &items[i]
		if !it.LowStock() {
			continue
		}
		s.Events.emit(ctx, EventInventoryLow, LowStockEvent{
			InventoryItemID: it.ID,
			Name:            it.Name,
			Unit:            it.Unit,
			CurrentStock:    it.CurrentStock,
			MinStock:        it.MinStock,
			At:              at,
		})
	}
}

// ----- Queries -----

func (s *OrderService) Get(ctx context.Context, orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrder(s.DB.WithContext(ctx), orderID)
	if err != nil {
		return nil, s.fail(classify(err, "order", orderID, "load order"), orderID)
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]entity.Order, error) {
	out, err := repository.NewOrderRepository(s.DB.WithContext(ctx)).ListOrders(f)
	if err != nil {
		return nil, s.fail(classify(err, "orders", "", "list orders"), 0)
	}
	return out, nil
}

// fail logs infrastructure failures; business errors pass through quietly.
func (s *OrderService) fail(err error, orderID uint) error {
	if err != nil && KindOf(err) == KindPersistence {
		e := s.Log.WithError(err)
		if orderID != 0 {
			e = e.WithField("order_id", orderID)
		}
		e.Error("order persistence failure")
	}
	return err
}
