package repository

import (
	"time"

	"restopos/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

// CreateOrder inserts the order together with its lines.
func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return errors.Wrap(tx.Create(o).Error, "create order")
}

func itemsByID(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }

// GetOrder loads an order with everything the screens display.
func (r *OrderRepository) GetOrder(db *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := db.
		Preload("Items", itemsByID).
		Preload("Items.Product").
		Preload("Table").
		Preload("Customer").
		Preload("Delivery").
		Preload("Delivery.Driver").
		First(&o, orderID).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", orderID)
	}
	return &o, nil
}

// GetOrderRow loads the bare order row.
func (r *OrderRepository) GetOrderRow(db *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := db.First(&o, orderID).Error; err != nil {
		return nil, errors.Wrapf(err, "get order %d", orderID)
	}
	return &o, nil
}

// GetOrderForClose loads lines, products, recipes and the current stock of
// every ingredient involved, plus the linked delivery.
func (r *OrderRepository) GetOrderForClose(db *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := db.
		Preload("Items", itemsByID).
		Preload("Items.Product").
		Preload("Items.Product.Recipes").
		Preload("Items.Product.Recipes.InventoryItem").
		Preload("Delivery").
		First(&o, orderID).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d for close", orderID)
	}
	return &o, nil
}

// UpdateStatus sets a new status. Moving to CLOSED also stamps closed_at
// the first time.
func (r *OrderRepository) UpdateStatus(db *gorm.DB, orderID uint, to entity.OrderStatus, at time.Time) (int64, error) {
	fields := map[string]any{"status": to}
	if to == entity.OrderClosed {
		fields["closed_at"] = gorm.Expr("COALESCE(closed_at, ?)", at)
	}
	res := db.Model(&entity.Order{}).Where("id = ?", orderID).Updates(fields)
	return res.RowsAffected, errors.Wrap(res.Error, "update order status")
}

// CloseGuard flips the order to CLOSED; zero rows means someone closed it first.
func (r *OrderRepository) CloseGuard(tx *gorm.DB, orderID uint, at time.Time) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status <> ?", orderID, entity.OrderClosed).
		Updates(map[string]any{"status": entity.OrderClosed, "closed_at": at})
	return res.RowsAffected, errors.Wrap(res.Error, "close order")
}

// ---------------- Listings ----------------

type OrderFilter struct {
	Status  *entity.OrderStatus
	Type    *entity.OrderType
	TableID *uint
	From    *time.Time
	To      *time.Time
	Limit   int
}

func (r *OrderRepository) ListOrders(f OrderFilter) ([]entity.Order, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	q := r.DB.Model(&entity.Order{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.TableID != nil {
		q = q.Where("table_id = ?", *f.TableID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var out []entity.Order
	err := q.
		Preload("Items", itemsByID).
		Preload("Items.Product").
		Preload("Table").
		Preload("Customer").
		Preload("Delivery").
		Order("created_at DESC, id DESC").
		Limit(f.Limit).
		Find(&out).Error
	return out, errors.Wrap(err, "list orders")
}

// ListByStatus returns the orders in the given statuses, oldest first.
func (r *OrderRepository) ListByStatus(db *gorm.DB, statuses []entity.OrderStatus) ([]entity.Order, error) {
	var out []entity.Order
	err := db.
		Where("status IN ?", statuses).
		Preload("Items", itemsByID).
		Preload("Items.Product").
		Preload("Table").
		Preload("Delivery").
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, errors.Wrap(err, "list orders by status")
}
