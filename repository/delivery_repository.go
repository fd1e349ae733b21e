package repository

import (
	"time"

	"restopos/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type DeliveryRepository struct{ DB *gorm.DB }

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository { return &DeliveryRepository{DB: db} }

func (r *DeliveryRepository) Create(tx *gorm.DB, d *entity.DeliveryOrder) error {
	return errors.Wrap(tx.Create(d).Error, "create delivery")
}

func (r *DeliveryRepository) GetRow(db *gorm.DB, id uint) (*entity.DeliveryOrder, error) {
	var d entity.DeliveryOrder
	if err := db.First(&d, id).Error; err != nil {
		return nil, errors.Wrapf(err, "get delivery %d", id)
	}
	return &d, nil
}

func (r *DeliveryRepository) Get(db *gorm.DB, id uint) (*entity.DeliveryOrder, error) {
	var d entity.DeliveryOrder
	err := db.
		Preload("Order").
		Preload("Order.Items", itemsByID).
		Preload("Order.Items.Product").
		Preload("Driver").
		First(&d, id).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get delivery %d", id)
	}
	return &d, nil
}

func (r *DeliveryRepository) Update(tx *gorm.DB, id uint, fields map[string]any) error {
	res := tx.Model(&entity.DeliveryOrder{}).Where("id = ?", id).Updates(fields)
	return errors.Wrapf(res.Error, "update delivery %d", id)
}

// MarkDelivered is the delivery side of closing an order; an earlier
// delivered_at stamp is kept.
func (r *DeliveryRepository) MarkDelivered(tx *gorm.DB, orderID uint, at time.Time) error {
	res := tx.Model(&entity.DeliveryOrder{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"status":       entity.DeliveryDelivered,
			"delivered_at": gorm.Expr("COALESCE(delivered_at, ?)", at),
		})
	return errors.Wrapf(res.Error, "mark delivery of order %d delivered", orderID)
}

type DeliveryFilter struct {
	Status   *entity.DeliveryStatus
	DriverID *uint
	From     *time.Time
	To       *time.Time
}

func (r *DeliveryRepository) List(f DeliveryFilter) ([]entity.DeliveryOrder, error) {
	q := r.DB.Model(&entity.DeliveryOrder{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.DriverID != nil {
		q = q.Where("driver_id = ?", *f.DriverID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	var out []entity.DeliveryOrder
	err := q.
		Preload("Order").
		Preload("Order.Items", itemsByID).
		Preload("Order.Items.Product").
		Preload("Order.Table").
		Preload("Driver").
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, errors.Wrap(err, "list deliveries")
}

// ---------------- Drivers ----------------

func (r *DeliveryRepository) DriverExists(db *gorm.DB, id uint) (bool, error) {
	var cnt int64
	if err := db.Model(&entity.Driver{}).Where("id = ? AND is_active = ?", id, true).Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "count drivers")
	}
	return cnt > 0, nil
}

func (r *DeliveryRepository) ListActiveDrivers() ([]entity.Driver, error) {
	var out []entity.Driver
	err := r.DB.Where("is_active = ?", true).Order("name ASC").Find(&out).Error
	return out, errors.Wrap(err, "list drivers")
}
