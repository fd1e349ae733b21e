package repository

import (
	"restopos/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TableRepository struct{ DB *gorm.DB }

func NewTableRepository(db *gorm.DB) *TableRepository { return &TableRepository{DB: db} }

func (r *TableRepository) Get(db *gorm.DB, id uint) (*entity.Table, error) {
	var t entity.Table
	if err := db.First(&t, id).Error; err != nil {
		return nil, errors.Wrapf(err, "get table %d", id)
	}
	return &t, nil
}

func (r *TableRepository) SetStatus(db *gorm.DB, id uint, status entity.TableStatus) error {
	res := db.Model(&entity.Table{}).Where("id = ?", id).Update("status", status)
	return errors.Wrapf(res.Error, "set table %d status", id)
}

// SetStatusFrom is the guarded variant used by manual actions.
func (r *TableRepository) SetStatusFrom(db *gorm.DB, id uint, from, to entity.TableStatus) (int64, error) {
	res := db.Model(&entity.Table{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, errors.Wrapf(res.Error, "set table %d status", id)
}

// ListWithActiveOrders returns every table with its open (not yet closed) orders.
func (r *TableRepository) ListWithActiveOrders() ([]entity.Table, error) {
	open := []entity.OrderStatus{entity.OrderPending, entity.OrderPreparing, entity.OrderReady, entity.OrderDelivered}
	var out []entity.Table
	err := r.DB.
		Preload("Orders", "status IN ?", open).
		Preload("Orders.Items").
		Preload("Orders.Items.Product").
		Order("number ASC").
		Find(&out).Error
	return out, errors.Wrap(err, "list tables")
}
