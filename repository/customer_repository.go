package repository

import (
	"strings"
	"time"

	"restopos/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CustomerRepository struct{ DB *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{DB: db} }

// FindByPhone returns gorm.ErrRecordNotFound (wrapped) when nobody has the phone yet.
func (r *CustomerRepository) FindByPhone(tx *gorm.DB, phone string) (*entity.Customer, error) {
	var c entity.Customer
	if err := forUpdate(tx).Where("phone = ?", phone).First(&c).Error; err != nil {
		return nil, errors.Wrapf(err, "find customer by phone")
	}
	return &c, nil
}

func (r *CustomerRepository) Create(tx *gorm.DB, c *entity.Customer) error {
	return errors.Wrap(tx.Create(c).Error, "create customer")
}

// RecordOrder refreshes contact data, stores the address history and bumps
// the order counter in place.
func (r *CustomerRepository) RecordOrder(tx *gorm.DB, c *entity.Customer, at time.Time) error {
	res := tx.Model(&entity.Customer{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"name":            c.Name,
			"default_address": c.DefaultAddress,
			"address_history": c.AddressHistory,
			"last_order_date": at,
			"order_count":     gorm.Expr("order_count + ?", 1),
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update customer %d", c.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(gorm.ErrRecordNotFound, "update customer %d", c.ID)
	}
	return nil
}

func (r *CustomerRepository) Get(db *gorm.DB, id uint) (*entity.Customer, error) {
	var c entity.Customer
	if err := db.First(&c, id).Error; err != nil {
		return nil, errors.Wrapf(err, "get customer %d", id)
	}
	return &c, nil
}

// Search matches name or phone, most loyal customers first.
func (r *CustomerRepository) Search(term string, limit int) ([]entity.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.Model(&entity.Customer{})
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ?", like, like)
	}
	var out []entity.Customer
	err := q.Order("order_count DESC").Order("last_order_date DESC").Limit(limit).Find(&out).Error
	return out, errors.Wrap(err, "search customers")
}
