package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"restopos/entity"
	"restopos/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CustomerService struct {
	DB   *gorm.DB
	Repo *repository.CustomerRepository
}

func NewCustomerService(db *gorm.DB, repo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{DB: db, Repo: repo}
}

// ----- Upsert -----

// Upsert records a delivery order against the customer owning the phone.
// It runs inside the caller's transaction: an existing customer gets the new
// name and address, the address appended to the history and the counter
// bumped; an unknown phone creates a customer with a count of one.
func (s *CustomerService) Upsert(tx *gorm.DB, info *DeliveryInfo, at time.Time) (*entity.Customer, error) {
	c, err := s.Repo.FindByPhone(tx, info.CustomerPhone)
	switch {
	case err == nil:
		c.Name = info.CustomerName
		c.DefaultAddress = info.CustomerAddress
		c.AddressHistory = appendAddress(c.AddressHistory, info.CustomerAddress)
		if err := s.Repo.RecordOrder(tx, c, at); err != nil {
			return nil, err
		}
		c.OrderCount++
		c.LastOrderDate = &at
		return c, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		c = &entity.Customer{
			Phone:          info.CustomerPhone,
			Name:           info.CustomerName,
			DefaultAddress: info.CustomerAddress,
			AddressHistory: datatypes.JSONSlice[string]{info.CustomerAddress},
			OrderCount:     1,
			LastOrderDate:  &at,
		}
		if err := s.Repo.Create(tx, c); err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, err
	}
}

// appendAddress keeps the history ordered by first use and free of repeats.
func appendAddress(history datatypes.JSONSlice[string], addr string) datatypes.JSONSlice[string] {
	for _, a := range history {
		if a == addr {
			return history
		}
	}
	out := make(datatypes.JSONSlice[string], 0, len(history)+1)
	out = append(out, history...)
	return append(out, addr)
}

// ----- Queries -----

func (s *CustomerService) Search(ctx context.Context, term string) ([]entity.Customer, error) {
	repo := repository.NewCustomerRepository(s.DB.WithContext(ctx))
	out, err := repo.Search(strings.TrimSpace(term), 50)
	return out, classify(err, "customer", term, "search customers")
}
