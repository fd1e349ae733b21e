package services

import (
	"context"
	"time"

	"restopos/entity"
	"restopos/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DeliveryService struct {
	DB     *gorm.DB
	Repo   *repository.DeliveryRepository
	Events *EventBus
	Log    logrus.FieldLogger

	now func() time.Time
}

func NewDeliveryService(db *gorm.DB, events *EventBus, log logrus.FieldLogger) *DeliveryService {
	return &DeliveryService{
		DB:     db,
		Repo:   repository.NewDeliveryRepository(db),
		Events: events,
		Log:    log,
		now:    time.Now,
	}
}

type UpdateDeliveryReq struct {
	Status   string `json:"status" binding:"required"`
	DriverID *uint  `json:"driverId"`
}

// UpdateStatus advances a delivery. A driver given with the update is stored
// whatever the status. pickupTime and deliveredAt are written the first time
// the delivery reaches PICKED_UP or DELIVERED and never moved afterwards.
func (s *DeliveryService) UpdateStatus(ctx context.Context, deliveryID uint, req *UpdateDeliveryReq) (*entity.DeliveryOrder, error) {
	to, ok := entity.ParseDeliveryStatus(req.Status)
	if !ok {
		return nil, Validation("unknown delivery status %q", req.Status)
	}
	db := s.DB.WithContext(ctx)
	now := s.now()

	err := db.Transaction(func(tx *gorm.DB) error {
		d, err := s.Repo.GetRow(tx, deliveryID)
		if err != nil {
			return classify(err, "delivery", deliveryID, "load delivery")
		}

		fields := map[string]any{"status": to}
		if req.DriverID != nil && *req.DriverID != 0 {
			exists, err := s.Repo.DriverExists(tx, *req.DriverID)
			if err != nil {
				return err
			}
			if !exists {
				return NotFound("driver", *req.DriverID)
			}
			fields["driver_id"] = *req.DriverID
		}
		if to == entity.DeliveryPickedUp && d.PickupTime == nil {
			fields["pickup_time"] = now
		}
		if to == entity.DeliveryDelivered && d.DeliveredAt == nil {
			fields["delivered_at"] = now
		}
		return s.Repo.Update(tx, deliveryID, fields)
	})
	if err != nil {
		return nil, s.fail(classify(err, "delivery", deliveryID, "update delivery"), deliveryID)
	}

	out, err := s.Repo.Get(db, deliveryID)
	if err != nil {
		return nil, s.fail(classify(err, "delivery", deliveryID, "load delivery"), deliveryID)
	}
	s.Events.emit(ctx, EventDeliveryStatus, DeliveryEvent{
		DeliveryID: out.ID,
		OrderID:    out.OrderID,
		Status:     out.Status,
		DriverID:   out.DriverID,
		At:         now,
	})
	return out, nil
}

func (s *DeliveryService) List(ctx context.Context, f repository.DeliveryFilter) ([]entity.DeliveryOrder, error) {
	out, err := repository.NewDeliveryRepository(s.DB.WithContext(ctx)).List(f)
	if err != nil {
		return nil, s.fail(classify(err, "deliveries", "", "list deliveries"), 0)
	}
	return out, nil
}

func (s *DeliveryService) Drivers(ctx context.Context) ([]entity.Driver, error) {
	out, err := repository.NewDeliveryRepository(s.DB.WithContext(ctx)).ListActiveDrivers()
	if err != nil {
		return nil, s.fail(classify(err, "drivers", "", "list drivers"), 0)
	}
	return out, nil
}

func (s *DeliveryService) fail(err error, deliveryID uint) error {
	if err != nil && KindOf(err) == KindPersistence {
		e := s.Log.WithError(err)
		if deliveryID != 0 {
			e = e.WithField("delivery_id", deliveryID)
		}
		e.Error("delivery persistence failure")
	}
	return err
}
