package controllers

import (
	"restopos/entity"
	"restopos/pkg/resp"
	"restopos/repository"
	"restopos/services"
	"restopos/utils"

	"github.com/gin-gonic/gin"
)

type DeliveryController struct{ Svc *services.DeliveryService }

func NewDeliveryController(svc *services.DeliveryService) *DeliveryController {
	return &DeliveryController{Svc: svc}
}

// GET /api/delivery?status=&driverId=&dateFrom=&dateTo=
func (dc *DeliveryController) List(c *gin.Context) {
	var f repository.DeliveryFilter
	if v := c.Query("status"); v != "" {
		st, ok := entity.ParseDeliveryStatus(v)
		if !ok {
			resp.Fail(c, services.Validation("unknown delivery status %q", v))
			return
		}
		f.Status = &st
	}

	var err error
	if f.DriverID, err = utils.QueryUint(c, "driverId"); err != nil {
		resp.Fail(c, services.Validation("%s", err.Error()))
		return
	}
	if f.From, err = utils.QueryTime(c, "dateFrom"); err != nil {
		resp.Fail(c, services.Validation("%s", err.Error()))
		return
	}
	if f.To, err = utils.QueryTime(c, "dateTo"); err != nil {
		resp.Fail(c, services.Validation("%s", err.Error()))
		return
	}

	out, err := dc.Svc.List(c.Request.Context(), f)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "deliveries", out)
}

// PATCH /api/delivery/:id
func (dc *DeliveryController) UpdateStatus(c *gin.Context) {
	id := utils.ParamID(c, "id")
	if id == 0 {
		resp.Fail(c, services.Validation("invalid delivery id"))
		return
	}
	var req services.UpdateDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c, services.Validation("%s", err.Error()))
		return
	}
	d, err := dc.Svc.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "delivery", d)
}

// GET /api/drivers
func (dc *DeliveryController) Drivers(c *gin.Context) {
	out, err := dc.Svc.Drivers(c.Request.Context())
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "drivers", out)
}
