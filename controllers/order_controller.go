package controllers

import (
	"restopos/entity"
	"restopos/pkg/resp"
	"restopos/repository"
	"restopos/services"
	"restopos/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Svc: svc}
}

// ===== Create Order =====

// POST /api/orders
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c, services.Validation("%s", err.Error()))
		return
	}

	order, err := oc.Svc.Create(c.Request.Context(), &req)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, "order", order)
}

// ===== Queries =====

// GET /api/orders?status=&type=&tableId=&dateFrom=&dateTo=
func (oc *OrderController) List(c *gin.Context) {
	var f repository.OrderFilter

	if v := c.Query("status"); v != "" {
		st, ok := entity.ParseOrderStatus(v)
		if !ok {
			resp.Fail(c, services.Validation("unknown order status %q", v))
			return
		}
		f.Status = &st
	}
	if v := c.Query("type"); v != "" {
		t, ok := entity.ParseOrderType(v)
		if !ok {
			resp.Fail(c, services.Validation("unknown order type %q", v))
			return
		}
		f.Type = &t
	}

	var err error
	if f.TableID, err = utils.QueryUint(c, "tableId"); err != nil {
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

	orders, err := oc.Svc.List(c.Request.Context(), f)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "orders", orders)
}

// GET /api/orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id := utils.ParamID(c, "id")
	if id == 0 {
		resp.Fail(c, services.Validation("invalid order id"))
		return
	}
	order, err := oc.Svc.Get(c.Request.Context(), id)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "order", order)
}

// ===== Transitions =====

type UpdateOrderStatusReq struct {
	OrderID uint   `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// PATCH /api/orders/status
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req UpdateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c, services.Validation("%s", err.Error()))
		return
	}
	order, err := oc.Svc.UpdateStatus(c.Request.Context(), req.OrderID, req.Status)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "order", order)
}

// POST /api/orders/:id/close
func (oc *OrderController) Close(c *gin.Context) {
	id := utils.ParamID(c, "id")
	if id == 0 {
		resp.Fail(c, services.Validation("invalid order id"))
		return
	}
	order, err := oc.Svc.Close(c.Request.Context(), id)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "order", order)
}
