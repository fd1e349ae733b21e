package controllers

import (
	"restopos/pkg/resp"
	"restopos/services"

	"github.com/gin-gonic/gin"
)

type InventoryController struct{ Svc *services.InventoryService }

func NewInventoryController(svc *services.InventoryService) *InventoryController {
	return &InventoryController{Svc: svc}
}

// GET /api/inventory
func (ic *InventoryController) List(c *gin.Context) {
	out, err := ic.Svc.List(c.Request.Context())
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "items", out)
}

// GET /api/inventory/low-stock
func (ic *InventoryController) LowStock(c *gin.Context) {
	out, err := ic.Svc.LowStock(c.Request.Context())
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "items", out)
}
