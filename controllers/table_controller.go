package controllers

import (
	"restopos/pkg/resp"
	"restopos/services"
	"restopos/utils"

	"github.com/gin-gonic/gin"
)

type TableController struct{ Svc *services.TableService }

func NewTableController(svc *services.TableService) *TableController {
	return &TableController{Svc: svc}
}

// GET /api/tables
func (tc *TableController) List(c *gin.Context) {
	out, err := tc.Svc.List(c.Request.Context())
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "tables", out)
}

// PATCH /api/tables/:id/clean
func (tc *TableController) Clean(c *gin.Context) {
	id := utils.ParamID(c, "id")
	if id == 0 {
		resp.Fail(c, services.Validation("invalid table id"))
		return
	}
	t, err := tc.Svc.MarkClean(c.Request.Context(), id)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "table", t)
}
