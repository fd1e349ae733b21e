package controllers

import (
	"restopos/pkg/resp"
	"restopos/services"
	"restopos/utils"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Catalog   *services.CatalogService
	Customers *services.CustomerService
}

func NewCatalogController(catalog *services.CatalogService, customers *services.CustomerService) *CatalogController {
	return &CatalogController{Catalog: catalog, Customers: customers}
}

// GET /api/products?categoryId=&all=true
func (cc *CatalogController) Products(c *gin.Context) {
	categoryID, err := utils.QueryUint(c, "categoryId")
	if err != nil {
		resp.Fail(c, services.Validation("%s", err.Error()))
		return
	}
	out, err := cc.Catalog.Products(c.Request.Context(), categoryID, c.Query("all") != "true")
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "products", out)
}

// GET /api/categories
func (cc *CatalogController) Categories(c *gin.Context) {
	out, err := cc.Catalog.Categories(c.Request.Context())
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "categories", out)
}

// GET /api/customers?search=
func (cc *CatalogController) SearchCustomers(c *gin.Context) {
	out, err := cc.Customers.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "customers", out)
}
