package routes

import (
	"restopos/configs"
	"restopos/controllers"
	"restopos/middlewares"
	"restopos/services"
	"restopos/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the long-lived pieces main owns and starts.
type Deps struct {
	DB     *gorm.DB
	Config *configs.Config
	Events *services.EventBus
	Feed   *services.KitchenFeed
	Hub    *ws.KitchenHub
	Log    logrus.FieldLogger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.CORSMiddleware(d.Config.CORSOrigins))
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"success": true}) })

	db := d.DB
	secret := d.Config.JWTSecret

	// Services
	orderSvc := services.NewOrderService(db, d.Config.Orders(), d.Events, d.Log)
	deliverySvc := services.NewDeliveryService(db, d.Events, d.Log)

	// Controllers
	orderCtrl := controllers.NewOrderController(orderSvc)
	deliveryCtrl := controllers.NewDeliveryController(deliverySvc)
	tableCtrl := controllers.NewTableController(services.NewTableService(db))
	invCtrl := controllers.NewInventoryController(services.NewInventoryService(db))
	catalogCtrl := controllers.NewCatalogController(services.NewCatalogService(db), orderSvc.Customers)
	kdsCtrl := controllers.NewKDSController(d.Feed, d.Config.KDSKeepAlive)

	staff := []string{middlewares.RoleAdmin, middlewares.RoleCashier, middlewares.RoleBartender}
	front := []string{middlewares.RoleAdmin, middlewares.RoleCashier}

	// พนักงานทุกคน (อ่านข้อมูล + เลื่อนสถานะในครัว)
	api := r.Group("/api", middlewares.AuthMiddleware(secret, staff...))
	{
		api.GET("/orders", orderCtrl.List)
		api.GET("/orders/:id", orderCtrl.Detail)
		api.PATCH("/orders/status", orderCtrl.UpdateStatus)

		api.GET("/tables", tableCtrl.List)
		api.PATCH("/tables/:id/clean", tableCtrl.Clean)

		api.GET("/products", catalogCtrl.Products)
		api.GET("/categories", catalogCtrl.Categories)
		api.GET("/inventory", invCtrl.List)
		api.GET("/inventory/low-stock", invCtrl.LowStock)
	}

	// หน้าร้าน: เปิด/ปิดบิล, เดลิเวอรี, ลูกค้า
	cashier := r.Group("/api", middlewares.AuthMiddleware(secret, front...))
	{
		cashier.POST("/orders", orderCtrl.Create)
		cashier.POST("/orders/:id/close", orderCtrl.Close)

		cashier.GET("/delivery", deliveryCtrl.List)
		cashier.PATCH("/delivery/:id", deliveryCtrl.UpdateStatus)
		cashier.GET("/drivers", deliveryCtrl.Drivers)

		cashier.GET("/customers", catalogCtrl.SearchCustomers)
	}

	// จอครัว: EventSource / WebSocket ส่ง token ผ่าน query ได้
	r.GET("/api/kds/events", middlewares.WSAuthMiddleware(secret, staff...), kdsCtrl.Events)
	r.GET("/ws/kds", middlewares.WSAuthMiddleware(secret, staff...), d.Hub.HandleWebSocket)
}
