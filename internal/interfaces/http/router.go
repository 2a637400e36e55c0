package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ordio-mrp/ordio-api/internal/application/auth"
	"github.com/ordio-mrp/ordio-api/internal/application/inventory"
	"github.com/ordio-mrp/ordio-api/internal/application/manufacturing"
	"github.com/ordio-mrp/ordio-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	BOMUC        *usecase.BOMUseCase
	WorkCenterUC *usecase.WorkCenterUseCase
	LedgerUC     *inventory.LedgerUseCase
	AdjustmentUC *inventory.AdjustmentUseCase
	MOUC         *manufacturing.MOUseCase
	WOUC         *manufacturing.WOUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Work centers (protegido)
	workCenters := protected.Group("/work-centers")
	workCenterHandler := NewWorkCenterHandler(deps.WorkCenterUC)
	workCenters.Post("/", workCenterHandler.Create)
	workCenters.Get("/", workCenterHandler.List)
	workCenters.Get("/:id", workCenterHandler.GetByID)

	// BOMs (protegido)
	boms := protected.Group("/boms")
	bomHandler := NewBOMHandler(deps.BOMUC)
	boms.Post("/", bomHandler.Create)
	boms.Get("/", bomHandler.List)
	boms.Get("/:id", bomHandler.GetByID)
	boms.Get("/:id/cost", bomHandler.EstimatedCost)

	// Stock ledger (protegido)
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inv.Post("/movements", inventoryHandler.RecordMovement)
	inv.Get("/movements/:type", inventoryHandler.ListByMovementType)
	inv.Get("/products/:id/history", inventoryHandler.History)
	inv.Get("/summary", inventoryHandler.Summary)

	// Stock adjustments (protegido)
	adjustments := protected.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/pending", adjustmentHandler.ListPending)
	adjustments.Patch("/:id", adjustmentHandler.Update)
	adjustments.Post("/:id/approve", RequireRole("admin", "manager"), adjustmentHandler.Approve)
	adjustments.Post("/:id/reject", RequireRole("admin", "manager"), adjustmentHandler.Reject)

	// Manufacturing orders (protegido)
	mos := protected.Group("/manufacturing-orders")
	moHandler := NewManufacturingHandler(deps.MOUC)
	woHandler := NewWorkOrderHandler(deps.WOUC)
	mos.Post("/", moHandler.Create)
	mos.Get("/", moHandler.List)
	mos.Get("/:id", moHandler.GetByID)
	mos.Post("/:id/confirm", moHandler.Confirm)
	mos.Post("/:id/complete", moHandler.Complete)
	mos.Post("/:id/cancel", moHandler.Cancel)
	mos.Get("/:id/requirements", moHandler.Requirements)
	mos.Get("/:id/progress", moHandler.Progress)
	mos.Get("/:id/work-orders", woHandler.ListByMO)

	// Work orders (protegido)
	wos := protected.Group("/work-orders")
	wos.Get("/:id", woHandler.GetByID)
	wos.Post("/:id/start", woHandler.Start)
	wos.Post("/:id/pause", woHandler.Pause)
	wos.Post("/:id/resume", woHandler.Resume)
	wos.Post("/:id/complete", woHandler.Complete)
	wos.Post("/:id/cancel", woHandler.Cancel)
	wos.Get("/:id/events", woHandler.Events)
}
