package routes

import (
	parcelController "parcel-delivery/controllers/parcel"
	paymentController "parcel-delivery/controllers/payment"
	riderController "parcel-delivery/controllers/rider"
	userController "parcel-delivery/controllers/user"
	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	parcelService "parcel-delivery/services/parcel"
	paymentService "parcel-delivery/services/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)

	payments := paymentService.NewPaymentService(db, parcelService.NewLifecycleService(db))

	parcels := parcelController.NewParcelController(db, asyncLogger)
	riderCtrl := riderController.NewRiderController(db, asyncLogger)
	users := userController.NewUserController(db, asyncLogger)
	paymentCtrl := paymentController.NewPaymentController(db, asyncLogger, payments)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "parcel-delivery",
			"status":  "ok",
		})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Parcel Routes
	===============================================================================*/
	parcelGroup := api.Group("/parcels").Use(middleware.Protected())

	parcelGroup.Post("/", parcels.Create)
	parcelGroup.Get("/user/:userEmail", parcels.GetMyParcels)
	parcelGroup.Get("/id/:parcelId", parcels.GetByID)
	parcelGroup.Get("/tracking/:trackingId", parcels.GetByTrackingID)
	parcelGroup.Patch("/tracking/:parcelId", parcels.AddTracking)

	parcelGroup.Get("/assignRider", middleware.RequireAdmin(db), parcels.GetAssignable)
	parcelGroup.Patch("/assign/:parcelId", middleware.RequireAdmin(db), parcels.AssignRider)
	parcelGroup.Get("/summary/status", middleware.RequireAdmin(db), parcels.StatusSummary)
	parcelGroup.Delete("/:id", middleware.RequireAdmin(db), parcels.Delete)

	parcelGroup.Get("/pending-deliveries/:email", middleware.RequireRider(db), parcels.GetPendingDeliveries)
	parcelGroup.Get("/completed-deliveries/:email", middleware.RequireRider(db), parcels.GetCompletedDeliveries)
	parcelGroup.Patch("/update-status/:id", middleware.RequireRider(db), parcels.UpdateStatus)
	parcelGroup.Patch("/cash-out/:id", middleware.RequireRider(db), parcels.CashOut)

	/*=============================================================================
	| Rider Routes
	===============================================================================*/
	riderGroup := api.Group("/rider").Use(middleware.Protected())

	riderGroup.Post("/", riderCtrl.Apply)
	riderGroup.Get("/available", riderCtrl.GetAvailable)

	riderGroup.Get("/pending", middleware.RequireAdmin(db), riderCtrl.GetPending)
	riderGroup.Patch("/status/:id", middleware.RequireAdmin(db), riderCtrl.UpdateStatus)
	riderGroup.Get("/approved", middleware.RequireAdmin(db), riderCtrl.GetApproved)
	riderGroup.Patch("/activeOrDeactivate/:id", middleware.RequireAdmin(db), riderCtrl.UpdateActiveStatus)

	riderGroup.Get("/approved/:email", middleware.RequireRider(db), riderCtrl.GetApprovedByEmail)
	riderGroup.Patch("/update-work-status/:email", middleware.RequireRider(db), riderCtrl.UpdateWorkStatus)

	/*=============================================================================
	| User Routes
	===============================================================================*/
	userGroup := api.Group("/user")

	// First-login upsert happens before the caller exists in our table, so it
	// only needs a verified token, not a stored role.
	userGroup.Post("/", middleware.Protected(), users.CreateOrTouch)
	userGroup.Get("/role", middleware.Protected(), users.RoleByEmail)

	userGroup.Get("/search", middleware.Protected(), middleware.RequireAdmin(db), users.Search)
	userGroup.Patch("/make-admin/:id", middleware.Protected(), middleware.RequireAdmin(db), users.MakeAdmin)
	userGroup.Patch("/remove-admin/:id", middleware.Protected(), middleware.RequireAdmin(db), users.RemoveAdmin)

	/*=============================================================================
	| Payment Routes
	===============================================================================*/
	paymentGroup := api.Group("/payment").Use(middleware.Protected())

	paymentGroup.Post("/create-checkout-session", paymentCtrl.Checkout)
	paymentGroup.Post("/conformAndSaveHistory", paymentCtrl.Confirm)
	paymentGroup.Get("/history/:email", paymentCtrl.HistoryByEmail)
}
