package routes

import (
	"github.com/gofiber/fiber/v2"

	"invoiceforge-backend/controllers"
	"invoiceforge-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Token-gated public invoice pages (no auth, token is the credential)
	app.Get("/i/:token", controllers.ShowPublicInvoice)
	app.Get("/i/:token/download", controllers.DownloadPublicInvoice)
	app.Post("/i/:token/pay", controllers.PayPublicInvoice)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard applies to all mutating protected routes
	protected.Use(middlewares.Idempotency())

	// Clients
	protected.Post("/client", controllers.CreateClient)
	protected.Get("/clients", controllers.GetClients)
	protected.Get("/client/:id", controllers.GetClient)
	protected.Put("/client/:id", controllers.UpdateClient)
	protected.Delete("/client/:id", controllers.DeleteClient)

	// Invoices
	protected.Post("/invoice", controllers.CreateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoice/:id", controllers.GetInvoice)
	protected.Put("/invoice/:id", controllers.UpdateInvoice)
	protected.Delete("/invoice/:id", controllers.DeleteInvoice)
	protected.Post("/invoice/:id/send", controllers.SendInvoice)
	protected.Post("/invoice/:id/pay", controllers.PayInvoice)
	protected.Post("/invoice/:id/cancel", controllers.CancelInvoice)
	protected.Post("/invoice/:id/remind", controllers.RemindInvoice)

	// Dashboard
	protected.Get("/dashboard", controllers.GetDashboard)
}
