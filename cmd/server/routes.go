package main

import (
	"net/http"
	"time"

	"bistro-backend/internal/handlers"
	"bistro-backend/internal/middleware"
	"bistro-backend/internal/models"
	"bistro-backend/internal/services"
	"bistro-backend/internal/store"
	"bistro-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// app holds everything the router hands to handlers
type app struct {
	jwtSecret string
	tokenTTL  time.Duration
	started   time.Time
	logger    *zap.Logger

	store        *store.Store
	users        *services.UserService
	pos          *services.POSService
	orders       *services.OrderService
	kitchen      *services.KitchenService
	delivery     *services.DeliveryService
	pickup       *services.PickupService
	drivers      *services.DriverService
	menu         *services.MenuService
	reservations *services.ReservationService
	dashboard    *services.DashboardService

	hub      *websocket.Hub
	history  handlers.HistoryReader
	backends map[string]handlers.Pinger
}

// Role groups for write routes. Admin passes every check.
var (
	frontOfHouse  = []string{models.RoleManager, models.RoleCashier}
	kitchenStaff  = []string{models.RoleManager, models.RoleKitchen}
	deliveryStaff = []string{models.RoleManager, models.RoleCashier, models.RoleDriver}
)

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(a.logger))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handlers.Health(a.started, a.backends))

	r.Post("/api/auth/login", handlers.Login(a.users, a.jwtSecret, a.tokenTTL, a.logger))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(a.hub, a.jwtSecret, a.logger))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(a.jwtSecret, a.logger))

			r.Get("/auth/status", handlers.GetAuthStatus(a.users))

			// Reads are open to all staff
			r.Get("/tables", handlers.GetTables(a.store))
			r.Get("/pos/tables/{id}/draft", handlers.GetDraft(a.pos))
			r.Get("/orders", handlers.GetOrders(a.orders))
			r.Get("/orders/history", handlers.GetOrderHistory(a.history))
			r.Get("/orders/{id}", handlers.GetOrder(a.orders))
			r.Get("/orders/{id}/status-log", handlers.GetOrderStatusLog(a.history))
			r.Get("/kitchen", handlers.GetKitchenBoard(a.kitchen))
			r.Get("/delivery", handlers.GetDeliveryBoard(a.delivery))
			r.Get("/pickup", handlers.GetPickupBoard(a.pickup))
			r.Get("/drivers", handlers.GetDrivers(a.drivers))
			r.Get("/menu", handlers.GetMenu(a.menu))
			r.Get("/menu/categories", handlers.GetCategories(a.menu))
			r.Get("/reservations", handlers.GetReservations(a.reservations))

			// Front of house
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(frontOfHouse...))

				r.Patch("/tables/{id}/status", handlers.UpdateTableStatus(a.store))
				r.Post("/tables/{id}/clean", handlers.CleanTable(a.store))

				r.Post("/pos/tables/{id}/items", handlers.AddDraftItem(a.pos))
				r.Delete("/pos/tables/{id}/items/{menuItemId}", handlers.RemoveDraftItem(a.pos))
				r.Post("/pos/tables/{id}/submit", handlers.SubmitDraft(a.pos))

				r.Post("/orders", handlers.CreateOrder(a.orders))
				r.Post("/orders/{id}/confirm", handlers.ConfirmOrder(a.orders))
				r.Post("/orders/{id}/cancel", handlers.CancelOrder(a.orders))
				r.Post("/orders/{id}/serve", handlers.ServeOrder(a.orders))
				r.Post("/orders/{id}/close", handlers.CloseOrder(a.orders))

				r.Post("/delivery/orders/{id}/assign", handlers.AssignDriver(a.delivery))
				r.Post("/pickup/orders/{id}/collect", handlers.CollectPickup(a.pickup))

				r.Post("/reservations", handlers.CreateReservation(a.reservations))
				r.Post("/reservations/{id}/confirm", handlers.ConfirmReservation(a.reservations))
				r.Post("/reservations/{id}/decline", handlers.DeclineReservation(a.reservations))
				r.Post("/reservations/{id}/complete", handlers.CompleteReservation(a.reservations))
				r.Post("/reservations/{id}/cancel", handlers.CancelReservation(a.reservations))
			})

			// Kitchen
			r.With(middleware.RequireRole(kitchenStaff...)).
				Post("/kitchen/orders/{id}/advance", handlers.AdvanceOrder(a.kitchen))

			// Drivers
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(deliveryStaff...))

				r.Post("/delivery/orders/{id}/complete", handlers.CompleteDelivery(a.delivery))
				r.Patch("/drivers/{id}/status", handlers.UpdateDriverStatus(a.drivers))
				r.Post("/drivers/{id}/device-token", handlers.RegisterDriverDevice(a.drivers))
			})

			// Back office
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleManager))

				r.Post("/drivers", handlers.CreateDriver(a.drivers))

				r.Post("/menu", handlers.CreateMenuItem(a.menu))
				r.Post("/menu/categories", handlers.CreateCategory(a.menu))
				r.Delete("/menu/categories/{name}", handlers.DeleteCategory(a.menu))
				r.Post("/menu/assist", handlers.AssistMenuItem(a.menu))
				r.Put("/menu/{id}", handlers.UpdateMenuItem(a.menu))
				r.Delete("/menu/{id}", handlers.DeleteMenuItem(a.menu))
				r.Post("/menu/{id}/audio", handlers.GenerateMenuAudio(a.menu))
				r.Post("/menu/{id}/image", handlers.EditMenuImage(a.menu))

				r.Get("/dashboard", handlers.GetDashboard(a.dashboard))
				r.Post("/dashboard/insight", handlers.GetDashboardInsight(a.dashboard))
			})
		})

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(a.jwtSecret, a.logger))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/users", handlers.CreateUser(a.users, a.logger))
		})
	})

	return r
}
