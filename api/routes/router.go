package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/palletbase/palletbase-backend/api/controllers"
	"github.com/palletbase/palletbase-backend/api/middleware"
	"github.com/palletbase/palletbase-backend/internal/analytics"
	"github.com/palletbase/palletbase-backend/internal/expenses"
	"github.com/palletbase/palletbase-backend/internal/insights"
	"github.com/palletbase/palletbase-backend/internal/items"
	"github.com/palletbase/palletbase-backend/internal/mileage"
	"github.com/palletbase/palletbase-backend/internal/notifications"
	"github.com/palletbase/palletbase-backend/internal/pallets"
	"github.com/palletbase/palletbase-backend/internal/photos"
	"github.com/palletbase/palletbase-backend/internal/tiers"
	"github.com/palletbase/palletbase-backend/pkg/config"
	"github.com/palletbase/palletbase-backend/pkg/db"
	"github.com/palletbase/palletbase-backend/pkg/logger"
	"github.com/palletbase/palletbase-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Pallets       pallets.Service
	Items         items.Service
	Expenses      expenses.Service
	Mileage       mileage.Service
	Photos        photos.Service
	Analytics     analytics.Service
	Insights      insights.Service
	Tiers         tiers.Service
	Notifications notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.UserContext(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/pallets", func(r chi.Router) {
			r.Get("/", controllers.ListPallets(svcs.Pallets, logg))
			r.Post("/", controllers.CreatePallet(svcs.Pallets, logg))
			r.Route("/{palletID}", func(r chi.Router) {
				r.Get("/", controllers.GetPallet(svcs.Pallets, logg))
				r.Patch("/", controllers.UpdatePallet(svcs.Pallets, logg))
				r.Delete("/", controllers.DeletePallet(svcs.Pallets, logg))
				r.Post("/complete", controllers.CompletePallet(svcs.Pallets, logg))
				r.Post("/dismiss-completion", controllers.DismissCompletionPrompt(svcs.Pallets, logg))
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(svcs.Items, logg))
			r.Post("/", controllers.CreateItem(svcs.Items, logg))
			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/", controllers.GetItem(svcs.Items, logg))
				r.Patch("/", controllers.UpdateItem(svcs.Items, logg))
				r.Delete("/", controllers.DeleteItem(svcs.Items, logg))
				r.Post("/list", controllers.MarkItemListed(svcs.Items, logg))
				r.Post("/sale", controllers.RecordItemSale(svcs.Items, logg))
				r.Put("/allocated-cost", controllers.SetItemAllocatedCost(svcs.Items, logg))
				r.Route("/photos", func(r chi.Router) {
					r.Get("/", controllers.ListItemPhotos(svcs.Photos, logg))
					r.Post("/", controllers.AddItemPhoto(svcs.Photos, logg))
					r.Delete("/{photoID}", controllers.DeleteItemPhoto(svcs.Photos, logg))
				})
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", controllers.ListExpenses(svcs.Expenses, logg))
			r.Post("/", controllers.CreateExpense(svcs.Expenses, logg))
			r.Route("/{expenseID}", func(r chi.Router) {
				r.Get("/", controllers.GetExpense(svcs.Expenses, logg))
				r.Patch("/", controllers.UpdateExpense(svcs.Expenses, logg))
				r.Delete("/", controllers.DeleteExpense(svcs.Expenses, logg))
			})
		})

		r.Route("/mileage", func(r chi.Router) {
			r.Get("/", controllers.ListTrips(svcs.Mileage, logg))
			r.Post("/", controllers.CreateTrip(svcs.Mileage, logg))
			r.Get("/totals", controllers.TripYearTotals(svcs.Mileage, logg))
			r.Delete("/{tripID}", controllers.DeleteTrip(svcs.Mileage, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", controllers.Dashboard(svcs.Analytics, logg))
			r.Get("/profit", controllers.ProfitReport(svcs.Analytics, logg))
			r.Post("/quick-sell", controllers.QuickSellPreview(svcs.Analytics, logg))
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/", controllers.InsightsFeed(svcs.Insights, logg))
			r.Get("/stale", controllers.StaleItems(svcs.Insights, logg))
		})

		r.Get("/usage", controllers.TierUsage(svcs.Tiers, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	return r
}
