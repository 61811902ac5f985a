package api

import (
	"log"
	"net/http"
	"os"

	"github.com/kofiadu/salonbase-server/service/appointment"
	"github.com/kofiadu/salonbase-server/service/availability"
	"github.com/kofiadu/salonbase-server/service/booking"
	"github.com/kofiadu/salonbase-server/service/client"
	"github.com/kofiadu/salonbase-server/service/notification"
	"github.com/kofiadu/salonbase-server/service/servicecatalog"
	"github.com/kofiadu/salonbase-server/service/staffcatalog"
	"github.com/kofiadu/salonbase-server/service/subscription"
	"github.com/kofiadu/salonbase-server/service/tenant"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	notifier := notification.NewNotifier(s.db)

	tenantHandler := tenant.NewTenantHandler(s.db)
	tenantHandler.RegisterRoutes(subrouter)

	staffHandler := staffcatalog.NewStaffHandler(s.db)
	staffHandler.RegisterRoutes(subrouter)

	serviceHandler := servicecatalog.NewServiceHandler(s.db)
	serviceHandler.RegisterRoutes(subrouter)

	clientHandler := client.NewClientHandler(s.db)
	clientHandler.RegisterRoutes(subrouter)

	appointmentHandler := appointment.NewAppointmentHandler(s.db, notifier)
	appointmentHandler.RegisterRoutes(subrouter)

	availabilityHandler := availability.NewAvailabilityHandler(s.db)
	availabilityHandler.RegisterRoutes(subrouter)

	subscriptionHandler := subscription.NewSubscriptionHandler(s.db)
	subscriptionHandler.RegisterRoutes(subrouter)

	notificationHandler := notification.NewNotificationHandler(s.db)
	notificationHandler.RegisterRoutes(subrouter)

	bookingHandler := booking.NewBookingHandler(s.db, notifier)
	bookingHandler.RegisterRoutes(subrouter)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Salon-Token"}),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, handlers.LoggingHandler(os.Stdout, cors(router)))
}
