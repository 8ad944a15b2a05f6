package api

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/nishirajsingh/AyurSutra/service/admin"
	"github.com/nishirajsingh/AyurSutra/service/auth"
	"github.com/nishirajsingh/AyurSutra/service/booking"
	"github.com/nishirajsingh/AyurSutra/service/notification"
	"github.com/nishirajsingh/AyurSutra/service/practitioner"
	"github.com/nishirajsingh/AyurSutra/service/therapy"
	"github.com/nishirajsingh/AyurSutra/service/ws"
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
	subrouter := router.PathPrefix("/api").Subrouter()

	hub := ws.NewHub()
	notifier := notification.NewNotifier(s.db, hub)

	authHandler := auth.NewHandler(s.db)
	authHandler.RegisterRoutes(subrouter)

	practitionerHandler := practitioner.NewHandler(s.db)
	practitionerHandler.RegisterRoutes(subrouter)

	therapyHandler := therapy.NewHandler(s.db)
	therapyHandler.RegisterRoutes(subrouter)

	bookingHandler := booking.NewHandler(s.db, notifier)
	bookingHandler.RegisterRoutes(subrouter)

	notificationHandler := notification.NewHandler(s.db)
	notificationHandler.RegisterRoutes(subrouter)

	adminHandler := admin.NewHandler(s.db)
	adminHandler.RegisterRoutes(subrouter)

	wsHandler := ws.NewHandler(s.db, hub)
	wsHandler.RegisterRoutes(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}).Methods("GET")

	// CORS is restricted to the configured frontend origin.
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{frontend}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	server := &http.Server{
		Addr:         s.address,
		Handler:      cors(handlers.LoggingHandler(os.Stdout, router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Println("Server running at", s.address)
	return server.ListenAndServe()
}
