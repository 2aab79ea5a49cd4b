package server

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/icewatch/ice-news-monitor/internal/application"
	"github.com/icewatch/ice-news-monitor/internal/transport/middleware"
)

// NewRouter builds the HTTP routing for an already-constructed application.
func NewRouter(app *application.Application) http.Handler {
	auth := middleware.Auth(app.Config.WebhookAuthToken)

	r := mux.NewRouter()
	r.Handle("/run", auth(app.RunHandler)).Methods("POST")
	r.Handle("/state", auth(app.StateHandler)).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	r.Handle("/", auth(app.RunHandler)).Methods("POST") // default to run

	return r
}

// CreateHandler creates the main HTTP handler for the application
func CreateHandler() (http.Handler, func(), error) {
	// Create application (handles all DI and business logic)
	app, err := application.New()
	if err != nil {
		log.Printf("Error creating application: %v\nStack:\n%s", err, debug.Stack())
		return nil, nil, err
	}

	cleanup := func() {
		app.Close()
	}

	return NewRouter(app), cleanup, nil
}

// HandleRequest handles a single HTTP request (for Cloud Functions)
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	handler, cleanup, err := CreateHandler()
	if err != nil {
		log.Printf("Failed to create handler: %v\nStack:\n%s", err, debug.Stack())
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	handler.ServeHTTP(w, r)
}
