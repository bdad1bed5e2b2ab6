package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"tours-server/handlers"
	"tours-server/middleware"
	"tours-server/models"
	"tours-server/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	markerColor := os.Getenv("MARKER_COLOR")
	if markerColor == "" {
		markerColor = "#2D6A4F"
	}

	// Initialize services and handlers
	tourService := services.NewTourService()
	renderer := services.NewMarkerRenderer(services.DefaultTourIcons, markerColor, func(tour models.Tour) {
		log.Printf("Marker pressed: %s (%s)", tour.Name, tour.ID)
	})
	markerHandler := handlers.NewMarkerHandler(tourService, renderer)

	profiles := services.NewMongoProfileStore(tourService.Database.Collection("profiles"))
	termsService := services.NewTermsService(profiles)
	termsHandler := handlers.NewTermsHandler(termsService)

	r := mux.NewRouter()

	// CORS and panic recovery
	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	// Marker routes
	r.HandleFunc("/tours/markers", markerHandler.GetMarkers).Methods("GET", "OPTIONS")
	r.HandleFunc("/tours/markers/{id}/press", markerHandler.PressMarker).Methods("POST", "OPTIONS")

	// Terms routes; the user id comes from the JWT issued by the
	// surrounding app
	termsRouter := r.PathPrefix("/terms").Subrouter()
	termsRouter.Use(middleware.JWTMiddleware(jwtSecret))
	termsRouter.HandleFunc("/check", termsHandler.CheckAcceptance).Methods("POST", "OPTIONS")
	termsRouter.HandleFunc("/accept", termsHandler.AcceptTerms).Methods("POST", "OPTIONS")
	termsRouter.HandleFunc("/reset", termsHandler.Reset).Methods("POST", "OPTIONS")
	termsRouter.HandleFunc("/state", termsHandler.GetState).Methods("GET", "OPTIONS")

	log.Println("Server starting on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
