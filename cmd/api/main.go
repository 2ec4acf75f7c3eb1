package main

import (
	"log"
	"net/http"

	"tagview-api/internal"
	"tagview-api/internal/config"
)

func main() {
	// Load and validate configuration
	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create and start server
	srv := internal.NewServer(cfg)

	log.Println("Starting TagView API server...")
	log.Printf("JWT Issuer: %s", cfg.JWTIssuer)
	log.Printf("JWT Audience: %s", cfg.JWTAudience)
	log.Printf("JWT Expiry: %v", cfg.JWTExpiry)
	log.Printf("Long checkout threshold: %d days", cfg.LongCheckoutDays)
	log.Printf("Stale update threshold: %d days", cfg.StaleUpdateDays)
	log.Println("Listening on :8080")

	log.Fatal(http.ListenAndServe(":8080", srv.Router))
}
