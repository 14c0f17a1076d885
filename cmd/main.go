package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/kagabo/simplepay-gobackend/internal/db"
	"github.com/kagabo/simplepay-gobackend/internal/handlers"
	"github.com/kagabo/simplepay-gobackend/internal/services"
)

func main() {
	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	uri := os.Getenv("MONGOURI")
	if uri == "" {
		log.Fatal("MONGOURI environment variable not set")
	}
	client, err := db.Connect(uri)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer func() {
		if err := db.Disconnect(ctx, client); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	dbName := os.Getenv("MONGODB")
	if dbName == "" {
		dbName = "simplepaydb"
	}
	database := client.Database(dbName)

	paymentService := services.NewPaymentService(database)
	if err := paymentService.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set up router
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")
	handlers.RegisterRoutes(router, paymentHandler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(server.ListenAndServe())
}
