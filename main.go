package main

import (
	"log"
	"net/http"
	"os"

	"coedit/config/database"
	"coedit/pkg/logger"
	"coedit/router"
	"coedit/socket"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables from OS")
	}

	logger.Init()
	defer logger.Log.Sync()

	if os.Getenv("JWT_SECRET") == "" {
		logger.Sugar.Fatal("JWT_SECRET environment variable not set.")
	}

	db := database.Connect()
	defer db.Close()

	// The hub relays edit deltas between connections viewing the same
	// document. Its event loop runs in its own goroutine.
	hub := socket.NewHub()
	go hub.Run()

	handler := router.Setup(db, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	logger.Sugar.Infof("Server is running on http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
