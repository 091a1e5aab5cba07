package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duochat/internal/auth"
	"duochat/internal/config"
	"duochat/internal/database"
	"duochat/internal/handlers"
	"duochat/internal/relay"
	"duochat/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize services
	authService := auth.NewService(db, cfg)

	// Initialize the relay engine (connection registry + presence)
	engine := relay.NewEngine(db)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	userHandlers := handlers.NewUserHandlers(authService, db, cfg)
	messageHandlers := handlers.NewMessageHandlers(authService, db)
	wsHandlers := handlers.NewWebSocketHandlers(engine)

	// Setup routes
	mux := http.NewServeMux()
	setupRoutes(mux, cfg, authHandlers, userHandlers, messageHandlers, wsHandlers)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	logger.Info("Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)
	printAPIEndpoints()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}

func setupRoutes(mux *http.ServeMux, cfg *config.Config, authHandlers *handlers.AuthHandlers, userHandlers *handlers.UserHandlers, messageHandlers *handlers.MessageHandlers, wsHandlers *handlers.WebSocketHandlers) {
	// Auth routes
	mux.HandleFunc("/api/login", authHandlers.Login)
	mux.HandleFunc("/api/user", authHandlers.Me)

	// User routes
	mux.HandleFunc("/api/users", userHandlers.ListUsers)
	mux.HandleFunc("/api/user/avatar", userHandlers.UpdateAvatar)

	// Message history
	mux.HandleFunc("/api/messages/", messageHandlers.GetMessages)

	// Uploaded avatars
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Upload.Dir))))

	// WebSocket route
	mux.HandleFunc("/ws", wsHandlers.HandleWebSocket)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func printAPIEndpoints() {
	logger.Info("API endpoints:")
	logger.Info("   POST /api/login")
	logger.Info("   GET  /api/user")
	logger.Info("   GET  /api/users")
	logger.Info("   POST /api/user/avatar")
	logger.Info("   GET  /api/messages/{userId}")
	logger.Info("   GET  /uploads/{file}")
}
