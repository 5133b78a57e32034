package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"homechat/backend/internal/api/handler"
	"homechat/backend/internal/api/middleware"
	"homechat/backend/internal/config"
	"homechat/backend/internal/models"
	"homechat/backend/internal/notify"
	"homechat/backend/internal/realtime"
	"homechat/backend/internal/storage"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.MessageRead{},
		&models.Notification{},
		&models.NotificationPreference{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting HomeChat Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	hub := realtime.NewHub(s)
	notifications := notify.NewNotificationService(s, hub.Registry, notify.LogDispatcher{})
	h := handler.NewHandler(hub, s, notifications, cfg.JWTSecret)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws", h.ServeWS)

	api := r.Group("/api", middleware.RequireAuth(cfg.JWTSecret, s))
	{
		api.POST("/conversations", h.StartConversation)
		api.GET("/conversations", h.ListConversations)
		api.GET("/conversations/:id", h.GetConversation)
		api.GET("/conversations/:id/messages", h.ListConversationMessages)
		api.POST("/conversations/:id/messages", h.SendMessage)
		api.POST("/conversations/:id/read", h.MarkConversationRead)
		api.POST("/conversations/:id/typing", h.SetTyping)
		api.GET("/conversations/:id/typing", h.ListTyping)

		api.GET("/notifications", h.ListNotifications)
		api.GET("/notifications/unread-count", h.UnreadNotificationCount)
		api.POST("/notifications/read-all", h.MarkAllNotificationsRead)
		api.POST("/notifications/bulk", h.BulkNotifications)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)
		api.PATCH("/notifications/:id", h.UpdateNotification)
		api.DELETE("/notifications/:id", h.DeleteNotification)

		api.GET("/notifications/preferences", h.GetNotificationPreferences)
		api.PUT("/notifications/preferences", h.UpdateNotificationPreferences)
	}

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()
	log.Printf("Listening on :%s", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: HTTP server shutdown: %v", err)
	}
	hub.Registry.Clear()
}
