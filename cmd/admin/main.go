package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"homechat/backend/internal/config"
	"homechat/backend/internal/models"
	"homechat/backend/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "activate":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin activate <user_id>")
			os.Exit(1)
		}
		userID := parseUserID(os.Args[2])
		if err := setUserActive(storageSvc, userID, true); err != nil {
			log.Fatalf("Error activating user: %v", err)
		}
		fmt.Printf("User %d has been activated.\n", userID)
	case "deactivate":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin deactivate <user_id>")
			os.Exit(1)
		}
		userID := parseUserID(os.Args[2])
		if err := setUserActive(storageSvc, userID, false); err != nil {
			log.Fatalf("Error deactivating user: %v", err)
		}
		fmt.Printf("User %d has been deactivated.\n", userID)
	case "notify":
		if len(os.Args) < 6 {
			fmt.Println("Usage: admin notify <user_id> <type> <title> <message> [priority]")
			os.Exit(1)
		}
		userID := parseUserID(os.Args[2])
		notifType := os.Args[3]
		title := os.Args[4]
		message := os.Args[5]
		priority := models.NotificationPriorityNormal
		if len(os.Args) > 6 {
			priority = os.Args[6]
		}
		id, err := createNotification(storageSvc, userID, notifType, title, message, priority)
		if err != nil {
			log.Fatalf("Error creating notification: %v", err)
		}
		fmt.Printf("Notification %d created for user %d.\n", id, userID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func parseUserID(raw string) uint {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		fmt.Println("Invalid user ID. Please provide a positive integer.")
		os.Exit(1)
	}
	return uint(id)
}

func setUserActive(s storage.Storage, userID uint, active bool) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.IsActive = active
	return s.UpdateUser(user)
}

// createNotification writes the record directly. The user sees it on
// their next fetch; live pushes only happen inside the server process.
func createNotification(s storage.Storage, userID uint, notifType, title, message, priority string) (uint, error) {
	if !models.IsValidNotificationType(notifType) {
		return 0, fmt.Errorf("unknown notification type %q", notifType)
	}
	if !models.IsValidNotificationPriority(priority) {
		return 0, fmt.Errorf("unknown priority %q", priority)
	}
	if _, err := s.GetUserByID(userID); err != nil {
		return 0, err
	}

	n := &models.Notification{
		RecipientID: userID,
		Type:        notifType,
		Priority:    priority,
		Title:       title,
		Message:     message,
	}
	if err := s.CreateNotification(n); err != nil {
		return 0, err
	}
	return n.ID, nil
}
