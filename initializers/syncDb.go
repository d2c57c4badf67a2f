package initializers

import (
	"log"

	"gorm.io/gorm"

	"github.com/markethub/storefront-gateway/models"
)

func SyncDatabase(db *gorm.DB) {
	if err := db.AutoMigrate(&models.OrderSnapshot{}); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	log.Println("Database synced successfully.")
}
