package migration

import (
	"fmt"
	"log"

	"github.com/apolloncare/cs618-project/entities"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Rating{}); err != nil {
		log.Fatalf("Error migrating rating database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
