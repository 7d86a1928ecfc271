package infra

import (
	"fmt"
	"log"

	"github.com/bqtran/filevault/config"
	"github.com/bqtran/filevault/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresClient struct {
	DB *gorm.DB
}

func InitPostgresClient(cfg *config.EnvConfig) *PostgresClient {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Postgres.HOST,
		cfg.Postgres.Username,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Postgres connection failed: %v", err)
	}

	if err := db.AutoMigrate(&entity.File{}); err != nil {
		log.Fatalf("Postgres migration failed: %v", err)
	}

	log.Println("Connected to Postgres:", cfg.Postgres.HOST+":"+cfg.Postgres.Port)

	return &PostgresClient{DB: db}
}
