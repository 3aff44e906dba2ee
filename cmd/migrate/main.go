package main

import (
	"log"
	"os"

	"cooking-coach-be/internal/model"
	"cooking-coach-be/pkg/database"

	"github.com/joho/godotenv"
)

// postMigrationSQL holds index DDL that AutoMigrate cannot express. Table and
// column names must match the models' TableName()/gorm tags.
var postMigrationSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_dish ON sessions (user_id, dish_id);`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_room_created ON chat_messages (chat_room_id, created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_knowledge_documents_embedding ON knowledge_documents USING ivfflat (embedding_value vector_cosine_ops) WITH (lists = 10);`,
}

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate does not handle.
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate for 7 Tables...")

	models := []interface{}{
		&model.User{},
		&model.Dish{},
		&model.CookingSession{},
		&model.LearnerProfile{},
		&model.KnowledgeDocument{},
		&model.ChatRoom{},
		&model.ChatMessage{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: ivfflat needs rows to train on, so the knowledge
	// index is created lazily here and is a no-op on an empty table.
	log.Println("Step 3: Creating Indexes...")

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
