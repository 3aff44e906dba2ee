package main

import (
	"context"
	"log"
	"os"

	"cooking-coach-be/internal/model"
	"cooking-coach-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🚀 Seeding Dish Catalog...")

	// MaxAttempts 0 marks the free-choice dish as unlimited.
	dishes := []model.Dish{
		{
			Slug:          "tamagoyaki",
			NameJa:        "だし巻き卵",
			NameEn:        "Rolled Omelette",
			DescriptionJa: "弱めの中火で層を重ねる、基本の卵料理です。",
			Principles: datatypes.NewJSONSlice([]string{
				"卵液は漉してなめらかにする",
				"火加減は弱めの中火を保つ",
				"半熟のうちに巻き始める",
			}),
			MaxAttempts: 3,
		},
		{
			Slug:          "gyoza",
			NameJa:        "焼き餃子",
			NameEn:        "Pan-Fried Gyoza",
			DescriptionJa: "蒸し焼きでパリッとした羽根を作る定番料理です。",
			Principles: datatypes.NewJSONSlice([]string{
				"並べてから動かさずに焼き色をつける",
				"湯を入れたらすぐ蓋をして蒸し焼きにする",
				"水分が飛んでから油を回し入れる",
			}),
			MaxAttempts: 3,
		},
		{
			Slug:          "nikujaga",
			NameJa:        "肉じゃが",
			NameEn:        "Meat and Potato Stew",
			DescriptionJa: "煮崩れさせずに味を含ませる煮物の基本です。",
			Principles: datatypes.NewJSONSlice([]string{
				"じゃがいもは面取りして煮崩れを防ぐ",
				"落とし蓋で煮汁を対流させる",
				"火を止めてから味を含ませる",
			}),
			MaxAttempts: 3,
		},
		{
			Slug:          "free-choice",
			NameJa:        "自由課題",
			NameEn:        "Free Choice",
			DescriptionJa: "好きな料理で腕試し。回数制限はありません。",
			Principles:    datatypes.NewJSONSlice([]string{}),
			MaxAttempts:   0,
		},
	}

	for _, d := range dishes {
		var existing model.Dish
		if err := db.Where("slug = ?", d.Slug).First(&existing).Error; err == nil {
			color.Yellow("Dish '%s' already exists, skipping...", d.Slug)
			continue
		}

		if err := db.Create(&d).Error; err != nil {
			color.Red("Error creating dish '%s': %v", d.Slug, err)
		} else {
			color.Green("Created dish: %s (%s)", d.NameJa, d.Slug)
		}
	}

	color.Cyan("🚀 Seeding Knowledge Base...")
	SeedKnowledgeBase(context.Background(), db)

	color.Green("✅ Seeding completed!")
}
