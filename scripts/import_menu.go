package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"resto/internal/database"
	"resto/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type menuDish struct {
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description"`
	Price              float64  `yaml:"price"`
	Category           string   `yaml:"category"`
	CookingTimeMinutes int      `yaml:"cooking_time_minutes"`
	Available          *bool    `yaml:"available"`
	Tags               []string `yaml:"tags"`
}

type menuConfig struct {
	Dishes []menuDish `yaml:"dishes"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		menuPath = flag.String("menu", "configs/menu.yaml", "path to menu.yaml")
		dbPath   = flag.String("db", "./data/resto.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*menuPath)
	if err != nil {
		return fmt.Errorf("read menu: %w", err)
	}
	var cfg menuConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse menu: %w", err)
	}
	if len(cfg.Dishes) == 0 {
		return fmt.Errorf("no dishes in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := db.ListDishes(ctx, false)
	if err != nil {
		return fmt.Errorf("list dishes: %w", err)
	}
	byName := make(map[string]*models.Dish, len(existing))
	for _, d := range existing {
		byName[d.Name] = d
	}

	created := 0
	updated := 0
	for _, md := range cfg.Dishes {
		if md.Name == "" {
			continue
		}

		dish := &models.Dish{
			Name:               md.Name,
			Description:        md.Description,
			Price:              md.Price,
			Category:           models.DishCategory(md.Category),
			CookingTimeMinutes: md.CookingTimeMinutes,
			IsAvailable:        md.Available == nil || *md.Available,
		}
		dish.SetTags(md.Tags)

		if current, ok := byName[md.Name]; ok {
			dish.ID = current.ID
			if err = db.UpdateDish(ctx, dish); err != nil {
				return fmt.Errorf("update %s: %w", md.Name, err)
			}
			updated++
			continue
		}
		if err = db.CreateDish(ctx, dish); err != nil {
			return fmt.Errorf("create %s: %w", md.Name, err)
		}
		created++
	}

	fmt.Printf("done: created=%d updated=%d\n", created, updated)
	return nil
}
