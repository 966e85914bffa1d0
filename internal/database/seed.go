package database

import (
	"context"
	"fmt"

	"resto/internal/models"
)

// Seed populates an empty database with a starter floor plan and menu,
// plus the configured admin account. Re-running against a populated
// database is a no-op.
func (db *DB) Seed(ctx context.Context, adminUsername, adminPasswordHash string) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tables`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}

	if count == 0 {
		tables := []*models.Table{
			{Name: "Table 1", Location: models.LocationMainHall, SeatsCount: 4, IsActive: true},
			{Name: "Table 2", Location: models.LocationWindow, SeatsCount: 2, IsActive: true},
			{Name: "Table 3", Location: models.LocationTerrace, SeatsCount: 6, IsActive: true},
			{Name: "Table 4", Location: models.LocationMainHall, SeatsCount: 4, IsActive: true},
			{Name: "Table 5", Location: models.LocationBar, SeatsCount: 2, IsActive: true},
			{Name: "VIP 1", Location: models.LocationVIPRoom, SeatsCount: 8, IsActive: true},
		}
		for _, t := range tables {
			if err := db.CreateTable(ctx, t); err != nil {
				return err
			}
		}

		dishes := []*models.Dish{
			{Name: "Caesar Salad", Category: models.CategorySalad, Price: 12.99, CookingTimeMinutes: 15, Description: "Fresh salad", IsAvailable: true},
			{Name: "Margherita Pizza", Category: models.CategoryMainCourse, Price: 15.99, CookingTimeMinutes: 20, Description: "Classic pizza", IsAvailable: true},
			{Name: "Tiramisu", Category: models.CategoryDessert, Price: 8.99, CookingTimeMinutes: 10, Description: "Italian dessert", IsAvailable: true},
			{Name: "Tomato Soup", Category: models.CategorySoup, Price: 7.50, CookingTimeMinutes: 12, IsAvailable: true},
			{Name: "Lemonade", Category: models.CategoryBeverage, Price: 4.50, CookingTimeMinutes: 3, IsAvailable: true},
		}
		for _, d := range dishes {
			if err := db.CreateDish(ctx, d); err != nil {
				return err
			}
		}

		db.logger.Info().Int("tables", len(tables)).Int("dishes", len(dishes)).Msg("seeded initial data")
	}

	if adminUsername == "" {
		return nil
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, adminUsername).Scan(&count); err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if count == 0 {
		admin := &models.User{
			Username:     adminUsername,
			PasswordHash: adminPasswordHash,
			FullName:     "Administrator",
			IsAdmin:      true,
		}
		if err := db.CreateUser(ctx, admin); err != nil {
			return err
		}
		db.logger.Info().Str("username", adminUsername).Msg("seeded admin user")
	}

	return nil
}
