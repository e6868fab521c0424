package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gimvic/schedule-sync/internal/models"
)

// MenuRepository stores daily snack and lunch menus.
type MenuRepository struct {
	db *sqlx.DB
}

// NewMenuRepository constructs a MenuRepository.
func NewMenuRepository(db *sqlx.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// ReplaceSnackForDates swaps the snack menus for every date covered by the
// given set. One menu document spans a week, so all its days commit together.
func (r *MenuRepository) ReplaceSnackForDates(ctx context.Context, ext sqlx.ExtContext, menus []models.SnackMenu) error {
	for _, date := range menuDates(len(menus), func(i int) time.Time { return menus[i].Date }) {
		if _, err := ext.ExecContext(ctx, "DELETE FROM snack_menus WHERE date = $1", date); err != nil {
			return fmt.Errorf("clear snack menus: %w", err)
		}
	}
	const query = `INSERT INTO snack_menus (date, normal, poultry, vegetarian, fruit_vegetable)
		VALUES (:date, :normal, :poultry, :vegetarian, :fruit_vegetable)`
	for i := range menus {
		if _, err := sqlx.NamedExecContext(ctx, ext, query, &menus[i]); err != nil {
			return fmt.Errorf("insert snack menu: %w", err)
		}
	}
	return nil
}

// ReplaceLunchForDates swaps the lunch menus for every date covered by the
// given set.
func (r *MenuRepository) ReplaceLunchForDates(ctx context.Context, ext sqlx.ExtContext, menus []models.LunchMenu) error {
	for _, date := range menuDates(len(menus), func(i int) time.Time { return menus[i].Date }) {
		if _, err := ext.ExecContext(ctx, "DELETE FROM lunch_menus WHERE date = $1", date); err != nil {
			return fmt.Errorf("clear lunch menus: %w", err)
		}
	}
	const query = `INSERT INTO lunch_menus (date, normal, vegetarian)
		VALUES (:date, :normal, :vegetarian)`
	for i := range menus {
		if _, err := sqlx.NamedExecContext(ctx, ext, query, &menus[i]); err != nil {
			return fmt.Errorf("insert lunch menu: %w", err)
		}
	}
	return nil
}

func menuDates(n int, at func(int) time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, n)
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		d := at(i)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	return dates
}
