//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Fixed IDs for reference rows so tests can address them without lookups.
var (
	LocationID      = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	ProfessionalID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	ServiceID       = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	ProductID       = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	ClientID        = uuid.MustParse("55555555-5555-5555-5555-555555555555")
	PaymentMethodID = uuid.MustParse("66666666-6666-6666-6666-666666666666")
)

// SeedReferenceData inserts the base catalog every scenario builds on: one
// location open every day around the clock, one professional, a service, a
// product with stock, a client, and a cash payment method.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	statements := []struct {
		sql  string
		args []any
	}{
		{
			sql: `INSERT INTO locations (id, name, timezone, cashback_active, cashback_percent, cashback_min_total_cents)
			      VALUES ($1, 'Test Barbershop', 'UTC', true, 5, 1000)
			      ON CONFLICT (id) DO NOTHING`,
			args: []any{LocationID},
		},
		{
			sql: `INSERT INTO professionals (id, location_id, name, commission_percent, active)
			      VALUES ($1, $2, 'Test Barber', 40, true)
			      ON CONFLICT (id) DO NOTHING`,
			args: []any{ProfessionalID, LocationID},
		},
		{
			sql: `INSERT INTO services (id, location_id, name, price_cents, duration_min, commission_percent, active)
			      VALUES ($1, $2, 'Haircut', 5000, 60, 40, true)
			      ON CONFLICT (id) DO NOTHING`,
			args: []any{ServiceID, LocationID},
		},
		{
			sql: `INSERT INTO products (id, location_id, name, price_cents, active)
			      VALUES ($1, $2, 'Pomade', 1750, true)
			      ON CONFLICT (id) DO NOTHING`,
			args: []any{ProductID, LocationID},
		},
		{
			sql: `INSERT INTO product_stock (product_id, location_id, quantity)
			      VALUES ($1, $2, 100)
			      ON CONFLICT (product_id) DO UPDATE SET quantity = 100`,
			args: []any{ProductID, LocationID},
		},
		{
			sql: `INSERT INTO clients (id, name, phone, email)
			      VALUES ($1, 'Test Client', '+5511999990000', 'client@example.com')
			      ON CONFLICT (id) DO NOTHING`,
			args: []any{ClientID},
		},
		{
			sql: `INSERT INTO payment_methods (id, name, active)
			      VALUES ($1, 'Cash', true)
			      ON CONFLICT (id) DO NOTHING`,
			args: []any{PaymentMethodID},
		},
		{
			sql: `INSERT INTO working_windows (location_id, professional_id, days_of_week, opens_at, closes_at, active)
			      VALUES ($1, NULL, '{0,1,2,3,4,5,6}', '00:00', '23:59', true)`,
			args: []any{LocationID},
		},
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.sql, stmt.args...); err != nil {
			return err
		}
	}
	return nil
}

// SetCancellationPolicy upserts the location's cancellation rules.
func SetCancellationPolicy(t *testing.T, db DBLike, locationID uuid.UUID, minNoticeHours int32, penaltyPercent float64, maxLate int32) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO cancellation_policies (location_id, min_advance_notice_hours, late_penalty_percent, max_unnotified_cancellations)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (location_id) DO UPDATE SET
			min_advance_notice_hours = EXCLUDED.min_advance_notice_hours,
			late_penalty_percent = EXCLUDED.late_penalty_percent,
			max_unnotified_cancellations = EXCLUDED.max_unnotified_cancellations`,
		locationID, minNoticeHours, penaltyPercent, maxLate)
	require.NoError(t, err)
}

// CreateCoupon inserts an active coupon for the fixture location.
func CreateCoupon(t *testing.T, db DBLike, locationID uuid.UUID, code string, percentOff float64, fixedOffCents int64) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO coupons (id, location_id, code, percent_off, fixed_off_cents, active)
		VALUES ($1, $2, $3, $4, $5, true)`,
		couponID, locationID, code, percentOff, fixedOffCents)
	require.NoError(t, err)
	return couponID
}

// CreateGiftCard inserts an active gift card with the given balance.
func CreateGiftCard(t *testing.T, db DBLike, locationID uuid.UUID, balanceCents int64) uuid.UUID {
	t.Helper()

	cardID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO gift_cards (id, location_id, balance_cents, status)
		VALUES ($1, $2, $3, 'active')`,
		cardID, locationID, balanceCents)
	require.NoError(t, err)
	return cardID
}

// SetStockQuantity overwrites a product's on-hand quantity.
func SetStockQuantity(t *testing.T, db DBLike, productID uuid.UUID, quantity int32) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE product_stock SET quantity = $2 WHERE product_id = $1", productID, quantity)
	require.NoError(t, err)
}

// StockQuantity reads the current on-hand quantity for a product.
func StockQuantity(t *testing.T, db DBLike, productID uuid.UUID) int32 {
	t.Helper()

	var quantity int32
	err := db.QueryRow(context.Background(),
		"SELECT quantity FROM product_stock WHERE product_id = $1", productID).Scan(&quantity)
	require.NoError(t, err)
	return quantity
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all tables and reseeds the reference data.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
