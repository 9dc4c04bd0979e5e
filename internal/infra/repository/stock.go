package repository

import (
	"context"

	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/pgconv"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type StockRepository struct {
	db db.DBTX
}

func NewStockRepository(dbtx db.DBTX) *StockRepository {
	return &StockRepository{db: dbtx}
}

const stockInSQL = `
INSERT INTO product_stock (product_id, location_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (product_id)
DO UPDATE SET quantity = product_stock.quantity + EXCLUDED.quantity`

// Debits are guarded: a row short of the requested quantity (or absent
// entirely) matches no rows, and the caller sees a conflict instead of a
// silent overdraft.
const stockOutSQL = `
UPDATE product_stock
SET quantity = quantity - $2
WHERE product_id = $1 AND quantity >= $2`

const stockMovementSQL = `
INSERT INTO stock_movements (id, location_id, product_id, direction, quantity, reason, ref_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Adjust serializes per product through the stock row's write lock.
func (r *StockRepository) Adjust(ctx context.Context, locationID uuid.UUID, adj shared.StockAdjustment) error {
	if adj.Direction == shared.StockOut {
		tag, err := r.db.Exec(ctx, stockOutSQL, adj.ProductID, adj.Quantity)
		if err != nil {
			return infra.WrapRepoErr("failed to adjust product stock", err)
		}
		if tag.RowsAffected() == 0 {
			return infra.WrapRepoErr("insufficient product stock", nil, infra.KindConflict)
		}
	} else if _, err := r.db.Exec(ctx, stockInSQL, adj.ProductID, locationID, adj.Quantity); err != nil {
		return infra.WrapRepoErr("failed to adjust product stock", err)
	}

	if _, err := r.db.Exec(ctx, stockMovementSQL,
		uuid.New(), locationID, adj.ProductID,
		string(adj.Direction), adj.Quantity, adj.Reason,
		pgconv.UUIDPtrToPgtype(adj.RefID),
	); err != nil {
		return infra.WrapRepoErr("failed to record stock movement", err)
	}
	return nil
}
