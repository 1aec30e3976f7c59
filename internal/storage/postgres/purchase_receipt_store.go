package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// PurchaseReceiptStore implements storage.PurchaseReceiptStore using PostgreSQL.
type PurchaseReceiptStore struct {
	pool *Pool
}

// NewPurchaseReceiptStore creates a new PurchaseReceiptStore.
func NewPurchaseReceiptStore(pool *Pool) *PurchaseReceiptStore {
	return &PurchaseReceiptStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PurchaseReceiptStore = (*PurchaseReceiptStore)(nil)

// Insert adds a new receipt. Returns ErrDuplicateKey if the address exists.
func (s *PurchaseReceiptStore) Insert(ctx context.Context, r *domain.PurchaseReceipt) error {
	query := `
		INSERT INTO purchase_receipts (
			address, sale, buyer, amount, paid_amount, fee_amount,
			claimed, mint_time, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		r.Address,
		r.Sale,
		r.Buyer,
		int64(r.Amount),
		int64(r.PaidAmount),
		int64(r.FeeAmount),
		r.Claimed,
		r.MintTime,
		r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert purchase receipt: %w", err)
	}
	return nil
}

// Get retrieves a receipt by address. Returns ErrNotFound if not exists.
func (s *PurchaseReceiptStore) Get(ctx context.Context, address string) (*domain.PurchaseReceipt, error) {
	query := `
		SELECT address, sale, buyer, amount, paid_amount, fee_amount,
		       claimed, mint_time, created_at
		FROM purchase_receipts
		WHERE address = $1
	`

	row := s.pool.QueryRow(ctx, query, address)
	r, err := scanPurchaseReceipt(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get purchase receipt: %w", err)
	}
	return r, nil
}

// Update replaces an existing receipt. Returns ErrNotFound if not exists.
func (s *PurchaseReceiptStore) Update(ctx context.Context, r *domain.PurchaseReceipt) error {
	query := `
		UPDATE purchase_receipts SET
			sale = $2, buyer = $3, amount = $4, paid_amount = $5,
			fee_amount = $6, claimed = $7, mint_time = $8, created_at = $9
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		r.Address,
		r.Sale,
		r.Buyer,
		int64(r.Amount),
		int64(r.PaidAmount),
		int64(r.FeeAmount),
		r.Claimed,
		r.MintTime,
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetBySale retrieves all receipts for a sale, ordered by created_at ASC.
func (s *PurchaseReceiptStore) GetBySale(ctx context.Context, sale string) ([]*domain.PurchaseReceipt, error) {
	query := `
		SELECT address, sale, buyer, amount, paid_amount, fee_amount,
		       claimed, mint_time, created_at
		FROM purchase_receipts
		WHERE sale = $1
		ORDER BY created_at ASC, address ASC
	`

	rows, err := s.pool.Query(ctx, query, sale)
	if err != nil {
		return nil, fmt.Errorf("get receipts by sale: %w", err)
	}
	defer rows.Close()

	var receipts []*domain.PurchaseReceipt
	for rows.Next() {
		r, err := scanPurchaseReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase receipt row: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase receipt rows: %w", err)
	}
	return receipts, nil
}

// scanPurchaseReceipt scans a single row into a PurchaseReceipt.
func scanPurchaseReceipt(row pgx.Row) (*domain.PurchaseReceipt, error) {
	var r domain.PurchaseReceipt
	var amount, paid, fee int64

	err := row.Scan(
		&r.Address,
		&r.Sale,
		&r.Buyer,
		&amount,
		&paid,
		&fee,
		&r.Claimed,
		&r.MintTime,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Amount = uint64(amount)
	r.PaidAmount = uint64(paid)
	r.FeeAmount = uint64(fee)
	return &r, nil
}
