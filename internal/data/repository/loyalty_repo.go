package repository

import (
	"context"
	"fmt"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoyaltyRepository is the append-only points ledger. Balances live on the
// user row and are changed through UserRepository.AddPoints in the same
// transaction as the ledger insert.
type LoyaltyRepository interface {
	CreateTransaction(ctx context.Context, tx *entity.LoyaltyTransaction) error
	FindTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LoyaltyTransaction, error)
	HasReference(ctx context.Context, userID uuid.UUID, referenceID string) (bool, error)
}

type loyaltyRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewLoyaltyRepository(db database.Querier, log *zap.Logger) LoyaltyRepository {
	return &loyaltyRepository{
		db:  db,
		log: log.With(zap.String("repository", "loyalty")),
	}
}

func (lr *loyaltyRepository) CreateTransaction(ctx context.Context, t *entity.LoyaltyTransaction) error {
	query := `
		INSERT INTO loyalty_transactions (id, user_id, type, points, description, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := lr.db.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Type,
		t.Points,
		t.Description,
		t.ReferenceID,
		t.CreatedAt,
	)
	if err != nil {
		lr.log.Error("Failed to create loyalty transaction",
			zap.Error(err),
			zap.String("user_id", t.UserID.String()),
			zap.Int("points", t.Points),
		)
		return fmt.Errorf("create loyalty transaction for user %s: %w", t.UserID, err)
	}

	return nil
}

func (lr *loyaltyRepository) FindTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LoyaltyTransaction, error) {
	query := `
		SELECT id, user_id, type, points, description, reference_id, created_at
		FROM loyalty_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := lr.db.Query(ctx, query, userID, limit)
	if err != nil {
		lr.log.Error("Failed to find loyalty transactions", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find loyalty transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var txs []*entity.LoyaltyTransaction
	for rows.Next() {
		var t entity.LoyaltyTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Points, &t.Description, &t.ReferenceID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan loyalty transaction row: %w", err)
		}
		txs = append(txs, &t)
	}

	return txs, rows.Err()
}

func (lr *loyaltyRepository) HasReference(ctx context.Context, userID uuid.UUID, referenceID string) (bool, error) {
	var exists bool
	err := lr.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM loyalty_transactions WHERE user_id = $1 AND reference_id = $2)`,
		userID, referenceID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check loyalty reference %s: %w", referenceID, err)
	}
	return exists, nil
}
