package usecase

import (
	"context"
	"errors"
	"time"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/internal/data/repository"

	"github.com/google/uuid"
)

// creditPoints appends a ledger row and moves the user's balance by the same
// amount. It must run inside Repository.WithTx so both writes commit together.
// Debits use negative points and fail with ErrInsufficientPoints when the
// balance would go below zero.
func creditPoints(
	ctx context.Context,
	tx *repository.Repository,
	userID uuid.UUID,
	txType entity.TransactionType,
	points int,
	description string,
	reference string,
) (int, error) {
	balance, err := tx.User.AddPoints(ctx, userID, points)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientPoints) {
			return 0, invalid("points", "insufficient points")
		}
		return 0, err
	}

	row := &entity.LoyaltyTransaction{
		BaseSimple:  entity.NewBaseSimple(time.Now()),
		UserID:      userID,
		Type:        txType,
		Points:      points,
		Description: description,
	}
	if reference != "" {
		row.ReferenceID = &reference
	}

	if err := tx.Loyalty.CreateTransaction(ctx, row); err != nil {
		return 0, err
	}

	return balance, nil
}
