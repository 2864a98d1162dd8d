package repository

import (
	"context"
	"errors"
	"fmt"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RewardRepository interface {
	Create(ctx context.Context, reward *entity.LoyaltyReward) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LoyaltyReward, error)
	FindActive(ctx context.Context) ([]*entity.LoyaltyReward, error)
	FindAll(ctx context.Context) ([]*entity.LoyaltyReward, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type rewardRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRewardRepository(db database.Querier, log *zap.Logger) RewardRepository {
	return &rewardRepository{
		db:  db,
		log: log.With(zap.String("repository", "reward")),
	}
}

const rewardColumns = `id, name, description, points_required, active, created_at`

func scanReward(row pgx.Row) (*entity.LoyaltyReward, error) {
	var r entity.LoyaltyReward
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.PointsRequired, &r.Active, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (rr *rewardRepository) Create(ctx context.Context, reward *entity.LoyaltyReward) error {
	_, err := rr.db.Exec(ctx,
		`INSERT INTO loyalty_rewards (`+rewardColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		reward.ID,
		reward.Name,
		reward.Description,
		reward.PointsRequired,
		reward.Active,
		reward.CreatedAt,
	)
	if err != nil {
		rr.log.Error("Failed to create reward", zap.Error(err), zap.String("name", reward.Name))
		return fmt.Errorf("create reward %s: %w", reward.Name, err)
	}
	return nil
}

func (rr *rewardRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LoyaltyReward, error) {
	reward, err := scanReward(rr.db.QueryRow(ctx, `SELECT `+rewardColumns+` FROM loyalty_rewards WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		rr.log.Error("Failed to find reward", zap.Error(err), zap.String("reward_id", id.String()))
		return nil, fmt.Errorf("find reward %s: %w", id, err)
	}
	return reward, nil
}

func (rr *rewardRepository) list(ctx context.Context, query string) ([]*entity.LoyaltyReward, error) {
	rows, err := rr.db.Query(ctx, query)
	if err != nil {
		rr.log.Error("Failed to list rewards", zap.Error(err))
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []*entity.LoyaltyReward
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward row: %w", err)
		}
		rewards = append(rewards, reward)
	}
	return rewards, rows.Err()
}

func (rr *rewardRepository) FindActive(ctx context.Context) ([]*entity.LoyaltyReward, error) {
	return rr.list(ctx, `SELECT `+rewardColumns+` FROM loyalty_rewards WHERE active ORDER BY points_required`)
}

func (rr *rewardRepository) FindAll(ctx context.Context) ([]*entity.LoyaltyReward, error) {
	return rr.list(ctx, `SELECT `+rewardColumns+` FROM loyalty_rewards ORDER BY points_required`)
}

func (rr *rewardRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := rr.db.Exec(ctx, `UPDATE loyalty_rewards SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		rr.log.Error("Failed to update reward", zap.Error(err), zap.String("reward_id", id.String()))
		return fmt.Errorf("set reward %s active=%t: %w", id, active, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("reward %s not found", id)
	}
	return nil
}
