package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"rl_academy_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// progressKeyPrefix 进度快照的固定命名空间
const progressKeyPrefix = "rl_academy:progress:"

// ProgressRepository 进度快照的同步存取。没有快照视为全新进度，不报错。
type ProgressRepository struct {
	Redis *redis.Client
}

func NewProgressRepository(rdb *redis.Client) *ProgressRepository {
	return &ProgressRepository{Redis: rdb}
}

func progressKey(userID uint) string {
	return fmt.Sprintf("%s%d", progressKeyPrefix, userID)
}

// LoadSnapshot 读取学员的进度快照；键不存在时返回 (nil, nil)
func (r *ProgressRepository) LoadSnapshot(ctx context.Context, userID uint) (*model.ProgressSnapshot, error) {
	val, err := r.Redis.Get(ctx, progressKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var snap model.ProgressSnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SaveSnapshot 整体覆盖写入快照，无过期时间
func (r *ProgressRepository) SaveSnapshot(ctx context.Context, snap *model.ProgressSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, progressKey(snap.UserID), data, 0).Err()
}

// DeleteSnapshot 清除学员进度（管理用途）
func (r *ProgressRepository) DeleteSnapshot(ctx context.Context, userID uint) error {
	return r.Redis.Del(ctx, progressKey(userID)).Err()
}
