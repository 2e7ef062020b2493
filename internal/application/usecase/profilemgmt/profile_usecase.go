package profilemgmt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/career-planner/internal/domain/profile"
	"github.com/khoahotran/career-planner/pkg/apperror"
	"github.com/khoahotran/career-planner/pkg/logger"
)

const cacheTTL = 10 * time.Minute

// ProfileUseCase serves the singleton per-owner profile, with a Redis
// read-through cache in front of Postgres. Cache failures never fail
// the request.
type ProfileUseCase struct {
	profileRepo profile.Repository
	redisClient *redis.Client
	logger      logger.Logger
}

func NewProfileUseCase(repo profile.Repository, rdb *redis.Client, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		redisClient: rdb,
		logger:      log,
	}
}

func CacheKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", ownerID.String())
}

func (uc *ProfileUseCase) ExecuteGet(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	key := CacheKey(ownerID)

	if uc.redisClient != nil {
		cached, err := uc.redisClient.Get(ctx, key).Bytes()
		if err == nil {
			var p profile.Profile
			if err := json.Unmarshal(cached, &p); err == nil {
				return &p, nil
			}
			uc.logger.Warn("Corrupt profile cache entry, falling through", zap.String("key", key))
		} else if err != redis.Nil {
			uc.logger.Warn("Redis GET failed, falling through to Postgres", zap.Error(err))
		}
	}

	p, err := uc.profileRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, key, p)
	return p, nil
}

type UpdateProfileInput struct {
	OwnerID           uuid.UUID
	Phone             string
	CurrentPosition   string
	YearsOfExperience int
	CurrentSalary     *float64
	DesiredSalary     *float64
	Location          string
	LinkedinURL       string
	GithubURL         string
	PortfolioURL      string
}

func (uc *ProfileUseCase) ExecuteUpdate(ctx context.Context, input UpdateProfileInput) (*profile.Profile, error) {
	p := &profile.Profile{
		OwnerID:           input.OwnerID,
		Phone:             input.Phone,
		CurrentPosition:   input.CurrentPosition,
		YearsOfExperience: input.YearsOfExperience,
		CurrentSalary:     input.CurrentSalary,
		DesiredSalary:     input.DesiredSalary,
		Location:          input.Location,
		LinkedinURL:       input.LinkedinURL,
		GithubURL:         input.GithubURL,
		PortfolioURL:      input.PortfolioURL,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	if err := uc.profileRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	uc.Invalidate(ctx, input.OwnerID)
	return p, nil
}

// Invalidate drops the cached profile. Called after any write that can
// change the profile, including bulk imports processed by the worker.
func (uc *ProfileUseCase) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	if uc.redisClient == nil {
		return
	}
	if err := uc.redisClient.Del(ctx, CacheKey(ownerID)).Err(); err != nil {
		uc.logger.Warn("Redis DEL failed", zap.Error(err), zap.String("owner_id", ownerID.String()))
	}
}

func (uc *ProfileUseCase) cacheSet(ctx context.Context, key string, p *profile.Profile) {
	if uc.redisClient == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := uc.redisClient.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		uc.logger.Warn("Redis SET failed", zap.Error(err), zap.String("key", key))
	}
}
