package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/centralms/lms-api/internal/dto"
	"github.com/centralms/lms-api/internal/repository"
)

const leaderboardCacheKey = "leaderboard:global"

// LeaderboardService exposes point balances and the ranked leaderboard.
type LeaderboardService interface {
	Points(ctx context.Context, studentID uint) (int, error)
	Award(ctx context.Context, studentID uint, points int) error
	Leaderboard(ctx context.Context) ([]dto.LeaderboardEntryResponse, error)
}

type leaderboardService struct {
	points   repository.PointsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewLeaderboardService builds the leaderboard aggregator. A nil cache
// client disables caching; staleness is bounded by the TTL.
func NewLeaderboardService(points repository.PointsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) LeaderboardService {
	return &leaderboardService{
		points:   points,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "leaderboard_service").Logger(),
	}
}

func (s *leaderboardService) Points(ctx context.Context, studentID uint) (int, error) {
	return repository.PointsOrZero(ctx, s.points, studentID)
}

func (s *leaderboardService) Award(ctx context.Context, studentID uint, points int) error {
	if err := s.points.Increment(ctx, studentID, points); err != nil {
		return err
	}

	s.logger.Info().Uint("student_id", studentID).Int("points", points).Msg("points awarded")

	return nil
}

func (s *leaderboardService) Leaderboard(ctx context.Context) ([]dto.LeaderboardEntryResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []dto.LeaderboardEntryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &entries); unmarshalErr == nil {
				s.logger.Debug().Msg("leaderboard cache hit")
				return entries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	ranked, err := s.points.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntryResponse, 0, len(ranked))
	for idx, entry := range ranked {
		entries = append(entries, dto.LeaderboardEntryResponse{
			Rank:      idx + 1,
			StudentID: entry.StudentID,
			Username:  entry.Username,
			Points:    entry.Points,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, leaderboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return entries, nil
}
