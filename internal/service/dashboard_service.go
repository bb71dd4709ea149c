package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/repository"
)

// DashboardInvalidator drops cached dashboard aggregates for one club and
// period. Enrollment and report mutations call it so the dashboard never
// serves stale counts past a write.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, clubID, periodID uint) error
}

// DashboardService aggregates a club's programme state for one period.
type DashboardService interface {
	DashboardInvalidator
	Stats(ctx context.Context, actor Actor, periodID uint) (dto.DashboardResponse, error)
}

type dashboardService struct {
	players repository.ProgrammePlayerRepository
	periods repository.PeriodRepository
	cache   *redis.Client
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewDashboardService constructs the dashboard service. cache may be nil,
// in which case every call computes from the database.
func NewDashboardService(players repository.ProgrammePlayerRepository, periods repository.PeriodRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &dashboardService{
		players: players,
		periods: periods,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func dashboardCacheKey(clubID, periodID uint) string {
	return fmt.Sprintf("dashboard:v1:%d:%d", clubID, periodID)
}

func (s *dashboardService) Stats(ctx context.Context, actor Actor, periodID uint) (dto.DashboardResponse, error) {
	period, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DashboardResponse{}, ErrPeriodNotFound
		}
		return dto.DashboardResponse{}, err
	}
	if !actor.SameClub(period.TennisClubID) {
		return dto.DashboardResponse{}, ErrPermissionDenied
	}

	key := dashboardCacheKey(actor.ClubID, periodID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil && cached != "" {
			var response dto.DashboardResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	players, err := s.players.List(ctx, repository.PlayerFilter{ClubID: actor.ClubID, PeriodID: periodID})
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := aggregate(periodID, players)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache dashboard stats")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) Invalidate(ctx context.Context, clubID, periodID uint) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, dashboardCacheKey(clubID, periodID)).Err()
}

func aggregate(periodID uint, players []models.ProgrammePlayer) dto.DashboardResponse {
	response := dto.DashboardResponse{
		PeriodID:     periodID,
		TotalPlayers: len(players),
		Groups:       []dto.GroupProgress{},
		Coaches:      []dto.CoachProgress{},
	}

	groupIndex := map[uint]int{}
	coachIndex := map[uint]int{}
	for _, player := range players {
		if player.ReportSubmitted {
			response.ReportsSubmitted++
		}

		gi, ok := groupIndex[player.GroupID]
		if !ok {
			gi = len(response.Groups)
			groupIndex[player.GroupID] = gi
			response.Groups = append(response.Groups, dto.GroupProgress{
				GroupID:   player.GroupID,
				GroupName: player.Group.Name,
			})
		}
		response.Groups[gi].Players++
		if player.ReportSubmitted {
			response.Groups[gi].Submitted++
		}

		ci, ok := coachIndex[player.CoachID]
		if !ok {
			ci = len(response.Coaches)
			coachIndex[player.CoachID] = ci
			response.Coaches = append(response.Coaches, dto.CoachProgress{
				CoachID:   player.CoachID,
				CoachName: player.Coach.Name,
			})
		}
		response.Coaches[ci].Players++
		if player.ReportSubmitted {
			response.Coaches[ci].Submitted++
		}
	}

	response.ReportsPending = response.TotalPlayers - response.ReportsSubmitted
	return response
}
