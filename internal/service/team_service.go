package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Abhinavj12/hackfest-2025/internal/model"
	"github.com/Abhinavj12/hackfest-2025/internal/repository"
	"github.com/Abhinavj12/hackfest-2025/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	recentWindow = 24 * time.Hour
)

// TeamService serves listings, statistics and the admin workflow over stored teams.
type TeamService struct {
	teams repository.TeamRepository
	now   func() time.Time
}

func NewTeamService() *TeamService {
	return &TeamService{now: time.Now}
}

func (t *TeamService) ListTeams(ctx context.Context, page, limit int, filter model.TeamFilter) (*model.TeamPage, *Error) {
	l := logger.FromContext(ctx)

	if filter.Track != "" && !filter.Track.Valid() {
		return nil, invalidChoice("track", string(filter.Track), model.Tracks)
	}
	if filter.Experience != "" && !filter.Experience.Valid() {
		return nil, invalidChoice("experience", string(filter.Experience), model.Experiences)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	l.Debug("listing teams", zap.Int("page", page), zap.Int("limit", limit),
		zap.String("track", string(filter.Track)), zap.String("experience", string(filter.Experience)))

	repoFilter := repository.TeamFilter{Track: string(filter.Track), Experience: string(filter.Experience)}

	total, err := t.teams.Count(ctx, repoFilter)
	if err != nil {
		l.Error("failed to count teams", zap.Error(err))
		return nil, NewInternalError("Failed to fetch teams", err)
	}

	// Pages whose offset does not fit in int64 are past any stored team.
	repoTeams := []*repository.Team{}
	if int64(page-1) <= math.MaxInt64/int64(limit) {
		repoTeams, err = t.teams.List(ctx, repoFilter, int64(page-1)*int64(limit), int64(limit))
		if err != nil {
			l.Error("failed to list teams", zap.Error(err))
			return nil, NewInternalError("Failed to fetch teams", err)
		}
	}

	teams := make([]*model.Team, 0, len(repoTeams))
	for _, rt := range repoTeams {
		teams = append(teams, toModelTeam(rt))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &model.TeamPage{
		Teams:       teams,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalTeams:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

func (t *TeamService) GetStatistics(ctx context.Context) (*model.Stats, *Error) {
	l := logger.FromContext(ctx)

	total, err := t.teams.Count(ctx, repository.TeamFilter{})
	if err != nil {
		l.Error("failed to count teams", zap.Error(err))
		return nil, NewInternalError("Failed to fetch statistics", err)
	}

	byTrack, err := t.teams.CountBy(ctx, repository.GroupByTrack)
	if err != nil {
		l.Error("failed to aggregate teams by track", zap.Error(err))
		return nil, NewInternalError("Failed to fetch statistics", err)
	}

	byExperience, err := t.teams.CountBy(ctx, repository.GroupByExperience)
	if err != nil {
		l.Error("failed to aggregate teams by experience", zap.Error(err))
		return nil, NewInternalError("Failed to fetch statistics", err)
	}

	recent, err := t.teams.Count(ctx, repository.TeamFilter{RegisteredSince: t.now().UTC().Add(-recentWindow)})
	if err != nil {
		l.Error("failed to count recent teams", zap.Error(err))
		return nil, NewInternalError("Failed to fetch statistics", err)
	}

	return &model.Stats{
		TotalTeams:          total,
		TrackStats:          toCategoryCounts(byTrack),
		ExperienceStats:     toCategoryCounts(byExperience),
		RecentRegistrations: recent,
	}, nil
}

func (t *TeamService) GetTeam(ctx context.Context, id string) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("getting team", zap.String("team_id", id))

	team, err := t.teams.Get(ctx, id)
	if serr := lookupError(l, id, err, "Failed to fetch team"); serr != nil {
		return nil, serr
	}

	return toModelTeam(team), nil
}

func (t *TeamService) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Team, *Error) {
	l := logger.FromContext(ctx)

	if !status.Valid() {
		return nil, NewError(ErrorCodeValidation, "Invalid status. Must be: pending, confirmed, waitlist, or rejected")
	}

	l.Info("updating team status", zap.String("team_id", id), zap.String("status", string(status)))

	team, err := t.teams.UpdateStatus(ctx, id, string(status), t.now().UTC())
	if serr := lookupError(l, id, err, "Failed to update team status"); serr != nil {
		return nil, serr
	}

	return toModelTeam(team), nil
}

func (t *TeamService) DeleteTeam(ctx context.Context, id string) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting team", zap.String("team_id", id))

	err := t.teams.Delete(ctx, id)
	return lookupError(l, id, err, "Failed to delete team")
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

func (t *TeamService) WithClock(now func() time.Time) *TeamService {
	t.now = now
	return t
}

func lookupError(l *zap.Logger, id string, err error, internalMsg string) *Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrInvalidID):
		l.Warn("invalid team id", zap.String("team_id", id))
		return NewError(ErrorCodeInvalidID, "Invalid team ID format")
	case errors.Is(err, repository.ErrNotFound):
		l.Warn("team not found", zap.String("team_id", id))
		return NewError(ErrorCodeNotFound, "Team not found")
	default:
		l.Error("team store operation failed", zap.String("team_id", id), zap.Error(err))
		return NewInternalError(internalMsg, err)
	}
}

func invalidChoice[T ~string](field, value string, allowed []T) *Error {
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		names = append(names, string(a))
	}
	e := NewError(ErrorCodeValidation, fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", ")))
	e.Field = field
	e.Details = []string{fmt.Sprintf("unknown %s %q", field, value)}
	return e
}

func toModelTeam(t *repository.Team) *model.Team {
	members := t.Members
	if members == nil {
		members = []string{}
	}
	return &model.Team{
		ID:               t.ID.Hex(),
		TeamName:         t.TeamName,
		TeamLeader:       t.TeamLeader,
		Email:            t.Email,
		Phone:            t.Phone,
		College:          t.College,
		Members:          members,
		Experience:       model.Experience(t.Experience),
		Track:            model.Track(t.Track),
		Idea:             t.Idea,
		RegistrationDate: t.RegistrationDate,
		Status:           model.Status(t.Status),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func toSummary(t *model.Team) *model.TeamSummary {
	return &model.TeamSummary{
		ID:               t.ID,
		TeamName:         t.TeamName,
		TeamLeader:       t.TeamLeader,
		Email:            t.Email,
		College:          t.College,
		Track:            t.Track,
		Experience:       t.Experience,
		RegistrationDate: t.RegistrationDate,
		Status:           t.Status,
	}
}

func toCategoryCounts(groups []*repository.GroupCount) []*model.CategoryCount {
	out := make([]*model.CategoryCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, &model.CategoryCount{Name: g.Key, Count: g.Count})
	}
	return out
}
