package service

import (
	"context"
	"strings"
	"time"

	"github.com/Abhinavj12/hackfest-2025/internal/model"
	"github.com/Abhinavj12/hackfest-2025/internal/repository"
	"github.com/Abhinavj12/hackfest-2025/internal/validation"
	"github.com/Abhinavj12/hackfest-2025/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultMaxTeams = 1000

	// Inserts retried when only the confirmation token index rejects a team.
	maxTokenAttempts = 3

	registrationFailed = "Registration failed. Please try again later."
)

type Config struct {
	// MaxTeams caps the number of stored teams. Zero or less means DefaultMaxTeams.
	MaxTeams int
}

// Notifier delivers the confirmation message. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, team *model.Team)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, *model.Team) {}

type IntakeService struct {
	cfg Config

	teams    repository.TeamRepository
	notifier Notifier

	validate *validator.Validate
	newToken func() string
	now      func() time.Time
}

func NewIntakeService(cfg Config) *IntakeService {
	if cfg.MaxTeams <= 0 {
		cfg.MaxTeams = DefaultMaxTeams
	}
	return &IntakeService{
		cfg:      cfg,
		notifier: nopNotifier{},
		validate: validation.New(),
		newToken: NewConfirmationToken,
		now:      time.Now,
	}
}

// Register validates, deduplicates and stores a new team, then queues its confirmation email.
func (s *IntakeService) Register(ctx context.Context, reg *model.Registration) (*model.TeamSummary, *Error) {
	l := logger.FromContext(ctx)

	if reg == nil {
		return nil, NewError(ErrorCodeValidation, "invalid request body")
	}
	reg = normalize(reg)

	l.Info("registering team", zap.String("team_name", reg.TeamName), zap.String("track", string(reg.Track)))

	if err := s.validate.Struct(reg); err != nil {
		p := validation.Explain(err)
		l.Warn("registration rejected",
			zap.String("team_name", reg.TeamName),
			zap.Strings("missing", p.Missing),
			zap.Strings("invalid", p.Fields))
		return nil, NewValidationError(p)
	}

	if serr := s.checkConflict(ctx, reg.TeamName, reg.Email); serr != nil {
		return nil, serr
	}

	total, err := s.teams.Count(ctx, repository.TeamFilter{})
	if err != nil {
		l.Error("failed to count teams", zap.Error(err))
		return nil, NewInternalError(registrationFailed, err)
	}
	if total >= int64(s.cfg.MaxTeams) {
		l.Warn("registration capacity reached", zap.Int64("total", total), zap.Int("max_teams", s.cfg.MaxTeams))
		return nil, NewCapacityError()
	}

	now := s.now().UTC()
	doc := &repository.Team{
		TeamName:         reg.TeamName,
		TeamLeader:       reg.TeamLeader,
		Email:            reg.Email,
		Phone:            reg.Phone,
		College:          reg.College,
		Members:          reg.Members,
		Experience:       string(reg.Experience),
		Track:            string(reg.Track),
		Idea:             reg.Idea,
		RegistrationDate: now,
		Status:           string(model.StatusConfirmed),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for attempt := 1; ; attempt++ {
		doc.ConfirmationToken = s.newToken()

		err = s.teams.Create(ctx, doc)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrAlreadyExists) {
			l.Error("failed to create team", zap.String("team_name", reg.TeamName), zap.Error(err))
			return nil, NewInternalError(registrationFailed, err)
		}

		// The unique index fired after the pre-check passed: find out which field collided.
		if serr := s.checkConflict(ctx, reg.TeamName, reg.Email); serr != nil {
			return nil, serr
		}
		if attempt == maxTokenAttempts {
			l.Error("confirmation token collisions exhausted retries", zap.String("team_name", reg.TeamName))
			return nil, NewInternalError(registrationFailed, err)
		}
		l.Warn("confirmation token collision, retrying", zap.Int("attempt", attempt))
	}

	team := toModelTeam(doc)

	l.Info("team registered", zap.String("team_id", team.ID), zap.String("team_name", team.TeamName))

	s.notifier.Notify(ctx, team)

	return toSummary(team), nil
}

func (s *IntakeService) checkConflict(ctx context.Context, teamName, email string) *Error {
	l := logger.FromContext(ctx)

	existing, err := s.teams.FindByNameOrEmail(ctx, teamName, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		l.Error("failed to check for duplicate team", zap.String("team_name", teamName), zap.Error(err))
		return NewInternalError(registrationFailed, err)
	}

	field := FieldEmail
	if existing.TeamName == teamName {
		field = FieldTeamName
	}
	l.Warn("duplicate registration", zap.String("team_name", teamName), zap.String("field", field))

	return NewConflictError(field)
}

func normalize(r *model.Registration) *model.Registration {
	members := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		if m = strings.TrimSpace(m); m != "" {
			members = append(members, m)
		}
	}

	return &model.Registration{
		TeamName:   strings.TrimSpace(r.TeamName),
		TeamLeader: strings.TrimSpace(r.TeamLeader),
		Email:      strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:      strings.TrimSpace(r.Phone),
		College:    strings.TrimSpace(r.College),
		Members:    members,
		Experience: model.Experience(strings.TrimSpace(string(r.Experience))),
		Track:      model.Track(strings.TrimSpace(string(r.Track))),
		Idea:       strings.TrimSpace(r.Idea),
	}
}

func (s *IntakeService) WithTeamRepo(r repository.TeamRepository) *IntakeService {
	s.teams = r
	return s
}

func (s *IntakeService) WithNotifier(n Notifier) *IntakeService {
	s.notifier = n
	return s
}

func (s *IntakeService) WithClock(now func() time.Time) *IntakeService {
	s.now = now
	return s
}

func (s *IntakeService) WithTokenGenerator(gen func() string) *IntakeService {
	s.newToken = gen
	return s
}
