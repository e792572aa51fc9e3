package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrUnknownField      = errors.New("unknown client field")
	ErrInvalidFieldValue = errors.New("invalid client field value")
	ErrInvalidExercise   = errors.New("exercise entry must be \"<exerciseId>,<weight>,<reps>\"")
)

const (
	fieldWeight   = "weight"
	fieldExercise = "exercise"
)

// clientSetters is the allow-list of plain client attributes updateClient may set.
var clientSetters = map[string]func(c *domain.Client, v any) error{
	"client_name":     func(c *domain.Client, v any) (err error) { c.Name, err = asString(v); return },
	"enabled":         func(c *domain.Client, v any) (err error) { c.Enabled, err = asBool(v); return },
	"image":           func(c *domain.Client, v any) (err error) { c.Image, err = asString(v); return },
	"email":           func(c *domain.Client, v any) (err error) { c.Email, err = asString(v); return },
	"mobile":          func(c *domain.Client, v any) (err error) { c.Mobile, err = asString(v); return },
	"nationality":     func(c *domain.Client, v any) (err error) { c.Nationality, err = asString(v); return },
	"gender":          func(c *domain.Client, v any) (err error) { c.Gender, err = asString(v); return },
	"activity_level":  func(c *domain.Client, v any) (err error) { c.ActivityLevel, err = asString(v); return },
	"goal":            func(c *domain.Client, v any) (err error) { c.Goal, err = asString(v); return },
	"equipment":       func(c *domain.Client, v any) (err error) { c.Equipment, err = asString(v); return },
	"height":          func(c *domain.Client, v any) (err error) { c.Height, err = asFloat(v); return },
	"target_weight":   func(c *domain.Client, v any) (err error) { c.TargetWeight, err = asFloat(v); return },
	"factor":          func(c *domain.Client, v any) (err error) { c.Factor, err = asFloat(v); return },
	"age":             func(c *domain.Client, v any) (err error) { c.Age, err = asInt(v); return },
	"meals":           func(c *domain.Client, v any) (err error) { c.Meals, err = asInt(v); return },
	"workouts":        func(c *domain.Client, v any) (err error) { c.Workouts, err = asInt(v); return },
	"adjust":          func(c *domain.Client, v any) (err error) { c.Adjust, err = asBool(v); return },
	"target_energy":   func(c *domain.Client, v any) (err error) { c.TargetEnergy, err = asFloat(v); return },
	"target_proteins": func(c *domain.Client, v any) (err error) { c.TargetProteins, err = asFloat(v); return },
	"target_carbs":    func(c *domain.Client, v any) (err error) { c.TargetCarbs, err = asFloat(v); return },
	"target_fats":     func(c *domain.Client, v any) (err error) { c.TargetFats, err = asFloat(v); return },
	"target_water":    func(c *domain.Client, v any) (err error) { c.TargetWater, err = asFloat(v); return },
	"date_of_birth": func(c *domain.Client, v any) error {
		dob, err := asDate(v)
		if err != nil {
			return err
		}
		c.DateOfBirth = &dob
		return nil
	},
}

type ClientService interface {
	// UpdateClient applies allow-listed field updates. "weight" appends a
	// weight-history row dated today and "exercise" logs a performance row.
	UpdateClient(ctx context.Context, clientID primitive.ObjectID, fields map[string]any, updatedBy string) (*domain.Client, error)
}

// clientService implements the ClientService interface.
type clientService struct {
	clientRepo      repository.ClientRepository
	exerciseRepo    repository.ExerciseRepository
	performanceRepo repository.PerformanceRepository
	invalidator     Invalidator
	logger          *zap.Logger
	now             func() time.Time
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	clientRepo repository.ClientRepository,
	exerciseRepo repository.ExerciseRepository,
	performanceRepo repository.PerformanceRepository,
	invalidator Invalidator,
	logger *zap.Logger,
) ClientService {
	return &clientService{
		clientRepo:      clientRepo,
		exerciseRepo:    exerciseRepo,
		performanceRepo: performanceRepo,
		invalidator:     invalidator,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *clientService) UpdateClient(ctx context.Context, clientID primitive.ObjectID, fields map[string]any, updatedBy string) (*domain.Client, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := clientSetters[name]; !ok && name != fieldWeight && name != fieldExercise {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	today := startOfDay(s.now())
	var logs []*domain.PerformanceLog
	for _, name := range names {
		value := fields[name]
		switch name {
		case fieldWeight:
			weight, err := asFloat(value)
			if err != nil {
				return nil, fmt.Errorf("%w: weight: %v", ErrInvalidFieldValue, err)
			}
			client.Weight = append(client.Weight, domain.WeightEntry{Weight: weight, Date: today})
		case fieldExercise:
			log, err := s.parsePerformance(ctx, value)
			if err != nil {
				return nil, err
			}
			log.ClientID = client.ID
			log.Date = today
			logs = append(logs, log)
		default:
			if err := clientSetters[name](client, value); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFieldValue, name, err)
			}
		}
	}

	client.UpdatedBy = updatedBy
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	for _, log := range logs {
		if _, err := s.performanceRepo.Create(ctx, log); err != nil {
			return nil, fmt.Errorf("record performance: %w", err)
		}
	}
	if err := s.invalidator.ClientChanged(ctx, client.ID); err != nil {
		s.logger.Warn("client cache invalidation failed", zap.String("client", client.ID.Hex()), zap.Error(err))
	}
	return client, nil
}

// parsePerformance reads "<exerciseId>,<weight>,<reps>".
func (s *clientService) parsePerformance(ctx context.Context, value any) (*domain.PerformanceLog, error) {
	raw, ok := value.(string)
	if !ok {
		return nil, ErrInvalidExercise
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return nil, ErrInvalidExercise
	}
	exerciseID, err := primitive.ObjectIDFromHex(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: exercise id: %v", ErrInvalidExercise, err)
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: weight: %v", ErrInvalidExercise, err)
	}
	reps, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return nil, fmt.Errorf("%w: reps: %v", ErrInvalidExercise, err)
	}
	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExercise, ErrExerciseNotFound)
		}
		return nil, err
	}
	return &domain.PerformanceLog{ExerciseID: exerciseID, Weight: weight, Reps: reps}, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func asInt(v any) (int, error) {
	f, err := asFloat(v)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("expected integer, got %v", f)
	}
	return int(f), nil
}

func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case float64:
		return b != 0, nil
	case int:
		return b != 0, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(b))
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func asDate(v any) (time.Time, error) {
	s, err := asString(v)
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
