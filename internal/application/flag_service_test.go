package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/wedding-planner/internal/persistence"
)

type stubFlagRepository struct {
	flags []persistence.FeatureFlag
}

func (s *stubFlagRepository) CreateFlag(_ context.Context, flag persistence.FeatureFlag) error {
	for _, existing := range s.flags {
		if existing.Key == flag.Key {
			return persistence.ErrDuplicate
		}
	}
	s.flags = append(s.flags, flag)
	return nil
}

func (s *stubFlagRepository) GetFlag(_ context.Context, id string) (persistence.FeatureFlag, error) {
	for _, flag := range s.flags {
		if flag.ID == id {
			return flag, nil
		}
	}
	return persistence.FeatureFlag{}, persistence.ErrNotFound
}

func (s *stubFlagRepository) GetFlagByKey(_ context.Context, key string) (persistence.FeatureFlag, error) {
	for _, flag := range s.flags {
		if flag.Key == key {
			return flag, nil
		}
	}
	return persistence.FeatureFlag{}, persistence.ErrNotFound
}

func (s *stubFlagRepository) UpdateFlag(_ context.Context, flag persistence.FeatureFlag) error {
	for i := range s.flags {
		if s.flags[i].ID == flag.ID {
			s.flags[i] = flag
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *stubFlagRepository) DeleteFlag(_ context.Context, id string) error {
	for i := range s.flags {
		if s.flags[i].ID == id {
			s.flags = append(s.flags[:i], s.flags[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *stubFlagRepository) ListFlags(_ context.Context) ([]persistence.FeatureFlag, error) {
	out := make([]persistence.FeatureFlag, len(s.flags))
	copy(out, s.flags)
	return out, nil
}

func TestFlagServiceCreateFlag(t *testing.T) {
	t.Run("rejects non-numeric default for number flags", func(t *testing.T) {
		service := NewFlagService(&stubFlagRepository{}, sequenceIDs("flag"), fixedNow, nil, nil)

		_, err := service.CreateFlag(context.Background(), planner, FlagInput{
			Key:          "table-limit",
			Type:         persistence.FlagTypeNumber,
			DefaultValue: "abc",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["default_value"]; !ok {
			t.Errorf("expected default_value field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects malformed json defaults", func(t *testing.T) {
		service := NewFlagService(&stubFlagRepository{}, sequenceIDs("flag"), fixedNow, nil, nil)

		_, err := service.CreateFlag(context.Background(), planner, FlagInput{
			Key:          "theme",
			Type:         persistence.FlagTypeJSON,
			DefaultValue: "{not json",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("maps duplicate keys to ErrAlreadyExists", func(t *testing.T) {
		repo := &stubFlagRepository{}
		service := NewFlagService(repo, sequenceIDs("flag"), fixedNow, nil, nil)

		input := FlagInput{Key: "rsvp-open", Type: persistence.FlagTypeBoolean, DefaultValue: "true", Enabled: true}
		if _, err := service.CreateFlag(context.Background(), planner, input); err != nil {
			t.Fatalf("first create returned error: %v", err)
		}
		_, err := service.CreateFlag(context.Background(), planner, input)
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestFlagServiceEvaluate(t *testing.T) {
	repo := &stubFlagRepository{flags: []persistence.FeatureFlag{
		{
			ID: "f-1", Key: "photo-wall", Enabled: true,
			Type: persistence.FlagTypeBoolean, DefaultValue: "true",
			TargetUsers:   []string{"g-1", "g-2"},
			ExcludedUsers: []string{"g-2"},
		},
		{
			ID: "f-2", Key: "table-limit", Enabled: true,
			Type: persistence.FlagTypeNumber, DefaultValue: "12",
		},
		{
			ID: "f-3", Key: "dark-mode", Enabled: false,
			Type: persistence.FlagTypeBoolean, DefaultValue: "true",
		},
	}}
	service := NewFlagService(repo, sequenceIDs("flag"), fixedNow, nil, nil)

	cases := []struct {
		name    string
		key     string
		userID  string
		enabled bool
	}{
		{"targeted user is on", "photo-wall", "g-1", true},
		{"exclusion wins over targeting", "photo-wall", "g-2", false},
		{"untargeted user is off when targets exist", "photo-wall", "g-9", false},
		{"empty target list applies to everyone", "table-limit", "g-9", true},
		{"disabled flag is off for everyone", "dark-mode", "g-1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			evaluation, err := service.Evaluate(context.Background(), tc.key, tc.userID)
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}
			if evaluation.Enabled != tc.enabled {
				t.Errorf("expected enabled=%v, got %v", tc.enabled, evaluation.Enabled)
			}
		})
	}

	t.Run("returns typed value", func(t *testing.T) {
		evaluation, err := service.Evaluate(context.Background(), "table-limit", "g-1")
		if err != nil {
			t.Fatalf("Evaluate returned error: %v", err)
		}
		value, ok := evaluation.Value.(float64)
		if !ok || value != 12 {
			t.Errorf("expected numeric 12, got %#v", evaluation.Value)
		}
	})

	t.Run("unknown key maps to ErrNotFound", func(t *testing.T) {
		_, err := service.Evaluate(context.Background(), "missing", "g-1")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
