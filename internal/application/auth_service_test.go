package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/wedding-planner/internal/persistence"
)

type stubSessionRepository struct {
	sessions map[string]persistence.Session
}

func newStubSessionRepository() *stubSessionRepository {
	return &stubSessionRepository{sessions: make(map[string]persistence.Session)}
}

func (s *stubSessionRepository) CreateSession(_ context.Context, session persistence.Session) (persistence.Session, error) {
	s.sessions[session.Token] = session
	return session, nil
}

func (s *stubSessionRepository) GetSession(_ context.Context, token string) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (s *stubSessionRepository) RevokeSession(_ context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *stubSessionRepository) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	for token, session := range s.sessions {
		if session.ExpiresAt.Before(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}

func matchPassword(hashedPassword, password string) error {
	if hashedPassword == "hash:"+password {
		return nil
	}
	return ErrInvalidCredentials
}

func hashFor(password string) *string {
	hash := "hash:" + password
	return &hash
}

func TestAuthServiceAuthenticate(t *testing.T) {
	guests := &stubGuestRepository{guests: []persistence.Guest{
		{ID: "g-1", Email: "ana@example.com", Role: persistence.RoleCouple, PasswordHash: hashFor("secret")},
		{ID: "g-2", Email: "nopass@example.com"},
	}}

	t.Run("issues session for valid credentials", func(t *testing.T) {
		sessions := newStubSessionRepository()
		service := NewAuthService(guests, sessions, matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

		result, err := service.Authenticate(context.Background(), AuthenticateParams{
			Email:    " Ana@Example.com ",
			Password: "secret",
		})
		if err != nil {
			t.Fatalf("Authenticate returned error: %v", err)
		}
		if result.Guest.ID != "g-1" {
			t.Errorf("expected guest g-1, got %q", result.Guest.ID)
		}
		if result.Session.Token == "" {
			t.Fatal("expected a session token")
		}
		if got := result.Session.ExpiresAt; !got.Equal(fixedNow().Add(time.Hour)) {
			t.Errorf("unexpected expiry %v", got)
		}
		if len(sessions.sessions) != 1 {
			t.Errorf("expected 1 persisted session, got %d", len(sessions.sessions))
		}
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		service := NewAuthService(guests, newStubSessionRepository(), matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

		_, err := service.Authenticate(context.Background(), AuthenticateParams{Email: "ana@example.com", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects unknown email with the same error", func(t *testing.T) {
		service := NewAuthService(guests, newStubSessionRepository(), matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

		_, err := service.Authenticate(context.Background(), AuthenticateParams{Email: "ghost@example.com", Password: "secret"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects accounts with no password set", func(t *testing.T) {
		service := NewAuthService(guests, newStubSessionRepository(), matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

		_, err := service.Authenticate(context.Background(), AuthenticateParams{Email: "nopass@example.com", Password: "anything"})
		if !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})
}

func TestAuthServiceValidateSession(t *testing.T) {
	guests := &stubGuestRepository{guests: []persistence.Guest{
		{ID: "g-1", Email: "ana@example.com", Role: persistence.RoleCouple, PasswordHash: hashFor("secret")},
	}}

	newSession := func(token string, expiresAt time.Time, revokedAt *time.Time) *stubSessionRepository {
		sessions := newStubSessionRepository()
		sessions.sessions[token] = persistence.Session{
			ID: "s-1", GuestID: "g-1", Token: token, ExpiresAt: expiresAt, RevokedAt: revokedAt,
		}
		return sessions
	}

	t.Run("returns principal for active session", func(t *testing.T) {
		sessions := newSession("tok-1", fixedNow().Add(time.Hour), nil)
		service := NewAuthService(guests, sessions, matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

		principal, err := service.ValidateSession(context.Background(), "tok-1")
		if err != nil {
			t.Fatalf("ValidateSession returned error: %v", err)
		}
		if principal.GuestID != "g-1" || principal.Role != persistence.RoleCouple {
			t.Errorf("unexpected principal %+v", principal)
		}
		if !principal.CanManage() {
			t.Error("couple principal should be able to manage")
		}
	})

	t.Run("rejects expired session", func(t *testing.T) {
		sessions := newSession("tok-1", fixedNow().Add(-time.Minute), nil)
		service := NewAuthService(guests, sessions, matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

		_, err := service.ValidateSession(context.Background(), "tok-1")
		if !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("rejects revoked session", func(t *testing.T) {
		revoked := fixedNow().Add(-time.Minute)
		sessions := newSession("tok-1", fixedNow().Add(time.Hour), &revoked)
		service := NewAuthService(guests, sessions, matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

		_, err := service.ValidateSession(context.Background(), "tok-1")
		if !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		service := NewAuthService(guests, newStubSessionRepository(), matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

		_, err := service.ValidateSession(context.Background(), "missing")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAuthServiceRevokeSession(t *testing.T) {
	guests := &stubGuestRepository{}
	sessions := newStubSessionRepository()
	sessions.sessions["tok-1"] = persistence.Session{ID: "s-1", GuestID: "g-1", Token: "tok-1", ExpiresAt: fixedNow().Add(time.Hour)}
	service := NewAuthService(guests, sessions, matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

	if err := service.RevokeSession(context.Background(), "tok-1"); err != nil {
		t.Fatalf("RevokeSession returned error: %v", err)
	}
	if sessions.sessions["tok-1"].RevokedAt == nil {
		t.Error("expected session to be marked revoked")
	}

	if err := service.RevokeSession(context.Background(), "missing"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown token, got %v", err)
	}
}

func TestAuthServiceSetPassword(t *testing.T) {
	guests := &stubGuestRepository{guests: []persistence.Guest{{ID: "g-1", Email: "ana@example.com"}}}
	service := NewAuthService(guests, newStubSessionRepository(), matchPassword, sequenceIDs("tok"), fixedNow, time.Hour, nil)

	t.Run("guest sets own password", func(t *testing.T) {
		err := service.SetPassword(context.Background(), Principal{GuestID: "g-1", Role: persistence.RoleGuest}, "g-1", "longenough")
		if err != nil {
			t.Fatalf("SetPassword returned error: %v", err)
		}
		if guests.guests[0].PasswordHash == nil {
			t.Fatal("expected stored password hash")
		}
		if err := VerifyPassword(*guests.guests[0].PasswordHash, "longenough"); err != nil {
			t.Errorf("stored hash does not verify: %v", err)
		}
	})

	t.Run("guest cannot set another guest's password", func(t *testing.T) {
		err := service.SetPassword(context.Background(), Principal{GuestID: "g-2", Role: persistence.RoleGuest}, "g-1", "longenough")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		err := service.SetPassword(context.Background(), planner, "g-1", "short")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
