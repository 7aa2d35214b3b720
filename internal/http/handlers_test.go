package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/wedding-planner/internal/application"
	"github.com/example/wedding-planner/internal/persistence"
)

type stubAuthService struct {
	result      application.AuthenticateResult
	authErr     error
	revokedWith string
	setPassword struct {
		guestID  string
		password string
	}
}

func (s *stubAuthService) Authenticate(_ context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	if s.authErr != nil {
		return application.AuthenticateResult{}, s.authErr
	}
	return s.result, nil
}

func (s *stubAuthService) RevokeSession(_ context.Context, token string) error {
	s.revokedWith = token
	return nil
}

func (s *stubAuthService) SetPassword(_ context.Context, _ application.Principal, guestID, password string) error {
	s.setPassword.guestID = guestID
	s.setPassword.password = password
	return nil
}

func TestAuthHandlerCreateSession(t *testing.T) {
	t.Run("issues session token via cookie and header", func(t *testing.T) {
		expires := time.Date(2026, time.June, 2, 12, 0, 0, 0, time.UTC)
		service := &stubAuthService{result: application.AuthenticateResult{
			Guest: persistence.Guest{ID: "guest-1", Role: persistence.RoleCouple},
			Session: persistence.Session{
				Token:     "token-abc",
				ExpiresAt: expires,
			},
		}}
		handler := NewAuthHandler(service, nil)

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"a@example.com","password":"secret"}`))
		recorder := httptest.NewRecorder()
		handler.CreateSession(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", recorder.Code)
		}
		if got := recorder.Header().Get("X-Session-Token"); got != "token-abc" {
			t.Fatalf("expected session header, got %q", got)
		}
		cookieFound := false
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.Value == "token-abc" {
				cookieFound = true
			}
		}
		if !cookieFound {
			t.Fatal("expected session cookie to be set")
		}

		var body loginResponse
		if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.GuestID != "guest-1" || body.Role != "couple" || body.Token != "token-abc" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("masks invalid credentials and disabled accounts alike", func(t *testing.T) {
		for _, authErr := range []error{application.ErrInvalidCredentials, application.ErrAccountDisabled} {
			service := &stubAuthService{authErr: authErr}
			handler := NewAuthHandler(service, nil)

			req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"a@example.com","password":"bad"}`))
			recorder := httptest.NewRecorder()
			handler.CreateSession(recorder, req)

			if recorder.Code != http.StatusUnauthorized {
				t.Fatalf("%v: expected 401, got %d", authErr, recorder.Code)
			}
			var body errorResponse
			if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
				t.Fatalf("%v: unexpected error code %q", authErr, body.ErrorCode)
			}
		}
	})

	t.Run("logout revokes the presented token and clears the cookie", func(t *testing.T) {
		service := &stubAuthService{}
		handler := NewAuthHandler(service, nil)

		req := httptest.NewRequest(http.MethodDelete, "/sessions/current", nil)
		req.Header.Set("Authorization", "Bearer token-abc")
		recorder := httptest.NewRecorder()
		handler.DeleteCurrentSession(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
		if service.revokedWith != "token-abc" {
			t.Fatalf("expected token-abc revoked, got %q", service.revokedWith)
		}

		cleared := false
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Fatal("expected session cookie to be cleared")
		}
	})

	t.Run("password updates resolve the guest from the path", func(t *testing.T) {
		service := &stubAuthService{}
		handler := NewAuthHandler(service, nil)

		req := httptest.NewRequest(http.MethodPut, "/guests/guest-9/password", strings.NewReader(`{"password":"hunter22"}`))
		req = req.WithContext(ContextWithResourceID(req.Context(), "guest-9"))
		recorder := httptest.NewRecorder()
		handler.SetPassword(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
		if service.setPassword.guestID != "guest-9" || service.setPassword.password != "hunter22" {
			t.Fatalf("unexpected call: %+v", service.setPassword)
		}
	})
}

type stubStoryService struct {
	stories   []persistence.Story
	principal application.Principal
	err       error
}

func (s *stubStoryService) CreateStory(_ context.Context, principal application.Principal, input application.StoryInput) (persistence.Story, error) {
	s.principal = principal
	if s.err != nil {
		return persistence.Story{}, s.err
	}
	return persistence.Story{ID: "story-1", AuthorID: principal.GuestID, Title: input.Title, Content: input.Content}, nil
}

func (s *stubStoryService) GetStory(_ context.Context, principal application.Principal, id string) (persistence.Story, error) {
	if s.err != nil {
		return persistence.Story{}, s.err
	}
	for _, story := range s.stories {
		if story.ID == id {
			return story, nil
		}
	}
	return persistence.Story{}, application.ErrNotFound
}

func (s *stubStoryService) UpdateStory(_ context.Context, principal application.Principal, storyID string, input application.StoryInput) (persistence.Story, error) {
	return persistence.Story{}, s.err
}

func (s *stubStoryService) DeleteStory(_ context.Context, principal application.Principal, storyID string) error {
	return s.err
}

func (s *stubStoryService) ListStories(_ context.Context, principal application.Principal) ([]persistence.Story, error) {
	s.principal = principal
	return s.stories, s.err
}

func TestStoryHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "unauthorized maps to 403", err: application.ErrUnauthorized, expectedStatus: http.StatusForbidden},
		{name: "not found maps to 404", err: application.ErrNotFound, expectedStatus: http.StatusNotFound},
		{name: "conflict maps to 409", err: application.ErrAlreadyExists, expectedStatus: http.StatusConflict},
		{
			name:           "validation maps to 422",
			err:            &application.ValidationError{FieldErrors: map[string]string{"title": "title is required"}},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewStoryHandler(&stubStoryService{err: tc.err}, nil)

			req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(`{"title":"t","content":"c"}`))
			recorder := httptest.NewRecorder()
			handler.Create(recorder, req)

			if recorder.Code != tc.expectedStatus {
				t.Fatalf("expected %d, got %d", tc.expectedStatus, recorder.Code)
			}
		})
	}
}

func TestStoryHandlerValidationBody(t *testing.T) {
	vErr := &application.ValidationError{FieldErrors: map[string]string{"title": "title is required"}}
	handler := NewStoryHandler(&stubStoryService{err: vErr}, nil)

	req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(`{}`))
	recorder := httptest.NewRecorder()
	handler.Create(recorder, req)

	var body errorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Errors["title"] != "title is required" {
		t.Fatalf("expected field error to surface, got %+v", body.Errors)
	}
}

type stubFlagHandlerService struct {
	evaluation application.FlagEvaluation
	evalKey    string
	evalUser   string
	err        error
}

func (s *stubFlagHandlerService) CreateFlag(_ context.Context, _ application.Principal, _ application.FlagInput) (persistence.FeatureFlag, error) {
	return persistence.FeatureFlag{}, s.err
}

func (s *stubFlagHandlerService) GetFlag(_ context.Context, _ application.Principal, _ string) (persistence.FeatureFlag, error) {
	return persistence.FeatureFlag{}, s.err
}

func (s *stubFlagHandlerService) UpdateFlag(_ context.Context, _ application.Principal, _ string, _ application.FlagInput) (persistence.FeatureFlag, error) {
	return persistence.FeatureFlag{}, s.err
}

func (s *stubFlagHandlerService) DeleteFlag(_ context.Context, _ application.Principal, _ string) error {
	return s.err
}

func (s *stubFlagHandlerService) ListFlags(_ context.Context, _ application.Principal) ([]persistence.FeatureFlag, error) {
	return nil, s.err
}

func (s *stubFlagHandlerService) Evaluate(_ context.Context, key, userID string) (application.FlagEvaluation, error) {
	s.evalKey = key
	s.evalUser = userID
	if s.err != nil {
		return application.FlagEvaluation{}, s.err
	}
	return s.evaluation, nil
}

func TestFlagHandlerEvaluate(t *testing.T) {
	t.Run("requires a key parameter", func(t *testing.T) {
		handler := NewFlagHandler(&stubFlagHandlerService{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/flags/evaluate", nil)
		recorder := httptest.NewRecorder()
		handler.Evaluate(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", recorder.Code)
		}
	})

	t.Run("falls back to the session principal for the user", func(t *testing.T) {
		service := &stubFlagHandlerService{evaluation: application.FlagEvaluation{Key: "new-gallery", Enabled: true, Value: true}}
		handler := NewFlagHandler(service, nil)

		req := httptest.NewRequest(http.MethodGet, "/flags/evaluate?key=new-gallery", nil)
		req = req.WithContext(ContextWithPrincipal(req.Context(), application.Principal{GuestID: "guest-7", Role: persistence.RoleGuest}))
		recorder := httptest.NewRecorder()
		handler.Evaluate(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if service.evalKey != "new-gallery" || service.evalUser != "guest-7" {
			t.Fatalf("unexpected evaluation call: key=%q user=%q", service.evalKey, service.evalUser)
		}

		var body evaluationResponse
		if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if !body.Enabled || body.Key != "new-gallery" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("unknown keys map to 404", func(t *testing.T) {
		handler := NewFlagHandler(&stubFlagHandlerService{err: application.ErrNotFound}, nil)

		req := httptest.NewRequest(http.MethodGet, "/flags/evaluate?key=missing", nil)
		recorder := httptest.NewRecorder()
		handler.Evaluate(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", recorder.Code)
		}
	})
}

type allowAllValidator struct {
	principal application.Principal
}

func (v allowAllValidator) ValidateSession(_ context.Context, token string) (application.Principal, error) {
	if token == "" {
		return application.Principal{}, application.ErrUnauthorized
	}
	return v.principal, nil
}

func TestRouter(t *testing.T) {
	stories := &stubStoryService{stories: []persistence.Story{{ID: "story-1", Title: "Hello"}}}
	router := NewRouter(RouterConfig{
		Stories:  NewStoryHandler(stories, nil),
		Sessions: allowAllValidator{principal: application.Principal{GuestID: "guest-1", Role: persistence.RoleGuest}},
	})

	t.Run("public listings work without a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stories", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
	})

	t.Run("mutations demand a session token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(`{"title":"t","content":"c"}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("authenticated mutations carry the principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(`{"title":"t","content":"c"}`))
		req.Header.Set("Authorization", "Bearer token")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", recorder.Code)
		}
		if stories.principal.GuestID != "guest-1" {
			t.Fatalf("expected principal to reach the service, got %+v", stories.principal)
		}
	})

	t.Run("unsupported methods return 405 with an Allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/stories", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
		if allow := recorder.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
			t.Fatalf("expected Allow header to list POST, got %q", allow)
		}
	})
}
