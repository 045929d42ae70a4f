package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/smartmeeting/internal/application"
)

type stubMeetingService struct {
	createFn func(ctx context.Context, input application.MeetingInput) (application.Meeting, error)
	getFn    func(ctx context.Context, id string) (application.Meeting, error)
	updateFn func(ctx context.Context, id string, input application.MeetingInput) (application.Meeting, error)
	deleteFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context) ([]application.Meeting, error)
}

func (s *stubMeetingService) CreateMeeting(ctx context.Context, input application.MeetingInput) (application.Meeting, error) {
	if s.createFn == nil {
		return application.Meeting{}, nil
	}
	return s.createFn(ctx, input)
}

func (s *stubMeetingService) GetMeeting(ctx context.Context, id string) (application.Meeting, error) {
	if s.getFn == nil {
		return application.Meeting{}, application.ErrNotFound
	}
	return s.getFn(ctx, id)
}

func (s *stubMeetingService) UpdateMeeting(ctx context.Context, id string, input application.MeetingInput) (application.Meeting, error) {
	if s.updateFn == nil {
		return application.Meeting{}, application.ErrNotFound
	}
	return s.updateFn(ctx, id, input)
}

func (s *stubMeetingService) DeleteMeeting(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		return application.ErrNotFound
	}
	return s.deleteFn(ctx, id)
}

func (s *stubMeetingService) ListMeetings(ctx context.Context) ([]application.Meeting, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

type stubParticipantService struct {
	addFn    func(ctx context.Context, meetingID, userID string) error
	removeFn func(ctx context.Context, meetingID, userID string) error
	listFn   func(ctx context.Context, meetingID string) ([]application.User, error)
}

func (s *stubParticipantService) AddParticipant(ctx context.Context, meetingID, userID string) error {
	if s.addFn == nil {
		return nil
	}
	return s.addFn(ctx, meetingID, userID)
}

func (s *stubParticipantService) RemoveParticipant(ctx context.Context, meetingID, userID string) error {
	if s.removeFn == nil {
		return nil
	}
	return s.removeFn(ctx, meetingID, userID)
}

func (s *stubParticipantService) ListParticipants(ctx context.Context, meetingID string) ([]application.User, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, meetingID)
}

type stubNotificationService struct {
	listFn        func(ctx context.Context, userID string, filter application.NotificationFilter) ([]application.Notification, error)
	countFn       func(ctx context.Context, userID string) (int, error)
	markReadFn    func(ctx context.Context, id, userID string) error
	markAllReadFn func(ctx context.Context, userID string) error
	deleteFn      func(ctx context.Context, id, userID string) error
}

func (s *stubNotificationService) ListNotifications(ctx context.Context, userID string, filter application.NotificationFilter) ([]application.Notification, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID, filter)
}

func (s *stubNotificationService) CountUnread(ctx context.Context, userID string) (int, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx, userID)
}

func (s *stubNotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if s.markReadFn == nil {
		return nil
	}
	return s.markReadFn(ctx, id, userID)
}

func (s *stubNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if s.markAllReadFn == nil {
		return nil
	}
	return s.markAllReadFn(ctx, userID)
}

func (s *stubNotificationService) DeleteNotification(ctx context.Context, id, userID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id, userID)
}

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (application.AuthResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (application.AuthResult, error) {
	if s.loginFn == nil {
		return application.AuthResult{}, application.ErrInvalidCredentials
	}
	return s.loginFn(ctx, email, password)
}

// withPrincipal injects a fixed principal the way RequireAuth would, so
// handlers that need one can be exercised without real tokens.
func withPrincipal(principal application.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func newMeetingRouter(meetings *stubMeetingService, participants *stubParticipantService, middleware ...func(http.Handler) http.Handler) http.Handler {
	return NewRouter(RouterConfig{
		Meetings:   NewMeetingHandler(meetings, participants, nil),
		Middleware: middleware,
	})
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error response: %v (body: %s)", err, rec.Body.String())
	}
	return body
}

func TestCreateMeetingReturnsCreatedDTO(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	var gotInput application.MeetingInput
	meetings := &stubMeetingService{
		createFn: func(_ context.Context, input application.MeetingInput) (application.Meeting, error) {
			gotInput = input
			return application.Meeting{
				ID:          "meeting-001",
				Title:       input.Title,
				OrganizerID: input.OrganizerID,
				RoomID:      input.RoomID,
				Start:       input.Start,
				End:         input.End,
				Status:      application.StatusScheduled,
				CreatedAt:   start,
			}, nil
		},
	}
	router := newMeetingRouter(meetings, &stubParticipantService{})

	payload := `{"title":"Sprint review","organizer_id":"user-001","room_id":"room-001","start":"2025-06-03T10:00:00Z","end":"2025-06-03T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/meetings", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if gotInput.Title != "Sprint review" || gotInput.RoomID != "room-001" {
		t.Fatalf("unexpected service input: %+v", gotInput)
	}
	if !gotInput.Start.Equal(start) {
		t.Fatalf("expected start %v, got %v", start, gotInput.Start)
	}

	var body meetingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Meeting.ID != "meeting-001" || body.Meeting.Status != string(application.StatusScheduled) {
		t.Fatalf("unexpected meeting DTO: %+v", body.Meeting)
	}
	if body.Meeting.Start != "2025-06-03T10:00:00Z" {
		t.Fatalf("expected RFC3339 UTC start, got %q", body.Meeting.Start)
	}
}

func TestCreateMeetingOrganizerDefaultsToPrincipal(t *testing.T) {
	t.Parallel()

	var gotInput application.MeetingInput
	meetings := &stubMeetingService{
		createFn: func(_ context.Context, input application.MeetingInput) (application.Meeting, error) {
			gotInput = input
			return application.Meeting{ID: "meeting-001"}, nil
		},
	}
	router := newMeetingRouter(meetings, &stubParticipantService{},
		withPrincipal(application.Principal{UserID: "user-042", Role: application.RoleEmployee}))

	payload := `{"title":"1:1","room_id":"room-001","start":"2025-06-03T10:00:00Z","end":"2025-06-03T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/meetings", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if gotInput.OrganizerID != "user-042" {
		t.Fatalf("expected organizer to default to the principal, got %q", gotInput.OrganizerID)
	}
}

func TestCreateMeetingServiceErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantErrorCode string
	}{
		{name: "room conflict", err: application.ErrRoomConflict, wantStatus: http.StatusConflict, wantErrorCode: "ROOM_CONFLICT"},
		{name: "guest organizer", err: application.ErrForbidden, wantStatus: http.StatusForbidden, wantErrorCode: "AUTH_FORBIDDEN"},
		{name: "missing organizer", err: fmt.Errorf("organizer: %w", application.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "validation failure", err: &application.ValidationError{FieldErrors: map[string]string{"title": "title is required"}}, wantStatus: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			meetings := &stubMeetingService{
				createFn: func(context.Context, application.MeetingInput) (application.Meeting, error) {
					return application.Meeting{}, tt.err
				},
			}
			router := newMeetingRouter(meetings, &stubParticipantService{})

			payload := `{"title":"x","organizer_id":"u","room_id":"r","start":"2025-06-03T10:00:00Z","end":"2025-06-03T11:00:00Z"}`
			req := httptest.NewRequest(http.MethodPost, "/meetings", strings.NewReader(payload))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d (body: %s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
			body := decodeErrorResponse(t, rec)
			if tt.wantErrorCode != "" && body.ErrorCode != tt.wantErrorCode {
				t.Fatalf("expected error code %q, got %q", tt.wantErrorCode, body.ErrorCode)
			}
		})
	}
}

func TestCreateMeetingValidationErrorsIncludeFields(t *testing.T) {
	t.Parallel()

	meetings := &stubMeetingService{
		createFn: func(context.Context, application.MeetingInput) (application.Meeting, error) {
			return application.Meeting{}, &application.ValidationError{FieldErrors: map[string]string{"time": "end must be after start"}}
		},
	}
	router := newMeetingRouter(meetings, &stubParticipantService{})

	req := httptest.NewRequest(http.MethodPost, "/meetings", strings.NewReader(`{"title":"x"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decodeErrorResponse(t, rec)
	if body.Errors["time"] != "end must be after start" {
		t.Fatalf("expected field errors in response, got %+v", body.Errors)
	}
}

func TestCreateMeetingMalformedBody(t *testing.T) {
	t.Parallel()

	router := newMeetingRouter(&stubMeetingService{}, &stubParticipantService{})

	req := httptest.NewRequest(http.MethodPost, "/meetings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateMeetingInvalidTransitionMapsToConflict(t *testing.T) {
	t.Parallel()

	meetings := &stubMeetingService{
		updateFn: func(_ context.Context, id string, _ application.MeetingInput) (application.Meeting, error) {
			if id != "meeting-001" {
				t.Errorf("unexpected meeting id %q", id)
			}
			return application.Meeting{}, fmt.Errorf("%w: Completed to Scheduled", application.ErrInvalidTransition)
		},
	}
	router := newMeetingRouter(meetings, &stubParticipantService{})

	payload := `{"status":"Scheduled"}`
	req := httptest.NewRequest(http.MethodPut, "/meetings/meeting-001", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	body := decodeErrorResponse(t, rec)
	if body.ErrorCode != "INVALID_STATUS_TRANSITION" {
		t.Fatalf("expected INVALID_STATUS_TRANSITION, got %q", body.ErrorCode)
	}
}

func TestGetMeetingNotFound(t *testing.T) {
	t.Parallel()

	router := newMeetingRouter(&stubMeetingService{}, &stubParticipantService{})

	req := httptest.NewRequest(http.MethodGet, "/meetings/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteMeetingReturnsNoContent(t *testing.T) {
	t.Parallel()

	var deletedID string
	meetings := &stubMeetingService{
		deleteFn: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	router := newMeetingRouter(meetings, &stubParticipantService{})

	req := httptest.NewRequest(http.MethodDelete, "/meetings/meeting-001", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deletedID != "meeting-001" {
		t.Fatalf("expected delete for meeting-001, got %q", deletedID)
	}
}

func TestMeetingCollectionRejectsUnknownMethod(t *testing.T) {
	t.Parallel()

	router := newMeetingRouter(&stubMeetingService{}, &stubParticipantService{})

	req := httptest.NewRequest(http.MethodDelete, "/meetings", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
		t.Fatalf("expected Allow header to list POST, got %q", allow)
	}
}

func TestParticipantRoutes(t *testing.T) {
	t.Parallel()

	type call struct{ meetingID, userID string }
	var added, removed call
	participants := &stubParticipantService{
		addFn: func(_ context.Context, meetingID, userID string) error {
			added = call{meetingID, userID}
			return nil
		},
		removeFn: func(_ context.Context, meetingID, userID string) error {
			removed = call{meetingID, userID}
			return nil
		},
		listFn: func(_ context.Context, meetingID string) ([]application.User, error) {
			return []application.User{{ID: "user-001", Name: "Alice", Email: "alice@example.com", Role: application.RoleEmployee}}, nil
		},
	}
	router := newMeetingRouter(&stubMeetingService{}, participants)

	t.Run("add", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/meetings/meeting-001/participants", strings.NewReader(`{"user_id":"user-001"}`))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d (body: %s)", rec.Code, rec.Body.String())
		}
		if added.meetingID != "meeting-001" || added.userID != "user-001" {
			t.Fatalf("unexpected add call: %+v", added)
		}
	})

	t.Run("add without user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/meetings/meeting-001/participants", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/meetings/meeting-001/participants", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body listParticipantsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(body.Participants) != 1 || body.Participants[0].ID != "user-001" {
			t.Fatalf("unexpected roster: %+v", body.Participants)
		}
	})

	t.Run("remove", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/meetings/meeting-001/participants/user-001", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if removed.meetingID != "meeting-001" || removed.userID != "user-001" {
			t.Fatalf("unexpected remove call: %+v", removed)
		}
	})

	t.Run("unknown subresource", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/meetings/meeting-001/attachments", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCreateSessionRoute(t *testing.T) {
	t.Parallel()

	expires := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	auth := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (application.AuthResult, error) {
			if email != "alice@example.com" || password != "correct horse" {
				return application.AuthResult{}, application.ErrInvalidCredentials
			}
			return application.AuthResult{
				User:      application.User{ID: "user-001", Name: "Alice", Email: email, Role: application.RoleEmployee},
				Token:     "signed-token",
				ExpiresAt: expires,
			}, nil
		},
	}
	router := NewRouter(RouterConfig{Auth: NewAuthHandler(auth, nil)})

	t.Run("valid credentials", func(t *testing.T) {
		payload := `{"email":"Alice@Example.com","password":"correct horse"}`
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(payload))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
		}
		var body loginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Token != "signed-token" || body.User.ID != "user-001" {
			t.Fatalf("unexpected login response: %+v", body)
		}
		if body.ExpiresAt != "2025-06-03T09:00:00Z" {
			t.Fatalf("expected RFC3339 expiry, got %q", body.ExpiresAt)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		payload := `{"email":"alice@example.com","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(payload))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		body := decodeErrorResponse(t, rec)
		if body.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Fatalf("expected AUTH_INVALID_CREDENTIALS, got %q", body.ErrorCode)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestNotificationRoutes(t *testing.T) {
	t.Parallel()

	meetingRef := "meeting-001"
	service := &stubNotificationService{
		listFn: func(_ context.Context, userID string, filter application.NotificationFilter) ([]application.Notification, error) {
			if userID != "user-001" {
				t.Errorf("expected principal user id, got %q", userID)
			}
			if !filter.UnreadOnly || filter.Take != 5 {
				t.Errorf("unexpected filter: %+v", filter)
			}
			return []application.Notification{{
				ID:        "notification-001",
				UserID:    userID,
				Type:      application.NotificationTypeMeetingUpdated,
				Message:   "Meeting \"Sprint review\" updated: room room-001 → room-002.",
				MeetingID: &meetingRef,
			}}, nil
		},
		countFn: func(_ context.Context, userID string) (int, error) {
			return 4, nil
		},
	}
	var markedRead, deleted string
	service.markReadFn = func(_ context.Context, id, userID string) error {
		markedRead = id + "/" + userID
		return nil
	}
	service.deleteFn = func(_ context.Context, id, userID string) error {
		deleted = id + "/" + userID
		return nil
	}

	principal := application.Principal{UserID: "user-001", Role: application.RoleEmployee}
	router := NewRouter(RouterConfig{
		Notifications: NewNotificationHandler(service, nil),
		Middleware:    []func(http.Handler) http.Handler{withPrincipal(principal)},
	})

	t.Run("list with filters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications?unread_only=true&take=5", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}
		var body listNotificationsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(body.Notifications) != 1 || body.Notifications[0].ID != "notification-001" {
			t.Fatalf("unexpected notifications: %+v", body.Notifications)
		}
		if body.Notifications[0].MeetingID == nil || *body.Notifications[0].MeetingID != "meeting-001" {
			t.Fatalf("expected meeting reference, got %+v", body.Notifications[0].MeetingID)
		}
	})

	t.Run("unread count", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body unreadCountResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Count != 4 {
			t.Fatalf("expected count 4, got %d", body.Count)
		}
	})

	t.Run("mark read", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/notifications/notification-001/read", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if markedRead != "notification-001/user-001" {
			t.Fatalf("unexpected mark read call: %q", markedRead)
		}
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/notifications/notification-001", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if deleted != "notification-001/user-001" {
			t.Fatalf("unexpected delete call: %q", deleted)
		}
	})
}

func TestNotificationRoutesRequirePrincipal(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{Notifications: NewNotificationHandler(&stubNotificationService{}, nil)})

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a principal, got %d", rec.Code)
	}
}
