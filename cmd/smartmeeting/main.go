package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/smartmeeting/internal/application"
	"github.com/example/smartmeeting/internal/config"
	httptransport "github.com/example/smartmeeting/internal/http"
	"github.com/example/smartmeeting/internal/notify"
	"github.com/example/smartmeeting/internal/persistence"
	"github.com/example/smartmeeting/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(context.Background(), pool); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	userRepo := sqlite.NewUserRepository(pool)
	roomRepo := sqlite.NewRoomRepository(pool)
	meetingRepo := sqlite.NewMeetingRepository(pool)
	participantRepo := sqlite.NewParticipantRepository(pool)
	notificationRepo := sqlite.NewNotificationRepository(pool)

	users := newUserAdapter(userRepo)
	rooms := newRoomAdapter(roomRepo)
	meetings := newMeetingAdapter(meetingRepo)
	participants := newParticipantAdapter(participantRepo, userRepo)
	notifications := newNotificationAdapter(notificationRepo)

	userService := application.NewUserServiceWithLogger(users, idGenerator, now, logger)
	roomService := application.NewRoomServiceWithLogger(rooms, idGenerator, now, logger)
	notificationService := application.NewNotificationServiceWithLogger(notifications, idGenerator, now, logger)
	dispatcher := notify.NewDispatcher(notificationService, logger)
	meetingService := application.NewMeetingServiceWithLogger(meetings, userService, participants, dispatcher, idGenerator, now, logger)
	participantService := application.NewParticipantServiceWithLogger(participants, meetings, userService, logger)
	authService := application.NewAuthServiceWithLogger(users, []byte(cfg.AuthSecret), cfg.TokenTTL, now, logger)

	authHandler := httptransport.NewAuthHandler(authService, logger)
	meetingHandler := httptransport.NewMeetingHandler(meetingService, participantService, logger)
	roomHandler := httptransport.NewRoomHandler(roomService, logger)
	userHandler := httptransport.NewUserHandler(userService, logger)
	notificationHandler := httptransport.NewNotificationHandler(notificationService, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:          authHandler,
		Meetings:      meetingHandler,
		Rooms:         roomHandler,
		Users:         userHandler,
		Notifications: notificationHandler,
	})

	// Session creation is the only route reachable without a bearer token.
	protected := httptransport.RequireAuth(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sessions" && r.Method == http.MethodPost {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("smartmeeting API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func logLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type userAdapter struct {
	repo persistence.UserRepository
}

func newUserAdapter(repo persistence.UserRepository) *userAdapter {
	return &userAdapter{repo: repo}
}

func (a *userAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	if err := a.repo.CreateUser(ctx, toPersistenceUser(user, passwordHash)); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userAdapter) GetUserByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *userAdapter) UpdateUser(ctx context.Context, user application.User) (application.User, error) {
	current, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	if err := a.repo.UpdateUser(ctx, toPersistenceUser(user, current.PasswordHash)); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userAdapter) DeleteUser(ctx context.Context, id string) error {
	return a.repo.DeleteUser(ctx, id)
}

func (a *userAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

type roomAdapter struct {
	repo persistence.RoomRepository
}

func newRoomAdapter(repo persistence.RoomRepository) *roomAdapter {
	return &roomAdapter{repo: repo}
}

func (a *roomAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.repo.DeleteRoom(ctx, id)
}

func (a *roomAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

type meetingAdapter struct {
	repo persistence.MeetingRepository
}

func newMeetingAdapter(repo persistence.MeetingRepository) *meetingAdapter {
	return &meetingAdapter{repo: repo}
}

func (a *meetingAdapter) CreateMeeting(ctx context.Context, meeting application.Meeting) (application.Meeting, error) {
	if err := a.repo.CreateMeeting(ctx, toPersistenceMeeting(meeting)); err != nil {
		return application.Meeting{}, err
	}
	stored, err := a.repo.GetMeeting(ctx, meeting.ID)
	if err != nil {
		return application.Meeting{}, err
	}
	return toApplicationMeeting(stored), nil
}

func (a *meetingAdapter) GetMeeting(ctx context.Context, id string) (application.Meeting, error) {
	stored, err := a.repo.GetMeeting(ctx, id)
	if err != nil {
		return application.Meeting{}, err
	}
	return toApplicationMeeting(stored), nil
}

func (a *meetingAdapter) UpdateMeeting(ctx context.Context, meeting application.Meeting) (application.Meeting, error) {
	if err := a.repo.UpdateMeeting(ctx, toPersistenceMeeting(meeting)); err != nil {
		return application.Meeting{}, err
	}
	stored, err := a.repo.GetMeeting(ctx, meeting.ID)
	if err != nil {
		return application.Meeting{}, err
	}
	return toApplicationMeeting(stored), nil
}

func (a *meetingAdapter) DeleteMeeting(ctx context.Context, id string) error {
	return a.repo.DeleteMeeting(ctx, id)
}

func (a *meetingAdapter) ListMeetings(ctx context.Context) ([]application.Meeting, error) {
	models, err := a.repo.ListMeetings(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationMeetings(models), nil
}

func (a *meetingAdapter) ListMeetingsForRoom(ctx context.Context, roomID string) ([]application.Meeting, error) {
	models, err := a.repo.ListMeetingsForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return toApplicationMeetings(models), nil
}

type participantAdapter struct {
	repo  persistence.ParticipantRepository
	users persistence.UserRepository
}

func newParticipantAdapter(repo persistence.ParticipantRepository, users persistence.UserRepository) *participantAdapter {
	return &participantAdapter{repo: repo, users: users}
}

func (a *participantAdapter) AddParticipant(ctx context.Context, meetingID, userID string) error {
	return a.repo.AddParticipant(ctx, persistence.Participant{MeetingID: meetingID, UserID: userID})
}

func (a *participantAdapter) RemoveParticipant(ctx context.Context, meetingID, userID string) error {
	return a.repo.RemoveParticipant(ctx, meetingID, userID)
}

func (a *participantAdapter) ListParticipants(ctx context.Context, meetingID string) ([]application.User, error) {
	ids, err := a.repo.ListParticipantUserIDs(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(ids))
	for _, id := range ids {
		stored, err := a.users.GetUser(ctx, id)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, toApplicationUser(stored))
	}
	return users, nil
}

func (a *participantAdapter) ListParticipantUserIDs(ctx context.Context, meetingID string) ([]string, error) {
	return a.repo.ListParticipantUserIDs(ctx, meetingID)
}

type notificationAdapter struct {
	repo persistence.NotificationRepository
}

func newNotificationAdapter(repo persistence.NotificationRepository) *notificationAdapter {
	return &notificationAdapter{repo: repo}
}

func (a *notificationAdapter) CreateNotification(ctx context.Context, notification application.Notification) (application.Notification, error) {
	if err := a.repo.CreateNotification(ctx, toPersistenceNotification(notification)); err != nil {
		return application.Notification{}, err
	}
	return notification, nil
}

func (a *notificationAdapter) ListNotificationsForUser(ctx context.Context, userID string, filter application.NotificationFilter) ([]application.Notification, error) {
	models, err := a.repo.ListNotificationsForUser(ctx, userID, persistence.NotificationFilter{
		UnreadOnly: filter.UnreadOnly,
		Take:       filter.Take,
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	notifications := make([]application.Notification, 0, len(models))
	for _, model := range models {
		notifications = append(notifications, toApplicationNotification(model))
	}
	return notifications, nil
}

func (a *notificationAdapter) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	return a.repo.CountUnread(ctx, userID)
}

func (a *notificationAdapter) MarkNotificationRead(ctx context.Context, id, userID string) error {
	return a.repo.MarkRead(ctx, id, userID)
}

func (a *notificationAdapter) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return a.repo.MarkAllRead(ctx, userID)
}

func (a *notificationAdapter) DeleteNotification(ctx context.Context, id, userID string) error {
	return a.repo.DeleteNotification(ctx, id, userID)
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: passwordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:        model.ID,
		Name:      model.Name,
		Location:  model.Location,
		Capacity:  model.Capacity,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:        room.ID,
		Name:      room.Name,
		Location:  room.Location,
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt,
	}
}

func toApplicationMeeting(model persistence.Meeting) application.Meeting {
	status, ok := application.ParseMeetingStatus(model.Status)
	if !ok {
		status = application.StatusScheduled
	}
	return application.Meeting{
		ID:          model.ID,
		Title:       model.Title,
		Agenda:      model.Agenda,
		OrganizerID: model.OrganizerID,
		RoomID:      model.RoomID,
		Start:       model.Start,
		End:         model.End,
		Status:      status,
		CreatedAt:   model.CreatedAt,
	}
}

func toApplicationMeetings(models []persistence.Meeting) []application.Meeting {
	if len(models) == 0 {
		return nil
	}
	meetings := make([]application.Meeting, 0, len(models))
	for _, model := range models {
		meetings = append(meetings, toApplicationMeeting(model))
	}
	return meetings
}

func toPersistenceMeeting(meeting application.Meeting) persistence.Meeting {
	return persistence.Meeting{
		ID:          meeting.ID,
		Title:       meeting.Title,
		Agenda:      meeting.Agenda,
		OrganizerID: meeting.OrganizerID,
		RoomID:      meeting.RoomID,
		Start:       meeting.Start,
		End:         meeting.End,
		Status:      string(meeting.Status),
		CreatedAt:   meeting.CreatedAt,
	}
}

func toApplicationNotification(model persistence.Notification) application.Notification {
	return application.Notification{
		ID:        model.ID,
		UserID:    model.UserID,
		Type:      model.Type,
		Message:   model.Message,
		MeetingID: model.MeetingID,
		CreatedAt: model.CreatedAt,
		IsRead:    model.IsRead,
	}
}

func toPersistenceNotification(notification application.Notification) persistence.Notification {
	return persistence.Notification{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      notification.Type,
		Message:   notification.Message,
		MeetingID: notification.MeetingID,
		CreatedAt: notification.CreatedAt,
		IsRead:    notification.IsRead,
	}
}
