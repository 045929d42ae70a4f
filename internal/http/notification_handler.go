package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/smartmeeting/internal/application"
)

type notificationService interface {
	ListNotifications(ctx context.Context, userID string, filter application.NotificationFilter) ([]application.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, id, userID string) error
}

// NotificationHandler serves the authenticated user's notification inbox.
// The owning user is always the request principal; there is no way to read
// or mutate another user's notifications.
type NotificationHandler struct {
	service   notificationService
	responder responder
}

func NewNotificationHandler(service notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, responder: newResponder(logger)}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || principal.UserID == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingBearerToken)
		return
	}

	filter := application.NotificationFilter{}
	query := r.URL.Query()
	if unread := strings.TrimSpace(query.Get("unread_only")); unread != "" {
		filter.UnreadOnly, _ = strconv.ParseBool(unread)
	}
	if take := strings.TrimSpace(query.Get("take")); take != "" {
		if n, err := strconv.Atoi(take); err == nil && n > 0 {
			filter.Take = n
		}
	}

	notifications, err := h.service.ListNotifications(r.Context(), principal.UserID, filter)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listNotificationsResponse{Notifications: toNotificationDTOs(notifications)})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || principal.UserID == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingBearerToken)
		return
	}

	count, err := h.service.CountUnread(r.Context(), principal.UserID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, unreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || principal.UserID == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingBearerToken)
		return
	}

	notificationID, ok := NotificationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(notificationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidNotificationID)
		return
	}

	if err := h.service.MarkRead(r.Context(), notificationID, principal.UserID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || principal.UserID == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingBearerToken)
		return
	}

	if err := h.service.MarkAllRead(r.Context(), principal.UserID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || principal.UserID == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingBearerToken)
		return
	}

	notificationID, ok := NotificationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(notificationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidNotificationID)
		return
	}

	if err := h.service.DeleteNotification(r.Context(), notificationID, principal.UserID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type listNotificationsResponse struct {
	Notifications []notificationDTO `json:"notifications"`
}

type unreadCountResponse struct {
	Count int `json:"count"`
}

type notificationDTO struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	MeetingID *string `json:"meeting_id,omitempty"`
	CreatedAt string  `json:"created_at"`
	IsRead    bool    `json:"is_read"`
}

func toNotificationDTO(notification application.Notification) notificationDTO {
	return notificationDTO{
		ID:        notification.ID,
		Type:      notification.Type,
		Message:   notification.Message,
		MeetingID: notification.MeetingID,
		CreatedAt: notification.CreatedAt.UTC().Format(time.RFC3339),
		IsRead:    notification.IsRead,
	}
}

func toNotificationDTOs(notifications []application.Notification) []notificationDTO {
	if len(notifications) == 0 {
		return nil
	}
	out := make([]notificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, toNotificationDTO(notification))
	}
	return out
}
