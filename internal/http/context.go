package http

import (
	"context"

	"github.com/example/smartmeeting/internal/application"
)

type contextKey string

const (
	principalContextKey      contextKey = "principal"
	meetingIDContextKey      contextKey = "meeting_id"
	userIDContextKey         contextKey = "user_id"
	roomIDContextKey         contextKey = "room_id"
	notificationIDContextKey contextKey = "notification_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithMeetingID injects the meeting identifier resolved from the request path.
func ContextWithMeetingID(ctx context.Context, meetingID string) context.Context {
	return context.WithValue(ctx, meetingIDContextKey, meetingID)
}

// MeetingIDFromContext extracts a meeting identifier previously associated with the context.
func MeetingIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(meetingIDContextKey).(string)
	return id, ok
}

// ContextWithUserID injects the user identifier resolved from the request path.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts a user identifier previously associated with the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithNotificationID injects the notification identifier resolved from the request path.
func ContextWithNotificationID(ctx context.Context, notificationID string) context.Context {
	return context.WithValue(ctx, notificationIDContextKey, notificationID)
}

// NotificationIDFromContext extracts a notification identifier previously associated with the context.
func NotificationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(notificationIDContextKey).(string)
	return id, ok
}
