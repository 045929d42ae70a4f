// Package http provides HTTP handlers and middleware for the meeting API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a bearer token. Body: {"email","password"}.
//     Response: {"token","expires_at","user"}.
//   - GET /meetings, POST /meetings, GET /meetings/{id}, PUT /meetings/{id},
//     DELETE /meetings/{id}: meeting booking endpoints exchanging the
//     `meetingDTO` payload defined in meeting_handler.go. Room conflicts and
//     rejected status transitions answer 409 with the ROOM_CONFLICT and
//     INVALID_STATUS_TRANSITION error codes respectively.
//   - GET /meetings/{id}/participants, POST /meetings/{id}/participants,
//     DELETE /meetings/{id}/participants/{userID}: attendee roster endpoints.
//   - GET /rooms, POST /rooms, GET /rooms/{id}, PUT /rooms/{id},
//     DELETE /rooms/{id}: room catalog endpoints exchanging the `roomDTO`
//     payload defined in room_handler.go.
//   - GET /users, POST /users, GET /users/{id}, PUT /users/{id},
//     DELETE /users/{id}: directory endpoints exchanging the `userDTO`
//     payload defined in user_handler.go.
//   - GET /notifications, GET /notifications/unread-count,
//     POST /notifications/{id}/read, POST /notifications/read-all,
//     DELETE /notifications/{id}: the authenticated user's notification
//     inbox; the owner is always the request principal.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
