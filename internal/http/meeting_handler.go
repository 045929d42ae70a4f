package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/smartmeeting/internal/application"
)

type meetingService interface {
	CreateMeeting(ctx context.Context, input application.MeetingInput) (application.Meeting, error)
	GetMeeting(ctx context.Context, id string) (application.Meeting, error)
	UpdateMeeting(ctx context.Context, id string, input application.MeetingInput) (application.Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
	ListMeetings(ctx context.Context) ([]application.Meeting, error)
}

type participantService interface {
	AddParticipant(ctx context.Context, meetingID, userID string) error
	RemoveParticipant(ctx context.Context, meetingID, userID string) error
	ListParticipants(ctx context.Context, meetingID string) ([]application.User, error)
}

type MeetingHandler struct {
	service      meetingService
	participants participantService
	responder    responder
}

func NewMeetingHandler(service meetingService, participants participantService, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{service: service, participants: participants, responder: newResponder(logger)}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	meeting, err := h.service.CreateMeeting(r.Context(), req.toInput(r.Context()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, meetingResponse{Meeting: toMeetingDTO(meeting)})
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(meetingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	meeting, err := h.service.GetMeeting(r.Context(), meetingID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingResponse{Meeting: toMeetingDTO(meeting)})
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetings, err := h.service.ListMeetings(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMeetingsResponse{Meetings: toMeetingDTOs(meetings)})
}

func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(meetingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	meeting, err := h.service.UpdateMeeting(r.Context(), meetingID, req.toInput(r.Context()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingResponse{Meeting: toMeetingDTO(meeting)})
}

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(meetingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	if err := h.service.DeleteMeeting(r.Context(), meetingID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *MeetingHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.participants == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(meetingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	users, err := h.participants.ListParticipants(r.Context(), meetingID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listParticipantsResponse{Participants: toUserDTOs(users)})
}

func (h *MeetingHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.participants == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(meetingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	if err := h.participants.AddParticipant(r.Context(), meetingID, userID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *MeetingHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request, userID string) {
	if h == nil || h.participants == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(meetingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	if err := h.participants.RemoveParticipant(r.Context(), meetingID, userID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type meetingRequest struct {
	Title       string  `json:"title"`
	Agenda      *string `json:"agenda"`
	OrganizerID string  `json:"organizer_id"`
	RoomID      string  `json:"room_id"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Status      string  `json:"status"`
}

// toInput builds the service input. A missing organizer_id falls back to the
// authenticated principal, so clients normally omit it.
func (r meetingRequest) toInput(ctx context.Context) application.MeetingInput {
	organizerID := strings.TrimSpace(r.OrganizerID)
	if organizerID == "" {
		if principal, ok := PrincipalFromContext(ctx); ok {
			organizerID = principal.UserID
		}
	}
	return application.MeetingInput{
		Title:       strings.TrimSpace(r.Title),
		Agenda:      r.Agenda,
		OrganizerID: organizerID,
		RoomID:      strings.TrimSpace(r.RoomID),
		Start:       parseTimestamp(r.Start),
		End:         parseTimestamp(r.End),
		Status:      strings.TrimSpace(r.Status),
	}
}

func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Time{}
}

type participantRequest struct {
	UserID string `json:"user_id"`
}

type meetingResponse struct {
	Meeting meetingDTO `json:"meeting"`
}

type listMeetingsResponse struct {
	Meetings []meetingDTO `json:"meetings"`
}

type listParticipantsResponse struct {
	Participants []userDTO `json:"participants"`
}

type meetingDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Agenda      string `json:"agenda,omitempty"`
	OrganizerID string `json:"organizer_id"`
	RoomID      string `json:"room_id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func toMeetingDTO(meeting application.Meeting) meetingDTO {
	return meetingDTO{
		ID:          meeting.ID,
		Title:       meeting.Title,
		Agenda:      meeting.Agenda,
		OrganizerID: meeting.OrganizerID,
		RoomID:      meeting.RoomID,
		Start:       meeting.Start.UTC().Format(time.RFC3339),
		End:         meeting.End.UTC().Format(time.RFC3339),
		Status:      string(meeting.Status),
		CreatedAt:   meeting.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toMeetingDTOs(meetings []application.Meeting) []meetingDTO {
	if len(meetings) == 0 {
		return nil
	}
	out := make([]meetingDTO, 0, len(meetings))
	for _, meeting := range meetings {
		out = append(out, toMeetingDTO(meeting))
	}
	return out
}
