package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	courseStore "coursedesk/internal/adapters/storage/course"
	memberStore "coursedesk/internal/adapters/storage/member"
	notificationStore "coursedesk/internal/adapters/storage/notification"
	sessionStore "coursedesk/internal/adapters/storage/session"
	"coursedesk/internal/application/listutil"
	"coursedesk/internal/application/orchestrators"
	"coursedesk/internal/application/projections"
	courseDomain "coursedesk/internal/domain/course"
	memberDomain "coursedesk/internal/domain/member"
	participantDomain "coursedesk/internal/domain/participant"
	roomDomain "coursedesk/internal/domain/room"
	sessionDomain "coursedesk/internal/domain/session"
	wishDomain "coursedesk/internal/domain/wish"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// dateLayout is the wire format for occurrence dates.
const dateLayout = "2006-01-02"

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// respondError maps domain errors to HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, sessionDomain.ErrInvalidStatus),
		errors.Is(err, participantDomain.ErrInvalidStatus),
		errors.Is(err, orchestrators.ErrInvalidPromoteMode),
		errors.Is(err, orchestrators.ErrCourseInactive):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, participantDomain.ErrAlreadyEnrolled),
		errors.Is(err, wishDomain.ErrDuplicateWish),
		errors.Is(err, orchestrators.ErrWishPromoted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, orchestrators.ErrNotWishOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		internalError(w, err)
	}
}

// notifier builds the notification fan-out deps from the wired globals.
func notifier() orchestrators.NotifierDeps {
	return orchestrators.NotifierDeps{
		NotificationStore: stores.NotificationStore,
		MemberStore:       stores.MemberStore,
		Sender:            options.Sender,
		GenerateID:        generateID,
		Now:               timeNow,
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- members ---

type memberPayload struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type memberResponse struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Phone      string   `json:"phone,omitempty"`
	Address    string   `json:"address,omitempty"`
	City       string   `json:"city,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func toMemberResponse(m memberDomain.Member) memberResponse {
	resp := memberResponse{
		ID:         m.ID,
		Email:      m.Email,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Phone:      m.Phone,
		Address:    m.Address,
		City:       m.City,
		PostalCode: m.PostalCode,
	}
	if m.HasCoordinate {
		lat, lon := m.Latitude, m.Longitude
		resp.Latitude, resp.Longitude = &lat, &lon
	}
	return resp
}

func handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var payload memberPayload
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	m := memberDomain.Member{
		ID:         generateID(),
		Email:      payload.Email,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Phone:      payload.Phone,
		Address:    payload.Address,
		City:       payload.City,
		PostalCode: payload.PostalCode,
	}
	if err := m.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.MemberStore.Save(r.Context(), m); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberResponse(m))
}

func handleListMembers(w http.ResponseWriter, r *http.Request) {
	page := listutil.ParsePageParams(r.URL.Query())
	members, err := stores.MemberStore.List(r.Context(), memberStore.ListFilter{
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := stores.MemberStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(m))
}

// --- courses ---

type coursePayload struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Description   string `json:"description"`
	DurationHours int    `json:"duration_hours"`
	Active        bool   `json:"active"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
}

type courseResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Description   string `json:"description,omitempty"`
	DurationHours int    `json:"duration_hours"`
	Active        bool   `json:"active"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
}

func toCourseResponse(c courseDomain.Course) courseResponse {
	return courseResponse{
		ID:            c.ID,
		Name:          c.Name,
		Code:          c.Code,
		Description:   c.Description,
		DurationHours: c.DurationHours,
		Active:        c.Active,
		City:          c.City,
		PostalCode:    c.PostalCode,
	}
}

func handleListCourses(w http.ResponseWriter, r *http.Request) {
	page := listutil.ParsePageParams(r.URL.Query())
	filter := courseStore.ListFilter{
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Limit:      page.Limit(),
		Offset:     page.Offset(),
	}
	courses, err := stores.CourseStore.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]courseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var payload coursePayload
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c := courseDomain.Course{
		ID:            generateID(),
		Name:          payload.Name,
		Code:          payload.Code,
		Description:   payload.Description,
		DurationHours: payload.DurationHours,
		Active:        payload.Active,
		City:          payload.City,
		PostalCode:    payload.PostalCode,
	}
	if err := c.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.CourseStore.Save(r.Context(), c); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCourseResponse(c))
}

// --- rooms ---

type roomPayload struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Capacity   int    `json:"capacity"`
	Equipment  string `json:"equipment"`
}

type roomResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Capacity   int    `json:"capacity"`
	Equipment  string `json:"equipment,omitempty"`
}

func handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := stores.RoomStore.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]roomResponse, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, roomResponse{
			ID: rm.ID, Name: rm.Name, Address: rm.Address, PostalCode: rm.PostalCode,
			City: rm.City, Capacity: rm.Capacity, Equipment: rm.Equipment,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var payload roomPayload
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rm := roomDomain.Room{
		ID:         generateID(),
		Name:       payload.Name,
		Address:    payload.Address,
		PostalCode: payload.PostalCode,
		City:       payload.City,
		Capacity:   payload.Capacity,
		Equipment:  payload.Equipment,
	}
	if err := rm.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.RoomStore.Save(r.Context(), rm); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, roomResponse{
		ID: rm.ID, Name: rm.Name, Address: rm.Address, PostalCode: rm.PostalCode,
		City: rm.City, Capacity: rm.Capacity, Equipment: rm.Equipment,
	})
}

// --- sessions ---

type occurrencePayload struct {
	Date   string `json:"date"` // YYYY-MM-DD
	RoomID string `json:"room_id"`
}

type sessionPayload struct {
	CourseID    string              `json:"course_id"`
	Address     string              `json:"address"`
	City        string              `json:"city"`
	PostalCode  string              `json:"postal_code"`
	OpeningDate string              `json:"opening_date"`
	Deadline    string              `json:"deadline"`
	Occurrences []occurrencePayload `json:"occurrences"`
}

type occurrenceResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	RoomID string `json:"room_id,omitempty"`
}

type sessionResponse struct {
	ID          string               `json:"id"`
	CourseID    string               `json:"course_id"`
	Status      string               `json:"status"`
	StatusLabel string               `json:"status_label"`
	StartDate   string               `json:"start_date,omitempty"`
	EndDate     string               `json:"end_date,omitempty"`
	Address     string               `json:"address,omitempty"`
	City        string               `json:"city,omitempty"`
	PostalCode  string               `json:"postal_code,omitempty"`
	IsArchived  bool                 `json:"is_archived"`
	Occurrences []occurrenceResponse `json:"occurrences,omitempty"`
}

func toSessionResponse(s sessionDomain.Session, occurrences []sessionDomain.Occurrence) sessionResponse {
	resp := sessionResponse{
		ID:          s.ID,
		CourseID:    s.CourseID,
		Status:      s.Status,
		StatusLabel: sessionDomain.StatusLabel(s.Status),
		Address:     s.Address,
		City:        s.City,
		PostalCode:  s.PostalCode,
		IsArchived:  s.IsArchived,
	}
	if !s.StartDate.IsZero() {
		resp.StartDate = s.StartDate.Format(dateLayout)
	}
	if !s.EndDate.IsZero() {
		resp.EndDate = s.EndDate.Format(dateLayout)
	}
	for _, o := range occurrences {
		resp.Occurrences = append(resp.Occurrences, occurrenceResponse{
			ID:     o.ID,
			Date:   o.Date.Format(dateLayout),
			RoomID: o.RoomID,
		})
	}
	return resp
}

func handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload sessionPayload
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if payload.CourseID == "" {
		http.Error(w, "course_id is required", http.StatusBadRequest)
		return
	}
	if _, err := stores.CourseStore.GetByID(r.Context(), payload.CourseID); err != nil {
		respondError(w, err)
		return
	}

	now := timeNow()
	s := sessionDomain.Session{
		ID:               generateID(),
		CourseID:         payload.CourseID,
		Status:           sessionDomain.StatusNotOpened,
		Address:          payload.Address,
		City:             payload.City,
		PostalCode:       payload.PostalCode,
		LastStatusChange: now,
		CreatedAt:        now,
	}
	var err error
	if s.OpeningDate, err = parseOptionalDate(payload.OpeningDate); err != nil {
		http.Error(w, "invalid opening_date", http.StatusBadRequest)
		return
	}
	if s.Deadline, err = parseOptionalDate(payload.Deadline); err != nil {
		http.Error(w, "invalid deadline", http.StatusBadRequest)
		return
	}

	if err := stores.SessionStore.Save(r.Context(), s); err != nil {
		respondError(w, err)
		return
	}

	for _, op := range payload.Occurrences {
		date, err := time.Parse(dateLayout, op.Date)
		if err != nil {
			http.Error(w, "invalid occurrence date", http.StatusBadRequest)
			return
		}
		o := sessionDomain.Occurrence{
			ID:        generateID(),
			SessionID: s.ID,
			Date:      date,
			RoomID:    op.RoomID,
			CreatedAt: now,
		}
		if err := stores.SessionStore.SaveOccurrence(r.Context(), o); err != nil {
			respondError(w, err)
			return
		}
	}

	// Re-read for the derived start/end dates.
	created, err := stores.SessionStore.GetByID(r.Context(), s.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	occurrences, err := stores.SessionStore.ListOccurrences(r.Context(), s.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(created, occurrences))
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func handleListSessions(w http.ResponseWriter, r *http.Request) {
	page := listutil.ParsePageParams(r.URL.Query())
	filter := sessionStore.ListFilter{
		CourseID:        r.URL.Query().Get("course_id"),
		Status:          r.URL.Query().Get("status"),
		IncludeArchived: r.URL.Query().Get("include_archived") == "true",
		Limit:           page.Limit(),
		Offset:          page.Offset(),
	}
	sessions, err := stores.SessionStore.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s, nil))
	}
	writeJSON(w, http.StatusOK, out)
}

func handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, err := stores.SessionStore.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	occurrences, err := stores.SessionStore.ListOccurrences(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s, occurrences))
}

func handleSessionCapacity(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QuerySessionCapacity(r.Context(), projections.SessionCapacityInput{
		SessionID: r.PathValue("id"),
	}, projections.SessionCapacityDeps{
		SessionStore:     stores.SessionStore,
		ParticipantStore: stores.ParticipantStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": result.SessionID,
		"capacity":   result.Capacity,
		"registered": result.Registered,
		"available":  result.Available,
	})
}

type rankedWishResponse struct {
	WishID      string         `json:"wish_id"`
	Member      memberResponse `json:"member"`
	Notes       string         `json:"notes,omitempty"`
	SubmittedAt string         `json:"submitted_at"`
	DistanceKm  *float64       `json:"distance_km"` // null when unknown
}

func handleRankWishes(w http.ResponseWriter, r *http.Request) {
	results, err := projections.QueryRankWishes(r.Context(), projections.RankWishesInput{
		SessionID: r.PathValue("id"),
		Mode:      r.URL.Query().Get("mode"),
	}, projections.RankWishesDeps{
		SessionStore: stores.SessionStore,
		CourseStore:  stores.CourseStore,
		WishStore:    stores.WishStore,
		MemberStore:  stores.MemberStore,
		Geocoder:     options.Geocoder,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]rankedWishResponse, 0, len(results))
	for _, rw := range results {
		item := rankedWishResponse{
			WishID:      rw.Wish.ID,
			Member:      toMemberResponse(rw.Member),
			Notes:       rw.Wish.Notes,
			SubmittedAt: rw.Wish.CreatedAt.Format(time.RFC3339),
		}
		// +Inf is not representable in JSON; unknown distances go out as null.
		if !math.IsInf(rw.DistanceKm, 1) {
			d := rw.DistanceKm
			item.DistanceKm = &d
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func handleSetSessionStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	changed, err := orchestrators.ExecuteSetSessionStatus(r.Context(), orchestrators.SetSessionStatusInput{
		SessionID: r.PathValue("id"),
		Status:    payload.Status,
	}, orchestrators.SetSessionStatusDeps{
		SessionStore:     stores.SessionStore,
		ParticipantStore: stores.ParticipantStore,
		Notifier:         notifier(),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed, "status": payload.Status})
}

// --- wishes ---

type wishResponse struct {
	ID        string `json:"id"`
	MemberID  string `json:"member_id"`
	CourseID  string `json:"course_id"`
	SessionID string `json:"session_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toWishResponse(wish wishDomain.Wish) wishResponse {
	return wishResponse{
		ID:        wish.ID,
		MemberID:  wish.MemberID,
		CourseID:  wish.CourseID,
		SessionID: wish.SessionID,
		Notes:     wish.Notes,
		CreatedAt: wish.CreatedAt.Format(time.RFC3339),
	}
}

func handleCreateWish(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MemberID string `json:"member_id"`
		CourseID string `json:"course_id"`
		Notes    string `json:"notes"`
	}
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := orchestrators.ExecuteCreateWish(r.Context(), orchestrators.CreateWishInput{
		MemberID: payload.MemberID,
		CourseID: payload.CourseID,
		Notes:    payload.Notes,
	}, orchestrators.CreateWishDeps{
		WishStore:   stores.WishStore,
		CourseStore: stores.CourseStore,
		MemberStore: stores.MemberStore,
		GenerateID:  generateID,
		Now:         timeNow,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWishResponse(created))
}

func handleDeleteWish(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteWish(r.Context(), orchestrators.DeleteWishInput{
		WishID:   r.PathValue("id"),
		MemberID: r.URL.Query().Get("member_id"),
	}, orchestrators.DeleteWishDeps{
		WishStore: stores.WishStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type participantResponse struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	MemberID    string `json:"member_id"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
}

func toParticipantResponse(p participantDomain.Participant) participantResponse {
	return participantResponse{
		ID:          p.ID,
		SessionID:   p.SessionID,
		MemberID:    p.MemberID,
		Status:      p.Status,
		StatusLabel: participantDomain.StatusLabel(p.Status),
	}
}

func handlePromoteWish(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
		Mode      string `json:"mode"`
	}
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := orchestrators.ExecutePromoteWish(r.Context(), orchestrators.PromoteWishInput{
		WishID:    r.PathValue("id"),
		SessionID: payload.SessionID,
		Mode:      payload.Mode,
	}, orchestrators.PromoteWishDeps{
		WishStore:       stores.WishStore,
		SessionStore:    stores.SessionStore,
		EnrollmentStore: stores.EnrollmentStore,
		Notifier:        notifier(),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toParticipantResponse(p))
}

// --- participants ---

func handleSetParticipantStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status   string `json:"status"`
		Comment  string `json:"comment"`
		AuthorID string `json:"author_id"`
	}
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := orchestrators.ExecuteSetParticipantStatus(r.Context(), orchestrators.SetParticipantStatusInput{
		ParticipantID: r.PathValue("id"),
		Status:        payload.Status,
		Comment:       payload.Comment,
		AuthorID:      payload.AuthorID,
	}, orchestrators.SetParticipantStatusDeps{
		ParticipantStore: stores.ParticipantStore,
		GenerateID:       generateID,
		Now:              timeNow,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantResponse(p))
}

func handleListComments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := stores.ParticipantStore.GetByID(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	comments, err := stores.ParticipantStore.ListComments(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	type commentResponse struct {
		ID        string `json:"id"`
		AuthorID  string `json:"author_id,omitempty"`
		Content   string `json:"content"`
		CreatedAt string `json:"created_at"`
	}
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse{
			ID:        c.ID,
			AuthorID:  c.AuthorID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func handleWithdrawParticipant(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteWithdrawParticipant(r.Context(), orchestrators.WithdrawParticipantInput{
		ParticipantID: r.PathValue("id"),
	}, orchestrators.WithdrawParticipantDeps{
		ParticipantStore: stores.ParticipantStore,
		SessionStore:     stores.SessionStore,
		EnrollmentStore:  stores.EnrollmentStore,
		Notifier:         notifier(),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- notifications ---

func handleListNotifications(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if _, err := stores.MemberStore.GetByID(r.Context(), memberID); err != nil {
		respondError(w, err)
		return
	}

	filter := notificationStore.ListFilter{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
		Limit:      queryInt(r, "limit"),
	}
	notifications, err := stores.NotificationStore.ListByMember(r.Context(), memberID, filter)
	if err != nil {
		respondError(w, err)
		return
	}
	unread, err := stores.NotificationStore.CountUnread(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}

	type notificationResponse struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		Message     string `json:"message"`
		RelatedType string `json:"related_type,omitempty"`
		RelatedID   string `json:"related_id,omitempty"`
		IsRead      bool   `json:"is_read"`
		CreatedAt   string `json:"created_at"`
	}
	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, notificationResponse{
			ID:          n.ID,
			Type:        n.Type,
			Message:     n.Message,
			RelatedType: n.RelatedType,
			RelatedID:   n.RelatedID,
			IsRead:      n.IsRead,
			CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": out,
		"unread_count":  unread,
	})
}

func handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := stores.NotificationStore.GetByID(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	if err := stores.NotificationStore.MarkRead(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- maintenance ---

func handleRunArchiveSweep(w http.ResponseWriter, r *http.Request) {
	archived, err := orchestrators.RunArchiveSweep(r.Context(), options.ArchiveDwell, orchestrators.ArchiveSweepDeps{
		SessionStore: stores.SessionStore,
		Now:          timeNow,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"archived": archived})
}

func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	if options.Collector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}
	since := timeNow().Add(-time.Hour)
	writeJSON(w, http.StatusOK, options.Collector.Snapshot(since, 10))
}
