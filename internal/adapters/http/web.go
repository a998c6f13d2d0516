// Package web exposes the enrollment engine as a JSON API.
package web

import (
	"net/http"
	"time"

	"coursedesk/internal/adapters/email"
	"coursedesk/internal/adapters/geocode"
	"coursedesk/internal/adapters/http/middleware"
	"coursedesk/internal/adapters/http/perf"
	courseStore "coursedesk/internal/adapters/storage/course"
	enrollmentStore "coursedesk/internal/adapters/storage/enrollment"
	memberStore "coursedesk/internal/adapters/storage/member"
	notificationStore "coursedesk/internal/adapters/storage/notification"
	participantStore "coursedesk/internal/adapters/storage/participant"
	roomStore "coursedesk/internal/adapters/storage/room"
	sessionStore "coursedesk/internal/adapters/storage/session"
	wishStore "coursedesk/internal/adapters/storage/wish"
)

// Stores holds all storage dependencies.
type Stores struct {
	MemberStore       memberStore.Store
	CourseStore       courseStore.Store
	RoomStore         roomStore.Store
	SessionStore      sessionStore.Store
	WishStore         wishStore.Store
	ParticipantStore  participantStore.Store
	EnrollmentStore   enrollmentStore.Store
	NotificationStore notificationStore.Store
}

// Options carries the non-store dependencies of the API.
type Options struct {
	Geocoder     geocode.Resolver // optional: nil disables distance resolution
	Sender       email.Sender     // optional: nil disables notification email
	ArchiveDwell time.Duration    // dwell used by the manual sweep trigger
	Collector    *perf.Collector  // optional: request/query timing snapshot
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global options instance (set by NewMux)
var options Options

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the API.
func NewMux(s *Stores, opts Options) http.Handler {
	stores = s
	options = opts
	if options.ArchiveDwell <= 0 {
		options.ArchiveDwell = 30 * 24 * time.Hour
	}

	mux := http.NewServeMux()
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(opts.Collector),
	)
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)

	mux.HandleFunc("GET /api/members", handleListMembers)
	mux.HandleFunc("POST /api/members", handleCreateMember)
	mux.HandleFunc("GET /api/members/{id}", handleGetMember)

	mux.HandleFunc("GET /api/courses", handleListCourses)
	mux.HandleFunc("POST /api/courses", handleCreateCourse)

	mux.HandleFunc("GET /api/rooms", handleListRooms)
	mux.HandleFunc("POST /api/rooms", handleCreateRoom)

	mux.HandleFunc("POST /api/sessions", handleCreateSession)
	mux.HandleFunc("GET /api/sessions", handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", handleGetSession)
	mux.HandleFunc("GET /api/sessions/{id}/capacity", handleSessionCapacity)
	mux.HandleFunc("GET /api/sessions/{id}/wishes", handleRankWishes)
	mux.HandleFunc("POST /api/sessions/{id}/status", handleSetSessionStatus)

	mux.HandleFunc("POST /api/wishes", handleCreateWish)
	mux.HandleFunc("DELETE /api/wishes/{id}", handleDeleteWish)
	mux.HandleFunc("POST /api/wishes/{id}/promote", handlePromoteWish)

	mux.HandleFunc("POST /api/participants/{id}/status", handleSetParticipantStatus)
	mux.HandleFunc("GET /api/participants/{id}/comments", handleListComments)
	mux.HandleFunc("POST /api/participants/{id}/withdraw", handleWithdrawParticipant)

	mux.HandleFunc("GET /api/members/{id}/notifications", handleListNotifications)
	mux.HandleFunc("POST /api/notifications/{id}/read", handleMarkNotificationRead)

	mux.HandleFunc("POST /api/archive/run", handleRunArchiveSweep)
	mux.HandleFunc("GET /api/perf", handlePerfSnapshot)
}
