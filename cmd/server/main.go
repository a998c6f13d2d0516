package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	_ "modernc.org/sqlite"

	emailPkg "coursedesk/internal/adapters/email"
	"coursedesk/internal/adapters/geocode"
	web "coursedesk/internal/adapters/http"
	"coursedesk/internal/adapters/http/perf"
	"coursedesk/internal/adapters/storage"
	courseStore "coursedesk/internal/adapters/storage/course"
	enrollmentStore "coursedesk/internal/adapters/storage/enrollment"
	memberStore "coursedesk/internal/adapters/storage/member"
	notificationStore "coursedesk/internal/adapters/storage/notification"
	participantStore "coursedesk/internal/adapters/storage/participant"
	roomStore "coursedesk/internal/adapters/storage/room"
	sessionStore "coursedesk/internal/adapters/storage/session"
	wishStore "coursedesk/internal/adapters/storage/wish"
	"coursedesk/internal/application/orchestrators"
	"coursedesk/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	sessStore := sessionStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		MemberStore:       memberStore.NewSQLiteStore(timedDB),
		CourseStore:       courseStore.NewSQLiteStore(timedDB),
		RoomStore:         roomStore.NewSQLiteStore(timedDB),
		SessionStore:      sessStore,
		WishStore:         wishStore.NewSQLiteStore(timedDB),
		ParticipantStore:  participantStore.NewSQLiteStore(timedDB),
		EnrollmentStore:   enrollmentStore.NewSQLiteStore(timedDB),
		NotificationStore: notificationStore.NewSQLiteStore(timedDB),
	}

	// Geocoding: Nominatim, with Redis caching when configured
	var geocoder geocode.Resolver = geocode.NewNominatimResolver(cfg.GeocodeURL)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		geocoder = geocode.NewCachedResolver(geocoder, rdb, cfg.GeocodeCacheTTL)
		log.Println("Geocode cache configured (Redis)")
	}

	// Email: portal notifications are mirrored to email when Resend is configured
	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		log.Println("Email sender configured (noop, set COURSEDESK_RESEND_KEY for real delivery)")
	}

	// Background archival of completed sessions
	stopArchiver := orchestrators.StartArchiveScheduler(context.Background(), orchestrators.ArchiveSweepDeps{
		SessionStore: sessStore,
		Now:          time.Now,
	}, orchestrators.ArchiveSweepConfig{
		Interval: cfg.ArchiveInterval,
		Dwell:    cfg.ArchiveDwell,
		Enabled:  cfg.ArchiveEnabled,
	})
	defer stopArchiver()

	mux := web.NewMux(stores, web.Options{
		Geocoder:     geocoder,
		Sender:       sender,
		ArchiveDwell: cfg.ArchiveDwell,
		Collector:    collector,
	})

	log.Printf("Coursedesk %s starting on %s (schema=%d)", version, cfg.Addr, storage.LatestSchemaVersion())
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
