package testfixtures

import (
	"path/filepath"
	"testing"

	"github.com/example/wedding-planner/internal/persistence"
	"github.com/example/wedding-planner/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Guests         persistence.GuestRepository
	Events         persistence.EventRepository
	RSVPs          persistence.RSVPRepository
	FAQ            persistence.FAQRepository
	Accommodation  persistence.AccommodationRepository
	Transport      persistence.TransportRepository
	Flags          persistence.FlagRepository
	Communications persistence.CommunicationRepository
	Chats          persistence.ChatRepository
	Stories        persistence.StoryRepository
	Sessions       persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary database file
// that is migrated automatically. Cleanup is registered with the provided
// testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "wedding.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := pool.Migrate(); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Guests:         sqlite.NewGuestRepository(pool),
		Events:         sqlite.NewEventRepository(pool),
		RSVPs:          sqlite.NewRSVPRepository(pool),
		FAQ:            sqlite.NewFAQRepository(pool),
		Accommodation:  sqlite.NewAccommodationRepository(pool),
		Transport:      sqlite.NewTransportRepository(pool),
		Flags:          sqlite.NewFlagRepository(pool),
		Communications: sqlite.NewCommunicationRepository(pool),
		Chats:          sqlite.NewChatRepository(pool),
		Stories:        sqlite.NewStoryRepository(pool),
		Sessions:       sqlite.NewSessionRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
