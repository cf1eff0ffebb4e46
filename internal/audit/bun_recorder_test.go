package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/audit"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/storage"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	entries *[]logEntry
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{entries: &[]logEntry{}}
}

func (l recordingLogger) log(level, msg string, args []any) {
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l recordingLogger) Trace(msg string, args ...any) { l.log("trace", msg, args) }
func (l recordingLogger) Debug(msg string, args ...any) { l.log("debug", msg, args) }
func (l recordingLogger) Info(msg string, args ...any)  { l.log("info", msg, args) }
func (l recordingLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args) }
func (l recordingLogger) Error(msg string, args ...any) { l.log("error", msg, args) }
func (l recordingLogger) Fatal(msg string, args ...any) { l.log("fatal", msg, args) }

func (l recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func openEventStore(t *testing.T) *bun.DB {
	t.Helper()
	db, err := storage.Open(storage.Config{
		Driver: "sqlite3",
		DSN:    "file:" + t.Name() + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.NewCreateTable().Model((*catalog.StateChangeEvent)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("create events table: %v", err)
	}
	return db
}

func TestBunRecord_PersistsAndLogs(t *testing.T) {
	db := openEventStore(t)
	logger := newRecordingLogger()
	stamp := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	recorder := audit.NewBunRecorder(db,
		audit.WithBunClock(func() time.Time { return stamp }),
		audit.WithBunLogger(logger),
	)

	itemID := uuid.New()
	event, err := recorder.Record(context.Background(), audit.Entry{
		ItemID:        itemID,
		ItemType:      catalog.ItemTypeSong,
		Actor:         "ops@melodia",
		PreviousState: "published",
		NewState:      "blocked",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !event.RecordedAt.Equal(stamp) {
		t.Fatalf("expected clock stamp %v, got %v", stamp, event.RecordedAt)
	}

	events, err := recorder.List(context.Background(), itemID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 || events[0].NewState != "blocked" {
		t.Fatalf("expected persisted block event, got %+v", events)
	}

	var recorded bool
	for _, entry := range *logger.entries {
		if entry.level == "debug" && entry.msg == "state change recorded" {
			recorded = true
		}
	}
	if !recorded {
		t.Fatal("expected a debug entry for the recorded transition")
	}
}

func TestBunRecord_LogsInsertFailure(t *testing.T) {
	db := openEventStore(t)
	logger := newRecordingLogger()
	recorder := audit.NewBunRecorder(db, audit.WithBunLogger(logger))

	// Dropping the table forces the insert to fail.
	if _, err := db.NewDropTable().Model((*catalog.StateChangeEvent)(nil)).Exec(context.Background()); err != nil {
		t.Fatalf("drop events table: %v", err)
	}

	if _, err := recorder.Record(context.Background(), audit.Entry{
		ItemID:        uuid.New(),
		ItemType:      catalog.ItemTypeSong,
		Actor:         "ops@melodia",
		PreviousState: "published",
		NewState:      "blocked",
	}); err == nil {
		t.Fatal("expected insert failure")
	}

	var logged bool
	for _, entry := range *logger.entries {
		if entry.level == "error" && entry.msg == "state change insert failed" {
			logged = true
		}
	}
	if !logged {
		t.Fatal("expected an error entry for the failed insert")
	}
}
