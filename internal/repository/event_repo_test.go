package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"epoxy_monitor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var eventColumns = []string{"id", "occurred_at", "type", "session_id", "message", "meta"}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(),
			models.EventSessionOpened, "s-1", "hello",
			`{"a":1}`,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.SessionEvent{
		// EventID empty -> repo generates
		// OccurredAt zero -> repo sets UTC now
		Type:        "  session_opened ",
		SessionID:   "s-1",
		Description: "hello",
		Metadata:    map[string]any{"a": 1},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_FormatsTimestampAndKeepsID(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	at := time.Date(2025, 3, 4, 5, 6, 7, 8, time.FixedZone("X", 2*3600))
	mock.ExpectExec("INSERT INTO session_events").
		WithArgs("ev-1", "2025-03-04 03:06:07.000000008", models.EventSessionClosed, "s-2", "bye", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.SessionEvent{
		EventID:     "ev-1",
		OccurredAt:  at,
		Type:        models.EventSessionClosed,
		SessionID:   "s-2",
		Description: "bye",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	mock.ExpectExec("INSERT INTO session_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.SessionEvent{
		Type:        models.EventSessionOpened,
		Description: "x",
		Metadata:    map[string]string{"k": "v"},
	})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_UnmarshalableMetadata(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	err := repo.Append(ctx(t), models.SessionEvent{
		Type:     models.EventNotificationRaised,
		Metadata: map[string]any{"ch": make(chan int)},
	})
	if err == nil {
		t.Fatalf("expected marshal error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statement should run: %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"a": "b"})

	rows := sqlmock.NewRows(eventColumns).
		AddRow("1", formatTimestamp(now), models.EventSessionOpened, "s", "m1", string(js)).
		AddRow("2", formatTimestamp(now.Add(time.Hour)), models.EventNotificationRaised, "s", "m2", nil).
		AddRow("3", formatTimestamp(now.Add(2*time.Hour)), models.EventSessionClosed, "s", "m3", "{broken")

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + ` ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	if !got[0].OccurredAt.Equal(now) || got[0].OccurredAt.Location() != time.UTC {
		t.Fatalf("occurred_at: want %v UTC, got %v", now, got[0].OccurredAt)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != "{broken" {
		t.Fatalf("malformed meta should be kept raw, got %#v", got[2].Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewEventSQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := selectEventsSQL + ` WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? AND session_id = ? ORDER BY occurred_at ASC`

	rows := sqlmock.NewRows(eventColumns).
		AddRow("2", formatTimestamp(from), models.EventNotificationRaised, "s-9", "b", nil).
		AddRow("3", formatTimestamp(to), models.EventNotificationRaised, "s-9", "c", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(formatTimestamp(from), formatTimestamp(to), models.EventNotificationRaised, "s-9").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, " notification_raised ", " s-9 ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanAndParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]*sqlmock.Rows{
		"null id":        sqlmock.NewRows(eventColumns).AddRow(nil, formatTimestamp(time.Now()), "X", "s", "msg", nil),
		"bad timestamp":  sqlmock.NewRows(eventColumns).AddRow("x", "yesterday", "X", "s", "msg", nil),
		"row iter error": sqlmock.NewRows(eventColumns).AddRow("x", formatTimestamp(time.Now()), "X", "s", "msg", nil).RowError(0, errors.New("io")),
	}
	for name, rows := range cases {
		rows := rows
		t.Run(name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewEventSQLite(db)
			mock.ExpectQuery("SELECT id, occurred_at").WillReturnRows(rows)

			if _, err := repo.List(ctx(t), time.Time{}, time.Time{}, "", ""); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestList_QueryError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewEventSQLite(db)
	mock.ExpectQuery("SELECT id, occurred_at").WillReturnError(errors.New("locked"))

	_, err := repo.List(ctx(t), time.Time{}, time.Time{}, "", "")
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Fatalf("expected query error, got %v", err)
	}
}
