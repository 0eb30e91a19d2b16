package cleanup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type mockDeleter struct {
	calls   atomic.Int32
	deleted int64
	err     error
}

func (m *mockDeleter) DeleteExpired(ctx context.Context) (int64, error) {
	m.calls.Add(1)
	return m.deleted, m.err
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func TestNewCleanupJob_ReturnsNonNil(t *testing.T) {
	var buf bytes.Buffer
	if job := NewCleanupJob(&mockDeleter{}, newTestLogger(&buf)); job == nil {
		t.Fatal("NewCleanupJob は nil を返してはならない")
	}
}

func TestCleanupJob_Run_CallsDeleteExpired(t *testing.T) {
	var buf bytes.Buffer
	mock := &mockDeleter{deleted: 5}
	job := NewCleanupJob(mock, newTestLogger(&buf))

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() がエラーを返した: %v", err)
	}
	if mock.calls.Load() != 1 {
		t.Errorf("DeleteExpired calls = %d, want 1", mock.calls.Load())
	}
}

func TestCleanupJob_Run_LogsDeletedCount(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockDeleter{deleted: 42}, newTestLogger(&buf))

	_ = job.Run(context.Background())

	found := false
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry["deleted_count"] == float64(42) {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("ログに deleted_count=42 が記録されていない。ログ出力: %s", buf.String())
	}
}

func TestCleanupJob_Run_ReturnsErrorOnFailure(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockDeleter{err: errors.New("db down")}, newTestLogger(&buf))

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("Run() はエラーを返すべき")
	}
	if !strings.Contains(buf.String(), "db down") {
		t.Errorf("エラーがログに記録されていない: %s", buf.String())
	}
}

type recorderMock struct {
	deleted []int64
	errs    []error
}

func (r *recorderMock) RecordSessionCleanup(deleted int64, err error) {
	r.deleted = append(r.deleted, deleted)
	r.errs = append(r.errs, err)
}

func TestCleanupJob_Run_Records(t *testing.T) {
	tests := []struct {
		name    string
		deleter *mockDeleter
		wantErr bool
	}{
		{"success", &mockDeleter{deleted: 7}, false},
		{"failure", &mockDeleter{err: errors.New("db down")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rec := &recorderMock{}
			job := NewCleanupJob(tt.deleter, newTestLogger(&buf), WithRecorder(rec))

			_ = job.Run(context.Background())

			if len(rec.deleted) != 1 {
				t.Fatalf("recorder calls = %d, want 1", len(rec.deleted))
			}
			if rec.deleted[0] != tt.deleter.deleted {
				t.Errorf("deleted = %d, want %d", rec.deleted[0], tt.deleter.deleted)
			}
			if (rec.errs[0] != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", rec.errs[0], tt.wantErr)
			}
		})
	}
}

func TestCleanupJob_Start_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	mock := &mockDeleter{}
	job := NewCleanupJob(mock, newTestLogger(&buf))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx, time.Hour)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for mock.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("Start did not run the job immediately")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
