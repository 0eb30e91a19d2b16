// Package cleanup は期限切れサーバー側セッションの定期削除ジョブを提供する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ExpiredSessionDeleter は期限切れセッションの削除を抽象化するインターフェース。
// repository.SessionRepository が満たす。
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Recorder はクリーンアップ結果の記録先。metrics.Collectorが満たす。
type Recorder interface {
	RecordSessionCleanup(deleted int64, err error)
}

// Option はCleanupJobの任意設定。
type Option func(*CleanupJob)

// WithRecorder は実行結果の記録先を設定する。
func WithRecorder(r Recorder) Option {
	return func(j *CleanupJob) { j.recorder = r }
}

// DefaultInterval はジョブの既定の実行間隔。
const DefaultInterval = time.Hour

// CleanupJob は期限切れセッションを削除するジョブ。
// 冪等であり、削除対象がなくてもエラーにならない。
type CleanupJob struct {
	store    ExpiredSessionDeleter
	logger   *slog.Logger
	recorder Recorder
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(store ExpiredSessionDeleter, logger *slog.Logger, opts ...Option) *CleanupJob {
	j := &CleanupJob{
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run は期限切れセッションを1回削除する。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.store.DeleteExpired(ctx)
	if j.recorder != nil {
		j.recorder.RecordSessionCleanup(deletedCount, err)
	}
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
	return nil
}

// Start は起動直後に1回実行し、その後intervalごとにRunを繰り返す。
// ctxがキャンセルされるまでブロックする。
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	_ = j.Run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = j.Run(ctx)
		}
	}
}
