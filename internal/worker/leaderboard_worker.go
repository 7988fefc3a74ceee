package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-backend/internal/config"
	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/quizforge/quizforge-backend/internal/service"
	ws "github.com/quizforge/quizforge-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	leaderboardPollTimeout = 1 * time.Second
	leaderboardSnapshotTTL = 5 * time.Minute
)

type refreshPayload struct {
	QuizID uuid.UUID `json:"quiz_id"`
}

// LeaderboardWorker consumes refresh requests from the Redis queue,
// recomputes the affected quiz's leaderboard, stores the snapshot and
// publishes it to the quiz's monitor channel. Keeping the recompute off
// the submit path keeps submissions fast under load.
type LeaderboardWorker struct {
	results *service.ResultsService
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewLeaderboardWorker creates a new LeaderboardWorker.
func NewLeaderboardWorker(results *service.ResultsService, rdb *redis.Client, log zerolog.Logger) *LeaderboardWorker {
	return &LeaderboardWorker{
		results: results,
		rdb:     rdb,
		log:     log.With().Str("component", "leaderboard_worker").Logger(),
	}
}

// Start runs the worker loop until the context is canceled.
func (w *LeaderboardWorker) Start(ctx context.Context) {
	w.log.Info().Msg("LeaderboardWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return
		default:
			item, err := w.rdb.BLPop(ctx, leaderboardPollTimeout, config.WorkerKey.LeaderboardQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var p refreshPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			w.refresh(ctx, p.QuizID)
		}
	}
}

func (w *LeaderboardWorker) refresh(ctx context.Context, quizID uuid.UUID) {
	entries, err := w.results.Compute(ctx, quizID)
	if err != nil {
		w.log.Error().Err(err).Str("quiz_id", quizID.String()).Msg("leaderboard recompute failed")
		return
	}

	encoded, err := json.Marshal(entries)
	if err != nil {
		w.log.Error().Err(err).Msg("encode leaderboard failed")
		return
	}

	key := config.CacheKey.QuizLeaderboardKey(quizID.String())
	if err := w.rdb.Set(ctx, key, encoded, leaderboardSnapshotTTL).Err(); err != nil {
		w.log.Error().Err(err).Str("key", key).Msg("store leaderboard snapshot failed")
		return
	}

	event, err := json.Marshal(ws.LeaderboardEvent{
		Event:   ws.EventLeaderboard,
		QuizID:  quizID,
		Entries: entries,
	})
	if err != nil {
		return
	}
	channel := config.CacheKey.QuizMonitorChannel(quizID.String())
	if err := w.rdb.Publish(ctx, channel, event).Err(); err != nil {
		w.log.Warn().Err(err).Str("channel", channel).Msg("publish leaderboard event failed")
	}
}

// Queue pushes submission side effects into Redis. It satisfies the
// attempt service's Notifier interface.
type Queue struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewQueue creates a new Queue.
func NewQueue(rdb *redis.Client, log zerolog.Logger) *Queue {
	return &Queue{rdb: rdb, log: log.With().Str("component", "worker_queue").Logger()}
}

// SubmissionRecorded enqueues a leaderboard refresh and announces the
// submission on the quiz's monitor channel. Both are best-effort; the
// submission itself already landed.
func (q *Queue) SubmissionRecorded(ctx context.Context, sub *model.Submission) {
	payload, err := json.Marshal(refreshPayload{QuizID: sub.QuizID})
	if err != nil {
		return
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.LeaderboardQueue, payload).Err(); err != nil {
		q.log.Warn().Err(err).Msg("enqueue leaderboard refresh failed")
	}

	event, err := json.Marshal(ws.SubmissionEvent{
		Event:       ws.EventSubmission,
		QuizID:      sub.QuizID,
		UserID:      sub.UserID,
		Score:       sub.Score,
		Total:       sub.Total,
		SubmittedAt: sub.SubmittedAt,
	})
	if err != nil {
		return
	}
	channel := config.CacheKey.QuizMonitorChannel(sub.QuizID.String())
	if err := q.rdb.Publish(ctx, channel, event).Err(); err != nil {
		q.log.Warn().Err(err).Msg("publish submission event failed")
	}
}
