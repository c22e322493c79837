package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/vodforge/internal/domain"
	"github.com/bnema/vodforge/internal/infrastructure/logger"
	"github.com/bnema/vodforge/internal/port"
)

type encodeJob struct {
	id         string
	sourcePath string
}

// EncodeQueue accepts encode submissions and drains them FIFO with a
// fixed-size worker pool. Production size is 1: sequential encoding is the
// backpressure bound on concurrent ffmpeg load, and raising it is a config
// change, not a rewrite.
type EncodeQueue struct {
	store      port.StatusStore
	prober     port.VideoProber
	transcoder port.Transcoder
	events     *EventBus
	outputRoot string
	timeout    time.Duration
	workers    int

	mu   sync.Mutex
	jobs []encodeJob
	wake chan struct{}
}

func NewEncodeQueue(
	store port.StatusStore,
	prober port.VideoProber,
	transcoder port.Transcoder,
	events *EventBus,
	outputRoot string,
	timeout time.Duration,
	workers int,
) *EncodeQueue {
	if workers < 1 {
		workers = 1
	}
	return &EncodeQueue{
		store:      store,
		prober:     prober,
		transcoder: transcoder,
		events:     events,
		outputRoot: outputRoot,
		timeout:    timeout,
		workers:    workers,
		wake:       make(chan struct{}, 1),
	}
}

func (q *EncodeQueue) Start(ctx context.Context) {
	for i := range q.workers {
		go q.runWorker(ctx, i)
	}
	logger.Info.Printf("started %d encode workers", q.workers)
}

// Submit registers sourcePath for encoding and returns the job id without
// waiting for any encoding work. The pending status record is durable by
// the time Submit returns. Submitting a colliding id resets its record
// (last write wins).
func (q *EncodeQueue) Submit(sourcePath string) (string, error) {
	id := domain.VideoID(sourcePath)
	if id == "" {
		return "", fmt.Errorf("cannot derive job id from %q", sourcePath)
	}

	if err := q.store.Insert(domain.NewVideoStatus(id)); err != nil {
		return "", fmt.Errorf("insert status record: %w", err)
	}

	q.mu.Lock()
	q.jobs = append(q.jobs, encodeJob{id: id, sourcePath: sourcePath})
	q.mu.Unlock()

	q.publish(id, domain.StatusPending, "")

	select {
	case q.wake <- struct{}{}:
	default:
	}

	return id, nil
}

// GetStatus reads the durable record; it never touches the in-memory queue.
func (q *EncodeQueue) GetStatus(id string) (*domain.VideoStatus, error) {
	return q.store.FindByName(id)
}

func (q *EncodeQueue) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			logger.Info.Printf("encode worker %d shutting down", id)
			return
		default:
		}

		job, ok := q.pop()
		if !ok {
			select {
			case <-ctx.Done():
				logger.Info.Printf("encode worker %d shutting down", id)
				return
			case <-q.wake:
			}
			continue
		}

		q.process(ctx, job)
	}
}

// pop claims the front job. A claimed job is never requeued: one attempt
// per job, failed or not.
func (q *EncodeQueue) pop() (encodeJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return encodeJob{}, false
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

func (q *EncodeQueue) process(ctx context.Context, job encodeJob) {
	logger.Info.Printf("encoding %s (source=%s)", job.id, logger.SanitizeForLog(job.sourcePath))
	q.setStatus(job.id, domain.StatusProcessing, "")

	if err := q.encode(ctx, job); err != nil {
		// Source file is kept for inspection; the failure is only ever
		// observable through the status record.
		logger.Error.Printf("encode %s failed: %v", job.id, err)
		q.setStatus(job.id, domain.StatusFailed, err.Error())
		return
	}

	if err := os.Remove(job.sourcePath); err != nil {
		logger.Warn.Printf("remove source %s: %v", logger.SanitizeForLog(job.sourcePath), err)
	}
	q.setStatus(job.id, domain.StatusSuccess, "")
	logger.Info.Printf("encoded %s", job.id)
}

func (q *EncodeQueue) encode(ctx context.Context, job encodeJob) error {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	probe, err := q.prober.Probe(ctx, job.sourcePath)
	if err != nil {
		return err
	}

	plan := domain.PlanRenditions(probe.Resolution(), probe.BitrateBps, probe.HasAudio)

	outputDir := filepath.Join(q.outputRoot, job.id)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	return q.transcoder.Encode(ctx, job.sourcePath, plan, outputDir)
}

// setStatus persists a transition and notifies subscribers. A failed
// status write is logged but never aborts the pipeline: losing a status
// update is preferable to losing a queued job.
func (q *EncodeQueue) setStatus(id string, status domain.EncodingStatus, errMsg string) {
	if err := q.store.UpdateStatus(id, status, errMsg); err != nil {
		logger.Error.Printf("update status %s -> %s: %v", id, status, err)
	}
	q.publish(id, status, errMsg)
}

func (q *EncodeQueue) publish(id string, status domain.EncodingStatus, msg string) {
	if q.events != nil {
		q.events.Publish(id, Event{Type: "status", Status: string(status), Message: msg})
	}
}
