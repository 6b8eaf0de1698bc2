package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"sentinel-hq/ceres/pkg/compliance/engine"
	"sentinel-hq/ceres/pkg/compliance/risk"
	"sentinel-hq/ceres/pkg/compliance/rules"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// Enabled enables audit recording. When false, Record is a no-op.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for enqueueing and for writing a record
	// to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// Logger receives recorder diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Metrics receives recorder outcome counts. Implementations must be safe for
// concurrent use. A nil Metrics disables instrumentation.
type Metrics interface {
	// AuditRecorded is called after a record is durably stored.
	AuditRecorded()

	// AuditDropped is called when a record is lost to a full buffer,
	// shutdown, or a storage failure.
	AuditDropped()
}

// Entry is the evaluation outcome handed to the recorder. The recorder hashes
// Text and never stores it.
type Entry struct {
	// Text is the analyzed input.
	Text string

	// Frameworks lists the frameworks that were checked.
	Frameworks []rules.Framework

	// Result is the compliance outcome. Required.
	Result *engine.Result

	// Assessment is the risk assessment, nil when scoring was skipped.
	Assessment *risk.Assessment

	// RedactionCount is the number of substitutions applied.
	RedactionCount int
}

// Recorder persists audit records asynchronously so evaluation never blocks
// on storage writes.
type Recorder struct {
	storage    Storage
	config     *Config
	metrics    Metrics
	recordChan chan *Record
	done       chan struct{}
	wg         sync.WaitGroup
	logger     *slog.Logger

	// mu excludes Close from in-flight enqueues: once closed flips, no new
	// record can enter the channel, so the worker's final drain is complete.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewRecorder creates a recorder backed by the given storage and starts its
// write worker.
func NewRecorder(storage Storage, config *Config, metrics Metrics) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		metrics:    metrics,
		recordChan: make(chan *Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     logger.With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"enabled", config.Enabled,
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record builds an audit record from the entry and enqueues it for async
// writing. It returns the record ID, or an empty string when recording is
// disabled.
//
// This method returns quickly and does not block on storage writes.
func (r *Recorder) Record(ctx context.Context, entry Entry) (string, error) {
	if !r.config.Enabled {
		return "", nil
	}

	record := newRecord(entry)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.dropped()
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
		)
		return "", ErrRecorderClosed
	}

	select {
	case r.recordChan <- record:
		r.logger.Debug("audit record enqueued",
			"record_id", record.ID,
			"compliant", record.Compliant,
			"violation_count", record.ViolationCount,
		)
		return record.ID, nil

	case <-ctx.Done():
		r.dropped()
		return "", ctx.Err()

	case <-time.After(r.config.WriteTimeout):
		r.dropped()
		r.logger.Error("audit channel full, dropping record",
			"record_id", record.ID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return "", context.DeadlineExceeded
	}
}

// Close gracefully shuts down the recorder by draining the async channel and
// waiting for all pending writes to complete. The underlying storage is not
// closed.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down audit recorder")
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.done)
		r.wg.Wait()
		r.logger.Info("audit recorder shut down complete")
	})
	return nil
}

// worker drains the record channel and writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records before exit.
			pending := len(r.recordChan)
			if pending > 0 {
				r.logger.Info("draining audit channel before shutdown",
					"pending_count", pending,
				)
			}
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Save(ctx, record); err != nil {
		r.dropped()
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"error", err,
		)
		return
	}

	if r.metrics != nil {
		r.metrics.AuditRecorded()
	}

	duration := time.Since(start)
	r.logger.Debug("audit record stored",
		"record_id", record.ID,
		"duration_ms", duration.Milliseconds(),
	)
	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow audit write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// dropped counts a lost record when metrics are wired.
func (r *Recorder) dropped() {
	if r.metrics != nil {
		r.metrics.AuditDropped()
	}
}

// newRecord converts an entry into a storable record.
func newRecord(entry Entry) *Record {
	record := &Record{
		ID:             uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
		TextSHA256:     hashText(entry.Text),
		TextLength:     len(entry.Text),
		Frameworks:     append([]rules.Framework(nil), entry.Frameworks...),
		RedactionCount: entry.RedactionCount,
	}

	if entry.Result != nil {
		record.Compliant = entry.Result.Compliant
		record.ViolationCount = len(entry.Result.Violations)
		if max, ok := entry.Result.MaxSeverity(); ok {
			record.MaxSeverity = max
		}
	}
	if entry.Assessment != nil {
		record.OverallScore = entry.Assessment.OverallScore
		record.OverallLevel = entry.Assessment.OverallLevel
	}

	return record
}

// hashText returns the hex SHA-256 of text.
func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
