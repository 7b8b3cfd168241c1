package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/config"
	"github.com/Jimfarnum/spiralshops-sub003/internal/metrics"
)

// reportType tags every notification sent to the coordination endpoint
const reportType = "campaign_activity"

// notification is the JSON body posted to the coordination endpoint
type notification struct {
	SourceAgent string                 `json:"sourceAgent"`
	Action      string                 `json:"action"`
	Data        map[string]interface{} `json:"data"`
	Timestamp   time.Time              `json:"timestamp"`
	ReportType  string                 `json:"reportType"`
}

// Reporter delivers best-effort lifecycle notifications to the coordination
// endpoint. Reports are enqueued without blocking and sent by a background
// worker under a bounded per-request timeout; every failure is logged and
// discarded, never surfaced to the caller.
type Reporter struct {
	endpoint string
	source   string
	timeout  time.Duration
	client   *http.Client
	queue    chan notification
	log      *zap.Logger
}

// New creates a reporter from configuration. An empty endpoint disables
// delivery; reports are then dropped silently.
func New(cfg *config.Reporter, log *zap.Logger) *Reporter {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond

	return &Reporter{
		endpoint: cfg.Endpoint,
		source:   cfg.SourceAgent,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		queue:    make(chan notification, cfg.QueueSize),
		log:      log,
	}
}

// Report enqueues a lifecycle notification. It returns immediately; a full
// queue drops the report rather than blocking the critical path.
func (r *Reporter) Report(action string, data map[string]interface{}) {
	n := notification{
		SourceAgent: r.source,
		Action:      action,
		Data:        data,
		Timestamp:   time.Now().UTC(),
		ReportType:  reportType,
	}

	select {
	case r.queue <- n:
	default:
		r.log.Warn("Report queue full, dropping notification",
			zap.String("action", action))
		metrics.ReportFailures.WithLabelValues("queue_full").Inc()
	}
}

// Start consumes the queue until ctx is cancelled, then drains whatever is
// still buffered. Run it in its own goroutine.
func (r *Reporter) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.log.Info("Reporter shutting down",
				zap.Int("pending", len(r.queue)))
			r.drain()
			return

		case n := <-r.queue:
			r.send(ctx, n)
		}
	}
}

// drain sends buffered notifications with a fresh deadline after shutdown
func (r *Reporter) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	for {
		select {
		case n := <-r.queue:
			r.send(ctx, n)
		default:
			return
		}
	}
}

// send performs one delivery. All outcomes short of a 2xx are logged and
// counted, nothing more.
func (r *Reporter) send(ctx context.Context, n notification) {
	if r.endpoint == "" {
		return
	}

	body, err := json.Marshal(n)
	if err != nil {
		r.log.Error("Failed to marshal notification",
			zap.String("action", n.Action),
			zap.Error(err))
		metrics.ReportFailures.WithLabelValues("send_error").Inc()
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		r.log.Error("Failed to build notification request",
			zap.String("action", n.Action),
			zap.Error(err))
		metrics.ReportFailures.WithLabelValues("send_error").Inc()
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Warn("Coordination report failed",
			zap.String("action", n.Action),
			zap.Error(err))
		metrics.ReportFailures.WithLabelValues("send_error").Inc()
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.log.Warn("Coordination endpoint rejected report",
			zap.String("action", n.Action),
			zap.Int("status", resp.StatusCode))
		metrics.ReportFailures.WithLabelValues("bad_status").Inc()
		return
	}

	r.log.Info("Coordination report delivered",
		zap.String("action", n.Action))
}
