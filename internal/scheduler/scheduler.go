package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chris/sambo/internal/feedback"
	"github.com/chris/sambo/internal/weekly"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultCron fires on Sunday at 20:00.
const DefaultCron = "0 20 * * 0"

const ledgerUnavailableText = "⚠️ Weekly summary skipped: could not read the ledger. Your entries are safe, the next summary will include them."

// ErrNoDelivery is returned when neither the chat nor the webhook took the message.
var ErrNoDelivery = errors.New("no delivery method available")

// Notifier sends a message to the owner's chat.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// ReportStore keeps past summaries so the next one can refer back.
type ReportStore interface {
	SaveReport(ctx context.Context, summary, source string) error
	LastReport(ctx context.Context) (summary, createdAt string, err error)
}

type Config struct {
	Cron       string
	Location   *time.Location
	WebhookURL string
}

// Report describes one weekly run.
type Report struct {
	Summary     feedback.Summary
	DeliveredTo string // "chat", "webhook" or empty
}

type Scheduler struct {
	cron       *cron.Cron
	aggregator *weekly.Aggregator
	feedback   *feedback.Generator
	notifier   Notifier
	reports    ReportStore
	webhookURL string
	logger     *zap.Logger

	HTTPClient *http.Client
	Now        func() time.Time
}

// New registers the weekly job. notifier, reports and logger may be nil.
func New(cfg Config, agg *weekly.Aggregator, gen *feedback.Generator, notifier Notifier, reports ReportStore, logger *zap.Logger) (*Scheduler, error) {
	if cfg.Cron == "" {
		cfg.Cron = DefaultCron
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		aggregator: agg,
		feedback:   gen,
		notifier:   notifier,
		reports:    reports,
		webhookURL: cfg.WebhookURL,
		logger:     logger.Named("scheduler"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Now:        time.Now,
	}
	if _, err := s.cron.AddFunc(cfg.Cron, s.fire); err != nil {
		return nil, fmt.Errorf("invalid weekly cron %q: %w", cfg.Cron, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("started", zap.Time("next_run", e.Next))
	}
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("stopped")
}

// Run starts the schedule and stops it when ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Scheduler) fire() {
	r, err := s.RunWeekly(context.Background())
	if err != nil {
		s.logger.Error("weekly run not delivered", zap.Error(err))
		return
	}
	s.logger.Info("weekly run completed",
		zap.String("source", string(r.Summary.Source)),
		zap.String("delivered_to", r.DeliveredTo))
}

// RunWeekly builds the weekly summary and delivers it.
func (s *Scheduler) RunWeekly(ctx context.Context) (Report, error) {
	summary := s.Compose(ctx)
	to, err := s.Deliver(ctx, summary.Text)
	return Report{Summary: summary, DeliveredTo: to}, err
}

// Compose aggregates the week and writes the summary. It always returns
// text: a notice when the ledger cannot be read, the local fallback when
// the summarizer fails.
func (s *Scheduler) Compose(ctx context.Context) feedback.Summary {
	agg, err := s.aggregator.Run(ctx, s.Now())
	if err != nil {
		s.logger.Error("aggregating week", zap.Error(err))
		return feedback.Summary{Text: ledgerUnavailableText, Source: feedback.SourceFallback, Err: err}
	}

	previous := s.previousSummary(ctx)
	summary := s.feedback.Weekly(ctx, agg, previous)
	if summary.Err != nil {
		s.logger.Warn("summarizer failed, using fallback", zap.Error(summary.Err))
	}

	if s.reports != nil {
		if err := s.reports.SaveReport(ctx, summary.Text, string(summary.Source)); err != nil {
			s.logger.Warn("storing weekly report", zap.Error(err))
		}
	}
	return summary
}

func (s *Scheduler) previousSummary(ctx context.Context) string {
	if s.reports == nil {
		return ""
	}
	text, createdAt, err := s.reports.LastReport(ctx)
	if err != nil {
		s.logger.Warn("loading last report", zap.Error(err))
		return ""
	}
	if text == "" {
		return ""
	}
	return fmt.Sprintf("(%s) %s", createdAt, text)
}

// Deliver tries the owner's chat first, then the webhook.
func (s *Scheduler) Deliver(ctx context.Context, text string) (string, error) {
	var errs []error
	if s.notifier != nil {
		err := s.notifier.Notify(ctx, text)
		if err == nil {
			return "chat", nil
		}
		s.logger.Warn("chat delivery failed", zap.Error(err))
		errs = append(errs, err)
	}
	if s.webhookURL != "" {
		err := postWebhook(ctx, s.HTTPClient, s.webhookURL, text)
		if err == nil {
			return "webhook", nil
		}
		s.logger.Error("webhook failed", zap.Error(err))
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrNoDelivery
	}
	return "", errors.Join(append(errs, ErrNoDelivery)...)
}

// PostWebhook sends text to a Discord-compatible webhook.
func PostWebhook(ctx context.Context, url, text string) error {
	return postWebhook(ctx, http.DefaultClient, url, text)
}

func postWebhook(ctx context.Context, client *http.Client, url, content string) error {
	payload := map[string]string{"content": content}
	body, _ := json.Marshal(payload) // a string map always marshals
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
