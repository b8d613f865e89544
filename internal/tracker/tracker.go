// Package tracker runs one chat message through the command pipeline:
// parse, read today's total, append, pick content, compose the reply.
package tracker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chris/sambo/internal/catalog"
	"github.com/chris/sambo/internal/command"
	"github.com/chris/sambo/internal/habit"
	"github.com/chris/sambo/internal/ledger"
	"github.com/chris/sambo/internal/reply"
	"go.uber.org/zap"
)

// Outcome says which path a message took.
type Outcome int

const (
	OutcomeRecorded Outcome = iota + 1
	OutcomeHelp
	OutcomeNotUnderstood
	OutcomeLedgerFailed
	OutcomeConfigError // recorded, but the catalog had nothing for the category
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecorded:
		return "recorded"
	case OutcomeHelp:
		return "help"
	case OutcomeNotUnderstood:
		return "not_understood"
	case OutcomeLedgerFailed:
		return "ledger_failed"
	case OutcomeConfigError:
		return "config_error"
	default:
		return "unknown"
	}
}

// Result is what happened to one message. Payload is always set.
type Result struct {
	Outcome    Outcome
	Command    command.Command
	Event      habit.Event
	TotalToday int
	Payload    reply.Payload
	Err        error
}

// Selector picks the content shown with a confirmation.
type Selector interface {
	Select(habit.Category) (catalog.Entry, error)
}

type Tracker struct {
	ledger   ledger.Ledger
	selector Selector
	composer reply.Composer
	loc      *time.Location
	logger   *zap.Logger

	// Now is the clock used for event timestamps and day boundaries.
	Now func() time.Time

	mu sync.Mutex
}

func New(l ledger.Ledger, sel Selector, comp reply.Composer, loc *time.Location, logger *zap.Logger) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		ledger:   l,
		selector: sel,
		composer: comp,
		loc:      loc,
		logger:   logger.Named("tracker"),
		Now:      time.Now,
	}
}

// Handle processes one message to completion. Messages are handled one at a
// time; errors never escape, they become replies.
func (t *Tracker) Handle(ctx context.Context, text string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isHelp(text) {
		return Result{Outcome: OutcomeHelp, Payload: reply.Help()}
	}

	cmd, err := command.Parse(stripSlash(text))
	if err != nil {
		t.logger.Debug("not understood", zap.String("text", text), zap.Error(err))
		return Result{Outcome: OutcomeNotUnderstood, Payload: reply.NotUnderstood(), Err: err}
	}

	now := t.Now()
	start := habit.DayStart(now, t.loc)
	today, err := t.ledger.QueryWindow(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return t.ledgerFailed(cmd, ledger.Wrap("query", err))
	}
	prior := ledger.SumCounts(today, cmd.Category)

	ev := habit.NewEvent(cmd.Category, cmd.Count, cmd.Cost, now)
	// An append that has started is not cancelled with the request.
	if err := t.ledger.Append(context.WithoutCancel(ctx), ev); err != nil {
		return t.ledgerFailed(cmd, ledger.Wrap("append", err))
	}
	total := prior + ev.Count
	t.logger.Info("recorded",
		zap.String("category", string(ev.Category)),
		zap.Int("count", ev.Count),
		zap.Int("total_today", total),
		zap.String("id", ev.ID),
	)

	res := Result{Outcome: OutcomeRecorded, Command: cmd, Event: ev, TotalToday: total}
	entry, err := t.selector.Select(cmd.Category)
	if err != nil {
		t.logger.Error("selecting content", zap.String("category", string(cmd.Category)), zap.Error(err))
		res.Outcome = OutcomeConfigError
		res.Err = err
		entry = catalog.Entry{Category: cmd.Category}
	}
	res.Payload = t.composer.Compose(cmd, entry, total)
	return res
}

func (t *Tracker) ledgerFailed(cmd command.Command, err error) Result {
	t.logger.Error("ledger failure", zap.String("command", cmd.String()), zap.Error(err))
	return Result{Outcome: OutcomeLedgerFailed, Command: cmd, Payload: reply.LedgerFailure(), Err: err}
}

func isHelp(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "/help", "/start", "help":
		return true
	}
	return false
}

// stripSlash turns the routine shortcuts /1../5 into their plain tokens.
func stripSlash(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "/") {
		return text
	}
	if c, ok := habit.ByToken(s[1:]); ok && c.Kind() == habit.KindActivity {
		return s[1:]
	}
	return text
}

