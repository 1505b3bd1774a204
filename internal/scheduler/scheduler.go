package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/engine"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/position"
	"TrendSentinel/internal/store"

	"github.com/robfig/cron/v3"
)

// fetchLimit is how many candles each poll requests; large enough to refill
// the engine's windows after a gap.
const fetchLimit = 200

// Scheduler manages the cron-driven poll loop feeding bars to the engine.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Engine    *engine.Engine
	Position  *position.Manager
	Notifier  *notifier.TelegramNotifier
	Store     store.Store
	Ctx       context.Context

	mu sync.Mutex // serializes engine access between cron and command handlers
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *engine.Engine,
	pos *position.Manager, tn *notifier.TelegramNotifier, st store.Store) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Engine:    eng,
		Position:  pos,
		Notifier:  tn,
		Store:     st,
		Ctx:       ctx,
	}
}

// RegisterAll registers the poll and daily summary tasks.
func (s *Scheduler) RegisterAll(pollCron, dailyCron string) error {
	if _, err := s.Cron.AddFunc(pollCron, s.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunPollNow executes the poll task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunPollNow() {
	s.pollTask()
}

// WarmUp replays cached bars through the fresh engine so its rolling state
// matches where the previous run left off. Replayed bars never alert.
func (s *Scheduler) WarmUp() error {
	bars, err := s.Store.LoadBars(s.Collector.Symbol, s.Collector.Interval, fetchLimit)
	if err != nil {
		return fmt.Errorf("load cached bars: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bars {
		res, err := s.Engine.Update(b)
		if err != nil {
			return fmt.Errorf("replay bar %s: %w", b.Time, err)
		}
		s.Position.Apply(res)
	}
	if len(bars) > 0 {
		log.Printf("[INFO] warmed up from %d cached bars (through %s)",
			len(bars), bars[len(bars)-1].Time.Format("2006-01-02 15:04"))
	}
	return nil
}

func (s *Scheduler) pollTask() {
	bars, err := s.Collector.Collect(fetchLimit)
	if err != nil {
		log.Printf("[ERROR] poll collect: %v", err)
		return
	}

	newBars := collector.NewBarsSince(bars, s.Position.LastBarTime())
	if len(newBars) == 0 {
		return
	}
	log.Printf("[INFO] %d new closed bars", len(newBars))

	if err := s.Store.SaveBars(s.Collector.Symbol, s.Collector.Interval, newBars); err != nil {
		log.Printf("[ERROR] cache bars: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range newBars {
		res, err := s.Engine.Update(b)
		if err != nil {
			if errors.Is(err, engine.ErrOutOfOrderBar) {
				log.Printf("[ERROR] feed delivered out-of-order bar, dropping rest of batch: %v", err)
				return
			}
			log.Printf("[ERROR] engine update: %v", err)
			return
		}
		if s.Position.Apply(res) {
			s.trySend(notifier.FormatSignalAlert(s.Collector.Symbol, res))
			log.Printf("[INFO] %s signal at %.4f (dir %s)", res.Signal, res.Close, res.Direction)
		}
	}
}

func (s *Scheduler) dailyTask() {
	s.mu.Lock()
	last, hasLast := s.Engine.Last()
	s.mu.Unlock()
	s.trySend(notifier.FormatDailySummary(s.Collector.Symbol, s.Position.GetState(), last, hasLast))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		s.mu.Lock()
		last, hasLast := s.Engine.Last()
		s.mu.Unlock()
		return notifier.FormatStatus(s.Collector.Symbol, s.Position.GetState(), last, hasLast)
	case "/poll":
		go s.pollTask()
		return "Polling now."
	case "/summary":
		s.mu.Lock()
		last, hasLast := s.Engine.Last()
		s.mu.Unlock()
		return notifier.FormatDailySummary(s.Collector.Symbol, s.Position.GetState(), last, hasLast)
	default:
		return "Commands:\n• /status\n• /poll\n• /summary"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
