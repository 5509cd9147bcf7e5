package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/abhi24703/dynamicpricing/internal/model"
	"github.com/abhi24703/dynamicpricing/internal/pricing"
	"github.com/abhi24703/dynamicpricing/internal/recorder"
)

// ContextProvider supplies the pricing context for a scheduled run.
type ContextProvider interface {
	Today(now time.Time) (model.PricingContext, error)
}

// ClockProvider builds today's context from the wall clock plus operator
// inputs. Weekend is derived from the calendar here because the daemon is the
// caller, and the caller owns weekend/day consistency.
type ClockProvider struct {
	OccupancyRate   float64
	CompetitorPrice float64
	Holidays        map[string]bool // "2006-01-02" dates
}

func (p *ClockProvider) Today(now time.Time) (model.PricingContext, error) {
	if p.CompetitorPrice <= 0 {
		return model.PricingContext{}, fmt.Errorf("scheduler needs a positive competitor price, got %g", p.CompetitorPrice)
	}
	wd := now.Weekday()
	return model.PricingContext{
		DayOfWeek:       wd.String(),
		IsWeekend:       wd == time.Saturday || wd == time.Sunday,
		IsHoliday:       p.Holidays[now.Format("2006-01-02")],
		OccupancyRate:   p.OccupancyRate,
		CompetitorPrice: p.CompetitorPrice,
	}, nil
}

// Scheduler reprices the property on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pricing.Pipeline
	Provider ContextProvider
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pricing.Pipeline, provider ContextProvider, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Provider: provider,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// Register registers the daily repricing task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyReprice); err != nil {
		return fmt.Errorf("register daily reprice: %w", err)
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

// RunNow executes the daily repricing immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyReprice()
}

func (s *Scheduler) dailyReprice() {
	log.Println("[INFO] running daily reprice")

	ctx, err := s.Provider.Today(time.Now())
	if err != nil {
		log.Printf("[ERROR] daily reprice context: %v", err)
		return
	}

	quote, err := s.Pipeline.PredictPrice(ctx)
	if err != nil {
		log.Printf("[ERROR] daily reprice predict: %v", err)
		return
	}

	log.Printf("[INFO] today's price: %.2f (base %.2f)", quote.FinalPrice, quote.BasePrice)
	fmt.Print(pricing.FormatQuote(quote))

	if err := s.Recorder.RecordQuote(quote); err != nil {
		log.Printf("[ERROR] record quote: %v", err)
	}
}
