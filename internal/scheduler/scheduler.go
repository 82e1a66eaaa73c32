package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"GrowthSentinel/internal/metrics"
	"GrowthSentinel/internal/model"
	"GrowthSentinel/internal/notifier"
	"GrowthSentinel/internal/registry"
	"GrowthSentinel/internal/source"
	"GrowthSentinel/internal/store"
	"GrowthSentinel/internal/strategy"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks. Each task iterates the enabled
// entities; one entity's failure never blocks the rest of the pass.
type Scheduler struct {
	Cron         *cron.Cron
	Events       source.EventSource
	Transactions source.TransactionSource
	Registry     *registry.Manager
	Store        store.Store
	Notifier     notifier.Notifier
	Ladder       strategy.Ladder
	Thresholds   model.Thresholds
	Ctx          context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, ev source.EventSource, tx source.TransactionSource,
	reg *registry.Manager, st store.Store, n notifier.Notifier, th model.Thresholds) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Events:       ev,
		Transactions: tx,
		Registry:     reg,
		Store:        st,
		Notifier:     n,
		Ladder:       strategy.DefaultLadder,
		Thresholds:   th,
		Ctx:          ctx,
	}
}

// RegisterAll registers the weekly sampling, monthly evaluation, and
// trigger-evaluation tasks.
func (s *Scheduler) RegisterAll(weeklyCron, monthlyCron, evaluationCron string) error {
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyTask); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	if _, err := s.Cron.AddFunc(monthlyCron, s.monthlyTask); err != nil {
		return fmt.Errorf("register monthly task: %w", err)
	}
	if _, err := s.Cron.AddFunc(evaluationCron, s.evaluationTask); err != nil {
		return fmt.Errorf("register evaluation task: %w", err)
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

// RunWeeklyNow executes the weekly task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunWeeklyNow() { s.weeklyTask() }

// RunMonthlyNow executes the monthly task immediately.
func (s *Scheduler) RunMonthlyNow() { s.monthlyTask() }

// RunEvaluationNow executes the trigger-evaluation task immediately.
func (s *Scheduler) RunEvaluationNow() { s.evaluationTask() }

func (s *Scheduler) weeklyTask() {
	log.Println("[INFO] running weekly sampling task")
	s.forEachEntity("weekly", s.CheckEntityWeekly)
}

func (s *Scheduler) monthlyTask() {
	log.Println("[INFO] running monthly evaluation task")
	s.forEachEntity("monthly", s.CheckEntityMonthly)
}

func (s *Scheduler) evaluationTask() {
	log.Println("[INFO] running trigger evaluation task")
	s.forEachEntity("evaluation", s.EvaluateEntity)
}

// forEachEntity applies check to every enabled entity, isolating failures:
// a DataSourceUnavailable for one entity aborts that entity's cycle only.
func (s *Scheduler) forEachEntity(task string, check func(model.Entity) error) {
	entities := s.Registry.Enabled()
	log.Printf("[INFO] %s task: %d entities to check", task, len(entities))
	for _, e := range entities {
		if err := check(e); err != nil {
			if source.IsUnavailable(err) {
				log.Printf("[ERROR] %s task: entity %s: data source unavailable: %v", task, e.ID, err)
			} else {
				log.Printf("[ERROR] %s task: entity %s: %v", task, e.ID, err)
			}
		}
	}
}

// CheckEntityWeekly builds and records the weekly growth sample for one
// entity, alerting on a surge.
func (s *Scheduler) CheckEntityWeekly(e model.Entity) error {
	now := time.Now()
	days := model.PeriodWeekly.Days()
	fetchStart := now.AddDate(0, 0, -2*days)

	events, err := s.Events.FetchEvents(s.Ctx, e.ID, fetchStart, now)
	if err != nil {
		return fmt.Errorf("fetch events: %w", err)
	}

	sample := metrics.BuildSample(e.ID, model.PeriodWeekly, events, now, s.Thresholds.SurgeMultiplier)
	if err := s.Store.AppendSample(&sample); err != nil {
		if errors.Is(err, store.ErrDuplicatePeriod) {
			log.Printf("[INFO] entity %s: weekly sample %s already recorded", e.ID, sample.PeriodKey)
			return nil
		}
		return fmt.Errorf("append weekly sample: %w", err)
	}

	if sample.Surge {
		s.recordAlert(&model.Alert{
			ID:             uuid.NewString(),
			EntityID:       e.ID,
			Type:           model.AlertSurge,
			Severity:       model.SeverityHigh,
			Message:        fmt.Sprintf("growth multiplier %.2fx exceeded %.2fx", sample.GrowthMultiplier, s.Thresholds.SurgeMultiplier),
			TriggerValue:   sample.GrowthMultiplier,
			ThresholdValue: s.Thresholds.SurgeMultiplier,
			CreatedAt:      now,
		})
		s.trySend(notifier.FormatSurgeAlert(e, &sample))
	}

	s.Registry.MarkChecked(e.ID, now)
	return nil
}

// CheckEntityMonthly runs the full monthly pipeline for one entity:
// sample, revenue snapshot, milestone tracking, streak analysis,
// eligibility scoring, and a funding recommendation at the cutoff.
func (s *Scheduler) CheckEntityMonthly(e model.Entity) error {
	now := time.Now()
	days := model.PeriodMonthly.Days()
	fetchStart := now.AddDate(0, 0, -2*days)

	events, err := s.Events.FetchEvents(s.Ctx, e.ID, fetchStart, now)
	if err != nil {
		return fmt.Errorf("fetch events: %w", err)
	}
	sample := metrics.BuildSample(e.ID, model.PeriodMonthly, events, now, s.Thresholds.SurgeMultiplier)
	if err := s.Store.AppendSample(&sample); err != nil && !errors.Is(err, store.ErrDuplicatePeriod) {
		return fmt.Errorf("append monthly sample: %w", err)
	}

	txs, err := s.Transactions.FetchTransactions(s.Ctx, e.ID, fetchStart, now)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}
	snap := metrics.BuildRevenueSnapshot(e.ID, model.PeriodMonthly, txs, now)
	if err := s.Store.AppendRevenue(&snap); err != nil && !errors.Is(err, store.ErrDuplicatePeriod) {
		return fmt.Errorf("append revenue snapshot: %w", err)
	}

	// Milestone tracking: the tracker returns the delta, the store keeps
	// the achieved set append-only.
	achieved, err := s.Store.Milestones(e.ID)
	if err != nil {
		return fmt.Errorf("load milestones: %w", err)
	}
	achievedSet := make(map[string]bool, len(achieved))
	for _, m := range achieved {
		achievedSet[m.Label] = true
	}
	newly := s.Ladder.Check(snap.CurrentMRR, achievedSet, now)
	if len(newly) > 0 {
		if err := s.Store.AddMilestones(e.ID, newly); err != nil {
			return fmt.Errorf("record milestones: %w", err)
		}
		for _, m := range newly {
			s.recordAlert(&model.Alert{
				ID:             uuid.NewString(),
				EntityID:       e.ID,
				Type:           model.AlertMilestone,
				Severity:       model.SeverityHigh,
				Message:        fmt.Sprintf("revenue milestone %s achieved at $%.0f", m.Label, m.Revenue),
				TriggerValue:   m.Revenue,
				ThresholdValue: m.Threshold,
				CreatedAt:      now,
			})
		}
		s.trySend(notifier.FormatMilestoneAlert(e, newly))
	}

	// Streaks are recomputed from the full monthly history each cycle.
	history, err := s.Store.LatestSamples(e.ID, model.PeriodMonthly, 24)
	if err != nil {
		return fmt.Errorf("load monthly history: %w", err)
	}
	rates := make([]float64, len(history))
	for i, h := range history {
		rates[len(history)-1-i] = h.GrowthRatePct // oldest first
	}
	streaks := metrics.AnalyzeStreaks(rates, s.Thresholds.StreakMinGrowthPct)

	score := strategy.Score(strategy.ScoreInputs{
		GrowthRatePct:  snap.GrowthRatePct,
		CurrentStreak:  streaks.CurrentStreak,
		MilestoneCount: len(achieved) + len(newly),
		RiskFactors:    e.RiskFactors,
	})
	log.Printf("[INFO] entity %s: eligibility score %d (growth %.1f%%, streak %d, milestones %d)",
		e.ID, score, snap.GrowthRatePct, streaks.CurrentStreak, len(achieved)+len(newly))

	if score >= s.Thresholds.EligibilityScore {
		amount := strategy.EstimateFundingAmount(snap.GrowthRatePct/100, snap.CurrentMRR, s.Thresholds.FundingBaseAmount)
		rec := model.FundingRecommendation{
			EntityID:  e.ID,
			Score:     score,
			Amount:    amount,
			Reason:    fmt.Sprintf("eligibility score %d with %.1f%% MRR growth and %d-month streak", score, snap.GrowthRatePct, streaks.CurrentStreak),
			CreatedAt: now,
		}
		s.recordAlert(&model.Alert{
			ID:             uuid.NewString(),
			EntityID:       e.ID,
			Type:           model.AlertFundingEligible,
			Severity:       model.SeverityHigh,
			Message:        rec.Reason,
			TriggerValue:   float64(score),
			ThresholdValue: float64(s.Thresholds.EligibilityScore),
			CreatedAt:      now,
		})
		s.trySend(notifier.FormatFundingRecommendation(e, &rec))
	}

	s.Registry.MarkChecked(e.ID, now)
	return nil
}

// EvaluateEntity runs the funding-trigger evaluation over the entity's
// recent monthly history and appends the result to the audit log.
func (s *Scheduler) EvaluateEntity(e model.Entity) error {
	now := time.Now()

	samples, err := s.Store.LatestSamples(e.ID, model.PeriodMonthly, s.Thresholds.MonthsToEvaluate)
	if err != nil {
		return fmt.Errorf("load monthly samples: %w", err)
	}
	surges, err := s.Store.CountSurges(e.ID, s.Thresholds.SurgeLookbackDays)
	if err != nil {
		return fmt.Errorf("count surges: %w", err)
	}

	eval := strategy.Evaluate(strategy.EvaluationInputs{
		EntityID:   e.ID,
		Samples:    samples,
		SurgeCount: surges,
		Now:        now,
	}, s.Thresholds)

	if err := s.Store.AppendEvaluation(&eval); err != nil {
		return fmt.Errorf("append evaluation: %w", err)
	}
	log.Printf("[INFO] entity %s: recommendation=%s avg=%.1f%% surges=%d",
		e.ID, eval.Recommendation, eval.AvgMonthlyGrowthRate, eval.SurgeCount)

	if eval.SustainedGrowth {
		s.recordAlert(&model.Alert{
			ID:             uuid.NewString(),
			EntityID:       e.ID,
			Type:           model.AlertSustainedGrowth,
			Severity:       model.SeverityMedium,
			Message:        fmt.Sprintf("sustained growth: %.1f%% average over %d months", eval.AvgMonthlyGrowthRate, len(eval.GrowthRateTrend)),
			TriggerValue:   eval.AvgMonthlyGrowthRate,
			ThresholdValue: s.Thresholds.SustainedGrowthPct,
			CreatedAt:      now,
		})
	}

	if eval.Recommendation != model.RecommendNoAction {
		s.trySend(notifier.FormatEvaluationReport(e, &eval))
	}
	return nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch {
	case command == "/weekly":
		go s.weeklyTask()
		return "weekly sampling started"
	case command == "/monthly":
		go s.monthlyTask()
		return "monthly evaluation started"
	case command == "/evaluate":
		go s.evaluationTask()
		return "trigger evaluation started"
	case command == "/status":
		return s.statusReport()
	case strings.HasPrefix(command, "/status "):
		return s.entityStatus(strings.TrimSpace(strings.TrimPrefix(command, "/status ")))
	case strings.HasPrefix(command, "/enable "):
		return s.setMonitoring(strings.TrimSpace(strings.TrimPrefix(command, "/enable ")), true)
	case strings.HasPrefix(command, "/disable "):
		return s.setMonitoring(strings.TrimSpace(strings.TrimPrefix(command, "/disable ")), false)
	default:
		return "commands:\n• /weekly — run weekly sampling now\n• /monthly — run monthly evaluation now\n• /evaluate — run trigger evaluation now\n• /status [entity] — show status\n• /enable <entity> | /disable <entity> — toggle monitoring"
	}
}

func (s *Scheduler) statusReport() string {
	entities := s.Registry.All()
	if len(entities) == 0 {
		return "no entities registered"
	}
	var b strings.Builder
	for _, e := range entities {
		b.WriteString(s.entityStatus(e.ID))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Scheduler) entityStatus(id string) string {
	e, err := s.Registry.Get(id)
	if err != nil {
		return err.Error()
	}
	stats, err := s.Store.MonthlyStats(e.ID)
	if err != nil {
		return fmt.Sprintf("entity %s: stats unavailable: %v", e.ID, err)
	}
	history, err := s.Store.LatestSamples(e.ID, model.PeriodMonthly, 24)
	if err != nil {
		return fmt.Sprintf("entity %s: history unavailable: %v", e.ID, err)
	}
	rates := make([]float64, len(history))
	for i, h := range history {
		rates[len(history)-1-i] = h.GrowthRatePct
	}
	streaks := metrics.AnalyzeStreaks(rates, s.Thresholds.StreakMinGrowthPct)
	milestones, err := s.Store.Milestones(e.ID)
	if err != nil {
		return fmt.Sprintf("entity %s: milestones unavailable: %v", e.ID, err)
	}
	status := notifier.FormatEntityStatus(e, stats, streaks, milestones)
	if eval, err := s.Store.LatestEvaluation(e.ID); err == nil && eval != nil {
		status += fmt.Sprintf("Last evaluation: %s (%s)\n", eval.Recommendation, eval.EvaluationDate.Format("2006-01-02"))
	}
	return status
}

func (s *Scheduler) setMonitoring(id string, enabled bool) string {
	if err := s.Registry.SetMonitoring(id, enabled); err != nil {
		return err.Error()
	}
	if enabled {
		return fmt.Sprintf("monitoring enabled for %s", id)
	}
	return fmt.Sprintf("monitoring disabled for %s", id)
}

func (s *Scheduler) recordAlert(a *model.Alert) {
	if err := s.Store.AppendAlert(a); err != nil {
		log.Printf("[ERROR] record alert: %v", err)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
