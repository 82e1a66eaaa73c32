package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"GrowthSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the historical series, milestone set, evaluation
// audit log and alert log to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the monitor writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS samples (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_id        TEXT NOT NULL,
			period_type      TEXT NOT NULL,
			period_key       TEXT NOT NULL,
			window_start     INTEGER NOT NULL,
			window_end       INTEGER NOT NULL,
			new_count        INTEGER NOT NULL,
			previous_count   INTEGER NOT NULL,
			growth_rate_pct  REAL NOT NULL,
			growth_multiplier REAL NOT NULL,
			surge            INTEGER NOT NULL,
			daily_breakdown  TEXT,
			created_at       INTEGER NOT NULL,
			UNIQUE(entity_id, period_type, period_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_entity ON samples(entity_id, period_type, period_key)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_created ON samples(created_at)`,

		`CREATE TABLE IF NOT EXISTS revenue_snapshots (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_id         TEXT NOT NULL,
			period_type       TEXT NOT NULL,
			period_key        TEXT NOT NULL,
			window_start      INTEGER NOT NULL,
			window_end        INTEGER NOT NULL,
			current_mrr       REAL NOT NULL,
			previous_mrr      REAL NOT NULL,
			growth_rate_pct   REAL NOT NULL,
			transaction_count INTEGER NOT NULL,
			customer_count    INTEGER NOT NULL,
			created_at        INTEGER NOT NULL,
			UNIQUE(entity_id, period_type, period_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_revenue_entity ON revenue_snapshots(entity_id, period_key)`,

		`CREATE TABLE IF NOT EXISTS milestones (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_id   TEXT NOT NULL,
			label       TEXT NOT NULL,
			threshold   REAL NOT NULL DEFAULT 0,
			achieved_at INTEGER NOT NULL,
			revenue     REAL NOT NULL,
			UNIQUE(entity_id, label)
		)`,

		`CREATE TABLE IF NOT EXISTS evaluations (
			id                TEXT PRIMARY KEY,
			entity_id         TEXT NOT NULL,
			evaluation_date   INTEGER NOT NULL,
			avg_growth_rate   REAL NOT NULL,
			sustained_growth  INTEGER NOT NULL,
			recommendation    TEXT NOT NULL,
			reasoning         TEXT NOT NULL,
			growth_rate_trend TEXT,
			surge_count       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_entity ON evaluations(entity_id, evaluation_date)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id              TEXT PRIMARY KEY,
			entity_id       TEXT NOT NULL,
			alert_type      TEXT NOT NULL,
			severity        TEXT NOT NULL,
			message         TEXT NOT NULL,
			trigger_value   REAL NOT NULL,
			threshold_value REAL NOT NULL,
			created_at      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_entity ON alerts(entity_id, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) AppendSample(sample *model.MetricSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var breakdown []byte
	if len(sample.DailyBreakdown) > 0 {
		b, err := json.Marshal(sample.DailyBreakdown)
		if err != nil {
			return fmt.Errorf("marshal daily breakdown: %w", err)
		}
		breakdown = b
	}

	res, err := s.db.Exec(`INSERT OR IGNORE INTO samples
		(entity_id, period_type, period_key, window_start, window_end,
		 new_count, previous_count, growth_rate_pct, growth_multiplier,
		 surge, daily_breakdown, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		sample.EntityID, string(sample.PeriodType), sample.PeriodKey,
		sample.WindowStart.Unix(), sample.WindowEnd.Unix(),
		sample.NewCount, sample.PreviousCount,
		sample.GrowthRatePct, sample.GrowthMultiplier,
		boolToInt(sample.Surge), nullableText(breakdown), sample.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDuplicatePeriod
	}
	return nil
}

func (s *SQLiteStore) LatestSamples(entityID string, pt model.PeriodType, limit int) ([]model.MetricSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT entity_id, period_type, period_key,
		window_start, window_end, new_count, previous_count,
		growth_rate_pct, growth_multiplier, surge, daily_breakdown, created_at
		FROM samples
		WHERE entity_id = ? AND period_type = ?
		ORDER BY period_key DESC LIMIT ?`,
		entityID, string(pt), limit)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []model.MetricSample
	for rows.Next() {
		var (
			sm                       model.MetricSample
			ptStr                    string
			winStart, winEnd, create int64
			surge                    int
			breakdown                sql.NullString
		)
		if err := rows.Scan(&sm.EntityID, &ptStr, &sm.PeriodKey,
			&winStart, &winEnd, &sm.NewCount, &sm.PreviousCount,
			&sm.GrowthRatePct, &sm.GrowthMultiplier, &surge, &breakdown, &create); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sm.PeriodType = model.PeriodType(ptStr)
		sm.WindowStart = time.Unix(winStart, 0)
		sm.WindowEnd = time.Unix(winEnd, 0)
		sm.Surge = surge != 0
		sm.CreatedAt = time.Unix(create, 0)
		if breakdown.Valid && breakdown.String != "" {
			if err := json.Unmarshal([]byte(breakdown.String), &sm.DailyBreakdown); err != nil {
				return nil, fmt.Errorf("unmarshal daily breakdown: %w", err)
			}
		}
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}

func (s *SQLiteStore) CountSurges(entityID string, sinceDays int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	since := time.Now().AddDate(0, 0, -sinceDays).Unix()
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM samples
		WHERE entity_id = ? AND surge = 1 AND created_at >= ?`,
		entityID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count surges: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) AppendRevenue(snap *model.RevenueSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT OR IGNORE INTO revenue_snapshots
		(entity_id, period_type, period_key, window_start, window_end,
		 current_mrr, previous_mrr, growth_rate_pct,
		 transaction_count, customer_count, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		snap.EntityID, string(snap.PeriodType), snap.PeriodKey,
		snap.WindowStart.Unix(), snap.WindowEnd.Unix(),
		snap.CurrentMRR, snap.PreviousMRR, snap.GrowthRatePct,
		snap.TransactionCount, snap.CustomerCount, snap.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert revenue snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDuplicatePeriod
	}
	return nil
}

func (s *SQLiteStore) LatestRevenue(entityID string, limit int) ([]model.RevenueSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT entity_id, period_type, period_key,
		window_start, window_end, current_mrr, previous_mrr,
		growth_rate_pct, transaction_count, customer_count, created_at
		FROM revenue_snapshots
		WHERE entity_id = ?
		ORDER BY period_key DESC LIMIT ?`, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query revenue snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []model.RevenueSnapshot
	for rows.Next() {
		var (
			snap                     model.RevenueSnapshot
			ptStr                    string
			winStart, winEnd, create int64
		)
		if err := rows.Scan(&snap.EntityID, &ptStr, &snap.PeriodKey,
			&winStart, &winEnd, &snap.CurrentMRR, &snap.PreviousMRR,
			&snap.GrowthRatePct, &snap.TransactionCount, &snap.CustomerCount, &create); err != nil {
			return nil, fmt.Errorf("scan revenue snapshot: %w", err)
		}
		snap.PeriodType = model.PeriodType(ptStr)
		snap.WindowStart = time.Unix(winStart, 0)
		snap.WindowEnd = time.Unix(winEnd, 0)
		snap.CreatedAt = time.Unix(create, 0)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *SQLiteStore) Milestones(entityID string) ([]model.MilestoneAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT label, threshold, achieved_at, revenue FROM milestones
		WHERE entity_id = ? ORDER BY achieved_at, id`, entityID)
	if err != nil {
		return nil, fmt.Errorf("query milestones: %w", err)
	}
	defer rows.Close()

	var out []model.MilestoneAchievement
	for rows.Next() {
		var (
			m  model.MilestoneAchievement
			at int64
		)
		if err := rows.Scan(&m.Label, &m.Threshold, &at, &m.Revenue); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		m.AchievedAt = time.Unix(at, 0)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddMilestones(entityID string, achieved []model.MilestoneAchievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range achieved {
		// INSERT OR IGNORE keeps achievement append-only and idempotent.
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO milestones
			(entity_id, label, threshold, achieved_at, revenue) VALUES (?,?,?,?,?)`,
			entityID, m.Label, m.Threshold, m.AchievedAt.Unix(), m.Revenue); err != nil {
			return fmt.Errorf("insert milestone %s: %w", m.Label, err)
		}
	}
	return nil
}

func (s *SQLiteStore) AppendEvaluation(ev *model.TriggerEvaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trend, err := json.Marshal(ev.GrowthRateTrend)
	if err != nil {
		return fmt.Errorf("marshal growth trend: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO evaluations
		(id, entity_id, evaluation_date, avg_growth_rate, sustained_growth,
		 recommendation, reasoning, growth_rate_trend, surge_count)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		ev.ID, ev.EntityID, ev.EvaluationDate.Unix(),
		ev.AvgMonthlyGrowthRate, boolToInt(ev.SustainedGrowth),
		string(ev.Recommendation), ev.Reasoning, string(trend), ev.SurgeCount,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LatestEvaluation(entityID string) (*model.TriggerEvaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`SELECT id, entity_id, evaluation_date, avg_growth_rate,
		sustained_growth, recommendation, reasoning, growth_rate_trend, surge_count
		FROM evaluations WHERE entity_id = ?
		ORDER BY evaluation_date DESC LIMIT 1`, entityID)

	var (
		ev        model.TriggerEvaluation
		date      int64
		sustained int
		rec       string
		trend     sql.NullString
	)
	err := row.Scan(&ev.ID, &ev.EntityID, &date, &ev.AvgMonthlyGrowthRate,
		&sustained, &rec, &ev.Reasoning, &trend, &ev.SurgeCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan evaluation: %w", err)
	}
	ev.EvaluationDate = time.Unix(date, 0)
	ev.SustainedGrowth = sustained != 0
	ev.Recommendation = model.Recommendation(rec)
	if trend.Valid && trend.String != "" {
		if err := json.Unmarshal([]byte(trend.String), &ev.GrowthRateTrend); err != nil {
			return nil, fmt.Errorf("unmarshal growth trend: %w", err)
		}
	}
	return &ev, nil
}

func (s *SQLiteStore) AppendAlert(a *model.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO alerts
		(id, entity_id, alert_type, severity, message, trigger_value, threshold_value, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		a.ID, a.EntityID, string(a.Type), string(a.Severity),
		a.Message, a.TriggerValue, a.ThresholdValue, a.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentAlerts(entityID string, limit int) ([]model.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, entity_id, alert_type, severity, message,
		trigger_value, threshold_value, created_at
		FROM alerts WHERE entity_id = ?
		ORDER BY created_at DESC LIMIT ?`, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		var (
			a              model.Alert
			alertType, sev string
			createdAt      int64
		)
		if err := rows.Scan(&a.ID, &a.EntityID, &alertType, &sev, &a.Message,
			&a.TriggerValue, &a.ThresholdValue, &createdAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Type = model.AlertType(alertType)
		a.Severity = model.Severity(sev)
		a.CreatedAt = time.Unix(createdAt, 0)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// MonthlyStats aggregates up to the last 12 monthly samples in Go; the
// series is small enough that a query-side aggregate buys nothing.
func (s *SQLiteStore) MonthlyStats(entityID string) (MonthlySummary, error) {
	samples, err := s.LatestSamples(entityID, model.PeriodMonthly, 12)
	if err != nil {
		return MonthlySummary{}, err
	}
	return summarizeMonthly(samples), nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

// summarizeMonthly computes the trailing aggregate from newest-first samples.
func summarizeMonthly(samples []model.MetricSample) MonthlySummary {
	if len(samples) == 0 {
		return MonthlySummary{}
	}
	sum := 0.0
	surges := 0
	for _, sm := range samples {
		sum += sm.GrowthRatePct
		if sm.Surge {
			surges++
		}
	}
	return MonthlySummary{
		AvgMonthlyGrowthPct: sum / float64(len(samples)),
		SurgeMonths:         surges,
		LatestNewCount:      samples[0].NewCount,
		MonthsCovered:       len(samples),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableText(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
