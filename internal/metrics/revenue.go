package metrics

import (
	"time"

	"GrowthSentinel/internal/model"
)

// BuildRevenueSnapshot derives money metrics from raw transactions for the
// period ending at now. Only successful transactions count. Amounts are
// grouped per customer before summing so the figure reflects distinct
// paying entities; a transaction without a customer key is grouped under
// its own ID. The final sum equals summing all successful amounts directly,
// but the grouping is kept for per-customer breakdowns later.
func BuildRevenueSnapshot(entityID string, pt model.PeriodType, txs []model.Transaction, now time.Time) model.RevenueSnapshot {
	days := pt.Days()
	curStart, curEnd := WindowBounds(now, days)
	prevStart := now.AddDate(0, 0, -2*days)

	var current, previous []model.Transaction
	for _, tx := range txs {
		ts := tx.Timestamp
		switch {
		case !ts.Before(curStart) && ts.Before(curEnd):
			current = append(current, tx)
		case !ts.Before(prevStart) && ts.Before(curStart):
			previous = append(previous, tx)
		}
	}

	currentMRR, txCount, customerCount := sumMRR(current)
	previousMRR, _, _ := sumMRR(previous)

	ratePct := 0.0
	if previousMRR > 0 {
		ratePct = (currentMRR - previousMRR) / previousMRR * 100
	}

	return model.RevenueSnapshot{
		EntityID:         entityID,
		PeriodType:       pt,
		PeriodKey:        PeriodKey(now, pt),
		WindowStart:      curStart,
		WindowEnd:        curEnd,
		CurrentMRR:       currentMRR,
		PreviousMRR:      previousMRR,
		GrowthRatePct:    ratePct,
		TransactionCount: txCount,
		CustomerCount:    customerCount,
		CreatedAt:        now,
	}
}

// sumMRR groups successful transactions by customer and sums amounts,
// converting minor units to currency units.
func sumMRR(txs []model.Transaction) (mrr float64, txCount, customerCount int) {
	perCustomer := make(map[string]int64)
	for _, tx := range txs {
		if tx.Status != model.TxSucceeded {
			continue
		}
		key := tx.CustomerKey
		if key == "" {
			key = "anon_" + tx.ID
		}
		perCustomer[key] += tx.Amount
		txCount++
	}
	var totalCents int64
	for _, cents := range perCustomer {
		totalCents += cents
	}
	return float64(totalCents) / 100, txCount, len(perCustomer)
}
