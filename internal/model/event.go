package model

import "time"

// Event is a raw dated record from an external event source
// (a signup, an account creation). GroupKey is optional.
type Event struct {
	Timestamp time.Time
	GroupKey  string
}

// TxSucceeded is the only transaction status that counts toward MRR.
const TxSucceeded = "succeeded"

// Transaction is a raw payment record from an external billing source.
// Amount is in minor units (cents). CustomerKey may be empty; MRR grouping
// then falls back to the transaction's own ID.
type Transaction struct {
	ID          string
	Amount      int64
	Status      string
	CustomerKey string
	Timestamp   time.Time
}
