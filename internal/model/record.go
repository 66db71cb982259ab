package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CanonicalRecord is one normalized ledger transaction: the category label
// has been canonicalized and the amount carries the sign convention
// (expenses negative, income positive).
type CanonicalRecord struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
}

// Month returns the calendar month the transaction falls in.
func (r CanonicalRecord) Month() Month { return MonthOf(r.Date) }

// CategoryType classifies a category for sign coercion.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)
