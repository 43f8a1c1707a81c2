// Package transaction defines the core transaction record, its validation
// rules, and the owned in-memory collection with a pluggable persistence port.
package transaction

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type enumerates the two transaction kinds. The sign of Amount carries no
// meaning; Type alone decides income vs expense.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// DateLayout is the only accepted calendar date form.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Transaction is a single income or expense record.
type Transaction struct {
	ID       string  `json:"id" csv:"id"`
	Date     string  `json:"date" csv:"date"`
	Type     Type    `json:"type" csv:"type"`
	Category string  `json:"category" csv:"category"`
	Amount   float64 `json:"amount" csv:"amount"`
	Note     string  `json:"note,omitempty" csv:"note"`
}

// NewID returns a fresh globally unique transaction identifier.
func NewID() string {
	return uuid.NewString()
}

// Validate checks the record invariants. It returns nil for a well-formed
// transaction and a descriptive error otherwise.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(string(t.Type)) == "" {
		return fmt.Errorf("missing type")
	}
	typ := Type(strings.ToLower(string(t.Type)))
	if typ != TypeIncome && typ != TypeExpense {
		return fmt.Errorf("invalid type %q: must be income or expense", t.Type)
	}
	if strings.TrimSpace(t.Date) == "" {
		return fmt.Errorf("missing date")
	}
	if !datePattern.MatchString(t.Date) {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", t.Date)
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", t.Date)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("missing category")
	}
	return nil
}

// Normalize lower-cases the type and assigns a fresh id when none is set.
// Call it only on records that passed Validate.
func (t *Transaction) Normalize() {
	t.Type = Type(strings.ToLower(string(t.Type)))
	if strings.TrimSpace(t.ID) == "" {
		t.ID = NewID()
	}
}

// ParsedDate returns the record date as a time.Time at midnight UTC.
func (t *Transaction) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, t.Date)
}

// MonthKey returns the YYYY-MM prefix of the record date, used for calendar
// month grouping.
func (t *Transaction) MonthKey() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

// ContentKey builds the semantic identity tuple (date, category, amount,
// note-or-empty). Two records with equal content keys are considered the same
// transaction even when their ids differ, e.g. after an export/import round
// trip reassigned ids.
func (t *Transaction) ContentKey() string {
	amount := decimal.NewFromFloat(t.Amount).String()
	return t.Date + "|" + t.Category + "|" + amount + "|" + t.Note
}

// ParseAmount parses a textual amount into a float64, rejecting NaN and
// infinities. decimal.NewFromString accepts only finite decimal notation,
// which covers both checks at once.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return d.InexactFloat64(), nil
}
