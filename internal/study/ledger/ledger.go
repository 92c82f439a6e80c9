package ledger

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrInvalidCurrency indicates an entry for an unknown currency.
	ErrInvalidCurrency = errors.New("currency is invalid")
	// ErrInvalidAmount indicates a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds indicates a spend larger than the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Reason classifies why an entry was written.
type Reason string

const (
	ReasonLoot       Reason = "loot"
	ReasonGuaranteed Reason = "guaranteed"
	ReasonCraft      Reason = "craft"
	ReasonEffect     Reason = "effect"
	ReasonManual     Reason = "manual"
)

// Entry is one immutable ledger line. Spends carry a negative Amount.
type Entry struct {
	Seq      int       `json:"seq"`
	At       time.Time `json:"at"`
	Currency Currency  `json:"currency"`
	Amount   int       `json:"amount"`
	Reason   Reason    `json:"reason"`
}

// Ledger is the append-only transaction log.
type Ledger struct {
	Entries []Entry `json:"entries"`
}

// Clone returns a ledger whose entry slice does not alias l.
func (l Ledger) Clone() Ledger {
	return Ledger{Entries: append([]Entry(nil), l.Entries...)}
}

// Balance sums every entry for the currency.
func (l Ledger) Balance(currency Currency) int {
	total := 0
	for _, entry := range l.Entries {
		if entry.Currency == currency {
			total += entry.Amount
		}
	}
	return total
}

// Earn returns a ledger with a credit appended.
func (l Ledger) Earn(currency Currency, amount int, reason Reason, at time.Time) (Ledger, error) {
	if !currency.IsValid() {
		return l, ErrInvalidCurrency
	}
	if amount <= 0 {
		return l, ErrInvalidAmount
	}
	return l.appendEntry(currency, amount, reason, at), nil
}

// Spend returns a ledger with a debit appended, or ErrInsufficientFunds
// when the balance cannot cover it.
func (l Ledger) Spend(currency Currency, amount int, reason Reason, at time.Time) (Ledger, error) {
	if !currency.IsValid() {
		return l, ErrInvalidCurrency
	}
	if amount <= 0 {
		return l, ErrInvalidAmount
	}
	if l.Balance(currency) < amount {
		return l, ErrInsufficientFunds
	}
	return l.appendEntry(currency, -amount, reason, at), nil
}

func (l Ledger) appendEntry(currency Currency, amount int, reason Reason, at time.Time) Ledger {
	next := l.Clone()
	next.Entries = append(next.Entries, Entry{
		Seq:      len(l.Entries) + 1,
		At:       at.UTC(),
		Currency: currency,
		Amount:   amount,
		Reason:   reason,
	})
	return next
}

// DayKey is the UTC calendar day used by daily rollups.
func DayKey(at time.Time) string {
	return at.UTC().Format(time.DateOnly)
}

// DailyTotal is the net movement of one currency on one day.
type DailyTotal struct {
	Day      string
	Currency Currency
	Earned   int
	Spent    int
}

// Net returns earned minus spent.
func (d DailyTotal) Net() int {
	return d.Earned - d.Spent
}

// DailyTotals rolls the log up per day and currency, ordered by day then
// currency display order.
func (l Ledger) DailyTotals() []DailyTotal {
	type key struct {
		day      string
		currency Currency
	}
	totals := make(map[key]*DailyTotal)
	var days []string
	seenDay := make(map[string]bool)
	for _, entry := range l.Entries {
		day := DayKey(entry.At)
		if !seenDay[day] {
			seenDay[day] = true
			days = append(days, day)
		}
		k := key{day: day, currency: entry.Currency}
		total, ok := totals[k]
		if !ok {
			total = &DailyTotal{Day: day, Currency: entry.Currency}
			totals[k] = total
		}
		if entry.Amount >= 0 {
			total.Earned += entry.Amount
		} else {
			total.Spent += -entry.Amount
		}
	}

	sort.Strings(days)
	var out []DailyTotal
	for _, day := range days {
		for _, currency := range Currencies() {
			if total, ok := totals[key{day: day, currency: currency}]; ok {
				out = append(out, *total)
			}
		}
	}
	return out
}

// EarnedBetween sums credits of currency with start <= At < end.
func (l Ledger) EarnedBetween(currency Currency, start, end time.Time) int {
	total := 0
	for _, entry := range l.Entries {
		if entry.Currency != currency || entry.Amount <= 0 {
			continue
		}
		if entry.At.Before(start) || !entry.At.Before(end) {
			continue
		}
		total += entry.Amount
	}
	return total
}
