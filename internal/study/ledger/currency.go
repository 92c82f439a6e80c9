package ledger

// Currency identifies one kind of tradeable unit.
type Currency string

const (
	CurrencyGold      Currency = "gold"
	CurrencyTransmute Currency = "transmute"
	CurrencyAlchemy   Currency = "alchemy"
	CurrencyScour     Currency = "scour"
	CurrencyChaos     Currency = "chaos"
	CurrencyRegal     Currency = "regal"
	CurrencyAugment   Currency = "augment"
	CurrencyExalted   Currency = "exalted"
)

// Currencies returns every currency in display order.
func Currencies() []Currency {
	return []Currency{
		CurrencyGold,
		CurrencyTransmute,
		CurrencyAugment,
		CurrencyAlchemy,
		CurrencyScour,
		CurrencyRegal,
		CurrencyChaos,
		CurrencyExalted,
	}
}

// IsValid reports whether c is a known currency.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyGold, CurrencyTransmute, CurrencyAlchemy, CurrencyScour,
		CurrencyChaos, CurrencyRegal, CurrencyAugment, CurrencyExalted:
		return true
	default:
		return false
	}
}
