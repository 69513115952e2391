package billing

import "errors"

// Money represents a monetary value stored in minor units.
type Money = int64

// ErrUnknownGenre is returned when a play genre has no pricing rule.
var ErrUnknownGenre = errors.New("billing: unknown genre")

// Genre selects which pricing formula applies to a performance.
type Genre string

const (
	GenreTragedy Genre = "tragedy"
	GenreComedy  Genre = "comedy"
)

// Valid reports whether the genre has a pricing rule.
func (g Genre) Valid() bool {
	switch g {
	case GenreTragedy, GenreComedy:
		return true
	default:
		return false
	}
}

// Tariff holds the rates and thresholds the pricing formulas run on.
// Values are minor currency units except thresholds and the credit divisor,
// which are seat counts.
type Tariff struct {
	TragedyBase        Money
	TragedyThreshold   int
	TragedyPerSeatOver Money

	ComedyBase         Money
	ComedyThreshold    int
	ComedyOverCapacity Money
	ComedyPerSeatOver  Money
	ComedyPerSeat      Money

	CreditThreshold     int
	ComedyCreditDivisor int
}

// DefaultTariff returns the production rate card.
func DefaultTariff() Tariff {
	return Tariff{
		TragedyBase:         40000,
		TragedyThreshold:    30,
		TragedyPerSeatOver:  1000,
		ComedyBase:          30000,
		ComedyThreshold:     20,
		ComedyOverCapacity:  10000,
		ComedyPerSeatOver:   500,
		ComedyPerSeat:       300,
		CreditThreshold:     30,
		ComedyCreditDivisor: 20,
	}
}

// AmountFor calculates the price of a single performance in minor units.
// The genre switch is closed: anything outside the known genres fails with
// ErrUnknownGenre rather than falling through to a default rate.
func (t Tariff) AmountFor(genre Genre, audience int) (Money, error) {
	switch genre {
	case GenreTragedy:
		amount := t.TragedyBase
		if audience > t.TragedyThreshold {
			amount += t.TragedyPerSeatOver * Money(audience-t.TragedyThreshold)
		}
		return amount, nil
	case GenreComedy:
		amount := t.ComedyBase
		if audience > t.ComedyThreshold {
			amount += t.ComedyOverCapacity + t.ComedyPerSeatOver*Money(audience-t.ComedyThreshold)
		}
		// Comedies always carry a per-seat component, below capacity included.
		amount += t.ComedyPerSeat * Money(audience)
		return amount, nil
	default:
		return 0, ErrUnknownGenre
	}
}

// VolumeCreditsFor calculates the loyalty credits earned by a single
// performance. Comedies earn a bonus on top of the base term, not instead
// of it.
func (t Tariff) VolumeCreditsFor(genre Genre, audience int) int64 {
	credits := int64(audience - t.CreditThreshold)
	if credits < 0 {
		credits = 0
	}
	if genre == GenreComedy && t.ComedyCreditDivisor > 0 {
		credits += int64(audience / t.ComedyCreditDivisor)
	}
	return credits
}
