package billing

import (
	"errors"
	"testing"
)

func TestAmountForTragedy(t *testing.T) {
	tariff := DefaultTariff()

	for _, audience := range []int{1, 15, 30} {
		amount, err := tariff.AmountFor(GenreTragedy, audience)
		if err != nil {
			t.Fatalf("amount for: %v", err)
		}
		if amount != tariff.TragedyBase {
			t.Fatalf("audience %d: expected base %d, got %d", audience, tariff.TragedyBase, amount)
		}
	}

	amount, err := tariff.AmountFor(GenreTragedy, 55)
	if err != nil {
		t.Fatalf("amount for: %v", err)
	}
	if amount != 65000 {
		t.Fatalf("expected 65000, got %d", amount)
	}
}

func TestAmountForTragedyLinearAboveThreshold(t *testing.T) {
	tariff := DefaultTariff()
	prev, err := tariff.AmountFor(GenreTragedy, tariff.TragedyThreshold)
	if err != nil {
		t.Fatalf("amount for: %v", err)
	}
	for audience := tariff.TragedyThreshold + 1; audience <= tariff.TragedyThreshold+10; audience++ {
		amount, err := tariff.AmountFor(GenreTragedy, audience)
		if err != nil {
			t.Fatalf("amount for: %v", err)
		}
		if amount-prev != tariff.TragedyPerSeatOver {
			t.Fatalf("audience %d: expected slope %d, got %d", audience, tariff.TragedyPerSeatOver, amount-prev)
		}
		prev = amount
	}
}

func TestAmountForComedy(t *testing.T) {
	tariff := DefaultTariff()

	amount, err := tariff.AmountFor(GenreComedy, 35)
	if err != nil {
		t.Fatalf("amount for: %v", err)
	}
	if amount != 58000 {
		t.Fatalf("expected 58000, got %d", amount)
	}
}

func TestAmountForComedyPerSeatBelowThreshold(t *testing.T) {
	tariff := DefaultTariff()

	// The per-seat component applies to every comedy, not just the ones
	// above the capacity threshold.
	for _, audience := range []int{1, 10, 20} {
		amount, err := tariff.AmountFor(GenreComedy, audience)
		if err != nil {
			t.Fatalf("amount for: %v", err)
		}
		want := tariff.ComedyBase + tariff.ComedyPerSeat*Money(audience)
		if amount != want {
			t.Fatalf("audience %d: expected %d, got %d", audience, want, amount)
		}
	}
}

func TestAmountForUnknownGenre(t *testing.T) {
	tariff := DefaultTariff()
	if _, err := tariff.AmountFor(Genre("pastoral"), 10); !errors.Is(err, ErrUnknownGenre) {
		t.Fatalf("expected ErrUnknownGenre, got %v", err)
	}
	if _, err := tariff.AmountFor(Genre(""), 10); !errors.Is(err, ErrUnknownGenre) {
		t.Fatalf("expected ErrUnknownGenre for empty genre, got %v", err)
	}
}

func TestVolumeCredits(t *testing.T) {
	tariff := DefaultTariff()

	if got := tariff.VolumeCreditsFor(GenreTragedy, 55); got != 25 {
		t.Fatalf("expected 25 credits, got %d", got)
	}
	if got := tariff.VolumeCreditsFor(GenreTragedy, 30); got != 0 {
		t.Fatalf("expected 0 credits at threshold, got %d", got)
	}
	if got := tariff.VolumeCreditsFor(GenreTragedy, 5); got != 0 {
		t.Fatalf("expected 0 credits below threshold, got %d", got)
	}
	if got := tariff.VolumeCreditsFor(GenreComedy, 35); got != 6 {
		t.Fatalf("expected 6 credits, got %d", got)
	}
}

func TestVolumeCreditsMonotonic(t *testing.T) {
	tariff := DefaultTariff()
	for _, genre := range []Genre{GenreTragedy, GenreComedy} {
		prev := tariff.VolumeCreditsFor(genre, 1)
		for audience := 2; audience <= 120; audience++ {
			got := tariff.VolumeCreditsFor(genre, audience)
			if got < prev {
				t.Fatalf("%s: credits decreased from %d to %d at audience %d", genre, prev, got, audience)
			}
			base := int64(audience - tariff.CreditThreshold)
			if base < 0 {
				base = 0
			}
			if got < base {
				t.Fatalf("%s: credits %d below base term %d at audience %d", genre, got, base, audience)
			}
			prev = got
		}
	}
}

func TestGenreValid(t *testing.T) {
	if !GenreTragedy.Valid() || !GenreComedy.Valid() {
		t.Fatal("expected known genres to be valid")
	}
	if Genre("history").Valid() {
		t.Fatal("expected unknown genre to be invalid")
	}
}
