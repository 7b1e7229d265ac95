// Package classify computes the reconciliation status of a joined record by
// running an ordered battery of independent field-level checks. Each check
// may contribute one break code; a row can accumulate several. A check whose
// required fields are absent on either side is skipped silently — absence is
// not itself an anomaly.
package classify

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/divrecon-dev/divrecon/internal/model"
)

// Tolerances are the thresholds below which a difference is immaterial.
type Tolerances struct {
	DateDays   int             // absolute day difference allowed on dates
	Amount     decimal.Decimal // absolute difference allowed on amounts
	FXRelative decimal.Decimal // relative difference allowed on FX rates
	Epsilon    decimal.Decimal // floor for the FX denominator
}

// Default returns the standard tolerances: 1 day, 0.01 units, 1% relative.
func Default() Tolerances {
	return Tolerances{
		DateDays:   1,
		Amount:     decimal.NewFromFloat(0.01),
		FXRelative: decimal.NewFromFloat(0.01),
		Epsilon:    decimal.NewFromFloat(1e-9),
	}
}

// Status deterministically classifies one joined record.
//
// One-sided rows short-circuit to a single missing-side code; no further
// checks run for them even if amounts would otherwise mismatch.
func Status(j model.JoinedRecord, tol Tolerances) model.ReconStatus {
	switch j.Origin {
	case model.OriginOwnerOnly:
		return model.ReconStatus(model.CodeMissingAtCustodian)
	case model.OriginCustodianOnly:
		return model.ReconStatus(model.CodeMissingAtOwner)
	}

	owner, cust := *j.Owner, *j.Custodian
	var codes []model.BreakCode
	add := func(code model.BreakCode, fired bool) {
		if fired {
			codes = append(codes, code)
		}
	}

	add(model.CodeDateMismatch, checkDates(owner, cust, tol))
	add(model.CodeGrossMismatch, checkGross(owner, cust, tol))
	add(model.CodeNetMismatch, checkNet(owner, cust, tol))
	add(model.CodeTaxMismatch, checkTax(owner, cust, tol))
	add(model.CodeFXVariance, checkFXVariance(owner, cust, tol))
	add(model.CodeADRFeeHandling, checkADRFee(owner, cust, tol))
	add(model.CodePositionMismatch, checkPosition(owner, cust, tol))

	return model.NewStatus(codes)
}

// checkDates flags a mismatch when either the payment dates or the ex-dates
// differ by more than the day tolerance. Both sub-checks map to the same
// code, so a double hit still yields one DATE_MISMATCH.
func checkDates(owner, cust model.Record, tol Tolerances) bool {
	if owner.PayDate != nil && cust.PayDate != nil && daysApart(*owner.PayDate, *cust.PayDate) > tol.DateDays {
		return true
	}
	if owner.ExDate != nil && cust.ExDate != nil && daysApart(*owner.ExDate, *cust.ExDate) > tol.DateDays {
		return true
	}
	return false
}

// checkGross compares gross amounts, but only when both sides state the same
// currency; cross-currency gross figures are not directly comparable.
func checkGross(owner, cust model.Record, tol Tolerances) bool {
	if owner.Gross == nil || cust.Gross == nil {
		return false
	}
	if owner.Currency != cust.Currency {
		return false
	}
	return exceeds(owner.Gross.Sub(*cust.Gross), tol.Amount)
}

// checkNet compares net settlement amounts whenever both are reported.
func checkNet(owner, cust model.Record, tol Tolerances) bool {
	if owner.Net == nil || cust.Net == nil {
		return false
	}
	return exceeds(owner.Net.Sub(*cust.Net), tol.Amount)
}

// checkTax compares withholding tax. When the sides settle in different
// currencies the custodian figure is converted with the custodian's reported
// FX rate first. A rate above 1 implies a quote-per-base quotation (a
// high-denomination currency such as KRW), so the figure is divided;
// otherwise it is multiplied.
func checkTax(owner, cust model.Record, tol Tolerances) bool {
	if owner.Tax == nil || cust.Tax == nil {
		return false
	}
	custTax := *cust.Tax
	if owner.Currency != cust.Currency {
		rate := decimal.NewFromInt(1)
		if cust.FXRate != nil {
			rate = *cust.FXRate
		}
		if rate.IsZero() {
			return false
		}
		if rate.GreaterThan(decimal.NewFromInt(1)) {
			custTax = custTax.Div(rate)
		} else {
			custTax = custTax.Mul(rate)
		}
	}
	return exceeds(custTax.Sub(*owner.Tax), tol.Amount)
}

// checkFXVariance compares the two reported FX rates, cross-currency rows
// only. The sides may quote in opposite directions; one rate above 1 with
// the other below 1 is taken as inverse quotation and the owner rate is
// inverted before comparing.
//
// TODO: the sign test misreads pairs whose rates straddle 1 for legitimate
// reasons (e.g. EUR/USD near parity); a currency-pair-aware direction table
// would remove the guess.
func checkFXVariance(owner, cust model.Record, tol Tolerances) bool {
	if owner.Currency == cust.Currency {
		return false
	}
	if owner.FXRate == nil || cust.FXRate == nil {
		return false
	}

	one := decimal.NewFromInt(1)
	ownerRate := *owner.FXRate
	custRate := *cust.FXRate
	if custRate.GreaterThan(one) && ownerRate.LessThan(one) && !ownerRate.IsZero() {
		ownerRate = one.Div(ownerRate)
	}

	base := custRate.Abs()
	if base.LessThan(tol.Epsilon) {
		base = tol.Epsilon
	}
	rel := custRate.Sub(ownerRate).Abs().Div(base)
	return rel.GreaterThan(tol.FXRelative)
}

// checkADRFee verifies that a nonzero ADR fee reconciles the two net
// amounts: custodian net plus the fee should equal owner net.
func checkADRFee(owner, cust model.Record, tol Tolerances) bool {
	if cust.ADRFee == nil || cust.ADRFee.IsZero() {
		return false
	}
	if owner.Net == nil || cust.Net == nil {
		return false
	}
	return exceeds(cust.Net.Add(*cust.ADRFee).Sub(*owner.Net), tol.Amount)
}

// checkPosition compares the owner's nominal basis against the custodian's
// holding quantity.
func checkPosition(owner, cust model.Record, tol Tolerances) bool {
	if owner.Position == nil || cust.Position == nil {
		return false
	}
	return exceeds(owner.Position.Sub(*cust.Position), tol.Amount)
}

func exceeds(diff, tol decimal.Decimal) bool {
	return diff.Abs().GreaterThan(tol)
}

func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
