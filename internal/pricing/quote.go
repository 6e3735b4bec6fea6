// Package pricing computes rental quotes. Months are a fixed 30 days
// regardless of the calendar, so 30 nights always cost one monthly rate.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

// DaysPerMonth is the fixed month length used for proration.
const DaysPerMonth = 30

// DefaultDepositPercentage applies when no deposit option is given.
var DefaultDepositPercentage = decimal.NewFromInt(20)

var (
	hundred      = decimal.NewFromInt(100)
	daysPerMonth = decimal.NewFromInt(DaysPerMonth)
)

var ErrNegativeAmount = errors.New("amount must not be negative")

// InvalidPercentageError reports a percentage outside [0, 100].
type InvalidPercentageError struct {
	Field string
	Value decimal.Decimal
}

func (e *InvalidPercentageError) Error() string {
	return fmt.Sprintf("%s must be between 0 and 100, got %s", e.Field, e.Value)
}

// Quote is a derived price breakdown. Values are unrounded.
type Quote struct {
	Nights     int
	Months     decimal.Decimal
	BaseRent   decimal.Decimal
	Deposit    decimal.Decimal
	ServiceFee decimal.Decimal
	Total      decimal.Decimal
}

// Round returns a copy with every amount rounded to places, for display.
func (q Quote) Round(places int32) Quote {
	return Quote{
		Nights:     q.Nights,
		Months:     q.Months.Round(places),
		BaseRent:   q.BaseRent.Round(places),
		Deposit:    q.Deposit.Round(places),
		ServiceFee: q.ServiceFee.Round(places),
		Total:      q.Total.Round(places),
	}
}

type options struct {
	discount   decimal.Decimal
	deposit    decimal.Decimal
	serviceFee decimal.Decimal
}

type Option func(*options)

// WithDiscount sets the discount percentage applied to the base rent.
func WithDiscount(pct decimal.Decimal) Option {
	return func(o *options) { o.discount = pct }
}

// WithDeposit sets the deposit as a percentage of the discounted rent.
func WithDeposit(pct decimal.Decimal) Option {
	return func(o *options) { o.deposit = pct }
}

// WithServiceFee adds a flat fee to the total.
func WithServiceFee(fee decimal.Decimal) Option {
	return func(o *options) { o.serviceFee = fee }
}

func checkPercentage(field string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return &InvalidPercentageError{Field: field, Value: v}
	}
	return nil
}

// Calculate prices a stay at basePricePerMonth over interval.
//
//	baseRent = basePricePerMonth / 30 * nights * (1 - discount/100)
//	deposit  = baseRent * deposit/100
//	total    = baseRent + deposit + serviceFee
func Calculate(basePricePerMonth decimal.Decimal, interval daterange.Interval, opts ...Option) (Quote, error) {
	o := options{deposit: DefaultDepositPercentage}
	for _, opt := range opts {
		opt(&o)
	}

	if err := interval.Validate(); err != nil {
		return Quote{}, err
	}
	if err := checkPercentage("discount_percentage", o.discount); err != nil {
		return Quote{}, err
	}
	if err := checkPercentage("deposit_percentage", o.deposit); err != nil {
		return Quote{}, err
	}
	if basePricePerMonth.IsNegative() || o.serviceFee.IsNegative() {
		return Quote{}, ErrNegativeAmount
	}

	nights := decimal.NewFromInt(int64(interval.Nights()))

	// Multiply before dividing so whole months stay exact.
	baseRent := basePricePerMonth.Mul(nights).Div(daysPerMonth)
	if !o.discount.IsZero() {
		baseRent = baseRent.Mul(hundred.Sub(o.discount)).Div(hundred)
	}
	deposit := baseRent.Mul(o.deposit).Div(hundred)

	return Quote{
		Nights:     interval.Nights(),
		Months:     nights.Div(daysPerMonth),
		BaseRent:   baseRent,
		Deposit:    deposit,
		ServiceFee: o.serviceFee,
		Total:      baseRent.Add(deposit).Add(o.serviceFee),
	}, nil
}
