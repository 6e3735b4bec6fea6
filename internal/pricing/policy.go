package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

// Policy holds the house-wide pricing terms from configuration.
type Policy struct {
	DepositPercentage decimal.Decimal
	ServiceFee        decimal.Decimal
}

// DefaultPolicy is a 20% deposit and no service fee.
func DefaultPolicy() Policy {
	return Policy{DepositPercentage: DefaultDepositPercentage, ServiceFee: decimal.Zero}
}

// Quote prices a stay for a listing under the policy.
func (p Policy) Quote(basePricePerMonth, discountPercentage decimal.Decimal, interval daterange.Interval) (Quote, error) {
	return Calculate(basePricePerMonth, interval,
		WithDiscount(discountPercentage),
		WithDeposit(p.DepositPercentage),
		WithServiceFee(p.ServiceFee),
	)
}
