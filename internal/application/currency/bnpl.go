package currency

import (
	"github.com/shopspring/decimal"
)

// PlanMonths are the interest-free installment terms offered at checkout.
var PlanMonths = []int{3, 6, 12}

// InstallmentPlan is a display-only breakdown; no separate ledger entity
// exists for installments. The chosen term is snapshotted onto the order.
type InstallmentPlan struct {
	Months         int
	MonthlyPayment decimal.Decimal
	Total          decimal.Decimal
}

// Installment splits total evenly over months, rounding the monthly payment
// to cents. Non-positive months yield a single full payment.
func Installment(total decimal.Decimal, months int) InstallmentPlan {
	if months <= 0 {
		months = 1
	}
	monthly := total.Div(decimal.NewFromInt(int64(months))).Round(2)
	return InstallmentPlan{
		Months:         months,
		MonthlyPayment: monthly,
		Total:          total,
	}
}

// InstallmentPlans returns the standard terms for a total.
func InstallmentPlans(total decimal.Decimal) []InstallmentPlan {
	plans := make([]InstallmentPlan, 0, len(PlanMonths))
	for _, m := range PlanMonths {
		plans = append(plans, Installment(total, m))
	}
	return plans
}

// ValidPlan reports whether months is one of the offered terms.
func ValidPlan(months int) bool {
	for _, m := range PlanMonths {
		if m == months {
			return true
		}
	}
	return false
}
