package ledger_test

import (
	"consultancy-ledger/internal/domain/ledger"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func amount(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}

func TestCalculate_ChargesAndPayment(t *testing.T) {
	charges := []ledger.ServiceCharge{
		{ChargeID: 1, CustomerID: 7, Label: "Xerox", Amount: amount(100), CreatedAt: day("2024-01-01")},
		{ChargeID: 2, CustomerID: 7, Label: "Agreement", Amount: amount(200), CreatedAt: day("2024-01-05")},
	}
	payments := []ledger.Payment{
		{PaymentID: 1, CustomerID: 7, Date: day("2024-01-10"), Amount: amount(150)},
	}

	led := ledger.Calculate(charges, payments)

	assert.True(t, amount(300).Equal(led.TotalCharges), "total charges should be 300")
	assert.True(t, amount(150).Equal(led.TotalReceived), "total received should be 150")
	assert.True(t, amount(150).Equal(led.Balance), "balance should be 150")

	require.Len(t, led.Rows, 5)

	assert.Equal(t, ledger.RoleCharge, led.Rows[0].Role)
	assert.Equal(t, "Xerox", led.Rows[0].Label)
	assert.True(t, amount(100).Equal(led.Rows[0].Running))

	assert.Equal(t, ledger.RoleCharge, led.Rows[1].Role)
	assert.Equal(t, "Agreement", led.Rows[1].Label)
	assert.True(t, amount(300).Equal(led.Rows[1].Running))

	assert.Equal(t, ledger.RoleChargeSubtotal, led.Rows[2].Role)
	require.NotNil(t, led.Rows[2].Credit)
	assert.True(t, amount(300).Equal(*led.Rows[2].Credit))
	assert.True(t, amount(300).Equal(led.Rows[2].Running))

	assert.Equal(t, ledger.RolePayment, led.Rows[3].Role)
	require.NotNil(t, led.Rows[3].Received)
	assert.True(t, amount(150).Equal(*led.Rows[3].Received))
	assert.True(t, amount(150).Equal(led.Rows[3].Running))

	assert.Equal(t, ledger.RoleBalanceFinal, led.Rows[4].Role)
	assert.True(t, amount(150).Equal(led.Rows[4].Running))
}

func TestCalculate_OverpaymentWithoutCharges(t *testing.T) {
	payments := []ledger.Payment{
		{PaymentID: 1, CustomerID: 7, Date: day("2024-02-01"), Amount: amount(500)},
	}

	led := ledger.Calculate(nil, payments)

	assert.True(t, led.TotalCharges.IsZero())
	assert.True(t, amount(500).Equal(led.TotalReceived))
	assert.True(t, amount(-500).Equal(led.Balance), "balance should be negative, displayed as-is")

	require.Len(t, led.Rows, 2)
	for _, row := range led.Rows {
		assert.NotEqual(t, ledger.RoleChargeSubtotal, row.Role, "no subtotal row without charges")
	}
	assert.Equal(t, ledger.RolePayment, led.Rows[0].Role)
	assert.True(t, amount(-500).Equal(led.Rows[0].Running))
	assert.Equal(t, ledger.RoleBalanceFinal, led.Rows[1].Role)
}

func TestCalculate_EmptyInputs(t *testing.T) {
	led := ledger.Calculate(nil, nil)

	assert.True(t, led.TotalCharges.IsZero())
	assert.True(t, led.TotalReceived.IsZero())
	assert.True(t, led.Balance.IsZero())

	require.Len(t, led.Rows, 1)
	assert.Equal(t, ledger.RoleBalanceFinal, led.Rows[0].Role)
	assert.True(t, led.Rows[0].Running.IsZero())
}

func TestCalculate_NoPayments(t *testing.T) {
	charges := []ledger.ServiceCharge{
		{ChargeID: 1, Label: "Stamp Duty", Amount: amount(1200), CreatedAt: day("2024-03-01")},
	}

	led := ledger.Calculate(charges, nil)

	assert.True(t, amount(1200).Equal(led.Balance))
	require.Len(t, led.Rows, 3)
	assert.Equal(t, ledger.RoleChargeSubtotal, led.Rows[1].Role)
	assert.True(t, amount(1200).Equal(led.Rows[2].Running), "charge running balance carries to final row")
}

func TestCalculate_PaymentsOrderedByDateNotInsertion(t *testing.T) {
	charges := []ledger.ServiceCharge{
		{ChargeID: 1, Label: "Fee", Amount: amount(1000), CreatedAt: day("2024-01-01")},
	}
	// The backdated payment was entered later but must display first.
	payments := []ledger.Payment{
		{PaymentID: 1, Date: day("2024-01-20"), Amount: amount(300)},
		{PaymentID: 2, Date: day("2024-01-05"), Amount: amount(200)},
	}

	led := ledger.Calculate(charges, payments)

	require.Len(t, led.Rows, 5)
	first, second := led.Rows[2], led.Rows[3]
	assert.Equal(t, ledger.RolePayment, first.Role)
	assert.Equal(t, day("2024-01-05"), *first.Date)
	assert.True(t, amount(800).Equal(first.Running))
	assert.Equal(t, day("2024-01-20"), *second.Date)
	assert.True(t, amount(500).Equal(second.Running))
}

func TestCalculate_TieBreakByID(t *testing.T) {
	created := day("2024-05-01")
	charges := []ledger.ServiceCharge{
		{ChargeID: 9, Label: "Second", Amount: amount(20), CreatedAt: created},
		{ChargeID: 3, Label: "First", Amount: amount(10), CreatedAt: created},
	}
	paid := day("2024-05-10")
	payments := []ledger.Payment{
		{PaymentID: 8, Date: paid, Amount: amount(5)},
		{PaymentID: 2, Date: paid, Amount: amount(25)},
	}

	led := ledger.Calculate(charges, payments)

	assert.Equal(t, "First", led.Rows[0].Label)
	assert.Equal(t, "Second", led.Rows[1].Label)
	assert.True(t, amount(25).Equal(*led.Rows[3].Received), "earlier payment id sorts first on equal dates")
	assert.True(t, amount(5).Equal(*led.Rows[4].Received))
}

func TestCalculate_InputOrderIndependence(t *testing.T) {
	charges := []ledger.ServiceCharge{
		{ChargeID: 1, Label: "A", Amount: amount(100), CreatedAt: day("2024-01-01")},
		{ChargeID: 2, Label: "B", Amount: amount(250), CreatedAt: day("2024-01-03")},
		{ChargeID: 3, Label: "C", Amount: amount(50), CreatedAt: day("2024-01-02")},
	}
	payments := []ledger.Payment{
		{PaymentID: 1, Date: day("2024-01-10"), Amount: amount(120)},
		{PaymentID: 2, Date: day("2024-01-04"), Amount: amount(80)},
	}
	shuffledCharges := []ledger.ServiceCharge{charges[2], charges[0], charges[1]}
	shuffledPayments := []ledger.Payment{payments[1], payments[0]}

	first := ledger.Calculate(charges, payments)
	second := ledger.Calculate(shuffledCharges, shuffledPayments)

	assert.Equal(t, first, second, "result must not depend on input ordering")
	assert.True(t, first.TotalCharges.Sub(first.TotalReceived).Equal(first.Balance))
	assert.True(t, first.Rows[len(first.Rows)-1].Running.Equal(first.Balance), "last running balance equals final balance")
}

func TestCalculate_DoesNotMutateInputs(t *testing.T) {
	charges := []ledger.ServiceCharge{
		{ChargeID: 2, Label: "Later", Amount: amount(10), CreatedAt: day("2024-01-05")},
		{ChargeID: 1, Label: "Earlier", Amount: amount(10), CreatedAt: day("2024-01-01")},
	}

	_ = ledger.Calculate(charges, nil)

	assert.Equal(t, int64(2), charges[0].ChargeID, "input slice order must be preserved")
}
