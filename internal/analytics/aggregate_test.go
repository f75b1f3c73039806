package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 14, 30, 0, 0, time.Local)

func orderAt(t time.Time, total float64, method, status string) Order {
	return Order{
		CreatedAt: t.Format(time.RFC3339),
		Totals:    &OrderTotals{Total: Amount(total)},
		Payment:   OrderPayment{Method: method, Status: status},
	}
}

func TestAggregate_EmptyOrders(t *testing.T) {
	report := Aggregate(nil, TimeRangeWeek, true, testNow)

	assert.Zero(t, report.Summary.TotalSales)
	assert.Zero(t, report.Summary.TotalOrders)
	assert.Zero(t, report.Summary.AverageOrderValue)
	assert.Zero(t, report.Summary.SalesGrowth)
	assert.Zero(t, report.Summary.OrdersGrowth)
	assert.Zero(t, report.Summary.ConversionRate)
	assert.Empty(t, report.TopProducts)

	require.Len(t, report.Chart, 7)
	for _, p := range report.Chart {
		assert.Zero(t, p.Sales)
	}

	require.Len(t, report.PaymentDistribution, 2)
	for _, e := range report.PaymentDistribution {
		assert.Zero(t, e.Sales)
		assert.Zero(t, e.Percentage)
	}
}

func TestAggregate_WeekScenario(t *testing.T) {
	orders := []Order{
		orderAt(testNow, 100, "CASH", "PAID"),
		orderAt(testNow.AddDate(0, 0, -1), 200, "CREDIT_CARD", "PAID"),
	}

	report := Aggregate(orders, TimeRangeWeek, false, testNow)

	assert.Equal(t, 300.0, report.Summary.TotalSales)
	assert.Equal(t, 2, report.Summary.TotalOrders)
	assert.Equal(t, 150.0, report.Summary.AverageOrderValue)
	assert.Equal(t, 100.0, report.Summary.ConversionRate)

	require.Len(t, report.PaymentDistribution, 2)
	cash, card := report.PaymentDistribution[0], report.PaymentDistribution[1]
	assert.Equal(t, "Cash Payments", cash.Category)
	assert.Equal(t, 100.0, cash.Sales)
	assert.InDelta(t, 33.33, cash.Percentage, 0.01)
	assert.Equal(t, "Card Payments", card.Category)
	assert.Equal(t, 200.0, card.Sales)
	assert.InDelta(t, 66.67, card.Percentage, 0.01)
	assert.InDelta(t, 100.0, cash.Percentage+card.Percentage, 1e-9)
}

func TestAggregate_ChartBucketsAndComparison(t *testing.T) {
	current, previous := ResolveWindows(TimeRangeWeek, testNow)

	orders := []Order{
		orderAt(current.Start.Add(10*time.Hour), 40, "CASH", "PAID"),
		orderAt(current.Start.Add(11*time.Hour), 20, "CASH", "PAID"),
		orderAt(previous.Start.AddDate(0, 0, 2), 75, "CASH", "PAID"),
	}

	report := Aggregate(orders, TimeRangeWeek, true, testNow)
	require.Len(t, report.Chart, 7)

	// Both current-window orders land in the first bucket.
	assert.Equal(t, current.BucketKey(current.Start), report.Chart[0].Date)
	assert.Equal(t, 60.0, report.Chart[0].Sales)

	// Previous-window series merges by positional index.
	require.NotNil(t, report.Chart[2].PreviousSales)
	assert.Equal(t, 75.0, *report.Chart[2].PreviousSales)
	require.NotNil(t, report.Chart[0].PreviousSales)
	assert.Zero(t, *report.Chart[0].PreviousSales)
}

func TestAggregate_ComparisonDisabledOmitsPrevious(t *testing.T) {
	_, previous := ResolveWindows(TimeRangeWeek, testNow)
	orders := []Order{orderAt(previous.Start, 75, "CASH", "PAID")}

	report := Aggregate(orders, TimeRangeWeek, false, testNow)
	for _, p := range report.Chart {
		assert.Nil(t, p.PreviousSales)
	}
}

func TestAggregate_TopProductGrowth(t *testing.T) {
	currentOrder := orderAt(testNow, 100, "CASH", "PAID")
	currentOrder.Items = []OrderItem{
		{Name: "Paracetamol", Quantity: 10, UnitPrice: 10, TotalPrice: 100},
	}
	previousOrder := orderAt(testNow.AddDate(0, 0, -8), 50, "CASH", "PAID")
	previousOrder.Items = []OrderItem{
		{Name: "Paracetamol", Quantity: 5, UnitPrice: 10, TotalPrice: 50},
	}

	report := Aggregate([]Order{currentOrder, previousOrder}, TimeRangeWeek, false, testNow)

	require.Len(t, report.TopProducts, 1)
	p := report.TopProducts[0]
	assert.Equal(t, "Paracetamol", p.Name)
	assert.Equal(t, 100.0, p.Sales)
	assert.Equal(t, int64(10), p.Units)
	assert.Equal(t, 100.0, p.Growth)
}

func TestAggregate_TopProductGrowthZeroPrevious(t *testing.T) {
	order := orderAt(testNow, 80, "CASH", "PAID")
	order.Items = []OrderItem{
		{Name: "Ibuprofen", Quantity: 4, UnitPrice: 20, TotalPrice: 80},
	}

	report := Aggregate([]Order{order}, TimeRangeWeek, false, testNow)

	require.Len(t, report.TopProducts, 1)
	assert.Zero(t, report.TopProducts[0].Growth)
}

func TestAggregate_TopProductsRankingAndLimit(t *testing.T) {
	order := orderAt(testNow, 0, "CASH", "PAID")
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	for i, name := range names {
		order.Items = append(order.Items, OrderItem{
			Name:       name,
			Quantity:   1,
			TotalPrice: Amount(10 * (i + 1)),
		})
	}

	report := Aggregate([]Order{order}, TimeRangeWeek, false, testNow)

	require.Len(t, report.TopProducts, 8)
	assert.Equal(t, "J", report.TopProducts[0].Name)
	assert.Equal(t, 100.0, report.TopProducts[0].Sales)
	// Lowest sellers fall off the end of the ranking.
	for _, p := range report.TopProducts {
		assert.NotContains(t, []string{"A", "B"}, p.Name)
	}
}

func TestAggregate_GrowthSymmetry(t *testing.T) {
	assert.Equal(t, 50.0, growth(75, 50))
	assert.Equal(t, -50.0, growth(25, 50))
	assert.Equal(t, 0.0, growth(75, 0))
	assert.Equal(t, 0.0, growth(0, 0))
}

func TestAggregate_MalformedTimestampExcluded(t *testing.T) {
	bad := orderAt(testNow, 999, "CASH", "PAID")
	bad.CreatedAt = "not-a-date"
	good := orderAt(testNow, 100, "CASH", "PAID")

	report := Aggregate([]Order{bad, good}, TimeRangeWeek, false, testNow)

	assert.Equal(t, 100.0, report.Summary.TotalSales)
	assert.Equal(t, 1, report.Summary.TotalOrders)
}

func TestAggregate_UnpaidOrdersLowerConversion(t *testing.T) {
	orders := []Order{
		orderAt(testNow, 100, "CASH", "PAID"),
		orderAt(testNow, 50, "CASH", "PENDING"),
	}

	report := Aggregate(orders, TimeRangeWeek, false, testNow)
	assert.Equal(t, 50.0, report.Summary.ConversionRate)
}

func TestAggregate_TotalFallback(t *testing.T) {
	// Flat total is used when the nested totals block is absent.
	o := Order{
		CreatedAt: testNow.Format(time.RFC3339),
		Total:     120,
		Payment:   OrderPayment{Method: "CASH", Status: "PAID"},
	}

	report := Aggregate([]Order{o}, TimeRangeWeek, false, testNow)
	assert.Equal(t, 120.0, report.Summary.TotalSales)
}

func TestAmount_LenientDecoding(t *testing.T) {
	var item OrderItem
	raw := `{"medicineName":"Aspirin","quantity":"3","unitPrice":"oops","totalPrice":12.5}`
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.Equal(t, Amount(3), item.Quantity)
	assert.Zero(t, item.UnitPrice)
	assert.Equal(t, Amount(12.5), item.TotalPrice)
}

func TestAggregate_PaymentMethodNormalization(t *testing.T) {
	orders := []Order{
		orderAt(testNow, 10, "debit card", "PAID"),
		orderAt(testNow, 20, "CREDIT_CARD", "PAID"),
		orderAt(testNow, 30, "cash", "PAID"),
		orderAt(testNow, 40, "BANK_TRANSFER", "PAID"),
	}

	report := Aggregate(orders, TimeRangeWeek, false, testNow)
	cash, card := report.PaymentDistribution[0], report.PaymentDistribution[1]
	assert.Equal(t, 70.0, cash.Sales)
	assert.Equal(t, 30.0, card.Sales)
	assert.InDelta(t, 100.0, cash.Percentage+card.Percentage, 1e-9)
}
