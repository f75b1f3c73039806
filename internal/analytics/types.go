package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeRange selects the reporting period for the sales pipeline.
type TimeRange string

const (
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
	TimeRangeYear  TimeRange = "year"
)

// ParseTimeRange validates a time range string from the API layer.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case TimeRangeWeek, TimeRangeMonth, TimeRangeYear:
		return TimeRange(s), nil
	}
	return "", fmt.Errorf("invalid time range %q", s)
}

// Granularity is the bucket unit of a window.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// Amount is a monetary or quantity value from the upstream backend.
// The backend occasionally emits numbers as strings or garbage; anything
// that does not parse as a number is coerced to 0 instead of failing the
// whole order list decode.
type Amount float64

// UnmarshalJSON implements lenient numeric decoding.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// OrderItem is a single line item on a pharmacy order.
type OrderItem struct {
	ItemID     string `json:"itemId"`
	Name       string `json:"medicineName"`
	Quantity   Amount `json:"quantity"`
	UnitPrice  Amount `json:"unitPrice"`
	TotalPrice Amount `json:"totalPrice"`
}

// OrderTotals is the nested totals block of an upstream order.
type OrderTotals struct {
	Subtotal Amount `json:"subtotal"`
	Tax      Amount `json:"tax"`
	Total    Amount `json:"total"`
}

// OrderPayment carries the free-form payment method and status strings.
type OrderPayment struct {
	Method string `json:"method"`
	Status string `json:"status"`
}

// Order is a read-only order record as served by the pharmacy backend.
type Order struct {
	ID            string       `json:"pharmacyOrderId"`
	Code          string       `json:"orderCode"`
	CreatedAt     string       `json:"createdAt"`
	OrderDate     string       `json:"orderDate,omitempty"`
	CustomerName  string       `json:"customerName"`
	CustomerEmail string       `json:"customerEmail"`
	Items         []OrderItem  `json:"items"`
	Totals        *OrderTotals `json:"totals,omitempty"`
	Total         Amount       `json:"total,omitempty"`
	Payment       OrderPayment `json:"payment"`
}

// Amount returns the order total, preferring the nested totals block.
func (o Order) Amount() float64 {
	if o.Totals != nil && o.Totals.Total != 0 {
		return float64(o.Totals.Total)
	}
	return float64(o.Total)
}

// Time parses the order timestamp. The second return is false when no
// parseable timestamp exists, in which case the order lies outside every
// window.
func (o Order) Time() (time.Time, bool) {
	if t, ok := ParseOrderTimestamp(o.CreatedAt); ok {
		return t, true
	}
	return ParseOrderTimestamp(o.OrderDate)
}

// ChartPoint is one time bucket of the sales chart series.
type ChartPoint struct {
	Date          string   `json:"date"`
	Sales         float64  `json:"sales"`
	PreviousSales *float64 `json:"previous_sales,omitempty"`
}

// ProductAggregate is a top-selling product row with period-over-period
// growth.
type ProductAggregate struct {
	Name   string  `json:"name"`
	Sales  float64 `json:"sales"`
	Units  int64   `json:"units"`
	Growth float64 `json:"growth"`
}

// PaymentDistributionEntry is one slice of the cash/card breakdown.
type PaymentDistributionEntry struct {
	Category   string  `json:"category"`
	Sales      float64 `json:"sales"`
	Percentage float64 `json:"percentage"`
}

// SalesSummary holds the headline KPIs for the current window.
type SalesSummary struct {
	TotalSales        float64 `json:"total_sales"`
	TotalOrders       int     `json:"total_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
	SalesGrowth       float64 `json:"sales_growth"`
	OrdersGrowth      float64 `json:"orders_growth"`
	ConversionRate    float64 `json:"conversion_rate"`
}

// Report is the full set of derived aggregates for one evaluation of
// (orders, time range, comparison flag).
type Report struct {
	TimeRange           TimeRange                  `json:"time_range"`
	Comparison          bool                       `json:"comparison"`
	Chart               []ChartPoint               `json:"chart"`
	TopProducts         []ProductAggregate         `json:"top_products"`
	PaymentDistribution []PaymentDistributionEntry `json:"payment_distribution"`
	Summary             SalesSummary               `json:"summary"`
	GeneratedAt         time.Time                  `json:"generated_at"`
}

// MarshalBinary lets a Report be stored directly by redis clients.
func (r *Report) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}
