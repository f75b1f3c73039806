package analytics

import (
	"sort"
	"strings"
	"time"
)

// topProductLimit caps the top-selling products ranking.
const topProductLimit = 8

// Aggregate computes the full sales report for a flat order list. It is a
// pure function of its inputs: malformed records are coerced or skipped,
// never raised, so the result is total over any order list the backend can
// produce.
func Aggregate(orders []Order, r TimeRange, comparison bool, now time.Time) *Report {
	current, previous := ResolveWindows(r, now)

	var currentOrders, previousOrders []Order
	for _, o := range orders {
		t, ok := o.Time()
		if !ok {
			continue
		}
		switch {
		case current.Contains(t):
			currentOrders = append(currentOrders, o)
		case previous.Contains(t):
			previousOrders = append(previousOrders, o)
		}
	}

	report := &Report{
		TimeRange:           r,
		Comparison:          comparison,
		Chart:               chartSeries(currentOrders, previousOrders, current, previous, comparison),
		TopProducts:         topProducts(currentOrders, previousOrders),
		PaymentDistribution: paymentDistribution(currentOrders),
		Summary:             summarize(currentOrders, previousOrders),
		GeneratedAt:         now,
	}
	return report
}

// chartSeries builds the zero-filled, chronologically ordered bucket series
// for the current window, merging the previous window's series by
// positional index when comparison is enabled.
func chartSeries(currentOrders, previousOrders []Order, current, previous Window, comparison bool) []ChartPoint {
	points := bucketTotals(currentOrders, current)
	if !comparison {
		return points
	}
	prevPoints := bucketTotals(previousOrders, previous)
	for i := range points {
		if i < len(prevPoints) {
			v := prevPoints[i].Sales
			points[i].PreviousSales = &v
		}
	}
	return points
}

func bucketTotals(orders []Order, w Window) []ChartPoint {
	keys := w.Buckets()
	index := make(map[string]int, len(keys))
	points := make([]ChartPoint, len(keys))
	for i, key := range keys {
		points[i] = ChartPoint{Date: key}
		index[key] = i
	}
	for _, o := range orders {
		t, ok := o.Time()
		if !ok {
			continue
		}
		if i, ok := index[w.BucketKey(t)]; ok {
			points[i].Sales += o.Amount()
		}
	}
	return points
}

type productAccum struct {
	sales     float64
	units     int64
	prevSales float64
}

// topProducts ranks products by current-window line-item sales, attaching
// period-over-period growth, and truncates to the top 8.
func topProducts(currentOrders, previousOrders []Order) []ProductAggregate {
	byName := make(map[string]*productAccum)
	accum := func(name string) *productAccum {
		p, ok := byName[name]
		if !ok {
			p = &productAccum{}
			byName[name] = p
		}
		return p
	}

	for _, o := range currentOrders {
		for _, item := range o.Items {
			p := accum(item.Name)
			p.sales += float64(item.TotalPrice)
			p.units += int64(item.Quantity)
		}
	}
	for _, o := range previousOrders {
		for _, item := range o.Items {
			accum(item.Name).prevSales += float64(item.TotalPrice)
		}
	}

	result := make([]ProductAggregate, 0, len(byName))
	for name, p := range byName {
		if p.sales == 0 && p.units == 0 {
			// Previous-period-only products do not appear in the ranking.
			continue
		}
		result = append(result, ProductAggregate{
			Name:   name,
			Sales:  p.sales,
			Units:  p.units,
			Growth: growth(p.sales, p.prevSales),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Sales != result[j].Sales {
			return result[i].Sales > result[j].Sales
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > topProductLimit {
		result = result[:topProductLimit]
	}
	return result
}

// paymentDistribution splits current-window order totals into cash and card
// buckets. A method counts as card when its normalized form contains
// "CARD"; everything else lands in the cash bucket.
func paymentDistribution(orders []Order) []PaymentDistributionEntry {
	var cash, card float64
	for _, o := range orders {
		if isCardMethod(o.Payment.Method) {
			card += o.Amount()
		} else {
			cash += o.Amount()
		}
	}

	total := cash + card
	pct := func(v float64) float64 {
		if total == 0 {
			return 0
		}
		return v / total * 100
	}

	return []PaymentDistributionEntry{
		{Category: "Cash Payments", Sales: cash, Percentage: pct(cash)},
		{Category: "Card Payments", Sales: card, Percentage: pct(card)},
	}
}

func summarize(currentOrders, previousOrders []Order) SalesSummary {
	var totalSales, prevSales float64
	var paidOrders int
	for _, o := range currentOrders {
		totalSales += o.Amount()
		if normalizePayment(o.Payment.Status) == "PAID" {
			paidOrders++
		}
	}
	for _, o := range previousOrders {
		prevSales += o.Amount()
	}

	totalOrders := len(currentOrders)
	summary := SalesSummary{
		TotalSales:   totalSales,
		TotalOrders:  totalOrders,
		SalesGrowth:  growth(totalSales, prevSales),
		OrdersGrowth: growth(float64(totalOrders), float64(len(previousOrders))),
	}
	if totalOrders > 0 {
		summary.AverageOrderValue = totalSales / float64(totalOrders)
		summary.ConversionRate = float64(paidOrders) / float64(totalOrders) * 100
	}
	return summary
}

// growth is the percentage change between periods, defined as 0 when the
// previous period is 0 to keep the pipeline free of NaN/Inf.
func growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// normalizePayment uppercases and strips spaces and underscores from
// free-form payment method/status strings.
func normalizePayment(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

func isCardMethod(method string) bool {
	return strings.Contains(normalizePayment(method), "CARD")
}
