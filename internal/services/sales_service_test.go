package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pillpath-platform/service-analytics/internal/analytics"
	"github.com/pillpath-platform/service-analytics/internal/clients"
)

func TestGetReport_LiveFetch(t *testing.T) {
	today := time.Now().Format(time.RFC3339)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[
			{"pharmacyOrderId":"o-1","createdAt":%q,
			 "totals":{"total":100},"payment":{"method":"CASH","status":"PAID"}},
			{"pharmacyOrderId":"o-2","createdAt":%q,
			 "totals":{"total":200},"payment":{"method":"CREDIT_CARD","status":"PAID"}}
		]`, today, today)
	}))
	defer srv.Close()

	client := clients.NewPharmacyClient(srv.URL, zap.NewNop())
	svc := NewSalesService(nil, client, nil, zap.NewNop())

	result := svc.GetReport(context.Background(), uuid.New(), analytics.TimeRangeWeek, false, false)

	require.NotNil(t, result.Report)
	assert.False(t, result.FromCache)
	assert.Empty(t, result.FetchError)
	assert.Equal(t, 300.0, result.Report.Summary.TotalSales)
	assert.Equal(t, 2, result.Report.Summary.TotalOrders)
	assert.Len(t, result.Report.Chart, 7)
}

func TestGetReport_FetchFailureDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := clients.NewPharmacyClient(srv.URL, zap.NewNop())
	svc := NewSalesService(nil, client, nil, zap.NewNop())

	result := svc.GetReport(context.Background(), uuid.New(), analytics.TimeRangeMonth, true, false)

	require.NotNil(t, result.Report)
	assert.NotEmpty(t, result.FetchError)
	assert.Zero(t, result.Report.Summary.TotalSales)
	assert.Zero(t, result.Report.Summary.TotalOrders)
	assert.Len(t, result.Report.Chart, 30)
}

func TestGetReport_NoSourcesYieldsEmptyReport(t *testing.T) {
	svc := NewSalesService(nil, nil, nil, zap.NewNop())

	result := svc.GetReport(context.Background(), uuid.New(), analytics.TimeRangeYear, false, false)

	require.NotNil(t, result.Report)
	assert.Empty(t, result.FetchError)
	assert.Len(t, result.Report.Chart, 12)
	assert.Empty(t, result.Report.TopProducts)
}
