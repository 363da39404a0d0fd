package service

import (
	"testing"
	"time"

	"go-consign-pos/internal/cache"
	"go-consign-pos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDashboardService(t *testing.T, db *gorm.DB) DashboardService {
	t.Helper()

	return NewDashboardService(
		repository.NewSessionRepo(db),
		repository.NewBoxOrderRepo(db),
		repository.NewActivityLogRepo(db),
		cache.Noop{},
	)
}

func TestGetSalesTrendValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newDashboardService(t, db)

	_, err := svc.GetSalesTrend("hourly")
	assert.ErrorIs(t, err, ErrInvalidTrendPeriod)
}

func TestGetSalesTrendZeroFilled(t *testing.T) {
	db := setupTestDB(t)
	svc := newDashboardService(t, db)

	points, err := svc.GetSalesTrend(TrendDaily)
	require.NoError(t, err)
	require.Len(t, points, 7)
	for _, p := range points {
		assert.True(t, p.Revenue.IsZero())
		assert.True(t, p.Profit.IsZero())
	}

	weekly, err := svc.GetSalesTrend(TrendWeekly)
	require.NoError(t, err)
	assert.Len(t, weekly, 4)

	monthly, err := svc.GetSalesTrend(TrendMonthly)
	require.NoError(t, err)
	assert.Len(t, monthly, 12)
}

func TestDashboardAfterReconciliation(t *testing.T) {
	db := setupTestDB(t)
	shopSvc, _ := newShopService(t, db)
	dashSvc := newDashboardService(t, db)
	user := createTestUser(t, db, "op@example.com")

	session, err := shopSvc.OpenSession(user.ID, dec("100000"))
	require.NoError(t, err)

	item, err := shopSvc.AddItem(&AddItemRequest{
		ShopSessionID:    session.ID,
		ProductName:      "Risol Mayo",
		InitialStock:     50,
		BasePrice:        dec("1000"),
		MarkupPercentage: 50,
	}, user.ID.String())
	require.NoError(t, err)

	_, err = shopSvc.CloseSession(session.ID, &CloseSessionRequest{
		ActualCash: dec("160000"),
		Items:      []ItemCount{{ItemID: item.ID, RemainingStock: 10}},
	}, user.ID.String())
	require.NoError(t, err)

	stats, err := dashSvc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SessionsToday)
	assert.True(t, stats.TodayRevenue.Equal(dec("60000")), "revenue: %s", stats.TodayRevenue)
	assert.True(t, stats.TodayProfit.Equal(dec("20000")), "profit: %s", stats.TodayProfit)

	points, err := dashSvc.GetSalesTrend(TrendDaily)
	require.NoError(t, err)
	require.Len(t, points, 7)

	todayLabel := time.Now().Format("2006-01-02")
	var found bool
	for _, p := range points {
		if p.Label == todayLabel {
			found = true
			assert.True(t, p.Revenue.Equal(dec("60000")), "bucket revenue: %s", p.Revenue)
			assert.True(t, p.Profit.Equal(dec("20000")))
		} else {
			assert.True(t, p.Revenue.IsZero())
		}
	}
	assert.True(t, found, "today bucket missing")
}
