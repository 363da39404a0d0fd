package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"go-consign-pos/internal/cache"
	"go-consign-pos/internal/model"
	"go-consign-pos/internal/repository"

	"github.com/shopspring/decimal"
)

var ErrInvalidTrendPeriod = errors.New("trend period must be daily, weekly or monthly")

const (
	TrendDaily   = "daily"
	TrendWeekly  = "weekly"
	TrendMonthly = "monthly"
)

// TrendPoint is one bucket of the sales trend. Buckets with no sales are
// still present with zero values.
type TrendPoint struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

type DashboardStats struct {
	TodayRevenue     decimal.Decimal     `json:"today_revenue"`
	TodayProfit      decimal.Decimal     `json:"today_profit"`
	SessionsToday    int                 `json:"sessions_today"`
	PendingBoxOrders int                 `json:"pending_box_orders"`
	RecentActivity   []model.ActivityLog `json:"recent_activity"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetSalesTrend(period string) ([]TrendPoint, error)
}

type dashboardService struct {
	sessionRepo repository.SessionRepository
	orderRepo   repository.BoxOrderRepository
	logRepo     repository.ActivityLogRepository
	cache       cache.Cache
}

func NewDashboardService(
	sessionRepo repository.SessionRepository,
	orderRepo repository.BoxOrderRepository,
	logRepo repository.ActivityLogRepository,
	c cache.Cache,
) DashboardService {
	return &dashboardService{
		sessionRepo: sessionRepo,
		orderRepo:   orderRepo,
		logRepo:     logRepo,
		cache:       c,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sessions, err := s.sessionRepo.FindClosedBetween(dayStart, now)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TodayRevenue: decimal.Zero,
		TodayProfit:  decimal.Zero,
	}
	for i := range sessions {
		session := &sessions[i]
		stats.SessionsToday++
		for j := range session.Items {
			stats.TodayRevenue = stats.TodayRevenue.Add(session.Items[j].TotalRevenue)
			stats.TodayProfit = stats.TodayProfit.Add(session.Items[j].TotalProfit)
		}
	}

	upcoming, err := s.orderRepo.FindUpcoming(now)
	if err != nil {
		return nil, err
	}
	stats.PendingBoxOrders = len(upcoming)

	activity, err := s.logRepo.FindRecent(10)
	if err != nil {
		return nil, err
	}
	stats.RecentActivity = activity

	return stats, nil
}

// GetSalesTrend returns zero-filled buckets: last 7 days, last 4 ISO weeks
// or last 12 months. Bucketing happens here rather than in SQL so the same
// query works on every supported database.
func (s *dashboardService) GetSalesTrend(period string) ([]TrendPoint, error) {
	if period != TrendDaily && period != TrendWeekly && period != TrendMonthly {
		return nil, ErrInvalidTrendPeriod
	}

	ctx := context.Background()
	cacheKey := "dashboard:trend:" + period
	if raw, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
		var points []TrendPoint
		if err := json.Unmarshal(raw, &points); err == nil {
			return points, nil
		}
	}

	now := time.Now()
	var start time.Time
	switch period {
	case TrendDaily:
		start = now.AddDate(0, 0, -6)
	case TrendWeekly:
		start = now.AddDate(0, 0, -27)
	case TrendMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())

	sessions, err := s.sessionRepo.FindClosedBetween(start, now)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindPaidBetween(start, now)
	if err != nil {
		return nil, err
	}

	points := buildBuckets(period, now)
	index := make(map[string]*TrendPoint, len(points))
	for i := range points {
		index[points[i].Label] = &points[i]
	}

	addTo := func(t time.Time, revenue, profit decimal.Decimal) {
		label := bucketLabel(period, t)
		if p, ok := index[label]; ok {
			p.Revenue = p.Revenue.Add(revenue)
			p.Profit = p.Profit.Add(profit)
		}
	}

	for i := range sessions {
		session := &sessions[i]
		if session.ClosedAt == nil {
			continue
		}
		for j := range session.Items {
			item := &session.Items[j]
			addTo(*session.ClosedAt, item.TotalRevenue, item.TotalProfit)
		}
	}
	// Box orders count as pure revenue; cost price is not tracked for them
	for i := range orders {
		addTo(orders[i].CreatedAt, orders[i].TotalPrice, decimal.Zero)
	}

	if raw, err := json.Marshal(points); err == nil {
		if err := s.cache.Set(ctx, cacheKey, raw, 5*time.Minute); err != nil {
			log.Printf("dashboard: cache set failed: %v", err)
		}
	}

	return points, nil
}

func buildBuckets(period string, now time.Time) []TrendPoint {
	var points []TrendPoint
	switch period {
	case TrendDaily:
		for i := 6; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			points = append(points, TrendPoint{
				Label:   bucketLabel(period, day),
				Revenue: decimal.Zero,
				Profit:  decimal.Zero,
			})
		}
	case TrendWeekly:
		for i := 3; i >= 0; i-- {
			week := now.AddDate(0, 0, -7*i)
			points = append(points, TrendPoint{
				Label:   bucketLabel(period, week),
				Revenue: decimal.Zero,
				Profit:  decimal.Zero,
			})
		}
	case TrendMonthly:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for i := 11; i >= 0; i-- {
			month := firstOfMonth.AddDate(0, -i, 0)
			points = append(points, TrendPoint{
				Label:   bucketLabel(period, month),
				Revenue: decimal.Zero,
				Profit:  decimal.Zero,
			})
		}
	}
	return points
}

func bucketLabel(period string, t time.Time) string {
	switch period {
	case TrendDaily:
		return t.Format("2006-01-02")
	case TrendWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return t.Format("2006-01")
	}
}
