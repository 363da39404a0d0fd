package service

import (
	"testing"
	"time"

	"go-consign-pos/internal/audit"
	"go-consign-pos/internal/model"
	"go-consign-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newShopService(t *testing.T, db *gorm.DB) (ShopService, repository.ActivityLogRepository) {
	t.Helper()

	logRepo := repository.NewActivityLogRepo(db)
	recorder := audit.NewRecorder(logRepo, nil)
	svc := NewShopService(
		repository.NewSessionRepo(db),
		repository.NewConsignmentRepo(db),
		repository.NewPartnerRepo(db),
		db,
		recorder,
	)
	return svc, logRepo
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOpenSession(t *testing.T) {
	db := setupTestDB(t)
	svc, logRepo := newShopService(t, db)
	user := createTestUser(t, db, "op@example.com")

	t.Run("rejects negative start cash", func(t *testing.T) {
		_, err := svc.OpenSession(user.ID, dec("-1"))
		assert.ErrorIs(t, err, ErrNegativeStartCash)
	})

	t.Run("opens with float", func(t *testing.T) {
		session, err := svc.OpenSession(user.ID, dec("100000"))
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusOpen, session.Status)
		assert.True(t, session.StartCash.Equal(dec("100000")))
		assert.Nil(t, session.ClosedAt)

		// audit entry lands asynchronously
		assert.Eventually(t, func() bool {
			entries, err := logRepo.FindBySubject("shop_session", session.ID)
			return err == nil && len(entries) == 1 && entries[0].EventName == "Shop Opened"
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("rejects a second open session for the same operator", func(t *testing.T) {
		_, err := svc.OpenSession(user.ID, dec("50000"))
		assert.ErrorIs(t, err, ErrActiveSessionExists)
	})

	t.Run("other operators are unaffected", func(t *testing.T) {
		other := createTestUser(t, db, "other@example.com")
		_, err := svc.OpenSession(other.ID, dec("0"))
		assert.NoError(t, err)
	})
}

func TestAddItem(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newShopService(t, db)
	user := createTestUser(t, db, "op@example.com")

	session, err := svc.OpenSession(user.ID, dec("100000"))
	require.NoError(t, err)

	t.Run("derives selling price from markup", func(t *testing.T) {
		item, err := svc.AddItem(&AddItemRequest{
			ShopSessionID:     session.ID,
			ManualPartnerName: "Bu Siti",
			ProductName:       "Risol Mayo",
			InitialStock:      50,
			BasePrice:         dec("1000"),
			MarkupPercentage:  50,
		}, user.ID.String())
		require.NoError(t, err)
		assert.True(t, item.SellingPrice.Equal(dec("1500")))
		assert.Equal(t, 50, item.RemainingStock)
		assert.Equal(t, model.ItemStatusOpen, item.Status)
		assert.True(t, item.TotalRevenue.IsZero())
	})

	t.Run("explicit selling price wins over markup", func(t *testing.T) {
		price := dec("2000")
		item, err := svc.AddItem(&AddItemRequest{
			ShopSessionID:    session.ID,
			ProductName:      "Lemper",
			InitialStock:     20,
			BasePrice:        dec("1000"),
			MarkupPercentage: 50,
			SellingPrice:     &price,
		}, user.ID.String())
		require.NoError(t, err)
		assert.True(t, item.SellingPrice.Equal(dec("2000")))
	})

	t.Run("rejects negative base price", func(t *testing.T) {
		_, err := svc.AddItem(&AddItemRequest{
			ShopSessionID: session.ID,
			ProductName:   "Pastel",
			InitialStock:  10,
			BasePrice:     dec("-5"),
		}, user.ID.String())
		assert.ErrorIs(t, err, ErrNegativePrice)
	})

	t.Run("rejects unknown session", func(t *testing.T) {
		_, err := svc.AddItem(&AddItemRequest{
			ShopSessionID: uuid.New(),
			ProductName:   "Pastel",
			InitialStock:  10,
			BasePrice:     dec("500"),
		}, user.ID.String())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("rejects unknown partner", func(t *testing.T) {
		partnerID := uuid.New()
		_, err := svc.AddItem(&AddItemRequest{
			ShopSessionID: session.ID,
			PartnerID:     &partnerID,
			ProductName:   "Pastel",
			InitialStock:  10,
			BasePrice:     dec("500"),
		}, user.ID.String())
		assert.ErrorIs(t, err, ErrPartnerNotFound)
	})
}

func TestCloseSession(t *testing.T) {
	db := setupTestDB(t)
	svc, logRepo := newShopService(t, db)
	user := createTestUser(t, db, "op@example.com")

	session, err := svc.OpenSession(user.ID, dec("100000"))
	require.NoError(t, err)

	item, err := svc.AddItem(&AddItemRequest{
		ShopSessionID:     session.ID,
		ManualPartnerName: "Bu Siti",
		ProductName:       "Risol Mayo",
		InitialStock:      50,
		BasePrice:         dec("1000"),
		MarkupPercentage:  50,
	}, user.ID.String())
	require.NoError(t, err)

	t.Run("rejects missing item count", func(t *testing.T) {
		_, err := svc.CloseSession(session.ID, &CloseSessionRequest{
			ActualCash: dec("100000"),
			Items:      []ItemCount{},
		}, user.ID.String())
		assert.ErrorIs(t, err, ErrMissingItemCount)
		assert.ErrorContains(t, err, "Risol Mayo")
	})

	t.Run("rejects negative remaining stock", func(t *testing.T) {
		_, err := svc.CloseSession(session.ID, &CloseSessionRequest{
			ActualCash: dec("100000"),
			Items:      []ItemCount{{ItemID: item.ID, RemainingStock: -1}},
		}, user.ID.String())
		assert.ErrorIs(t, err, ErrNegativeRemainingStock)
	})

	t.Run("rejects remaining stock above initial", func(t *testing.T) {
		_, err := svc.CloseSession(session.ID, &CloseSessionRequest{
			ActualCash: dec("100000"),
			Items:      []ItemCount{{ItemID: item.ID, RemainingStock: 51}},
		}, user.ID.String())
		assert.ErrorIs(t, err, ErrExcessRemainingStock)
	})

	t.Run("failed validation leaves everything open", func(t *testing.T) {
		var stored model.ConsignmentItem
		require.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
		assert.Equal(t, model.ItemStatusOpen, stored.Status)
		assert.Equal(t, 50, stored.RemainingStock)

		var storedSession model.ShopSession
		require.NoError(t, db.First(&storedSession, "id = ?", session.ID).Error)
		assert.Equal(t, model.SessionStatusOpen, storedSession.Status)
	})

	t.Run("reconciles and closes", func(t *testing.T) {
		report, err := svc.CloseSession(session.ID, &CloseSessionRequest{
			ActualCash: dec("159500"),
			Items:      []ItemCount{{ItemID: item.ID, RemainingStock: 10, Disposition: model.DispositionReturned}},
		}, user.ID.String())
		require.NoError(t, err)

		assert.True(t, report.TotalRevenue.Equal(dec("60000")), "revenue: %s", report.TotalRevenue)
		assert.True(t, report.TotalProfit.Equal(dec("20000")), "profit: %s", report.TotalProfit)
		assert.True(t, report.ExpectedCash.Equal(dec("160000")), "expected: %s", report.ExpectedCash)
		assert.True(t, report.CashDiscrepancy.Equal(dec("-500")), "discrepancy: %s", report.CashDiscrepancy)

		require.Len(t, report.Items, 1)
		assert.Equal(t, 40, report.Items[0].QuantitySold)

		var stored model.ConsignmentItem
		require.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
		assert.Equal(t, model.ItemStatusClosed, stored.Status)
		assert.Equal(t, 10, stored.RemainingStock)
		assert.Equal(t, 40, stored.QuantitySold)
		assert.True(t, stored.TotalRevenue.Equal(dec("60000")))
		assert.True(t, stored.TotalProfit.Equal(dec("20000")))
		assert.Equal(t, model.DispositionReturned, stored.Disposition)

		var storedSession model.ShopSession
		require.NoError(t, db.First(&storedSession, "id = ?", session.ID).Error)
		assert.Equal(t, model.SessionStatusClosed, storedSession.Status)
		require.NotNil(t, storedSession.ClosedAt)
		require.NotNil(t, storedSession.ActualCash)
		assert.True(t, storedSession.ActualCash.Equal(dec("159500")))
		assert.Contains(t, storedSession.Notes, "Rp 60.000")
		assert.Contains(t, storedSession.Notes, "-Rp 500")

		assert.Eventually(t, func() bool {
			entries, err := logRepo.FindBySubject("shop_session", session.ID)
			if err != nil {
				return false
			}
			for _, e := range entries {
				if e.EventName == "Shop Closed" {
					return true
				}
			}
			return false
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("second close is rejected", func(t *testing.T) {
		_, err := svc.CloseSession(session.ID, &CloseSessionRequest{
			ActualCash: dec("159500"),
			Items:      []ItemCount{{ItemID: item.ID, RemainingStock: 10}},
		}, user.ID.String())
		assert.ErrorIs(t, err, ErrSessionNotOpen)
	})
}

func TestCloseSessionTwoItems(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newShopService(t, db)
	user := createTestUser(t, db, "op@example.com")

	partner := &model.Partner{Name: "Bu Siti", IsActive: true}
	require.NoError(t, db.Create(partner).Error)

	session, err := svc.OpenSession(user.ID, dec("100000"))
	require.NoError(t, err)

	risol, err := svc.AddItem(&AddItemRequest{
		ShopSessionID:    session.ID,
		PartnerID:        &partner.ID,
		ProductName:      "Risol Mayo",
		InitialStock:     50,
		BasePrice:        dec("1000"),
		MarkupPercentage: 50,
	}, user.ID.String())
	require.NoError(t, err)

	lemper, err := svc.AddItem(&AddItemRequest{
		ShopSessionID:     session.ID,
		ManualPartnerName: "Pak Budi",
		ProductName:       "Lemper Ayam",
		InitialStock:      20,
		BasePrice:         dec("2000"),
		MarkupPercentage:  25,
	}, user.ID.String())
	require.NoError(t, err)

	// counts submitted in the reverse of registration order
	report, err := svc.CloseSession(session.ID, &CloseSessionRequest{
		ActualCash: dec("200000"),
		Items: []ItemCount{
			{ItemID: lemper.ID, RemainingStock: 5},
			{ItemID: risol.ID, RemainingStock: 10},
		},
	}, user.ID.String())
	require.NoError(t, err)

	require.Len(t, report.Items, 2)
	byName := make(map[string]ReconciliationItem, 2)
	for _, ri := range report.Items {
		byName[ri.ProductName] = ri
	}

	// risol: 40 sold at 1500 (margin 500)
	r := byName["Risol Mayo"]
	assert.Equal(t, 40, r.QuantitySold)
	assert.True(t, r.Revenue.Equal(dec("60000")), "risol revenue: %s", r.Revenue)
	assert.True(t, r.Profit.Equal(dec("20000")), "risol profit: %s", r.Profit)
	assert.Equal(t, "Bu Siti", r.PartnerName)

	// lemper: 15 sold at 2500 (margin 500)
	l := byName["Lemper Ayam"]
	assert.Equal(t, 15, l.QuantitySold)
	assert.True(t, l.Revenue.Equal(dec("37500")), "lemper revenue: %s", l.Revenue)
	assert.True(t, l.Profit.Equal(dec("7500")), "lemper profit: %s", l.Profit)
	assert.Equal(t, "Pak Budi", l.PartnerName)

	// totals are the exact sum across items
	assert.True(t, report.TotalRevenue.Equal(dec("97500")), "revenue: %s", report.TotalRevenue)
	assert.True(t, report.TotalProfit.Equal(dec("27500")), "profit: %s", report.TotalProfit)
	assert.True(t, report.ExpectedCash.Equal(dec("197500")), "expected: %s", report.ExpectedCash)
	assert.True(t, report.CashDiscrepancy.Equal(dec("2500")), "discrepancy: %s", report.CashDiscrepancy)

	// both rows frozen with their own figures
	var stored model.ConsignmentItem
	require.NoError(t, db.First(&stored, "id = ?", lemper.ID).Error)
	assert.Equal(t, model.ItemStatusClosed, stored.Status)
	assert.True(t, stored.TotalRevenue.Equal(dec("37500")))
}

func TestCloseSessionWithoutItems(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newShopService(t, db)
	user := createTestUser(t, db, "op@example.com")

	session, err := svc.OpenSession(user.ID, dec("50000"))
	require.NoError(t, err)

	_, err = svc.CloseSession(session.ID, &CloseSessionRequest{
		ActualCash: dec("50000"),
	}, user.ID.String())
	assert.ErrorIs(t, err, ErrNoOpenItems)
}

func TestCloseSessionEverythingSold(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newShopService(t, db)
	user := createTestUser(t, db, "op@example.com")

	session, err := svc.OpenSession(user.ID, dec("0"))
	require.NoError(t, err)

	item, err := svc.AddItem(&AddItemRequest{
		ShopSessionID:    session.ID,
		ProductName:      "Donat",
		InitialStock:     12,
		BasePrice:        dec("2000"),
		MarkupPercentage: 25,
	}, user.ID.String())
	require.NoError(t, err)

	report, err := svc.CloseSession(session.ID, &CloseSessionRequest{
		ActualCash: dec("30000"),
		Items:      []ItemCount{{ItemID: item.ID, RemainingStock: 0}},
	}, user.ID.String())
	require.NoError(t, err)

	// 12 * 2500 = 30000 revenue, 12 * 500 = 6000 profit, no discrepancy
	assert.True(t, report.TotalRevenue.Equal(dec("30000")))
	assert.True(t, report.TotalProfit.Equal(dec("6000")))
	assert.True(t, report.CashDiscrepancy.IsZero())
}

func TestGetItemsByDateRange(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newShopService(t, db)
	user := createTestUser(t, db, "op@example.com")

	session, err := svc.OpenSession(user.ID, dec("10000"))
	require.NoError(t, err)

	_, err = svc.AddItem(&AddItemRequest{
		ShopSessionID: session.ID,
		ProductName:   "Pastel",
		InitialStock:  10,
		BasePrice:     dec("1500"),
	}, user.ID.String())
	require.NoError(t, err)

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	items, err := svc.GetItemsByDateRange(dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pastel", items[0].ProductName)

	// yesterday is empty
	items, err = svc.GetItemsByDateRange(dayStart.AddDate(0, 0, -1), dayStart.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetActiveSession(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newShopService(t, db)
	user := createTestUser(t, db, "op@example.com")

	_, err := svc.GetActiveSession(user.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	opened, err := svc.OpenSession(user.ID, dec("10000"))
	require.NoError(t, err)

	active, err := svc.GetActiveSession(user.ID)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, active.ID)
}
