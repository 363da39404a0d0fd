package service

import (
	"errors"
	"fmt"
	"time"

	"go-consign-pos/internal/audit"
	"go-consign-pos/internal/model"
	"go-consign-pos/internal/repository"
	"go-consign-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Error definitions for the session lifecycle. Item-level validation errors
// are wrapped with the offending product name before surfacing.
var (
	ErrNegativeStartCash      = errors.New("start cash cannot be negative")
	ErrActiveSessionExists    = errors.New("active shop session already exists for this operator")
	ErrSessionNotFound        = errors.New("shop session not found")
	ErrSessionNotOpen         = errors.New("shop session is not open")
	ErrNoOpenItems            = errors.New("no open consignment items to reconcile")
	ErrMissingItemCount       = errors.New("missing remaining stock count")
	ErrNegativeRemainingStock = errors.New("remaining stock cannot be negative")
	ErrExcessRemainingStock   = errors.New("remaining stock exceeds initial stock")
	ErrItemNotFound           = errors.New("consignment item not found")
	ErrNegativePrice          = errors.New("price cannot be negative")
	ErrPartnerNotFound        = errors.New("partner not found")
	ErrInvalidDisposition     = errors.New("disposition must be returned or donated")
)

type ShopService interface {
	OpenSession(operatorID uuid.UUID, startCash decimal.Decimal) (*model.ShopSession, error)
	AddItem(req *AddItemRequest, operatorID string) (*model.ConsignmentItem, error)
	CloseSession(sessionID uuid.UUID, req *CloseSessionRequest, operatorID string) (*ReconciliationReport, error)
	GetActiveSession(operatorID uuid.UUID) (*model.ShopSession, error)
	GetSessionByID(id uuid.UUID) (*model.ShopSession, error)
	GetSessionItems(sessionID uuid.UUID) ([]model.ConsignmentItem, error)
	GetItemsByDateRange(start, end time.Time) ([]model.ConsignmentItem, error)
	ListSessions() ([]model.ShopSession, error)
}

// AddItemRequest registers one product into an open session.
type AddItemRequest struct {
	ShopSessionID     uuid.UUID  `json:"shop_session_id" validate:"uuid_required"`
	PartnerID         *uuid.UUID `json:"partner_id"`
	ManualPartnerName string     `json:"manual_partner_name"`
	ProductName       string     `json:"product_name" validate:"required"`
	InitialStock      int        `json:"initial_stock" validate:"gte=0"`
	BasePrice         decimal.Decimal `json:"base_price"`
	MarkupPercentage  int             `json:"markup_percentage" validate:"gte=0"`
	// SellingPrice, when supplied and positive, overrides the markup
	// derivation. See AddItem.
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	Notes        string           `json:"notes"`
}

// ItemCount is the end-of-day count reported for one consignment item.
type ItemCount struct {
	ItemID         uuid.UUID `json:"item_id" validate:"uuid_required"`
	RemainingStock int       `json:"remaining_stock"`
	Disposition    string    `json:"disposition" validate:"omitempty,oneof=returned donated"`
}

// CloseSessionRequest carries the full end-of-day declaration.
type CloseSessionRequest struct {
	ActualCash decimal.Decimal `json:"actual_cash"`
	Items      []ItemCount     `json:"items" validate:"required,dive"`
}

// ReconciliationItem is the per-product breakdown of a closed session.
type ReconciliationItem struct {
	ItemID         uuid.UUID       `json:"item_id"`
	ProductName    string          `json:"product_name"`
	PartnerName    string          `json:"partner_name,omitempty"`
	InitialStock   int             `json:"initial_stock"`
	RemainingStock int             `json:"remaining_stock"`
	QuantitySold   int             `json:"quantity_sold"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	BasePrice      decimal.Decimal `json:"base_price"`
	Revenue        decimal.Decimal `json:"revenue"`
	Profit         decimal.Decimal `json:"profit"`
}

// ReconciliationReport is returned by CloseSession and rendered by the
// presentation layer.
type ReconciliationReport struct {
	SessionID       uuid.UUID            `json:"session_id"`
	StartCash       decimal.Decimal      `json:"start_cash"`
	ActualCash      decimal.Decimal      `json:"actual_cash"`
	ExpectedCash    decimal.Decimal      `json:"expected_cash"`
	CashDiscrepancy decimal.Decimal      `json:"cash_discrepancy"`
	TotalRevenue    decimal.Decimal      `json:"total_revenue"`
	TotalProfit     decimal.Decimal      `json:"total_profit"`
	Items           []ReconciliationItem `json:"items"`
}

type shopService struct {
	sessionRepo repository.SessionRepository
	itemRepo    repository.ConsignmentRepository
	partnerRepo repository.PartnerRepository
	db          *gorm.DB
	recorder    audit.Recorder
}

func NewShopService(
	sessionRepo repository.SessionRepository,
	itemRepo repository.ConsignmentRepository,
	partnerRepo repository.PartnerRepository,
	db *gorm.DB,
	recorder audit.Recorder,
) ShopService {
	return &shopService{
		sessionRepo: sessionRepo,
		itemRepo:    itemRepo,
		partnerRepo: partnerRepo,
		db:          db,
		recorder:    recorder,
	}
}

// OpenSession starts a cash-drawer shift for an operator. The
// no-active-session check and the insert run in one transaction so a racing
// double-open cannot create two open sessions.
func (s *shopService) OpenSession(operatorID uuid.UUID, startCash decimal.Decimal) (*model.ShopSession, error) {
	if startCash.IsNegative() {
		return nil, ErrNegativeStartCash
	}

	session := &model.ShopSession{
		UserID:    operatorID,
		StartCash: startCash,
		Status:    model.SessionStatusOpen,
		StartedAt: time.Now(),
	}
	session.CreatedBy = operatorID.String()
	session.UpdatedBy = operatorID.String()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.sessionRepo.HasOpenSession(tx, operatorID)
		if err != nil {
			return err
		}
		if exists {
			return ErrActiveSessionExists
		}
		return s.sessionRepo.Create(tx, session)
	})
	if err != nil {
		return nil, err
	}

	go s.recorder.Record("Shop Opened", "shop_session", session.ID, operatorID.String(), map[string]interface{}{
		"start_cash": session.StartCash,
	})

	return session, nil
}

// AddItem registers a product into an open session. The selling price is
// derived from base price and markup; an explicitly supplied positive
// selling price wins over the derivation (the deterministic precedence
// rule for callers that send both).
func (s *shopService) AddItem(req *AddItemRequest, operatorID string) (*model.ConsignmentItem, error) {
	// 1. Struct validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.BasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: base price", ErrNegativePrice)
	}

	// 2. Owning session must be open
	session, err := s.sessionRepo.FindByID(req.ShopSessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsOpen() {
		return nil, ErrSessionNotOpen
	}

	// 3. Optional partner reference, display only
	if req.PartnerID != nil {
		if _, err := s.partnerRepo.FindByID(*req.PartnerID); err != nil {
			return nil, ErrPartnerNotFound
		}
	}

	// 4. Selling price: explicit value wins, markup derivation otherwise
	sellingPrice := model.DeriveSellingPrice(req.BasePrice, req.MarkupPercentage)
	if req.SellingPrice != nil && req.SellingPrice.IsPositive() {
		sellingPrice = *req.SellingPrice
	}

	inputBy, err := uuid.Parse(operatorID)
	if err != nil {
		return nil, errors.New("invalid operator ID")
	}

	sessionID := req.ShopSessionID
	item := &model.ConsignmentItem{
		ShopSessionID:     &sessionID,
		Date:              session.StartedAt,
		PartnerID:         req.PartnerID,
		ManualPartnerName: req.ManualPartnerName,
		ProductName:       req.ProductName,
		InitialStock:      req.InitialStock,
		BasePrice:         req.BasePrice,
		MarkupPercentage:  req.MarkupPercentage,
		SellingPrice:      sellingPrice,
		// Nothing sold yet: the whole consignment is still on the shelf
		RemainingStock: req.InitialStock,
		QuantitySold:   0,
		TotalRevenue:   decimal.Zero,
		TotalProfit:    decimal.Zero,
		Status:         model.ItemStatusOpen,
		Notes:          req.Notes,
		InputByUserID:  inputBy,
	}
	item.CreatedBy = operatorID
	item.UpdatedBy = operatorID

	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// CloseSession reconciles and terminally closes an open session. All
// validation happens before any write; the item updates and the session
// update then commit as one transaction or not at all.
func (s *shopService) CloseSession(sessionID uuid.UUID, req *CloseSessionRequest, operatorID string) (*ReconciliationReport, error) {
	// 1. Session must exist and still be open
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsOpen() {
		return nil, ErrSessionNotOpen
	}

	// 2. There must be something to reconcile
	items, err := s.itemRepo.FindOpenBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoOpenItems
	}

	// 3. Every open item needs a sane count
	counts := make(map[uuid.UUID]ItemCount, len(req.Items))
	for _, c := range req.Items {
		counts[c.ItemID] = c
	}
	for i := range items {
		item := &items[i]
		count, ok := counts[item.ID]
		if !ok {
			return nil, fmt.Errorf("%w for %q", ErrMissingItemCount, item.ProductName)
		}
		if count.RemainingStock < 0 {
			return nil, fmt.Errorf("%w for %q", ErrNegativeRemainingStock, item.ProductName)
		}
		if count.RemainingStock > item.InitialStock {
			return nil, fmt.Errorf("%w for %q (%d > %d)", ErrExcessRemainingStock,
				item.ProductName, count.RemainingStock, item.InitialStock)
		}
		if count.Disposition != model.DispositionNone &&
			count.Disposition != model.DispositionReturned &&
			count.Disposition != model.DispositionDonated {
			return nil, fmt.Errorf("%w for %q", ErrInvalidDisposition, item.ProductName)
		}
	}

	report := &ReconciliationReport{
		SessionID:  sessionID,
		ActualCash: req.ActualCash,
		Items:      make([]ReconciliationItem, 0, len(items)),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Re-read under lock: a concurrent closer must observe the state
		// transition, not repeat it
		locked, err := s.sessionRepo.FindByIDForUpdate(tx, sessionID)
		if err != nil {
			return ErrSessionNotFound
		}
		if !locked.IsOpen() {
			return ErrSessionNotOpen
		}

		totalRevenue := decimal.Zero
		totalProfit := decimal.Zero
		closedAt := time.Now()

		// Per-item results are independent; processing order never
		// changes the totals
		for i := range items {
			item := &items[i]
			count := counts[item.ID]

			quantitySold := item.InitialStock - count.RemainingStock
			qty := decimal.NewFromInt(int64(quantitySold))
			revenue := qty.Mul(item.SellingPrice)
			profit := qty.Mul(item.SellingPrice.Sub(item.BasePrice))

			totalRevenue = totalRevenue.Add(revenue)
			totalProfit = totalProfit.Add(profit)

			if err := s.itemRepo.CloseItem(tx, item.ID, map[string]interface{}{
				"remaining_stock": count.RemainingStock,
				"quantity_sold":   quantitySold,
				"total_revenue":   revenue,
				"total_profit":    profit,
				"status":          model.ItemStatusClosed,
				"disposition":     count.Disposition,
				"updated_by":      operatorID,
			}); err != nil {
				return err
			}

			report.Items = append(report.Items, ReconciliationItem{
				ItemID:         item.ID,
				ProductName:    item.ProductName,
				PartnerName:    item.PartnerDisplayName(),
				InitialStock:   item.InitialStock,
				RemainingStock: count.RemainingStock,
				QuantitySold:   quantitySold,
				SellingPrice:   item.SellingPrice,
				BasePrice:      item.BasePrice,
				Revenue:        revenue,
				Profit:         profit,
			})
		}

		expectedCash := locked.StartCash.Add(totalRevenue)
		discrepancy := req.ActualCash.Sub(expectedCash)

		notes := reconciliationNotes(totalRevenue, totalProfit, expectedCash, req.ActualCash, discrepancy)
		if err := s.sessionRepo.Close(tx, sessionID, req.ActualCash, closedAt, notes, operatorID); err != nil {
			return err
		}

		report.StartCash = locked.StartCash
		report.ExpectedCash = expectedCash
		report.CashDiscrepancy = discrepancy
		report.TotalRevenue = totalRevenue
		report.TotalProfit = totalProfit
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.recorder.Record("Shop Closed", "shop_session", sessionID, operatorID, map[string]interface{}{
		"actual_cash":   report.ActualCash,
		"total_revenue": report.TotalRevenue,
	})

	return report, nil
}

func (s *shopService) GetActiveSession(operatorID uuid.UUID) (*model.ShopSession, error) {
	session, err := s.sessionRepo.FindOpenByUserID(operatorID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *shopService) GetSessionByID(id uuid.UUID) (*model.ShopSession, error) {
	session, err := s.sessionRepo.FindByID(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *shopService) GetSessionItems(sessionID uuid.UUID) ([]model.ConsignmentItem, error) {
	return s.itemRepo.FindBySession(sessionID)
}

// GetItemsByDateRange backs the consignment history view, spanning
// sessions.
func (s *shopService) GetItemsByDateRange(start, end time.Time) ([]model.ConsignmentItem, error) {
	return s.itemRepo.FindByDateRange(start, end)
}

func (s *shopService) ListSessions() ([]model.ShopSession, error) {
	return s.sessionRepo.FindAll()
}

// reconciliationNotes builds the human-readable summary stored on the
// closed session, e.g.
// "Reconciled: revenue Rp 60.000, profit Rp 20.000, expected cash Rp 160.000, counted Rp 159.500, discrepancy -Rp 500"
func reconciliationNotes(revenue, profit, expected, actual, discrepancy decimal.Decimal) string {
	return fmt.Sprintf("Reconciled: revenue %s, profit %s, expected cash %s, counted %s, discrepancy %s",
		model.FormatRupiah(revenue),
		model.FormatRupiah(profit),
		model.FormatRupiah(expected),
		model.FormatRupiah(actual),
		model.FormatRupiahSigned(discrepancy),
	)
}
