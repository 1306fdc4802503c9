package service

import (
	"context"
	"time"

	"metallbau_backend/internal/calculations/repository"
	"metallbau_backend/internal/calculations/transport"
	"metallbau_backend/internal/events"
	"metallbau_backend/platform/apperr"
	"metallbau_backend/platform/config"
	"metallbau_backend/platform/logger"

	"github.com/google/uuid"
)

const quoteValidityDays = 30

// BOMItem is one stored bill-of-materials position used to seed a new
// calculation.
type BOMItem struct {
	ItemType    string
	Description string
	Quantity    float64
	Unit        string
	UnitCost    float64
}

// BOMSource loads stored bill-of-materials positions. Implemented by an
// adapter over the boms module so this package never imports it directly.
type BOMSource interface {
	ItemsForBOM(ctx context.Context, bomID uuid.UUID, companyID uuid.UUID) ([]BOMItem, error)
}

// Store is the persistence surface the service needs. Satisfied by
// *repository.Repository.
type Store interface {
	NextNumber(ctx context.Context, companyID uuid.UUID) (string, error)
	CreateWithItems(ctx context.Context, calc *repository.Calculation, items []repository.CostItem) error
	UpdateWithItems(ctx context.Context, calc *repository.Calculation, items []repository.CostItem, replaceItems bool) error
	GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*repository.Calculation, error)
	GetItemsByCalculationID(ctx context.Context, calculationID uuid.UUID, companyID uuid.UUID) ([]repository.CostItem, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, companyID uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID, companyID uuid.UUID) error
	Transfer(ctx context.Context, id uuid.UUID, companyID uuid.UUID, qw repository.QuoteWriter, build repository.BuildQuoteFunc) (*repository.Calculation, *repository.TransferQuote, error)
}

// Service contains the business logic for calculations.
type Service struct {
	repo             Store
	logger           *logger.Logger
	eventBus         events.Bus
	quoteWriter      repository.QuoteWriter
	bomSource        BOMSource
	zeroRateFallback bool
}

// New creates a new calculations service.
func New(repo Store, log *logger.Logger, bus events.Bus, cfg config.PricingConfig) *Service {
	return &Service{
		repo:             repo,
		logger:           log,
		eventBus:         bus,
		zeroRateFallback: cfg.GetZeroRateFallback(),
	}
}

// SetQuoteWriter injects the quote writer used by the transfer transition.
// Wired by the composition root to avoid a package cycle with the quotes
// module.
func (s *Service) SetQuoteWriter(qw repository.QuoteWriter) {
	s.quoteWriter = qw
}

// SetBOMSource injects the bill-of-materials reader used to seed items.
func (s *Service) SetBOMSource(src BOMSource) {
	s.bomSource = src
}

// Create creates a new calculation with its cost positions. When a BOM ID is
// given its stored positions are seeded in front of any directly supplied
// items.
func (s *Service) Create(ctx context.Context, companyID, actorID uuid.UUID, req transport.CreateCalculationRequest) (*transport.CalculationResponse, error) {
	pricingItems, err := s.assembleItems(ctx, companyID, req.BOMID, req.Items)
	if err != nil {
		return nil, err
	}

	rates := Rates{
		MaterialMarkup: req.MaterialMarkupPercent,
		LaborMarkup:    req.LaborMarkupPercent,
		Overhead:       req.OverheadPercent,
		ProfitMargin:   req.ProfitMarginPercent,
		RiskMargin:     req.RiskMarginPercent,
		Discount:       req.DiscountPercent,
	}
	pricing := ComputePricing(pricingItems, ResolveRates(rates, s.zeroRateFallback))

	number, err := s.repo.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	calc := &repository.Calculation{
		ID:                    uuid.New(),
		CompanyID:             companyID,
		Number:                number,
		Status:                string(transport.CalculationStatusDraft),
		CustomerID:            req.CustomerID,
		MaterialMarkupPercent: req.MaterialMarkupPercent,
		LaborMarkupPercent:    req.LaborMarkupPercent,
		OverheadPercent:       req.OverheadPercent,
		ProfitMarginPercent:   req.ProfitMarginPercent,
		RiskMarginPercent:     req.RiskMarginPercent,
		DiscountPercent:       req.DiscountPercent,
		TotalCost:             pricing.DirectCosts,
		TotalPrice:            pricing.GrandTotal,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	models := itemModels(calc.ID, companyID, pricingItems, now)
	if err := s.repo.CreateWithItems(ctx, calc, models); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.CalculationCreated{
		BaseEvent:     events.NewBaseEvent(),
		CalculationID: calc.ID,
		CompanyID:     companyID,
		Number:        calc.Number,
		SourceBOMID:   req.BOMID,
		ActorID:       actorID,
		TotalCost:     calc.TotalCost,
		TotalPrice:    calc.TotalPrice,
	})

	return s.buildResponse(calc, models), nil
}

// Update replaces a calculation's rates and customer, and when items are
// present, its full item set. Transferred calculations are immutable.
func (s *Service) Update(ctx context.Context, id, companyID, actorID uuid.UUID, req transport.UpdateCalculationRequest) (*transport.CalculationResponse, error) {
	calc, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	if err := ensureEditable(calc.Status); err != nil {
		return nil, err
	}

	calc.CustomerID = req.CustomerID
	calc.MaterialMarkupPercent = req.MaterialMarkupPercent
	calc.LaborMarkupPercent = req.LaborMarkupPercent
	calc.OverheadPercent = req.OverheadPercent
	calc.ProfitMarginPercent = req.ProfitMarginPercent
	calc.RiskMarginPercent = req.RiskMarginPercent
	calc.DiscountPercent = req.DiscountPercent

	now := time.Now()
	var models []repository.CostItem
	if req.Items != nil {
		models = itemModels(calc.ID, companyID, pricingItemsFromRequests(*req.Items), now)
	} else {
		models, err = s.repo.GetItemsByCalculationID(ctx, id, companyID)
		if err != nil {
			return nil, err
		}
	}

	pricing := ComputePricing(pricingItemsFromModels(models), s.resolvedRates(calc))
	calc.TotalCost = pricing.DirectCosts
	calc.TotalPrice = pricing.GrandTotal
	calc.UpdatedAt = now

	if err := s.repo.UpdateWithItems(ctx, calc, models, req.Items != nil); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.CalculationUpdated{
		BaseEvent:     events.NewBaseEvent(),
		CalculationID: calc.ID,
		CompanyID:     companyID,
		Number:        calc.Number,
		ActorID:       actorID,
		TotalCost:     calc.TotalCost,
		TotalPrice:    calc.TotalPrice,
	})

	return s.buildResponse(calc, models), nil
}

// GetByID retrieves a calculation with its items and a freshly computed
// price breakdown.
func (s *Service) GetByID(ctx context.Context, id, companyID uuid.UUID) (*transport.CalculationResponse, error) {
	calc, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByCalculationID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(calc, items), nil
}

// List retrieves calculations with filtering and pagination.
func (s *Service) List(ctx context.Context, companyID uuid.UUID, req transport.ListCalculationsRequest) (*transport.CalculationListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	params := repository.ListParams{
		CompanyID: companyID,
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      page,
		PageSize:  pageSize,
	}
	if req.Status != "" {
		params.Status = &req.Status
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.CalculationResponse, 0, len(result.Items))
	for i := range result.Items {
		calc := &result.Items[i]
		items, err := s.repo.GetItemsByCalculationID(ctx, calc.ID, companyID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *s.buildResponse(calc, items))
	}

	return &transport.CalculationListResponse{
		Items:      responses,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// UpdateStatus reassigns a calculation's lifecycle status. TRANSFERRED is not
// reachable here; only the transfer transition sets it.
func (s *Service) UpdateStatus(ctx context.Context, id, companyID, actorID uuid.UUID, req transport.UpdateCalculationStatusRequest) (*transport.CalculationResponse, error) {
	calc, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	if err := ensureEditable(calc.Status); err != nil {
		return nil, err
	}

	oldStatus := calc.Status
	if err := s.repo.UpdateStatus(ctx, id, companyID, string(req.Status)); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.CalculationStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		CalculationID: calc.ID,
		CompanyID:     companyID,
		Number:        calc.Number,
		OldStatus:     oldStatus,
		NewStatus:     string(req.Status),
		ActorID:       actorID,
	})

	return s.GetByID(ctx, id, companyID)
}

// Delete removes a calculation and its items. Transferred calculations cannot
// be deleted.
func (s *Service) Delete(ctx context.Context, id, companyID, actorID uuid.UUID) error {
	calc, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if err := ensureEditable(calc.Status); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, companyID); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.CalculationDeleted{
		BaseEvent:     events.NewBaseEvent(),
		CalculationID: calc.ID,
		CompanyID:     companyID,
		Number:        calc.Number,
		ActorID:       actorID,
	})

	return nil
}

// Preview runs the pricing pipeline over ad-hoc input without persisting
// anything.
func (s *Service) Preview(req transport.PricingPreviewRequest) transport.PricingResultResponse {
	rates := Rates{
		MaterialMarkup: req.MaterialMarkupPercent,
		LaborMarkup:    req.LaborMarkupPercent,
		Overhead:       req.OverheadPercent,
		ProfitMargin:   req.ProfitMarginPercent,
		RiskMargin:     req.RiskMarginPercent,
		Discount:       req.DiscountPercent,
	}
	pricing := ComputePricing(pricingItemsFromRequests(req.Items), ResolveRates(rates, s.zeroRateFallback))
	return pricingResponse(pricing)
}

// TransferToQuote executes the one-way transfer of a calculation into a sales
// quote. The repository runs the whole transition in one transaction; the
// event fires only after commit.
func (s *Service) TransferToQuote(ctx context.Context, id, companyID, actorID uuid.UUID) (*transport.TransferResponse, error) {
	if s.quoteWriter == nil {
		return nil, apperr.Internal("quote writer not configured")
	}

	build := func(calc *repository.Calculation, items []repository.CostItem, quoteNumber string) (repository.TransferQuote, []repository.TransferQuoteItem) {
		pricingItems := pricingItemsFromModels(items)
		rates := s.resolvedRates(calc)
		pricing := ComputePricing(pricingItems, rates)
		lines := DeriveQuoteLines(pricingItems, rates)

		now := time.Now()
		quote := repository.TransferQuote{
			ID:            uuid.New(),
			CompanyID:     calc.CompanyID,
			CalculationID: calc.ID,
			CustomerID:    *calc.CustomerID,
			Number:        quoteNumber,
			Status:        "DRAFT",
			ValidUntil:    now.AddDate(0, 0, quoteValidityDays),
			Subtotal:      pricing.NetTotal,
			VATAmount:     pricing.VATAmount,
			Total:         pricing.GrandTotal,
		}

		quoteItems := make([]repository.TransferQuoteItem, len(lines))
		for i, line := range lines {
			quoteItems[i] = repository.TransferQuoteItem{
				ID:          uuid.New(),
				Position:    line.Position,
				Description: line.Description,
				Quantity:    line.Quantity,
				Unit:        line.Unit,
				UnitPrice:   line.UnitPrice,
				Discount:    line.Discount,
				Total:       line.Total,
			}
		}
		return quote, quoteItems
	}

	calc, quote, err := s.repo.Transfer(ctx, id, companyID, s.quoteWriter, build)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.CalculationTransferred{
		BaseEvent:     events.NewBaseEvent(),
		CalculationID: calc.ID,
		CompanyID:     companyID,
		Number:        calc.Number,
		QuoteID:       quote.ID,
		QuoteNumber:   quote.Number,
		ActorID:       actorID,
		Total:         quote.Total,
	})

	return &transport.TransferResponse{
		CalculationID: calc.ID,
		Status:        transport.CalculationStatus(calc.Status),
		QuoteID:       quote.ID,
		QuoteNumber:   quote.Number,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// ensureEditable rejects writes to a transferred calculation. TRANSFERRED is
// terminal: edits, deletes and status changes all stop here.
func ensureEditable(status string) error {
	if status == string(transport.CalculationStatusTransferred) {
		return apperr.InvalidState("calculation is transferred and can no longer be modified")
	}
	return nil
}

func (s *Service) assembleItems(ctx context.Context, companyID uuid.UUID, bomID *uuid.UUID, requested []transport.CostItemRequest) ([]PricingItem, error) {
	var items []PricingItem

	if bomID != nil {
		if s.bomSource == nil {
			return nil, apperr.Internal("bom source not configured")
		}
		bomItems, err := s.bomSource.ItemsForBOM(ctx, *bomID, companyID)
		if err != nil {
			return nil, err
		}
		for _, bi := range bomItems {
			items = append(items, PricingItem{
				Type:        ItemType(bi.ItemType),
				Description: bi.Description,
				Quantity:    bi.Quantity,
				Unit:        bi.Unit,
				UnitCost:    bi.UnitCost,
			})
		}
	}

	items = append(items, pricingItemsFromRequests(requested)...)
	for i := range items {
		items[i].SortOrder = i
		items[i].Total = ItemTotal(items[i])
	}
	return items, nil
}

func (s *Service) resolvedRates(calc *repository.Calculation) ResolvedRates {
	return ResolveRates(Rates{
		MaterialMarkup: calc.MaterialMarkupPercent,
		LaborMarkup:    calc.LaborMarkupPercent,
		Overhead:       calc.OverheadPercent,
		ProfitMargin:   calc.ProfitMarginPercent,
		RiskMargin:     calc.RiskMarginPercent,
		Discount:       calc.DiscountPercent,
	}, s.zeroRateFallback)
}

func pricingItemsFromRequests(reqs []transport.CostItemRequest) []PricingItem {
	items := make([]PricingItem, len(reqs))
	for i, r := range reqs {
		items[i] = PricingItem{
			Type:        ItemType(r.Type),
			Description: r.Description,
			Quantity:    r.Quantity,
			Unit:        r.Unit,
			UnitCost:    r.UnitCost,
			Hours:       r.Hours,
			HourlyRate:  r.HourlyRate,
			SortOrder:   i,
		}
		items[i].Total = ItemTotal(items[i])
	}
	return items
}

func pricingItemsFromModels(models []repository.CostItem) []PricingItem {
	items := make([]PricingItem, len(models))
	for i, m := range models {
		items[i] = PricingItem{
			Type:        ItemType(m.ItemType),
			Description: m.Description,
			Quantity:    m.Quantity,
			Unit:        m.Unit,
			UnitCost:    m.UnitCost,
			Hours:       m.Hours,
			HourlyRate:  m.HourlyRate,
			Total:       m.Total,
			SortOrder:   m.SortOrder,
		}
	}
	return items
}

func itemModels(calculationID, companyID uuid.UUID, items []PricingItem, now time.Time) []repository.CostItem {
	models := make([]repository.CostItem, len(items))
	for i, it := range items {
		models[i] = repository.CostItem{
			ID:            uuid.New(),
			CalculationID: calculationID,
			CompanyID:     companyID,
			ItemType:      string(it.Type),
			Description:   it.Description,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			UnitCost:      it.UnitCost,
			Hours:         it.Hours,
			HourlyRate:    it.HourlyRate,
			Total:         it.Total,
			SortOrder:     i,
			CreatedAt:     now,
		}
	}
	return models
}

func (s *Service) buildResponse(calc *repository.Calculation, items []repository.CostItem) *transport.CalculationResponse {
	pricingItems := pricingItemsFromModels(items)
	pricing := ComputePricing(pricingItems, s.resolvedRates(calc))

	itemResponses := make([]transport.CostItemResponse, len(items))
	for i, it := range items {
		itemResponses[i] = transport.CostItemResponse{
			ID:          it.ID,
			Type:        it.ItemType,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitCost:    it.UnitCost,
			Hours:       it.Hours,
			HourlyRate:  it.HourlyRate,
			Total:       it.Total,
			SortOrder:   it.SortOrder,
		}
	}

	return &transport.CalculationResponse{
		ID:                    calc.ID,
		Number:                calc.Number,
		Status:                transport.CalculationStatus(calc.Status),
		CustomerID:            calc.CustomerID,
		QuoteID:               calc.QuoteID,
		MaterialMarkupPercent: calc.MaterialMarkupPercent,
		LaborMarkupPercent:    calc.LaborMarkupPercent,
		OverheadPercent:       calc.OverheadPercent,
		ProfitMarginPercent:   calc.ProfitMarginPercent,
		RiskMarginPercent:     calc.RiskMarginPercent,
		DiscountPercent:       calc.DiscountPercent,
		TotalCost:             calc.TotalCost,
		TotalPrice:            calc.TotalPrice,
		Items:                 itemResponses,
		Pricing:               pricingResponse(pricing),
		CreatedAt:             calc.CreatedAt,
		UpdatedAt:             calc.UpdatedAt,
	}
}

func pricingResponse(p PricingResult) transport.PricingResultResponse {
	return transport.PricingResultResponse{
		MaterialCost:         p.MaterialCost,
		LaborCost:            p.LaborCost,
		ExternalCost:         p.ExternalCost,
		DirectCosts:          p.DirectCosts,
		MaterialMarkupAmount: p.MaterialMarkupAmount,
		LaborMarkupAmount:    p.LaborMarkupAmount,
		OverheadAmount:       p.OverheadAmount,
		Subtotal:             p.Subtotal,
		ProfitAmount:         p.ProfitAmount,
		RiskAmount:           p.RiskAmount,
		GrossTotal:           p.GrossTotal,
		DiscountAmount:       p.DiscountAmount,
		NetTotal:             p.NetTotal,
		VATAmount:            p.VATAmount,
		GrandTotal:           p.GrandTotal,
		HourlyRateEffective:  p.HourlyRateEffective,
		MarginPercent:        p.MarginPercent,
	}
}
