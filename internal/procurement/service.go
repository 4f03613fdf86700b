package procurement

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetPO(ctx context.Context, id int64) (PurchaseOrder, []POLine, error)
	List(ctx context.Context, limit, offset int, filters ListFilters) ([]PurchaseOrder, int, error)
	ListByDateRange(ctx context.Context, start, end time.Time, supplierID *int64) ([]PurchaseOrder, map[int64][]POLine, error)
	OpenQuantityForMaterial(ctx context.Context, materialID int64) (float64, error)
}

// CacheInvalidator bumps downstream caches after a mutation.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// ListFilters narrows PO listings.
type ListFilters struct {
	Status     PurchaseStatus
	SupplierID int64
}

// Service orchestrates purchase order flows.
type Service struct {
	repo   RepositoryPort
	cache  CacheInvalidator
	logger *slog.Logger
}

// NewService constructs procurement service. cache may be nil when no
// downstream cache is wired.
func NewService(repo RepositoryPort, cache CacheInvalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// CreatePOInput describes creation payload.
type CreatePOInput struct {
	Number       string
	SupplierID   int64
	OrderDate    time.Time
	DeliveryDate time.Time
	Note         string
	Lines        []POLineInput
}

// POLineInput describes a requested line.
type POLineInput struct {
	MaterialID int64
	Name       string
	Qty        float64
	Price      float64
}

// CreatePurchaseOrder persists PO header and lines in PLANNING status.
func (s *Service) CreatePurchaseOrder(ctx context.Context, input CreatePOInput) (PurchaseOrder, error) {
	if len(input.Lines) == 0 {
		return PurchaseOrder{}, fmt.Errorf("%w: minimal 1 line", ErrValidation)
	}
	if input.SupplierID == 0 {
		return PurchaseOrder{}, fmt.Errorf("%w: supplier required", ErrValidation)
	}
	if input.Number == "" {
		input.Number = generateNumber("PO")
	}
	if input.OrderDate.IsZero() {
		input.OrderDate = time.Now()
	}

	var total float64
	for _, line := range input.Lines {
		if line.MaterialID == 0 || line.Qty <= 0 || line.Price < 0 {
			return PurchaseOrder{}, ErrValidation
		}
		total += line.Qty * line.Price
	}

	po := PurchaseOrder{
		Number:       input.Number,
		SupplierID:   input.SupplierID,
		Status:       StatusPlanning,
		OrderDate:    input.OrderDate,
		DeliveryDate: input.DeliveryDate,
		Total:        total,
		Note:         input.Note,
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		poID, err := tx.CreatePO(ctx, po)
		if err != nil {
			return err
		}
		po.ID = poID
		for _, line := range input.Lines {
			if err := tx.InsertPOLine(ctx, POLine{POID: poID, MaterialID: line.MaterialID, Name: line.Name, Qty: line.Qty, Price: line.Price}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	s.bumpCache(ctx)
	return po, nil
}

// UpdateStatus transitions a PO along the workflow.
func (s *Service) UpdateStatus(ctx context.Context, poID int64, status PurchaseStatus) error {
	po, _, err := s.repo.GetPO(ctx, poID)
	if err != nil {
		return err
	}
	if !CanTransition(po.Status, status) {
		return ErrInvalidState
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdatePOStatus(ctx, poID, status)
	})
	if err != nil {
		return err
	}
	s.bumpCache(ctx)
	return nil
}

// GetPurchaseOrder fetches one PO with lines.
func (s *Service) GetPurchaseOrder(ctx context.Context, poID int64) (PurchaseOrder, []POLine, error) {
	return s.repo.GetPO(ctx, poID)
}

// ListPurchaseOrders lists POs for the given filters.
func (s *Service) ListPurchaseOrders(ctx context.Context, limit, offset int, filters ListFilters) ([]PurchaseOrder, int, error) {
	return s.repo.List(ctx, limit, offset, filters)
}

// ListByDateRange exposes the date-range query used by the timeline.
func (s *Service) ListByDateRange(ctx context.Context, start, end time.Time, supplierID *int64) ([]PurchaseOrder, map[int64][]POLine, error) {
	return s.repo.ListByDateRange(ctx, start, end, supplierID)
}

// OpenQuantityForMaterial sums in-flight quantities for a material.
func (s *Service) OpenQuantityForMaterial(ctx context.Context, materialID int64) (float64, error) {
	return s.repo.OpenQuantityForMaterial(ctx, materialID)
}

func (s *Service) bumpCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("bump planning cache", slog.Any("error", err))
	}
}

func generateNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
