package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/invoicing"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/clock"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

const (
	// maxNumberAttempts reintentos de numeración ante choque con la restricción única.
	maxNumberAttempts = 3
	recentLimit       = 3
	invoiceResource   = "factura"
)

// InvoiceUseCase ciclo de vida de facturas de compra y venta de un tenant.
type InvoiceUseCase struct {
	repo    repository.InvoiceRepository
	tx      TxRunner
	locker  NumberLocker
	clock   clock.Clock
	log     *logger.Logger
	metrics Metrics
}

// NewInvoiceUseCase construye el caso de uso. log y metrics pueden ser nil.
func NewInvoiceUseCase(
	repo repository.InvoiceRepository,
	tx TxRunner,
	locker NumberLocker,
	clk clock.Clock,
	log *logger.Logger,
	metrics Metrics,
) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &InvoiceUseCase{
		repo:    repo,
		tx:      tx,
		locker:  locker,
		clock:   clk,
		log:     log.Named("invoices"),
		metrics: metrics,
	}
}

// Create registra una factura AWAITING_APPROVAL con el siguiente número de (empresa, tipo)
// y la fecha de hoy. Cabecera y líneas se guardan en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID int64, invoiceType entity.InvoiceType, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if !invoiceType.Valid() {
		return nil, fmt.Errorf("tipo de factura %q: %w", invoiceType, domain.ErrInvalidInput)
	}
	lines, err := linesFromRequest(in.Lines)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	inv := &entity.Invoice{
		CompanyID:    companyID,
		Type:         invoiceType,
		Status:       entity.InvoiceStatusAwaitingApproval,
		Date:         clock.Today(uc.clock),
		Counterparty: in.Counterparty,
		Description:  in.Description,
		Lines:        lines,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := invoicing.ApplyTotals(inv); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = uc.createNumbered(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= maxNumberAttempts {
			return nil, err
		}
		uc.metrics.InvoiceNumberConflict(invoiceType)
		uc.log.Warn().
			Int64("company_id", companyID).
			Str("invoice_type", string(invoiceType)).
			Str("invoice_no", inv.InvoiceNo).
			Int("attempt", attempt).
			Msg("número de factura ya usado, reintentando")
	}

	uc.metrics.InvoiceCreated(invoiceType)
	uc.log.Info().
		Int64("company_id", companyID).
		Int64("invoice_id", inv.ID).
		Str("invoice_no", inv.InvoiceNo).
		Str("total", inv.Total.StringFixed(invoicing.MoneyScale)).
		Msg("factura creada")
	return toInvoiceResponse(inv), nil
}

// createNumbered lee la última factura, asigna el siguiente número e inserta cabecera y
// líneas, todo bajo el lock de (empresa, tipo).
func (uc *InvoiceUseCase) createNumbered(ctx context.Context, inv *entity.Invoice) error {
	unlock, err := uc.locker.Lock(ctx, numberLockKey(inv.CompanyID, inv.Type))
	if err != nil {
		return fmt.Errorf("lock de numeración: %w", err)
	}
	defer unlock()

	return uc.tx.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		last, err := repo.GetLastByCompanyAndType(ctx, inv.CompanyID, inv.Type)
		if err != nil {
			return err
		}
		no, err := invoicing.NextInvoiceNumber(last, inv.Type)
		if err != nil {
			return err
		}
		inv.ID = 0
		inv.InvoiceNo = no
		if err := repo.Create(ctx, inv); err != nil {
			return err
		}
		return createLines(ctx, repo, inv)
	})
}

// Prepare devuelve el borrador del formulario de nueva factura: siguiente número y fecha de hoy.
// No reserva el número; Create vuelve a calcularlo.
func (uc *InvoiceUseCase) Prepare(ctx context.Context, companyID int64, invoiceType entity.InvoiceType) (*dto.InvoiceDraftResponse, error) {
	if !invoiceType.Valid() {
		return nil, fmt.Errorf("tipo de factura %q: %w", invoiceType, domain.ErrInvalidInput)
	}
	last, err := uc.repo.GetLastByCompanyAndType(ctx, companyID, invoiceType)
	if err != nil {
		return nil, err
	}
	no, err := invoicing.NextInvoiceNumber(last, invoiceType)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceDraftResponse{
		InvoiceNo: no,
		Type:      string(invoiceType),
		Status:    string(entity.InvoiceStatusAwaitingApproval),
		Date:      clock.Today(uc.clock).Format(dto.DateLayout),
	}, nil
}

// FindByID devuelve la factura con totales recalculados desde sus líneas actuales.
// NotFound si no existe, es de otro tenant o está borrada.
func (uc *InvoiceUseCase) FindByID(ctx context.Context, companyID, id int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadVisible(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.withLines(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// FindAllForCurrentTenant lista las facturas no borradas del tipo, número descendente.
func (uc *InvoiceUseCase) FindAllForCurrentTenant(ctx context.Context, companyID int64, invoiceType entity.InvoiceType) (*dto.InvoiceListResponse, error) {
	if !invoiceType.Valid() {
		return nil, fmt.Errorf("tipo de factura %q: %w", invoiceType, domain.ErrInvalidInput)
	}
	list, err := uc.repo.ListByCompanyAndType(ctx, companyID, invoiceType)
	if err != nil {
		return nil, err
	}
	return uc.toListResponse(ctx, list)
}

// RecentThree devuelve las tres facturas no borradas más recientes del tenant por fecha.
func (uc *InvoiceUseCase) RecentThree(ctx context.Context, companyID int64) (*dto.InvoiceListResponse, error) {
	list, err := uc.repo.ListRecentByCompany(ctx, companyID, recentLimit)
	if err != nil {
		return nil, err
	}
	return uc.toListResponse(ctx, list)
}

// Update reemplaza líneas y campos descriptivos. ID, empresa, tipo, estado, número y fecha
// se toman siempre de la factura guardada, aunque el request traiga otros valores.
func (uc *InvoiceUseCase) Update(ctx context.Context, companyID, id int64, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	existing, err := uc.loadVisible(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	lines, err := linesFromRequest(in.Lines)
	if err != nil {
		return nil, err
	}

	existing.Counterparty = in.Counterparty
	existing.Description = in.Description
	existing.Lines = lines
	existing.UpdatedAt = uc.clock.Now()
	if err := invoicing.ApplyTotals(existing); err != nil {
		return nil, err
	}

	err = uc.tx.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		if err := repo.DeleteLinesByInvoiceID(ctx, existing.ID); err != nil {
			return err
		}
		return createLines(ctx, repo, existing)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("invoice_id", existing.ID).Str("invoice_no", existing.InvoiceNo).Msg("factura actualizada")
	return toInvoiceResponse(existing), nil
}

// SoftDelete marca la factura como borrada. Borrar una ya borrada no es error.
func (uc *InvoiceUseCase) SoftDelete(ctx context.Context, companyID, id int64) error {
	inv, err := uc.loadOwned(ctx, companyID, id)
	if err != nil {
		return err
	}
	if inv.IsDeleted {
		return nil
	}
	inv.IsDeleted = true
	inv.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, inv); err != nil {
		return err
	}
	uc.log.Info().Int64("invoice_id", id).Str("invoice_no", inv.InvoiceNo).Msg("factura borrada")
	return nil
}

// Approve pasa la factura a APPROVED. Aprobar dos veces vuelve a guardar el mismo estado.
func (uc *InvoiceUseCase) Approve(ctx context.Context, companyID, id int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatusApproved
	inv.UpdatedAt = uc.clock.Now()
	if err := uc.withLines(ctx, inv); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("invoice_id", id).Str("invoice_no", inv.InvoiceNo).Msg("factura aprobada")
	return toInvoiceResponse(inv), nil
}

// loadOwned carga la factura del tenant, borrada o no.
func (uc *InvoiceUseCase) loadOwned(ctx context.Context, companyID, id int64) (*entity.Invoice, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, domain.NewNotFound(invoiceResource, id)
	}
	return inv, nil
}

// loadVisible como loadOwned pero las borradas cuentan como inexistentes.
func (uc *InvoiceUseCase) loadVisible(ctx context.Context, companyID, id int64) (*entity.Invoice, error) {
	inv, err := uc.loadOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if inv.IsDeleted {
		return nil, domain.NewNotFound(invoiceResource, id)
	}
	return inv, nil
}

// withLines carga las líneas y recalcula los totales; los guardados no se usan en lecturas.
func (uc *InvoiceUseCase) withLines(ctx context.Context, inv *entity.Invoice) error {
	lines, err := uc.repo.GetLinesByInvoiceID(ctx, inv.ID)
	if err != nil {
		return err
	}
	inv.Lines = lines
	return invoicing.ApplyTotals(inv)
}

func (uc *InvoiceUseCase) toListResponse(ctx context.Context, list []*entity.Invoice) (*dto.InvoiceListResponse, error) {
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		if err := uc.withLines(ctx, inv); err != nil {
			return nil, err
		}
		items = append(items, *toInvoiceResponse(inv))
	}
	return &dto.InvoiceListResponse{Items: items}, nil
}

func createLines(ctx context.Context, repo repository.InvoiceRepository, inv *entity.Invoice) error {
	for _, l := range inv.Lines {
		l.ID = 0
		l.InvoiceID = inv.ID
		if err := repo.CreateLine(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func linesFromRequest(in []dto.InvoiceLineRequest) ([]*entity.InvoiceLine, error) {
	lines := make([]*entity.InvoiceLine, 0, len(in))
	for i, r := range in {
		l := &entity.InvoiceLine{
			ProductName: r.ProductName,
			Price:       r.Price,
			Quantity:    r.Quantity,
			TaxPercent:  r.TaxPercent,
		}
		if err := invoicing.ValidateLine(l); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func numberLockKey(companyID int64, invoiceType entity.InvoiceType) string {
	return fmt.Sprintf("invoice-number:%d:%s", companyID, invoiceType)
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	lines := make([]dto.InvoiceLineResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		// ApplyTotals ya validó las líneas; el error no puede darse aquí.
		tax, _ := invoicing.ComputeLineTax(l)
		lines = append(lines, dto.InvoiceLineResponse{
			ID:          l.ID,
			ProductName: l.ProductName,
			Price:       l.Price,
			Quantity:    l.Quantity,
			TaxPercent:  l.TaxPercent,
			Tax:         tax,
		})
	}
	return &dto.InvoiceResponse{
		ID:           inv.ID,
		CompanyID:    inv.CompanyID,
		InvoiceNo:    inv.InvoiceNo,
		Type:         string(inv.Type),
		Status:       string(inv.Status),
		Date:         inv.Date.Format(dto.DateLayout),
		Counterparty: inv.Counterparty,
		Description:  inv.Description,
		Price:        inv.Price,
		Tax:          inv.Tax,
		Total:        inv.Total,
		Lines:        lines,
	}
}
