package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// DefaultMonthlyFee cuota mensual si la configuración no define otra.
var DefaultMonthlyFee = decimal.NewFromInt(250)

const paymentResource = "pago"

// GenerationResult resumen de una ejecución de GenerateForAllCompanies.
type GenerationResult struct {
	Year      int
	Companies int
	Created   int
	Skipped   int
}

// GeneratorUseCase genera las 12 cuotas del año para cada empresa cliente.
type GeneratorUseCase struct {
	payments  repository.PaymentRepository
	companies repository.CompanyRepository
	fee       decimal.Decimal
	log       *logger.Logger
	metrics   Metrics
}

// NewGeneratorUseCase construye el caso de uso. Una cuota no positiva usa DefaultMonthlyFee.
func NewGeneratorUseCase(
	payments repository.PaymentRepository,
	companies repository.CompanyRepository,
	fee decimal.Decimal,
	log *logger.Logger,
	metrics Metrics,
) *GeneratorUseCase {
	if !fee.IsPositive() {
		fee = DefaultMonthlyFee
	}
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &GeneratorUseCase{
		payments:  payments,
		companies: companies,
		fee:       fee,
		log:       log.Named("payments"),
		metrics:   metrics,
	}
}

// GenerateForAllCompanies crea, para cada empresa salvo la dueña de la plataforma, una cuota
// impaga por cada mes del año de now. Es idempotente: una cuota existente (o insertada en
// paralelo por otra instancia) se omite.
func (uc *GeneratorUseCase) GenerateForAllCompanies(ctx context.Context, now time.Time) (GenerationResult, error) {
	year := now.UTC().Year()
	res := GenerationResult{Year: year}

	companies, err := uc.companies.ListAll(ctx)
	if err != nil {
		return res, fmt.Errorf("listar empresas: %w", err)
	}

	var errs []error
	for _, c := range companies {
		if c.IsPlatformOwner {
			continue
		}
		res.Companies++
		created, skipped, err := uc.generateForCompany(ctx, c.ID, year)
		res.Created += created
		res.Skipped += skipped
		if err != nil {
			uc.log.Error().Err(err).Int64("company_id", c.ID).Int("year", year).Msg("error generando cuotas")
			errs = append(errs, fmt.Errorf("empresa %d: %w", c.ID, err))
		}
	}

	uc.metrics.PaymentsGenerated(res.Created, res.Skipped)
	uc.log.Info().
		Int("year", year).
		Int("companies", res.Companies).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Msg("generación de cuotas mensuales")
	return res, errors.Join(errs...)
}

func (uc *GeneratorUseCase) generateForCompany(ctx context.Context, companyID int64, year int) (created, skipped int, err error) {
	for _, m := range entity.Months {
		exists, err := uc.payments.ExistsByCompanyAndPeriod(ctx, companyID, m, year)
		if err != nil {
			return created, skipped, err
		}
		if exists {
			skipped++
			continue
		}
		date, _ := entity.FirstDayOf(year, m)
		p := &entity.Payment{
			CompanyID:   companyID,
			Month:       m,
			Year:        year,
			Amount:      uc.fee,
			PaymentDate: date,
		}
		if err := uc.payments.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				skipped++
				continue
			}
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}

// ListForCurrentTenant lista las cuotas del año. La dueña de la plataforma ve las de todas las empresas.
func (uc *GeneratorUseCase) ListForCurrentTenant(ctx context.Context, companyID int64, year int) (*dto.PaymentListResponse, error) {
	owner, err := uc.isPlatformOwner(ctx, companyID)
	if err != nil {
		return nil, err
	}
	var list []*entity.Payment
	if owner {
		list, err = uc.payments.ListAll(ctx, year)
	} else {
		list, err = uc.payments.ListByCompany(ctx, companyID, year)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToPaymentResponse(p))
	}
	return &dto.PaymentListResponse{Items: items}, nil
}

// FindByID NotFound si no existe o es de otra empresa (salvo para la dueña de la plataforma).
func (uc *GeneratorUseCase) FindByID(ctx context.Context, companyID, id int64) (*dto.PaymentResponse, error) {
	p, err := uc.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFound(paymentResource, id)
	}
	if p.CompanyID != companyID {
		owner, err := uc.isPlatformOwner(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if !owner {
			return nil, domain.NewNotFound(paymentResource, id)
		}
	}
	return ToPaymentResponse(p), nil
}

func (uc *GeneratorUseCase) isPlatformOwner(ctx context.Context, companyID int64) (bool, error) {
	c, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return false, err
	}
	return c != nil && c.IsPlatformOwner, nil
}

// ToPaymentResponse mapea la entidad al DTO de respuesta.
func ToPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	r := &dto.PaymentResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Month:       string(p.Month),
		Year:        p.Year,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate.Format(dto.DateLayout),
		Paid:        p.Paid,
	}
	if p.GatewayChargeID != nil {
		r.GatewayChargeID = *p.GatewayChargeID
	}
	return r
}
