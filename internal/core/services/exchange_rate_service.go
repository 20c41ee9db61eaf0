package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/utils/validation"
	"github.com/google/uuid"
)

type exchangeRateService struct {
	BaseService
	writer portsrepo.ExchangeRateWriter
	rates  portsrepo.RateProvider
}

// NewExchangeRateService creates the exchange rate service.
func NewExchangeRateService(writer portsrepo.ExchangeRateWriter, rates portsrepo.RateProvider, options ...ServiceOption) portssvc.ExchangeRateSvc {
	return &exchangeRateService{BaseService: newBaseService(nil, options...), writer: writer, rates: rates}
}

var _ portssvc.ExchangeRateSvc = (*exchangeRateService)(nil)

func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest) (*domain.ExchangeRate, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !req.Rate.IsPositive() {
		return nil, validationErrorf("rate must be positive")
	}
	effective, err := parseDate("dateEffective", req.DateEffective)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate.Round(domain.RatePlaces),
		DateEffective:    effective,
		AuditFields:      domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.writer.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", rate.FromCurrencyCode), slog.String("to", rate.ToCurrencyCode))
		return nil, err
	}
	s.LogInfo(ctx, "Exchange rate recorded", slog.String("exchange_rate_id", rate.ExchangeRateID))
	return &rate, nil
}

func (s *exchangeRateService) GetExchangeRate(ctx context.Context, from, to string, on domain.Date) (*domain.ExchangeRate, error) {
	rate, ok, err := s.rates.GetRate(ctx, from, to, on)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no %s/%s rate effective on %s", apperrors.ErrNotFound, from, to, on)
	}
	return &domain.ExchangeRate{FromCurrencyCode: from, ToCurrencyCode: to, Rate: rate, DateEffective: on}, nil
}
