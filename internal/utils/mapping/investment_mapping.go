package mapping

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
)

// ToModelInvestment converts domain InvestmentProperties to a model row and its ordered lot rows
func ToModelInvestment(d domain.InvestmentProperties) (models.InvestmentProperties, []models.Lot) {
	lots := make([]models.Lot, len(d.Lots))
	for i, l := range d.Lots {
		lots[i] = models.Lot{
			AccountID:     d.AccountID,
			Seq:           i,
			LotDate:       l.LotDate.Time(),
			Quantity:      l.Quantity,
			PricePerShare: l.PricePerShare,
			Amount:        l.Amount,
		}
	}
	return models.InvestmentProperties{
		AccountID:       d.AccountID,
		TickerSymbol:    d.TickerSymbol,
		Quantity:        d.Quantity,
		CostBasisMethod: string(d.CostBasisMethod),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, lots
}

// ToDomainInvestment converts a model row and its lots (ordered by Seq) to domain InvestmentProperties
func ToDomainInvestment(m models.InvestmentProperties, lots []models.Lot) domain.InvestmentProperties {
	d := domain.InvestmentProperties{
		AccountID:       m.AccountID,
		TickerSymbol:    m.TickerSymbol,
		Quantity:        m.Quantity,
		CostBasisMethod: domain.CostBasisMethod(m.CostBasisMethod),
		Lots:            make(domain.Lots, len(lots)),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	for i, l := range lots {
		d.Lots[i] = domain.Lot{
			LotDate:       domain.DateOf(l.LotDate),
			Quantity:      l.Quantity,
			PricePerShare: l.PricePerShare,
			Amount:        l.Amount,
		}
	}
	return d
}
