package services

import (
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
)

// NewServiceContainer wires every service over one store. rates backs currency conversion
// and may be nil, in which case net worth reports every foreign currency as unknown.
func NewServiceContainer(store portsrepo.Store, rates portsrepo.RateProvider, rateWriter portsrepo.ExchangeRateWriter, options ...ServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:        NewAccountService(store, options...),
		Ledger:         NewLedgerService(store, options...),
		Balance:        NewBalanceService(store, options...),
		Checkpoint:     NewCheckpointService(store, options...),
		OpeningBalance: NewOpeningBalanceService(store, options...),
		Aggregation:    NewAggregationService(store, rates, options...),
		Investment:     NewInvestmentService(store, options...),
		ExchangeRate:   NewExchangeRateService(rateWriter, rates, options...),
	}
}
