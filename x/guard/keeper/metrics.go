package keeper

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/DorisUkamaka/StacksGuard/x/guard/types"
)

// Metrics holds the Prometheus collectors for the guard module.
type Metrics struct {
	Operations        *prometheus.CounterVec
	ClaimsResolved    *prometheus.CounterVec
	PremiumsCollected prometheus.Counter
	ProtocolFees      prometheus.Counter
}

// NewMetrics registers the module collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stacksguard",
			Subsystem: types.ModuleName,
			Name:      "operations_total",
			Help:      "Mutating operations by name and outcome code.",
		}, []string{"operation", "outcome"}),
		ClaimsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stacksguard",
			Subsystem: types.ModuleName,
			Name:      "claims_resolved_total",
			Help:      "Resolved claims by final status.",
		}, []string{"status"}),
		PremiumsCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stacksguard",
			Subsystem: types.ModuleName,
			Name:      "premiums_collected_base_units_total",
			Help:      "Premiums charged on issued policies, in base units.",
		}),
		ProtocolFees: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stacksguard",
			Subsystem: types.ModuleName,
			Name:      "protocol_fees_base_units_total",
			Help:      "Protocol share of premiums, in base units.",
		}),
	}
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome(err)).Inc()
}

// outcome maps an error onto a low-cardinality label: "ok", the registered
// error description, or "internal".
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var coded *errorsmod.Error
	if errors.As(err, &coded) && coded.Codespace() == types.ModuleName {
		return coded.Error()
	}
	return "internal"
}
