package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type SwapMetrics struct {
	poolsInitialized prometheus.Counter
	swapsExecuted    *prometheus.CounterVec
	feesCollected    prometheus.Counter
	solDeposited     prometheus.Counter
	solWithdrawn     prometheus.Counter
	ordersCreated    prometheus.Counter
	rejections       *prometheus.CounterVec
}

var (
	swapOnce     sync.Once
	swapRegistry *SwapMetrics
)

func Swap() *SwapMetrics {
	swapOnce.Do(func() {
		swapRegistry = &SwapMetrics{
			poolsInitialized: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "nftswap_pools_initialized_total",
				Help: "Count of collection pools created.",
			}),
			swapsExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "nftswap_swaps_executed_total",
				Help: "Count of settled swaps by path.",
			}, []string{"path"}),
			feesCollected: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "nftswap_fees_collected_lamports_total",
				Help: "Cumulative swap fees settled, in lamports.",
			}),
			solDeposited: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "nftswap_sol_deposited_lamports_total",
				Help: "Cumulative currency deposited into pools, in lamports.",
			}),
			solWithdrawn: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "nftswap_sol_withdrawn_lamports_total",
				Help: "Cumulative currency withdrawn from pools, in lamports.",
			}),
			ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "nftswap_orders_created_total",
				Help: "Count of swap orders recorded.",
			}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "nftswap_operation_rejections_total",
				Help: "Count of rejected operations by name.",
			}, []string{"op"}),
		}
		prometheus.MustRegister(
			swapRegistry.poolsInitialized,
			swapRegistry.swapsExecuted,
			swapRegistry.feesCollected,
			swapRegistry.solDeposited,
			swapRegistry.solWithdrawn,
			swapRegistry.ordersCreated,
			swapRegistry.rejections,
		)
	})
	return swapRegistry
}

func (m *SwapMetrics) ObservePoolInitialized() {
	if m == nil {
		return
	}
	m.poolsInitialized.Inc()
}

// ObserveSwapExecuted records a settlement. path is "order" for order-backed
// settlements and "direct" for the orderless custody swap.
func (m *SwapMetrics) ObserveSwapExecuted(path string, fee uint64) {
	if m == nil {
		return
	}
	if path == "" {
		path = "unknown"
	}
	m.swapsExecuted.WithLabelValues(path).Inc()
	m.feesCollected.Add(float64(fee))
}

func (m *SwapMetrics) ObserveSolDeposited(amount uint64) {
	if m == nil {
		return
	}
	m.solDeposited.Add(float64(amount))
}

func (m *SwapMetrics) ObserveSolWithdrawn(amount uint64) {
	if m == nil {
		return
	}
	m.solWithdrawn.Add(float64(amount))
}

func (m *SwapMetrics) ObserveOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *SwapMetrics) ObserveRejection(op string) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.rejections.WithLabelValues(op).Inc()
}
