package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resto",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resto",
			Name:      "reservations_created_total",
			Help:      "Reservations accepted by the conflict engine.",
		},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resto",
			Name:      "reservation_conflicts_total",
			Help:      "Reservation attempts rejected because of a time conflict.",
		},
	)

	ordersClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resto",
			Name:      "orders_closed_total",
			Help:      "Orders settled and marked paid.",
		},
	)

	revenue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resto",
			Name:      "revenue_total",
			Help:      "Total amount of closed orders.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reservationsCreated, reservationConflicts, ordersClosed, revenue)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncReservationsCreated() { reservationsCreated.Inc() }

func IncReservationConflicts() { reservationConflicts.Inc() }

// ObserveOrderClosed records a settled order and its total.
func ObserveOrderClosed(total float64) {
	ordersClosed.Inc()
	if total > 0 {
		revenue.Add(total)
	}
}
