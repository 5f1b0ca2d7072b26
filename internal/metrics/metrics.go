package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "conference_booking",
			Name:      "booking_created_total",
			Help:      "Count of bookings committed.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "conference_booking",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by users.",
		},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "conference_booking",
			Name:      "booking_rejected_total",
			Help:      "Count of rejected booking attempts by reason.",
		},
		[]string{"reason"},
	)

	notificationSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "conference_booking",
			Name:      "notification_sent_total",
			Help:      "Count of quota notifications dispatched by kind.",
		},
		[]string{"kind"},
	)

	notificationFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "conference_booking",
			Name:      "notification_failed_total",
			Help:      "Count of quota notifications that failed delivery.",
		},
		[]string{"kind"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingCancelled, bookingRejected, notificationSent, notificationFailed)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncNotificationSent(kind string) {
	notificationSent.WithLabelValues(kind).Inc()
}

func IncNotificationFailed(kind string) {
	notificationFailed.WithLabelValues(kind).Inc()
}
