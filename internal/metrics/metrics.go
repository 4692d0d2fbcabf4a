// Package metrics содержит Prometheus-метрики CarryDrop.
// В метки не попадают идентификаторы пользователей и бронирований.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/carrydrop/internal/models"
)

var (
	// MembershipRunsTotal считает запуски пересчёта уровней членства по результату.
	MembershipRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carrydrop_membership_recalculation_runs_total",
		Help: "Total number of membership tier recalculation runs, by result.",
	}, []string{"result"})

	// MembershipRoleChangesTotal считает применённые изменения уровней.
	MembershipRoleChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carrydrop_membership_role_changes_total",
		Help: "Total number of committed membership role changes, by from and to role.",
	}, []string{"from", "to"})

	// MembershipRunDuration — длительность одного пересчёта.
	MembershipRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "carrydrop_membership_recalculation_duration_seconds",
		Help:    "Duration of membership tier recalculation runs.",
		Buckets: prometheus.DefBuckets,
	})

	// ReservationsCreatedTotal считает созданные бронирования.
	ReservationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carrydrop_reservations_created_total",
		Help: "Total number of reservations created.",
	})

	// ReservationStatusChangesTotal считает смены статуса по новому статусу.
	ReservationStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carrydrop_reservation_status_changes_total",
		Help: "Total number of reservation status changes, by new status.",
	}, []string{"status"})

	// HTTPRequestsTotal считает HTTP-запросы по методу и коду ответа.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carrydrop_http_requests_total",
		Help: "Total number of HTTP requests, by method and status code.",
	}, []string{"method", "code"})

	// HTTPRequestDuration — длительность обработки HTTP-запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "carrydrop_http_request_duration_seconds",
		Help:    "HTTP request latency, by method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// ObserveMembershipRun фиксирует результат и длительность пересчёта.
func ObserveMembershipRun(err error, started time.Time) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	MembershipRunsTotal.WithLabelValues(result).Inc()
	MembershipRunDuration.Observe(time.Since(started).Seconds())
}

// ObserveRoleChanges учитывает закоммиченные изменения уровней.
func ObserveRoleChanges(changes []models.RoleChange) {
	for _, c := range changes {
		MembershipRoleChangesTotal.WithLabelValues(string(c.From), string(c.To)).Inc()
	}
}

// ObserveHTTPRequest учитывает завершённый HTTP-запрос.
func ObserveHTTPRequest(method string, code int, started time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	HTTPRequestDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
}
