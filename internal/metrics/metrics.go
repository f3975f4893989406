package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aquavo/support-backend/internal/models"
)

var (
	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "escalation_evaluations_total",
		Help: "Escalation evaluations by decision and reason",
	}, []string{"escalate", "reason"})

	evaluationScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "escalation_score",
		Help:    "Accumulated escalation score per evaluation",
		Buckets: []float64{0, 20, 30, 50, 60, 80, 100, 150},
	})

	ticketsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "support_tickets_created_total",
		Help: "Support tickets opened by priority",
	}, []string{"priority"})

	ticketTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "support_ticket_transitions_total",
		Help: "Support ticket status transitions by target status",
	}, []string{"status"})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "support_notifications_total",
		Help: "Responder notifications by transport and outcome",
	}, []string{"transport", "outcome"})

	httpRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func ObserveEvaluation(res models.EscalationResult) {
	evaluations.WithLabelValues(strconv.FormatBool(res.ShouldEscalate), string(res.Reason)).Inc()
	evaluationScore.Observe(float64(res.Score))
}

func TicketCreated(p models.Priority) {
	ticketsCreated.WithLabelValues(string(p)).Inc()
}

func TicketTransitioned(s models.TicketStatus) {
	ticketTransitions.WithLabelValues(string(s)).Inc()
}

func NotificationSent(transport string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	notifications.WithLabelValues(transport, outcome).Inc()
}

func ObserveRequest(method, route string, status int, seconds float64) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
