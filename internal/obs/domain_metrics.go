package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PaymentWebhookTotal counts inbound payment webhook processing outcomes.
	PaymentWebhookTotal *prometheus.CounterVec
	// RegistrationTotal counts user registration attempts by result.
	RegistrationTotal *prometheus.CounterVec
	// ApplicationSubmitTotal counts job application submissions by result.
	ApplicationSubmitTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PaymentWebhookTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_webhook_total",
			Help:      "Count of processed payment webhooks by outcome.",
		}, []string{"provider", "result"})
		RegistrationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_registration_total",
			Help:      "Count of user registration attempts by result.",
		}, []string{"result"})
		ApplicationSubmitTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_application_total",
			Help:      "Count of job application submissions by result.",
		}, []string{"result"})
		reg.MustRegister(PaymentWebhookTotal, RegistrationTotal, ApplicationSubmitTotal)
	})
}

// CountWebhook records a payment webhook outcome when metrics are initialised.
func CountWebhook(provider, result string) {
	if PaymentWebhookTotal == nil {
		return
	}
	PaymentWebhookTotal.WithLabelValues(provider, result).Inc()
}

// CountRegistration records a registration attempt when metrics are initialised.
func CountRegistration(result string) {
	if RegistrationTotal == nil {
		return
	}
	RegistrationTotal.WithLabelValues(result).Inc()
}

// CountApplication records a job application submission when metrics are initialised.
func CountApplication(result string) {
	if ApplicationSubmitTotal == nil {
		return
	}
	ApplicationSubmitTotal.WithLabelValues(result).Inc()
}
