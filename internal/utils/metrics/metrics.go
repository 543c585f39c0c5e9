package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_service_responses_total",
		Help: "The total number of HTTP responses by status code",
	}, []string{"status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "identity_service_request_duration_seconds",
		Help:    "The HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_service_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	RegistrationAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_service_registration_attempts_total",
		Help: "The total number of registration attempts",
	}, []string{"status"})

	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_service_token_refresh_total",
		Help: "The total number of refresh token rotations",
	}, []string{"status"})

	TokenReuseDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "identity_service_token_reuse_detected_total",
		Help: "The total number of rotated-token reuse detections",
	})

	PasswordResetRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "identity_service_password_reset_requests_total",
		Help: "The total number of password reset requests",
	})

	RateLimitExceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "identity_service_rate_limit_exceeded_total",
		Help: "The total number of rate limit exceeded events",
	})
)
