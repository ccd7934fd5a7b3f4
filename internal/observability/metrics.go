package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venture_chat_http_requests_total",
			Help: "Total number of HTTP requests processed by the messaging service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "venture_chat_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "venture_chat_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venture_chat_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"kind", "event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "venture_chat_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "venture_chat_messages_sent_total",
			Help: "Total number of messages stored.",
		},
	)
	deliveryBlockedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venture_chat_delivery_blocked_total",
			Help: "Sends rejected because of a block, by which side holds the block.",
		},
		[]string{"direction"},
	)
	conversationsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "venture_chat_conversations_created_total",
			Help: "Total number of conversations created.",
		},
	)
	conversationRacesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "venture_chat_conversation_create_races_total",
			Help: "Conversation creations that lost a concurrent race and reused the winner.",
		},
	)
	statusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venture_chat_message_status_transitions_total",
			Help: "Message status advances, by target status.",
		},
		[]string{"status"},
	)
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venture_chat_notifications_total",
			Help: "Notification writes, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
		messagesSentTotal,
		deliveryBlockedTotal,
		conversationsCreatedTotal,
		conversationRacesTotal,
		statusTransitionsTotal,
		notificationsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncWSEvent(kind, event string) {
	wsEventsTotal.WithLabelValues(kind, event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

func IncMessageSent() {
	messagesSentTotal.Inc()
}

// IncDeliveryBlocked counts a rejected send. direction is "sender" when the
// sender holds the block and "receiver" otherwise.
func IncDeliveryBlocked(direction string) {
	deliveryBlockedTotal.WithLabelValues(direction).Inc()
}

func IncConversationCreated() {
	conversationsCreatedTotal.Inc()
}

func IncConversationRaceRecovered() {
	conversationRacesTotal.Inc()
}

func IncStatusTransition(status string) {
	statusTransitionsTotal.WithLabelValues(status).Inc()
}

func IncNotification(result string) {
	notificationsTotal.WithLabelValues(result).Inc()
}
