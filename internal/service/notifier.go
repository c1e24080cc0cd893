package service

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

var (
	notificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "couplebot_notifications_sent_total",
		Help: "Number of partner notifications delivered.",
	})
	notificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "couplebot_notifications_failed_total",
		Help: "Number of partner notifications that failed to deliver.",
	})
	notificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "couplebot_notifications_dropped_total",
		Help: "Number of partner notifications dropped on a full queue.",
	})
)

// Notification is one queued partner message.
type Notification struct {
	ChatID int64
	Text   string
}

// SendFunc delivers a message over the outbound channel.
type SendFunc func(chatID int64, text string) error

// Notifier is the fire-and-forget notification dispatcher. Mutations enqueue
// without blocking; a single worker goroutine delivers at most once and logs
// failures instead of surfacing them.
type Notifier struct {
	logger *logrus.Logger
	send   SendFunc
	queue  chan Notification

	sent    *atomic.Int64
	failed  *atomic.Int64
	dropped *atomic.Int64
}

// NewNotifier creates a Notifier with the given delivery function.
func NewNotifier(send SendFunc, logger *logrus.Logger) *Notifier {
	return &Notifier{
		logger:  logger,
		send:    send,
		queue:   make(chan Notification, 64),
		sent:    atomic.NewInt64(0),
		failed:  atomic.NewInt64(0),
		dropped: atomic.NewInt64(0),
	}
}

// Start runs the delivery worker until ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	n.logger.Info("Notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Notification dispatcher stopped")
			return
		case msg := <-n.queue:
			n.deliver(msg)
		}
	}
}

// Notify enqueues a message. On a full queue the message is dropped and
// logged; the caller's mutation is already committed either way.
func (n *Notifier) Notify(chatID int64, text string) {
	select {
	case n.queue <- Notification{ChatID: chatID, Text: text}:
	default:
		n.dropped.Inc()
		notificationsDropped.Inc()
		n.logger.WithField("chat_id", chatID).
			Warn("Notification queue full, message dropped")
	}
}

// Counts returns the number of sent, failed and dropped notifications.
func (n *Notifier) Counts() (sent, failed, dropped int64) {
	return n.sent.Load(), n.failed.Load(), n.dropped.Load()
}

func (n *Notifier) deliver(msg Notification) {
	if err := n.send(msg.ChatID, msg.Text); err != nil {
		n.failed.Inc()
		notificationsFailed.Inc()
		n.logger.WithError(err).WithField("chat_id", msg.ChatID).
			Error("Failed to deliver partner notification")
		return
	}
	n.sent.Inc()
	notificationsSent.Inc()
}
