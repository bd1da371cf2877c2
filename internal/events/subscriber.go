package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Event subjects emitted by the upstream support/refund service.
const (
	SubjectRefundRequested = "refund.requested"
	SubjectRefundProcessed = "refund.processed"
	SubjectRefundCompleted = "refund.completed"
	SubjectCaseUpdated     = "support.case.updated"
)

// RefundLifecycleEvent reports a status change on a refund case.
type RefundLifecycleEvent struct {
	RefundID      string    `json:"refund_id"`
	SupportCaseID string    `json:"support_case_id"`
	CustomerID    string    `json:"customer_id"`
	Status        string    `json:"status"` // Pending, Approved, Rejected, Completed
	AgentID       string    `json:"agent_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// CaseUpdatedEvent reports a change on a support case.
type CaseUpdatedEvent struct {
	CaseID     string    `json:"case_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"` // Open, Closed
	Timestamp  time.Time `json:"timestamp"`
}

// EventHandler defines the interface for handling events. The dashboard
// only consumes: a lifecycle change means cached history for that
// customer is stale.
type EventHandler interface {
	HandleRefundChanged(event *RefundLifecycleEvent) error
	HandleCaseUpdated(event *CaseUpdatedEvent) error
}

// Subscriber handles NATS event subscriptions.
type Subscriber struct {
	nc      *nats.Conn
	logger  *zap.Logger
	handler EventHandler
	subs    []*nats.Subscription
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(nc *nats.Conn, handler EventHandler, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		nc:      nc,
		logger:  logger,
		handler: handler,
		subs:    make([]*nats.Subscription, 0),
	}
}

// Start subscribes to all relevant events.
func (s *Subscriber) Start() error {
	for _, subject := range []string{
		SubjectRefundRequested,
		SubjectRefundProcessed,
		SubjectRefundCompleted,
	} {
		sub, err := s.nc.Subscribe(subject, s.handleRefundLifecycle)
		if err != nil {
			return err
		}
		s.subs = append(s.subs, sub)
		s.logger.Info("Subscribed to event", zap.String("subject", subject))
	}

	sub, err := s.nc.Subscribe(SubjectCaseUpdated, s.handleCaseUpdated)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	s.logger.Info("Subscribed to event", zap.String("subject", SubjectCaseUpdated))

	s.logger.Info("NATS subscriber started with all subscriptions")
	return nil
}

// Stop unsubscribes from all events.
func (s *Subscriber) Stop() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.logger.Info("NATS subscriber stopped")
}

// handleRefundLifecycle processes refund lifecycle events.
func (s *Subscriber) handleRefundLifecycle(msg *nats.Msg) {
	var event RefundLifecycleEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Error("Failed to unmarshal refund lifecycle event", zap.Error(err))
		return
	}

	s.logger.Info("Received refund lifecycle event",
		zap.String("subject", msg.Subject),
		zap.String("refund_id", event.RefundID),
		zap.String("status", event.Status),
	)

	if err := s.handler.HandleRefundChanged(&event); err != nil {
		s.logger.Error("Failed to handle refund lifecycle event",
			zap.String("refund_id", event.RefundID),
			zap.Error(err),
		)
	}
}

// handleCaseUpdated processes support case update events.
func (s *Subscriber) handleCaseUpdated(msg *nats.Msg) {
	var event CaseUpdatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Error("Failed to unmarshal case updated event", zap.Error(err))
		return
	}

	s.logger.Info("Received case updated event",
		zap.String("case_id", event.CaseID),
		zap.String("status", event.Status),
	)

	if err := s.handler.HandleCaseUpdated(&event); err != nil {
		s.logger.Error("Failed to handle case updated event",
			zap.String("case_id", event.CaseID),
			zap.Error(err),
		)
	}
}
