// Package events handles event emission for EDI document lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/kafka"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Event types published by the engine.
const (
	EventTypeDocumentProcessed = "document.processed"
	EventTypeDocumentFailed    = "document.failed"
	EventTypePurchaseOrderSent = "purchase_order.sent"
)

// Emitter publishes document lifecycle events. Emission is best effort; a
// publish failure is logged but never fails the operation that produced it.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
	enabled  bool
}

// NewEmitter creates a new event emitter. A nil producer disables emission.
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
		enabled:  producer != nil,
	}
}

// DocumentProcessed emits a document.processed event for an inbound document.
func (e *Emitter) DocumentProcessed(ctx context.Context, partnerID, documentType, controlNumber, filename, poNumber string) {
	e.emit(ctx, &kafka.DocumentEvent{
		EventType:     EventTypeDocumentProcessed,
		PartnerID:     partnerID,
		DocumentType:  documentType,
		ControlNumber: controlNumber,
		Filename:      filename,
		PONumber:      poNumber,
	})
}

// DocumentFailed emits a document.failed event with the failure reason.
func (e *Emitter) DocumentFailed(ctx context.Context, partnerID, documentType, filename, reason string) {
	detail, _ := json.Marshal(map[string]string{"error": reason})
	e.emit(ctx, &kafka.DocumentEvent{
		EventType:    EventTypeDocumentFailed,
		PartnerID:    partnerID,
		DocumentType: documentType,
		Filename:     filename,
		Detail:       detail,
	})
}

// PurchaseOrderSent emits a purchase_order.sent event listing the uploaded files.
func (e *Emitter) PurchaseOrderSent(ctx context.Context, partnerID, poNumber string, filenames []string) {
	detail, _ := json.Marshal(map[string]any{
		"schema_version": SchemaVersion,
		"filenames":      filenames,
	})
	e.emit(ctx, &kafka.DocumentEvent{
		EventType:    EventTypePurchaseOrderSent,
		PartnerID:    partnerID,
		DocumentType: "850",
		PONumber:     poNumber,
		Detail:       detail,
	})
}

func (e *Emitter) emit(ctx context.Context, event *kafka.DocumentEvent) {
	if !e.enabled {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.emit")
	defer span.End()

	if err := e.producer.PublishDocumentEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": event.EventType,
		}).Error("Failed to emit document event")
	}
}
