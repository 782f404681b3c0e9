package outbound

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

const uploadAttempts = 3

// Ledger issues control numbers. Implementations must be safe for
// concurrent issuance on the same key.
type Ledger interface {
	Next(ctx context.Context, partnerID, numberType string) (int64, error)
}

// Uploader writes a file to the trading partner's remote store.
type Uploader interface {
	Upload(ctx context.Context, remotePath string, data []byte) error
}

// TransactionRecorder records outbound ledger rows.
type TransactionRecorder interface {
	Create(ctx context.Context, req models.CreateEDITransactionRequest) (*models.EDITransaction, error)
}

// PurchaseOrderStore mutates purchase order send state.
type PurchaseOrderStore interface {
	MarkSent(ctx context.Context, purchaseOrderID string, sentAt time.Time) error
	AppendActivity(ctx context.Context, purchaseOrderID, event string, detail []byte) error
}

// EventSink publishes send notifications. Best effort.
type EventSink interface {
	PurchaseOrderSent(ctx context.Context, partnerID, poNumber string, filenames []string)
}

// SentDocument describes one uploaded interchange.
type SentDocument struct {
	Filename string         `json:"filename"`
	Suffix   string         `json:"suffix,omitempty"`
	Numbers  ControlNumbers `json:"control_numbers"`
	Lines    int            `json:"lines"`
}

// Sender encodes purchase orders and delivers them to the partner.
type Sender struct {
	logger       ectologger.Logger
	builder      *Builder
	ledger       Ledger
	uploader     Uploader
	transactions TransactionRecorder
	orders       PurchaseOrderStore
	events       EventSink

	partnerID    string
	outboundDir  string
	hardKeywords []string
}

func NewSender(
	logger ectologger.Logger,
	builder *Builder,
	ledger Ledger,
	uploader Uploader,
	transactions TransactionRecorder,
	orders PurchaseOrderStore,
	events EventSink,
	partnerID string,
	outboundDir string,
	hardKeywords []string,
) *Sender {
	return &Sender{
		logger:       logger,
		builder:      builder,
		ledger:       ledger,
		uploader:     uploader,
		transactions: transactions,
		orders:       orders,
		events:       events,
		partnerID:    partnerID,
		outboundDir:  outboundDir,
		hardKeywords: hardKeywords,
	}
}

type plannedDocument struct {
	suffix  string
	items   []models.PurchaseOrderItem
	numbers ControlNumbers
	data    []byte
	name    string
}

// Send encodes the purchase order as one or two interchanges (two when the
// order mixes hard and soft surface lines), uploads them, records outbound
// transaction rows, and marks the order sent.
//
// Control numbers are issued before building; if an upload fails the already
// built bytes carry the same numbers on the retry rather than burning new
// ones per attempt.
func (s *Sender) Send(ctx context.Context, po *models.PurchaseOrder) ([]SentDocument, error) {
	ctx, span := tracing.StartSpan(ctx, "outbound.Sender.Send")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"method":     "Send",
		"partner_id": s.partnerID,
		"po_number":  po.PONumber,
	})

	if len(po.Items) == 0 {
		return nil, httperror.NewHTTPErrorf(http.StatusUnprocessableEntity, "purchase order %s has no line items", po.PONumber)
	}

	split := SplitByCategory(po.Items, s.hardKeywords)
	var planned []plannedDocument
	if split.Mixed() {
		planned = []plannedDocument{
			{suffix: SuffixHardSurface, items: split.Hard},
			{suffix: SuffixSoftSurface, items: split.Soft},
		}
	} else {
		planned = []plannedDocument{{items: po.Items}}
	}

	now := time.Now().UTC()
	for i := range planned {
		numbers, err := s.issueNumbers(ctx)
		if err != nil {
			return nil, err
		}
		planned[i].numbers = numbers
		planned[i].data = s.builder.Build(po, planned[i].items, numbers, now)
		planned[i].name = Filename(po.PONumber, numbers.Interchange, planned[i].suffix)
	}

	sent := make([]SentDocument, 0, len(planned))
	filenames := make([]string, 0, len(planned))
	for _, doc := range planned {
		if err := s.upload(ctx, doc); err != nil {
			log.WithError(err).WithFields(map[string]any{"filename": doc.name}).Error("Failed to upload purchase order document")
			return nil, httperror.WrapError(http.StatusBadGateway, err)
		}

		controlNumber := doc.numbers.Interchange
		poNumber := po.PONumber
		if _, err := s.transactions.Create(ctx, models.CreateEDITransactionRequest{
			PartnerID:     s.partnerID,
			Direction:     models.DirectionOutbound,
			DocumentType:  "850",
			ControlNumber: formatControlNumber(controlNumber),
			Filename:      doc.name,
			PONumber:      &poNumber,
			Status:        models.TransactionStatusSent,
		}); err != nil {
			log.WithError(err).Error("Failed to record outbound transaction")
			return nil, err
		}

		sent = append(sent, SentDocument{
			Filename: doc.name,
			Suffix:   doc.suffix,
			Numbers:  doc.numbers,
			Lines:    len(doc.items),
		})
		filenames = append(filenames, doc.name)
	}

	if err := s.orders.MarkSent(ctx, po.ID, now); err != nil {
		log.WithError(err).Error("Failed to mark purchase order sent")
		return nil, err
	}

	detail, _ := json.Marshal(map[string]any{
		"documents": sent,
		"split":     split.Mixed(),
	})
	if err := s.orders.AppendActivity(ctx, po.ID, "purchase_order_sent", detail); err != nil {
		log.WithError(err).Error("Failed to append send activity")
	}

	if s.events != nil {
		s.events.PurchaseOrderSent(ctx, s.partnerID, po.PONumber, filenames)
	}

	log.WithFields(map[string]any{"documents": len(sent), "split": split.Mixed()}).Info("Sent purchase order")
	return sent, nil
}

func (s *Sender) issueNumbers(ctx context.Context) (ControlNumbers, error) {
	var numbers ControlNumbers
	var err error
	if numbers.Interchange, err = s.ledger.Next(ctx, s.partnerID, NumberTypeInterchange); err != nil {
		return numbers, err
	}
	if numbers.Group, err = s.ledger.Next(ctx, s.partnerID, NumberTypeGroup); err != nil {
		return numbers, err
	}
	if numbers.Transaction, err = s.ledger.Next(ctx, s.partnerID, NumberTypeTransaction); err != nil {
		return numbers, err
	}
	return numbers, nil
}

// upload retries transient failures with the identical payload. The control
// number triple inside the bytes never changes across attempts.
func (s *Sender) upload(ctx context.Context, doc plannedDocument) error {
	remotePath := path.Join(s.outboundDir, doc.name)
	var err error
	for attempt := 0; attempt < uploadAttempts; attempt++ {
		if err = s.uploader.Upload(ctx, remotePath, doc.data); err == nil {
			return nil
		}
	}
	return err
}

func formatControlNumber(n int64) string {
	return strconv.FormatInt(n, 10)
}
