// Package reconcile drives the inbound document pipeline: poll the partner's
// remote store, decode whatever complete transaction sets each file carries,
// and apply every document to purchase order, catalog and invoice state.
package reconcile

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/documents"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/transport"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/x12"
)

// TransactionLedger records per-document processing state and answers the
// inbound dedup check.
type TransactionLedger interface {
	IsProcessed(ctx context.Context, partnerID, filename string) (bool, error)
	Create(ctx context.Context, req models.CreateEDITransactionRequest) (*models.EDITransaction, error)
	MarkProcessed(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errText string) error
}

// PurchaseOrderStore is the slice of purchase order persistence the engine
// mutates when applying acknowledgments and ship notices.
type PurchaseOrderStore interface {
	GetByNumber(ctx context.Context, partnerID, poNumber string) (*models.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, purchaseOrderID, status string) error
	SetAcknowledgment(ctx context.Context, purchaseOrderID, ackType, ackDate, status string) error
	SetShipmentInfo(ctx context.Context, purchaseOrderID, carrierSCAC, carrierName, billOfLading string) error
	UpdateItemStatus(ctx context.Context, itemID, status string) error
	SetItemShipped(ctx context.Context, itemID string, quantity decimal.Decimal, dyeLot string) error
	AddTrackingNumbers(ctx context.Context, purchaseOrderID string, trackingNumbers []string) error
	AppendActivity(ctx context.Context, purchaseOrderID, event string, detail []byte) error
}

// CatalogStore persists decoded catalog lines.
type CatalogStore interface {
	Upsert(ctx context.Context, product *models.CatalogProduct) (*models.CatalogProduct, error)
}

// InvoiceStore persists decoded invoices.
type InvoiceStore interface {
	Upsert(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
}

// EventSink publishes document lifecycle events. Best effort.
type EventSink interface {
	DocumentProcessed(ctx context.Context, partnerID, documentType, controlNumber, filename, poNumber string)
	DocumentFailed(ctx context.Context, partnerID, documentType, filename, reason string)
}

// Config carries the per-partner settings for one engine instance.
type Config struct {
	PartnerID        string
	InboundDirectory string
	ArchiveDirectory string
	FileExtensions   []string
}

// CycleSummary reports one poll cycle's outcomes.
type CycleSummary struct {
	FilesFound     int            `json:"files_found"`
	FilesProcessed int            `json:"files_processed"`
	FilesSkipped   int            `json:"files_skipped"`
	FilesErrored   int            `json:"files_errored"`
	ByDocumentType map[string]int `json:"by_document_type"`
}

// Engine applies inbound EDI documents to local state, one file at a time.
// Files within a cycle are processed sequentially; the control number ledger
// is the only state shared with concurrent senders and it synchronizes in
// the database.
type Engine struct {
	logger   ectologger.Logger
	cfg      Config
	files    transport.FileStore
	ledger   TransactionLedger
	orders   PurchaseOrderStore
	catalog  CatalogStore
	invoices InvoiceStore
	events   EventSink
}

func NewEngine(
	logger ectologger.Logger,
	cfg Config,
	files transport.FileStore,
	ledger TransactionLedger,
	orders PurchaseOrderStore,
	catalog CatalogStore,
	invoices InvoiceStore,
	events EventSink,
) *Engine {
	return &Engine{
		logger:   logger,
		cfg:      cfg,
		files:    files,
		ledger:   ledger,
		orders:   orders,
		catalog:  catalog,
		invoices: invoices,
		events:   events,
	}
}

// RunCycle executes one poll: list, dedup, download, decode, dispatch,
// archive. A transport failure listing the directory fails the cycle; every
// later failure is contained to its file or transaction set.
func (e *Engine) RunCycle(ctx context.Context) (*CycleSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "reconcile.Engine.RunCycle")
	defer span.End()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"method":     "RunCycle",
		"partner_id": e.cfg.PartnerID,
	})

	files, err := e.files.List(ctx, e.cfg.InboundDirectory, e.cfg.FileExtensions)
	if err != nil {
		log.WithError(err).Error("Failed to list inbound directory")
		return nil, err
	}

	summary := &CycleSummary{
		FilesFound:     len(files),
		ByDocumentType: map[string]int{},
	}

	for _, file := range files {
		processed, err := e.ledger.IsProcessed(ctx, e.cfg.PartnerID, file.Name)
		if err != nil {
			log.WithError(err).WithFields(map[string]any{"filename": file.Name}).Error("Failed dedup check")
			summary.FilesErrored++
			continue
		}
		if processed {
			summary.FilesSkipped++
			continue
		}

		if err := e.processFile(ctx, file, summary); err != nil {
			log.WithError(err).WithFields(map[string]any{"filename": file.Name}).Error("Failed to process inbound file")
			summary.FilesErrored++
			continue
		}
		summary.FilesProcessed++
	}

	log.WithFields(map[string]any{
		"files_found":     summary.FilesFound,
		"files_processed": summary.FilesProcessed,
		"files_skipped":   summary.FilesSkipped,
		"files_errored":   summary.FilesErrored,
	}).Info("Completed reconciliation cycle")

	return summary, nil
}

// processFile runs one file end to end. Transport errors return before any
// ledger row exists so the next cycle retries the file; decode and apply
// failures are recorded on ledger rows and the file is archived regardless.
func (e *Engine) processFile(ctx context.Context, file transport.RemoteFile, summary *CycleSummary) error {
	ctx, span := tracing.StartSpan(ctx, "reconcile.Engine.processFile")
	defer span.End()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"partner_id": e.cfg.PartnerID,
		"filename":   file.Name,
	})

	raw, err := e.files.Download(ctx, file.Path)
	if err != nil {
		return err
	}

	env, err := x12.ReadEnvelope(raw)
	if err != nil {
		// Unreadable header. Record the failure so the file is not retried
		// forever, then archive it out of the inbound directory.
		errText := err.Error()
		if _, cerr := e.ledger.Create(ctx, models.CreateEDITransactionRequest{
			PartnerID:    e.cfg.PartnerID,
			Direction:    models.DirectionInbound,
			DocumentType: "unknown",
			Filename:     file.Name,
			Status:       models.TransactionStatusFailed,
			ErrorDetail:  &errText,
		}); cerr != nil {
			return cerr
		}
		e.archive(ctx, file)
		return err
	}

	for _, ts := range env.TransactionSets {
		e.processTransactionSet(ctx, env, ts, file.Name, summary)
	}

	e.archive(ctx, file)

	log.WithFields(map[string]any{"transaction_sets": len(env.TransactionSets)}).Info("Processed inbound file")
	return nil
}

// processTransactionSet records, dispatches and resolves one ST..SE span.
// A failure here never propagates: sibling sets in the same file update
// unrelated purchase orders and must still run.
func (e *Engine) processTransactionSet(ctx context.Context, env *x12.Envelope, ts x12.TransactionSet, filename string, summary *CycleSummary) {
	ctx, span := tracing.StartSpan(ctx, "reconcile.Engine.processTransactionSet")
	defer span.End()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"partner_id":     e.cfg.PartnerID,
		"filename":       filename,
		"document_type":  ts.DocumentType,
		"control_number": ts.ControlNumber,
	})

	summary.ByDocumentType[ts.DocumentType]++

	row, err := e.ledger.Create(ctx, models.CreateEDITransactionRequest{
		PartnerID:     e.cfg.PartnerID,
		Direction:     models.DirectionInbound,
		DocumentType:  ts.DocumentType,
		ControlNumber: ts.ControlNumber,
		Filename:      filename,
		Status:        models.TransactionStatusReceived,
	})
	if err != nil {
		log.WithError(err).Error("Failed to record received transaction")
		return
	}

	if !documents.KnownDocumentType(ts.DocumentType) {
		// Partners occasionally route document types we never asked for.
		// The row stays received; nothing to apply.
		log.Warn("Ignoring unknown document type")
		return
	}

	doc, err := documents.Decode(ts)
	if err == nil {
		err = e.apply(ctx, doc, filename)
	}
	if err != nil {
		log.WithError(err).Error("Failed to apply document")
		if merr := e.ledger.MarkFailed(ctx, row.ID, err.Error()); merr != nil {
			log.WithError(merr).Error("Failed to mark transaction failed")
		}
		if e.events != nil {
			e.events.DocumentFailed(ctx, e.cfg.PartnerID, ts.DocumentType, filename, err.Error())
		}
		return
	}

	if err := e.ledger.MarkProcessed(ctx, row.ID); err != nil {
		log.WithError(err).Error("Failed to mark transaction processed")
		return
	}
	if e.events != nil {
		e.events.DocumentProcessed(ctx, e.cfg.PartnerID, ts.DocumentType, ts.ControlNumber, filename, documentPONumber(doc))
	}
}

func (e *Engine) apply(ctx context.Context, doc documents.Document, filename string) error {
	switch d := doc.(type) {
	case *documents.Catalog:
		return e.applyCatalog(ctx, d)
	case *documents.Acknowledgment:
		return e.applyAcknowledgment(ctx, d)
	case *documents.ShipNotice:
		return e.applyShipNotice(ctx, d)
	case *documents.Invoice:
		return e.applyInvoice(ctx, d)
	default:
		return x12.ErrUnknownDocumentType
	}
}

// archive moves a processed file aside. Failure is logged only; the ledger
// rows already exist, so the dedup check keeps the file from reprocessing.
func (e *Engine) archive(ctx context.Context, file transport.RemoteFile) {
	if _, err := e.files.Archive(ctx, file.Path, e.cfg.ArchiveDirectory); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"filename": file.Name,
		}).Error("Failed to archive inbound file")
	}
}

// isNotFound reports whether err is a 404-class repository error.
func isNotFound(err error) bool {
	return httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound
}

// resolveOrder loads the purchase order a document references, translating a
// blank reference or an unknown number into MissingReferenceError.
func (e *Engine) resolveOrder(ctx context.Context, documentType, poNumber string) (*models.PurchaseOrder, error) {
	if poNumber == "" {
		return nil, &MissingReferenceError{DocumentType: documentType}
	}
	po, err := e.orders.GetByNumber(ctx, e.cfg.PartnerID, poNumber)
	if err != nil {
		if isNotFound(err) {
			return nil, &MissingReferenceError{DocumentType: documentType, Reference: poNumber}
		}
		return nil, err
	}
	return po, nil
}

func documentPONumber(doc documents.Document) string {
	switch d := doc.(type) {
	case *documents.Acknowledgment:
		return d.PONumber
	case *documents.ShipNotice:
		return d.PONumber
	case *documents.Invoice:
		return d.PONumber
	default:
		return ""
	}
}

// IsMissingReference reports whether err is a MissingReferenceError.
func IsMissingReference(err error) bool {
	var target *MissingReferenceError
	return errors.As(err, &target)
}
