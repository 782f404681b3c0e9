package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/models"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/transport"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func testISA() string {
	return fmt.Sprintf("ISA*00*%-10s*00*%-10s*ZZ*%-15s*ZZ*%-15s*240105*1430*U*00401*%09s*0*P*:~",
		"", "", "SHAWIND", "ACMEFLOORS", "000000500")
}

func testFile(sets ...string) []byte {
	var b strings.Builder
	b.WriteString(testISA())
	b.WriteString("GS*PR*SHAWIND*ACMEFLOORS*20240105*1430*500*X*004010~")
	for _, set := range sets {
		b.WriteString(set)
	}
	b.WriteString("GE*1*500~IEA*1*000000500~")
	return []byte(b.String())
}

func ackSet(poNumber string, lines ...string) string {
	var b strings.Builder
	b.WriteString("ST*855*0001~")
	b.WriteString(fmt.Sprintf("BAK*00*AC*%s*20240106~", poNumber))
	b.WriteString(strings.Join(lines, ""))
	b.WriteString("SE*4*0001~")
	return b.String()
}

func shipSet(poNumber string) string {
	return "ST*856*0002~" +
		"BSN*00*SHIP-9*20240107*0930~" +
		"TD5**2*RDWY*M*Roadway Express~" +
		"REF*BM*BOL-1234~" +
		"REF*2I*TRACK-88~" +
		fmt.Sprintf("PRF*%s~", poNumber) +
		"LIN**VP*CARPET-100~" +
		"SN1**120*SF~" +
		"SE*9*0002~"
}

// --- fakes ---

type fakeFileStore struct {
	files    []transport.RemoteFile
	contents map[string][]byte
	archived []string

	listErr     error
	downloadErr error
	archiveErr  error
}

func (f *fakeFileStore) List(_ context.Context, _ string, _ []string) ([]transport.RemoteFile, error) {
	return f.files, f.listErr
}

func (f *fakeFileStore) Download(_ context.Context, path string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return f.contents[path], nil
}

func (f *fakeFileStore) Archive(_ context.Context, path, _ string) (string, error) {
	if f.archiveErr != nil {
		return "", f.archiveErr
	}
	f.archived = append(f.archived, path)
	return "/archive/" + path, nil
}

func (f *fakeFileStore) Upload(_ context.Context, _ string, _ []byte) error { return nil }

type ledgerRow struct {
	req    models.CreateEDITransactionRequest
	status string
	errTxt string
}

type fakeLedger struct {
	known map[string]bool
	rows  []*ledgerRow
}

func (f *fakeLedger) IsProcessed(_ context.Context, _, filename string) (bool, error) {
	return f.known[filename], nil
}

func (f *fakeLedger) Create(_ context.Context, req models.CreateEDITransactionRequest) (*models.EDITransaction, error) {
	row := &ledgerRow{req: req, status: req.Status}
	f.rows = append(f.rows, row)
	return &models.EDITransaction{ID: fmt.Sprintf("txn-%d", len(f.rows)-1), Status: req.Status}, nil
}

func (f *fakeLedger) MarkProcessed(_ context.Context, id string) error {
	return f.setStatus(id, models.TransactionStatusProcessed, "")
}

func (f *fakeLedger) MarkFailed(_ context.Context, id, errText string) error {
	return f.setStatus(id, models.TransactionStatusFailed, errText)
}

func (f *fakeLedger) setStatus(id, status, errText string) error {
	var idx int
	if _, err := fmt.Sscanf(id, "txn-%d", &idx); err != nil {
		return err
	}
	f.rows[idx].status = status
	f.rows[idx].errTxt = errText
	return nil
}

type activityEntry struct {
	event  string
	detail []byte
}

type fakeOrders struct {
	orders map[string]*models.PurchaseOrder

	itemStatuses  map[string]string
	shipped       map[string]decimal.Decimal
	tracking      []string
	statusUpdates []string
	ackType       string
	ackStatus     string
	carrierSCAC   string
	billOfLading  string
	activity      []activityEntry
}

func newFakeOrders(orders ...*models.PurchaseOrder) *fakeOrders {
	f := &fakeOrders{
		orders:       map[string]*models.PurchaseOrder{},
		itemStatuses: map[string]string{},
		shipped:      map[string]decimal.Decimal{},
	}
	for _, po := range orders {
		f.orders[po.PONumber] = po
	}
	return f
}

func (f *fakeOrders) GetByNumber(_ context.Context, _, poNumber string) (*models.PurchaseOrder, error) {
	po, ok := f.orders[poNumber]
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "purchase order %s does not exist", poNumber)
	}
	return po, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, _, status string) error {
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeOrders) SetAcknowledgment(_ context.Context, _, ackType, _, status string) error {
	f.ackType = ackType
	f.ackStatus = status
	return nil
}

func (f *fakeOrders) SetShipmentInfo(_ context.Context, _, carrierSCAC, _, billOfLading string) error {
	f.carrierSCAC = carrierSCAC
	f.billOfLading = billOfLading
	return nil
}

func (f *fakeOrders) UpdateItemStatus(_ context.Context, itemID, status string) error {
	f.itemStatuses[itemID] = status
	return nil
}

func (f *fakeOrders) SetItemShipped(_ context.Context, itemID string, quantity decimal.Decimal, _ string) error {
	f.shipped[itemID] = f.shipped[itemID].Add(quantity)
	return nil
}

func (f *fakeOrders) AddTrackingNumbers(_ context.Context, _ string, trackingNumbers []string) error {
	f.tracking = append(f.tracking, trackingNumbers...)
	return nil
}

func (f *fakeOrders) AppendActivity(_ context.Context, _, event string, detail []byte) error {
	f.activity = append(f.activity, activityEntry{event: event, detail: detail})
	return nil
}

type fakeCatalog struct {
	upserts []*models.CatalogProduct
}

func (f *fakeCatalog) Upsert(_ context.Context, product *models.CatalogProduct) (*models.CatalogProduct, error) {
	f.upserts = append(f.upserts, product)
	return product, nil
}

type fakeInvoices struct {
	upserts []*models.Invoice
}

func (f *fakeInvoices) Upsert(_ context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	f.upserts = append(f.upserts, invoice)
	return invoice, nil
}

type fakeEvents struct {
	processed []string
	failed    []string
}

func (f *fakeEvents) DocumentProcessed(_ context.Context, _, documentType, _, _, _ string) {
	f.processed = append(f.processed, documentType)
}

func (f *fakeEvents) DocumentFailed(_ context.Context, _, documentType, _, _ string) {
	f.failed = append(f.failed, documentType)
}

func testPO(poNumber string, skus ...string) *models.PurchaseOrder {
	po := &models.PurchaseOrder{
		ID:       "po-" + poNumber,
		PONumber: poNumber,
		Status:   models.POStatusSent,
	}
	for i, sku := range skus {
		po.Items = append(po.Items, models.PurchaseOrderItem{
			ID:         fmt.Sprintf("item-%s-%d", poNumber, i+1),
			LineNumber: i + 1,
			VendorSKU:  sku,
			Quantity:   decimal.RequireFromString("120"),
		})
	}
	return po
}

func newTestEngine(files *fakeFileStore, ledger *fakeLedger, orders *fakeOrders) (*Engine, *fakeCatalog, *fakeInvoices, *fakeEvents) {
	catalog := &fakeCatalog{}
	invoices := &fakeInvoices{}
	events := &fakeEvents{}
	engine := NewEngine(
		testLogger(),
		Config{
			PartnerID:        "partner-1",
			InboundDirectory: "/Outbox",
			ArchiveDirectory: "/Outbox/Archive",
			FileExtensions:   []string{".edi"},
		},
		files, ledger, orders, catalog, invoices, events,
	)
	return engine, catalog, invoices, events
}

func remoteFile(name string, raw []byte) *fakeFileStore {
	return &fakeFileStore{
		files:    []transport.RemoteFile{{Name: name, Path: "/Outbox/" + name, Size: int64(len(raw)), ModifiedAt: time.Now()}},
		contents: map[string][]byte{"/Outbox/" + name: raw},
	}
}

// --- tests ---

func TestRunCycleAppliesAcknowledgment(t *testing.T) {
	raw := testFile(ackSet("PO-5001",
		"PO1*1*120*SF*2.50**VP*CARPET-100~ACK*IA*120*SF~",
		"PO1*2*10*EA*45.00**VP*LVP-200~ACK*IR*10*EA~",
	))
	files := remoteFile("855_ack.edi", raw)
	ledger := &fakeLedger{}
	orders := newFakeOrders(testPO("PO-5001", "CARPET-100", "LVP-200"))
	engine, _, _, events := newTestEngine(files, ledger, orders)

	summary, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesFound)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, map[string]int{"855": 1}, summary.ByDocumentType)

	require.Len(t, ledger.rows, 1)
	assert.Equal(t, models.TransactionStatusProcessed, ledger.rows[0].status)

	// accepted + rejected lines roll up to partial
	assert.Equal(t, models.POStatusPartial, orders.ackStatus)
	assert.Equal(t, "AC", orders.ackType)
	assert.Equal(t, "accepted", orders.itemStatuses["item-PO-5001-1"])
	assert.Equal(t, "rejected", orders.itemStatuses["item-PO-5001-2"])

	assert.Equal(t, []string{"/Outbox/855_ack.edi"}, files.archived)
	assert.Equal(t, []string{"855"}, events.processed)
}

func TestRunCycleSkipsProcessedFilenames(t *testing.T) {
	raw := testFile(ackSet("PO-5001", "PO1*1*120*SF*2.50**VP*CARPET-100~ACK*IA*120~"))
	files := remoteFile("dup.edi", raw)
	ledger := &fakeLedger{known: map[string]bool{"dup.edi": true}}
	orders := newFakeOrders(testPO("PO-5001", "CARPET-100"))
	engine, _, _, _ := newTestEngine(files, ledger, orders)

	summary, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Empty(t, ledger.rows, "no new transaction rows for a processed filename")
	assert.Empty(t, orders.itemStatuses)
	assert.Empty(t, files.archived, "skipped files are left in place")
}

func TestRunCycleShipNoticeUnknownPO(t *testing.T) {
	raw := testFile(shipSet("PO-MISSING"))
	files := remoteFile("856_orphan.edi", raw)
	ledger := &fakeLedger{}
	orders := newFakeOrders()
	engine, _, _, events := newTestEngine(files, ledger, orders)

	summary, err := engine.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesProcessed)

	require.Len(t, ledger.rows, 1)
	assert.Equal(t, models.TransactionStatusFailed, ledger.rows[0].status)
	assert.Contains(t, ledger.rows[0].errTxt, "missing reference")
	assert.Contains(t, ledger.rows[0].errTxt, "PO-MISSING")

	// No downstream mutation happened.
	assert.Empty(t, orders.tracking)
	assert.Empty(t, orders.shipped)
	assert.Empty(t, orders.statusUpdates)
	assert.Equal(t, []string{"856"}, events.failed)
}

func TestRunCycleShipNoticeApplies(t *testing.T) {
	raw := testFile(shipSet("PO-6001"))
	files := remoteFile("856_ok.edi", raw)
	ledger := &fakeLedger{}
	orders := newFakeOrders(testPO("PO-6001", "CARPET-100"))
	engine, _, _, _ := newTestEngine(files, ledger, orders)

	_, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "RDWY", orders.carrierSCAC)
	assert.Equal(t, "BOL-1234", orders.billOfLading)
	assert.Equal(t, []string{"TRACK-88"}, orders.tracking)
	assert.True(t, orders.shipped["item-PO-6001-1"].Equal(decimal.RequireFromString("120")))
	assert.Equal(t, itemStatusShipped, orders.itemStatuses["item-PO-6001-1"])

	// 120 shipped covers the full 120 ordered.
	assert.Equal(t, []string{models.POStatusFulfilled}, orders.statusUpdates)

	require.Len(t, orders.activity, 1)
	assert.Equal(t, "ship_notice_applied", orders.activity[0].event)
	var detail map[string]any
	require.NoError(t, json.Unmarshal(orders.activity[0].detail, &detail))
	assert.Equal(t, true, detail["fulfilled"])
}

func TestRunCyclePositionalMatchIsFlagged(t *testing.T) {
	// Ack line carries no VP qualifier, so only positional matching is
	// possible; the activity log must distinguish it from a SKU match.
	raw := testFile(ackSet("PO-7001", "PO1*1*120*SF~ACK*IA*120~"))
	files := remoteFile("855_positional.edi", raw)
	ledger := &fakeLedger{}
	orders := newFakeOrders(testPO("PO-7001", "CARPET-100"))
	engine, _, _, _ := newTestEngine(files, ledger, orders)

	_, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, orders.activity, 1)
	var detail struct {
		Lines []appliedAckLine `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(orders.activity[0].detail, &detail))
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, matchPositional, detail.Lines[0].Match)
}

func TestRunCycleUnknownDocumentTypeIsNoOp(t *testing.T) {
	raw := testFile("ST*997*0003~AK1*PR*500~SE*3*0003~")
	files := remoteFile("997.edi", raw)
	ledger := &fakeLedger{}
	orders := newFakeOrders()
	engine, _, _, events := newTestEngine(files, ledger, orders)

	summary, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	require.Len(t, ledger.rows, 1)
	assert.Equal(t, models.TransactionStatusReceived, ledger.rows[0].status, "unknown types stay received")
	assert.Empty(t, events.failed)
	assert.Len(t, files.archived, 1)
}

func TestRunCycleMalformedFile(t *testing.T) {
	files := remoteFile("garbage.edi", []byte("not an interchange"))
	ledger := &fakeLedger{}
	orders := newFakeOrders()
	engine, _, _, _ := newTestEngine(files, ledger, orders)

	summary, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesErrored)
	require.Len(t, ledger.rows, 1)
	assert.Equal(t, models.TransactionStatusFailed, ledger.rows[0].status)
	assert.Len(t, files.archived, 1, "malformed files are archived, not retried forever")
}

func TestRunCycleDownloadErrorLeavesFileForRetry(t *testing.T) {
	raw := testFile(ackSet("PO-5001", "PO1*1*120*SF*2.50**VP*CARPET-100~ACK*IA*120~"))
	files := remoteFile("transient.edi", raw)
	files.downloadErr = errors.New("connection timed out")
	ledger := &fakeLedger{}
	orders := newFakeOrders(testPO("PO-5001", "CARPET-100"))
	engine, _, _, _ := newTestEngine(files, ledger, orders)

	summary, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesErrored)
	assert.Empty(t, ledger.rows, "no ledger row means the next cycle retries the file")
	assert.Empty(t, files.archived)
}

func TestRunCycleListErrorFailsCycle(t *testing.T) {
	files := &fakeFileStore{listErr: errors.New("dial tcp: connection refused")}
	engine, _, _, _ := newTestEngine(files, &fakeLedger{}, newFakeOrders())

	_, err := engine.RunCycle(context.Background())
	require.Error(t, err)
}

func TestRunCycleFailedSetDoesNotAbortSiblings(t *testing.T) {
	raw := testFile(
		shipSet("PO-MISSING"),
		ackSet("PO-5001", "PO1*1*120*SF*2.50**VP*CARPET-100~ACK*IA*120~"),
	)
	files := remoteFile("multi.edi", raw)
	ledger := &fakeLedger{}
	orders := newFakeOrders(testPO("PO-5001", "CARPET-100"))
	engine, _, _, _ := newTestEngine(files, ledger, orders)

	summary, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	require.Len(t, ledger.rows, 2)
	assert.Equal(t, models.TransactionStatusFailed, ledger.rows[0].status)
	assert.Equal(t, models.TransactionStatusProcessed, ledger.rows[1].status)
	assert.Equal(t, "accepted", orders.itemStatuses["item-PO-5001-1"])
}

func TestRunCycleInvoice(t *testing.T) {
	raw := testFile("ST*810*0004~" +
		"BIG*20240110*INV-900**PO-5001~" +
		"IT1*1*120*SF*2.50**VP*CARPET-100~" +
		"TDS*30000~" +
		"SE*5*0004~")
	files := remoteFile("810.edi", raw)
	ledger := &fakeLedger{}
	orders := newFakeOrders(testPO("PO-5001", "CARPET-100"))
	engine, _, invoices, _ := newTestEngine(files, ledger, orders)

	_, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, invoices.upserts, 1)
	inv := invoices.upserts[0]
	assert.Equal(t, "INV-900", inv.InvoiceNumber)
	require.NotNil(t, inv.PurchaseOrderID)
	assert.Equal(t, "po-PO-5001", *inv.PurchaseOrderID)
	assert.Equal(t, "300", inv.TotalAmount.String())
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "300", inv.Items[0].Subtotal.String())

	require.Len(t, orders.activity, 1)
	assert.Equal(t, "invoice_applied", orders.activity[0].event)
}

func TestRunCycleCatalog(t *testing.T) {
	raw := testFile("ST*832*0005~" +
		"BCT*PC*CAT-2024~" +
		"LIN*1*VP*CARPET-100*UP*123456789012~" +
		"PID*X*08***Plush Frieze~" +
		"PID*X*33***Residential Carpet~" +
		"PO4*1*1500*LF~" +
		"CTP**CON*4.25~" +
		"MEA**WD*144~" +
		"CTT*1~" +
		"SE*10*0005~")
	files := remoteFile("832.edi", raw)
	ledger := &fakeLedger{}
	orders := newFakeOrders()
	engine, catalog, _, _ := newTestEngine(files, ledger, orders)

	_, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, catalog.upserts, 1)
	product := catalog.upserts[0]
	assert.Equal(t, "CARPET-100", product.VendorSKU)
	assert.Equal(t, "Residential Carpet", product.Category)

	// Contract-only carpet pricing populates both cut and roll pairs.
	require.NotNil(t, product.CutPrice)
	require.NotNil(t, product.RollPrice)
	assert.True(t, product.CutPrice.Equal(*product.RollPrice))
}

func TestRunCycleArchiveFailureDoesNotErrorFile(t *testing.T) {
	raw := testFile(ackSet("PO-5001", "PO1*1*120*SF*2.50**VP*CARPET-100~ACK*IA*120~"))
	files := remoteFile("855_archfail.edi", raw)
	files.archiveErr = errors.New("permission denied")
	ledger := &fakeLedger{}
	orders := newFakeOrders(testPO("PO-5001", "CARPET-100"))
	engine, _, _, _ := newTestEngine(files, ledger, orders)

	summary, err := engine.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	require.Len(t, ledger.rows, 1)
	assert.Equal(t, models.TransactionStatusProcessed, ledger.rows[0].status)
}
