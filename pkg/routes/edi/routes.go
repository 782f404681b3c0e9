// Package edi exposes the engine's HTTP surface: transaction listing, manual
// poll triggering, and sending purchase orders to the partner.
package edi

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	editransactionrepo "github.com/Monkeyboy26/flooring-platform-sub002/internal/repositories/editransaction"
	purchaseorderrepo "github.com/Monkeyboy26/flooring-platform-sub002/internal/repositories/purchaseorder"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/appctx"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/outbound"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/reconcile"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/utils"
)

// Register registers EDI routes. The deployment's trading partner id is
// stamped into every request context by the context middleware.
func Register(g *echo.Group) {
	g.GET("/transactions", ListTransactions)
	g.POST("/poll", TriggerPoll)
	g.POST("/purchase-orders/:poNumber/send", SendPurchaseOrder)
}

type ListTransactionsRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// ListTransactions lists ledger rows for the partner, newest first
func ListTransactions(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "edi.ListTransactions")
	defer span.End()

	req, err := utils.BindRequest[ListTransactionsRequest](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*editransactionrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	txns, err := repo.List(ctx, appctx.GetPartnerID(ctx), req.Limit, req.Offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"transactions": txns,
		"count":        len(txns),
	})
}

// TriggerPoll runs one reconciliation cycle immediately and returns its summary
func TriggerPoll(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "edi.TriggerPoll")
	defer span.End()

	ctx, engine, err := ectoinject.GetContext[*reconcile.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	summary, err := engine.RunCycle(ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadGateway, "reconciliation cycle failed")
	}

	return c.JSON(http.StatusOK, summary)
}

type SendPurchaseOrderRequest struct {
	PONumber string `param:"poNumber" validate:"required"`
}

// SendPurchaseOrder encodes and uploads a purchase order as 850 documents
func SendPurchaseOrder(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "edi.SendPurchaseOrder")
	defer span.End()

	req, err := utils.BindRequest[SendPurchaseOrderRequest](c)
	if err != nil {
		return err
	}

	ctx, orders, err := ectoinject.GetContext[*purchaseorderrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, sender, err := ectoinject.GetContext[*outbound.Sender](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	po, err := orders.GetByNumber(ctx, appctx.GetPartnerID(ctx), req.PONumber)
	if err != nil {
		return err
	}

	sent, err := sender.Send(ctx, po)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"po_number": po.PONumber,
		"documents": sent,
	})
}
