package receipts

import (
	"context"
	"log/slog"

	"cooliehub/internal/receipts/handler"
	"cooliehub/internal/receipts/ledger"
	"cooliehub/internal/receipts/payment"
	"cooliehub/internal/receipts/service"
	"cooliehub/internal/receipts/view"
)

// Service runs the submission workflow.
type Service = service.Service

// Handler wires HTTP endpoints to the receipts service.
type Handler = handler.Handler

// Module is the assembled receipts feature: the loaded ledger, the detail
// view state, the workflow and its HTTP surface.
type Module struct {
	Ledger  *ledger.Ledger
	View    *view.State
	Service *Service
	Handler *Handler
}

// New loads the ledger from snapshot and wires the feature around it.
func New(ctx context.Context, snapshot ledger.Snapshot, gateway payment.Gateway, logger *slog.Logger, opts ...service.Option) *Module {
	l := ledger.Load(ctx, snapshot, logger)
	v := view.NewState()
	opts = append([]service.Option{service.WithLogger(logger)}, opts...)
	svc := service.New(l, gateway, v, opts...)
	return &Module{
		Ledger:  l,
		View:    v,
		Service: svc,
		Handler: handler.New(svc, l, v, logger),
	}
}
