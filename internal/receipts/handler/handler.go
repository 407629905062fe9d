package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cooliehub/internal/platform/middleware"
	"cooliehub/internal/receipts/models"
	"cooliehub/internal/receipts/service"
	dErrors "cooliehub/pkg/domain-errors"
	"cooliehub/pkg/platform/httputil"
	"cooliehub/pkg/requestcontext"
)

// Service runs the submission workflow.
type Service interface {
	SubmitWorker(ctx context.Context, form models.WorkerForm) (*service.Submission, error)
	SubmitFarmer(ctx context.Context, form models.FarmerForm) (*service.Submission, error)
}

// Ledger is the read side of the receipt ledger.
type Ledger interface {
	Records() []models.Record
	Find(receiptNo string) (models.Record, bool)
}

// Viewer is the receipt detail view state.
type Viewer interface {
	Show(rec models.Record)
	Current() (models.Record, bool)
	Dismiss()
}

// Handler wires receipt endpoints to the submission service and ledger.
type Handler struct {
	service Service
	ledger  Ledger
	viewer  Viewer
	logger  *slog.Logger
}

// New constructs a receipts handler with its dependencies.
func New(service Service, ledger Ledger, viewer Viewer, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		ledger:  ledger,
		viewer:  viewer,
		logger:  logger,
	}
}

// Register mounts receipt endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/forms/worker", h.HandleWorkerForm)
	r.Get("/forms/farmer", h.HandleFarmerForm)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Post("/submissions/worker", h.HandleSubmitWorker)
		r.Post("/submissions/farmer", h.HandleSubmitFarmer)
	})

	r.Get("/receipts", h.HandleListReceipts)
	r.Get("/receipts/current", h.HandleCurrentReceipt)
	r.Delete("/receipts/current", h.HandleDismissReceipt)
	r.Get("/receipts/{receiptNo}", h.HandleViewReceipt)
}

func (h *Handler) HandleWorkerForm(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, models.BlankWorkerForm())
}

func (h *Handler) HandleFarmerForm(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, models.BlankFarmerForm())
}

// HandleSubmitWorker handles POST /submissions/worker requests.
func (h *Handler) HandleSubmitWorker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[WorkerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	form := req.Form()
	sub, err := h.service.SubmitWorker(ctx, form)
	if err != nil {
		h.writeSubmitError(ctx, w, models.KindWorker, form, err)
		return
	}
	h.writeSubmission(ctx, w, models.KindWorker, sub, start)
}

// HandleSubmitFarmer handles POST /submissions/farmer requests.
func (h *Handler) HandleSubmitFarmer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[FarmerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	form := req.Form()
	sub, err := h.service.SubmitFarmer(ctx, form)
	if err != nil {
		h.writeSubmitError(ctx, w, models.KindFarmer, form, err)
		return
	}
	h.writeSubmission(ctx, w, models.KindFarmer, sub, start)
}

func (h *Handler) writeSubmission(ctx context.Context, w http.ResponseWriter, kind models.Kind, sub *service.Submission, start time.Time) {
	h.logger.InfoContext(ctx, "submission accepted",
		"request_id", requestcontext.RequestID(ctx),
		"kind", string(kind),
		"receipt_no", sub.Record.ReceiptNo,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, SubmissionResponse{
		Receipt: FromRecord(sub.Record),
		Form:    sub.Form,
		Warning: sub.Warning,
	})
}

// writeSubmitError keeps the submitted form in payment failure responses so
// the client can retry without re-entering it.
func (h *Handler) writeSubmitError(ctx context.Context, w http.ResponseWriter, kind models.Kind, form any, err error) {
	h.logger.WarnContext(ctx, "submission failed",
		"request_id", requestcontext.RequestID(ctx),
		"kind", string(kind),
		"error", err,
	)
	de, ok := dErrors.As(err)
	if !ok || (de.Code != dErrors.CodePaymentDeclined && de.Code != dErrors.CodePaymentFailed) {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, dErrors.ToHTTPStatus(de.Code), PaymentErrorResponse{
		ErrorResponse: httputil.ErrorResponse{Error: string(de.Code), Description: de.Message},
		Form:          form,
	})
}

// HandleListReceipts handles GET /receipts.
func (h *Handler) HandleListReceipts(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromRecords(h.ledger.Records()))
}

// HandleViewReceipt returns one receipt and makes it the current one.
func (h *Handler) HandleViewReceipt(w http.ResponseWriter, r *http.Request) {
	receiptNo := chi.URLParam(r, "receiptNo")
	if !models.IsReceiptNumber(receiptNo) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "receipt number must look like CHF-123456"))
		return
	}
	rec, ok := h.ledger.Find(receiptNo)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "receipt not found"))
		return
	}
	h.viewer.Show(rec)
	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

func (h *Handler) HandleCurrentReceipt(w http.ResponseWriter, _ *http.Request) {
	rec, ok := h.viewer.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

func (h *Handler) HandleDismissReceipt(w http.ResponseWriter, _ *http.Request) {
	h.viewer.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
