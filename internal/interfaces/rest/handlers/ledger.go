package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/history"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/dto"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/rest"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/rest/middleware"
	"github.com/go-playground/validator"
	"github.com/oapi-codegen/runtime"
)

const maxBodyBytes = 1 << 20

type LedgerService interface {
	Summary(ctx context.Context, orderID string) (history.Summary, error)
	Reconcile(ctx context.Context, events []domain.PaymentEvent, instruments []domain.OrderPaymentInstrument) (history.Summary, error)
	RecordEvent(ctx context.Context, orderID string, event domain.PaymentEvent) (history.Summary, error)
	RegisterInstrument(ctx context.Context, orderID string, instrument domain.OrderPaymentInstrument) error
}

type LedgerHandler struct {
	service  LedgerService
	validate *validator.Validate
}

func NewLedgerHandler(service LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *LedgerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /orders/{orderID}/ledger", h.HandleGetLedger)
	mux.HandleFunc("POST /orders/{orderID}/events", h.HandleRecordEvent)
	mux.HandleFunc("POST /orders/{orderID}/instruments", h.HandleRegisterInstrument)
	mux.HandleFunc("POST /ledger/reconcile", h.HandleReconcile)
}

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// NewRouter mounts the given handlers behind recovery, logging and timeout middleware.
func NewRouter(logger *slog.Logger, timeout time.Duration, handlers ...RouteRegistrar) http.Handler {
	mux := http.NewServeMux()
	for _, h := range handlers {
		h.RegisterRoutes(mux)
	}
	return middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.Timeout(timeout),
	)
}

// HandleGetLedger returns the reconciled summary of an order's stored ledger.
func (h *LedgerHandler) HandleGetLedger(w http.ResponseWriter, r *http.Request) {
	orderID, err := bindOrderID(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), orderID)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, dto.FromSummary(summary))
}

// HandleRecordEvent appends one payment event and returns the new summary.
func (h *LedgerHandler) HandleRecordEvent(w http.ResponseWriter, r *http.Request) {
	orderID, err := bindOrderID(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	var req dto.EventDTO
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err)
		return
	}

	event, err := req.ToDomain()
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	summary, err := h.service.RecordEvent(r.Context(), orderID, event)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, recordEventResponse{
		EventGUID: event.GUID,
		Summary:   dto.FromSummary(summary),
	})
}

func (h *LedgerHandler) HandleRegisterInstrument(w http.ResponseWriter, r *http.Request) {
	orderID, err := bindOrderID(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	var req dto.InstrumentDTO
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err)
		return
	}

	instrument, err := req.ToDomain()
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	if err := h.service.RegisterInstrument(r.Context(), orderID, instrument); err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, req)
}

// HandleReconcile reconciles a ledger posted in the request body without storing it.
func (h *LedgerHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	var req dto.LedgerDTO
	if err := h.decode(r, &req); err != nil {
		rest.WriteError(w, err)
		return
	}

	events, instruments, err := req.ToDomain()
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	summary, err := h.service.Reconcile(r.Context(), events, instruments)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, dto.FromSummary(summary))
}

type recordEventResponse struct {
	EventGUID string         `json:"event_guid"`
	Summary   dto.SummaryDTO `json:"summary"`
}

func (h *LedgerHandler) decode(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return application.NewInvalidInputError(err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return application.NewInvalidInputError(fmt.Errorf("malformed JSON body: %w", err))
	}
	if err := h.validate.Struct(dst); err != nil {
		return application.NewInvalidInputError(err)
	}
	return nil
}

func bindOrderID(r *http.Request) (string, error) {
	var orderID string
	err := runtime.BindStyledParameterWithOptions("simple", "orderID", r.PathValue("orderID"), &orderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", application.NewInvalidInputError(fmt.Errorf("invalid format for parameter orderID: %w", err))
	}
	if orderID == "" {
		return "", domain.NewMissingRequiredFieldError("order id")
	}
	return orderID, nil
}
