package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/receipts/internal/adapters/repository"
	"github.com/okian/receipts/pkg/logger"
	"github.com/okian/receipts/pkg/metrics"
)

// Client-facing messages.
const (
	msgInvalidReceipt  = "The receipt is invalid."
	msgReceiptNotFound = "No receipt found for that ID."
)

// ReceiptsHandler handles receipt submission and points lookup.
type ReceiptsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
	log          logger.Logger
}

// NewReceiptsHandler creates a new receipts handler.
func NewReceiptsHandler(deps Dependencies, maxBodyBytes int64, log logger.Logger) *ReceiptsHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &ReceiptsHandler{deps: deps, maxBodyBytes: maxBodyBytes, log: log}
}

// HandleProcess handles POST /receipts/process requests.
func (h *ReceiptsHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	const op = "api.process_receipt"
	ctx := r.Context()

	req, err := h.decode(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", NewKind(op, ErrTooLarge))
			return
		}
		metrics.RecordValidationError("body")
		h.badRequest(ctx, w, WrapKind(op, ErrBadRequest, err), "body: "+err.Error())
		return
	}

	receipt, err := req.toReceipt()
	if err != nil {
		detail := err.Error()
		var ve *ValidationError
		if errors.As(err, &ve) {
			metrics.RecordValidationError(fieldFamily(ve.Field))
		}
		h.badRequest(ctx, w, WrapKind(op, ErrBadRequest, err), detail)
		return
	}

	id, err := h.deps.ProcessReceipt(ctx, receipt)
	if err != nil {
		h.log.Error(ctx, "failed to process receipt",
			logger.String("op", op),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
		return
	}
	writeJSON(w, http.StatusOK, processResponse{ID: id})
}

// HandlePoints handles GET /receipts/{id}/points requests.
func (h *ReceiptsHandler) HandlePoints(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_points"
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	points, err := h.deps.Points(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: msgReceiptNotFound})
			return
		}
		h.log.Error(ctx, "failed to look up points",
			logger.String("op", op),
			logger.String("id", id),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// decode reads exactly one JSON object from the body.
func (h *ReceiptsHandler) decode(w http.ResponseWriter, r *http.Request) (receiptRequest, error) {
	var req receiptRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return receiptRequest{}, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after receipt object")
		}
		return receiptRequest{}, err
	}
	return req, nil
}

func (h *ReceiptsHandler) badRequest(ctx context.Context, w http.ResponseWriter, err error, detail string) {
	h.log.Debug(ctx, "rejected receipt", logger.Error(err))
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    "bad_request",
		Message: msgInvalidReceipt,
		Detail:  detail,
	})
}
