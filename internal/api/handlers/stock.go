package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/stock-market-api/internal/api/request"
	"github.com/ndewijer/stock-market-api/internal/api/response"
	"github.com/ndewijer/stock-market-api/internal/apperrors"
	"github.com/ndewijer/stock-market-api/internal/model"
	"github.com/ndewijer/stock-market-api/internal/service"
	"github.com/ndewijer/stock-market-api/internal/validation"
)

// StockHandler handles HTTP requests for stock data endpoints.
// It parses and validates requests and delegates to the stockService.
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new StockHandler with the provided service dependency.
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// Data handles GET requests for a page of stock records.
// When the source is a static document and no query parameters are given,
// the document is returned exactly as loaded.
//
// Endpoint: GET /data?page=1&limit=50&trade_code=ACI
// Response: 200 OK with model.StockPage
// Error: 400 Bad Request if page or limit is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *StockHandler) Data(w http.ResponseWriter, r *http.Request) {
	if r.URL.RawQuery == "" {
		if raw, ok := h.stockService.RawDocument(); ok {
			response.RespondRawJSON(w, http.StatusOK, raw)
			return
		}
	}

	filter, err := request.ParseStockFilter(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	page, err := h.stockService.ListStockData(r.Context(), filter)
	if err != nil {
		respondStoreError(w, r, apperrors.ErrFailedToRetrieveStockData, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}

// TradeCodes handles GET requests for the distinct trade codes.
//
// Endpoint: GET /trade_codes
// Response: 200 OK with model.TradeCodesResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *StockHandler) TradeCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.stockService.GetTradeCodes(r.Context())
	if err != nil {
		respondStoreError(w, r, apperrors.ErrFailedToRetrieveTradeCodes, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.TradeCodesResponse{TradeCodes: codes})
}

// Add handles POST requests to insert a stock record.
//
// Endpoint: POST /add
// Request Body: StockRecordRequest (all fields required)
// Response: 201 Created with model.MessageResponse
// Error: 400 Bad Request if the body is malformed or validation fails
// Error: 403 Forbidden if the source is read-only
// Error: 500 Internal Server Error if the insert fails
func (h *StockHandler) Add(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeStockRecord(w, r)
	if !ok {
		return
	}

	if err := h.stockService.CreateStockRecord(r.Context(), rec); err != nil {
		respondStoreError(w, r, apperrors.ErrFailedToAddRecord, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, model.MessageResponse{Message: "Record added successfully"})
}

// Update handles POST requests to overwrite the records keyed by the
// submitted (date, trade_code). A key with no match still succeeds.
//
// Endpoint: POST /update
// Request Body: StockRecordRequest (all fields required)
// Response: 200 OK with model.MessageResponse
// Error: 400 Bad Request if the body is malformed or validation fails
// Error: 403 Forbidden if the source is read-only
// Error: 500 Internal Server Error if the update fails
func (h *StockHandler) Update(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeStockRecord(w, r)
	if !ok {
		return
	}

	if err := h.stockService.UpdateStockRecord(r.Context(), rec); err != nil {
		respondStoreError(w, r, apperrors.ErrFailedToUpdateRecord, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.MessageResponse{Message: "Record updated successfully"})
}

// Delete handles DELETE requests to remove the records keyed by the
// submitted (date, trade_code). A key with no match still succeeds.
//
// Endpoint: DELETE /delete
// Request Body: StockRecordRequest (all fields required)
// Response: 200 OK with model.MessageResponse
// Error: 400 Bad Request if the body is malformed or validation fails
// Error: 403 Forbidden if the source is read-only
// Error: 500 Internal Server Error if the delete fails
func (h *StockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeStockRecord(w, r)
	if !ok {
		return
	}

	if err := h.stockService.DeleteStockRecord(r.Context(), rec); err != nil {
		respondStoreError(w, r, apperrors.ErrFailedToDeleteRecord, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.MessageResponse{Message: "Record deleted successfully"})
}

// decodeStockRecord parses and validates a StockRecordRequest body. On
// failure it writes a 400 response and returns false.
func decodeStockRecord(w http.ResponseWriter, r *http.Request) (model.StockRecord, bool) {
	req, err := parseJSON[request.StockRecordRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return model.StockRecord{}, false
	}

	if err := validation.ValidateStockRecord(req); err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
			return model.StockRecord{}, false
		}
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return model.StockRecord{}, false
	}

	return req.Record(), true
}

// respondStoreError maps a service error to a response. The cause is logged;
// only the generic message reaches the client.
func respondStoreError(w http.ResponseWriter, r *http.Request, message, err error) {
	switch {
	case errors.Is(err, apperrors.ErrReadOnlySource):
		response.RespondError(w, http.StatusForbidden, apperrors.ErrReadOnlySource.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		log.Ctx(r.Context()).Warn().Err(err).Msg(message.Error())
		response.RespondError(w, http.StatusGatewayTimeout, apperrors.ErrRequestTimeout.Error(), nil)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg(message.Error())
		response.RespondError(w, http.StatusInternalServerError, message.Error(), nil)
	}
}
