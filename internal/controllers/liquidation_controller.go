package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/poofware/liquidation-service/internal/dtos"
	"github.com/poofware/liquidation-service/internal/repositories"
	"github.com/poofware/liquidation-service/internal/services"
	"github.com/poofware/liquidation-service/internal/utils"
)

type LiquidationController struct {
	liquidationService *services.LiquidationService
	liqRepo            repositories.LiquidationRepository
}

func NewLiquidationController(s *services.LiquidationService, liqRepo repositories.LiquidationRepository) *LiquidationController {
	return &LiquidationController{liquidationService: s, liqRepo: liqRepo}
}

var liquidationValidate = validator.New()

// POST /api/v1/liquidations/preview
func (c *LiquidationController) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeLiquidationRequest(w, r)
	if !ok {
		return
	}

	breakdown, err := c.liquidationService.Preview(r.Context(), req.OwnerID, req.Month, req.Year)
	if err != nil {
		respondLiquidationError(w, err, "Could not compute preview")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, breakdown)
}

// POST /api/v1/liquidations
func (c *LiquidationController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeLiquidationRequest(w, r)
	if !ok {
		return
	}

	liq, err := c.liquidationService.Create(r.Context(), req.OwnerID, req.Month, req.Year)
	if err != nil {
		respondLiquidationError(w, err, "Could not create liquidation")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, liq)
}

// GET /api/v1/liquidations/pending?month&year
func (c *LiquidationController) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPeriod, "month query parameter is required", nil, err)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPeriod, "year query parameter is required", nil, err)
		return
	}

	resp, err := c.liquidationService.ListPending(r.Context(), month, year)
	if err != nil {
		respondLiquidationError(w, err, "Could not list pending liquidations")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/liquidations?month&year&sort_by&sort_dir&page&page_size
func (c *LiquidationController) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repositories.HistoryFilter{
		SortBy:  q.Get("sort_by"),
		SortDir: q.Get("sort_dir"),
	}
	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPeriod, "month must be an integer", nil, err)
			return
		}
		f.Month = &month
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPeriod, "year must be an integer", nil, err)
			return
		}
		f.Year = &year
	}
	if v := q.Get("page"); v != "" {
		f.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("page_size"); v != "" {
		f.PageSize, _ = strconv.Atoi(v)
	}

	resp, err := c.liquidationService.History(r.Context(), f)
	if err != nil {
		respondLiquidationError(w, err, "Could not list liquidation history")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/liquidations/{id}
func (c *LiquidationController) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid liquidation id", nil, err)
		return
	}

	liq, err := c.liqRepo.GetByID(r.Context(), id)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadGateway, utils.ErrCodeUpstreamRead, "Could not read liquidation", nil, err)
		return
	}
	if liq == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Liquidation not found", nil, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, liq)
}

func (c *LiquidationController) decodeLiquidationRequest(w http.ResponseWriter, r *http.Request) (dtos.LiquidationRequest, bool) {
	var req dtos.LiquidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return req, false
	}

	if err := liquidationValidate.StructCtx(r.Context(), req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Validation failed", validationErrors.Error(), nil)
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request data", nil, err)
		}
		return req, false
	}
	return req, true
}

// respondLiquidationError maps engine errors to HTTP. Every failure
// keeps its machine code so callers can tell "already done" (409) from
// "blocked" (422) from "cannot determine amount" (502).
func respondLiquidationError(w http.ResponseWriter, err error, publicMessage string) {
	var upstream *utils.UpstreamReadError
	switch {
	case errors.Is(err, utils.ErrInvalidPeriod):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPeriod, "Month/year out of range", nil, err)
	case errors.Is(err, utils.ErrOwnerNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Owner not found", nil, err)
	case errors.Is(err, utils.ErrNoMandate):
		utils.RespondErrorWithCode(w, http.StatusUnprocessableEntity, utils.ErrCodeMandateMissing, "No fee mandate resolves for this owner and period", nil, err)
	case errors.Is(err, utils.ErrDuplicateLiquidation):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeDuplicateLiquidation, "A liquidation already exists for this owner and period", nil, err)
	case errors.As(err, &upstream):
		utils.RespondErrorWithCode(w, http.StatusBadGateway, utils.ErrCodeUpstreamRead, publicMessage, nil, err)
	default:
		utils.Logger.WithError(err).Error(publicMessage)
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, publicMessage, nil, err)
	}
}
