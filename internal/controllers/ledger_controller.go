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

// LedgerController exposes the write/read surface of the ledgers the
// engine computes from.
type LedgerController struct {
	ledgerService *services.LedgerService
	ownerRepo     repositories.OwnerRepository
	unitRepo      repositories.UnitRepository
	leaseRepo     repositories.LeaseRepository
	mandateRepo   repositories.MandateRepository
	chargeRepo    repositories.ChargeRepository
}

func NewLedgerController(
	ledgerService *services.LedgerService,
	ownerRepo repositories.OwnerRepository,
	unitRepo repositories.UnitRepository,
	leaseRepo repositories.LeaseRepository,
	mandateRepo repositories.MandateRepository,
	chargeRepo repositories.ChargeRepository,
) *LedgerController {
	return &LedgerController{
		ledgerService: ledgerService,
		ownerRepo:     ownerRepo,
		unitRepo:      unitRepo,
		leaseRepo:     leaseRepo,
		mandateRepo:   mandateRepo,
		chargeRepo:    chargeRepo,
	}
}

var ledgerValidate = validator.New()

/* ---------- owners ---------- */

// POST /api/v1/owners
func (c *LedgerController) CreateOwnerHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateOwnerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	owner, err := c.ledgerService.CreateOwner(r.Context(), req)
	if err != nil {
		respondLedgerError(w, err, "Could not create owner")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, owner)
}

// GET /api/v1/owners
func (c *LedgerController) ListOwnersHandler(w http.ResponseWriter, r *http.Request) {
	owners, err := c.ownerRepo.List(r.Context())
	if err != nil {
		respondLedgerError(w, err, "Could not list owners")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, owners)
}

// GET /api/v1/owners/{id}
func (c *LedgerController) GetOwnerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	owner, err := c.ownerRepo.GetByID(r.Context(), id)
	if err != nil {
		respondLedgerError(w, err, "Could not read owner")
		return
	}
	if owner == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Owner not found", nil, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, owner)
}

// DELETE /api/v1/owners/{id} soft-deletes only; liquidation history
// keeps referencing the row.
func (c *LedgerController) DeleteOwnerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.ownerRepo.SoftDelete(r.Context(), id); err != nil {
		respondLedgerError(w, err, "Could not delete owner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/owners/{id}/mandates
func (c *LedgerController) ListOwnerMandatesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	mandates, err := c.mandateRepo.ListByOwner(r.Context(), id)
	if err != nil {
		respondLedgerError(w, err, "Could not list mandates")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, mandates)
}

/* ---------- units ---------- */

// POST /api/v1/units
func (c *LedgerController) CreateUnitHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateUnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	unit, err := c.ledgerService.CreateUnit(r.Context(), req)
	if err != nil {
		respondLedgerError(w, err, "Could not create unit")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, unit)
}

// GET /api/v1/units
func (c *LedgerController) ListUnitsHandler(w http.ResponseWriter, r *http.Request) {
	units, err := c.unitRepo.List(r.Context())
	if err != nil {
		respondLedgerError(w, err, "Could not list units")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, units)
}

// POST /api/v1/units/{id}/owners
func (c *LedgerController) AssignOwnerHandler(w http.ResponseWriter, r *http.Request) {
	unitID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.AssignOwnerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	share, err := c.ledgerService.AssignOwner(r.Context(), unitID, req)
	if err != nil {
		respondLedgerError(w, err, "Could not assign owner")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, share)
}

// GET /api/v1/units/{id}/owners
func (c *LedgerController) ListUnitOwnersHandler(w http.ResponseWriter, r *http.Request) {
	unitID, ok := pathID(w, r)
	if !ok {
		return
	}
	shares, err := c.unitRepo.ListOwnersOfUnit(r.Context(), unitID)
	if err != nil {
		respondLedgerError(w, err, "Could not list unit owners")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, shares)
}

// GET /api/v1/units/{id}/leases
func (c *LedgerController) ListUnitLeasesHandler(w http.ResponseWriter, r *http.Request) {
	unitID, ok := pathID(w, r)
	if !ok {
		return
	}
	leases, err := c.leaseRepo.ListByUnit(r.Context(), unitID)
	if err != nil {
		respondLedgerError(w, err, "Could not list leases")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, leases)
}

/* ---------- leases & rent entries ---------- */

// POST /api/v1/leases
func (c *LedgerController) CreateLeaseHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateLeaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	lease, err := c.ledgerService.CreateLease(r.Context(), req)
	if err != nil {
		respondLedgerError(w, err, "Could not create lease")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, lease)
}

// POST /api/v1/rent-entries
func (c *LedgerController) RecordRentEntryHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RecordRentEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	entry, err := c.ledgerService.RecordRentEntry(r.Context(), req)
	if err != nil {
		respondLedgerError(w, err, "Could not record rent entry")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, entry)
}

/* ---------- mandates ---------- */

// POST /api/v1/mandates
func (c *LedgerController) CreateMandateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateMandateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	mandate, err := c.ledgerService.CreateMandate(r.Context(), req)
	if err != nil {
		respondLedgerError(w, err, "Could not create mandate")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, mandate)
}

/* ---------- charges ---------- */

// POST /api/v1/charges
func (c *LedgerController) CreateChargeHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateChargeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	charge, err := c.ledgerService.CreateCharge(r.Context(), req)
	if err != nil {
		respondLedgerError(w, err, "Could not create charge")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, charge)
}

// GET /api/v1/charges?month&year
func (c *LedgerController) ListChargesHandler(w http.ResponseWriter, r *http.Request) {
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
	charges, err := c.chargeRepo.ListForPeriod(r.Context(), month, year)
	if err != nil {
		respondLedgerError(w, err, "Could not list charges")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, charges)
}

/* ---------- helpers ---------- */

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id in path", nil, err)
		return uuid.Nil, false
	}
	return id, true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return false
	}
	if err := ledgerValidate.StructCtx(r.Context(), req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", validationErrors.Error(), nil)
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request data", nil, err)
		}
		return false
	}
	return true
}

func respondLedgerError(w http.ResponseWriter, err error, publicMessage string) {
	switch {
	case errors.Is(err, utils.ErrOwnerNotFound),
		errors.Is(err, utils.ErrUnitNotFound),
		errors.Is(err, utils.ErrLeaseNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), nil, err)
	case errors.Is(err, utils.ErrInvalidPeriod):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPeriod, "Month/year out of range", nil, err)
	default:
		utils.Logger.WithError(err).Error(publicMessage)
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, publicMessage, nil, err)
	}
}
