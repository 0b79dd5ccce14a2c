package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/poofware/liquidation-service/internal/constants"
	"github.com/poofware/liquidation-service/internal/models"
	"github.com/poofware/liquidation-service/internal/routes"
	"github.com/poofware/liquidation-service/internal/services"
	"github.com/poofware/liquidation-service/internal/testhelpers"
	"github.com/poofware/liquidation-service/internal/utils"
)

func init() {
	utils.InitLogger("liquidation-service-test")
}

type testEnv struct {
	store   *testhelpers.MemoryStore
	router  *mux.Router
	ownerID uuid.UUID
	unitID  uuid.UUID
}

// newTestEnv wires the liquidation routes onto the in-memory store
// with one liquidatable owner seeded: sole owner of one unit, a 5000
// lease and a 10% invoiced-rent mandate.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	s := testhelpers.NewMemoryStore()
	env := &testEnv{store: s, ownerID: uuid.New(), unitID: uuid.New()}

	require.NoError(t, s.OwnerRepo().Create(ctx, &models.Owner{ID: env.ownerID, DisplayName: "Test Owner"}))
	require.NoError(t, s.UnitRepo().Create(ctx, &models.Unit{ID: env.unitID, Label: "Apt 1"}))
	require.NoError(t, s.UnitRepo().AssignOwner(ctx, &models.OwnershipShare{
		OwnerID: env.ownerID, UnitID: env.unitID, ShareNumerator: 1, ShareDenominator: 1,
	}))
	rent, err := decimal.NewFromString("5000")
	require.NoError(t, err)
	require.NoError(t, s.LeaseRepo().Create(ctx, &models.Lease{
		ID: uuid.New(), UnitID: env.unitID, TenantName: "Tenant A",
		RentAmount: rent, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
	rate, err := decimal.NewFromString("10")
	require.NoError(t, err)
	require.NoError(t, s.MandateRepo().Create(ctx, &models.Mandate{
		ID: uuid.New(), OwnerID: env.ownerID,
		FeeRatePercent: rate, FeeBasis: constants.FeeBasisInvoiced,
		ValidFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	calc := services.NewCalculatorService(s.OwnerRepo(), s.UnitRepo(), s.LeaseRepo(), s.MandateRepo(), s.ChargeRepo())
	svc := services.NewLiquidationService(calc, s.OwnerRepo(), s.LiquidationRepo())
	controller := NewLiquidationController(svc, s.LiquidationRepo())

	router := mux.NewRouter()
	router.HandleFunc(routes.LiquidationPreview, controller.PreviewHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.LiquidationPending, controller.ListPendingHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Liquidations, controller.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Liquidations, controller.HistoryHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.LiquidationByID, controller.GetByIDHandler).Methods(http.MethodGet)
	env.router = router
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func (env *testEnv) liquidationBody(month, year int) map[string]any {
	return map[string]any{"owner_id": env.ownerID, "month": month, "year": year}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}

func TestPreviewEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, routes.LiquidationPreview, env.liquidationBody(3, 2025))
	require.Equal(t, http.StatusOK, rr.Code)

	var b models.Breakdown
	decodeBody(t, rr, &b)
	require.Equal(t, env.ownerID, b.OwnerID)
	require.True(t, b.NetAmount.Equal(decimal.RequireFromString("4500")), "net %s", b.NetAmount)
}

func TestPreviewRejectsMalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, routes.LiquidationPreview, bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errResp utils.ErrorResponse
	decodeBody(t, rr, &errResp)
	require.Equal(t, utils.ErrCodeInvalidPayload, errResp.Code)
}

func TestPreviewRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, routes.LiquidationPreview, map[string]any{"month": 3})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPreviewInvalidPeriodIs400(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, routes.LiquidationPreview, env.liquidationBody(13, 2025))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPreviewUnknownOwnerIs404(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"owner_id": uuid.New(), "month": 3, "year": 2025}
	rr := env.do(t, http.MethodPost, routes.LiquidationPreview, body)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, routes.Liquidations, env.liquidationBody(3, 2025))
	require.Equal(t, http.StatusCreated, rr.Code)

	var liq models.Liquidation
	decodeBody(t, rr, &liq)
	require.Equal(t, models.LiquidationStatusValidated, liq.Status)
	require.NotEqual(t, uuid.Nil, liq.ID)
}

func TestCreateDuplicateIs409(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, routes.Liquidations, env.liquidationBody(3, 2025))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, http.MethodPost, routes.Liquidations, env.liquidationBody(3, 2025))
	require.Equal(t, http.StatusConflict, rr.Code)

	var errResp utils.ErrorResponse
	decodeBody(t, rr, &errResp)
	require.Equal(t, utils.ErrCodeDuplicateLiquidation, errResp.Code)
}

func TestCreateWithoutMandateIs422(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	blockedID := uuid.New()
	blockedUnit := uuid.New()
	require.NoError(t, env.store.OwnerRepo().Create(ctx, &models.Owner{ID: blockedID, DisplayName: "Blocked"}))
	require.NoError(t, env.store.UnitRepo().Create(ctx, &models.Unit{ID: blockedUnit, Label: "Apt 9"}))
	require.NoError(t, env.store.UnitRepo().AssignOwner(ctx, &models.OwnershipShare{
		OwnerID: blockedID, UnitID: blockedUnit, ShareNumerator: 1, ShareDenominator: 1,
	}))

	body := map[string]any{"owner_id": blockedID, "month": 3, "year": 2025}
	rr := env.do(t, http.MethodPost, routes.Liquidations, body)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var errResp utils.ErrorResponse
	decodeBody(t, rr, &errResp)
	require.Equal(t, utils.ErrCodeMandateMissing, errResp.Code)
}

func TestPendingEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, routes.LiquidationPending+"?month=3&year=2025", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Month   int `json:"month"`
		Year    int `json:"year"`
		Entries []struct {
			Owner         *models.Owner     `json:"owner"`
			Breakdown     *models.Breakdown `json:"breakdown"`
			BlockedReason string            `json:"blocked_reason"`
		} `json:"entries"`
	}
	decodeBody(t, rr, &resp)
	require.Equal(t, 3, resp.Month)
	require.Len(t, resp.Entries, 1)
	require.Equal(t, env.ownerID, resp.Entries[0].Owner.ID)

	// After a create the owner drops out of pending.
	rr = env.do(t, http.MethodPost, routes.Liquidations, env.liquidationBody(3, 2025))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, http.MethodGet, routes.LiquidationPending+"?month=3&year=2025", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &resp)
	require.Empty(t, resp.Entries)
}

func TestPendingRequiresPeriodParams(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, routes.LiquidationPending, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, routes.LiquidationPending+"?month=3", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	for _, month := range []int{1, 2, 3} {
		rr := env.do(t, http.MethodPost, routes.Liquidations, env.liquidationBody(month, 2025))
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := env.do(t, http.MethodGet, routes.Liquidations+"?sort_by=period&sort_dir=asc", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Items    []*models.Liquidation `json:"items"`
		Total    int                   `json:"total"`
		Page     int                   `json:"page"`
		PageSize int                   `json:"page_size"`
	}
	decodeBody(t, rr, &page)
	require.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 3)
	require.Equal(t, 1, page.Items[0].Month)

	rr = env.do(t, http.MethodGet, routes.Liquidations+"?month=2&year=2025", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &page)
	require.Equal(t, 1, page.Total)
	require.Equal(t, 2, page.Items[0].Month)
}

func TestHistoryRejectsNonNumericMonth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, routes.Liquidations+"?month=march", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetByIDEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, routes.Liquidations, env.liquidationBody(3, 2025))
	require.Equal(t, http.StatusCreated, rr.Code)
	var created models.Liquidation
	decodeBody(t, rr, &created)

	rr = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/liquidations/%s", created.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var fetched models.Liquidation
	decodeBody(t, rr, &fetched)
	require.Equal(t, created.ID, fetched.ID)
	require.Len(t, fetched.Lines, len(created.Lines))
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/liquidations/%s", uuid.New()), nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/liquidations/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
