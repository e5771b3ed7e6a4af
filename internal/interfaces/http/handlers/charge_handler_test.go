package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"zk-tipping.backend/internal/domain/entities"
	domainerrors "zk-tipping.backend/internal/domain/errors"
)

type chargeServiceStub struct {
	canChargeFn func(ctx context.Context, subscriptionID uuid.UUID) (bool, error)
	remainingFn func(ctx context.Context, subscriptionID uuid.UUID) (time.Duration, error)
	chargeFn    func(ctx context.Context, subscriptionID uuid.UUID, executorAddress string) (*entities.ChargeOutcome, error)
}

func (s *chargeServiceStub) CanCharge(ctx context.Context, subscriptionID uuid.UUID) (bool, error) {
	if s.canChargeFn != nil {
		return s.canChargeFn(ctx, subscriptionID)
	}
	return false, nil
}

func (s *chargeServiceStub) TimeUntilNextCharge(ctx context.Context, subscriptionID uuid.UUID) (time.Duration, error) {
	if s.remainingFn != nil {
		return s.remainingFn(ctx, subscriptionID)
	}
	return 0, nil
}

func (s *chargeServiceStub) ChargeSubscription(ctx context.Context, subscriptionID uuid.UUID, executorAddress string) (*entities.ChargeOutcome, error) {
	if s.chargeFn != nil {
		return s.chargeFn(ctx, subscriptionID, executorAddress)
	}
	return nil, domainerrors.ErrNotFound
}

type receiptServiceStub struct {
	recordFn func(ctx context.Context, subscriptionID uuid.UUID, txHash, executorAddress string, status entities.PaymentStatus, reason string, executedAt time.Time) (*entities.SubscriptionPayment, error)
}

func (s *receiptServiceStub) Record(ctx context.Context, subscriptionID uuid.UUID, txHash, executorAddress string, status entities.PaymentStatus, reason string, executedAt time.Time) (*entities.SubscriptionPayment, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, subscriptionID, txHash, executorAddress, status, reason, executedAt)
	}
	return nil, domainerrors.ErrNotFound
}

func newChargeRouter(charge *chargeServiceStub, receipt *receiptServiceStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChargeHandler(charge, receipt)
	r := gin.New()
	r.POST("/subscriptions/:id/charge", h.Charge)
	r.GET("/subscriptions/:id/chargeable", h.Chargeable)
	r.POST("/subscriptions/:id/receipts", h.RecordReceipt)
	return r
}

func TestChargeHandler_Charge(t *testing.T) {
	subscriptionID := uuid.New()
	charge := &chargeServiceStub{
		chargeFn: func(_ context.Context, id uuid.UUID, executorAddress string) (*entities.ChargeOutcome, error) {
			require.Equal(t, subscriptionID, id)
			require.Equal(t, "0xexecutor", executorAddress)
			return &entities.ChargeOutcome{
				SubscriptionID: id,
				Status:         entities.PaymentStatusSuccess,
				TxHash:         "0xok",
			}, nil
		},
	}
	r := newChargeRouter(charge, &receiptServiceStub{})

	body := `{"executorAddress":"0xexecutor"}`
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+subscriptionID.String()+"/charge", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"txHash":"0xok"`)
}

func TestChargeHandler_Charge_NotDue(t *testing.T) {
	charge := &chargeServiceStub{
		chargeFn: func(context.Context, uuid.UUID, string) (*entities.ChargeOutcome, error) {
			return nil, domainerrors.ErrNotDue
		},
	}
	r := newChargeRouter(charge, &receiptServiceStub{})

	body := `{"executorAddress":"0xexecutor"}`
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+uuid.NewString()+"/charge", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// A failed transfer is still a recorded outcome, not an HTTP error.
func TestChargeHandler_Charge_FailedOutcomeIsOK(t *testing.T) {
	charge := &chargeServiceStub{
		chargeFn: func(_ context.Context, id uuid.UUID, _ string) (*entities.ChargeOutcome, error) {
			return &entities.ChargeOutcome{
				SubscriptionID: id,
				Status:         entities.PaymentStatusFailed,
				Reason:         entities.FailReasonReverted,
			}, nil
		},
	}
	r := newChargeRouter(charge, &receiptServiceStub{})

	body := `{"executorAddress":"0xexecutor"}`
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+uuid.NewString()+"/charge", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"failed"`)
	require.Contains(t, w.Body.String(), `"reason":"REVERTED"`)
}

func TestChargeHandler_Charge_Validation(t *testing.T) {
	r := newChargeRouter(&chargeServiceStub{}, &receiptServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/subscriptions/not-a-uuid/charge", strings.NewReader(`{"executorAddress":"0x1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Missing executor address.
	req = httptest.NewRequest(http.MethodPost, "/subscriptions/"+uuid.NewString()+"/charge", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChargeHandler_Chargeable(t *testing.T) {
	charge := &chargeServiceStub{
		canChargeFn: func(context.Context, uuid.UUID) (bool, error) { return false, nil },
		remainingFn: func(context.Context, uuid.UUID) (time.Duration, error) { return 90 * time.Second, nil },
	}
	r := newChargeRouter(charge, &receiptServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/"+uuid.NewString()+"/chargeable", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"chargeable":false`)
	require.Contains(t, w.Body.String(), `"secondsUntilNext":90`)
}

func TestChargeHandler_Chargeable_NotFound(t *testing.T) {
	charge := &chargeServiceStub{
		canChargeFn: func(context.Context, uuid.UUID) (bool, error) { return false, domainerrors.ErrNotFound },
	}
	r := newChargeRouter(charge, &receiptServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/"+uuid.NewString()+"/chargeable", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestChargeHandler_RecordReceipt(t *testing.T) {
	subscriptionID := uuid.New()
	receipt := &receiptServiceStub{
		recordFn: func(_ context.Context, id uuid.UUID, txHash, executorAddress string, status entities.PaymentStatus, reason string, executedAt time.Time) (*entities.SubscriptionPayment, error) {
			require.Equal(t, subscriptionID, id)
			require.Equal(t, entities.PaymentStatusSuccess, status)
			require.Equal(t, int64(1767225600), executedAt.Unix())
			return &entities.SubscriptionPayment{
				ID:             uuid.New(),
				SubscriptionID: id,
				TxHash:         txHash,
				Status:         status,
			}, nil
		},
	}
	r := newChargeRouter(&chargeServiceStub{}, receipt)

	body := `{"txHash":"0xext","executorAddress":"0xexecutor","status":"success","executedAt":1767225600}`
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+subscriptionID.String()+"/receipts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"txHash":"0xext"`)
}

func TestChargeHandler_RecordReceipt_Validation(t *testing.T) {
	r := newChargeRouter(&chargeServiceStub{}, &receiptServiceStub{})

	// Unknown status value.
	body := `{"txHash":"0xext","executorAddress":"0xexecutor","status":"pending","executedAt":1767225600}`
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+uuid.NewString()+"/receipts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Missing required fields.
	req = httptest.NewRequest(http.MethodPost, "/subscriptions/"+uuid.NewString()+"/receipts", strings.NewReader(`{"txHash":"0xext"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChargeHandler_RecordReceipt_DuplicateConflict(t *testing.T) {
	receipt := &receiptServiceStub{
		recordFn: func(context.Context, uuid.UUID, string, string, entities.PaymentStatus, string, time.Time) (*entities.SubscriptionPayment, error) {
			return nil, domainerrors.ErrDuplicateTx
		},
	}
	r := newChargeRouter(&chargeServiceStub{}, receipt)

	body := `{"txHash":"0xseen","executorAddress":"0xexecutor","status":"failed","reason":"REVERTED","executedAt":1767225600}`
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+uuid.NewString()+"/receipts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestChargeHandler_RecordReceipt_InternalErrorMasked(t *testing.T) {
	receipt := &receiptServiceStub{
		recordFn: func(context.Context, uuid.UUID, string, string, entities.PaymentStatus, string, time.Time) (*entities.SubscriptionPayment, error) {
			return nil, errors.New("db connection lost")
		},
	}
	r := newChargeRouter(&chargeServiceStub{}, receipt)

	body := `{"txHash":"0xext","executorAddress":"0xexecutor","status":"success","executedAt":1767225600}`
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+uuid.NewString()+"/receipts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "db connection lost")
}
