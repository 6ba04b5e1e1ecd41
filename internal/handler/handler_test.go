package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ebucks/internal/dto"
	"ebucks/internal/handler"
	"ebucks/internal/middleware"
	"ebucks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Service stubs ────────────────────────────────────────────────────────────

type stubLedger struct {
	service.LedgerService
	err error
}

func (s *stubLedger) GetVoucher(_ context.Context, id string) (*dto.VoucherResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.VoucherResponse{ID: id, Amount: decimal.NewFromInt(10)}, nil
}

func (s *stubLedger) Reprint(_ context.Context, id string) (string, error) {
	return "<html>" + id + "</html>", s.err
}

type stubPurchase struct {
	err  error
	seen *dto.PurchaseRequest
}

func (s *stubPurchase) Purchase(_ context.Context, req dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	s.seen = &req
	if s.err != nil {
		return nil, s.err
	}
	change := "CHANGE01"
	return &dto.PurchaseResponse{Success: true, TransactionID: "TXN00001", Change: decimal.RequireFromString("2.50"), ChangeID: &change}, nil
}

type stubTransfer struct{ err error }

func (s *stubTransfer) Transfer(_ context.Context, req dto.TransferRequest) (*dto.TransferResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.TransferResponse{Success: true, VoucherID: "SENT0001", Amount: req.Amount}, nil
}

type stubAuth struct {
	service.AuthService
	err error
}

func (s *stubAuth) Login(_ context.Context, _ dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LoginResponse{Success: true, AccessToken: "tok", TokenType: "bearer"}, nil
}

func (s *stubAuth) CreateUser(_ context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.UserResponse{ID: uuid.NewString(), Name: req.Name, Role: req.Role}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func newEngine(ledger service.LedgerService, purchase service.PurchaseService, transfer service.TransferService, auth service.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	lh := handler.NewLedgerHandler(ledger, purchase, transfer)
	r.POST("/v1/purchase", lh.Purchase)
	r.POST("/v1/transfer", lh.Transfer)
	r.GET("/v1/vouchers/:id", lh.GetVoucher)
	r.GET("/v1/vouchers/:id/print", lh.Reprint)
	ah := handler.NewAuthHandler(auth)
	r.POST("/v1/auth/login", ah.Login)
	uh := handler.NewUsersHandler(auth, nil)
	r.POST("/v1/users", uh.Create)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validPurchase() map[string]any {
	return map[string]any{
		"voucherIds": []string{"AAAA0010", "AAAA0005"},
		"totalCost":  12.5,
		"cartItems": []map[string]any{
			{"id": uuid.NewString(), "name": "Chips", "price": 5},
			{"id": uuid.NewString(), "name": "Cookie", "price": 7.5},
		},
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestPurchase_OK(t *testing.T) {
	p := &stubPurchase{}
	r := newEngine(&stubLedger{}, p, &stubTransfer{}, &stubAuth{})

	w := doJSON(t, r, http.MethodPost, "/v1/purchase", validPurchase())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "TXN00001", body["transactionId"])
	assert.Equal(t, "CHANGE01", body["changeId"])

	require.NotNil(t, p.seen)
	assert.True(t, p.seen.TotalCost.Equal(decimal.RequireFromString("12.5")))
	assert.Len(t, p.seen.CartItems, 2)
}

func TestPurchase_Validation(t *testing.T) {
	r := newEngine(&stubLedger{}, &stubPurchase{}, &stubTransfer{}, &stubAuth{})

	noVouchers := validPurchase()
	noVouchers["voucherIds"] = []string{}
	w := doJSON(t, r, http.MethodPost, "/v1/purchase", noVouchers)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "VoucherIDs")

	negative := validPurchase()
	negative["totalCost"] = -1
	w = doJSON(t, r, http.MethodPost, "/v1/purchase", negative)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/purchase", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurchase_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: 1 of 2 vouchers", service.ErrInvalidVoucherSet), http.StatusBadRequest},
		{fmt.Errorf("%w: short by 1.00", service.ErrInsufficientFunds), http.StatusBadRequest},
		{service.ErrCartTotalMismatch, http.StatusBadRequest},
		{fmt.Errorf("%w: Chips", service.ErrOutOfStock), http.StatusConflict},
		{fmt.Errorf("%w: inventory item", service.ErrNotFound), http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			r := newEngine(&stubLedger{}, &stubPurchase{err: tc.err}, &stubTransfer{}, &stubAuth{})
			w := doJSON(t, r, http.MethodPost, "/v1/purchase", validPurchase())
			assert.Equal(t, tc.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", body["detail"], "internal errors are not leaked")
			} else {
				assert.Equal(t, tc.err.Error(), body["detail"])
			}
		})
	}
}

func TestTransfer_StatusCodes(t *testing.T) {
	body := map[string]any{"senderId": uuid.NewString(), "receiverId": uuid.NewString(), "amount": 10}

	r := newEngine(&stubLedger{}, &stubPurchase{}, &stubTransfer{}, &stubAuth{})
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/v1/transfer", body).Code)

	r = newEngine(&stubLedger{}, &stubPurchase{}, &stubTransfer{err: service.ErrSelfTransfer}, &stubAuth{})
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/v1/transfer", body).Code)

	zero := map[string]any{"senderId": uuid.NewString(), "receiverId": uuid.NewString(), "amount": 0}
	assert.Equal(t, http.StatusUnprocessableEntity, doJSON(t, r, http.MethodPost, "/v1/transfer", zero).Code)
}

func TestVoucherLookupAndReprint(t *testing.T) {
	r := newEngine(&stubLedger{}, &stubPurchase{}, &stubTransfer{}, &stubAuth{})
	w := doJSON(t, r, http.MethodGet, "/v1/vouchers/AAAA0001", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AAAA0001")

	w = doJSON(t, r, http.MethodGet, "/v1/vouchers/AAAA0001/print", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "printable")

	r = newEngine(&stubLedger{err: fmt.Errorf("%w: voucher", service.ErrNotFound)}, &stubPurchase{}, &stubTransfer{}, &stubAuth{})
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/v1/vouchers/NOPE", nil).Code)
}

func TestLogin_StatusCodes(t *testing.T) {
	r := newEngine(&stubLedger{}, &stubPurchase{}, &stubTransfer{}, &stubAuth{})
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{"pin": "4821"}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{"pin": "12ab"}).Code)

	r = newEngine(&stubLedger{}, &stubPurchase{}, &stubTransfer{}, &stubAuth{err: service.ErrInvalidPIN})
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{"pin": "4821"}).Code)
}

func TestCreateUser_StatusCodes(t *testing.T) {
	body := map[string]any{"name": "ALICE", "role": "Employee", "pin": "4821"}

	r := newEngine(&stubLedger{}, &stubPurchase{}, &stubTransfer{}, &stubAuth{})
	assert.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/v1/users", body).Code)

	bad := map[string]any{"name": "ALICE", "role": "Principal", "pin": "4821"}
	assert.Equal(t, http.StatusUnprocessableEntity, doJSON(t, r, http.MethodPost, "/v1/users", bad).Code)

	r = newEngine(&stubLedger{}, &stubPurchase{}, &stubTransfer{}, &stubAuth{err: service.ErrPINTaken})
	assert.Equal(t, http.StatusConflict, doJSON(t, r, http.MethodPost, "/v1/users", body).Code)
}
