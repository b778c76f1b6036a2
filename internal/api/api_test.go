package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/neuronclub/neuron-backend/internal/config"
	"github.com/neuronclub/neuron-backend/internal/models"
	"github.com/neuronclub/neuron-backend/internal/payment"
	"github.com/neuronclub/neuron-backend/internal/service"
)

type fakeAdminRepo struct {
	admins map[string]*models.Admin
}

func (r *fakeAdminRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeAdminRepo) SaveAdmin(admin *models.Admin) error {
	r.admins[admin.Username] = admin
	return nil
}

func (r *fakeAdminRepo) GetAdminByUsername(username string) (*models.Admin, error) {
	return r.admins[username], nil
}

type fakeRegistrationRepo struct {
	regs []*models.Registration
}

func (r *fakeRegistrationRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeRegistrationRepo) SaveRegistration(reg *models.Registration) error {
	for _, existing := range r.regs {
		if existing.Email == reg.Email {
			return models.ErrDuplicateEmail
		}
	}
	copied := *reg
	r.regs = append(r.regs, &copied)
	return nil
}

func (r *fakeRegistrationRepo) GetByEmail(email string) (*models.Registration, error) {
	for _, reg := range r.regs {
		if reg.Email == email {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRegistrationRepo) GetByRegistrationID(registrationID string) (*models.Registration, error) {
	for _, reg := range r.regs {
		if reg.RegistrationID == registrationID {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRegistrationRepo) GetAll(limit int64) ([]*models.Registration, error) {
	out := make([]*models.Registration, 0, len(r.regs))
	for _, reg := range r.regs {
		copied := *reg
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRegistrationRepo) GetCompleted(limit int64) ([]*models.Registration, error) {
	out := make([]*models.Registration, 0)
	for _, reg := range r.regs {
		if reg.PaymentStatus == models.PaymentStatusCompleted {
			copied := *reg
			out = append(out, &copied)
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRegistrationRepo) AttachOrder(registrationID, orderID string, amount int64) error {
	for _, reg := range r.regs {
		if reg.RegistrationID == registrationID && reg.PaymentStatus == models.PaymentStatusPending {
			reg.OrderID = &orderID
			reg.Amount = &amount
			return nil
		}
	}
	return models.ErrPaymentCompleted
}

func (r *fakeRegistrationRepo) MarkCompleted(registrationID, orderID, paymentID string) error {
	for _, reg := range r.regs {
		if reg.RegistrationID == registrationID && reg.PaymentStatus == models.PaymentStatusPending {
			reg.PaymentStatus = models.PaymentStatusCompleted
			reg.TransactionID = &paymentID
			reg.OrderID = &orderID
			return nil
		}
	}
	return nil
}

func (r *fakeRegistrationRepo) CountAll() (int64, error) {
	return int64(len(r.regs)), nil
}

func (r *fakeRegistrationRepo) CountByStatus(status models.PaymentStatus) (int64, error) {
	var n int64
	for _, reg := range r.regs {
		if reg.PaymentStatus == status {
			n++
		}
	}
	return n, nil
}

type fakeGateway struct {
	orders       int
	validTriples map[string]bool
}

func (g *fakeGateway) CreateOrder(amount int64, notes map[string]interface{}) (*payment.Order, error) {
	g.orders++
	return &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.orders),
		Amount:   amount,
		Currency: "INR",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return g.validTriples[orderID+"|"+paymentID+"|"+signature]
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

type testServer struct {
	router  *gin.Engine
	regRepo *fakeRegistrationRepo
	gateway *fakeGateway
}

const testAdminPassword = "NeuronAdmin@2025"

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		AdminPassword: testAdminPassword,
		CORSOrigins:   []string{"*"},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.DefaultCost)
	require.NoError(t, err)
	adminRepo := &fakeAdminRepo{admins: map[string]*models.Admin{
		"admin": {ID: "admin-id", Username: "admin", HashedPassword: string(hashed)},
	}}

	regRepo := &fakeRegistrationRepo{}
	gateway := &fakeGateway{validTriples: map[string]bool{}}

	registrationService := service.NewRegistrationService(regRepo)
	paymentService := service.NewPaymentService(regRepo, gateway)

	r := gin.New()
	SetupRoutes(r, cfg, adminRepo, registrationService, paymentService, zap.NewNop())

	return &testServer{router: r, regRepo: regRepo, gateway: gateway}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/admin-login", "", gin.H{
		"username": "admin",
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func registrationBody(email string) gin.H {
	return gin.H{
		"full_name": "Asha Rao",
		"email":     email,
		"phone":     "+911234567890",
		"college":   "IIT",
		"honeypot":  "",
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Neuron Club API - Active"}`, w.Body.String())
}

func TestCreateRegistration(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/registrations", "", registrationBody("asha@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	var reg models.Registration
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.Regexp(t, `^NEU\d{8}[0-9A-F]{8}$`, reg.RegistrationID)
	assert.Equal(t, models.PaymentStatusPending, reg.PaymentStatus)
	assert.Equal(t, "asha@example.com", reg.Email)
	assert.Nil(t, reg.TeamName)
}

func TestCreateRegistrationHoneypot(t *testing.T) {
	s := newTestServer(t)

	body := registrationBody("bot@example.com")
	body["honeypot"] = "http://spam.example.com"
	w := s.do(t, http.MethodPost, "/api/registrations", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid submission")
	assert.Empty(t, s.regRepo.regs)
}

func TestCreateRegistrationInvalidEmail(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/registrations", "", registrationBody("not-an-email"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRegistrationMissingField(t *testing.T) {
	s := newTestServer(t)

	body := registrationBody("asha@example.com")
	delete(body, "college")
	w := s.do(t, http.MethodPost, "/api/registrations", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRegistrationDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/registrations", "", registrationBody("asha@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/registrations", "", registrationBody("asha@example.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
	assert.Len(t, s.regRepo.regs, 1)
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/admin-login", "", gin.H{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/admin-login", "", gin.H{
		"username": "nobody",
		"password": testAdminPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/registrations",
		"/api/registrations/export",
		"/api/registrations/stats",
	} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = s.do(t, http.MethodGet, path, "not-a-real-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestListRegistrationsWithToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(t, http.MethodPost, "/api/registrations", "", registrationBody("asha@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/registrations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var regs []models.Registration
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &regs))
	require.Len(t, regs, 1)
	assert.Equal(t, "asha@example.com", regs[0].Email)
}

func TestExportRegistrations(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(t, http.MethodPost, "/api/registrations", "", registrationBody("asha@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/registrations/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Regexp(t, `attachment; filename=neuron_registrations_\d{8}_\d{6}\.csv`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Registration ID,Full Name,Email,Phone,College,Team Name,Payment Status,Transaction ID,Amount (INR),Created At")
	assert.Contains(t, w.Body.String(), "asha@example.com")
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(t, http.MethodPost, "/api/registrations", "", registrationBody("asha@example.com"))
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/registrations", "", registrationBody("ravi@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	reg, err := s.regRepo.GetByEmail("asha@example.com")
	require.NoError(t, err)
	require.NoError(t, s.regRepo.AttachOrder(reg.RegistrationID, "order_1", 50000))
	require.NoError(t, s.regRepo.MarkCompleted(reg.RegistrationID, "order_1", "pay_1"))

	w = s.do(t, http.MethodGet, "/api/registrations/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"total_registrations": 2,
		"paid_registrations": 1,
		"pending_registrations": 1,
		"total_revenue_inr": 500
	}`, w.Body.String())
}

func TestCreateOrderUnknownRegistration(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/payment/create-order", "", gin.H{
		"amount":          50000,
		"registration_id": "NEU20250101DEADBEEF",
		"full_name":       "Asha Rao",
		"email":           "asha@example.com",
		"phone":           "+911234567890",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Registration not found")
}

func TestPaymentFlowEndToEnd(t *testing.T) {
	s := newTestServer(t)

	// Register.
	w := s.do(t, http.MethodPost, "/api/registrations", "", registrationBody("asha@example.com"))
	require.Equal(t, http.StatusOK, w.Code)
	var reg models.Registration
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	require.Equal(t, models.PaymentStatusPending, reg.PaymentStatus)

	// Create order.
	w = s.do(t, http.MethodPost, "/api/payment/create-order", "", gin.H{
		"amount":          50000,
		"registration_id": reg.RegistrationID,
		"full_name":       reg.FullName,
		"email":           reg.Email,
		"phone":           reg.Phone,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var order struct {
		OrderID  string `json:"order_id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		KeyID    string `json:"key_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "order_1", order.OrderID)
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.KeyID)

	// A second order for the same registration is still allowed while pending.
	w = s.do(t, http.MethodPost, "/api/payment/create-order", "", gin.H{
		"amount":          50000,
		"registration_id": reg.RegistrationID,
		"full_name":       reg.FullName,
		"email":           reg.Email,
		"phone":           reg.Phone,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Verify with a bad signature: rejected, registration untouched.
	w = s.do(t, http.MethodPost, "/api/payment/verify", "", gin.H{
		"razorpay_order_id":   order.OrderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "bogus",
		"registration_id":     reg.RegistrationID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid payment signature")

	stored, err := s.regRepo.GetByRegistrationID(reg.RegistrationID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)

	// Verify with a valid signature.
	s.gateway.validTriples[order.OrderID+"|pay_1|sig_1"] = true
	w = s.do(t, http.MethodPost, "/api/payment/verify", "", gin.H{
		"razorpay_order_id":   order.OrderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "sig_1",
		"registration_id":     reg.RegistrationID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "success", "message": "Payment verified successfully"}`, w.Body.String())

	stored, err = s.regRepo.GetByRegistrationID(reg.RegistrationID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, stored.PaymentStatus)
	require.NotNil(t, stored.TransactionID)
	assert.Equal(t, "pay_1", *stored.TransactionID)

	// Creating another order after completion is rejected.
	w = s.do(t, http.MethodPost, "/api/payment/create-order", "", gin.H{
		"amount":          50000,
		"registration_id": reg.RegistrationID,
		"full_name":       reg.FullName,
		"email":           reg.Email,
		"phone":           reg.Phone,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Payment already completed")
}
