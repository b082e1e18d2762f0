package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/valuation"
	"github.com/bobmcallan/folio/internal/storage"
)

// memUserStore is an in-memory interfaces.UserStore for handler tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (m *memUserStore) SaveUser(ctx context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *memUserStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memUserStore) DeleteUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}

func (m *memUserStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

// memHoldingStore is an in-memory interfaces.HoldingStore preserving
// insertion order.
type memHoldingStore struct {
	mu       sync.Mutex
	holdings []models.Holding
	err      error
}

func (m *memHoldingStore) SaveHolding(ctx context.Context, h *models.Holding) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.holdings {
		if m.holdings[i].ID == h.ID {
			m.holdings[i] = *h
			return nil
		}
	}
	m.holdings = append(m.holdings, *h)
	return nil
}

func (m *memHoldingStore) GetHolding(ctx context.Context, id string) (*models.Holding, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.holdings {
		if m.holdings[i].ID == id {
			cp := m.holdings[i]
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memHoldingStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Holding, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Holding
	for _, h := range m.holdings {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHoldingStore) ListAll(ctx context.Context) ([]models.Holding, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Holding, len(m.holdings))
	copy(out, m.holdings)
	return out, nil
}

func (m *memHoldingStore) DeleteHolding(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.holdings {
		if m.holdings[i].ID == id {
			m.holdings = append(m.holdings[:i], m.holdings[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// memStorage bundles the in-memory stores into a StorageManager.
type memStorage struct {
	users    *memUserStore
	holdings *memHoldingStore
}

func newMemStorage() *memStorage {
	return &memStorage{users: newMemUserStore(), holdings: &memHoldingStore{}}
}

func (m *memStorage) UserStore() interfaces.UserStore       { return m.users }
func (m *memStorage) HoldingStore() interfaces.HoldingStore { return m.holdings }
func (m *memStorage) Close() error                          { return nil }

// stubQuoteClient serves canned quotes per symbol.
type stubQuoteClient struct {
	mu     sync.Mutex
	prices map[string]float64
	fail   map[string]error
}

func newStubQuoteClient() *stubQuoteClient {
	return &stubQuoteClient{prices: make(map[string]float64), fail: make(map[string]error)}
}

func (c *stubQuoteClient) GetLiveQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.fail[symbol]; ok {
		return nil, err
	}
	price, ok := c.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote configured for %s", symbol)
	}
	return &models.Quote{Symbol: symbol, Price: price, AsOf: time.Now()}, nil
}

// testHarness holds the server under test and its collaborators.
type testHarness struct {
	config  *common.Config
	storage *memStorage
	quotes  *stubQuoteClient
	handler http.Handler
}

func newTestConfig() *common.Config {
	config := common.NewDefaultConfig()
	config.Auth.JWTSecret = "test-secret"
	config.Auth.TokenExpiry = "1h"
	config.RateLimit.Requests = 1000
	config.RateLimit.Window = "1m"
	return config
}

func newTestHarness(t *testing.T, config *common.Config) *testHarness {
	t.Helper()
	if config == nil {
		config = newTestConfig()
	}
	mem := newMemStorage()
	quotes := newStubQuoteClient()
	logger := common.NewSilentLogger()

	a := &app.App{
		Config:           config,
		Logger:           logger,
		Storage:          mem,
		QuoteClient:      quotes,
		ValuationService: valuation.NewService(mem, quotes, logger),
	}

	return &testHarness{
		config:  config,
		storage: mem,
		quotes:  quotes,
		handler: NewServer(a).Handler(),
	}
}

// do issues a request against the full middleware-wrapped handler.
func (h *testHarness) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:50000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

// signup registers an account and returns its user_id.
func (h *testHarness) signup(t *testing.T, email, password string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Data struct {
			UserID string `json:"user_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.UserID)
	return resp.Data.UserID
}

// login authenticates and returns the bearer token.
func (h *testHarness) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

// newUserToken registers an account and logs it in.
func (h *testHarness) newUserToken(t *testing.T, email, password string) (string, string) {
	t.Helper()
	id := h.signup(t, email, password)
	return id, h.login(t, email, password)
}

// promoteAdmin flips the admin flag on a stored user; there is no API path
// for this, accounts are promoted out of band.
func (h *testHarness) promoteAdmin(t *testing.T, userID string) {
	t.Helper()
	h.storage.users.mu.Lock()
	defer h.storage.users.mu.Unlock()
	u, ok := h.storage.users.users[userID]
	require.True(t, ok)
	u.Admin = true
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}
