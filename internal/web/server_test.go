package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/jumanji/internal/config"
	"github.com/leengari/jumanji/internal/engine"
	"github.com/leengari/jumanji/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	s := NewServer(engine.New("fraud_detection"), nil, cfg, nil)
	require.NoError(t, s.Initialize())
	return s
}

// do runs one request through the server's handler and decodes the JSON
// response into out (skipped when out is nil).
func do(t *testing.T, s *Server, method, target, body string, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
			"response body: %s", rec.Body.String())
	}
	return rec
}

func TestInitializeSeedsOnce(t *testing.T) {
	s := newTestServer(t)

	users, err := s.db.SelectAll("users")
	require.NoError(t, err)
	assert.Len(t, users, 2)

	// A second Initialize must not duplicate the seed rows.
	require.NoError(t, s.Initialize())
	users, err = s.db.SelectAll("users")
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)

	var stats statsResponse
	rec := do(t, s, http.MethodGet, "/api/stats", "", &stats)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 2, stats.TotalTransactions)
	assert.Equal(t, 1, stats.FraudCount)
	assert.InDelta(t, 2600.0, stats.TotalAmount, 1e-9)
}

func TestListUsers(t *testing.T) {
	s := newTestServer(t)

	var users []map[string]any
	rec := do(t, s, http.MethodGet, "/api/users", "", &users)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, users, 2)
	assert.Equal(t, "james", users[0]["first_name"])
	assert.Equal(t, float64(1), users[0]["id"], "ids arrive as JSON numbers")
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t)

	var resp map[string]any
	rec := do(t, s, http.MethodPost, "/api/users",
		`{"first_name": "grace", "last_name": "njeri", "email": "grace@example.com"}`, &resp)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User added successfully", resp["message"])
	assert.Equal(t, float64(3), resp["id"])

	row, err := s.db.GetByPrimaryKey("users", engine.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, engine.NewText("grace"), row["first_name"])
	assert.Equal(t, engine.NewText(time.Now().Format("2006-01-02")), row["created_at"])
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	var resp map[string]any
	rec := do(t, s, http.MethodPost, "/api/users",
		`{"first_name": "fake", "last_name": "james", "email": "kamothojames@example.com"}`, &resp)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, resp["error"], "email")
}

func TestCreateUserBadJSON(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/users", `{"first_name": `, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodDelete, "/api/users/2", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	users, err := s.db.SelectAll("users")
	require.NoError(t, err)
	assert.Len(t, users, 1)

	rec = do(t, s, http.MethodDelete, "/api/users/2", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/users/banana", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTransactionsJoinsUsers(t *testing.T) {
	s := newTestServer(t)

	var views []transactionView
	rec := do(t, s, http.MethodGet, "/api/transactions", "", &views)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, views, 2)
	assert.Equal(t, int64(1), views[0].ID)
	assert.Equal(t, "james kamotho", views[0].UserName)
	assert.InDelta(t, 100.0, views[0].Amount, 1e-9)
	assert.False(t, views[0].IsFraud)
	assert.Equal(t, "mary wambui", views[1].UserName)
	assert.True(t, views[1].IsFraud)
}

func TestListTransactionsSkipsOrphans(t *testing.T) {
	s := newTestServer(t)

	// A transaction pointing at no user must not appear in the join output.
	err := s.db.Insert("transactions", engine.Row{
		"id":        engine.NewInt(3),
		"user_id":   engine.NewInt(99),
		"amount":    engine.NewFloat(10.0),
		"timestamp": engine.NewText("2026-02-01"),
		"is_fraud":  engine.NewBool(false),
	})
	require.NoError(t, err)

	var views []transactionView
	do(t, s, http.MethodGet, "/api/transactions", "", &views)
	assert.Len(t, views, 2)
}

func TestCreateTransactionFlagsLargeAmounts(t *testing.T) {
	s := newTestServer(t)

	var resp map[string]any
	rec := do(t, s, http.MethodPost, "/api/transactions",
		`{"user_id": 1, "amount": 1500.0}`, &resp)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, resp["is_fraud"])

	row, err := s.db.GetByPrimaryKey("transactions", engine.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, engine.NewBool(true), row["is_fraud"])
	assert.Equal(t, engine.NewFloat(1500.0), row["amount"])
}

func TestCreateTransactionSmallAmountNotFlagged(t *testing.T) {
	s := newTestServer(t)

	var resp map[string]any
	do(t, s, http.MethodPost, "/api/transactions", `{"user_id": 2, "amount": 49.99}`, &resp)
	assert.Equal(t, false, resp["is_fraud"])
}

func TestFlagTransaction(t *testing.T) {
	s := newTestServer(t)

	// No body field defaults to flagging.
	rec := do(t, s, http.MethodPost, "/api/transactions/1/flag", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	row, err := s.db.GetByPrimaryKey("transactions", engine.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, engine.NewBool(true), row["is_fraud"])

	// Explicit false unflags.
	rec = do(t, s, http.MethodPost, "/api/transactions/1/flag", `{"is_fraud": false}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	row, err = s.db.GetByPrimaryKey("transactions", engine.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, engine.NewBool(false), row["is_fraud"])
}

func TestFlagMissingTransaction(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/transactions/99/flag", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMutationsPersistWhenConfigured(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fraud.json")
	st := store.New(path)

	s := NewServer(engine.New("fraud_detection"), st, cfg, nil)
	require.NoError(t, s.Initialize())

	rec := do(t, s, http.MethodPost, "/api/users",
		`{"first_name": "grace", "last_name": "njeri", "email": "grace@example.com"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := st.Load()
	require.NoError(t, err)
	users, err := loaded.SelectAll("users")
	require.NoError(t, err)
	assert.Len(t, users, 3)
}
