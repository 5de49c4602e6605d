package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}, nil)
}

func TestUserLoginNormalizesResponse(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"token":"tok-1","id":42,"name":"Asha","role":"USER"}`))
	})

	res, err := c.UserLogin(context.Background(), "asha@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "42", res.UserID, "numeric id must be stringified")
	assert.Equal(t, "user", res.UserType)
}

func TestAdminLoginFallsBackToAdminID(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/login", r.URL.Path)
		w.Write([]byte(`{"token":"tok-2","adminId":7,"name":"Root","email":"root@x","role":"ADMIN"}`))
	})

	res, err := c.AdminLogin(context.Background(), "root@x", "pw")
	require.NoError(t, err)
	assert.Equal(t, "7", res.UserID)
	assert.Equal(t, "ADMIN", res.Role)
	assert.Equal(t, "admin", res.UserType)
}

func TestBudgetProfileNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no profile", http.StatusNotFound)
	})

	_, err := c.BudgetProfile(context.Background(), "tok", "1")
	require.ErrorIs(t, err, ErrNoProfile)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	_, err := c.UserBudgets(context.Background(), "tok-abc", "1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestTransactionCategoryResolution(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transactions/user/9", r.URL.Path)
		w.Write([]byte(`[
			{"transactionId":1,"amount":45.5,"merchant":"A","category":{"name":"Groceries"},"predictedCategory":"Shopping"},
			{"transactionId":2,"amount":10,"merchant":"B","predictedCategory":"Transport"}
		]`))
	})

	txns, err := c.UserTransactions(context.Background(), "tok", "9")
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "Groceries", txns[0].CategoryName(), "confirmed category wins over prediction")
	assert.Equal(t, "Transport", txns[1].CategoryName(), "prediction used when category absent")
}

func TestNotificationsQueryParams(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "20", q.Get("size"))
		assert.Equal(t, "HIGH", q.Get("priority"))
		w.Write([]byte(`[{"notificationId":5,"title":"t","priority":"HIGH"}]`))
	})

	ns, err := c.Notifications(context.Background(), "tok", "1", 2, 20, "HIGH")
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, "5", ns[0].NotificationID.String())
}

func TestGoalPredictionSnakeCaseFields(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/goals/3/prediction", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("userId"))
		w.Write([]byte(`{"predicted_completion_date":"2026-11-15","required_daily_savings":310,"on_track":true,"suggested_daily_cut":0}`))
	})

	p, err := c.GoalPrediction(context.Background(), "tok", "3", "1")
	require.NoError(t, err)
	assert.Equal(t, "2026-11-15", p.PredictedCompletionDate)
	assert.True(t, p.OnTrack)
	assert.Equal(t, 310.0, p.RequiredDailySavings)
}

func TestUploadReceiptMultipart(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ocr/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "bill.jpg", hdr.Filename)
		w.Write([]byte(`{"merchant_name":"FreshMart","total_amount":423.5,"raw_text":["TOTAL 423.50"]}`))
	})

	scan, err := c.UploadReceipt(context.Background(), "tok", "bill.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "FreshMart", scan.MerchantName)
	assert.Equal(t, 423.5, scan.TotalAmount)
}

func TestStatusErrorSurfacesBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.UserBudgets(context.Background(), "tok", "1")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
	assert.Contains(t, err.Error(), "boom")
}
