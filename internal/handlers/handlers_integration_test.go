package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"healthwallet/internal/app"
	"healthwallet/internal/config"
	"healthwallet/internal/storage"
	"healthwallet/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var samplePDF = []byte("%PDF-1.4\n% blood panel results\n1 0 obj\n<<>>\nendobj\n")

// setupApp builds the full router on an in-memory SQLite database and a
// temporary upload directory.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		Env:           "test",
		JWTSecret:     "test_jwt_secret",
		JWTTTL:        time.Hour,
		StorageDriver: "local",
		MaxFileSize:   1 << 20,
	}
	files, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	return app.New(cfg, testutil.NewDB(t), files, nil, zap.NewNop()).Router()
}

func doJSON(t *testing.T, router *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := router.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func register(t *testing.T, router *fiber.App, name, email, password string) string {
	t.Helper()

	resp := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func upload(t *testing.T, router *fiber.App, token string, fields map[string]string, fileName string, content []byte) *http.Response {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reports", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := router.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func uploadBloodPanel(t *testing.T, router *fiber.App, token string) uint {
	t.Helper()

	resp := upload(t, router, token, map[string]string{
		"title":  "Blood Panel",
		"type":   "Blood Test",
		"date":   "2024-01-01",
		"vitals": `[{"type":"Blood Sugar","value":"95"}]`,
	}, "panel.pdf", samplePDF)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Message string `json:"message"`
		Report  struct {
			ID uint `json:"id"`
		} `json:"report"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "Report uploaded successfully", out.Message)
	require.NotZero(t, out.Report.ID)
	return out.Report.ID
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	decode(t, resp, &out)
	return out.Error
}

func TestAuthRegisterAndLogin(t *testing.T) {
	router := setupApp(t)

	resp := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "Alice@X.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered map[string]any
	decode(t, resp, &registered)
	assert.Equal(t, "User registered successfully", registered["message"])
	user := registered["user"].(map[string]any)
	assert.Equal(t, "alice@x.com", user["email"])
	assert.NotContains(t, user, "password")

	// Duplicate e-mail, whatever its case.
	resp = doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Other", "email": "alice@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already exists", errorMessage(t, resp))

	resp = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	decode(t, resp, &login)
	assert.Equal(t, "Login successful", login.Message)
	assert.NotEmpty(t, login.Token)

	resp = doJSON(t, router, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]any
	decode(t, resp, &me)
	assert.Equal(t, "Alice", me["name"])
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	router := setupApp(t)
	register(t, router, "Alice", "alice@x.com", "secret1")

	wrongPassword := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@x.com", "password": "nope-nope",
	})
	unknownEmail := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "secret1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)
	assert.Equal(t, errorMessage(t, wrongPassword), errorMessage(t, unknownEmail))
}

func TestRegister_Validation(t *testing.T) {
	router := setupApp(t)

	resp := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "password must be at least 6 characters", errorMessage(t, resp))
}

func TestProtectedRoutesWithoutAuth(t *testing.T) {
	router := setupApp(t)

	resp := doJSON(t, router, http.MethodGet, "/api/reports", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authorization header is required", errorMessage(t, resp))

	req := httptest.NewRequest(http.MethodGet, "/api/vitals", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := router.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authorization header format must be 'Bearer <token>'", errorMessage(t, resp))

	resp = doJSON(t, router, http.MethodGet, "/api/dashboard/stats", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired token", errorMessage(t, resp))
}

// Scenario: register, log in, upload a report and list it.
func TestReportUploadAndList(t *testing.T) {
	router := setupApp(t)
	token := register(t, router, "Alice", "alice@x.com", "secret1")

	id := uploadBloodPanel(t, router, token)

	resp := doJSON(t, router, http.MethodGet, "/api/reports", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reports []struct {
		ID       uint     `json:"id"`
		Title    string   `json:"title"`
		FileName string   `json:"file_name"`
		FileType string   `json:"file_type"`
		Vitals   []string `json:"vitals"`
	}
	decode(t, resp, &reports)
	require.Len(t, reports, 1)
	assert.Equal(t, id, reports[0].ID)
	assert.Equal(t, "Blood Panel", reports[0].Title)
	assert.Equal(t, "panel.pdf", reports[0].FileName)
	assert.Equal(t, "application/pdf", reports[0].FileType)
	assert.Equal(t, []string{"Blood Sugar"}, reports[0].Vitals)

	resp = doJSON(t, router, http.MethodGet, "/api/reports?vitalType=Heart%20Rate", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &reports)
	assert.Empty(t, reports)

	resp = doJSON(t, router, http.MethodGet, "/api/reports/search?q=panel", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &reports)
	assert.Len(t, reports, 1)

	resp = doJSON(t, router, http.MethodGet, "/api/reports/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Search term is required", errorMessage(t, resp))

	resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reports/%d/download", id), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "panel.pdf")
	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, content)

	resp = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/reports/%d", id), token, map[string]string{
		"title": "Lipid Panel", "type": "Blood Test", "date": "2024-02-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reports/%d", id), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report map[string]any
	decode(t, resp, &report)
	assert.Equal(t, "Lipid Panel", report["title"])
	assert.Equal(t, "2024-02-01", report["date"])
	assert.NotContains(t, report, "file_path")
}

func TestReportUpload_Rejections(t *testing.T) {
	router := setupApp(t)
	token := register(t, router, "Alice", "alice@x.com", "secret1")
	fields := map[string]string{"title": "Scan", "type": "X-Ray", "date": "2024-01-01"}

	resp := upload(t, router, token, fields, "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "File is required", errorMessage(t, resp))

	resp = upload(t, router, token, fields, "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = upload(t, router, token, map[string]string{"title": "Scan", "date": "2024-01-01"}, "scan.pdf", samplePDF)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "type is required", errorMessage(t, resp))

	resp = upload(t, router, token, map[string]string{
		"title": "Scan", "type": "X-Ray", "date": "2024-01-01", "vitals": `["Heart Rate"]`,
	}, "scan.pdf", samplePDF)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, router, http.MethodGet, "/api/reports", token, nil)
	var reports []map[string]any
	decode(t, resp, &reports)
	assert.Empty(t, reports)
}

// Scenario: share with bob, bob sees it, alice revokes, bob no longer sees it.
func TestShareAndRevoke(t *testing.T) {
	router := setupApp(t)
	alice := register(t, router, "Alice", "alice@x.com", "secret1")
	bob := register(t, router, "Bob", "bob@y.com", "secret2")
	reportID := uploadBloodPanel(t, router, alice)

	resp := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/share/reports/%d", reportID), alice, map[string]string{
		"email": " Bob@Y.com ",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var shared struct {
		Message string `json:"message"`
		Share   struct {
			ID              uint   `json:"id"`
			SharedWithEmail string `json:"shared_with_email"`
			AccessType      string `json:"access_type"`
		} `json:"share"`
	}
	decode(t, resp, &shared)
	assert.Equal(t, "Report shared successfully", shared.Message)
	assert.Equal(t, "bob@y.com", shared.Share.SharedWithEmail)
	assert.Equal(t, "read", shared.Share.AccessType)

	resp = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/share/reports/%d", reportID), alice, map[string]string{
		"email": "bob@y.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Report already shared with this email", errorMessage(t, resp))

	// Bob cannot share alice's report.
	resp = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/share/reports/%d", reportID), bob, map[string]string{
		"email": "carol@z.com",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, router, http.MethodGet, "/api/share/with-me", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var withMe []struct {
		ID            uint   `json:"id"`
		Title         string `json:"title"`
		SharedByName  string `json:"shared_by_name"`
		SharedByEmail string `json:"shared_by_email"`
	}
	decode(t, resp, &withMe)
	require.Len(t, withMe, 1)
	assert.Equal(t, reportID, withMe[0].ID)
	assert.Equal(t, "Alice", withMe[0].SharedByName)

	resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/share/with-me/%d/download", reportID), bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, content)

	resp = doJSON(t, router, http.MethodGet, "/api/share/by-me", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var byMe []map[string]any
	decode(t, resp, &byMe)
	require.Len(t, byMe, 1)
	assert.Equal(t, "bob@y.com", byMe[0]["shared_with_email"])

	resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reports/%d", reportID), alice, nil)
	var report struct {
		SharedWith []string `json:"shared_with"`
	}
	decode(t, resp, &report)
	assert.Equal(t, []string{"bob@y.com"}, report.SharedWith)

	resp = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/share/%d", shared.Share.ID), alice, map[string]string{
		"accessType": "write",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Only the grantor may revoke.
	resp = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/share/%d", shared.Share.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/share/%d", shared.Share.ID), alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var revoked map[string]any
	decode(t, resp, &revoked)
	assert.Equal(t, "Access revoked successfully", revoked["message"])

	resp = doJSON(t, router, http.MethodGet, "/api/share/with-me", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &withMe)
	assert.Empty(t, withMe)

	resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/share/with-me/%d/download", reportID), bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShare_RejectsPastExpiry(t *testing.T) {
	router := setupApp(t)
	alice := register(t, router, "Alice", "alice@x.com", "secret1")
	reportID := uploadBloodPanel(t, router, alice)

	resp := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/share/reports/%d", reportID), alice, map[string]any{
		"email":     "bob@y.com",
		"expiresAt": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "expiresAt must be in the future", errorMessage(t, resp))
}

// Concurrent grants for the same recipient leave exactly one share.
func TestShare_ConcurrentDuplicates(t *testing.T) {
	router := setupApp(t)
	alice := register(t, router, "Alice", "alice@x.com", "secret1")
	bob := register(t, router, "Bob", "bob@y.com", "secret2")
	reportID := uploadBloodPanel(t, router, alice)

	const attempts = 8
	path := fmt.Sprintf("/api/share/reports/%d", reportID)
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"email":"bob@y.com"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+alice)
			resp, err := router.Test(req, -1)
			if err != nil {
				statuses[i] = -1
				return
			}
			_ = resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	assert.Equal(t, 1, created, "statuses: %v", statuses)
	assert.Equal(t, attempts-1, conflicts, "statuses: %v", statuses)

	resp := doJSON(t, router, http.MethodGet, "/api/share/with-me", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var withMe []map[string]any
	decode(t, resp, &withMe)
	assert.Len(t, withMe, 1)

	resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/share/reports/%d", reportID), alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var shares []map[string]any
	decode(t, resp, &shares)
	assert.Len(t, shares, 1)
}

func TestVitals_LimitMustBeInteger(t *testing.T) {
	router := setupApp(t)
	token := register(t, router, "Alice", "alice@x.com", "secret1")

	for _, path := range []string{"/api/vitals?limit=abc", "/api/vitals/chart?limit=1.5"} {
		resp := doJSON(t, router, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "limit must be an integer", errorMessage(t, resp), path)
	}

	resp := doJSON(t, router, http.MethodGet, "/api/vitals?limit=5", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, router, http.MethodGet, "/api/vitals?limit=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Scenario: one vital, then latest and stats.
func TestVitalsLatestAndStats(t *testing.T) {
	router := setupApp(t)
	token := register(t, router, "Alice", "alice@x.com", "secret1")

	resp := doJSON(t, router, http.MethodGet, "/api/vitals/latest", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", string(body))

	resp = doJSON(t, router, http.MethodPost, "/api/vitals", token, map[string]any{
		"date": "2024-01-01", "bloodSugar": 95, "heartRate": 70,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Message string `json:"message"`
		Vital   struct {
			ID uint `json:"id"`
		} `json:"vital"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "Vital added successfully", created.Message)

	resp = doJSON(t, router, http.MethodGet, "/api/vitals/latest", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var latest struct {
		ID         uint     `json:"id"`
		Date       string   `json:"date"`
		BloodSugar *float64 `json:"blood_sugar"`
		HeartRate  *int     `json:"heart_rate"`
	}
	decode(t, resp, &latest)
	assert.Equal(t, created.Vital.ID, latest.ID)
	assert.Equal(t, "2024-01-01", latest.Date)
	require.NotNil(t, latest.BloodSugar)
	assert.Equal(t, 95.0, *latest.BloodSugar)
	require.NotNil(t, latest.HeartRate)
	assert.Equal(t, 70, *latest.HeartRate)

	resp = doJSON(t, router, http.MethodGet, "/api/vitals/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats map[string]any
	decode(t, resp, &stats)
	assert.Equal(t, 95.0, stats["avg_blood_sugar"])
	assert.Equal(t, 70.0, stats["avg_heart_rate"])
	assert.Equal(t, 1.0, stats["total_readings"])
	assert.Nil(t, stats["avg_weight"])

	resp = doJSON(t, router, http.MethodGet, "/api/vitals/chart?startDate=2024-01-01&endDate=2024-01-31", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chart []map[string]any
	decode(t, resp, &chart)
	require.Len(t, chart, 1)
	assert.Equal(t, 95.0, chart[0]["bloodSugar"])

	resp = doJSON(t, router, http.MethodGet, "/api/vitals?startDate=2024-02-01&endDate=2024-01-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, router, http.MethodGet, "/api/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dashboard map[string]any
	decode(t, resp, &dashboard)
	assert.Equal(t, 0.0, dashboard["totalReports"])
	assert.Equal(t, 1.0, dashboard["totalVitals"])
	assert.Equal(t, 0.0, dashboard["sharedReports"])
	assert.NotNil(t, dashboard["latestVital"])

	resp = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/vitals/%d", created.Vital.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/vitals/%d", created.Vital.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Vital not found", errorMessage(t, resp))
}

// Scenario: deleting another user's report is a 404 and leaves the file alone.
func TestDeleteReport_OwnershipAndIdempotence(t *testing.T) {
	router := setupApp(t)
	alice := register(t, router, "Alice", "alice@x.com", "secret1")
	bob := register(t, router, "Bob", "bob@y.com", "secret2")
	bobReport := uploadBloodPanel(t, router, bob)

	resp := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/reports/%d", bobReport), alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Report not found", errorMessage(t, resp))

	resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reports/%d/download", bobReport), bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, content)

	resp = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/reports/%d", bobReport), bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted map[string]any
	decode(t, resp, &deleted)
	assert.Equal(t, "Report deleted successfully", deleted["message"])
	assert.NotContains(t, deleted, "warnings")

	resp = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/reports/%d", bobReport), bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAccountLifecycle(t *testing.T) {
	router := setupApp(t)
	token := register(t, router, "Alice", "alice@x.com", "secret1")
	register(t, router, "Bob", "bob@y.com", "secret2")
	uploadBloodPanel(t, router, token)

	resp := doJSON(t, router, http.MethodPut, "/api/auth/me", token, map[string]string{
		"name": "Alice B", "email": "bob@y.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, router, http.MethodPut, "/api/auth/password", token, map[string]string{
		"currentPassword": "wrong-one", "newPassword": "secret9",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Current password is incorrect", errorMessage(t, resp))

	resp = doJSON(t, router, http.MethodPut, "/api/auth/password", token, map[string]string{
		"currentPassword": "secret1", "newPassword": "secret9",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@x.com", "password": "secret9",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, router, http.MethodDelete, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	router := setupApp(t)

	resp := doJSON(t, router, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	decode(t, resp, &health)
	assert.Equal(t, "OK", health["status"])
	assert.Equal(t, "Health Wallet API is running", health["message"])

	resp = doJSON(t, router, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var index map[string]any
	decode(t, resp, &index)
	assert.Contains(t, index, "endpoints")

	resp = doJSON(t, router, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found", errorMessage(t, resp))
}
