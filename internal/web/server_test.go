package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/recordkit/recordkit/internal/schema"
	"github.com/recordkit/recordkit/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

// stubEngine returns canned rows for any query.
type stubEngine struct {
	lastQuery string
	rows      []map[string]any
}

func (e *stubEngine) Query(_ context.Context, query string) ([]map[string]any, error) {
	e.lastQuery = query
	return e.rows, nil
}

func testToken(t *testing.T, subject string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func testServer(t *testing.T) (*Server, *stubEngine, *security.StaticStore) {
	t.Helper()

	metadata := schema.NewRegistry()
	require.NoError(t, metadata.Register(&schema.EntityDescribe{
		Name: "Widget",
		Fields: []schema.FieldDescribe{
			{Name: "Id", IsID: true, Readable: true},
			{Name: "Name", IsName: true, Nillable: true, Readable: true},
		},
		Accessible: true,
	}))

	eng := &stubEngine{rows: []map[string]any{{"Id": "W1", "Name": "gear"}}}
	access := security.NewStaticStore("actor-1")

	server := NewServer(Config{
		Metadata:       metadata,
		Engine:         eng,
		Access:         access,
		JWTSecret:      testSecret,
		ObjectSecurity: true,
	})
	return server, eng, access
}

func get(t *testing.T, server *Server, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestRecordsEndpoint(t *testing.T) {
	server, eng, _ := testServer(t)

	rec := get(t, server, "/entities/Widget/records?ids=W1", testToken(t, "actor-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Entity  string           `json:"entity"`
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Widget", body.Entity)
	require.Len(t, body.Records, 1)
	assert.Equal(t, "gear", body.Records[0]["Name"])

	assert.Contains(t, eng.lastQuery, "WHERE Id IN ('W1')")
}

func TestRecordsEndpointRequiresAuth(t *testing.T) {
	server, _, _ := testServer(t)

	rec := get(t, server, "/entities/Widget/records?ids=W1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecordsEndpointRejectsBadToken(t *testing.T) {
	server, _, _ := testServer(t)

	rec := get(t, server, "/entities/Widget/records?ids=W1", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecordsEndpointEmptyIDs(t *testing.T) {
	server, _, _ := testServer(t)

	rec := get(t, server, "/entities/Widget/records", testToken(t, "actor-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordsEndpointUnknownEntity(t *testing.T) {
	server, _, _ := testServer(t)

	rec := get(t, server, "/entities/Gadget/records?ids=G1", testToken(t, "actor-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccessEndpoint(t *testing.T) {
	server, _, access := testServer(t)
	access.Grant("actor-1", "W1", security.RecordAccessSummary{HasRead: true, MaxAccessLevel: "Read"})

	rec := get(t, server, "/entities/Widget/access?ids=W1,W2", testToken(t, "actor-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Actor  string                                  `json:"actor"`
		Access map[string]security.RecordAccessSummary `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "actor-1", body.Actor)
	require.Contains(t, body.Access, "W1")
	assert.True(t, body.Access["W1"].HasRead)
	assert.NotContains(t, body.Access, "W2")
}

func TestRequestIDHeader(t *testing.T) {
	server, _, _ := testServer(t)

	rec := get(t, server, "/entities/Widget/records?ids=W1", testToken(t, "actor-1"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
