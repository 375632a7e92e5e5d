package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unisearch/api/services/mailer"
)

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testConfig() Config {
	return Config{From: "noreply@unisearch.app", To: "admissions@unisearch.app"}
}

func validRequest() map[string]interface{} {
	return map[string]interface{}{
		"userId":        7,
		"fullName":      "Jane Doe",
		"email":         "jane@example.com",
		"course":        "Computer Science",
		"university":    "Humboldt University",
		"applicationId": 42,
	}
}

func postSendEmail(t *testing.T, server *Server, body map[string]interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/send-email", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSendEmail_Success(t *testing.T) {
	m := &fakeMailer{}
	server := NewServer(m, testConfig())

	resp := postSendEmail(t, server, validRequest())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])

	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{"admissions@unisearch.app"}, m.sent[0].To)
	assert.Contains(t, m.sent[0].HTML, "Jane Doe")
	assert.Contains(t, m.sent[0].HTML, "Humboldt University")
}

func TestSendEmail_MissingFieldRejectedWithoutOutboundCall(t *testing.T) {
	required := []string{"userId", "fullName", "email", "course", "university", "applicationId"}

	for _, field := range required {
		m := &fakeMailer{}
		server := NewServer(m, testConfig())

		body := validRequest()
		delete(body, field)

		resp := postSendEmail(t, server, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "field %s", field)

		var parsed map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		assert.Equal(t, "Missing required fields", parsed["error"])

		// No external call may happen on a validation failure
		assert.Empty(t, m.sent, "field %s", field)
	}
}

func TestSendEmail_DocumentListLines(t *testing.T) {
	m := &fakeMailer{}
	server := NewServer(m, testConfig())

	body := validRequest()
	body["documents"] = []map[string]string{
		{"document_type": "cv", "file_path": "p1"},
		{"document_type": "passport", "file_path": "7/42/1700_passport"},
	}

	resp := postSendEmail(t, server, body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].HTML, "- cv: p1")
	assert.Contains(t, m.sent[0].HTML, "- passport: 7/42/1700_passport")
}

func TestSendEmail_ProviderFailureSurfacedAs500(t *testing.T) {
	m := &fakeMailer{err: errors.New("provider unavailable")}
	server := NewServer(m, testConfig())

	resp := postSendEmail(t, server, validRequest())
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestSendEmail_MalformedBodyRejected(t *testing.T) {
	m := &fakeMailer{}
	server := NewServer(m, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/send-email", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, m.sent)
}

func TestPing(t *testing.T) {
	server := NewServer(&fakeMailer{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := server.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ok")
}
