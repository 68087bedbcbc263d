package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"juscash-verifier/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("X-Verification-ID", "abc")
		_, _ = w.Write([]byte(`{"decision":"rejected","rationale":"Esfera trabalhista.","citacoes":["POL-4"]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL+"/", "tok", 0).Verify(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.VerificationID)
	assert.Equal(t, models.DecisionRejected, resp.Verdict.Decision)
	assert.Equal(t, []string{"POL-4"}, resp.Verdict.Citations)
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"INVALID_PROCESS","message":"numeroProcesso is required"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", 0).Verify(context.Background(), []byte(`{}`))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "INVALID_PROCESS", apiErr.Code)
	assert.Contains(t, err.Error(), "numeroProcesso")
}

func TestPrintVerdict(t *testing.T) {
	var buf bytes.Buffer
	printVerdict(&buf, &models.Verdict{
		Decision:  models.DecisionIncomplete,
		Rationale: "Falta a certidão de trânsito em julgado.",
		Citations: []string{"POL-1", "POL-7"},
	})

	out := buf.String()
	assert.Contains(t, out, "INCOMPLETO")
	assert.Contains(t, out, "Falta a certidão")
	assert.Contains(t, out, "POL-1, POL-7")

	buf.Reset()
	printVerdict(&buf, &models.Verdict{Decision: models.DecisionApproved, Rationale: "ok", Citations: []string{}})
	assert.Contains(t, buf.String(), "APROVADO")
	assert.Contains(t, buf.String(), "nenhuma")
}

func TestReadRecord(t *testing.T) {
	data, err := readRecord(bytes.NewBufferString(`{"numeroProcesso":"1"}`), "-")
	require.NoError(t, err)
	assert.JSONEq(t, `{"numeroProcesso":"1"}`, string(data))

	_, err = readRecord(bytes.NewBufferString(`not json`), "-")
	assert.Error(t, err)
}
