package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inmzhang/leaky/internal/httpapi"
	"github.com/inmzhang/leaky/qc/engine"
	"github.com/inmzhang/leaky/qc/engine/itsu"
)

func newTestService() *httpapi.Service {
	return httpapi.New(httpapi.Options{
		NewEngine: func() engine.StabilizerEngine { return itsu.New(nil) },
	})
}

func postJSON(t *testing.T, svc *httpapi.Service, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)
	return rec
}

func TestHandleDecomposeIdentity(t *testing.T) {
	svc := newTestService()
	body := map[string]any{
		"kraus_operators": [][]map[string]float64{
			{
				{"re": 1, "im": 0}, {"re": 0, "im": 0},
				{"re": 0, "im": 0}, {"re": 1, "im": 0},
			},
		},
		"num_qubits": 1,
		"num_level":  2,
	}
	rec := postJSON(t, svc, "/decompose", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rows map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Rows)
}

func TestHandleDecomposeBadShape(t *testing.T) {
	svc := newTestService()
	body := map[string]any{
		"kraus_operators": [][]map[string]float64{{{"re": 1, "im": 0}}},
		"num_qubits":      1,
		"num_level":       2,
	}
	rec := postJSON(t, svc, "/decompose", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSampleBellPairs(t *testing.T) {
	svc := newTestService()
	body := map[string]any{
		"num_qubits": 4,
		"ops": []map[string]any{
			{"name": "R", "targets": []int{0, 1, 2, 3}},
			{"name": "H", "targets": []int{0, 2}},
			{"name": "CNOT", "targets": []int{0, 1}},
			{"name": "CNOT", "targets": []int{2, 3}},
			{"name": "M", "targets": []int{0, 1, 2, 3}},
		},
		"shots":   8,
		"workers": 2,
		"seed":    7,
	}
	rec := postJSON(t, svc, "/sample", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Records [][]int `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 8)
	for _, row := range resp.Records {
		require.Len(t, row, 4)
		assert.Equal(t, row[0], row[1])
		assert.Equal(t, row[2], row[3])
	}
}

func TestHandleSampleUnknownStrategy(t *testing.T) {
	svc := newTestService()
	body := map[string]any{
		"num_qubits": 1,
		"ops":        []map[string]any{{"name": "M", "targets": []int{0}}},
		"shots":      4,
		"strategy":   "NOT_A_STRATEGY",
	}
	rec := postJSON(t, svc, "/sample", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
