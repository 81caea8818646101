package serializer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	Shortname string   `json:"shortname" yaml:"shortname"`
	Domains   []string `json:"domains,omitempty" yaml:"domains,omitempty"`
	Workers   int      `json:"workers,omitempty" yaml:"workers,omitempty"`
}

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"OK", http.StatusOK},
		{"BadRequest", http.StatusBadRequest},
		{"UnprocessableEntity", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondJSON(w, tt.statusCode, testApp{Shortname: "dummy_project", Workers: 4})

			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got testApp
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, "dummy_project", got.Shortname)
			assert.Equal(t, 4, got.Workers)
		})
	}
}

func TestRespondJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, make(chan int))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Body.String())
}

func TestRespondJSON_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, nil)
	assert.Equal(t, "null\n", w.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"shortname":"dummy_project","workers":2}`},
		{name: "unknown field", body: `{"shortname":"x","bogus":1}`, wantErr: true},
		{name: "trailing data", body: `{"shortname":"x"} {}`, wantErr: true},
		{name: "malformed", body: `{"shortname":`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			got, err := DecodeJSON[testApp](r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "dummy_project", got.Shortname)
			assert.Equal(t, 2, got.Workers)
		})
	}
}
