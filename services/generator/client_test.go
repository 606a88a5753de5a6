package generatorsvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
)

var items = []batch.GenerationItem{
	{SubjectCode: "IT101", SubjectName: "Lập trình", PeriodCount: 45, ClassCount: 4, Headcount: 200, PerClassSize: 50, Major: "CNTT-KHDL", ClassYear: "2023", ProgramType: "Chính quy"},
	{SubjectCode: "IT102", SubjectName: "Mạng", PeriodCount: 30, ClassCount: 1, Headcount: 40, PerClassSize: 40, Major: "E-CNTT", ClassYear: "2023", ProgramType: "Chính quy"},
	{SubjectCode: "BAS1", SubjectName: "Toán", PeriodCount: 60, ClassCount: 3, Headcount: 150, PerClassSize: 50, Major: "CNTT", ClassYear: "22-23", ProgramType: "Chung"},
}

func setup(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(core.RemoteConfig{BaseURL: srv.URL + "/", APIKey: "s3cret", Timeout: 5 * time.Second})
}

func TestClient_Generate(t *testing.T) {
	session := batch.ScheduledSession{Day: 2, StartPeriod: 1, PeriodCount: 3, Room: "A2-301", Weeks: "1-15"}

	c := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req generateRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, items, req.Items)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"index":2,"sessions":[],"note":"Không đủ phòng trống"},
			{"index":0,"sessions":[{"day":2,"start_period":1,"period_count":3,"room":"A2-301","weeks":"1-15"}]},
			{"index":7,"note":"out of range"}
		]}`))
	})

	results, err := c.Generate(context.Background(), items)
	require.NoError(t, err)

	want := []batch.GenerationResult{
		{Item: items[0], Sessions: []batch.ScheduledSession{session}},
		{Item: items[1], Note: NoResultNote},
		{Item: items[2], Sessions: []batch.ScheduledSession{}, Note: "Không đủ phòng trống"},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, results[0].Failed())
	assert.True(t, results[1].Failed())
	assert.True(t, results[2].Failed())
}

func TestClient_Generate_errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantErr: ErrUnexpectedStatus,
		},
		{
			name: "bad request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "items must not be empty", http.StatusBadRequest)
			},
			wantErr: ErrUnexpectedStatus,
		},
		{
			name: "garbage",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setup(t, tt.handler)
			_, err := c.Generate(context.Background(), items)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			}
		})
	}

	t.Run("cancelled", func(t *testing.T) {
		c := setup(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.Generate(ctx, items)
		assert.Error(t, err)
	})
}
