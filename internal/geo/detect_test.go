package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveIPAPI(t *testing.T, status int, body string) IPAPI {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return IPAPI{URL: srv.URL, Now: func() time.Time { return fixed }}
}

func TestIPAPI_Locate(t *testing.T) {
	d := serveIPAPI(t, http.StatusOK, `{"status":"success","lat":51.5074,"lon":-0.1278,"city":"London","country":"United Kingdom","timezone":"Europe/London"}`)

	loc, err := d.Locate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Location{
		Latitude:  51.5074,
		Longitude: -0.1278,
		City:      "London",
		Country:   "United Kingdom",
		Timezone:  "Europe/London",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}, loc)
}

func TestIPAPI_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"failed status", http.StatusOK, `{"status":"fail","message":"reserved range"}`, "reserved range"},
		{"http error", http.StatusInternalServerError, `oops`, "500"},
		{"invalid json", http.StatusOK, `not json at all`, "decode"},
		{"out of range", http.StatusOK, `{"status":"success","lat":123,"lon":0}`, "bad position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serveIPAPI(t, tt.status, tt.body).Locate(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIPAPI_OutOfRangeIsInvalidCoordinate(t *testing.T) {
	_, err := serveIPAPI(t, http.StatusOK, `{"status":"success","lat":0,"lon":200}`).Locate(context.Background())
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestIPAPI_ConnectionRefused(t *testing.T) {
	_, err := IPAPI{URL: "http://127.0.0.1:1"}.Locate(context.Background())
	assert.Error(t, err)
}

func TestIPAPI_CanceledContext(t *testing.T) {
	d := serveIPAPI(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Locate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
