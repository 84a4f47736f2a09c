package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// serve starts a geolocation stub answering every request with status and body.
func serve(t *testing.T, status int, body string) Detector {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return Detector{URL: srv.URL, Client: srv.Client()}
}

func TestDetect_Success(t *testing.T) {
	d := serve(t, http.StatusOK, `{"status":"success","lat":21.4225,"lon":39.8262,`+
		`"city":"Mecca","country":"Saudi Arabia","timezone":"Asia/Riyadh"}`)

	loc, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Location{Latitude: 21.4225, Longitude: 39.8262, City: "Mecca", Country: "Saudi Arabia", Timezone: "Asia/Riyadh"}
	if *loc != want {
		t.Errorf("Detect() = %+v, want %+v", *loc, want)
	}

	c, err := loc.Coordinate()
	if err != nil || c.Lat != 21.4225 || c.Lng != 39.8262 {
		t.Errorf("Coordinate() = %+v, %v", c, err)
	}
}

func TestDetect_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{
			"service refuses", http.StatusOK, `{"status":"fail","message":"reserved range"}`,
			func(err error) bool { return errors.Is(err, ErrDetectFailed) && strings.Contains(err.Error(), "reserved range") },
		},
		{
			"http error", http.StatusInternalServerError, `{}`,
			func(err error) bool { return strings.Contains(err.Error(), "500") },
		},
		{
			"not json", http.StatusOK, "not json at all",
			func(err error) bool { return strings.Contains(err.Error(), "decode") },
		},
		{
			"out of range", http.StatusOK, `{"status":"success","lat":123,"lon":10}`,
			func(err error) bool { return errors.Is(err, ErrInvalidCoordinate) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serve(t, tt.status, tt.body).Detect(context.Background())
			if err == nil || !tt.check(err) {
				t.Errorf("Detect() error = %v", err)
			}
		})
	}
}

func TestDetect_ConnectionRefused(t *testing.T) {
	d := Detector{URL: "http://127.0.0.1:1"} // nothing listening
	if _, err := d.Detect(context.Background()); err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestDetect_Cancelled(t *testing.T) {
	d := serve(t, http.StatusOK, `{"status":"success","lat":1,"lon":1}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Detect(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Detect() error = %v, want context.Canceled", err)
	}
}
