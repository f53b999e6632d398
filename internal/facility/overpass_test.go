package facility

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOverpassQueryMapsElements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		q := r.PostForm.Get("data")
		for _, want := range []string{
			`[out:json][timeout:10]`,
			`node["amenity"="hospital"](around:3000,28.613900,77.209000)`,
			`node["amenity"="clinic"]`,
			`node["tourism"="hotel"]`,
		} {
			if !strings.Contains(q, want) {
				t.Errorf("query missing %q:\n%s", want, q)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements":[
			{"type":"node","id":1,"lat":28.61,"lon":77.21,"tags":{"amenity":"hospital","name":"Safdarjung"}},
			{"type":"node","id":2,"lat":28.62,"lon":77.22,"tags":{"amenity":"clinic"}},
			{"type":"node","id":3,"lat":28.63,"lon":77.23,"tags":{"tourism":"hotel"}},
			{"type":"node","id":4,"lat":28.64,"lon":77.24,"tags":{"shop":"bakery"}},
			{"type":"node","id":5,"lat":28.65,"lon":77.25},
			{"type":"way","id":6,"tags":{"amenity":"hospital"}}
		]}`))
	}))
	defer srv.Close()

	got, err := NewOverpassClient(srv.URL, 0, srv.Client()).Query(context.Background(), 28.6139, 77.2090)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := []Facility{
		{ID: 1, Name: "Safdarjung", Lat: 28.61, Lng: 77.21, Type: Hospital},
		{ID: 2, Name: "Clinic", Lat: 28.62, Lng: 77.22, Type: Clinic},
		{ID: 3, Name: "Hotel", Lat: 28.63, Lng: 77.23, Type: Hotel},
		{ID: 4, Name: "Facility", Lat: 28.64, Lng: 77.24, Type: Hospital},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d facilities, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("facility %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestStatusErrorRetryable(t *testing.T) {
	for code, want := range map[int]bool{429: true, 502: true, 503: true, 504: true, 514: true, 400: false, 500: false} {
		if got := (&StatusError{Code: code}).Retryable(); got != want {
			t.Fatalf("status %d retryable=%v want %v", code, got, want)
		}
	}
}
