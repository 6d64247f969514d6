package app_test

import (
	"context"
	"testing"

	"cid_reviews/internal/adapters/fixture"
	"cid_reviews/internal/app"
)

const hiveAgileJSON = `{"html_attributions":[],"result":{"name":"HiveAgile","rating":5.0,"reviews":[` +
	`{"author_name":"Javier Martínez","profile_photo_url":"https://via.placeholder.com/40","rating":5,"relative_time_description":"hace 2 meses","text":"Como consultor tecnológico, HiveAgileCTL ha revolucionado la forma en que implemento soluciones para mis clientes. La facilidad de instalación y gestión me permite ofrecer resultados rápidos y tangibles."},` +
	`{"author_name":"Laura García","profile_photo_url":"https://via.placeholder.com/40","rating":5,"relative_time_description":"hace 3 meses","text":"Increíble herramienta para nuestra empresa de logística. En solo dos meses hemos reducido nuestros costes de software un 22% y ahora nuestro equipo es mucho más eficiente."},` +
	`{"author_name":"Carlos Sánchez","profile_photo_url":"https://via.placeholder.com/40","rating":5,"relative_time_description":"hace 2 semanas","text":"Llevaba tiempo buscando una solución que me permitiera tener control total sobre mis datos sin depender de servicios en la nube de terceros. HiveAgileCTL me ha dado exactamente eso y mucho más."}` +
	`]},"status":"OK"}`

func TestReviewsEnvelope_HiveAgileFixture(t *testing.T) {
	rating, revs, _ := fixture.New().Reviews(context.Background(), "16890121041992214538", nil)
	b, err := app.ReviewsEnvelope("HiveAgile", rating, revs)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if string(b) != hiveAgileJSON {
		t.Fatalf("unexpected envelope:\n got %s\nwant %s", b, hiveAgileJSON)
	}
}

func TestReviewsEnvelope_NilReviews(t *testing.T) {
	b, err := app.ReviewsEnvelope("X", 4.5, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := `{"html_attributions":[],"result":{"name":"X","rating":4.5,"reviews":[]},"status":"OK"}`
	if string(b) != want {
		t.Fatalf("got %s", b)
	}
}

func TestErrorEnvelope(t *testing.T) {
	b, err := app.ErrorEnvelope("request failed: dial tcp: connection refused")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if string(b) != `{"error":"request failed: dial tcp: connection refused"}` {
		t.Fatalf("got %s", b)
	}
	if !app.IsErrorPayload(b) {
		t.Fatalf("error payload not recognised")
	}
}

func TestIsErrorPayload(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`{"error":"x"}`, true},
		{`{"error":""}`, true},
		{hiveAgileJSON, false},
		{`not json`, false},
		{`["error"]`, false},
		{`{"result":{"error":1}}`, false},
	}
	for _, c := range cases {
		if got := app.IsErrorPayload([]byte(c.in)); got != c.want {
			t.Fatalf("IsErrorPayload(%s) = %v, want %v", c.in, got, c.want)
		}
	}
}
