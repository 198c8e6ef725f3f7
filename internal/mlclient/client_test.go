package mlclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSentiment(t *testing.T) {
	var gotText string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ml/analyze-sentiment" {
			http.NotFound(w, r)
			return
		}
		var req textRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotText = req.Text
		w.Write([]byte(`{"sentiment":"Negative","confidence":0.83}`))
	})

	got := c.Sentiment(context.Background(), "  the app keeps crashing  ")
	if got.Sentiment != models.SentimentNegative || got.Confidence != 0.83 {
		t.Errorf("Sentiment = %+v", got)
	}
	if gotText != "the app keeps crashing" {
		t.Errorf("sent text %q, want trimmed", gotText)
	}
}

func TestSentimentFallbacks(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	})

	want := models.SentimentResult{Sentiment: models.SentimentNeutral, Confidence: 0.5}
	if got := c.Sentiment(context.Background(), "   "); got != want {
		t.Errorf("blank text = %+v", got)
	}
	if calls != 0 {
		t.Errorf("blank text should not call the service, calls = %d", calls)
	}
	if got := c.Sentiment(context.Background(), "hello"); got != want {
		t.Errorf("service error = %+v", got)
	}
}

func TestEntities(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entities":[
			{"text":"Google","label":"ORG","start":0,"end":6},
			{"text":"","label":"GPE","start":7,"end":7},
			{"text":"Paris","label":"gpe","start":10,"end":15},
			{"text":"Pixel","label":"PRODUCT","start":20,"end":25}
		]}`))
	})

	got := c.Entities(context.Background(), "Google in Paris sells Pixel")
	want := []models.ExtractedEntity{
		{Text: "Google", Label: models.LabelOrganization, Start: 0, End: 6},
		{Text: "Paris", Label: models.LabelLocation, Start: 10, End: 15},
		{Text: "Pixel", Label: models.LabelProduct, Start: 20, End: 25},
	}
	if len(got) != len(want) {
		t.Fatalf("Entities = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entity %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestEntitiesMalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	if got := c.Entities(context.Background(), "text"); got != nil {
		t.Errorf("malformed response = %+v, want nil", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", MaxTextLength+10)
	if got := []rune(truncate(long)); len(got) != MaxTextLength {
		t.Errorf("truncate kept %d runes", len(got))
	}
	if truncate("short") != "short" {
		t.Error("short text changed")
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := map[string]string{
		"ORG":          models.LabelOrganization,
		"loc":          models.LabelLocation,
		"ORGANIZATION": "ORGANIZATION",
		"NORP":         "NORP",
	}
	for in, want := range tests {
		if got := NormalizeLabel(in); got != want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
