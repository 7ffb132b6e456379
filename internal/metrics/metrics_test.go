package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cours-de-latin/metermeter"
)

type fakeStats struct{}

func (fakeStats) LexiconWords() int { return 552 }
func (fakeStats) PriorWords() int   { return 80 }

func TestCollector(t *testing.T) {
	c := NewCollector(fakeStats{})
	want := `
# HELP metermeter_lexicon_words Words in the loaded pronunciation lexicon (0 for a database-backed lexicon).
# TYPE metermeter_lexicon_words gauge
metermeter_lexicon_words 552
# HELP metermeter_priors_words Function words in the loaded prior table.
# TYPE metermeter_priors_words gauge
metermeter_priors_words 80
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(want)); err != nil {
		t.Error(err)
	}

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(NewCollector(nil)); err != nil {
		t.Fatalf("register nil-stats collector: %v", err)
	}
}

func TestObserveAnalysis(t *testing.T) {
	meter := "dactylic octameter"
	before := testutil.ToFloat64(LinesAnalyzedTotal.WithLabelValues(meter))
	oovBefore := testutil.ToFloat64(OOVTokensTotal)

	ObserveAnalysis(metermeter.LineAnalysis{Meter: meter, Confidence: 0.5, OOV: []string{"zorbing", "blick"}}, time.Millisecond)

	if got := testutil.ToFloat64(LinesAnalyzedTotal.WithLabelValues(meter)) - before; got != 1 {
		t.Errorf("lines_analyzed_total delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(OOVTokensTotal) - oovBefore; got != 2 {
		t.Errorf("oov_tokens_total delta = %v, want 2", got)
	}
}

func TestInstrumentHandlerUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/meters/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/meters/{name}", "418"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/meters/iambic", nil))

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/meters/{name}", "418"))
	if after-before != 1 {
		t.Errorf("http_requests_total delta = %v, want 1", after-before)
	}
}
