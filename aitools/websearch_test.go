package aitools_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"scout/aitools"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WebSearchTool", func() {

	newTool := func(handler http.HandlerFunc) (*aitools.WebSearchTool, *httptest.Server) {
		srv := httptest.NewServer(handler)
		DeferCleanup(srv.Close)
		return &aitools.WebSearchTool{Endpoint: srv.URL, Client: srv.Client()}, srv
	}

	ddgBody := func(abstract string, topics int) string {
		body := map[string]any{
			"Heading":      "Go",
			"AbstractText": abstract,
			"AbstractURL":  "https://go.dev",
		}
		var related []map[string]any
		for i := 0; i < topics; i++ {
			related = append(related, map[string]any{
				"FirstURL": "https://example.com",
				"Text":     "Title - snippet text",
			})
		}
		body["RelatedTopics"] = related
		out, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		return string(out)
	}

	It("returns search records as JSON", func() {
		tool, _ := newTool(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Query().Get("q")).To(Equal("golang"))
			Expect(r.URL.Query().Get("kl")).To(Equal("us-en"))
			w.Write([]byte(ddgBody("Go is a language", 2)))
		})

		out := tool.Call(`{"keywords": "golang"}`)

		var records []aitools.SearchRecord
		Expect(json.Unmarshal([]byte(out), &records)).To(Succeed())
		Expect(records).To(HaveLen(3))
		Expect(records[0].Title).To(Equal("Go"))
		Expect(records[0].Body).To(Equal("Go is a language"))
		Expect(records[1].Title).To(Equal("Title"))
		Expect(records[1].Body).To(Equal("snippet text"))
	})

	It("caps results at max_results", func() {
		tool, _ := newTool(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(ddgBody("abstract", 10)))
		})

		out := tool.Call(`{"keywords": "golang", "max_results": 2}`)

		var records []aitools.SearchRecord
		Expect(json.Unmarshal([]byte(out), &records)).To(Succeed())
		Expect(records).To(HaveLen(2))
	})

	It("passes the region through to the provider", func() {
		var gotRegion string
		tool, _ := newTool(func(w http.ResponseWriter, r *http.Request) {
			gotRegion = r.URL.Query().Get("kl")
			w.Write([]byte(ddgBody("abstract", 0)))
		})

		tool.Call(`{"keywords": "golang", "region": "uk-en"}`)
		Expect(gotRegion).To(Equal("uk-en"))
	})

	It("returns 'No results found.' when nothing matches", func() {
		tool, _ := newTool(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Heading": "", "AbstractText": "", "RelatedTopics": []}`))
		})

		out := tool.Call(`{"keywords": "zxqv"}`)
		Expect(out).To(Equal("No results found."))
	})

	It("degrades throttling to a RatelimitException string", func() {
		tool, _ := newTool(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		out := tool.Call(`{"keywords": "golang"}`)
		Expect(out).To(HavePrefix("RatelimitException: "))
	})

	It("degrades provider errors to a DuckDuckGoSearchException string", func() {
		tool, _ := newTool(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		out := tool.Call(`{"keywords": "golang"}`)
		Expect(out).To(HavePrefix("DuckDuckGoSearchException: "))
	})

	It("degrades malformed responses to a DuckDuckGoSearchException string", func() {
		tool, _ := newTool(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		})

		out := tool.Call(`{"keywords": "golang"}`)
		Expect(out).To(HavePrefix("DuckDuckGoSearchException: "))
	})

	It("degrades transport failures to an Exception string", func() {
		tool, srv := newTool(func(w http.ResponseWriter, r *http.Request) {})
		srv.Close()

		out := tool.Call(`{"keywords": "golang"}`)
		Expect(out).To(HavePrefix("Exception: "))
	})

	It("rejects missing keywords without calling the provider", func() {
		called := false
		tool, _ := newTool(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		out := tool.Call(`{}`)
		Expect(out).To(HavePrefix("Exception: "))
		Expect(called).To(BeFalse())
	})

	It("rejects invalid JSON parameters", func() {
		tool, _ := newTool(func(w http.ResponseWriter, r *http.Request) {})

		out := tool.Call(`{not json`)
		Expect(out).To(HavePrefix("Exception: "))
	})
})
