package aitools_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"scout/aitools"
	"scout/memory"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CurrentTimeTool", func() {
	tool := &aitools.CurrentTimeTool{}

	It("returns an RFC 3339 timestamp in UTC by default", func() {
		out := tool.Call(`{}`)
		parsed, err := time.Parse(time.RFC3339, out)
		Expect(err).NotTo(HaveOccurred())
		_, offset := parsed.Zone()
		Expect(offset).To(Equal(0))
	})

	It("accepts an empty parameter string", func() {
		out := tool.Call("")
		_, err := time.Parse(time.RFC3339, out)
		Expect(err).NotTo(HaveOccurred())
	})

	It("honors a requested IANA timezone", func() {
		out := tool.Call(`{"timezone": "Australia/Sydney"}`)
		parsed, err := time.Parse(time.RFC3339, out)
		Expect(err).NotTo(HaveOccurred())
		_, offset := parsed.Zone()
		Expect(offset).NotTo(Equal(0))
	})

	It("degrades an unknown timezone to an Exception string", func() {
		out := tool.Call(`{"timezone": "Nowhere/Atlantis"}`)
		Expect(out).To(HavePrefix("Exception: "))
		Expect(out).To(ContainSubstring("Nowhere/Atlantis"))
	})
})

var _ = Describe("WeatherTool", func() {
	tool := &aitools.WeatherTool{}

	It("always reports sunny", func() {
		Expect(tool.Call(`{"city": "Oslo"}`)).To(Equal("sunny"))
	})

	It("ignores malformed input", func() {
		Expect(tool.Call(`{broken`)).To(Equal("sunny"))
	})
})

// fakeMemoryClient backs the memory tools in tests
type fakeMemoryClient struct {
	records []memory.Record
	err     error
	stored  []string
}

func (f *fakeMemoryClient) Store(ctx context.Context, content string) (memory.Record, error) {
	if f.err != nil {
		return memory.Record{}, f.err
	}
	f.stored = append(f.stored, content)
	return memory.Record{ID: "mem-1", Content: content}, nil
}

func (f *fakeMemoryClient) Recall(ctx context.Context, query string, limit int) ([]memory.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeMemoryClient) List(ctx context.Context) ([]memory.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

var _ = Describe("Memory tools", func() {

	Describe("StoreMemoryTool", func() {
		It("stores content and reports the record id", func() {
			client := &fakeMemoryClient{}
			tool := &aitools.StoreMemoryTool{Client: client}

			out := tool.Call(`{"content": "user prefers metric units"}`)
			Expect(out).To(ContainSubstring("mem-1"))
			Expect(client.stored).To(ConsistOf("user prefers metric units"))
		})

		It("rejects empty content", func() {
			tool := &aitools.StoreMemoryTool{Client: &fakeMemoryClient{}}
			Expect(tool.Call(`{"content": "  "}`)).To(HavePrefix("Exception: "))
		})

		It("degrades backend failures to labeled strings", func() {
			tool := &aitools.StoreMemoryTool{Client: &fakeMemoryClient{err: errors.New("db locked")}}
			out := tool.Call(`{"content": "x"}`)
			Expect(out).To(Equal("Exception: db locked"))
		})
	})

	Describe("RecallMemoriesTool", func() {
		It("returns matching records as JSON", func() {
			client := &fakeMemoryClient{records: []memory.Record{
				{ID: "a", Content: "likes coffee", Score: 0.9},
				{ID: "b", Content: "lives in Oslo", Score: 0.4},
			}}
			tool := &aitools.RecallMemoriesTool{Client: client}

			out := tool.Call(`{"query": "coffee"}`)

			var records []memory.Record
			Expect(json.Unmarshal([]byte(out), &records)).To(Succeed())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Content).To(Equal("likes coffee"))
		})

		It("applies the limit parameter", func() {
			client := &fakeMemoryClient{records: []memory.Record{
				{ID: "a"}, {ID: "b"}, {ID: "c"},
			}}
			tool := &aitools.RecallMemoriesTool{Client: client}

			out := tool.Call(`{"query": "anything", "limit": 1}`)

			var records []memory.Record
			Expect(json.Unmarshal([]byte(out), &records)).To(Succeed())
			Expect(records).To(HaveLen(1))
		})

		It("reports when nothing matches", func() {
			tool := &aitools.RecallMemoriesTool{Client: &fakeMemoryClient{}}
			Expect(tool.Call(`{"query": "anything"}`)).To(Equal("No memories found."))
		})

		It("rejects an empty query", func() {
			tool := &aitools.RecallMemoriesTool{Client: &fakeMemoryClient{}}
			Expect(tool.Call(`{"query": ""}`)).To(HavePrefix("Exception: "))
		})
	})

	Describe("ListMemoriesTool", func() {
		It("lists every record", func() {
			client := &fakeMemoryClient{records: []memory.Record{
				{ID: "a", Content: "one"},
				{ID: "b", Content: "two"},
			}}
			tool := &aitools.ListMemoriesTool{Client: client}

			out := tool.Call("")

			var records []memory.Record
			Expect(json.Unmarshal([]byte(out), &records)).To(Succeed())
			Expect(records).To(HaveLen(2))
		})

		It("reports when the store is empty", func() {
			tool := &aitools.ListMemoriesTool{Client: &fakeMemoryClient{}}
			Expect(tool.Call("")).To(Equal("No memories found."))
		})
	})
})
