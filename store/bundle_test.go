package store_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"scout/store"
)

var _ = Describe("Bundle stores", func() {
	runSessionStoreTests := func(newBundle func() (*store.Bundle, func())) {
		var (
			bundle  *store.Bundle
			cleanup func()
		)

		BeforeEach(func() {
			bundle, cleanup = newBundle()
		})

		AfterEach(func() {
			cleanup()
		})

		It("creates sessions and appends messages in order", func() {
			id, err := bundle.Sessions.CreateSession("researcher", "gpt_4o")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())

			Expect(bundle.Sessions.AppendMessage(id, "user", "hello")).To(Succeed())
			Expect(bundle.Sessions.AppendMessage(id, "assistant", "hi there")).To(Succeed())

			messages, err := bundle.Sessions.GetMessages(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(messages).To(HaveLen(2))
			Expect(messages[0].Role).To(Equal("user"))
			Expect(messages[0].Content).To(Equal("hello"))
			Expect(messages[1].Role).To(Equal("assistant"))
		})

		It("rejects messages for unknown sessions", func() {
			err := bundle.Sessions.AppendMessage("no-such-session", "user", "hello")
			Expect(err).To(HaveOccurred())
		})

		It("lists sessions filtered by agent name", func() {
			_, err := bundle.Sessions.CreateSession("researcher", "gpt_4o")
			Expect(err).NotTo(HaveOccurred())
			_, err = bundle.Sessions.CreateSession("writer", "claude_sonnet_4")
			Expect(err).NotTo(HaveOccurred())

			infos, err := bundle.Sessions.ListSessions("researcher")
			Expect(err).NotTo(HaveOccurred())
			Expect(infos).To(HaveLen(1))
			Expect(infos[0].AgentName).To(Equal("researcher"))
		})

		It("returns the latest session for an agent", func() {
			first, err := bundle.Sessions.CreateSession("researcher", "gpt_4o")
			Expect(err).NotTo(HaveOccurred())
			second, err := bundle.Sessions.CreateSession("researcher", "gpt_4o")
			Expect(err).NotTo(HaveOccurred())

			latest, err := bundle.Sessions.LatestSession("researcher")
			Expect(err).NotTo(HaveOccurred())
			Expect(latest).NotTo(BeNil())
			// two sessions can share a timestamp at this resolution,
			// so the latest must be one of them and never the other agent's
			Expect([]string{first, second}).To(ContainElement(latest.ID))
		})

		It("returns nil when the agent has no sessions", func() {
			latest, err := bundle.Sessions.LatestSession("nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(latest).To(BeNil())
		})

		It("marks sessions completed or failed", func() {
			id, err := bundle.Sessions.CreateSession("researcher", "gpt_4o")
			Expect(err).NotTo(HaveOccurred())

			bundle.Sessions.CompleteSession(id, nil)

			infos, err := bundle.Sessions.ListSessions("researcher")
			Expect(err).NotTo(HaveOccurred())
			Expect(infos[0].Status).To(Equal("completed"))
		})
	}

	runMemoryStoreTests := func(newBundle func() (*store.Bundle, func())) {
		var (
			bundle  *store.Bundle
			cleanup func()
		)

		BeforeEach(func() {
			bundle, cleanup = newBundle()
		})

		AfterEach(func() {
			cleanup()
		})

		It("adds and lists memories per user", func() {
			row, err := bundle.Memories.AddMemory("alice", "likes coffee")
			Expect(err).NotTo(HaveOccurred())
			Expect(row.ID).NotTo(BeEmpty())

			_, err = bundle.Memories.AddMemory("bob", "likes tea")
			Expect(err).NotTo(HaveOccurred())

			rows, err := bundle.Memories.ListMemories("alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Content).To(Equal("likes coffee"))
		})

		It("deletes memories by id", func() {
			row, err := bundle.Memories.AddMemory("alice", "temporary fact")
			Expect(err).NotTo(HaveOccurred())

			Expect(bundle.Memories.DeleteMemory(row.ID)).To(Succeed())

			rows, err := bundle.Memories.ListMemories("alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("errors when deleting an unknown memory", func() {
			Expect(bundle.Memories.DeleteMemory("no-such-id")).To(HaveOccurred())
		})
	}

	memoryBackend := func() (*store.Bundle, func()) {
		return store.NewMemoryBundle(), func() {}
	}

	sqliteBackend := func() (*store.Bundle, func()) {
		dir, err := os.MkdirTemp("", "store-test-*")
		Expect(err).NotTo(HaveOccurred())

		bundle, err := store.NewSQLiteBundle(filepath.Join(dir, "test.db"))
		Expect(err).NotTo(HaveOccurred())

		return bundle, func() {
			bundle.Close()
			os.RemoveAll(dir)
		}
	}

	Context("Memory backend", func() {
		Describe("sessions", func() { runSessionStoreTests(memoryBackend) })
		Describe("memories", func() { runMemoryStoreTests(memoryBackend) })
	})

	Context("SQLite backend", func() {
		Describe("sessions", func() { runSessionStoreTests(sqliteBackend) })
		Describe("memories", func() { runMemoryStoreTests(sqliteBackend) })
	})
})
