// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): tokenisers, embedding and chat providers,
// the vector store, extraction, and durable passage/progress storage.
package driven
