// Package domain holds the core types of the ingestion and retrieval
// pipeline: passages, vector records, namespace derivation and the domain
// error taxonomy. It has no dependencies on adapters or external services.
package domain
