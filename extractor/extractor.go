// Package extractor defines the external entity-extraction contract. The
// production extractor (an NLP/LLM service) lives outside this module; this
// package fixes the interface the ingestion pipeline's background task and
// the relocation manager's sanitization check both depend on.
package extractor

import "context"

// EntityExtractor maps text to a set of typed entity labels of the form
// "<Type>:<Name>" (e.g. "Project:Apollo"). Failure leaves the caller's
// entities empty; no retry is required.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}
