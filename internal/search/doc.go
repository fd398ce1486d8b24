// Package search provides retrieval of invoice records from a search
// backend. The Retriever adapts heterogeneous backend results into
// normalized documents and isolates backend failures: a failed or timed-out
// search degrades to an empty result rather than an error, so the caller
// can answer "no information found" instead of crashing the conversation.
//
// Two backends are provided: an embedded chromem-go vector index (default)
// and an external Azure AI Search index reached over REST.
package search
