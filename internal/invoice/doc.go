// Package invoice defines the canonical document representation for invoice
// records retrieved from a search index. It normalizes heterogeneous raw
// index records into a uniform text-plus-metadata form that the retrieval
// and synthesis layers consume.
package invoice
