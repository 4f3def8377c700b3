// Package dataprocessing turns raw non-conformance worksheet rows into
// typed records and derives the filtered views and aggregates the
// dashboard and the exported deck are built from.
//
// The package is purely functional: normalization, filtering and
// aggregation never mutate their inputs, so the same cached record set
// can safely serve any number of concurrent requests.
package dataprocessing
