// Package domain contains the core business types for the kwak pipeline:
// dossiers, chunks, origins, scored search results, provider settings and
// the domain error set. It has no dependencies on adapters or services.
package domain
