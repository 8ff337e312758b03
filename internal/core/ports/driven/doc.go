// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding providers, completion services,
// dossier generators, chunkers and the persisted chunk store.
package driven
