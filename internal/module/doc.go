// Package module tracks which location provides which module name and
// caches the compiled module of each location.
//
// Preprocess reads the header directives of a source. Index keeps the name
// bindings and the cache entries in one structure so they cannot drift
// apart under eviction.
package module
