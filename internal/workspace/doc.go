// Package workspace ties the text store, the module index and the composer
// together. Validating a document resolves its imports against the names
// other documents declare, composes every dependency before the document
// itself, caches the linked module and publishes diagnostics through a
// diagmap.Sink.
package workspace
