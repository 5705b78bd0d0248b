// Package trace records what the language server spends its time on.
//
// Spans are opened around request handling, import resolution, module
// composition and validation. They are either streamed as they happen or
// kept in a ring buffer that is dumped when a request handler panics.
//
//	wgslsp serve --trace=/tmp/wgslsp.ndjson --trace-level=module
//
// # Levels
//
//   - off: nothing is recorded
//   - crash: spans go to the ring only, for the panic dump
//   - request: one span per LSP request, check run or validation
//   - stage: also scan, resolve, link and check
//   - module: also every composed module
package trace
