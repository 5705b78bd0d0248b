// Package diagfmt renders published diagnostic sets for the terminal and as
// JSON. It is used by `wgslsp check`.
package diagfmt
