// Package ui renders the interactive progress view of `wgslsp check`.
package ui
