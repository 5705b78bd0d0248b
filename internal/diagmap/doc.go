// Package diagmap turns composer and module graph failures into per-file
// diagnostics.
//
// Composer spans are packed offsets into a unit buffer that concatenates a
// module with its imports. Decode strips the segment tag and rebases an
// offset onto the owning file; the Mapper then picks a diagnostic shape by
// error kind and, when the failure lives in an imported file, adds a marker
// on the file that was being validated.
package diagmap
