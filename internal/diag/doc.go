// Package diag defines the diagnostic model of the shader front end.
//
// Producers (lexer, parser, checker) report findings through a Reporter and
// never format or publish them. A Diagnostic carries spans relative to the
// buffer the front end was given; turning those into per-file protocol
// ranges is the job of internal/diagmap.
//
// Codes are grouped by phase: LEX1xxx, SYN2xxx, SEM3xxx, IO4xxx and PRJ5xxx
// for module graph and composition problems.
package diag
