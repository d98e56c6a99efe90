// Package ui provides terminal UI components for the rdmscope CLI.
//
// Most commands follow a "run once and exit" pattern: they print a header
// box, do their work and print a result box. These use Bubble Tea and Lipgloss
// but never wait for input.
//
// # Components
//
//   - Header: Command banner showing operation name and parameters
//   - Result: Success, warning and failure boxes with details and hints
//   - Printer: Writes headers and results at a width fitted to the terminal
//   - Spin: A spinner shown on stderr while blocking work runs
//   - Viewer: Interactive pager over decoded messages
//
// Styled output is only used when the destination is a terminal. StylesFor
// returns plain styles otherwise, so piped output stays free of escape codes.
//
// # Viewer
//
// The viewer shows one decoded message at a time in a scrolling viewport.
// n/p move between messages, e toggles envelope fields, x toggles a hex dump
// of the raw bytes and ? expands the key help.
//
//	err := ui.RunViewer(entries, render.Options{ShowHeader: true})
//
// # Logging Integration
//
// This package expects logging to be controlled via the RDMSCOPE_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
