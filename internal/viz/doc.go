// Package viz renders runs in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, used by [RenderPath] to draw a
//     trajectory scaled to its bounding box
//   - [SparklineChart]: one-line displacement profile
//   - lipgloss styles shared by the CLI summaries
package viz
