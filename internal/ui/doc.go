// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist generation:
//  1. [PromptView] : Describe a mood or moment in free text
//  2. [GeneratingView] : Monitor mood and song inference
//  3. [CurateView] : Accept or skip each candidate song one at a time
//  4. [ConfirmView] : Review accepted songs before creation
//  5. [CreatingView] : Monitor track resolution and playlist creation
//  6. [ResultView] : Display the created playlist and dropped songs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the PlaylistEngine, providing non-blocking status reporting during generation and creation.
//
// Keyboard navigation uses single-key bindings (y/n, u, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
