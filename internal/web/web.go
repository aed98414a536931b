// Package web implements an HTMX-based web application mirroring the TUI functionality.
//
// # HTMX Web Application Implementation Plan
//
// # Architecture
//
// The web app replicates the six-view TUI workflow using server-side rendering
// with HTMX for dynamic updates. Each view corresponds to a template and handler:
//
//  1. Prompt: Free-text mood form with hx-post submission
//  2. Generation Monitor: SSE (Server-Sent Events) streaming inference progress
//  3. Curation: HTMX partial swap per candidate song with accept/skip buttons
//  4. Creation Confirm: Accepted-song summary with hx-post trigger
//  5. Creation Monitor: SSE streaming resolve/create/attach progress
//  6. Results Display: Playlist link with resolved/dropped breakdown
//
// Core Components
//
//   - HTTP Server: net/http server with html/template rendering
//   - Service Integration: Uses the same services.Generator, services.MusicService
//     and tasks.PlaylistEngine as the TUI
//   - Session Management: Cookie-based sessions for OAuth state and the in-flight
//     generation being curated
//   - SSE Handler: Streams real-time progress during generation and creation
//
// Routes
//
//	GET  /                      → Prompt form
//	GET  /auth/spotify          → OAuth initiation
//	GET  /auth/spotify/callback → OAuth completion
//	POST /generate              → Start generation, return SSE endpoint
//	GET  /generate/{id}/stream  → SSE generation progress stream
//	GET  /curate/{id}           → Curation view for a finished generation
//	POST /curate/{id}/decide    → HTMX partial: record accept/skip, next candidate
//	POST /create/{id}           → Start playlist creation (requires auth)
//	GET  /create/{id}/stream    → SSE creation progress stream
//	GET  /create/{id}/result    → Final result view
//
// Templates
//
//   - base.html: Layout with navigation, auth status
//   - prompt.html: Mood form with hx-post
//   - curate.html: Partial template for one candidate with y/n buttons
//   - progress.html: SSE consumer with progress bar
//   - results.html: Playlist link plus dropped-song breakdown
//
// # State Management
//
// Unlike the TUI's in-memory state, the web app persists state in:
//   - Session cookies: Authentication tokens, user ID
//   - Generation records: Candidates and decisions across curation requests
//   - In-memory channels: SSE connections for active pipelines
//
// # Progress Streaming
//
// Pipeline progress uses Server-Sent Events:
//  1. POST /generate (or /create/{id}) records the run, returns its ID
//  2. Client opens SSE connection to the matching /stream route
//  3. Handler launches a goroutine running PlaylistEngine.Generate or Create
//  4. Progress channel updates stream as SSE events
//  5. On completion, send "done" event with redirect URL
//
// Authentication Flow
//
//  1. Prompting and curation work unauthenticated
//  2. POST /create redirects to /auth/spotify when no token is present
//  3. OAuth dance stores tokens in session
//  4. Expired tokens trigger reauthorization via the refresh flow
//
// Dependencies
//
//   - html/template: Server-side rendering
//   - net/http: HTTP server and SSE
//   - gorilla/sessions or similar: Cookie management
//
// Implementation Tasks
//
//  1. HTTP server setup with route registration
//  2. Template structure with HTMX integration
//  3. Session middleware for auth state
//  4. Prompt handler invoking the generation pipeline
//  5. Curation handler (HTMX partial per candidate)
//  6. Creation endpoint wiring accepted songs into the engine
//  7. SSE handler streaming progress updates
//  8. Result handler displaying the CreateResult
//  9. OAuth handlers wrapping the existing Spotify auth
//  10. Error handling and validation
//
// # Testing Strategy
//
// Use httptest:
//   - Mock services.Generator and services.MusicService for pipeline data
//   - Mock tasks.Engine for creation runs
//   - Validate HTMX headers and response structure
//   - Test SSE stream formatting
package web
