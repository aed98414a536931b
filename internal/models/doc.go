// Package models defines domain entities for the mood playlist generator.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs passed between the pipeline stages
//   - [Generation] : One full generation cycle (mood, title, description, candidates)
//   - [Track] : A resolved catalog track with its service identifier and URI
//   - [Playlist] : Playlist metadata returned by the music service
//   - [SongBlurb] : A short generated description of why a song fits a mood
//
// 2. Persistent Entities: Database-backed records
//   - [CachedTrack] : A previously resolved search query and its track, for idempotent re-resolution
//
// All values are created fresh per generation cycle; only CachedTrack outlives a session.
package models
