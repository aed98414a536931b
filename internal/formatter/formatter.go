// package formatter provides functions to export generations and created playlists to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/haylium/moodlist/internal/models"
	"github.com/haylium/moodlist/internal/shared"
	"github.com/haylium/moodlist/internal/tasks"
)

// ExportGenerationToMarkdown renders a generation and optional per-song blurbs as Markdown
func ExportGenerationToMarkdown(gen *models.Generation, blurbs []models.SongBlurb) ([]byte, error) {
	var buf bytes.Buffer

	title := gen.Title
	if title == "" {
		title = "Untitled Playlist"
	}

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if gen.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", gen.Description))
	}

	buf.WriteString(fmt.Sprintf("**Mood**: %s\n", gen.Mood))
	buf.WriteString(fmt.Sprintf("**Prompt**: %s\n\n", gen.Prompt))

	blurbFor := make(map[string]string, len(blurbs))
	for _, blurb := range blurbs {
		blurbFor[blurb.Song] = blurb.Blurb
	}

	buf.WriteString("## Songs\n\n")
	for i, song := range gen.Candidates {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, song))
		if blurb := blurbFor[song]; blurb != "" {
			buf.WriteString(fmt.Sprintf("   > %s\n", blurb))
		}
	}

	return buf.Bytes(), nil
}

// ExportGenerationToText renders a generation as plain text
func ExportGenerationToText(gen *models.Generation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", gen.Title))
	if gen.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", gen.Description))
	}
	buf.WriteString(fmt.Sprintf("Mood: %s\n", gen.Mood))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(gen.Candidates)))

	for i, song := range gen.Candidates {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, song))
	}

	return buf.Bytes(), nil
}

// ExportResultToCSV converts a creation result to CSV format with columns: ID, Title, Artist, URI
func ExportResultToCSV(result *tasks.CreateResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range result.Resolved {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.URI,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without tracks)
func ToMetadataJSON(playlist models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(playlist, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a creation result to CSV with an accompanying metadata JSON file.
//
// Defaults to the playlist ID as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(result *tasks.CreateResult, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = result.Playlist.ID
	}

	csvData, err := ExportResultToCSV(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(*result.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport writes a generation to {path} as Markdown.
//
// Defaults to {mood}_playlist.md as the filename.
func WriteMarkdownExport(gen *models.Generation, blurbs []models.SongBlurb, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_playlist.md", gen.Mood)
	}

	mdData, err := ExportGenerationToMarkdown(gen, blurbs)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes a generation to {path} as plain text.
//
// Defaults to {mood}_playlist.txt as the filename.
func WriteTextExport(gen *models.Generation, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_playlist.txt", gen.Mood)
	}

	textData, err := ExportGenerationToText(gen)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
