package tasks

import "fmt"

// Phase identifies a stage of the generation or creation pipeline.
type Phase int

const (
	PhaseInferMood Phase = iota
	PhaseInferSongs
	PhaseInferTitle
	PhaseInferDescription
	PhaseExpandSongs
	PhaseResolveTracks
	PhaseCreatePlaylist
	PhaseAttachTracks
	PhaseDescribeSongs
	PhaseDone
)

// String implements fmt.Stringer for log and progress output.
func (p Phase) String() string {
	switch p {
	case PhaseInferMood:
		return "infer_mood"
	case PhaseInferSongs:
		return "infer_songs"
	case PhaseInferTitle:
		return "infer_title"
	case PhaseInferDescription:
		return "infer_description"
	case PhaseExpandSongs:
		return "expand_songs"
	case PhaseResolveTracks:
		return "resolve_tracks"
	case PhaseCreatePlaylist:
		return "create_playlist"
	case PhaseAttachTracks:
		return "attach_tracks"
	case PhaseDescribeSongs:
		return "describe_songs"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// ProgressUpdate reports pipeline state to a listening UI.
type ProgressUpdate struct {
	Phase     Phase
	Message   string
	Current   int
	Total     int
	Completed bool
	Err       error
}

// NewProgressUpdate builds an update for the start of a phase.
func NewProgressUpdate(phase Phase, message string) ProgressUpdate {
	return ProgressUpdate{Phase: phase, Message: message}
}

// NewCountedUpdate builds an update for item current of total within a phase.
func NewCountedUpdate(phase Phase, current, total int, message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Message: fmt.Sprintf("%s (%d/%d)", message, current, total),
		Current: current,
		Total:   total,
	}
}

// NewCompletedUpdate marks a phase as finished.
func NewCompletedUpdate(phase Phase, message string) ProgressUpdate {
	return ProgressUpdate{Phase: phase, Message: message, Completed: true}
}

// NewErrorUpdate carries a terminal pipeline error.
func NewErrorUpdate(phase Phase, err error) ProgressUpdate {
	return ProgressUpdate{Phase: phase, Message: err.Error(), Err: err}
}
