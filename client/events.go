package client

// DownloadEvent reports one lifecycle transition of a save operation.
// Stage is "resolve", "preflight" or "download". Phase is "start",
// "destination", "attempt", "failure" or "complete".
type DownloadEvent struct {
	Stage   string
	Phase   string
	JobID   string
	TrackID string
	Path    string
	Detail  string
}

func (c *Client) emitDownloadEvent(stage, phase, jobID, trackID, path, detail string) {
	if c == nil || c.config.OnDownloadEvent == nil {
		return
	}
	c.config.OnDownloadEvent(DownloadEvent{
		Stage:   stage,
		Phase:   phase,
		JobID:   jobID,
		TrackID: trackID,
		Path:    path,
		Detail:  detail,
	})
}
