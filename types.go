package newsbot

// Post is a published post as echoed back by the platform.
type Post struct {
	ID   string
	Text string
}

// Status is the outcome of one run.
type Status string

const (
	StatusPublished Status = "published"
	StatusDryRun    Status = "dry_run"
	StatusSkipped   Status = "skipped" // no usable item for the category
)

// Outcome describes what a run did.
type Outcome struct {
	RunID    string
	Category string
	Title    string // normalized headline
	Source   string
	Text     string // final post text
	PostID   string
	Status   Status
}
