package documents

// Kind names one of the two documents stored per user.
type Kind string

const (
	KindResume Kind = "resume"
	KindDesign Kind = "design"
)
