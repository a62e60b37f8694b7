package model

// FileReport records what happened to one file during a format run.
type FileReport struct {
	Source  Path
	Output  Path
	MapPath Path // empty for inline maps or when no map was produced
	Changed bool // formatted code differs from the input
	Mapped  bool
	// Diff is a unified diff of the input against the formatted code, set
	// only when a preview was requested.
	Diff string
	Err  error
}
