package scanview

import "time"

// Step constants for the history view state machine
const (
	StepList = iota
	StepErrorDetail
	StepConfirmClear
)

// DefaultWidth is the default terminal width fallback
const DefaultWidth = 80

// DefaultPollInterval is how often the history view refreshes
const DefaultPollInterval = time.Second
