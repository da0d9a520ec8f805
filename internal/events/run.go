package events

var RunCompletedTopic = "RunCompletedEvent"

type RunCompleted struct {
	RunID      string
	Stored     int
	Ignored    int
	Duplicates int
	Failed     bool
	Reason     string
}
