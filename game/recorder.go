package game

import "time"

// Recorder receives gameplay events for metrics. Defined here so the core
// does not depend on the monitoring backend.
type Recorder interface {
	GameCreated()
	GameReleased()
	AnswerAccepted()
	AnswerRejected()
	TurnTimeout()
	ObserveTurn(d time.Duration)
}

// NopRecorder discards all events. Used in tests and wherever metrics are
// not wired.
type NopRecorder struct{}

func (NopRecorder) GameCreated()  {}
func (NopRecorder) GameReleased() {}

func (NopRecorder) AnswerAccepted() {}
func (NopRecorder) AnswerRejected() {}
func (NopRecorder) TurnTimeout()    {}

func (NopRecorder) ObserveTurn(time.Duration) {}
