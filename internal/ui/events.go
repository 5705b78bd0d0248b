package ui

// Stage is the step a file is in during `wgslsp check`.
type Stage uint8

const (
	StageLoad Stage = iota + 1
	StageValidate
)

type Status uint8

const (
	StatusWorking Status = iota + 1
	StatusDone
	StatusError
)

// Event reports progress for one file. Cached marks a result replayed from
// the disk cache instead of validated.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Cached bool
}
