package model

type TransferMode string

const (
	ModeCopy TransferMode = "COPY"
	ModeMove TransferMode = "MOVE"
)

type TransferPair struct {
	Source      string
	Destination string
}

// Result describes what happened to one pair. ReplacedTrash and SourceTrash
// hold the trash locations of the overwritten destination and the moved
// source, empty when nothing was trashed.
type Result struct {
	Pair          TransferPair
	Mode          TransferMode
	ReplacedTrash string
	SourceTrash   string
}

type FileRef struct {
	URL  string
	Name string
}
