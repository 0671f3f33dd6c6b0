// Package notifications decides which alerts a freshly fetched schedule
// snapshot deserves and delivers them to the desktop.
//
// Pipeline: detect outcome → schedule events → render → send.
// Detection and scheduling are pure; only the sender touches the OS.
package notifications

import (
	"time"

	"github.com/albapepper/stagewatch/internal/schedule"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	titleUpdated      = "【スケジュールが更新されました】"
	titleStartingSoon = "【次のスケジュール】"
	timeLayout        = "15:04"
	stageIndent       = "　　　　"
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// OutcomeKind classifies a fetched snapshot against the stored one.
type OutcomeKind int

const (
	NoData OutcomeKind = iota
	FirstSeen
	Unchanged
	Changed
)

func (k OutcomeKind) String() string {
	switch k {
	case FirstSeen:
		return "first_seen"
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	default:
		return "no_data"
	}
}

// Outcome is the result of Detect. Snapshot is set for FirstSeen and Changed.
type Outcome struct {
	Kind     OutcomeKind
	Snapshot *schedule.Snapshot
}

// Kind is the type of a notification event.
type Kind string

const (
	KindInitial      Kind = "initial"
	KindUpdated      Kind = "updated"
	KindStartingSoon Kind = "starting_soon"
)

// Event is a notification due for one category in the current cycle.
type Event struct {
	ID       string
	Category string
	Kind     Kind
	Snapshot *schedule.Snapshot
	At       time.Time
}

// Notification is a rendered event ready for a Sender.
type Notification struct {
	Title   string
	Message string
}
