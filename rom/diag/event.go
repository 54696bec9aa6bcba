package diag

import (
	"encoding/json"
	"fmt"
)

// Severity classifies how serious an event is.
type Severity int

const (
	SevInfo    Severity = iota // Informational (valid, worth knowing)
	SevWarning                 // Suspicious but harmless to the written bytes
	SevError                   // Data was dropped or written past its budget
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the severity by name.
func (s Severity) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Kind identifies what happened.
type Kind int

const (
	KindDuplicateRecord Kind = iota // Two structurally identical records
	KindTruncated                   // Records dropped past table capacity
	KindSlack                       // Unused capacity after encode
	KindAddressOverflow             // Encoded block exceeds its byte budget
	KindReleased                    // An owner's group became empty and was not written
	KindContentTwin                 // Distinct groups with identical content
)

func (k Kind) String() string {
	switch k {
	case KindDuplicateRecord:
		return "DUPLICATE_RECORD"
	case KindTruncated:
		return "TRUNCATED"
	case KindSlack:
		return "SLACK"
	case KindAddressOverflow:
		return "ADDRESS_OVERFLOW"
	case KindReleased:
		return "RELEASED"
	case KindContentTwin:
		return "CONTENT_TWIN"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// Unit says what Event.Count measures.
type Unit string

const (
	UnitSlots   Unit = "slots"
	UnitBytes   Unit = "bytes"
	UnitRecords Unit = "records"
	UnitOwners  Unit = "owners"
)

// Event is a single report from a codec.
type Event struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Resource string   `json:"resource"`

	// Offset is a buffer offset when Kind refers to bytes, or a slot/owner
	// index for record-level events. -1 when not applicable.
	Offset int `json:"offset"`

	Count int  `json:"count"`
	Unit  Unit `json:"unit,omitempty"`

	Detail string `json:"detail,omitempty"`
}

func (e Event) String() string {
	s := fmt.Sprintf("%s %s %s: %d %s", e.Severity, e.Resource, e.Kind, e.Count, e.Unit)
	if e.Offset >= 0 {
		s += fmt.Sprintf(" @0x%X", e.Offset)
	}
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	return s
}

// Duplicate reports a record at slot index that repeats an earlier one.
func Duplicate(resource string, index int, detail string) Event {
	return Event{Kind: KindDuplicateRecord, Severity: SevInfo, Resource: resource,
		Offset: index, Count: 1, Unit: UnitRecords, Detail: detail}
}

// Truncated reports dropped records past a table's capacity.
func Truncated(resource string, dropped int, detail string) Event {
	return Event{Kind: KindTruncated, Severity: SevError, Resource: resource,
		Offset: -1, Count: dropped, Unit: UnitRecords, Detail: detail}
}

// SlotSlack reports free slots left in a fixed table.
func SlotSlack(resource string, free int) Event {
	return Event{Kind: KindSlack, Severity: SevInfo, Resource: resource,
		Offset: -1, Count: free, Unit: UnitSlots}
}

// ByteSlack reports free bytes at the end of a variable block starting at off.
func ByteSlack(resource string, off, free int) Event {
	return Event{Kind: KindSlack, Severity: SevInfo, Resource: resource,
		Offset: off, Count: free, Unit: UnitBytes}
}

// Overflow reports excess bytes written past a block's budget starting at off.
func Overflow(resource string, off, excess int) Event {
	return Event{Kind: KindAddressOverflow, Severity: SevError, Resource: resource,
		Offset: off, Count: excess, Unit: UnitBytes}
}

// Released reports owners whose group had nothing left to write.
func Released(resource string, owners int, detail string) Event {
	return Event{Kind: KindReleased, Severity: SevWarning, Resource: resource,
		Offset: -1, Count: owners, Unit: UnitOwners, Detail: detail}
}

// ContentTwin reports count distinct groups holding identical content.
func ContentTwin(resource string, count int, detail string) Event {
	return Event{Kind: KindContentTwin, Severity: SevInfo, Resource: resource,
		Offset: -1, Count: count, Unit: UnitRecords, Detail: detail}
}
