package pager

import "fmt"

// Status is a small closed result-code taxonomy. Zero is success; every
// other value identifies one failure class. Status implements error so
// callers can use errors.Is/errors.As against the sentinel values below.
type Status int

const (
	Ok Status = iota
	InvalidArg
	NoMem
	IoErr
	IoRead
	IoShortRead
	IoWrite
	IoFstat
	Full
	NotAvail
	NotADb
	NotFound
	CantOpen
)

var statusNames = [...]string{
	"Ok", "InvalidArg", "NoMem", "IoErr", "IoRead", "IoShortRead",
	"IoWrite", "IoFstat", "Full", "NotAvail", "NotADb", "NotFound", "CantOpen",
}

func (s Status) String() string {
	if int(s) < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func (s Status) Error() string {
	return s.String()
}

// wrap attaches context to a Status while keeping it discoverable via
// errors.Is(err, status).
func wrap(s Status, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), s)
}
