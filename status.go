package sakhadb

import "github.com/Interfere/SakhaDB/internal/pager"

// Status is the closed result-code taxonomy every operation in this
// package reports through, aliased from the storage engine's own type
// so callers never need to import internal/pager directly.
type Status = pager.Status

const (
	Ok          = pager.Ok
	InvalidArg  = pager.InvalidArg
	NoMem       = pager.NoMem
	IoErr       = pager.IoErr
	IoRead      = pager.IoRead
	IoShortRead = pager.IoShortRead
	IoWrite     = pager.IoWrite
	IoFstat     = pager.IoFstat
	Full        = pager.Full
	NotAvail    = pager.NotAvail
	NotADb      = pager.NotADb
	NotFound    = pager.NotFound
	CantOpen    = pager.CantOpen
)
