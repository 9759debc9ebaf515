package discover

import (
	"fmt"
	"strings"
)

// FileNotFoundError reports that no file matched any naming template for the
// requested customer and date. Tried lists every candidate filename probed so
// the caller can correct the input directory or filename.
type FileNotFoundError struct {
	Customer string
	Date     string
	Dir      string
	Tried    []string
}

func (e *FileNotFoundError) Error() string {
	who := e.Customer
	if who == "" {
		who = "(no customer)"
	}
	return fmt.Sprintf("no snapshot file for customer %s date %s in %s; tried: %s",
		who, e.Date, e.Dir, strings.Join(e.Tried, ", "))
}

// AmbiguousDateError reports a short-form date that matches files from more
// than one year. Resolution requires an explicit YYYYMMDD; guessing a year
// would silently pick the wrong snapshot.
type AmbiguousDateError struct {
	Date  string
	Years []string
}

func (e *AmbiguousDateError) Error() string {
	return fmt.Sprintf("date %s is ambiguous across years %s; use the YYYYMMDD form",
		e.Date, strings.Join(e.Years, ", "))
}

// AmbiguousCustomerError reports a customer string that matches no directory
// under the data root.
type AmbiguousCustomerError struct {
	Customer string
	Root     string
	Known    []string
}

func (e *AmbiguousCustomerError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown customer %q: no customer directories under %s", e.Customer, e.Root)
	}
	return fmt.Sprintf("unknown customer %q under %s; known customers: %s",
		e.Customer, e.Root, strings.Join(e.Known, ", "))
}
