package kiosk

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"timeclock.service/internal/api/handler"
)

// Column is one field of a table row.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Table renders rows of one kind as aligned text columns.
type Table[T any] struct {
	Columns []Column[T]
	// Empty is printed instead of the header when there are no rows.
	Empty string
}

func (t Table[T]) Render(w io.Writer, rows []T) error {
	if len(rows) == 0 && t.Empty != "" {
		_, err := fmt.Fprintln(w, t.Empty)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	cells := make([]string, len(t.Columns))
	for _, row := range rows {
		for i, c := range t.Columns {
			cells[i] = c.Value(row)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

var shiftTable = Table[ShiftRow]{
	Empty: "No shifts yet today.",
	Columns: []Column[ShiftRow]{
		{Header: "ID", Value: func(r ShiftRow) string { return fmt.Sprint(r.ShiftID) }},
		{Header: "NAME", Value: func(r ShiftRow) string { return r.Name }},
		{Header: "CLOCK IN", Value: func(r ShiftRow) string { return r.ClockIn }},
		{Header: "CLOCK OUT", Value: ShiftRow.Action},
		{Header: "TIME WORKED", Value: func(r ShiftRow) string { return r.TimeWorked }},
	},
}

var userTable = Table[handler.UserDTO]{
	Empty: "No users.",
	Columns: []Column[handler.UserDTO]{
		{Header: "ID", Value: func(u handler.UserDTO) string { return u.UserID }},
		{Header: "NAME", Value: func(u handler.UserDTO) string { return u.Name }},
		{Header: "PHONE", Value: func(u handler.UserDTO) string { return u.PhoneNumber }},
		{Header: "EMAIL", Value: func(u handler.UserDTO) string { return u.Email }},
		{Header: "VERIFIED", Value: func(u handler.UserDTO) string {
			if u.YearVerified == nil {
				return "-"
			}
			return fmt.Sprint(*u.YearVerified)
		}},
		{Header: "HIDDEN", Value: func(u handler.UserDTO) string {
			if u.Hidden {
				return "yes"
			}
			return ""
		}},
	},
}

var noteTable = Table[handler.NoteDTO]{
	Empty: "No notes.",
	Columns: []Column[handler.NoteDTO]{
		{Header: "WRITTEN", Value: func(n handler.NoteDTO) string { return n.InsertTime.Local().Format(time.DateTime) }},
		{Header: "NOTE", Value: func(n handler.NoteDTO) string { return n.Note }},
	},
}

// numbered prefixes each row with its 1-based pick number.
func numbered[T any](t Table[T]) Table[T] {
	n := 0
	pick := Column[T]{Header: "#", Value: func(T) string { n++; return fmt.Sprint(n) }}
	return Table[T]{Empty: t.Empty, Columns: append([]Column[T]{pick}, t.Columns...)}
}
