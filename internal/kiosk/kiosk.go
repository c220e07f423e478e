package kiosk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"timeclock.service/internal/api/handler"
	"timeclock.service/internal/core/bulkdelete"
	"timeclock.service/internal/core/onboarding"
	"timeclock.service/internal/core/timecalc"
	"timeclock.service/internal/core/validation"
	"timeclock.service/pkg/client"
)

var errBack = errors.New("back")

type Options struct {
	Prefs    *Prefs
	Now      func() time.Time
	Location *time.Location
	// DownloadDir receives spreadsheets and timesheets.
	DownloadDir string
}

// Kiosk reads commands line by line from in and writes everything the
// operator should see to out.
type Kiosk struct {
	api   API
	in    *bufio.Scanner
	out   io.Writer
	opts  Options
	board *ShiftBoard
	admin bool

	commands map[string]command
}

type command struct {
	usage string
	admin bool
	run   func(ctx context.Context, args []string) error
}

func New(api API, in io.Reader, out io.Writer, opts Options) *Kiosk {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = "."
	}
	hide := false
	if opts.Prefs != nil {
		hide = opts.Prefs.HideCompleted()
	}

	k := &Kiosk{
		api:   api,
		in:    bufio.NewScanner(in),
		out:   out,
		opts:  opts,
		board: NewShiftBoard(api, hide),
	}
	k.commands = map[string]command{
		"list":     {usage: "list [YYYY-MM-DD]      show the shift board", run: k.list},
		"start":    {usage: "start                  start a shift", run: k.start},
		"out":      {usage: "out <shift id>         clock out", run: k.clockOut},
		"note":     {usage: "note <text>            leave a note for the office", run: k.note},
		"hide":     {usage: "hide on|off            hide completed shifts", run: k.hide},
		"admin":    {usage: "admin                  unlock admin tools", run: k.login},
		"help":     {usage: "help                   show commands", run: k.help},
		"edit":     {usage: "edit <id> <in> [<out>] correct a shift, e.g. edit 4 9:00AM 5:30PM", admin: true, run: k.edit},
		"rm":       {usage: "rm <shift id>          delete a shift", admin: true, run: k.deleteShift},
		"bulk":     {usage: "bulk <YYYY-MM-DD>      delete all shifts before a date", admin: true, run: k.bulkDelete},
		"users":    {usage: "users                  list users", admin: true, run: k.users},
		"rmuser":   {usage: "rmuser <user id>       delete or hide a user", admin: true, run: k.deleteUser},
		"unhide":   {usage: "unhide <user id>       restore a hidden user", admin: true, run: k.unhide},
		"download": {usage: "download [YYYY-MM-DD]  save the spreadsheet", admin: true, run: k.download},
		"pdf":      {usage: "pdf [YYYY-MM-DD]       save the printable timesheet", admin: true, run: k.pdf},
		"email":    {usage: "email                  email today's report", admin: true, run: k.email},
		"notes":    {usage: "notes                  list notes", admin: true, run: k.notes},
		"logout":   {usage: "logout                 lock admin tools", admin: true, run: k.logout},
	}
	return k
}

// Run shows the board and processes commands until "quit" or end of input.
// Command failures are printed and never end the session.
func (k *Kiosk) Run(ctx context.Context) error {
	if err := k.list(ctx, nil); err != nil {
		k.println(err)
	}
	for {
		line, err := k.ask("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !errors.Is(err, errBack) {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name, args := strings.ToLower(fields[0]), fields[1:]
		if name == "quit" || name == "exit" {
			return nil
		}

		cmd, ok := k.commands[name]
		if !ok || (cmd.admin && !k.admin) {
			k.println("Unknown command. Type help.")
			continue
		}
		if name == "note" {
			args = []string{strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))}
		}
		err = cmd.run(ctx, args)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !errors.Is(err, errBack) {
			log.Warn().Err(err).Str("command", name).Msg("Command failed")
			k.println(err)
		}
	}
}

func (k *Kiosk) help(context.Context, []string) error {
	names := make([]string, 0, len(k.commands))
	for name, c := range k.commands {
		if !c.admin || k.admin {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		k.println("  " + k.commands[name].usage)
	}
	k.println("  quit")
	return nil
}

func (k *Kiosk) list(ctx context.Context, args []string) error {
	date := k.board.Date()
	if len(args) > 0 {
		date = args[0]
	}
	if err := k.board.Show(ctx, date); err != nil {
		return err
	}
	return k.render()
}

func (k *Kiosk) render() error {
	title := "Today"
	if d := k.board.Date(); d != "" {
		title = d
	}
	k.println("== Shifts: " + title + " ==")
	return shiftTable.Render(k.out, k.board.Rows())
}

func (k *Kiosk) clockOut(ctx context.Context, args []string) error {
	id, err := shiftArg(args)
	if err != nil {
		return err
	}
	display := timecalc.FormatClock(k.opts.Now(), k.opts.Location)
	worked, err := k.board.ClockOut(ctx, id, display)
	if err != nil {
		return err
	}
	row, _ := k.board.Row(id)
	k.println(fmt.Sprintf("%s clocked out. Time worked: %s", row.Name, worked))
	return k.render()
}

func (k *Kiosk) note(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	saved, err := k.api.AddNote(ctx, text)
	if err != nil {
		return err
	}
	if saved {
		k.println("Note saved.")
	}
	return nil
}

func (k *Kiosk) hide(_ context.Context, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return errors.New("usage: hide on|off")
	}
	hide := args[0] == "on"
	k.board.SetHideCompleted(hide)
	if k.opts.Prefs != nil {
		if err := k.opts.Prefs.SetHideCompleted(hide); err != nil {
			return err
		}
	}
	return k.render()
}

// start runs the onboarding screens for one employee.
func (k *Kiosk) start(ctx context.Context, _ []string) error {
	users, err := k.api.Users(ctx, true)
	if err != nil {
		return err
	}

	o := NewOnboarder(k.api, k.opts.Now().In(k.opts.Location).Year())
	// draft keeps a rejected form so the next attempt starts from it.
	var draft *validation.Contact
	for o.Step() != onboarding.StepDone {
		if err := k.step(ctx, o, users, &draft); err != nil {
			if errors.Is(err, errBack) {
				draft = nil
				if o.Step() == onboarding.StepSelectUser {
					return errBack
				}
				o.Back()
				continue
			}
			var fieldErr validationError
			if errors.As(err, &fieldErr) {
				k.println(err)
				continue
			}
			return err
		}
	}

	k.println(o.Toast())
	return k.list(ctx, nil)
}

type validationError struct{ error }

func (e validationError) Unwrap() error { return e.error }

func (k *Kiosk) step(ctx context.Context, o *Onboarder, users []handler.UserDTO, draft **validation.Contact) error {
	switch o.Step() {
	case onboarding.StepSelectUser:
		k.println("Who is starting a shift? (type 'back' at any prompt to go back)")
		if err := numbered(userSelectTable).Render(k.out, users); err != nil {
			return err
		}
		pick, err := k.ask("Number, or 'new': ")
		if err != nil {
			return err
		}
		if strings.EqualFold(pick, "new") {
			return o.NewUser()
		}
		n, err := strconv.Atoi(pick)
		if err != nil || n < 1 || n > len(users) {
			return validationError{errors.New("pick a number from the list")}
		}
		_, err = o.Select(users[n-1])
		return err

	case onboarding.StepVerifyInfo:
		k.println("Please confirm your contact information for this year.")
		c, err := k.contactForm(formDefaults(*draft, o.Prefill()))
		if err != nil {
			return err
		}
		return keepDraft(draft, c, wrapValidation(o.SubmitVerification(ctx, c)))

	case onboarding.StepNewUser:
		k.println("Welcome! Tell us about yourself.")
		c, err := k.contactForm(formDefaults(*draft, validation.Contact{}))
		if err != nil {
			return err
		}
		return keepDraft(draft, c, wrapValidation(o.SubmitNewUser(ctx, c)))

	case onboarding.StepConfirmClockIn:
		answer, err := k.ask(fmt.Sprintf("Start a shift for %s? (yes/no): ", o.Prefill().Name))
		if err != nil {
			return err
		}
		yes := strings.EqualFold(answer, "yes") || strings.EqualFold(answer, "y")
		// "no" sends the flow back to the user list.
		return o.ConfirmClockIn(ctx, yes)
	}
	return fmt.Errorf("unexpected onboarding step %s", o.Step())
}

var userSelectTable = Table[handler.UserDTO]{
	Empty: "No users yet. Type 'new' to register.",
	Columns: []Column[handler.UserDTO]{
		{Header: "NAME", Value: func(u handler.UserDTO) string { return u.Name }},
	},
}

func formDefaults(draft *validation.Contact, fallback validation.Contact) validation.Contact {
	if draft != nil {
		return *draft
	}
	return fallback
}

// keepDraft remembers c when it was rejected and forgets it otherwise.
func keepDraft(draft **validation.Contact, c validation.Contact, err error) error {
	var fieldErr validationError
	if errors.As(err, &fieldErr) {
		*draft = &c
	} else {
		*draft = nil
	}
	return err
}

func wrapValidation(err error) error {
	switch {
	case errors.Is(err, validation.ErrInvalidEmail),
		errors.Is(err, validation.ErrInvalidPhone),
		errors.Is(err, validation.ErrNameRequired),
		client.IsStatus(err, http.StatusBadRequest):
		return validationError{err}
	}
	return err
}

// contactForm prompts for each field, showing the current value as default.
func (k *Kiosk) contactForm(c validation.Contact) (validation.Contact, error) {
	fields := []struct {
		label string
		value *string
	}{
		{"Name", &c.Name},
		{"Phone number", &c.PhoneNumber},
		{"Email", &c.Email},
		{"Mailing address", &c.PhysicalMailingAddress},
	}
	for _, f := range fields {
		prompt := f.label + ": "
		if *f.value != "" {
			prompt = fmt.Sprintf("%s [%s]: ", f.label, *f.value)
		}
		v, err := k.ask(prompt)
		if err != nil {
			return c, err
		}
		if v != "" {
			*f.value = v
		}
	}
	return c, nil
}

func (k *Kiosk) login(ctx context.Context, _ []string) error {
	password, err := k.ask("Admin password: ")
	if err != nil {
		return err
	}
	ok, err := k.api.ValidateAdmin(ctx, password)
	if err != nil {
		return err
	}
	if !ok {
		k.println("Invalid password.")
		return nil
	}
	k.admin = true
	k.println("Admin tools unlocked. Type help.")
	return nil
}

func (k *Kiosk) logout(context.Context, []string) error {
	k.admin = false
	if c, ok := k.api.(interface{ SetToken(string) }); ok {
		c.SetToken("")
	}
	k.println("Admin tools locked.")
	return nil
}

func (k *Kiosk) edit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: edit <id> <clock in> [<clock out>]")
	}
	id, err := shiftArg(args)
	if err != nil {
		return err
	}
	clockOut := ""
	if len(args) > 2 {
		clockOut = strings.Join(args[2:], " ")
	}
	worked, err := k.board.Edit(ctx, id, args[1], clockOut)
	if err != nil {
		// Cancelled edits show the server copy again.
		_ = k.board.Refresh(ctx)
		return err
	}
	if worked != "" {
		k.println("Shift updated. Time worked: " + worked)
	} else {
		k.println("Shift updated and reopened.")
	}
	return k.render()
}

func (k *Kiosk) deleteShift(ctx context.Context, args []string) error {
	id, err := shiftArg(args)
	if err != nil {
		return err
	}
	if err := k.board.Delete(ctx, id); err != nil {
		return err
	}
	k.println("Shift deleted.")
	return k.render()
}

func (k *Kiosk) bulkDelete(ctx context.Context, args []string) error {
	date := ""
	if len(args) > 0 {
		date = args[0]
	}
	pending, err := bulkdelete.Begin(ctx, k.api, date)
	if err != nil {
		return err
	}

	// The confirmation word is taken exactly as typed.
	typed, err := k.readLine(pending.Prompt() + " ")
	if err != nil {
		return err
	}
	if !pending.CanConfirm(typed) {
		k.println("Not confirmed. Nothing was deleted.")
		return nil
	}
	deleted, err := pending.Confirm(ctx, typed)
	if err != nil {
		return err
	}
	k.println(fmt.Sprintf("Deleted %d shift(s).", deleted))
	return k.list(ctx, nil)
}

func (k *Kiosk) users(ctx context.Context, _ []string) error {
	users, err := k.api.Users(ctx, false)
	if err != nil {
		return err
	}
	return userTable.Render(k.out, users)
}

func (k *Kiosk) deleteUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rmuser <user id>")
	}
	res, err := k.api.DeleteUser(ctx, args[0])
	if err != nil {
		return err
	}
	k.println(fmt.Sprintf("User %s: %s", res.Action, res.Reason))
	return nil
}

func (k *Kiosk) unhide(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: unhide <user id>")
	}
	if err := k.api.UnhideUser(ctx, args[0]); err != nil {
		return err
	}
	k.println("User restored.")
	return nil
}

func (k *Kiosk) download(ctx context.Context, args []string) error {
	return k.save(ctx, args, k.api.Spreadsheet)
}

func (k *Kiosk) pdf(ctx context.Context, args []string) error {
	return k.save(ctx, args, k.api.TimesheetPDF)
}

func (k *Kiosk) save(ctx context.Context, args []string, fetch func(context.Context, string) ([]byte, string, error)) error {
	date := ""
	if len(args) > 0 {
		date = args[0]
	}
	data, name, err := fetch(ctx, date)
	if client.IsStatus(err, http.StatusNotFound) {
		k.println("No shifts found for this date")
		return nil
	}
	if err != nil {
		return err
	}
	if name == "" {
		name = "timesheet"
	}
	path := filepath.Join(k.opts.DownloadDir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	k.println("Saved " + path)
	return nil
}

func (k *Kiosk) email(ctx context.Context, _ []string) error {
	res, err := k.api.SendReportEmail(ctx)
	if err != nil {
		return err
	}
	k.println(fmt.Sprintf("Report for %s queued for email.", res.ReportDate))
	return nil
}

func (k *Kiosk) notes(ctx context.Context, _ []string) error {
	notes, err := k.api.Notes(ctx)
	if err != nil {
		return err
	}
	return noteTable.Render(k.out, notes)
}

// ask prints prompt and reads one trimmed line. "back" yields errBack and
// closed input io.EOF.
func (k *Kiosk) ask(prompt string) (string, error) {
	line, err := k.readLine(prompt)
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "back") {
		return "", errBack
	}
	return line, nil
}

func (k *Kiosk) readLine(prompt string) (string, error) {
	fmt.Fprint(k.out, prompt)
	if !k.in.Scan() {
		if err := k.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return k.in.Text(), nil
}

func (k *Kiosk) println(v any) {
	fmt.Fprintln(k.out, v)
}

func shiftArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("which shift? give its ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a shift ID", args[0])
	}
	return id, nil
}
