package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"eventbook/internal/gateway"
	"eventbook/internal/models"
	"eventbook/internal/storage"
)

var errLoginRequired = errors.New("login required: run 'eventbook login' first")

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	return fs
}

// oneArg returns the single positional argument of a command.
func oneArg(args []string, what string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("expected exactly one %s", what)
	}
	return args[0], nil
}

func (a *app) password(given string) (string, error) {
	if given != "" {
		return given, nil
	}
	fmt.Fprint(a.stdout, "Password: ")
	password, err := readPassword(a.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(a.stdout)
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "login")
	email := fs.String("email", "", "Account email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("missing required flags: email")
	}

	password, err := a.password(*passwordFlag)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.session.Login(ctx, *email, password); err != nil {
		return err
	}

	user := a.session.User()
	suffix := ""
	if a.session.IsAdmin() {
		suffix = " (admin)"
	}
	fmt.Fprintf(a.stdout, "Logged in as %s <%s>%s\n", user.Name, user.Email, suffix)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "register")
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Account email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return fmt.Errorf("missing required flags: name, email")
	}

	password, err := a.password(*passwordFlag)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.session.Register(ctx, *name, *email, password); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Account created for %s. You can now log in.\n", *email)
	return nil
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.stdout, "Not logged in")
		return a.session.Logout()
	}
	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

func cmdWhoami(_ context.Context, a *app, _ []string) error {
	user := a.session.User()
	if user == nil {
		fmt.Fprintln(a.stdout, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.stdout, "%s <%s> role=%s\n", user.Name, user.Email, user.Role)
	return nil
}

func cmdEvents(ctx context.Context, a *app, _ []string) error {
	events, err := a.api.FetchEvents(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(a.stdout, "No events")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tVENUE\tPRICE\tCATEGORY")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, eventDate(&e), e.Venue, formatPrice(e.Price), categoryName(e.Category))
	}
	return tw.Flush()
}

func cmdEvent(ctx context.Context, a *app, args []string) error {
	id, err := oneArg(args, "event id")
	if err != nil {
		return err
	}
	e, err := a.api.FetchEvent(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s\n", e.Name)
	fmt.Fprintf(a.stdout, "  Date:     %s\n", eventDate(e))
	fmt.Fprintf(a.stdout, "  Venue:    %s\n", e.Venue)
	fmt.Fprintf(a.stdout, "  Price:    %s\n", formatPrice(e.Price))
	fmt.Fprintf(a.stdout, "  Category: %s\n", categoryName(e.Category))
	if len(e.Tags) > 0 {
		names := make([]string, len(e.Tags))
		for i, t := range e.Tags {
			names[i] = t.Name
		}
		fmt.Fprintf(a.stdout, "  Tags:     %s\n", strings.Join(names, ", "))
	}
	if e.ImageURL != "" {
		fmt.Fprintf(a.stdout, "  Image:    %s\n", e.ImageURL)
	}
	if e.Description != "" {
		fmt.Fprintf(a.stdout, "\n%s\n", e.Description)
	}

	if a.session.IsAuthenticated() {
		bookings, err := a.api.FetchMyBookings(ctx)
		if err != nil {
			return err
		}
		if models.HasBooking(bookings, e.ID) {
			fmt.Fprintln(a.stdout, "\nYou have booked this event.")
		}
	}
	return nil
}

func cmdBook(ctx context.Context, a *app, args []string) error {
	id, err := oneArg(args, "event id")
	if err != nil {
		return err
	}
	if !a.session.IsAuthenticated() {
		return errLoginRequired
	}
	b, err := a.api.BookEvent(ctx, id)
	if err != nil {
		return err
	}
	name := b.Event.Name
	if name == "" {
		name = b.EventID
	}
	fmt.Fprintf(a.stdout, "Booked %s (booking %s)\n", name, b.ID)
	return nil
}

func cmdBookings(ctx context.Context, a *app, _ []string) error {
	bookings, err := a.api.FetchMyBookings(ctx)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		fmt.Fprintln(a.stdout, "No bookings")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEVENT\tDATE\tBOOKED AT")
	for _, b := range bookings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Event.Name, eventDate(&b.Event), formatDate(b.CreatedAt))
	}
	return tw.Flush()
}

func cmdCategories(ctx context.Context, a *app, _ []string) error {
	categories, err := a.api.FetchCategories(ctx)
	if err != nil {
		return err
	}
	return printNamed(a.stdout, categories, func(c models.Category) string { return c.Name }, "No categories")
}

func cmdTags(ctx context.Context, a *app, _ []string) error {
	tags, err := a.api.FetchTags(ctx)
	if err != nil {
		return err
	}
	return printNamed(a.stdout, tags, func(t models.Tag) string { return t.Name }, "No tags")
}

func cmdLang(_ context.Context, a *app, args []string) error {
	if len(args) > 0 {
		if err := a.db.SetLanguage(args[0]); err != nil {
			return err
		}
	}
	lang, err := a.db.Language()
	if err != nil {
		return err
	}
	dir := "left-to-right"
	if storage.IsRTL(lang) {
		dir = "right-to-left"
	}
	fmt.Fprintf(a.stdout, "Language: %s (%s)\n", lang, dir)
	return nil
}

func cmdCreateCategory(ctx context.Context, a *app, args []string) error {
	name, err := oneArg(args, "category name")
	if err != nil {
		return err
	}
	c, err := a.api.CreateCategory(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Created category %s (%s)\n", c.Name, c.ID)
	return nil
}

func cmdDeleteCategory(ctx context.Context, a *app, args []string) error {
	id, err := oneArg(args, "category id")
	if err != nil {
		return err
	}
	if err := a.api.DeleteCategory(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted category %s\n", id)
	return nil
}

func cmdCreateTag(ctx context.Context, a *app, args []string) error {
	name, err := oneArg(args, "tag name")
	if err != nil {
		return err
	}
	t, err := a.api.CreateTag(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Created tag %s (%s)\n", t.Name, t.ID)
	return nil
}

func cmdDeleteTag(ctx context.Context, a *app, args []string) error {
	id, err := oneArg(args, "tag id")
	if err != nil {
		return err
	}
	if err := a.api.DeleteTag(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted tag %s\n", id)
	return nil
}

// eventFlags binds the writable event fields to a flag set.
type eventFlags struct {
	name        *string
	description *string
	date        *string
	venue       *string
	price       *string
	category    *string
	imageURL    *string
	tags        stringList
}

func newEventFlags(fs *flag.FlagSet) *eventFlags {
	ef := &eventFlags{
		name:        fs.String("name", "", "Event name"),
		description: fs.String("description", "", "Event description"),
		date:        fs.String("date", "", "ISO-8601 date, e.g. 2030-05-01T19:00:00Z"),
		venue:       fs.String("venue", "", "Venue"),
		price:       fs.String("price", "", "Ticket price"),
		category:    fs.String("category", "", "Category id"),
		imageURL:    fs.String("image-url", "", "Image URL"),
	}
	fs.Var(&ef.tags, "tag", "Tag id (repeatable)")
	return ef
}

func (ef *eventFlags) input() (models.EventInput, error) {
	in := models.EventInput{
		Name:        *ef.name,
		Description: *ef.description,
		Date:        *ef.date,
		Venue:       *ef.venue,
		ImageURL:    *ef.imageURL,
		CategoryID:  *ef.category,
		TagIDs:      ef.tags,
	}
	if *ef.price != "" {
		p, err := strconv.ParseFloat(*ef.price, 64)
		if err != nil {
			return in, fmt.Errorf("invalid price %q", *ef.price)
		}
		in.Price = &p
	}
	return in, nil
}

func cmdCreateEvent(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "create-event")
	ef := newEventFlags(fs)
	image := fs.String("image", "", "Image file to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := ef.input()
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}

	var e *models.Event
	if *image != "" {
		f, err := os.Open(*image)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()
		e, err = a.api.CreateEventForm(ctx, gateway.EventForm(in, filepath.Base(*image), f))
		if err != nil {
			return err
		}
	} else {
		e, err = a.api.CreateEvent(ctx, in)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(a.stdout, "Created event %s (%s)\n", e.Name, e.ID)
	return nil
}

func cmdUpdateEvent(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("expected an event id before the flags")
	}
	id := args[0]

	fs := newFlagSet(a, "update-event")
	ef := newEventFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	in, err := ef.input()
	if err != nil {
		return err
	}
	if err := in.ValidateUpdate(); err != nil {
		return err
	}

	e, err := a.api.UpdateEvent(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Updated event %s (%s)\n", e.Name, e.ID)
	return nil
}

func cmdDeleteEvent(ctx context.Context, a *app, args []string) error {
	id, err := oneArg(args, "event id")
	if err != nil {
		return err
	}
	if err := a.api.DeleteEvent(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted event %s\n", id)
	return nil
}

func printNamed[T models.Entity](w io.Writer, items []T, name func(T) string, empty string) error {
	if len(items) == 0 {
		fmt.Fprintln(w, empty)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\n", it.EntityID(), name(it))
	}
	return tw.Flush()
}

func categoryName(c *models.Category) string {
	if c == nil {
		return "-"
	}
	return c.Name
}

const dateLayout = "Mon, 02 Jan 2006 15:04"

func eventDate(e *models.Event) string {
	t, err := e.Time()
	if err != nil {
		return e.Date
	}
	return t.Format(dateLayout)
}

func formatDate(s string) string {
	t, err := models.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format(dateLayout)
}

func formatPrice(p float64) string {
	if p == 0 {
		return "Free"
	}
	return fmt.Sprintf("%.2f", p)
}
