package main

import (
	"fmt"
	"io"
	"keyroom/domain"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const (
	clockLayout = "15:04:05"
	dateLayout  = "2006-01-02 15:04"
)

type printer struct {
	w      io.Writer
	colour bool
	bot    color.Style
	own    color.Style
	key    color.Style
}

func newPrinter(w io.Writer, colour bool) *printer {
	return &printer{
		w:      w,
		colour: colour,
		bot:    color.New(color.FgCyan, color.OpBold),
		own:    color.New(color.FgGreen),
		key:    color.New(color.BgBlack, color.FgYellow),
	}
}

func (p *printer) paint(style color.Style, s string) string {
	if !p.colour {
		return s
	}
	return style.Render(s)
}

func (p *printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.w, a...)
}

func (p *printer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.w, format, a...)
}

// message prints one chat line: "[15:04:05] Bot: text".
func (p *printer) message(m domain.Message) {
	sender := m.SenderName
	switch {
	case m.IsBot():
		sender = p.paint(p.bot, sender)
	case m.IsOwn:
		sender = p.paint(p.own, sender)
	}
	p.Printf("[%s] %s: %s\n", m.Timestamp.Local().Format(clockLayout), sender, m.Text)
}

func (p *printer) room(room domain.Room) {
	p.Printf("Room %s\n", room.Name)
	p.Printf("  id:  %s\n", room.ID)
	p.Printf("  key: %s\n", p.paint(p.key, room.Key.String()))
}

func (p *printer) rooms(rooms []domain.Room) {
	if len(rooms) == 0 {
		p.Println("No rooms yet, create one with keyroom room create NAME")
		return
	}
	table := p.table([]string{"ID", "Name", "Key", "Created", "Last message"})
	for _, room := range rooms {
		last := lo.TernaryF(room.LastMessage == nil,
			func() string { return "" },
			func() string { return fmt.Sprintf("%s (%s)", room.LastMessage.Text, ago(room.LastMessage.Time)) },
		)
		table.Append([]string{
			string(room.ID),
			room.Name,
			room.Key.String(),
			room.CreatedAt.Local().Format(dateLayout),
			last,
		})
	}
	table.Render()
}

func (p *printer) history(room domain.Room, messages []domain.Message) {
	p.Printf("%s (key %s)\n", room.Name, room.Key)
	if len(messages) == 0 {
		p.Println("No messages yet")
		return
	}
	table := p.table([]string{"Time", "From", "Text"})
	for _, m := range messages {
		table.Append([]string{m.Timestamp.Local().Format(clockLayout), m.SenderName, m.Text})
	}
	table.Render()
}

func (p *printer) table(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

// ago formats the age of a timestamp the way room lists show it: "now", "5m", "3h", "2d".
func ago(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
