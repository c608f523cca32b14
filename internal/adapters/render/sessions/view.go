package sessions

import (
	"fmt"
	"time"

	"github.com/aquatix/whosthere/internal/application"
	"github.com/aquatix/whosthere/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	displayLayout   = "2006-01-02 15:04:05 -0700"
	presentLabel    = "present"
	unknownDuration = "-"
)

const (
	columnClient = iota
	columnName
	columnAddress
	columnStart
	columnEnd
	columnDuration
)

type RenderOptions struct {
	Title string
	// Location is the zone scan timestamps were written in. When nil,
	// timestamps are shown as raw tokens.
	Location *time.Location
	// Now is used for the duration of open sessions. Zero leaves it blank.
	Now time.Time
}

func renderView(rows []application.SessionRow, opts RenderOptions, s styles) string {
	title := opts.Title
	if title == "" {
		title = "Sessions"
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("clients: %d  sessions: %d", countClients(rows), len(rows))),
	}

	if len(rows) == 0 {
		lines = append(lines, s.empty.Render("No sessions to show."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, renderTable(rows, opts, s))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTable(rows []application.SessionRow, opts RenderOptions, s styles) string {
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{
			string(row.ClientID),
			row.Name,
			row.Address,
			formatTimestamp(row.Start, opts.Location),
			formatEnd(row, opts.Location),
			formatDuration(row, opts),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		Headers("CLIENT", "NAME", "ADDRESS", "START", "END", "DURATION").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.column
			case row < 0 || row >= len(rows):
				return s.cell
			case col == columnClient:
				return s.client
			case col == columnEnd && rows[row].Open():
				return s.present
			default:
				return s.cell
			}
		}).
		Rows(data...)

	return t.Render()
}

func countClients(rows []application.SessionRow) int {
	seen := make(map[domain.ClientID]struct{}, len(rows))
	for _, row := range rows {
		seen[row.ClientID] = struct{}{}
	}
	return len(seen)
}

func formatEnd(row application.SessionRow, loc *time.Location) string {
	if row.Open() {
		return presentLabel
	}
	return formatTimestamp(row.End, loc)
}

// formatTimestamp appends the zone offset to tokens that parse in loc and
// leaves everything else untouched.
func formatTimestamp(ts domain.Timestamp, loc *time.Location) string {
	if loc == nil {
		return string(ts)
	}

	parsed, err := time.ParseInLocation(timestampLayout, string(ts), loc)
	if err != nil {
		return string(ts)
	}
	return parsed.Format(displayLayout)
}

func formatDuration(row application.SessionRow, opts RenderOptions) string {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	start, err := time.ParseInLocation(timestampLayout, string(row.Start), loc)
	if err != nil {
		return unknownDuration
	}

	var end time.Time
	if row.Open() {
		if opts.Now.IsZero() {
			return unknownDuration
		}
		end = opts.Now
	} else {
		end, err = time.ParseInLocation(timestampLayout, string(row.End), loc)
		if err != nil {
			return unknownDuration
		}
	}

	return humanDuration(end.Sub(start))
}

func humanDuration(d time.Duration) string {
	if d < 0 {
		return unknownDuration
	}

	d = d.Round(time.Minute)
	days := int(d / (24 * time.Hour))
	hours := int(d%(24*time.Hour)) / int(time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%02dh%02dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
