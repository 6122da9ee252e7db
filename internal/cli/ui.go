// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/retr0h/reqwatch/internal/client"
	"github.com/retr0h/reqwatch/internal/requestlog"
)

// Theme colors for terminal UI rendering.
var (
	Purple    = lipgloss.Color("99")
	Gray      = lipgloss.Color("245")
	White     = lipgloss.Color("15")
	Teal      = lipgloss.Color("#06ffa5")
	Yellow    = lipgloss.Color("#ffd75f")
	Red       = lipgloss.Color("#ff5f87")
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	valueStyle = lipgloss.NewStyle().Foreground(Teal)

	// DimStyle is a muted style for secondary text.
	DimStyle = lipgloss.NewStyle().Foreground(Gray)
)

// RequestHeaders are the columns of a request table.
var RequestHeaders = []string{
	"ID", "TIME", "METHOD", "PATH", "STATUS", "DURATION", "USER", "IP",
}

// Section represents a header with its corresponding rows.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// BuildRequestSection renders entries as table rows in the order given.
func BuildRequestSection(
	title string,
	entries []requestlog.Entry,
) Section {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			FormatTimestamp(e.Timestamp),
			e.Method,
			e.Path,
			strconv.Itoa(e.Status),
			FormatDuration(e.DurationMs),
			e.User,
			e.IP,
		})
	}

	return Section{
		Title:   title,
		Headers: RequestHeaders,
		Rows:    rows,
	}
}

// compactMaxColWidth is the maximum column width before truncation.
const compactMaxColWidth = 50

// PrintCompactTable renders a compact column-aligned table (kubectl-style).
// Multi-line cell values are flattened and long values are truncated with an
// ellipsis.
func PrintCompactTable(
	sections []Section,
) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(Purple)
	evenStyle := lipgloss.NewStyle().Foreground(Teal)
	oddStyle := lipgloss.NewStyle().Foreground(White)

	const colGap = 2

	for _, section := range sections {
		if section.Title != "" {
			fmt.Printf("\n  %s:\n", headerStyle.Render(section.Title))
		} else {
			fmt.Println()
		}

		if len(section.Rows) == 0 {
			fmt.Println("  " + DimStyle.Render("no entries"))
			continue
		}

		flatRows := make([][]string, len(section.Rows))
		for r, row := range section.Rows {
			flat := make([]string, len(row))
			for c, cell := range row {
				flat[c] = strings.Join(strings.Fields(cell), " ")
			}
			flatRows[r] = flat
		}

		widths := CalculateColumnWidths(section.Headers, flatRows, compactMaxColWidth)

		var hdr strings.Builder
		hdr.WriteString("  ")
		for i, h := range section.Headers {
			if i < len(section.Headers)-1 {
				hdr.WriteString(
					headerStyle.Render(fmt.Sprintf("%-*s", widths[i]+colGap, strings.ToUpper(h))),
				)
			} else {
				hdr.WriteString(headerStyle.Render(strings.ToUpper(h)))
			}
		}
		fmt.Println(hdr.String())

		for r, row := range flatRows {
			rowStyle := evenStyle
			if r%2 != 0 {
				rowStyle = oddStyle
			}

			var line strings.Builder
			line.WriteString("  ")
			for i := range section.Headers {
				cell := ""
				if i < len(row) {
					cell = Truncate(row[i], widths[i])
				}
				if i < len(section.Headers)-1 {
					line.WriteString(rowStyle.Render(fmt.Sprintf("%-*s", widths[i]+colGap, cell)))
				} else {
					line.WriteString(rowStyle.Render(cell))
				}
			}
			fmt.Println(line.String())
		}
	}
}

// CalculateColumnWidths returns the widest cell per column, capped at max.
func CalculateColumnWidths(
	headers []string,
	rows [][]string,
	maxWidth int,
) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for i := range widths {
		if widths[i] > maxWidth {
			widths[i] = maxWidth
		}
	}

	return widths
}

// Truncate shortens s to width runes, ending in an ellipsis when cut.
func Truncate(
	s string,
	width int,
) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}

	return string(runes[:width-1]) + "…"
}

// KVMinColWidth is the minimum visual width for each key-value column.
const KVMinColWidth = 20

// PrintKV prints labeled key-value pairs on a single indented line.
// Arguments alternate between labels and values: label1, val1, label2, val2, ...
func PrintKV(
	pairs ...string,
) {
	if len(pairs)%2 != 0 || len(pairs) == 0 {
		return
	}

	rendered := make([]string, 0, len(pairs)/2)
	maxWidth := KVMinColWidth
	for i := 0; i < len(pairs); i += 2 {
		pair := labelStyle.Render(pairs[i]+":") + " " + valueStyle.Render(pairs[i+1])
		rendered = append(rendered, pair)
		if w := lipgloss.Width(pair); w > maxWidth {
			maxWidth = w
		}
	}

	var line strings.Builder
	line.WriteString("  ")
	for i, pair := range rendered {
		line.WriteString(pair)
		if i < len(rendered)-1 {
			line.WriteString(strings.Repeat(" ", maxWidth-lipgloss.Width(pair)+4))
		}
	}
	fmt.Println(line.String())
}

// PrintEntry prints one streamed entry on a single line, status colored by
// class.
func PrintEntry(
	entry requestlog.Entry,
) {
	fmt.Printf(
		"  %s %s %-6s %s %s %s %s\n",
		DimStyle.Render(fmt.Sprintf("#%d", entry.ID)),
		DimStyle.Render(FormatTimestamp(entry.Timestamp)),
		entry.Method,
		entry.Path,
		StatusStyle(entry.Status).Render(strconv.Itoa(entry.Status)),
		FormatDuration(entry.DurationMs),
		labelStyle.Render(entry.User),
	)
}

// StatusStyle colors an HTTP status by class.
func StatusStyle(
	status int,
) lipgloss.Style {
	switch {
	case status >= http.StatusInternalServerError:
		return lipgloss.NewStyle().Bold(true).Foreground(Red)
	case status >= http.StatusBadRequest:
		return lipgloss.NewStyle().Foreground(Yellow)
	case status >= http.StatusMultipleChoices:
		return lipgloss.NewStyle().Foreground(White)
	default:
		return lipgloss.NewStyle().Foreground(Teal)
	}
}

// FormatTimestamp renders t in local time, or "" for the zero time.
func FormatTimestamp(
	t time.Time,
) string {
	if t.IsZero() {
		return ""
	}

	return t.Local().Format(time.DateTime)
}

// FormatDuration renders milliseconds as "42ms" or "1.5s".
func FormatDuration(
	ms int64,
) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}

	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

// FormatAge formats a duration as a human-readable age string.
// Returns "3d 4h", "12h 30m", "45m", "30s" etc.
func FormatAge(
	d time.Duration,
) string {
	if d <= 0 {
		return ""
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}

// HandleError logs a client error. Authentication and authorization failures
// are reported separately from other API errors.
func HandleError(
	err error,
	logger *slog.Logger,
) {
	var respErr *client.ResponseError
	if !errors.As(err, &respErr) {
		logger.Error("request failed", slog.String("error", err.Error()))
		return
	}

	msg := "error in response"
	if respErr.StatusCode == http.StatusUnauthorized || respErr.StatusCode == http.StatusForbidden {
		msg = "authorization error"
	}

	logger.Error(
		msg,
		slog.Int("code", respErr.StatusCode),
		slog.String("response", respErr.Message),
	)
}
