package signlib

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/signkit/cli/pkg/cliapp"
)

// Output decides how listed resources are shown.
type Output struct {
	Json bool
}

func bindOutput(values cliapp.Values) Output {
	return Output{Json: values.Bool(JsonOutput.Key)}
}

// showResources writes items as JSON, or as a table with one row per item.
func showResources[T any](
	w io.Writer, output Output, items []T, headers []string, row func(T) []string,
) error {
	if output.Json {
		return printJSON(w, items)
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, row(item))
	}
	fmt.Fprintln(w, renderTable(headers, rows))
	return nil
}

// showResource writes a single item the way showResources does.
func showResource[T any](
	w io.Writer, output Output, item T, headers []string, row func(T) []string,
) error {
	if output.Json {
		return printJSON(w, item)
	}
	fmt.Fprintln(w, renderTable(headers, [][]string{row(item)}))
	return nil
}

func printJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// confirm asks before destructive operations. Without a terminal there is
// nobody to ask and the operation goes ahead.
var confirm = func(label string) bool {
	if !isInteractive() {
		return true
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

// liveOutput is where status lines that redraw in place go. Only a terminal
// on stderr gets them.
func liveOutput(ctx *cliapp.Context) io.Writer {
	if ctx.Stderr == os.Stderr && isatty.IsTerminal(os.Stderr.Fd()) {
		return ctx.Stderr
	}
	return nil
}

// progress shows a spinner on terminals and log lines everywhere else.
type progress struct {
	spinner *pterm.SpinnerPrinter
	logger  *pterm.Logger
}

func startProgress(ctx *cliapp.Context, message string) *progress {
	p := &progress{logger: ctx.Logger}
	if liveOutput(ctx) != nil {
		spinner, err := pterm.DefaultSpinner.WithWriter(ctx.Stderr).Start(message)
		if err == nil {
			p.spinner = spinner
			return p
		}
	}
	p.logger.Info(message)
	return p
}

func (p *progress) Success(message string) {
	if p.spinner != nil {
		p.spinner.Success(message)
		return
	}
	p.logger.Info(message)
}

func (p *progress) Fail(message string) {
	if p.spinner != nil {
		p.spinner.Fail(message)
		return
	}
	p.logger.Error(message)
}

// saveFile writes content under directory with a file name made of the slug
// of parts and extension. Existing files are not overwritten; a counter is
// appended instead.
func saveFile(directory string, content []byte, extension string, parts ...string) (string, error) {
	err := os.MkdirAll(directory, 0755)
	if err != nil {
		return "", err
	}
	var name string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	base := slug.Make(name)
	if base == "" {
		base = "unnamed"
	}

	path := filepath.Join(directory, base+extension)
	for i := 1; ; i++ {
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if os.IsExist(err) {
			path = filepath.Join(directory, fmt.Sprintf("%s_%d%s", base, i, extension))
			continue
		}
		if err != nil {
			return "", err
		}
		_, err = file.Write(content)
		closeErr := file.Close()
		if err != nil {
			return "", err
		}
		return path, closeErr
	}
}
