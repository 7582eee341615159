package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var defaultListColumns = []string{"id", "title", "publishedAt", "updatedAt"}

func validateOutputFormat(format string) error {
	switch format {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrInvalidOutputFormat, format)
	}
}

// renderOutput writes data as JSON or YAML, or calls renderTable for the
// table format.
func renderOutput(out io.Writer, data interface{}, renderTable func(io.Writer) error) error {
	switch viper.GetString(keyOutput) {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(constants.JSONIndentSize)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	default:
		return renderTable(out)
	}
}

// displayContentTable renders one content as a property table with keys sorted.
func displayContentTable(out io.Writer, content microcms.Content) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		err := table.Append([]string{key, formatCell(content[key])})
		if err != nil {
			return fmt.Errorf("failed to append %s to table: %w", key, err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// displayContentsTable renders contents as rows. Without explicit columns the
// default system columns are used.
func displayContentsTable(out io.Writer, contents []microcms.Content, columns []string) error {
	if len(columns) == 0 {
		columns = defaultListColumns
	}

	table := tablewriter.NewWriter(out)

	header := make([]any, 0, len(columns))
	for _, column := range columns {
		header = append(header, column)
	}

	table.Header(header...)

	for _, content := range contents {
		row := make([]string, 0, len(columns))

		for _, column := range columns {
			value, ok := content[column]
			if !ok {
				row = append(row, constants.NotAvailable)

				continue
			}

			row = append(row, formatCell(value))
		}

		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to append row to table: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// formatCell renders a JSON value for a table cell.
func formatCell(value interface{}) string {
	var text string

	switch typed := value.(type) {
	case nil:
		return constants.NotAvailable
	case string:
		text = formatTimestamp(typed)
	case bool:
		text = strconv.FormatBool(typed)
	case float64:
		text = strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			text = fmt.Sprint(typed)
		} else {
			text = string(data)
		}
	}

	return truncate(text, constants.MaxCellWidth)
}

func formatTimestamp(value string) string {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}

	return parsed.Format(constants.TimeDisplayFormat)
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}

	return string(runes[:width-3]) + "..."
}
