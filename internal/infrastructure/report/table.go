package report

import (
	"fmt"
	"io"

	"balance_reporter/internal/domain/entity"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// NetworkLabelWidth is the width network names are padded to in the row header.
const NetworkLabelWidth = 20

const indexHeader = "(index)"

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// TableReporter renders one table per network: masked keys as columns and a single
// row keyed by the padded network name.
type TableReporter struct {
	out io.Writer
}

// NewTableReporter creates a reporter writing tables to out.
func NewTableReporter(out io.Writer) *TableReporter {
	return &TableReporter{out: out}
}

// PadNetworkName right-pads name with spaces to NetworkLabelWidth.
func PadNetworkName(name string) string {
	return fmt.Sprintf("%-*s", NetworkLabelWidth, name)
}

// ReportNetwork implements port.Reporter.
func (r *TableReporter) ReportNetwork(result entity.NetworkResult) error {
	headers := make([]string, 0, len(result.Balances)+1)
	row := make([]string, 0, len(result.Balances)+1)
	headers = append(headers, indexHeader)
	row = append(row, PadNetworkName(result.Network))
	for _, b := range result.Balances {
		headers = append(headers, b.Label)
		row = append(row, b.Amount.String())
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(int, int) lipgloss.Style { return cellStyle }).
		Headers(headers...).
		Row(row...)

	if _, err := fmt.Fprintln(r.out, t.String()); err != nil {
		return fmt.Errorf("failed to write table for %s: %w", result.Network, err)
	}
	return nil
}

// ReportUnreachable implements port.Reporter. Tables have no row for an unreachable
// network; the resolver's error log is the only notice.
func (r *TableReporter) ReportUnreachable(string) error {
	return nil
}
