package report

import (
	"fmt"
	"io"

	"balance_reporter/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonRecord struct {
	Network  string                  `json:"network"`
	Balances []entity.AccountBalance `json:"balances"`
	Error    string                  `json:"error,omitempty"`
}

// JSONReporter writes one JSON object per network and line.
type JSONReporter struct {
	enc *jsoniter.Encoder
}

// NewJSONReporter creates a reporter writing newline-delimited JSON to out.
func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(out)}
}

// ReportNetwork implements port.Reporter.
func (r *JSONReporter) ReportNetwork(result entity.NetworkResult) error {
	return r.write(jsonRecord{Network: result.Network, Balances: result.Balances})
}

// ReportUnreachable implements port.Reporter.
func (r *JSONReporter) ReportUnreachable(network string) error {
	return r.write(jsonRecord{
		Network:  network,
		Balances: []entity.AccountBalance{},
		Error:    entity.ErrEmptyNetworkResult.Error(),
	})
}

func (r *JSONReporter) write(rec jsonRecord) error {
	if err := r.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode report for %s: %w", rec.Network, err)
	}
	return nil
}
