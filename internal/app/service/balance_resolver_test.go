package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"balance_reporter/internal/app/port"
	"balance_reporter/internal/domain/entity"

	"github.com/shopspring/decimal"
)

const (
	keyA = "0x1111111111111111111111111111111111111111111111111111111111111111"
	keyB = "0x2222222222222222222222222222222222222222222222222222222222222222"
)

type stubProtocol struct {
	name     string
	balances map[string]*big.Int // secret key -> raw balance; missing keys fail
	calls    int
	block    bool
}

func (p *stubProtocol) Name() string { return p.name }

func (p *stubProtocol) FetchBalance(ctx context.Context, _ string, secretKey string) (entity.RawBalance, error) {
	p.calls++
	if p.block {
		<-ctx.Done()
		return entity.RawBalance{}, ctx.Err()
	}
	amount, ok := p.balances[secretKey]
	if !ok {
		return entity.RawBalance{}, fmt.Errorf("%s cannot serve this endpoint", p.name)
	}
	return entity.RawBalance{Address: p.name + "-addr", Amount: amount, Decimals: 18}, nil
}

type recordingReporter struct {
	tables      []entity.NetworkResult
	unreachable []string
}

func (r *recordingReporter) ReportNetwork(result entity.NetworkResult) error {
	r.tables = append(r.tables, result)
	return nil
}

func (r *recordingReporter) ReportUnreachable(network string) error {
	r.unreachable = append(r.unreachable, network)
	return nil
}

type recordingLogger struct {
	errors *[]string
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{errors: new([]string)}
}

func (l recordingLogger) Debug(string, ...any) {}
func (l recordingLogger) Info(string, ...any)  {}
func (l recordingLogger) Warn(string, ...any)  {}
func (l recordingLogger) Error(msg string, _ ...any) {
	*l.errors = append(*l.errors, msg)
}
func (l recordingLogger) With(...any) port.Logger { return l }

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad test amount " + s)
	}
	return v
}

func newTestResolver(primary, fallback *stubProtocol, rep *recordingReporter, l recordingLogger) *BalanceResolver {
	return NewBalanceResolver(primary, fallback, rep, nil, l, 0)
}

func TestResolveAll_PrimarySucceeds(t *testing.T) {
	primary := &stubProtocol{name: "conflux", balances: map[string]*big.Int{keyA: wei("1239900000000000000")}}
	fallback := &stubProtocol{name: "evm", balances: map[string]*big.Int{keyA: wei("5000000000000000000")}}
	rep := &recordingReporter{}

	results := newTestResolver(primary, fallback, rep, newRecordingLogger()).ResolveAll(context.Background(), map[string]entity.NetworkEntry{
		"cfxTestnet": {URL: "http://node", Accounts: []string{keyA}},
	})

	if fallback.calls != 0 {
		t.Fatalf("fallback called %d times", fallback.calls)
	}
	if len(results) != 1 || len(rep.tables) != 1 {
		t.Fatalf("want one table, got results=%d tables=%d", len(results), len(rep.tables))
	}
	got := rep.tables[0].Amounts()["0x1111...1111"]
	if !got.Equal(decimal.RequireFromString("1.23")) {
		t.Fatalf("amount = %s, want 1.23", got)
	}
	if rep.tables[0].Balances[0].Protocol != "conflux" {
		t.Fatalf("protocol = %q", rep.tables[0].Balances[0].Protocol)
	}
}

func TestResolveAll_FallbackSucceeds(t *testing.T) {
	primary := &stubProtocol{name: "conflux"}
	fallback := &stubProtocol{name: "evm", balances: map[string]*big.Int{keyA: wei("2999999999999999999")}}
	rep := &recordingReporter{}
	l := newRecordingLogger()

	newTestResolver(primary, fallback, rep, l).ResolveAll(context.Background(), map[string]entity.NetworkEntry{
		"espace": {URL: "http://node", Accounts: []string{keyA}},
	})

	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("calls primary=%d fallback=%d, want 1/1", primary.calls, fallback.calls)
	}
	if len(rep.tables) != 1 {
		t.Fatalf("want one table, got %d", len(rep.tables))
	}
	b := rep.tables[0].Balances[0]
	if b.Protocol != "evm" || b.Address != "evm-addr" {
		t.Fatalf("result not from fallback: %+v", b)
	}
	if !b.Amount.Equal(decimal.RequireFromString("2.99")) {
		t.Fatalf("amount = %s, want 2.99", b.Amount)
	}
	if len(*l.errors) != 0 {
		t.Fatalf("unexpected error diagnostics: %v", *l.errors)
	}
}

func TestResolveAll_BothFail(t *testing.T) {
	rep := &recordingReporter{}
	l := newRecordingLogger()

	results := newTestResolver(&stubProtocol{name: "conflux"}, &stubProtocol{name: "evm"}, rep, l).
		ResolveAll(context.Background(), map[string]entity.NetworkEntry{
			"dead": {URL: "http://node", Accounts: []string{keyA}},
		})

	if len(results) != 0 || len(rep.tables) != 0 {
		t.Fatalf("want no tables, got %d", len(rep.tables))
	}
	if len(rep.unreachable) != 1 || rep.unreachable[0] != "dead" {
		t.Fatalf("unreachable = %v", rep.unreachable)
	}
	if len(*l.errors) != 3 {
		t.Fatalf("want 3 error diagnostics, got %v", *l.errors)
	}
	if !strings.Contains((*l.errors)[0], "conflux") || !strings.Contains((*l.errors)[1], "evm") {
		t.Fatalf("protocol errors out of order: %v", *l.errors)
	}
	if (*l.errors)[2] != "Unable to retrieve data from dead" {
		t.Fatalf("network diagnostic = %q", (*l.errors)[2])
	}
}

func TestResolveAll_SkipsNetworkWithoutEndpoint(t *testing.T) {
	primary := &stubProtocol{name: "conflux", balances: map[string]*big.Int{keyA: wei("1")}}
	fallback := &stubProtocol{name: "evm"}
	rep := &recordingReporter{}
	l := newRecordingLogger()

	results := newTestResolver(primary, fallback, rep, l).ResolveAll(context.Background(), map[string]entity.NetworkEntry{
		"nourl": {Accounts: []string{keyA}},
	})

	if len(results) != 0 || len(rep.tables) != 0 || len(rep.unreachable) != 0 {
		t.Fatalf("network without endpoint produced output: %+v", rep)
	}
	if primary.calls != 0 || len(*l.errors) != 0 {
		t.Fatalf("network without endpoint was processed")
	}
}

func TestResolveAll_MixedNetworks(t *testing.T) {
	primary := &stubProtocol{name: "conflux", balances: map[string]*big.Int{keyA: wei("1000000000000000000")}}
	fallback := &stubProtocol{name: "evm"}
	rep := &recordingReporter{}

	newTestResolver(primary, fallback, rep, newRecordingLogger()).ResolveAll(context.Background(), map[string]entity.NetworkEntry{
		"good": {URL: "http://good", Accounts: []string{keyA}},
		"bad":  {URL: "http://bad", Accounts: []string{keyB}},
	})

	if len(rep.tables) != 1 || rep.tables[0].Network != "good" {
		t.Fatalf("tables = %+v", rep.tables)
	}
	if len(rep.unreachable) != 1 || rep.unreachable[0] != "bad" {
		t.Fatalf("unreachable = %v", rep.unreachable)
	}
}

func TestResolveAll_DropsOnlyFailedAccounts(t *testing.T) {
	primary := &stubProtocol{name: "conflux", balances: map[string]*big.Int{keyB: wei("500000000000000000")}}
	fallback := &stubProtocol{name: "evm"}
	rep := &recordingReporter{}

	newTestResolver(primary, fallback, rep, newRecordingLogger()).ResolveAll(context.Background(), map[string]entity.NetworkEntry{
		"partial": {URL: "http://node", Accounts: []string{keyA, keyB}},
	})

	if len(rep.tables) != 1 {
		t.Fatalf("want one table, got %d", len(rep.tables))
	}
	amounts := rep.tables[0].Amounts()
	if len(amounts) != 1 {
		t.Fatalf("amounts = %v", amounts)
	}
	if _, ok := amounts["0x2222...2222"]; !ok {
		t.Fatalf("resolved account missing: %v", amounts)
	}
}

func TestResolveAccountBalance_ReturnsResolveError(t *testing.T) {
	r := newTestResolver(&stubProtocol{name: "conflux"}, &stubProtocol{name: "evm"}, &recordingReporter{}, newRecordingLogger())

	_, err := r.ResolveAccountBalance(context.Background(), "http://node", keyA)
	if !errors.Is(err, entity.ErrBothProtocolsFailed) {
		t.Fatalf("want ErrBothProtocolsFailed, got %v", err)
	}
	var resolveErr *entity.ResolveError
	if !errors.As(err, &resolveErr) {
		t.Fatalf("want *entity.ResolveError, got %T", err)
	}
	var protoErr *entity.ProtocolError
	if !errors.As(resolveErr.Primary, &protoErr) || protoErr.Protocol != "conflux" {
		t.Fatalf("primary error = %v", resolveErr.Primary)
	}
	if strings.Contains(err.Error(), keyA) {
		t.Fatalf("error exposes the secret key")
	}
}

func TestResolveAccountBalance_AttemptTimeout(t *testing.T) {
	primary := &stubProtocol{name: "conflux", block: true}
	fallback := &stubProtocol{name: "evm", balances: map[string]*big.Int{keyA: wei("0")}}
	r := NewBalanceResolver(primary, fallback, &recordingReporter{}, nil, newRecordingLogger(), 10*time.Millisecond)

	got, err := r.ResolveAccountBalance(context.Background(), "http://node", keyA)
	if err != nil {
		t.Fatalf("ResolveAccountBalance: %v", err)
	}
	if got.Protocol != "evm" || !got.Amount.IsZero() {
		t.Fatalf("unexpected balance %+v", got)
	}
}
