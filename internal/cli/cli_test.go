package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/turknet-query/internal/model"
	"github.com/shinji-kodama/turknet-query/internal/prompt"
)

const availabilityFixture = `{
	"ServiceResult": {"Code": 0, "Message": "OK"},
	"Result": {
		"FiberServiceAvailablity": {"IsAvailable": true, "IsGigaFiber": false, "MaxCapacity": 1000},
		"IsGigaFiberPlanned": true,
		"VAEFiberServiceAvailability": {"Description": null, "IsAvailable": false, "MaxCapacity": 0, "MaxCapacityServiceType": 0, "NmsMax": 0, "Type": 0},
		"VDSLServiceAvailability": {"Description": "Boş port yok", "IsAvailable": true, "MaxCapacity": 50, "MaxCapacityServiceType": 1, "NmsMax": 45},
		"XDSLServiceAvailability": {"Description": null, "IsAvailable": true, "MaxCapacity": 16, "NmsMax": 14},
		"YapaServiceAvailability": {"Description": null, "IsAvailable": false, "IsIndoor": false, "IsTurknetStatusActiveForSantral": true}
	}
}`

const goknetFixture = `{
	"1": {"hataKod": "100", "hataMesaj": "Başarılı", "flexList": {"flexList": [
		{"name": "BSPRT", "value": "1"}, {"name": "GREENBROWN", "value": "G"}, {"name": "SNTRLMSF", "value": "850"}
	]}},
	"6": {"hataKod": "100", "hataMesaj": "Başarılı", "flexList": {"flexList": [{"name": "BSPRT", "value": "0"}]}},
	"7": {"hataKod": "300", "hataMesaj": "FTTH yok", "flexList": {"flexList": [{"name": "GREENBROWN", "value": "G"}]}}
}`

// providers fakes both provider endpoints on one server: Türk.net under
// /turknet/<op> and Göknet under /goknet.
type providers struct {
	mu      sync.Mutex
	replies map[string]string
	status  map[string]int
	calls   map[string]int
	server  *httptest.Server
}

func newProviders(t *testing.T) *providers {
	t.Helper()
	p := &providers{
		replies: map[string]string{
			"GetToken":                 `{"ServiceResult":{"Code":0},"Token":"t"}`,
			"CheckServiceAvailability": availabilityFixture,
			"goknet":                   goknetFixture,
			"GetBBKCountyList":         list("lstIlce", `{"Id":"100","Name":"KADIKÖY\n"}`, `{"Id":"101","Name":"ÜSKÜDAR"}`),
			"GetBBKBucakList":          list("lstBucak", `{"Id":"200","Name":"MERKEZ"}`),
			"GetBBKKoyList":            list("lstKoy", `{"Id":"300","Name":"MERKEZ"}`),
			"GetBBKMahalleList":        list("lstMahalle", `{"Id":"400","Name":"CAFERAĞA"}`),
			"GetBBKCaddeList":          list("lstCadde", `{"Id":"500","Name":"MODA CADDESİ"}`),
			"GetBBKBinaList":           list("lstBina", `{"Id":"600","Name":"12"}`),
			"GetBBKList":               list("lstDaire", `{"Id":"999","Name":"3"}`),
		},
		status: map[string]int{},
		calls:  map[string]int{},
	}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/turknet/"), "/")
		p.mu.Lock()
		p.calls[op]++
		reply, ok := p.replies[op]
		status := p.status[op]
		p.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(p.server.Close)
	return p
}

func list(key string, entries ...string) string {
	return fmt.Sprintf(`{"ServiceResult":{"Code":0},%q:[%s]}`, key, strings.Join(entries, ","))
}

func (p *providers) set(op, reply string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies[op] = reply
}

func (p *providers) fail(op string, status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status[op] = status
}

func (p *providers) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

// configFile writes a configuration pointing both providers at p.
func (p *providers) configFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := fmt.Sprintf("turknet:\n  base_url: %s/turknet\ngoknet:\n  base_url: %s/goknet\n", p.server.URL, p.server.URL)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

// scriptedPrompter answers prompts from a queue.
type scriptedPrompter struct {
	answers []string
	err     error
	labels  []string
}

func (s *scriptedPrompter) answer(label string) (string, error) {
	s.labels = append(s.labels, label)
	if s.err != nil {
		return "", s.err
	}
	if len(s.answers) == 0 {
		return "", errors.New("unexpected prompt: " + label)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *scriptedPrompter) Select(label string, items []string) (string, error) {
	return s.answer(label)
}

func (s *scriptedPrompter) Input(label string, validate func(string) error) (string, error) {
	a, err := s.answer(label)
	if err != nil {
		return "", err
	}
	return a, validate(a)
}

func withPrompter(t *testing.T, p prompt.Prompter) {
	t.Helper()
	orig := newPrompter
	newPrompter = func(*cobra.Command) prompt.Prompter { return p }
	t.Cleanup(func() { newPrompter = orig })
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	code = Run(cmd)
	return out.String(), errOut.String(), code
}

// TestQueryCommand_BBK verifies the text output of a BBK query.
func TestQueryCommand_BBK(t *testing.T) {
	p := newProviders(t)
	stdout, stderr, code := runCLI(t, "--config", p.configFile(t), "query", "--bbk", "999")

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Türknet Fiber Durumu:\n    Var mı?: Evet\n")
	assert.Contains(t, stdout, "VDSL Durumu:")
	assert.Contains(t, stdout, "    Açıklama: Boş port yok\n")
	assert.Contains(t, stdout, "    Türknet santralde aktif mi?: Evet\n")
}

// TestQueryCommand_JSON verifies that --json prints the normalized availability result.
func TestQueryCommand_JSON(t *testing.T) {
	p := newProviders(t)
	stdout, stderr, code := runCLI(t, "--json", "--config", p.configFile(t), "query", "--pstn", "2161234567")
	require.Equal(t, 0, code, stderr)

	var got model.AvailabilityResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.True(t, got.TurknetFiber.IsAvailable)
	assert.True(t, got.TurknetFiber.IsGigaFiberPlanned)
	assert.Equal(t, 50, got.VDSL.MaxCapacity)
	assert.Empty(t, got.VAEFiber.Description)
}

// TestQueryCommand_Errors verifies the exit code and message for each failure class.
func TestQueryCommand_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		setup      func(p *providers)
		wantCode   model.ExitCode
		wantStderr string
		noNetwork  bool
	}{
		{
			name:      "pstn with trunk prefix",
			args:      []string{"query", "--pstn", "02161234567"},
			wantCode:  model.ExitValidationError,
			noNetwork: true,
		},
		{
			name:      "non numeric bbk",
			args:      []string{"query", "--bbk", "12ab"},
			wantCode:  model.ExitValidationError,
			noNetwork: true,
		},
		{
			name:       "no flag",
			args:       []string{"query"},
			wantCode:   model.ExitValidationError,
			wantStderr: "one of --bbk or --pstn is required",
			noNetwork:  true,
		},
		{
			name:       "both flags",
			args:       []string{"query", "--bbk", "1", "--pstn", "2161234567"},
			wantCode:   model.ExitValidationError,
			wantStderr: "--bbk and --pstn cannot be used together",
			noNetwork:  true,
		},
		{
			name: "service error exits cleanly",
			args: []string{"query", "--bbk", "1"},
			setup: func(p *providers) {
				p.set("CheckServiceAvailability", `{"ServiceResult":{"Code":5,"Message":"Kayıt bulunamadı"}}`)
			},
			wantCode:   model.ExitSuccess,
			wantStderr: "Hata 5: Kayıt bulunamadı\n",
		},
		{
			name:     "transport error",
			args:     []string{"query", "--bbk", "1"},
			setup:    func(p *providers) { p.fail("GetToken", http.StatusInternalServerError) },
			wantCode: model.ExitTransportError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProviders(t)
			if tt.setup != nil {
				tt.setup(p)
			}
			args := append([]string{"--config", p.configFile(t)}, tt.args...)
			_, stderr, code := runCLI(t, args...)

			assert.Equal(t, int(tt.wantCode), code, stderr)
			if tt.wantStderr != "" {
				assert.Contains(t, stderr, tt.wantStderr)
			}
			if tt.noNetwork {
				assert.Zero(t, p.total())
			}
		})
	}
}

// TestRun_ConfigError verifies that a missing explicit config file exits with the config code.
func TestRun_ConfigError(t *testing.T) {
	_, stderr, code := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "query", "--bbk", "1")
	assert.Equal(t, int(model.ExitConfigError), code)
	assert.Contains(t, stderr, "failed to load configuration")
}

// TestRun_ServiceErrorJSON verifies the JSON shape of a provider-side error.
func TestRun_ServiceErrorJSON(t *testing.T) {
	p := newProviders(t)
	p.set("GetToken", `{"ServiceResult":{"Code":9,"Message":"Bakım"}}`)

	_, stderr, code := runCLI(t, "--json", "--config", p.configFile(t), "query", "--bbk", "1")
	assert.Equal(t, 0, code)
	assert.JSONEq(t, `{"error":{"provider":"turknet","code":9,"message":"Bakım"}}`, stderr)
}

// TestInteractive_Address walks the whole hierarchy: only the province and
// the district have more than one entry, every other level is chosen
// without a prompt.
func TestInteractive_Address(t *testing.T) {
	p := newProviders(t)
	sp := &scriptedPrompter{answers: []string{prompt.MethodAddress, "İSTANBUL", "KADIKÖY"}}
	withPrompter(t, sp)

	stdout, stderr, code := runCLI(t, "--config", p.configFile(t))
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, []string{
		"Lütfen sorgulama metodunu seçin",
		"Lütfen ilinizi seçin",
		"Lütfen ilçenizi seçin",
	}, sp.labels)
	assert.Contains(t, stdout, "YAPA Durumu:")
}

// TestInteractive_Phone verifies the phone number branch of the interactive flow.
func TestInteractive_Phone(t *testing.T) {
	p := newProviders(t)
	withPrompter(t, &scriptedPrompter{answers: []string{prompt.MethodPhone, "2161234567"}})

	stdout, stderr, code := runCLI(t, "--config", p.configFile(t))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Türknet Fiber Durumu:")
}

// TestInteractive_Cancelled verifies that cancelling a prompt exits with the cancel code.
func TestInteractive_Cancelled(t *testing.T) {
	p := newProviders(t)
	withPrompter(t, &scriptedPrompter{err: model.NewCLIError(model.ExitUserCancelled, "işlem iptal edildi")})

	_, _, code := runCLI(t, "--config", p.configFile(t))
	assert.Equal(t, int(model.ExitUserCancelled), code)
	assert.Zero(t, p.total())
}

// TestInteractive_TransportFailureHaltsWalk verifies that a failed level lookup stops the walk.
func TestInteractive_TransportFailureHaltsWalk(t *testing.T) {
	p := newProviders(t)
	p.fail("GetBBKBucakList", http.StatusBadGateway)
	withPrompter(t, &scriptedPrompter{answers: []string{prompt.MethodAddress, "İSTANBUL", "KADIKÖY"}})

	_, _, code := runCLI(t, "--config", p.configFile(t))
	assert.Equal(t, int(model.ExitTransportError), code)

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Zero(t, p.calls["GetBBKKoyList"])
	assert.Zero(t, p.calls["CheckServiceAvailability"])
}

// TestAddressCommand_JSON verifies that the selection lists all eight levels and the BBK code.
func TestAddressCommand_JSON(t *testing.T) {
	p := newProviders(t)
	withPrompter(t, &scriptedPrompter{answers: []string{"İSTANBUL", "ÜSKÜDAR"}})

	stdout, stderr, code := runCLI(t, "--json", "--config", p.configFile(t), "address")
	require.Equal(t, 0, code, stderr)

	var got struct {
		Steps []struct {
			Level string `json:"level"`
			Name  string `json:"name"`
			Code  int64  `json:"code"`
		} `json:"steps"`
		BBK int64 `json:"bbk"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got.Steps, 8)
	assert.Equal(t, "province", got.Steps[0].Level)
	assert.Equal(t, int64(34), got.Steps[0].Code)
	assert.Equal(t, "ÜSKÜDAR", got.Steps[1].Name)
	assert.Equal(t, int64(101), got.Steps[1].Code)
	assert.Equal(t, "apartment", got.Steps[7].Level)
	assert.Equal(t, int64(999), got.BBK)
}

// TestAddressCommand_Query verifies that --query prints the address followed by its availability.
func TestAddressCommand_Query(t *testing.T) {
	p := newProviders(t)
	withPrompter(t, &scriptedPrompter{answers: []string{"İSTANBUL", "KADIKÖY"}})

	stdout, stderr, code := runCLI(t, "--config", p.configFile(t), "address", "--query")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "    İlçe: KADIKÖY\n")
	assert.Contains(t, stdout, "BBK kodu: 999\n")
	assert.Contains(t, stdout, "xDSL Durumu:")
}

// TestGoknetCommand verifies the text output of a Göknet lookup.
func TestGoknetCommand(t *testing.T) {
	p := newProviders(t)
	stdout, stderr, code := runCLI(t, "--config", p.configFile(t), "goknet", "12345678")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "BBK kodu: 12345678\n")
	assert.Contains(t, stdout, "ADSL Durumu:\n    Hata kodu: 100\n")
	assert.Contains(t, stdout, "    Tablo rengi: Yeşil\n")
	assert.Contains(t, stdout, "    Santral mesafesi: 850\n")
	assert.Contains(t, stdout, "FTTH Durumu:\n    Hata kodu: 300\n    Hata mesajı: FTTH yok\n    Tablo rengi: Renksiz\n")
}

// TestGoknetCommand_JSON verifies the JSON output of a Göknet lookup.
func TestGoknetCommand_JSON(t *testing.T) {
	p := newProviders(t)
	stdout, stderr, code := runCLI(t, "--json", "--config", p.configFile(t), "goknet", "12345678")
	require.Equal(t, 0, code, stderr)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.EqualValues(t, 12345678, got["bbk"])
	adsl := got["adsl"].(map[string]interface{})
	assert.Equal(t, true, adsl["sparePort"])
	assert.Equal(t, "green", adsl["statusColor"])
	ftth := got["ftth"].(map[string]interface{})
	assert.Equal(t, "none", ftth["statusColor"])
}

// TestGoknetCommand_InvalidCode verifies that a non-numeric code is a validation error.
func TestGoknetCommand_InvalidCode(t *testing.T) {
	p := newProviders(t)
	_, _, code := runCLI(t, "--config", p.configFile(t), "goknet", "abc")
	assert.Equal(t, int(model.ExitValidationError), code)
	assert.Zero(t, p.total())
}

// TestProvincesCommand verifies the plate table listing.
func TestProvincesCommand(t *testing.T) {
	stdout, _, code := runCLI(t, "provinces")
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 81)
	assert.Equal(t, " 1  ADANA", lines[0])
	assert.Equal(t, "67  ZONGULDAK", lines[80])

	stdout, _, code = runCLI(t, "--json", "provinces")
	require.Equal(t, 0, code)
	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Len(t, got, 81)
}

// TestParseQueryFlags verifies flag validation, including the missing and conflicting cases.
func TestParseQueryFlags(t *testing.T) {
	tests := []struct {
		name      string
		flags     queryFlags
		wantType  model.QueryType
		wantValue string
		wantErr   bool
	}{
		{name: "bbk", flags: queryFlags{bbk: "12345678"}, wantType: model.QueryBBK, wantValue: "12345678"},
		{name: "bbk leading zeros", flags: queryFlags{bbk: "007"}, wantType: model.QueryBBK, wantValue: "7"},
		{name: "pstn", flags: queryFlags{pstn: " 2161234567 "}, wantType: model.QueryPSTN, wantValue: "2161234567"},
		{name: "pstn too short", flags: queryFlags{pstn: "216123456"}, wantErr: true},
		{name: "pstn bad area code", flags: queryFlags{pstn: "5321234567"}, wantErr: true},
		{name: "none", flags: queryFlags{}, wantErr: true},
		{name: "both", flags: queryFlags{bbk: "1", pstn: "2161234567"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt, value, err := parseQueryFlags(&tt.flags)
			if tt.wantErr {
				assert.True(t, model.IsValidationError(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, qt)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}
