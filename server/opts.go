// Copyright 2012-2026 The NATS Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// HeartbeatDisabled turns writer heartbeats off when set as
// Options.Heartbeat. The command line flag --net-heartbeat 0 maps to it.
const HeartbeatDisabled time.Duration = -1

// Options block for the network layer. Zero values select the defaults, so
// unlike the --net-heartbeat flag a zero Heartbeat means DEFAULT_HEARTBEAT;
// use HeartbeatDisabled to turn heartbeats off.
type Options struct {
	BindAddr      string   `json:"bind_address" yaml:"bind_address"`
	BeastOutPorts string   `json:"beast_output_ports" yaml:"beast_output_ports"`
	BeastInPorts  string   `json:"beast_input_ports" yaml:"beast_input_ports"`
	RawOutPorts   string   `json:"raw_output_ports" yaml:"raw_output_ports"`
	RawInPorts    string   `json:"raw_input_ports" yaml:"raw_input_ports"`
	SBSOutPorts   string   `json:"sbs_output_ports" yaml:"sbs_output_ports"`
	VRSOutPorts   string   `json:"vrs_output_ports" yaml:"vrs_output_ports"`
	Connectors    []string `json:"connectors,omitempty" yaml:"connectors"`

	// Legacy single push server, folded into Connectors.
	PushAddr string `json:"push_address,omitempty" yaml:"push_address"`
	PushPort int    `json:"push_port,omitempty" yaml:"push_port"`
	PushMode string `json:"push_mode,omitempty" yaml:"push_mode"`

	// Zero selects DEFAULT_HEARTBEAT, HeartbeatDisabled (or any negative
	// value) disables heartbeats.
	Heartbeat      time.Duration `json:"heartbeat" yaml:"heartbeat"`
	BufferShift    int           `json:"buffer_shift" yaml:"buffer_shift"`
	MaxSendQueue   int           `json:"max_send_queue" yaml:"max_send_queue"`
	OutputBufSize  int           `json:"output_buffer_size" yaml:"output_buffer_size"`
	ClientBufSize  int           `json:"client_buffer_size" yaml:"client_buffer_size"`
	ReconnectDelay time.Duration `json:"reconnect_delay" yaml:"reconnect_delay"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	WriteDeadline  time.Duration `json:"write_deadline" yaml:"write_deadline"`
	FlushSize      int           `json:"flush_size" yaml:"flush_size"`
	FlushInterval  time.Duration `json:"flush_interval" yaml:"flush_interval"`
	IdleTimeout    time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	TickInterval   time.Duration `json:"tick_interval" yaml:"tick_interval"`

	Verbatim      bool `json:"verbatim" yaml:"verbatim"`
	ForwardMLAT   bool `json:"forward_mlat" yaml:"forward_mlat"`
	RawTimestamps bool `json:"raw_timestamps" yaml:"raw_timestamps"`
	ModeAC        bool `json:"modeac" yaml:"modeac"`
	NoModeACAuto  bool `json:"no_modeac_auto" yaml:"no_modeac_auto"`

	JSONDir         string        `json:"json_dir,omitempty" yaml:"json_dir"`
	JSONInterval    time.Duration `json:"json_interval" yaml:"json_interval"`
	JSONGzip        bool          `json:"json_gzip" yaml:"json_gzip"`
	StatsInterval   time.Duration `json:"stats_interval" yaml:"stats_interval"`
	HistoryInterval time.Duration `json:"history_interval" yaml:"history_interval"`
	HistorySize     int           `json:"history_size" yaml:"history_size"`
	VRSInterval     time.Duration `json:"vrs_interval" yaml:"vrs_interval"`

	HTTPHost string `json:"http_host" yaml:"http_host"`
	HTTPPort int    `json:"http_port" yaml:"http_port"`

	NATSURL     string `json:"nats_url,omitempty" yaml:"nats_url"`
	NATSSubject string `json:"nats_subject,omitempty" yaml:"nats_subject"`

	BeastSerial   string `json:"beast_serial,omitempty" yaml:"beast_serial"`
	BeastBaud     int    `json:"beast_baud,omitempty" yaml:"beast_baud"`
	BeastSettings string `json:"beast_settings,omitempty" yaml:"beast_settings"`

	Debug        bool   `json:"-" yaml:"debug"`
	Trace        bool   `json:"-" yaml:"trace"`
	Logtime      bool   `json:"-" yaml:"logtime"`
	NoLog        bool   `json:"-" yaml:"-"`
	NoSigs       bool   `json:"-" yaml:"-"`
	LogFile      string `json:"-" yaml:"log_file"`
	Syslog       bool   `json:"-" yaml:"syslog"`
	RemoteSyslog string `json:"-" yaml:"remote_syslog"`
}

// Clone performs a deep copy of the Options struct, returning a new clone
// with all values copied.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	clone := *o
	if o.Connectors != nil {
		clone.Connectors = append([]string(nil), o.Connectors...)
	}
	return &clone
}

// ProcessConfigFile processes a YAML configuration file.
func ProcessConfigFile(configFile string) (*Options, error) {
	opts := &Options{}
	if configFile == "" {
		return opts, nil
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("error opening config file: %v", err)
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("error parsing config file %q: %w", configFile, err)
	}
	return opts, nil
}

// MergeOptions will merge two options giving preference to the flagOpts
// if the item is present.
func MergeOptions(fileOpts, flagOpts *Options) *Options {
	if fileOpts == nil {
		return flagOpts
	}
	if flagOpts == nil {
		return fileOpts
	}
	// Merge the two, flagOpts override
	opts := *fileOpts.Clone()

	if flagOpts.BindAddr != "" {
		opts.BindAddr = flagOpts.BindAddr
	}
	if flagOpts.BeastOutPorts != "" {
		opts.BeastOutPorts = flagOpts.BeastOutPorts
	}
	if flagOpts.BeastInPorts != "" {
		opts.BeastInPorts = flagOpts.BeastInPorts
	}
	if flagOpts.RawOutPorts != "" {
		opts.RawOutPorts = flagOpts.RawOutPorts
	}
	if flagOpts.RawInPorts != "" {
		opts.RawInPorts = flagOpts.RawInPorts
	}
	if flagOpts.SBSOutPorts != "" {
		opts.SBSOutPorts = flagOpts.SBSOutPorts
	}
	if flagOpts.VRSOutPorts != "" {
		opts.VRSOutPorts = flagOpts.VRSOutPorts
	}
	if len(flagOpts.Connectors) > 0 {
		opts.Connectors = append(opts.Connectors, flagOpts.Connectors...)
	}
	if flagOpts.Heartbeat != 0 {
		opts.Heartbeat = flagOpts.Heartbeat
	}
	if flagOpts.BufferShift != 0 {
		opts.BufferShift = flagOpts.BufferShift
	}
	if flagOpts.ReconnectDelay != 0 {
		opts.ReconnectDelay = flagOpts.ReconnectDelay
	}
	if flagOpts.FlushSize != 0 {
		opts.FlushSize = flagOpts.FlushSize
	}
	if flagOpts.FlushInterval != 0 {
		opts.FlushInterval = flagOpts.FlushInterval
	}
	if flagOpts.IdleTimeout != 0 {
		opts.IdleTimeout = flagOpts.IdleTimeout
	}
	if flagOpts.JSONDir != "" {
		opts.JSONDir = flagOpts.JSONDir
	}
	if flagOpts.JSONInterval != 0 {
		opts.JSONInterval = flagOpts.JSONInterval
	}
	if flagOpts.HTTPPort != 0 {
		opts.HTTPPort = flagOpts.HTTPPort
	}
	if flagOpts.NATSURL != "" {
		opts.NATSURL = flagOpts.NATSURL
	}
	if flagOpts.BeastSerial != "" {
		opts.BeastSerial = flagOpts.BeastSerial
	}
	if flagOpts.LogFile != "" {
		opts.LogFile = flagOpts.LogFile
	}
	opts.Verbatim = opts.Verbatim || flagOpts.Verbatim
	opts.ForwardMLAT = opts.ForwardMLAT || flagOpts.ForwardMLAT
	opts.RawTimestamps = opts.RawTimestamps || flagOpts.RawTimestamps
	opts.ModeAC = opts.ModeAC || flagOpts.ModeAC
	opts.NoModeACAuto = opts.NoModeACAuto || flagOpts.NoModeACAuto
	opts.JSONGzip = opts.JSONGzip || flagOpts.JSONGzip
	opts.Debug = opts.Debug || flagOpts.Debug
	opts.Trace = opts.Trace || flagOpts.Trace
	opts.Logtime = opts.Logtime || flagOpts.Logtime
	opts.Syslog = opts.Syslog || flagOpts.Syslog
	opts.NoLog = opts.NoLog || flagOpts.NoLog
	opts.NoSigs = opts.NoSigs || flagOpts.NoSigs
	return &opts
}

// validateOptions checks the sizing options. Port lists and connectors are
// checked per service so one bad entry does not take the others down.
func validateOptions(o *Options) error {
	if o.BufferShift < 0 || o.BufferShift > MAX_BUFFER_SHIFT {
		return fmt.Errorf("buffer shift %d out of range [0..%d]", o.BufferShift, MAX_BUFFER_SHIFT)
	}
	if o.FlushSize < 0 || o.FlushSize > o.OutputBufSize {
		return fmt.Errorf("flush size %d out of range [0..%d]", o.FlushSize, o.OutputBufSize)
	}
	if o.ClientBufSize < 2*beastMaxFrameLen {
		return fmt.Errorf("client buffer size %d too small", o.ClientBufSize)
	}
	return nil
}

func setBaselineOptions(opts *Options) {
	// Setup non-standard Go defaults
	if opts.BindAddr == "" {
		opts.BindAddr = DEFAULT_BIND_ADDR
	}
	if opts.BeastOutPorts == "" {
		opts.BeastOutPorts = DEFAULT_BEAST_OUT_PORTS
	}
	if opts.BeastInPorts == "" {
		opts.BeastInPorts = DEFAULT_BEAST_IN_PORTS
	}
	if opts.RawOutPorts == "" {
		opts.RawOutPorts = DEFAULT_RAW_OUT_PORTS
	}
	if opts.RawInPorts == "" {
		opts.RawInPorts = DEFAULT_RAW_IN_PORTS
	}
	if opts.SBSOutPorts == "" {
		opts.SBSOutPorts = DEFAULT_SBS_OUT_PORTS
	}
	if opts.VRSOutPorts == "" {
		opts.VRSOutPorts = DEFAULT_VRS_OUT_PORTS
	}
	if opts.Heartbeat == 0 {
		opts.Heartbeat = DEFAULT_HEARTBEAT
	}
	if opts.BufferShift == 0 {
		opts.BufferShift = DEFAULT_BUFFER_SHIFT
	}
	if opts.MaxSendQueue == 0 {
		opts.MaxSendQueue = SENDQ_BASE_SIZE << opts.BufferShift
	}
	if opts.OutputBufSize == 0 {
		opts.OutputBufSize = DEFAULT_OUTPUT_BUF_SIZE
	}
	if opts.ClientBufSize == 0 {
		opts.ClientBufSize = DEFAULT_CLIENT_BUF_SIZE
	}
	if opts.ReconnectDelay == 0 {
		opts.ReconnectDelay = DEFAULT_RECONNECT
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = DEFAULT_CONNECT_WAIT
	}
	if opts.WriteDeadline == 0 {
		opts.WriteDeadline = DEFAULT_WRITE_DEADLINE
	}
	if opts.TickInterval == 0 {
		opts.TickInterval = DEFAULT_TICK_INTERVAL
	}
	if opts.JSONInterval == 0 {
		opts.JSONInterval = DEFAULT_JSON_INTERVAL
	}
	if opts.StatsInterval == 0 {
		opts.StatsInterval = DEFAULT_STATS_INTERVAL
	}
	if opts.HistoryInterval == 0 {
		opts.HistoryInterval = DEFAULT_HISTORY_INTERVAL
	}
	if opts.HistorySize == 0 {
		opts.HistorySize = DEFAULT_HISTORY_SIZE
	}
	if opts.VRSInterval == 0 {
		opts.VRSInterval = DEFAULT_VRS_INTERVAL
	}
	if opts.HTTPHost == "" {
		opts.HTTPHost = DEFAULT_HTTP_HOST
	}
	if opts.NATSSubject == "" {
		opts.NATSSubject = DEFAULT_NATS_SUBJECT
	}
	if opts.BeastBaud == 0 {
		opts.BeastBaud = DEFAULT_SERIAL_BAUD
	}
	if opts.PushAddr != "" && opts.PushPort > 0 {
		mode := opts.PushMode
		if mode == "" {
			mode = "raw"
		}
		opts.Connectors = append(opts.Connectors,
			fmt.Sprintf("%s:%d:%s_out", opts.PushAddr, opts.PushPort, mode))
		opts.PushAddr = ""
	}
}

// heartbeatInterval returns the writer heartbeat interval, zero when disabled.
func (o *Options) heartbeatInterval() time.Duration {
	if o.Heartbeat < 0 {
		return 0
	}
	return o.Heartbeat
}

// PrintAndDie is exported for access in other packages.
func PrintAndDie(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
