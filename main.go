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
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/TanerH/readsb-adsbx/server"
)

var usageStr = `
Usage: readsb-net [options]

Network options:
        --net-bind-address <ip>      IP address to bind to (default: 0.0.0.0)
        --net-bo-port <ports>        Beast output ports (default: 30005)
        --net-bi-port <ports>        Beast input ports (default: 30004,30104)
        --net-ro-port <ports>        Raw output ports (default: 30002)
        --net-ri-port <ports>        Raw input ports (default: 30001)
        --net-sbs-port <ports>       BaseStation output ports (default: 30003)
        --net-vrs-port <ports>       VRS json output ports (default: 0)
                                     Ports are comma separated, 0 disables
        --net-connector <spec>       address:port:protocol, repeatable. Protocols
                                     beast_out beast_in raw_out raw_in sbs_out vrs_out
        --net-heartbeat <secs>       Heartbeat interval, 0 disables (default: 60)
        --net-buffer <n>             Send queue is 64KiB << n (default: 2)
        --net-ro-size <bytes>        Flush output once this much is queued (default: 0)
        --net-ro-interval <secs>     Flush pending output after this delay (default: 0)
        --net-reconnect-delay <secs> Delay between connector attempts (default: 30)
        --net-connect-timeout <secs> Connector dial timeout (default: 5)
        --net-idle-timeout <secs>    Drop clients silent this long, 0 disables (default: 0)
        --net-verbatim               Forward messages unchanged
        --net-raw-timestamps         Prefix raw output with the receiver timestamp
        --forward-mlat               Forward MLAT results on Beast output
        --modeac                     Enable Mode A/C output
        --no-modeac-auto             Ignore Mode A/C requests of Beast clients

Input options:
        --device <path>              Beast serial device
        --beast-baudrate <rate>      Serial baud rate (default: 3000000)
        --beast-settings <chars>     Settings sent to Beast inputs (default: C)

JSON options:
        --write-json <dir>           Write aircraft/stats/receiver json to dir
        --write-json-every <secs>    aircraft.json interval (default: 1)
        --json-gzip                  Also write gzipped copies
        --net-vrs-interval <secs>    VRS output interval (default: 5)

Monitoring options:
        --http-port <port>           HTTP monitor port, -1 for random (default: off)
        --http-host <host>           HTTP monitor host (default: 0.0.0.0)
        --nats-url <url>             Publish writer output to this NATS server
        --nats-subject <prefix>      NATS subject prefix (default: readsb)

Logging options:
    -l, --log <file>                 File to redirect log output
    -T, --logtime                    Timestamp log entries (default: true)
    -s, --syslog                     Log to syslog or windows event log
    -r, --remote_syslog <addr>       Syslog server addr (udp://localhost:514)
    -D, --debug                      Enable debugging output
    -V, --trace                      Trace the raw protocol
    -DV                              Debug and trace

Common options:
    -c, --config <file>              Configuration file (YAML)
    -h, --help                       Show this message
    -v, --version                    Show version
`

// usage will print out the flag options for the server.
func usage() {
	fmt.Printf("%s\n", usageStr)
	os.Exit(0)
}

// connectorList collects repeated --net-connector flags.
type connectorList []string

func (cl *connectorList) String() string { return strings.Join(*cl, ",") }

func (cl *connectorList) Set(v string) error {
	*cl = append(*cl, v)
	return nil
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

func main() {
	fs := flag.NewFlagSet("readsb-net", flag.ExitOnError)
	fs.Usage = usage

	opts := &server.Options{}
	var (
		showVersion    bool
		debugAndTrace  bool
		configFile     string
		connectors     connectorList
		heartbeat      float64
		flushInterval  float64
		reconnectDelay float64
		connectTimeout float64
		idleTimeout    float64
		jsonEvery      float64
		vrsInterval    float64
	)

	fs.BoolVar(&showVersion, "version", false, "Print version information.")
	fs.BoolVar(&showVersion, "v", false, "Print version information.")
	fs.StringVar(&configFile, "c", "", "Configuration file.")
	fs.StringVar(&configFile, "config", "", "Configuration file.")

	fs.StringVar(&opts.BindAddr, "net-bind-address", "", "IP address to bind to.")
	fs.StringVar(&opts.BeastOutPorts, "net-bo-port", "", "Beast output ports.")
	fs.StringVar(&opts.BeastInPorts, "net-bi-port", "", "Beast input ports.")
	fs.StringVar(&opts.RawOutPorts, "net-ro-port", "", "Raw output ports.")
	fs.StringVar(&opts.RawInPorts, "net-ri-port", "", "Raw input ports.")
	fs.StringVar(&opts.SBSOutPorts, "net-sbs-port", "", "BaseStation output ports.")
	fs.StringVar(&opts.VRSOutPorts, "net-vrs-port", "", "VRS json output ports.")
	fs.Var(&connectors, "net-connector", "Outbound connection address:port:protocol.")
	fs.Float64Var(&heartbeat, "net-heartbeat", -1, "Heartbeat interval in seconds, 0 disables.")
	fs.IntVar(&opts.BufferShift, "net-buffer", 0, "Send queue size shift.")
	fs.IntVar(&opts.FlushSize, "net-ro-size", 0, "Flush size.")
	fs.Float64Var(&flushInterval, "net-ro-interval", 0, "Flush interval in seconds.")
	fs.Float64Var(&reconnectDelay, "net-reconnect-delay", 0, "Connector retry delay in seconds.")
	fs.Float64Var(&connectTimeout, "net-connect-timeout", 0, "Connector dial timeout in seconds.")
	fs.Float64Var(&idleTimeout, "net-idle-timeout", 0, "Idle client timeout in seconds.")
	fs.BoolVar(&opts.Verbatim, "net-verbatim", false, "Forward messages unchanged.")
	fs.BoolVar(&opts.RawTimestamps, "net-raw-timestamps", false, "Timestamps on raw output.")
	fs.BoolVar(&opts.ForwardMLAT, "forward-mlat", false, "Forward MLAT results.")
	fs.BoolVar(&opts.ModeAC, "modeac", false, "Enable Mode A/C output.")
	fs.BoolVar(&opts.NoModeACAuto, "no-modeac-auto", false, "Ignore Mode A/C requests.")

	fs.StringVar(&opts.BeastSerial, "device", "", "Beast serial device.")
	fs.IntVar(&opts.BeastBaud, "beast-baudrate", 0, "Serial baud rate.")
	fs.StringVar(&opts.BeastSettings, "beast-settings", "", "Beast settings.")

	fs.StringVar(&opts.JSONDir, "write-json", "", "JSON output directory.")
	fs.Float64Var(&jsonEvery, "write-json-every", 0, "aircraft.json interval in seconds.")
	fs.BoolVar(&opts.JSONGzip, "json-gzip", false, "Write gzipped json copies.")
	fs.Float64Var(&vrsInterval, "net-vrs-interval", 0, "VRS output interval in seconds.")

	fs.IntVar(&opts.HTTPPort, "http-port", 0, "HTTP monitor port.")
	fs.StringVar(&opts.HTTPHost, "http-host", "", "HTTP monitor host.")
	fs.StringVar(&opts.NATSURL, "nats-url", "", "NATS server URL.")
	fs.StringVar(&opts.NATSSubject, "nats-subject", "", "NATS subject prefix.")

	fs.StringVar(&opts.LogFile, "l", "", "File to store logging output.")
	fs.StringVar(&opts.LogFile, "log", "", "File to store logging output.")
	fs.BoolVar(&opts.Logtime, "T", true, "Timestamp log entries.")
	fs.BoolVar(&opts.Logtime, "logtime", true, "Timestamp log entries.")
	fs.BoolVar(&opts.Syslog, "s", false, "Enable syslog as log method.")
	fs.BoolVar(&opts.Syslog, "syslog", false, "Enable syslog as log method.")
	fs.StringVar(&opts.RemoteSyslog, "r", "", "Syslog server addr (udp://127.0.0.1:514).")
	fs.StringVar(&opts.RemoteSyslog, "remote_syslog", "", "Syslog server addr (udp://127.0.0.1:514).")
	fs.BoolVar(&opts.Debug, "D", false, "Enable Debug logging.")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable Debug logging.")
	fs.BoolVar(&opts.Trace, "V", false, "Enable Trace logging.")
	fs.BoolVar(&opts.Trace, "trace", false, "Enable Trace logging.")
	fs.BoolVar(&debugAndTrace, "DV", false, "Enable Debug and Trace logging.")

	if err := fs.Parse(os.Args[1:]); err != nil {
		server.PrintAndDie(err.Error())
	}
	if showVersion {
		fmt.Printf("readsb-net version %s\n", server.VERSION)
		os.Exit(0)
	}
	if debugAndTrace {
		opts.Trace, opts.Debug = true, true
	}
	opts.Connectors = connectors
	switch {
	case heartbeat == 0:
		opts.Heartbeat = server.HeartbeatDisabled
	case heartbeat > 0:
		opts.Heartbeat = seconds(heartbeat)
	}
	opts.FlushInterval = seconds(flushInterval)
	opts.ReconnectDelay = seconds(reconnectDelay)
	opts.ConnectTimeout = seconds(connectTimeout)
	opts.IdleTimeout = seconds(idleTimeout)
	opts.JSONInterval = seconds(jsonEvery)
	opts.VRSInterval = seconds(vrsInterval)

	if configFile != "" {
		fileOpts, err := server.ProcessConfigFile(configFile)
		if err != nil {
			server.PrintAndDie(err.Error())
		}
		opts = server.MergeOptions(fileOpts, opts)
	}

	relay := newRelay(opts.HistorySize, opts.JSONInterval)
	s, err := server.NewServer(opts, relay, relay.generators())
	if err != nil {
		server.PrintAndDie(fmt.Sprintf("readsb-net: %s", err))
	}
	relay.srv = s
	s.ConfigureLogger()

	if _, err := maxprocs.Set(maxprocs.Logger(s.Debugf)); err != nil {
		s.Warnf("Failed to set GOMAXPROCS: %v", err)
	}

	if opts.BeastSerial != "" {
		dev, err := server.OpenSerial(opts.BeastSerial, opts.BeastBaud)
		if err != nil {
			s.Errorf("Unable to open %s: %v", opts.BeastSerial, err)
		} else if err := s.AddSerialClient(dev); err != nil {
			s.Errorf("Unable to attach %s: %v", opts.BeastSerial, err)
		}
	}

	if err := server.Run(s); err != nil {
		server.PrintAndDie(fmt.Sprintf("readsb-net: %s", err))
	}
}
