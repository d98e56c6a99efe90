package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/rdmscope/internal/discovery"
	"github.com/muurk/rdmscope/internal/render"
	"github.com/muurk/rdmscope/internal/server"
	"github.com/muurk/rdmscope/internal/ui"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(discoverCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveCert, "cert", "", "Path to TLS certificate file (serves plain HTTP if not provided)")
	serveCmd.Flags().StringVar(&serveKey, "key", "", "Path to TLS private key file")
	serveCmd.Flags().StringVar(&serveCaptureDir, "capture-dir", "", "Directory to write capture files (default from config, disabled if empty)")
	serveCmd.Flags().StringVar(&serveAdvertise, "advertise", "", "Advertise the server over mDNS under this instance name")

	discoverCmd.Flags().IntVarP(&discoverTimeout, "timeout", "t", 0, "Browse timeout in seconds (default from config)")
	discoverCmd.Flags().StringVar(&discoverScope, "scope", "", "Only list brokers in this RDMnet scope")
	discoverCmd.Flags().BoolVar(&discoverIngest, "ingest", false, "Find rdmscope ingest servers instead of RDMnet brokers")
	discoverCmd.Flags().StringVar(&discoverCID, "cid", "", "Stop at the broker with this CID")
}

const defaultServeAddr = ":8080"

// Serve command
var (
	serveAddr       string
	serveCert       string
	serveKey        string
	serveCaptureDir string
	serveAdvertise  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the decode server",
	Long: `Start an HTTP server that decodes messages sent by capture tools.

Endpoints:
  /ws       WebSocket; binary frames carry raw messages, text frames hex
  /decode   POST a message (raw with application/octet-stream, else hex)
  /healthz  Liveness check

Every reply is the JSON decode document. With --capture-dir, every received
message is also appended to a capture file for later replay.`,
	Example: `  # Serve on the default address
  rdmscope serve

  # Capture to disk and advertise over mDNS
  rdmscope serve --capture-dir ./captures --advertise bench-1

  # Serve over TLS
  rdmscope serve --addr :8443 --cert cert.pem --key key.pem`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Validate: Either both cert and key are provided, or neither
	if (serveCert != "") != (serveKey != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	if serveCert != "" {
		if _, err := os.Stat(serveCert); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", serveCert)
		}
		if _, err := os.Stat(serveKey); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", serveKey)
		}
	}

	a, err := setup()
	if err != nil {
		return err
	}
	prefs := a.registry.Preferences
	addr := serveAddr
	if addr == "" {
		addr = prefs.ServeAddr
	}
	if addr == "" {
		addr = defaultServeAddr
	}
	captureDir := serveCaptureDir
	if !cmd.Flags().Changed("capture-dir") {
		captureDir = prefs.CaptureDir
	}

	config := &server.Config{
		Addr:       addr,
		CertPath:   serveCert,
		KeyPath:    serveKey,
		CaptureDir: captureDir,
		Advertise:  serveAdvertise,
		Render:     a.renderOptions(cmd),
	}

	if ui.IsTerminal(os.Stderr) {
		params := []ui.Param{{Key: "Address", Value: addr}}
		if serveCert != "" {
			params = append(params, ui.Param{Key: "TLS", Value: serveCert})
		}
		if captureDir != "" {
			params = append(params, ui.Param{Key: "Capture", Value: captureDir})
		}
		if serveAdvertise != "" {
			params = append(params, ui.Param{Key: "mDNS", Value: serveAdvertise})
		}
		ui.NewPrinter(os.Stderr).PrintHeader("Decode server", "rdmscope serve", params...)
	}

	srv, err := server.New(config, a.decoder)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}

// Discover command
var (
	discoverTimeout int
	discoverScope   string
	discoverIngest  bool
	discoverCID     string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find RDMnet brokers on the local network",
	Long: `Browse mDNS for RDMnet (E1.33) brokers and print what they advertise:
scope, CID, UID, model and manufacturer.

With --ingest, browse for rdmscope decode servers started with --advertise.`,
	Example: `  rdmscope discover
  rdmscope discover --scope studio --timeout 10
  rdmscope discover --ingest --format json`,
	RunE: runDiscover,
}

type brokerInfo struct {
	Instance     string            `json:"instance"`
	Service      string            `json:"service"`
	Hostname     string            `json:"hostname"`
	Address      string            `json:"address"`
	Scope        string            `json:"scope,omitempty"`
	CID          string            `json:"cid,omitempty"`
	UID          string            `json:"uid,omitempty"`
	Model        string            `json:"model,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

func newBrokerInfo(b *discovery.Broker) brokerInfo {
	info := brokerInfo{
		Instance:     b.Instance,
		Service:      b.Service,
		Hostname:     b.Hostname,
		Address:      b.Address(),
		Scope:        b.Scope,
		CID:          b.CID,
		Model:        b.Model,
		Manufacturer: b.Manufacturer,
		Metadata:     b.Metadata,
	}
	if b.UID.Manufacturer != 0 || b.UID.Device != 0 {
		info.UID = b.UID.String()
	}
	return info
}

func runDiscover(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	seconds := discoverTimeout
	if seconds <= 0 {
		seconds = a.registry.Preferences.DiscoverTimeout
	}
	timeout := time.Duration(seconds) * time.Second
	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	label := fmt.Sprintf("Browsing for RDMnet brokers (%s)...", timeout)
	if discoverIngest {
		label = fmt.Sprintf("Browsing for rdmscope servers (%s)...", timeout)
	}

	var brokers []*discovery.Broker
	err = ui.Spin(label, func() error {
		var scanErr error
		switch {
		case discoverCID != "":
			scanner := discovery.NewScanner()
			scanner.Scope = discoverScope
			scanner.Timeout = timeout
			var b *discovery.Broker
			if b, scanErr = scanner.FindBroker(context.Background(), discoverCID); b != nil {
				brokers = []*discovery.Broker{b}
			}
		case discoverIngest:
			brokers, scanErr = discovery.ScanIngest(context.Background(), timeout)
		default:
			brokers, scanErr = discovery.ScanBrokers(context.Background(), discoverScope, timeout)
		}
		return scanErr
	})
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	sort.Slice(brokers, func(i, j int) bool { return brokers[i].Instance < brokers[j].Instance })

	if a.outputFormat() == render.FormatJSON {
		infos := make([]brokerInfo, 0, len(brokers))
		for _, b := range brokers {
			infos = append(infos, newBrokerInfo(b))
		}
		enc := json.NewEncoder(os.Stdout)
		if indentJSON {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(infos)
	}

	p := ui.NewPrinter(os.Stdout)
	if len(brokers) == 0 {
		p.PrintResult(ui.NewWarningResult("Nothing found",
			ui.Param{Key: "Timeout", Value: timeout.String()},
		))
		p.PrintLines(
			"  Make sure the broker is on the same network segment",
			"  and that multicast DNS (UDP 5353) is not filtered.",
		)
		return nil
	}

	for _, b := range brokers {
		info := newBrokerInfo(b)
		details := []ui.Param{
			{Key: "Address", Value: info.Address},
			{Key: "Hostname", Value: info.Hostname},
		}
		optional := []ui.Param{
			{Key: "Scope", Value: info.Scope},
			{Key: "CID", Value: info.CID},
			{Key: "UID", Value: info.UID},
			{Key: "Model", Value: info.Model},
			{Key: "Manufacturer", Value: info.Manufacturer},
		}
		if discoverIngest {
			optional = append(optional, ui.Param{Key: "URL", Value: b.WebSocketURL()})
		}
		for _, d := range optional {
			if d.Value != "" {
				details = append(details, d)
			}
		}
		p.PrintSuccess(b.Instance, details...)
	}
	return nil
}
