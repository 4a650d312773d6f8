package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/canbridge/internal/config"
	"github.com/muurk/canbridge/internal/discovery"
	"github.com/muurk/canbridge/internal/monitor"
	"github.com/muurk/canbridge/internal/server"
)

// Serve command flags
var (
	host      string
	port      int
	device    string
	certPath  string
	keyPath   string
	logLevel  string
	advertise bool
)

// Monitor and send command flags
var (
	bridgeURL   string
	discover    bool
	scanTimeout int
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(configCmd)
}

// serveCmd starts the bridge server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bridge server",
	Long: `Start the canbridge server on a SocketCAN interface.

The server opens the CAN device lazily, per WebSocket client. When the
device is missing or goes away mid-session, clients receive a notice and
the bridge retries once per heartbeat until the device returns.

Configuration is layered: config file, then CANBRIDGE_* environment
variables, then flags. Flags win.`,
	Example: `  # Bridge can0 on the default port
  canbridge serve

  # Bridge a virtual interface on a custom port with debug logging
  canbridge serve --device vcan0 --port 8080 --log-level debug

  # Serve over TLS
  canbridge serve --cert fullchain.pem --key privkey.pem`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Bind address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 0, fmt.Sprintf("Server port (default %d)", config.DefaultPort))
	serveCmd.Flags().StringVar(&device, "device", "", fmt.Sprintf("CAN interface to bridge (default %q)", config.DefaultDevice))
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", true, "Advertise the bridge over mDNS")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags override the file and environment layers.
	if host != "" {
		cfg.Host = host
	}
	if port != 0 {
		cfg.Port = port
	}
	if device != "" {
		cfg.Device = device
	}
	if certPath != "" {
		cfg.CertPath = certPath
	}
	if keyPath != "" {
		cfg.KeyPath = keyPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("advertise") {
		cfg.Advertise = advertise
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// monitorCmd launches the interactive traffic monitor
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch bridge traffic in the terminal",
	Long: `Connect to a running bridge and watch its envelope stream live.

The monitor shows frames and notices with sequence numbers, highlights
sequence gaps, and can inject frames onto the bus. Without --url it
discovers a bridge over mDNS.`,
	Example: `  # Discover a bridge on the local network and attach
  canbridge monitor

  # Attach to a known bridge
  canbridge monitor --url 192.168.4.16:3000

  # Longer discovery scan
  canbridge monitor --discover --timeout 15`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&bridgeURL, "url", "", "Bridge address (host:port or full URL)")
	monitorCmd.Flags().BoolVar(&discover, "discover", false, "Force mDNS discovery even if --url is set")
	monitorCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Discovery timeout in seconds")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("monitor requires an interactive terminal (use 'canbridge send' for scripting)")
	}

	url := bridgeURL
	if url == "" || discover {
		bridge, err := discoverBridge()
		if err != nil {
			return err
		}
		url = bridge.BaseURL()
	}

	return monitor.Run(url)
}

// sendCmd writes a single frame onto the bus
var sendCmd = &cobra.Command{
	Use:   "send <frame>",
	Short: "Send one CAN frame through a bridge",
	Long: `Send a single frame in candump text format onto the bus behind a
bridge. The frame is a hex identifier, a hash, then a hex payload. The
first envelope the bridge sends back is printed before exiting, so a
device problem is visible immediately.`,
	Example: `  # Send a frame to a discovered bridge
  canbridge send 1a3#deadbeef

  # Send to a known bridge
  canbridge send 7ff#0102 --url 192.168.4.16:3000`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&bridgeURL, "url", "", "Bridge address (host:port or full URL)")
	sendCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Discovery timeout in seconds")
}

func runSend(cmd *cobra.Command, args []string) error {
	url := bridgeURL
	if url == "" {
		bridge, err := discoverBridge()
		if err != nil {
			return err
		}
		url = bridge.BaseURL()
	}

	client, err := monitor.Dial(url)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.SendFrame(args[0]); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	fmt.Printf("sent %s via %s\n", args[0], client.URL())

	env, err := client.ReadEnvelope()
	if err != nil {
		return fmt.Errorf("no response from bridge: %w", err)
	}
	switch {
	case env.Notice != "":
		fmt.Printf("bridge: %s\n", env.Notice)
	case env.Data != "":
		fmt.Printf("bridge: frame %s\n", env.Data)
	}
	return nil
}

// discoverBridge scans mDNS and returns exactly one bridge
func discoverBridge() (*discovery.Bridge, error) {
	fmt.Printf("Scanning for bridges (timeout: %ds)...\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	bridges, err := scanner.Scan(context.Background())
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	if len(bridges) == 0 {
		return nil, fmt.Errorf("no bridge found. Use --url to specify an address manually")
	}
	if len(bridges) > 1 {
		fmt.Printf("Found %d bridges:\n", len(bridges))
		for i, b := range bridges {
			fmt.Printf("%d. %s\n", i+1, b)
		}
		return nil, fmt.Errorf("multiple bridges found. Use --url to pick one")
	}

	fmt.Printf("Found %s\n\n", bridges[0])
	return bridges[0], nil
}

// configCmd manages the configuration file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		cfg := config.New()
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration the server would start with, after merging
the config file and CANBRIDGE_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Printf("host:       %s\n", displayHost(cfg.Host))
		fmt.Printf("port:       %d\n", cfg.Port)
		fmt.Printf("device:     %s\n", cfg.Device)
		fmt.Printf("tls:        %v\n", cfg.TLS())
		fmt.Printf("advertise:  %v\n", cfg.Advertise)
		fmt.Printf("heartbeat:  %s\n", cfg.Heartbeat())
		if cfg.LogLevel != "" {
			fmt.Printf("log_level:  %s\n", cfg.LogLevel)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func displayHost(host string) string {
	if host == "" {
		return "(all interfaces)"
	}
	return host
}
