package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wtask/framechat/internal/chat/broker"
	"github.com/wtask/framechat/pkg/semver"
)

type (
	// Configuration - server configuration
	Configuration struct {
		// IPAddress - bind the address, IPv4 wildcard by default
		IPAddress string
		// Port - bind the port
		Port uint
		// Capacity - max number of simultaneously connected clients
		Capacity int
		// ReadTimeout - guards the relay loop against a client that is reported ready but has no data
		ReadTimeout time.Duration
		// WriteTimeout - period before a client which does not accept frames is disconnected
		WriteTimeout time.Duration
		// Verbose - log every relayed message
		Verbose bool
	}
)

const (
	// DefaultPort - default listen port
	DefaultPort = 7000
)

var (
	// Config - current configuration of the server
	Config = Configuration{
		IPAddress:    "0.0.0.0",
		Port:         DefaultPort,
		Capacity:     broker.DefaultCapacity,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Commit - source revision, injected with -ldflags "-X main.Commit=..."
	Commit = ""

	// Version - app version fingerprint
	Version = semver.V{Minor: 4}.WithBuild(Commit).String()
)

var rootCmd = &cobra.Command{
	Use:   BinaryName + " [port]",
	Short: "Launch fixed-frame text chat server over TCP",
	Long: `Launch fixed-frame text chat server over TCP.

Every message is a 255-byte frame. The server relays each received frame
to all other connected clients, prefixed with the sender IP address.`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: configure,
	RunE:    run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&Config.IPAddress, "ip", Config.IPAddress, "Listen address")
	flags.UintVar(&Config.Port, "port", Config.Port, "Listen port")
	flags.IntVar(&Config.Capacity, "capacity", Config.Capacity, "Max number of simultaneously connected clients")
	flags.DurationVar(&Config.ReadTimeout, "read-timeout", Config.ReadTimeout, "Max duration of a single read from ready client")
	flags.DurationVar(
		&Config.WriteTimeout,
		"write-timeout",
		Config.WriteTimeout,
		"Idle duration of a write before client is disconnected",
	)
	flags.BoolVarP(&Config.Verbose, "verbose", "v", false, "Log every relayed message")
}

// configure - validates configuration, positional port overrides the default one.
func configure(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if cmd.Flags().Changed("port") {
			return errors.New("port is given twice, use either argument or --port flag")
		}
		port, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid port %q", args[0])
		}
		Config.Port = uint(port)
	}
	if Config.Port > 65535 {
		return fmt.Errorf("port value should be less than 65536, got %d", Config.Port)
	}
	if Config.Capacity < 1 {
		return errors.New("capacity value should be greater or equal 1")
	}
	if Config.ReadTimeout <= 0 || Config.WriteTimeout <= 0 {
		return errors.New("timeout values should be greater than 0")
	}
	// the rest of errors are not caused by command line
	cmd.SilenceUsage = true
	return nil
}

// listenAddress - returns TCP address to listen on.
func listenAddress(c Configuration) string {
	return net.JoinHostPort(c.IPAddress, strconv.FormatUint(uint64(c.Port), 10))
}
