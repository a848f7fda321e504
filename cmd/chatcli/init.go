package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wtask/framechat/pkg/semver"
)

type (
	// Configuration - client configuration
	Configuration struct {
		// Host - server host name or IP address
		Host string
		// Port - server port
		Port uint
		// Name - display name, asked interactively when empty
		Name string
	}
)

const (
	// DefaultPort - default server port
	DefaultPort = 7000
)

var (
	// Config - current configuration of the client
	Config = Configuration{
		Port: DefaultPort,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Commit - source revision, injected with -ldflags "-X main.Commit=..."
	Commit = ""

	// Version - app version fingerprint
	Version = semver.V{Minor: 4}.WithBuild(Commit).String()
)

var rootCmd = &cobra.Command{
	Use:     BinaryName + " host [port]",
	Short:   "Connect to fixed-frame text chat server over TCP",
	Version: Version,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: configure,
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVarP(&Config.Name, "name", "n", "", "Display name, asked on start if omitted")
}

func configure(cmd *cobra.Command, args []string) error {
	Config.Host = args[0]
	if Config.Host == "" {
		return errors.New("host is required")
	}
	if len(args) == 2 {
		port, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid port %q", args[1])
		}
		Config.Port = uint(port)
	}
	cmd.SilenceUsage = true
	return nil
}
