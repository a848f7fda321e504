package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wtask/framechat/internal/chat/client"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := client.Dial(ctx, Config.Host, Config.Port)
	if err != nil {
		return fmt.Errorf("can't connect to server: %w", err)
	}
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Connected:    Server Name: %s\n", Config.Host)
	fmt.Fprintf(stderr, "\t\tIP Address: %s\n", conn.RemoteAddr())

	stdin := bufio.NewReader(os.Stdin)
	var prompt io.Writer
	if term.IsTerminal(int(os.Stdin.Fd())) {
		prompt = os.Stdout
	}
	name := Config.Name
	if name == "" {
		if name, err = client.PromptName(stdin, prompt); err != nil {
			conn.Close()
			return err
		}
	}
	session, err := client.NewSession(conn, name)
	if err != nil {
		conn.Close()
		return err
	}

	err = session.Run(ctx, stdin, color.Output)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
