package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wtask/framechat/internal/chat"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	fmt.Fprint(cmd.ErrOrStderr(), color.GreenString("TCP chat server is launching, press Ctrl-C to stop...\n"))

	logger := stdlog.New(os.Stdout, "chatsrv:"+Version+" ", stdlog.Ldate|stdlog.Ltime)
	logger.Printf("Started with config: %+v", Config)

	listener, err := chat.Listen(context.Background(), listenAddress(Config))
	if err != nil {
		logger.Println("ERR", "Unable to listen TCP:", err)
		return err
	}

	options := []chat.ServerOption{chat.WithLogger(logger)}
	if Config.Verbose {
		options = append(options, chat.WithMessageLog())
	}
	server, err := chat.NewServer(
		chat.ConfiguredBroker(Config.Capacity, Config.ReadTimeout, Config.WriteTimeout),
		options...,
	)
	if err != nil {
		logger.Println("ERR", "Can't start chat server:", err)
		listener.Close()
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	served := make(chan error, 1)
	go func() {
		served <- server.Serve(listener)
	}()
	logger.Println("Chat server has started.")

	select {
	case <-sig:
		logger.Println("Got stop signal")
		logger.Println("Chat server stopped in", server.Shutdown(10*time.Second), "bye")
		return nil
	case err := <-served:
		return err
	}
}
