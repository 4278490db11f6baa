// Command agent explores a maze hosted by the trapmaze server.
//
//	agent [-w] address [port]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/beka-birhanu/trapmaze/agent"
	"github.com/beka-birhanu/trapmaze/config"
	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	wait := fs.Bool("w", false, "wait for ENTER before sending each batch")
	timeout := fs.Duration("timeout", 30*time.Second, "HTTP request timeout")
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), "Usage: agent [-w] address [port]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return errors.New("expected an address and an optional port")
	}

	envs := config.Agent()
	log, err := logger.New(config.LogAgent, envs.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	transport := agent.NewHTTPTransport(fs.Arg(0), fs.Arg(1), *timeout)
	log.Infof("connecting to %s", transport.BaseURL())

	a, err := agent.New(&agent.Config{
		Transport:    transport,
		Logger:       log,
		Game:         game.Config{AgentMapSize: envs.MapSize},
		Lookahead:    envs.Lookahead,
		WaitForInput: *wait,
		Input:        os.Stdin,
		Output:       os.Stdout,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := a.Run(ctx)
	if err != nil {
		return err
	}
	log.Debugf("run %s took %d rounds", res.ID, res.Rounds)
	return nil
}
