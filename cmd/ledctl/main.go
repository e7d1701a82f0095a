// cmd/ledctl/main.go

// ledctl is an interactive console for the master end of the LED bus.
// It talks to a running slave over a serial port, or to an in-process
// slave on a loopback pair with -demo.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/hvollan/ledbus/internal/bus/loopback"
	"github.com/hvollan/ledbus/internal/indicator"
	"github.com/hvollan/ledbus/internal/master"
	"github.com/hvollan/ledbus/internal/transfer"
)

var (
	portFlag    = flag.String("port", "/dev/ttyUSB0", "Serial port of the slave.")
	baudFlag    = flag.Int("baud", 115200, "Baud rate.")
	timeoutFlag = flag.Duration("timeout", time.Second, "Per-exchange read timeout.")
	demoFlag    = flag.Bool("demo", false, "Run against an in-process slave instead of a serial port.")
)

func main() {
	flag.Parse()

	client, closeTr, err := connect()
	if err != nil {
		log.Fatalf("connect failed: %v", err)
	}
	defer closeTr()

	shell := ishell.New()
	shell.Println("ledctl - LED bus master console")
	shell.SetPrompt("ledbus > ")

	shell.AddCmd(&ishell.Cmd{
		Name: "on",
		Help: "on <green|orange|red|blue|all> - switch an indicator on",
		Func: setCmd(client, true),
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "off",
		Help: "off <green|orange|red|blue|all> - switch an indicator off",
		Func: setCmd(client, false),
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "status - query all indicator states",
		Func: func(c *ishell.Context) {
			states, err := client.Query()
			if err != nil {
				c.Err(err)
				return
			}
			for i, on := range states {
				c.Printf("%-7s %s\n", indicator.Name(i), onOff(on))
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "raw",
		Help: "raw <line> - send a raw command line and print the reply",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("usage: raw <line>"))
				return
			}
			reply, err := client.Raw(strings.Join(c.Args, " "))
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(reply)
		},
	})

	shell.Run()
}

func connect() (*master.Client, func(), error) {
	if *demoFlag {
		tr, closeTr, err := startDemoSlave()
		if err != nil {
			return nil, nil, err
		}
		client, err := master.NewClient(tr)
		if err != nil {
			closeTr()
			return nil, nil, err
		}
		return client, closeTr, nil
	}

	tr, err := master.Dial(*portFlag, *baudFlag, *timeoutFlag)
	if err != nil {
		return nil, nil, err
	}
	client, err := master.NewClient(tr)
	if err != nil {
		tr.Close()
		return nil, nil, err
	}
	return client, func() { tr.Close() }, nil
}

// startDemoSlave runs a slave engine on a loopback pair inside this
// process, so the console can be exercised without hardware.
func startDemoSlave() (master.Transport, func(), error) {
	pair := loopback.New()
	store := indicator.NewStore(nil)

	mgr, err := transfer.New(transfer.Config{}, pair, pair, store)
	if err != nil {
		return nil, nil, err
	}
	if err := mgr.Initialize(); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go mgr.Run(ctx, pair.Events())

	return master.TransportFunc(pair.MasterExchange), cancel, nil
}

func setCmd(client *master.Client, on bool) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Err(fmt.Errorf("usage: %s <green|orange|red|blue|all>", onOff(on)))
			return
		}
		target := strings.ToLower(c.Args[0])

		var err error
		if target == "all" {
			err = client.SetAll(on)
		} else {
			idx := -1
			for i := 0; i < indicator.Count; i++ {
				if indicator.Name(i) == target {
					idx = i
					break
				}
			}
			if idx < 0 {
				c.Err(fmt.Errorf("unknown indicator %q", target))
				return
			}
			err = client.Set(idx, on)
		}
		if err != nil {
			c.Err(err)
			return
		}
		c.Printf("%s %s\n", target, onOff(on))
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
