package main

import (
	"errors"
	"fmt"

	"github.com/tdex-network/dogecustody/pkg/network"
	"github.com/urfave/cli/v2"
)

var (
	networkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "the network custodiand is running on: dogecoin or testnet",
		Value: network.DogecoinName,
	}

	serverFlag = cli.StringFlag{
		Name:  "server",
		Usage: "custodiand REST interface url",
		Value: "http://localhost:9090",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the custody CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&networkFlag,
				&serverFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	if _, err := network.FromName(c.String("network")); err != nil {
		return err
	}
	return setState(map[string]string{
		"network": c.String("network"),
		"server":  c.String("server"),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)

	return nil
}
