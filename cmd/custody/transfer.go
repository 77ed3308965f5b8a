package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/urfave/cli/v2"
)

var (
	destinationFlag = cli.StringFlag{
		Name:     "destination",
		Usage:    "the Dogecoin address receiving the funds",
		Required: true,
	}
	amountFlag = cli.Uint64Flag{
		Name:     "amount",
		Usage:    "the amount in koinu, split between operator fee and destination",
		Required: true,
	}
	userFlag = cli.StringFlag{
		Name:  "user",
		Usage: "send from the deposit address of the given user instead of the primary one",
	}
)

var transfer = cli.Command{
	Name:  "transfer",
	Usage: "send Dogecoin, its equivalent of another asset, or tokens",
	Subcommands: []*cli.Command{
		{
			Name:   "send",
			Usage:  "send Dogecoin from the primary or a user's deposit address",
			Flags:  []cli.Flag{&destinationFlag, &amountFlag, &userFlag},
			Action: transferAction,
		},
		{
			Name:  "quoted",
			Usage: "send from the primary address the Dogecoin equivalent of an amount in another asset",
			Flags: []cli.Flag{
				&destinationFlag,
				&cli.StringFlag{
					Name:     "amount",
					Usage:    "the amount expressed in the given asset",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "asset",
					Usage:    "one of USDT, BRL",
					Required: true,
				},
			},
			Action: transferQuotedAction,
		},
		{
			Name:  "token",
			Usage: "move Dogecoin of a user to the primary address and pay out USDT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user",
					Usage:    "the user whose deposit address funds the transfer",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "token-address",
					Usage:    "the Ethereum address receiving the tokens",
					Required: true,
				},
				&amountFlag,
			},
			Action: transferTokenAction,
		},
	},
}

var transfers = cli.Command{
	Name:      "transfers",
	Usage:     "list the journaled transfers or get one by id",
	ArgsUsage: "[transfer_id]",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "status",
			Usage: "filter by status: pending, broadcasted, completed, secondary_failed, failed",
		},
	},
	Action: transfersAction,
}

var complete = cli.Command{
	Name:      "complete",
	Usage:     "retry the token leg of a partially completed transfer",
	ArgsUsage: "<transfer_id>",
	Action:    completeAction,
}

func transferAction(ctx *cli.Context) error {
	body := map[string]interface{}{
		"destination": ctx.String("destination"),
		"amount":      ctx.Uint64("amount"),
	}

	path := "/v1/transfers"
	if userID := ctx.String("user"); userID != "" {
		path = fmt.Sprintf("/v1/users/%s/transfers", url.PathEscape(userID))
	}
	return doRequest(ctx, http.MethodPost, path, body)
}

func transferQuotedAction(ctx *cli.Context) error {
	return doRequest(ctx, http.MethodPost, "/v1/quoted-transfers", map[string]interface{}{
		"destination": ctx.String("destination"),
		"amount":      ctx.String("amount"),
		"asset":       strings.ToUpper(ctx.String("asset")),
	})
}

func transferTokenAction(ctx *cli.Context) error {
	path := fmt.Sprintf(
		"/v1/users/%s/token-transfers", url.PathEscape(ctx.String("user")),
	)
	return doRequest(ctx, http.MethodPost, path, map[string]interface{}{
		"token_address": ctx.String("token-address"),
		"amount":        ctx.Uint64("amount"),
	})
}

func transfersAction(ctx *cli.Context) error {
	if id := ctx.Args().First(); id != "" {
		return doRequest(ctx, http.MethodGet, "/v1/transfers/"+url.PathEscape(id), nil)
	}

	path := "/v1/transfers"
	if statuses := ctx.StringSlice("status"); len(statuses) > 0 {
		path += "?status=" + url.QueryEscape(strings.Join(statuses, ","))
	}
	return doRequest(ctx, http.MethodGet, path, nil)
}

func completeAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return errors.New("transfer id is missing")
	}
	path := fmt.Sprintf("/v1/transfers/%s/complete", url.PathEscape(id))
	return doRequest(ctx, http.MethodPost, path, nil)
}
