package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var address = cli.Command{
	Name:      "address",
	Usage:     "get the deposit address of a user",
	ArgsUsage: "<user_id>",
	Action:    addressAction,
}

var balance = cli.Command{
	Name:      "balance",
	Usage:     "get the confirmed balance in koinu of an address",
	ArgsUsage: "<address>",
	Action:    balanceAction,
}

var rate = cli.Command{
	Name:  "rate",
	Usage: "get the exchange rate between two assets",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "base",
			Usage: "the base asset, one of DOGE, USDT, BRL",
			Value: "DOGE",
		},
		&cli.StringFlag{
			Name:  "quote",
			Usage: "the quote asset, one of DOGE, USDT, BRL",
			Value: "USDT",
		},
		&cli.StringFlag{
			Name:  "amount",
			Usage: "optional amount of base asset to convert",
		},
	},
	Action: rateAction,
}

func addressAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	userID := url.PathEscape(ctx.Args().First())
	return doRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/users/%s/address", userID), nil)
}

func balanceAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	addr := url.PathEscape(ctx.Args().First())
	return doRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/addresses/%s/balance", addr), nil)
}

func rateAction(ctx *cli.Context) error {
	query := url.Values{}
	query.Set("base", ctx.String("base"))
	query.Set("quote", ctx.String("quote"))
	if amount := ctx.String("amount"); amount != "" {
		query.Set("amount", amount)
	}
	return doRequest(ctx, http.MethodGet, "/v1/rates?"+query.Encode(), nil)
}
