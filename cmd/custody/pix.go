package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var pix = cli.Command{
	Name:  "pix",
	Usage: "receive and send BRL through PIX",
	Subcommands: []*cli.Command{
		{
			Name:  "charge",
			Usage: "create a PIX charge and print its QR code",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "amount",
					Usage:    "the amount in BRL",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "name",
					Usage:    "the payer's name",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "email",
					Usage: "the payer's email",
				},
				&cli.StringFlag{
					Name:     "document",
					Usage:    "the payer's CPF or CNPJ",
					Required: true,
				},
			},
			Action: pixChargeAction,
		},
		{
			Name:      "status",
			Usage:     "get the status of a PIX charge",
			ArgsUsage: "<charge_id>",
			Action:    pixStatusAction,
		},
		{
			Name:  "payout",
			Usage: "send to a PIX key the BRL equivalent of an amount of koinu",
			Flags: []cli.Flag{
				&cli.Uint64Flag{
					Name:     "amount",
					Usage:    "the amount in koinu",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "pix-key",
					Usage:    "the recipient's PIX key",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "name",
					Usage:    "the recipient's name",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "document",
					Usage:    "the recipient's CPF or CNPJ",
					Required: true,
				},
			},
			Action: pixPayoutAction,
		},
	},
}

func pixChargeAction(ctx *cli.Context) error {
	return doRequest(ctx, http.MethodPost, "/v1/pix/charges", map[string]interface{}{
		"amount": ctx.String("amount"),
		"customer": map[string]string{
			"name":            ctx.String("name"),
			"email":           ctx.String("email"),
			"document_number": ctx.String("document"),
		},
	})
}

func pixStatusAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return errors.New("charge id is missing")
	}
	return doRequest(ctx, http.MethodGet, "/v1/pix/charges/"+url.PathEscape(id), nil)
}

func pixPayoutAction(ctx *cli.Context) error {
	return doRequest(ctx, http.MethodPost, "/v1/pix/payouts", map[string]interface{}{
		"amount":  ctx.Uint64("amount"),
		"pix_key": ctx.String("pix-key"),
		"recipient": map[string]string{
			"name":            ctx.String("name"),
			"document_number": ctx.String("document"),
		},
	})
}
