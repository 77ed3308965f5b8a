package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "manage the webhooks notified of transfer status changes",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "subscribe an endpoint to a transfer topic",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "topic",
					Usage: "the topic, like transfer.completed, or * for all",
					Value: "*",
				},
				&cli.StringFlag{
					Name:     "endpoint",
					Usage:    "the url notified with a POST request",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "the secret the bearer token of every request is signed with",
				},
			},
			Action: addWebhookAction,
		},
		{
			Name:      "remove",
			Usage:     "remove a webhook",
			ArgsUsage: "<webhook_id>",
			Action:    removeWebhookAction,
		},
		{
			Name:  "list",
			Usage: "list the webhooks, optionally only those for a topic",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "topic",
					Usage: "list only the webhooks notified for this topic",
				},
			},
			Action: listWebhooksAction,
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	return doRequest(ctx, http.MethodPost, "/v1/webhooks", map[string]string{
		"topic":    ctx.String("topic"),
		"endpoint": ctx.String("endpoint"),
		"secret":   ctx.String("secret"),
	})
}

func removeWebhookAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return errors.New("webhook id is missing")
	}
	return doRequest(ctx, http.MethodDelete, "/v1/webhooks/"+url.PathEscape(id), nil)
}

func listWebhooksAction(ctx *cli.Context) error {
	path := "/v1/webhooks"
	if topic := ctx.String("topic"); topic != "" {
		path += "?topic=" + url.QueryEscape(topic)
	}
	return doRequest(ctx, http.MethodGet, path, nil)
}
