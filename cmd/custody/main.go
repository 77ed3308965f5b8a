package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/dogecustody/pkg/httputil"
	"github.com/urfave/cli/v2"
)

var (
	custodyDataDir = btcutil.AppDataDir("custody-operator", false)
	statePath      = filepath.Join(custodyDataDir, "state.json")

	requestTimeout = 2 * time.Minute
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "custody"
	app.Usage = "Command line interface for custodiand operators"
	app.Commands = append(
		app.Commands,
		&config,
		&genseed,
		&encrypt,
		&address,
		&balance,
		&transfer,
		&transfers,
		&complete,
		&rate,
		&pix,
		&webhook,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(custodyDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(custodyDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData, err := getState()
	if err != nil {
		currentData = map[string]string{}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string, 0)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func getServerURL() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	server, ok := state["server"]
	if !ok {
		return "", errors.New("set server with `config set server`")
	}
	return strings.TrimSuffix(server, "/"), nil
}

// doRequest sends a request to the daemon and prints out the JSON response
func doRequest(c *cli.Context, method, path string, body interface{}) error {
	server, err := getServerURL()
	if err != nil {
		return err
	}

	var payload string
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = string(buf)
	}

	client := httputil.NewClient(httputil.ClientOpts{
		Name:    "custodiand",
		Timeout: requestTimeout,
	})
	status, resp, err := client.NewHTTPRequest(
		c.Context, method, server+path, payload, nil,
	)
	if err != nil {
		return fmt.Errorf("unable to connect to daemon: %w", err)
	}

	printRespJSON(resp)

	switch {
	case status == http.StatusMultiStatus:
		return errors.New("operation partially completed, see above")
	case status >= http.StatusBadRequest:
		return fmt.Errorf("daemon replied with status %d", status)
	}
	return nil
}

func printRespJSON(resp string) {
	if len(resp) <= 0 {
		return
	}
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(resp), "", "\t"); err != nil {
		fmt.Println(resp)
		return
	}
	fmt.Println(out.String())
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[custody] %v\n", err)
	}
	os.Exit(1)
}
