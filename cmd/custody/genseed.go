package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/dogecustody/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var genseed = cli.Command{
	Name:   "genseed",
	Usage:  "generate a mnemonic seed",
	Action: genSeedAction,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "entropy",
			Usage: "entropy size in bits, between 128 and 256 and multiple of 32",
			Value: 256,
		},
	},
}

var encrypt = cli.Command{
	Name:  "encrypt",
	Usage: "encrypt a mnemonic or a master key into the secret file unlocked by custodiand",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "mnemonic",
			Usage: "the space separated mnemonic to encrypt",
		},
		&cli.StringFlag{
			Name:  "master-key",
			Usage: "the base58 extended private key to encrypt, alternative to mnemonic",
		},
		&cli.StringFlag{
			Name:     "password",
			Usage:    "the password used to encrypt the secret",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "path of the secret file",
			Value: filepath.Join(btcutil.AppDataDir("dogecustody", false), "secret"),
		},
	},
	Action: encryptAction,
}

func genSeedAction(ctx *cli.Context) error {
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{
		EntropySize: ctx.Int("entropy"),
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(strings.Join(mnemonic, " "))

	return nil
}

func encryptAction(ctx *cli.Context) error {
	secret, err := secretFromFlags(ctx)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if _, err := os.Stat(out); err == nil {
		return errors.New("secret file already exists, refusing to overwrite it")
	}

	cypherText, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  secret,
		Passphrase: ctx.String("password"),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), os.ModeDir|0700); err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(cypherText), 0600); err != nil {
		return err
	}

	fmt.Printf("secret written to %s\n", out)
	return nil
}

func secretFromFlags(ctx *cli.Context) (string, error) {
	mnemonic := strings.Join(strings.Fields(ctx.String("mnemonic")), " ")
	masterKey := strings.TrimSpace(ctx.String("master-key"))

	switch {
	case mnemonic != "" && masterKey != "":
		return "", errors.New("mnemonic and master-key are mutually exclusive")
	case mnemonic != "":
		if !wallet.IsMnemonicValid(mnemonic) {
			return "", wallet.ErrInvalidMnemonic
		}
		return mnemonic, nil
	case masterKey != "":
		if !wallet.IsMasterKey(masterKey) {
			return "", wallet.ErrInvalidMasterKey
		}
		return masterKey, nil
	default:
		return "", errors.New("either mnemonic or master-key must be given")
	}
}
