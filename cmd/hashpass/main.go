package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/turmab/helpdesk/internal/auth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "hashpass: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var useBcrypt bool
	var verify string

	flagSet := pflag.NewFlagSet("hashpass", pflag.ContinueOnError)
	flagSet.BoolVar(&useBcrypt, "bcrypt", false, "gera hash bcrypt em vez de argon2id")
	flagSet.StringVar(&verify, "verify", "", "confere a senha contra o hash informado")
	flagSet.Usage = func() {
		fmt.Fprintln(os.Stderr, "uso: hashpass [--bcrypt] [--verify <hash>] <senha>")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return errors.New("senha obrigatória")
	}
	senha := flagSet.Arg(0)

	if verify != "" {
		ok, err := auth.Verify(senha, verify)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if !ok {
			return errors.New("senha não confere")
		}
		fmt.Println("ok")
		return nil
	}

	hash := auth.Hash
	if useBcrypt {
		hash = auth.HashBcrypt
	}
	out, err := hash(senha)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	fmt.Println(out)
	return nil
}
