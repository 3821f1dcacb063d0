// registry-token signs a bearer token for a principal using the configured
// gateway secret. It is an operator convenience for development and smoke
// testing; production tokens come from the identity substrate.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/careledger/registry/internal/gateway"
	"github.com/careledger/registry/pkg/config"
	"github.com/careledger/registry/pkg/types"
)

func main() {
	principal := flag.String("principal", "", "principal to embed as the token subject")
	validity := flag.Duration("validity", time.Hour, "token lifetime")
	flag.Parse()

	if *principal == "" {
		fmt.Fprintln(os.Stderr, "usage: registry-token -principal <identity> [-validity 1h]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	tv := gateway.NewTokenValidator(cfg.JWT.SecretKey, cfg.JWT.Issuer)
	token, err := tv.IssueToken(types.Principal(*principal), *validity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
