package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/jengzang/sentiment-dashboard/internal/auth"
)

func runToken(args []string, out io.Writer, getenv func(string) string) error {
	var subject, role, secret string
	var ttl time.Duration

	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	fs.StringVar(&subject, "subject", "", "token subject, e.g. an email address")
	fs.StringVar(&role, "role", auth.RoleAnalyst, "role: viewer, analyst or admin")
	fs.StringVar(&secret, "secret", getenv("JWT_SECRET"), "signing secret (default $JWT_SECRET)")
	fs.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if subject == "" {
		return fmt.Errorf("--subject is required")
	}
	switch role {
	case auth.RoleViewer, auth.RoleAnalyst, auth.RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	issuer, err := auth.NewIssuer(secret, ttl)
	if err != nil {
		return err
	}
	token, err := issuer.Issue(subject, role)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
