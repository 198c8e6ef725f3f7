package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/jengzang/sentiment-dashboard/internal/infra"
)

func runInfra(args []string, out io.Writer, getenv func(string) string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: dashctl infra compose|outputs [flags]")
	}
	action, rest := args[0], args[1:]

	vars := infra.DefaultVariables()
	vars.DBPassword = getenv("DB_PASSWORD")
	if p, err := strconv.Atoi(getenv("POSTGRES_HOST_PORT")); err == nil {
		vars.PostgresHostPort = p
	}
	var showSensitive bool

	fs := pflag.NewFlagSet("infra", pflag.ContinueOnError)
	fs.StringVar(&vars.DBPassword, "db-password", vars.DBPassword, "database password (default $DB_PASSWORD)")
	fs.StringVar(&vars.DBUser, "db-user", vars.DBUser, "database user")
	fs.StringVar(&vars.DBName, "db-name", vars.DBName, "database name")
	fs.IntVar(&vars.PostgresHostPort, "postgres-port", vars.PostgresHostPort, "host port for PostgreSQL")
	fs.IntVar(&vars.RedisHostPort, "redis-port", vars.RedisHostPort, "host port for Redis")
	fs.IntVar(&vars.MLHostPort, "ml-port", vars.MLHostPort, "host port for the ML service")
	fs.StringVar(&vars.NetworkName, "network", vars.NetworkName, "container network name")
	fs.BoolVar(&showSensitive, "show-sensitive", false, "print sensitive outputs in clear text")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	stack, err := infra.Declare(vars)
	if err != nil {
		return err
	}

	switch action {
	case "compose":
		data, err := stack.Compose()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "outputs":
		for _, o := range stack.Outputs() {
			line := o.String()
			if showSensitive {
				line = o.Name + " = " + o.Value
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown infra action %q", action)
}
