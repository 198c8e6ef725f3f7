// Package infra declares the containers the dashboard runs against: a
// PostgreSQL database, a Redis cache and the ML inference service, joined by
// one network.
package infra

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrMissingVariable is returned when a required variable has no value
var ErrMissingVariable = errors.New("missing required variable")

// ErrInvalidVariable is returned for out-of-range variables
var ErrInvalidVariable = errors.New("invalid variable")

// Fixed container ports
const (
	PostgresPort = 5432
	RedisPort    = 6379
	MLPort       = 5001
)

// Service names
const (
	ServicePostgres = "postgres"
	ServiceRedis    = "redis"
	ServiceML       = "ml-service"
)

// Variables are the externally supplied inputs of the stack
type Variables struct {
	DBPassword       string // required, sensitive
	DBUser           string
	DBName           string
	PostgresHostPort int
	RedisHostPort    int
	MLHostPort       int
	NetworkName      string
	PostgresImage    string
	RedisImage       string
	MLImage          string
}

// DefaultVariables returns every default. DBPassword has none.
func DefaultVariables() Variables {
	return Variables{
		DBUser:           "sentiment_user",
		DBName:           "sentiment_db",
		PostgresHostPort: PostgresPort,
		RedisHostPort:    RedisPort,
		MLHostPort:       MLPort,
		NetworkName:      "sentiment-network",
		PostgresImage:    "postgres:15-alpine",
		RedisImage:       "redis:7-alpine",
		MLImage:          "sentiment-ml:latest",
	}
}

// Validate checks the password is set and every host port is usable
func (v Variables) Validate() error {
	if v.DBPassword == "" {
		return fmt.Errorf("%w: db_password", ErrMissingVariable)
	}
	ports := map[string]int{
		"postgres_host_port": v.PostgresHostPort,
		"redis_host_port":    v.RedisHostPort,
		"ml_host_port":       v.MLHostPort,
	}
	seen := make(map[int]string, len(ports))
	for _, name := range []string{"postgres_host_port", "redis_host_port", "ml_host_port"} {
		p := ports[name]
		if p < 1 || p > 65535 {
			return fmt.Errorf("%w: %s=%d out of range", ErrInvalidVariable, name, p)
		}
		if other, dup := seen[p]; dup {
			return fmt.Errorf("%w: %s and %s both use %d", ErrInvalidVariable, other, name, p)
		}
		seen[p] = name
	}
	if strings.TrimSpace(v.NetworkName) == "" {
		return fmt.Errorf("%w: network_name", ErrMissingVariable)
	}
	return nil
}

// Port maps a host port to a container port
type Port struct {
	Host      int
	Container int
}

// HealthCheck polls a container until it reports ready
type HealthCheck struct {
	Test     []string
	Interval time.Duration
	Timeout  time.Duration
	Retries  int
}

// Service is one declared container
type Service struct {
	Name        string
	Image       string
	Environment map[string]string
	Ports       []Port
	Volumes     map[string]string // volume name -> mount path
	HealthCheck *HealthCheck
	DependsOn   map[string]string // service -> condition
}

// Stack is the full declaration
type Stack struct {
	Network  string
	Volumes  []string
	Services []Service
	vars     Variables
}

// Declare builds the stack for vars
func Declare(vars Variables) (*Stack, error) {
	if err := vars.Validate(); err != nil {
		return nil, err
	}

	postgres := Service{
		Name:  ServicePostgres,
		Image: vars.PostgresImage,
		Environment: map[string]string{
			"POSTGRES_USER":     vars.DBUser,
			"POSTGRES_PASSWORD": vars.DBPassword,
			"POSTGRES_DB":       vars.DBName,
		},
		Ports:   []Port{{Host: vars.PostgresHostPort, Container: PostgresPort}},
		Volumes: map[string]string{"postgres_data": "/var/lib/postgresql/data"},
		HealthCheck: &HealthCheck{
			Test:     []string{"CMD-SHELL", fmt.Sprintf("pg_isready -U %s -d %s", vars.DBUser, vars.DBName)},
			Interval: 10 * time.Second,
			Timeout:  3 * time.Second,
			Retries:  10,
		},
	}
	redis := Service{
		Name:  ServiceRedis,
		Image: vars.RedisImage,
		Ports: []Port{{Host: vars.RedisHostPort, Container: RedisPort}},
	}
	ml := Service{
		Name:  ServiceML,
		Image: vars.MLImage,
		Environment: map[string]string{
			"DATABASE_URL": databaseURL(vars, ServicePostgres, PostgresPort),
			"REDIS_URL":    fmt.Sprintf("redis://%s:%d/0", ServiceRedis, RedisPort),
			"PORT":         fmt.Sprint(MLPort),
		},
		Ports:     []Port{{Host: vars.MLHostPort, Container: MLPort}},
		DependsOn: map[string]string{ServicePostgres: "service_healthy"},
	}

	return &Stack{
		Network:  vars.NetworkName,
		Volumes:  []string{"postgres_data"},
		Services: []Service{postgres, redis, ml},
		vars:     vars,
	}, nil
}

// Service returns the named service
func (s *Stack) Service(name string) (Service, bool) {
	for _, svc := range s.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return Service{}, false
}

// databaseURL builds the postgres DSN with user info escaped
func databaseURL(v Variables, host string, port int) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(v.DBUser, v.DBPassword),
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + v.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
