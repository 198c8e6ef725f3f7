package infra

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func vars() Variables {
	v := DefaultVariables()
	v.DBPassword = "hunter2"
	return v
}

func TestValidate(t *testing.T) {
	if err := DefaultVariables().Validate(); !errors.Is(err, ErrMissingVariable) {
		t.Errorf("missing password err = %v", err)
	}

	v := vars()
	v.RedisHostPort = 70000
	if err := v.Validate(); !errors.Is(err, ErrInvalidVariable) {
		t.Errorf("bad port err = %v", err)
	}

	v = vars()
	v.MLHostPort = v.PostgresHostPort
	if err := v.Validate(); !errors.Is(err, ErrInvalidVariable) {
		t.Errorf("duplicate port err = %v", err)
	}
}

func TestDeclare(t *testing.T) {
	s, err := Declare(vars())
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if len(s.Services) != 3 {
		t.Fatalf("services = %d, want 3", len(s.Services))
	}

	pg, ok := s.Service(ServicePostgres)
	if !ok {
		t.Fatal("postgres not declared")
	}
	if pg.Ports[0].Container != 5432 {
		t.Errorf("postgres port = %+v", pg.Ports)
	}
	hc := pg.HealthCheck
	if hc == nil || hc.Interval != 10*time.Second || hc.Timeout != 3*time.Second || hc.Retries != 10 {
		t.Errorf("healthcheck = %+v", hc)
	}
	if !strings.Contains(strings.Join(hc.Test, " "), "pg_isready") {
		t.Errorf("healthcheck test = %v", hc.Test)
	}
	if _, ok := pg.Volumes["postgres_data"]; !ok {
		t.Error("postgres has no persistent volume")
	}

	redis, _ := s.Service(ServiceRedis)
	if len(redis.Volumes) != 0 || redis.Ports[0].Container != 6379 {
		t.Errorf("redis = %+v", redis)
	}
	ml, _ := s.Service(ServiceML)
	if ml.Ports[0].Container != 5001 || ml.DependsOn[ServicePostgres] != "service_healthy" {
		t.Errorf("ml = %+v", ml)
	}
}

func TestHostPorts(t *testing.T) {
	v := vars()
	v.PostgresHostPort = 15432
	s, err := Declare(v)
	if err != nil {
		t.Fatal(err)
	}
	pg, _ := s.Service(ServicePostgres)
	if pg.Ports[0] != (Port{Host: 15432, Container: 5432}) {
		t.Errorf("port = %+v", pg.Ports[0])
	}
	db, _ := s.Output("database_url")
	if !strings.Contains(db.Value, "localhost:15432") {
		t.Errorf("database_url = %s", db.Value)
	}
}

func TestDatabaseURLEscapesPassword(t *testing.T) {
	v := vars()
	v.DBPassword = "p@ss/w:rd#1?x"
	s, err := Declare(v)
	if err != nil {
		t.Fatal(err)
	}

	db, _ := s.Output("database_url")
	ml, _ := s.Service(ServiceML)
	for name, dsn := range map[string]string{"output": db.Value, "ml env": ml.Environment["DATABASE_URL"]} {
		u, err := url.Parse(dsn)
		if err != nil {
			t.Fatalf("%s: url.Parse(%q): %v", name, dsn, err)
		}
		pw, _ := u.User.Password()
		if pw != v.DBPassword || u.User.Username() != v.DBUser {
			t.Errorf("%s: user info = %q/%q", name, u.User.Username(), pw)
		}
		if u.Path != "/"+v.DBName || u.Query().Get("sslmode") != "disable" {
			t.Errorf("%s: path = %q, query = %q", name, u.Path, u.RawQuery)
		}
	}
	if u, _ := url.Parse(db.Value); u.Host != "localhost:5432" {
		t.Errorf("output host = %q", u.Host)
	}
	if u, _ := url.Parse(ml.Environment["DATABASE_URL"]); u.Host != "postgres:5432" {
		t.Errorf("ml env host = %q", u.Host)
	}
}

func TestOutputs(t *testing.T) {
	s, _ := Declare(vars())
	outs := s.Outputs()
	if len(outs) != 3 {
		t.Fatalf("outputs = %+v", outs)
	}

	db, _ := s.Output("database_url")
	if !db.Sensitive || strings.Contains(db.String(), "hunter2") {
		t.Errorf("database_url leaks: %s", db)
	}
	redis, _ := s.Output("redis_url")
	if redis.String() != "redis_url = redis://localhost:6379/0" {
		t.Errorf("redis_url = %s", redis)
	}
	ml, _ := s.Output("ml_service_url")
	if ml.Value != "http://localhost:5001" {
		t.Errorf("ml_service_url = %s", ml.Value)
	}
}

func TestCompose(t *testing.T) {
	s, _ := Declare(vars())
	data, err := s.Compose()
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	var doc struct {
		Services map[string]struct {
			Ports       []string `yaml:"ports"`
			Networks    []string `yaml:"networks"`
			Healthcheck struct {
				Interval string `yaml:"interval"`
				Retries  int    `yaml:"retries"`
			} `yaml:"healthcheck"`
			DependsOn map[string]struct {
				Condition string `yaml:"condition"`
			} `yaml:"depends_on"`
		} `yaml:"services"`
		Networks map[string]any `yaml:"networks"`
		Volumes  map[string]any `yaml:"volumes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("compose is not valid YAML: %v\n%s", err, data)
	}

	if len(doc.Services) != 3 {
		t.Errorf("services = %d", len(doc.Services))
	}
	pg := doc.Services["postgres"]
	if pg.Healthcheck.Interval != "10s" || pg.Healthcheck.Retries != 10 || pg.Ports[0] != "5432:5432" {
		t.Errorf("postgres = %+v", pg)
	}
	if doc.Services["ml-service"].DependsOn["postgres"].Condition != "service_healthy" {
		t.Error("ml-service does not wait for postgres")
	}
	for name, svc := range doc.Services {
		if len(svc.Networks) != 1 || svc.Networks[0] != "sentiment-network" {
			t.Errorf("%s networks = %v", name, svc.Networks)
		}
	}
	if _, ok := doc.Volumes["postgres_data"]; !ok {
		t.Error("volume not declared")
	}
}
