package infra

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Networks map[string]composeNetwork `yaml:"networks"`
	Volumes  map[string]struct{}       `yaml:"volumes,omitempty"`
}

type composeService struct {
	Image       string                      `yaml:"image"`
	Environment map[string]string           `yaml:"environment,omitempty"`
	Ports       []string                    `yaml:"ports,omitempty"`
	Volumes     []string                    `yaml:"volumes,omitempty"`
	Healthcheck *composeHealthcheck         `yaml:"healthcheck,omitempty"`
	DependsOn   map[string]composeCondition `yaml:"depends_on,omitempty"`
	Networks    []string                    `yaml:"networks"`
}

type composeHealthcheck struct {
	Test     []string `yaml:"test"`
	Interval string   `yaml:"interval"`
	Timeout  string   `yaml:"timeout"`
	Retries  int      `yaml:"retries"`
}

type composeCondition struct {
	Condition string `yaml:"condition"`
}

type composeNetwork struct {
	Driver string `yaml:"driver"`
}

// Compose renders the stack as a docker compose file
func (s *Stack) Compose() ([]byte, error) {
	file := composeFile{
		Services: make(map[string]composeService, len(s.Services)),
		Networks: map[string]composeNetwork{s.Network: {Driver: "bridge"}},
		Volumes:  make(map[string]struct{}, len(s.Volumes)),
	}
	for _, v := range s.Volumes {
		file.Volumes[v] = struct{}{}
	}

	for _, svc := range s.Services {
		cs := composeService{
			Image:       svc.Image,
			Environment: svc.Environment,
			Networks:    []string{s.Network},
		}
		for _, p := range svc.Ports {
			cs.Ports = append(cs.Ports, fmt.Sprintf("%d:%d", p.Host, p.Container))
		}
		for name, path := range svc.Volumes {
			cs.Volumes = append(cs.Volumes, name+":"+path)
		}
		sort.Strings(cs.Volumes)
		if hc := svc.HealthCheck; hc != nil {
			cs.Healthcheck = &composeHealthcheck{
				Test:     hc.Test,
				Interval: hc.Interval.String(),
				Timeout:  hc.Timeout.String(),
				Retries:  hc.Retries,
			}
		}
		if len(svc.DependsOn) > 0 {
			cs.DependsOn = make(map[string]composeCondition, len(svc.DependsOn))
			for dep, cond := range svc.DependsOn {
				cs.DependsOn[dep] = composeCondition{Condition: cond}
			}
		}
		file.Services[svc.Name] = cs
	}

	out, err := yaml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode compose file: %w", err)
	}
	return out, nil
}
