package infra

import (
	"fmt"
	"sort"
)

// Output is a value the stack exposes to its consumers
type Output struct {
	Name      string
	Value     string
	Sensitive bool
}

// String hides sensitive values
func (o Output) String() string {
	if o.Sensitive {
		return o.Name + " = <sensitive>"
	}
	return o.Name + " = " + o.Value
}

// Outputs returns the host-side connection strings, sorted by name
func (s *Stack) Outputs() []Output {
	out := []Output{
		{Name: "database_url", Value: databaseURL(s.vars, "localhost", s.vars.PostgresHostPort), Sensitive: true},
		{Name: "redis_url", Value: fmt.Sprintf("redis://localhost:%d/0", s.vars.RedisHostPort)},
		{Name: "ml_service_url", Value: fmt.Sprintf("http://localhost:%d", s.vars.MLHostPort)},
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Output returns one output by name
func (s *Stack) Output(name string) (Output, bool) {
	for _, o := range s.Outputs() {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}
