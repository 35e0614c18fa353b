package appconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct constraints and cross references between agents,
// chart lists and ingest sources.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			problems := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	models := make(map[string]struct{}, len(c.Models))
	for _, m := range c.Models {
		if _, dup := models[m.Key]; dup {
			return fmt.Errorf("invalid configuration: duplicate model %q", m.Key)
		}
		models[m.Key] = struct{}{}
	}

	agents := make(map[string]struct{}, len(c.Agents))
	for _, a := range c.Agents {
		if _, dup := agents[a.Key]; dup {
			return fmt.Errorf("invalid configuration: duplicate agent %q", a.Key)
		}
		agents[a.Key] = struct{}{}
	}

	check := func(list string, keys []string) error {
		for _, k := range keys {
			if _, ok := agents[k]; !ok {
				return fmt.Errorf("invalid configuration: %s references unknown agent %q", list, k)
			}
		}
		return nil
	}
	if err := check("chartAgents", c.ChartAgents); err != nil {
		return err
	}
	if err := check("timeChartAgents", c.TimeChartAgents); err != nil {
		return err
	}
	for _, s := range c.Ingest.Sources {
		if err := check("ingest.sources", []string{s.Agent}); err != nil {
			return err
		}
	}

	benchmarks := make(map[string]struct{}, len(c.Benchmarks))
	for _, b := range c.Benchmarks {
		if _, dup := benchmarks[b.Key]; dup {
			return fmt.Errorf("invalid configuration: duplicate benchmark %q", b.Key)
		}
		benchmarks[b.Key] = struct{}{}
	}
	return nil
}
