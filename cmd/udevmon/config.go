// Rule file parsing lives here, in the CLI layer, rather than in
// internal/supervisor: the supervisor's public contract takes an
// already-parsed []supervisor.Rule, never a directory or raw YAML text.
package main

import (
	"bytes"
	"errors"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/interception-tools/core/internal/ierrors"
	"github.com/interception-tools/core/internal/supervisor"
)

// ruleDoc mirrors a single YAML document of a rule file: JOB (required),
// an optional DEVICE predicate, and an optional SHELL override
// (original_source/udevmon.cpp's job constructor).
type ruleDoc struct {
	Job    yaml.Node `yaml:"JOB"`
	Shell  []string  `yaml:"SHELL"`
	Device *struct {
		Link          string              `yaml:"LINK"`
		Name          string              `yaml:"NAME"`
		Location      string              `yaml:"LOCATION"`
		ID            string              `yaml:"ID"`
		Product       string              `yaml:"PRODUCT"`
		Vendor        string              `yaml:"VENDOR"`
		BusType       string              `yaml:"BUSTYPE"`
		DriverVersion string              `yaml:"DRIVER_VERSION"`
		Properties    []string            `yaml:"PROPERTIES"`
		Events        map[string][]string `yaml:"EVENTS"`
	} `yaml:"DEVICE"`
}

// loadRules parses a multi-document YAML rule file (one match rule per
// "---"-separated document) into Rules, in file order — the order
// supervisor.FirstMatch relies on for "first match wins".
func loadRules(data []byte) ([]supervisor.Rule, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var rules []supervisor.Rule
	for {
		var doc ruleDoc
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, ierrors.New(ierrors.KindConfig, "parse rule document", err)
		}
		rule, err := doc.toRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (doc ruleDoc) toRule() (supervisor.Rule, error) {
	jobs, err := doc.jobTemplates()
	if err != nil {
		return supervisor.Rule{}, err
	}
	if len(jobs) == 0 {
		return supervisor.Rule{}, ierrors.New(ierrors.KindConfig, "rule missing JOB", nil)
	}

	rule := supervisor.Rule{Jobs: jobs, Shell: doc.Shell}

	if doc.Device == nil {
		rule.Bare = true
		return rule, nil
	}

	d := doc.Device
	var compileErr error
	rule.Link = compileOptional(d.Link, &compileErr)
	rule.Name = compileOptional(d.Name, &compileErr)
	rule.Location = compileOptional(d.Location, &compileErr)
	rule.ID = compileOptional(d.ID, &compileErr)
	rule.Product = compileOptional(d.Product, &compileErr)
	rule.Vendor = compileOptional(d.Vendor, &compileErr)
	rule.BusType = compileOptional(d.BusType, &compileErr)
	rule.DriverVersion = compileOptional(d.DriverVersion, &compileErr)
	if compileErr != nil {
		return supervisor.Rule{}, ierrors.New(ierrors.KindConfig, "compile DEVICE pattern", compileErr)
	}

	rule.RequiredProperties = d.Properties
	rule.RequiredEvents = d.Events

	return rule, nil
}

// jobTemplates accepts JOB as either a scalar string or a sequence of
// strings (original_source/udevmon.cpp's sub-command list).
func (doc ruleDoc) jobTemplates() ([]string, error) {
	switch doc.Job.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		var s string
		if err := doc.Job.Decode(&s); err != nil {
			return nil, ierrors.New(ierrors.KindConfig, "decode JOB", err)
		}
		return []string{s}, nil
	case yaml.SequenceNode:
		var list []string
		if err := doc.Job.Decode(&list); err != nil {
			return nil, ierrors.New(ierrors.KindConfig, "decode JOB list", err)
		}
		return list, nil
	default:
		return nil, ierrors.New(ierrors.KindConfig, "JOB must be a string or list of strings", nil)
	}
}

func compileOptional(pattern string, firstErr *error) *regexp.Regexp {
	if pattern == "" || *firstErr != nil {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		*firstErr = err
		return nil
	}
	return re
}
