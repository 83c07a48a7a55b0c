// Package scenario replays scripted sessions of the permission screen against
// the simulated platform.
package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/permissiondemo/pkg/platform"
	"github.com/go-drift/permissiondemo/pkg/rationale"
)

// Action is a single user or system event in a scenario.
type Action string

const (
	// ActionRequestOne taps the "request one permission" button.
	ActionRequestOne Action = "request_one"
	// ActionRequestAll taps the "request multiple permissions" button.
	ActionRequestAll Action = "request_all"
	// ActionConfirm taps the button of the top dialog.
	ActionConfirm Action = "confirm"
	// ActionDismiss closes the top dialog.
	ActionDismiss Action = "dismiss"
	// ActionSettingsGrant grants Permission on the app settings page.
	ActionSettingsGrant Action = "settings_grant"
	// ActionPause sends the app to the background.
	ActionPause Action = "pause"
	// ActionResume brings the app back to the foreground.
	ActionResume Action = "resume"
)

// ErrInvalidScenario is returned for malformed scenario files.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a scripted session.
type Scenario struct {
	Name string `yaml:"name"`
	// DefaultAnswer answers prompts with no scripted answer left. Empty means deny.
	DefaultAnswer platform.Answer `yaml:"default_answer,omitempty"`
	// Answers holds the scripted answers per permission, consumed in order.
	Answers map[string][]platform.Answer `yaml:"answers,omitempty"`
	// Initial sets permission statuses before the first step.
	Initial map[string]platform.PermissionStatus `yaml:"initial,omitempty"`
	Steps   []Step                               `yaml:"steps"`
}

// Step is one action, optionally followed by a check of the visible queue.
type Step struct {
	Action     Action `yaml:"action"`
	Permission string `yaml:"permission,omitempty"`
	// Expect lists the visible queue after the step, in display order.
	// Nil skips the check; an empty list expects no dialogs.
	Expect []string `yaml:"expect,omitempty"`
	// ExpectSet marks Expect as present even when empty.
	ExpectSet bool `yaml:"-"`
}

// UnmarshalYAML records whether the expect key was present.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	type plain Step
	if err := node.Decode((*plain)(s)); err != nil {
		return err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "expect" {
			s.ExpectSet = true
		}
	}
	return nil
}

//go:embed default.yaml
var defaultScenario []byte

// Default returns the built-in walkthrough.
func Default() *Scenario {
	s, err := Parse(defaultScenario)
	if err != nil {
		panic(fmt.Sprintf("scenario: built-in scenario: %v", err))
	}
	return s
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario. Permission names are normalized to
// their manifest identifiers.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) normalize() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	if s.DefaultAnswer != "" {
		if _, err := platform.ParseAnswer(string(s.DefaultAnswer)); err != nil {
			return fmt.Errorf("%w: default_answer: %v", ErrInvalidScenario, err)
		}
	}

	answers := make(map[string][]platform.Answer, len(s.Answers))
	for name, list := range s.Answers {
		id, err := permissionID(name)
		if err != nil {
			return err
		}
		for _, a := range list {
			if _, err := platform.ParseAnswer(string(a)); err != nil {
				return fmt.Errorf("%w: answers.%s: %v", ErrInvalidScenario, name, err)
			}
		}
		answers[id] = append(answers[id], list...)
	}
	s.Answers = answers

	initial := make(map[string]platform.PermissionStatus, len(s.Initial))
	for name, status := range s.Initial {
		id, err := permissionID(name)
		if err != nil {
			return err
		}
		switch status {
		case platform.PermissionGranted, platform.PermissionDenied,
			platform.PermissionPermanentlyDenied, platform.PermissionRestricted,
			platform.PermissionNotDetermined:
		default:
			return fmt.Errorf("%w: initial.%s: unknown status %q", ErrInvalidScenario, name, status)
		}
		initial[id] = status
	}
	s.Initial = initial

	for i := range s.Steps {
		step := &s.Steps[i]
		switch step.Action {
		case ActionRequestOne, ActionRequestAll, ActionConfirm, ActionDismiss, ActionPause, ActionResume:
		case ActionSettingsGrant:
			if step.Permission == "" {
				return fmt.Errorf("%w: step %d: settings_grant needs a permission", ErrInvalidScenario, i+1)
			}
		default:
			return fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidScenario, i+1, step.Action)
		}
		if step.Permission != "" {
			id, err := permissionID(step.Permission)
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			step.Permission = id
		}
		for j, name := range step.Expect {
			id, err := permissionID(name)
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			step.Expect[j] = id
		}
	}
	return nil
}

func permissionID(name string) (string, error) {
	kind, ok := rationale.KindOf(rationale.PermissionID(strings.TrimSpace(name)))
	if !ok {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidScenario, rationale.ErrUnrecognizedPermission, name)
	}
	return string(kind.Permission()), nil
}

// Responder builds the scripted responder for s.
func (s *Scenario) Responder() *platform.ScriptedResponder {
	r := platform.NewScriptedResponder(s.DefaultAnswer)
	for id, answers := range s.Answers {
		r.Push(id, answers...)
	}
	return r
}
