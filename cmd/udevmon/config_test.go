package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRulesParsesMultiDocumentFile(t *testing.T) {
	data := []byte(`
JOB: "intercept -g $DEVNODE | uinput -d $DEVNODE"
DEVICE:
  NAME: "keyboard.*"
  EVENTS:
    EV_KEY: [KEY_A, KEY_B]
---
JOB:
  - "first-command"
  - "second-command"
SHELL: ["bash", "-c"]
---
JOB: "reload-udev-rules"
`)

	rules, err := loadRules(data)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	require.Equal(t, []string{"intercept -g $DEVNODE | uinput -d $DEVNODE"}, rules[0].Jobs)
	require.False(t, rules[0].Bare)
	require.NotNil(t, rules[0].Name)
	require.True(t, rules[0].Name.MatchString("keyboard-event0"))
	require.Equal(t, []string{"KEY_A", "KEY_B"}, rules[0].RequiredEvents["EV_KEY"])

	require.Equal(t, []string{"first-command", "second-command"}, rules[1].Jobs)
	require.Equal(t, []string{"bash", "-c"}, rules[1].Shell)
	require.True(t, rules[1].Bare)

	require.Equal(t, []string{"reload-udev-rules"}, rules[2].Jobs)
	require.True(t, rules[2].Bare)
}

func TestLoadRulesRejectsMissingJob(t *testing.T) {
	data := []byte(`
DEVICE:
  NAME: "keyboard.*"
`)
	_, err := loadRules(data)
	require.Error(t, err)
}

func TestLoadRulesRejectsBadRegex(t *testing.T) {
	data := []byte(`
JOB: "echo hi"
DEVICE:
  NAME: "("
`)
	_, err := loadRules(data)
	require.Error(t, err)
}
