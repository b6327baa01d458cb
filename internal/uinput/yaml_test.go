package uinput_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/interception-tools/core/internal/uinput"
)

func TestDescriptionYAMLRoundTrip(t *testing.T) {
	value := int32(512)
	max := int32(1023)
	source := &uinput.Description{
		Name:    "yaml-roundtrip",
		BusType: "BUS_USB",
		Events: map[string]*uinput.EventDesc{
			"EV_KEY": {Codes: []string{"KEY_A", "KEY_B"}},
			"EV_REP": {Rep: &uinput.RepDesc{Delay: 250, Period: 33}},
			"EV_ABS": {Abs: map[string]*uinput.AbsDesc{
				"ABS_X": {Value: &value, Min: 0, Max: &max},
			}},
		},
	}

	out, err := yaml.Marshal(source)
	require.NoError(t, err)
	require.Contains(t, string(out), "NAME: yaml-roundtrip")
	require.Contains(t, string(out), "KEY_A")
	require.Contains(t, string(out), "REP_DELAY: 250")
	require.Contains(t, string(out), "ABS_X")

	var got uinput.Description
	require.NoError(t, yaml.Unmarshal(out, &got))

	require.Equal(t, source.Name, got.Name)
	require.ElementsMatch(t, source.Events["EV_KEY"].Codes, got.Events["EV_KEY"].Codes)
	require.Equal(t, source.Events["EV_REP"].Rep.Delay, got.Events["EV_REP"].Rep.Delay)
	require.NotNil(t, got.Events["EV_ABS"].Abs["ABS_X"])
	require.Equal(t, int32(1023), *got.Events["EV_ABS"].Abs["ABS_X"].Max)
	require.Equal(t, int32(512), *got.Events["EV_ABS"].Abs["ABS_X"].Value)
}
