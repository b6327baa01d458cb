package uinput_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/interception-tools/core/internal/uinput"
)

func TestMergeLastWins(t *testing.T) {
	first := &uinput.Description{
		Name:    "first",
		BusType: "BUS_USB",
		Events: map[string]*uinput.EventDesc{
			"EV_KEY": {Codes: []string{"KEY_A", "KEY_B"}},
		},
	}
	second := &uinput.Description{
		Name: "second",
		Events: map[string]*uinput.EventDesc{
			"EV_KEY": {Codes: []string{"KEY_B", "KEY_C"}},
		},
	}

	merged := uinput.Merge([]*uinput.Description{first, second})

	require.Equal(t, "second", merged.Name)   // later description overrides NAME
	require.Equal(t, "BUS_USB", merged.BusType) // unset by second, kept from first
	require.ElementsMatch(t, []string{"KEY_A", "KEY_B", "KEY_C"}, merged.Events["EV_KEY"].Codes)
}

func TestMergePropertiesUnionIgnoresUnrecognized(t *testing.T) {
	first := &uinput.Description{Properties: []string{"INPUT_PROP_POINTER"}}
	second := &uinput.Description{Properties: []string{"INPUT_PROP_DIRECT", "INPUT_PROP_NONSENSE"}}

	merged := uinput.Merge([]*uinput.Description{first, second})

	require.ElementsMatch(t, []string{"INPUT_PROP_POINTER", "INPUT_PROP_DIRECT"}, merged.Properties)
}

func TestMergeAbsAxisLastWins(t *testing.T) {
	v1 := int32(10)
	v2 := int32(20)
	max1 := int32(100)
	max2 := int32(255)
	first := &uinput.Description{
		Events: map[string]*uinput.EventDesc{
			"EV_ABS": {Abs: map[string]*uinput.AbsDesc{"ABS_X": {Value: &v1, Min: 0, Max: &max1}}},
		},
	}
	second := &uinput.Description{
		Events: map[string]*uinput.EventDesc{
			"EV_ABS": {Abs: map[string]*uinput.AbsDesc{"ABS_X": {Value: &v2, Min: 0, Max: &max2}}},
		},
	}

	merged := uinput.Merge([]*uinput.Description{first, second})

	axis := merged.Events["EV_ABS"].Abs["ABS_X"]
	require.Equal(t, int32(255), *axis.Max)
	require.Equal(t, int32(20), *axis.Value)
}
