// Package uinput implements the replayer: merging declarative device
// descriptions into a virtual input device, writing events into it,
// and describing an existing device back into the same tree shape.
package uinput

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/interception-tools/core/internal/evdev"
)

// AbsDesc is one EV_ABS axis entry of a device description. Max is a
// pointer, like Fuzz/Flat/Resolution, so an explicit "MAX: 0" can be
// told apart from an omitted MAX — the replayer's default-value rule
// depends on that distinction.
type AbsDesc struct {
	Value      *int32 `yaml:"VALUE,omitempty"`
	Min        int32  `yaml:"MIN"`
	Max        *int32 `yaml:"MAX,omitempty"`
	Fuzz       *int32 `yaml:"FUZZ,omitempty"`
	Flat       *int32 `yaml:"FLAT,omitempty"`
	Resolution *int32 `yaml:"RESOLUTION,omitempty"`
}

// RepDesc is the EV_REP sub-map: REP_DELAY and REP_PERIOD.
type RepDesc struct {
	Delay  uint32 `yaml:"REP_DELAY"`
	Period uint32 `yaml:"REP_PERIOD"`
}

// EventDesc is one entry of the EVENTS map, keyed by event type name
// (or number if unknown). Exactly one of Codes, Rep or Abs is
// populated: a bare sequence of code names, a {REP_DELAY, REP_PERIOD}
// map, or an axis-name-keyed map, respectively. MarshalYAML/UnmarshalYAML
// produce and parse exactly that shape instead of wrapping it in a
// Go-struct object.
type EventDesc struct {
	Codes []string
	Rep   *RepDesc
	Abs   map[string]*AbsDesc
}

func (e EventDesc) MarshalYAML() (interface{}, error) {
	switch {
	case e.Rep != nil:
		return e.Rep, nil
	case e.Abs != nil:
		return e.Abs, nil
	default:
		return e.Codes, nil
	}
}

func (e *EventDesc) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		return value.Decode(&e.Codes)
	case yaml.MappingNode:
		if hasRepKeys(value) {
			var rep RepDesc
			if err := value.Decode(&rep); err != nil {
				return err
			}
			e.Rep = &rep
			return nil
		}
		var abs map[string]*AbsDesc
		if err := value.Decode(&abs); err != nil {
			return err
		}
		e.Abs = abs
		return nil
	default:
		return fmt.Errorf("EVENTS entry must be a sequence or mapping, got %v", value.Kind)
	}
}

func hasRepKeys(value *yaml.Node) bool {
	for i := 0; i+1 < len(value.Content); i += 2 {
		switch value.Content[i].Value {
		case "REP_DELAY", "REP_PERIOD":
			return true
		}
	}
	return false
}

// Description is the tree-structured device description: NAME,
// LOCATION, ID, PRODUCT, VENDOR, BUSTYPE, DRIVER_VERSION, PROPERTIES
// and EVENTS.
type Description struct {
	Name          string                `yaml:"NAME,omitempty"`
	Location      string                `yaml:"LOCATION,omitempty"`
	ID            string                `yaml:"ID,omitempty"`
	Product       uint16                `yaml:"PRODUCT,omitempty"`
	Vendor        uint16                `yaml:"VENDOR,omitempty"`
	BusType       string                `yaml:"BUSTYPE,omitempty"`
	DriverVersion int                   `yaml:"DRIVER_VERSION,omitempty"`
	Properties    []string              `yaml:"PROPERTIES,omitempty"`
	Events        map[string]*EventDesc `yaml:"EVENTS,omitempty"`
}

// Describe produces a Description from an opened device, reporting only
// codes and axes the device actually supports.
func Describe(dev *evdev.Device) *Description {
	d := &Description{
		Name:          dev.Name,
		Location:      dev.Phys,
		ID:            dev.Uniq,
		Product:       dev.Product,
		Vendor:        dev.Vendor,
		BusType:       evdev.BusName(dev.BusType),
		DriverVersion: dev.EvdevVersion,
		Events:        make(map[string]*EventDesc),
	}

	for _, prop := range dev.Properties {
		d.Properties = append(d.Properties, evdev.PropertyName(prop))
	}

	for _, evType := range dev.EventTypes {
		name := evdev.EventTypeName(evType)

		switch evType {
		case evdev.EV_REP:
			d.Events[name] = &EventDesc{Rep: &RepDesc{Delay: dev.Rep.Delay, Period: dev.Rep.Period}}

		case evdev.EV_ABS:
			axes := make(map[string]*AbsDesc)
			for _, code := range dev.Codes[evdev.EV_ABS] {
				axis, ok := dev.Abs[code]
				if !ok {
					continue
				}
				axisName := evdev.EventCodeName(evdev.EV_ABS, code)
				value := axis.Value
				max := axis.Maximum
				desc := &AbsDesc{Value: &value, Min: axis.Minimum, Max: &max}
				if axis.Fuzz != 0 {
					v := axis.Fuzz
					desc.Fuzz = &v
				}
				if axis.Flat != 0 {
					v := axis.Flat
					desc.Flat = &v
				}
				if axis.Resolution != 0 {
					v := axis.Resolution
					desc.Resolution = &v
				}
				axes[axisName] = desc
			}
			if len(axes) > 0 {
				d.Events[name] = &EventDesc{Abs: axes}
			}

		default:
			codes := dev.Codes[evType]
			if len(codes) == 0 {
				continue
			}
			var names []string
			for _, code := range codes {
				names = append(names, evdev.EventCodeName(evType, code))
			}
			d.Events[name] = &EventDesc{Codes: names}
		}
	}

	return d
}
