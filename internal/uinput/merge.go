package uinput

import "github.com/interception-tools/core/internal/evdev"

// Merge combines a sequence of descriptions into one, later descriptions
// overriding earlier scalar fields of the same name; list- and map-typed
// fields merge element-wise. Precedence is "last wins."
func Merge(descs []*Description) *Description {
	out := &Description{Events: make(map[string]*EventDesc)}

	for _, d := range descs {
		if d == nil {
			continue
		}
		if d.Name != "" {
			out.Name = d.Name
		}
		if d.Location != "" {
			out.Location = d.Location
		}
		if d.ID != "" {
			out.ID = d.ID
		}
		if d.Product != 0 {
			out.Product = d.Product
		}
		if d.Vendor != 0 {
			out.Vendor = d.Vendor
		}
		if d.BusType != "" {
			out.BusType = d.BusType
		}
		if d.DriverVersion != 0 {
			out.DriverVersion = d.DriverVersion
		}

		for _, prop := range d.Properties {
			if _, ok := evdev.PropertyNumber(prop); ok {
				out.Properties = appendUnique(out.Properties, prop)
			}
		}

		for typeName, ev := range d.Events {
			mergeEvent(out, typeName, ev)
		}
	}

	return out
}

func mergeEvent(out *Description, typeName string, ev *EventDesc) {
	existing, ok := out.Events[typeName]
	if !ok {
		existing = &EventDesc{}
		out.Events[typeName] = existing
	}

	switch {
	case ev.Rep != nil:
		if existing.Rep == nil {
			existing.Rep = &RepDesc{}
		}
		if ev.Rep.Delay != 0 {
			existing.Rep.Delay = ev.Rep.Delay
		}
		if ev.Rep.Period != 0 {
			existing.Rep.Period = ev.Rep.Period
		}

	case ev.Abs != nil:
		if existing.Abs == nil {
			existing.Abs = make(map[string]*AbsDesc)
		}
		for axis, desc := range ev.Abs {
			existing.Abs[axis] = desc
		}

	default:
		for _, code := range ev.Codes {
			existing.Codes = appendUnique(existing.Codes, code)
		}
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
