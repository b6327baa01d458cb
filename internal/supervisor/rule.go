package supervisor

import (
	"regexp"
	"strconv"

	"github.com/interception-tools/core/internal/uinput"
)

// DeviceInfo is everything a Rule predicate can examine about a device:
// its devnode, the udev symlinks pointing at it, and its description
// tree.
type DeviceInfo struct {
	Devnode string
	Links   []string
	Desc    *uinput.Description
}

// Rule is a match predicate over a device plus the command(s) to run on
// match. JOB is normally a single shell template; udevmon.cpp's job
// constructor also accepts a list of sub-commands launched with a small
// staggered delay, each through its own shell, which Jobs preserves.
type Rule struct {
	// Jobs holds one or more shell command templates. Each is expanded
	// with $DEVNODE in its environment and launched in its own process
	// group. A single-entry rule is the common case; multiple entries
	// are staggered (jobLaunchStagger * index) on match.
	Jobs []string

	// Shell overrides the ["sh", "-c"] template used to invoke each Job
	// entry. Empty means the default.
	Shell []string

	// Bare is true when the rule carries no DEVICE predicate: it runs
	// once at supervisor start rather than being matched against
	// devices.
	Bare bool

	Link          *regexp.Regexp
	Name          *regexp.Regexp
	Location      *regexp.Regexp
	ID            *regexp.Regexp
	Product       *regexp.Regexp
	Vendor        *regexp.Regexp
	BusType       *regexp.Regexp
	DriverVersion *regexp.Regexp

	RequiredProperties []string
	// RequiredEvents maps an event type name to the codes required under
	// it. An empty (non-nil) slice means the type itself must be
	// supported, with no specific code required.
	RequiredEvents map[string][]string
}

// Match reports whether info satisfies every predicate configured on
// the rule. Unspecified fields default to "match anything".
func (r Rule) Match(info DeviceInfo) bool {
	if r.Bare || info.Desc == nil {
		return false
	}
	if r.Link != nil && !matchesAny(r.Link, info.Links) {
		return false
	}
	desc := info.Desc
	if r.Name != nil && !r.Name.MatchString(desc.Name) {
		return false
	}
	if r.Location != nil && !r.Location.MatchString(desc.Location) {
		return false
	}
	if r.ID != nil && !r.ID.MatchString(desc.ID) {
		return false
	}
	if r.Product != nil && !r.Product.MatchString(strconv.Itoa(int(desc.Product))) {
		return false
	}
	if r.Vendor != nil && !r.Vendor.MatchString(strconv.Itoa(int(desc.Vendor))) {
		return false
	}
	if r.BusType != nil && !r.BusType.MatchString(desc.BusType) {
		return false
	}
	if r.DriverVersion != nil && !r.DriverVersion.MatchString(strconv.Itoa(desc.DriverVersion)) {
		return false
	}

	for _, prop := range r.RequiredProperties {
		if !hasString(desc.Properties, prop) {
			return false
		}
	}

	for evType, codes := range r.RequiredEvents {
		ev, ok := desc.Events[evType]
		if !ok {
			return false
		}
		if len(codes) == 0 {
			continue
		}
		if !anyCodeSupported(ev, codes) {
			return false
		}
	}

	return true
}

func matchesAny(re *regexp.Regexp, links []string) bool {
	for _, l := range links {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}

func hasString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func anyCodeSupported(ev *uinput.EventDesc, required []string) bool {
	for _, code := range required {
		if hasString(ev.Codes, code) {
			return true
		}
		if ev.Abs != nil {
			if _, ok := ev.Abs[code]; ok {
				return true
			}
		}
	}
	return false
}

// FirstMatch returns the first rule (in order) whose predicate matches
// info; rules are evaluated in file order and the first match wins. ok
// is false if no device-predicated rule matches.
func FirstMatch(rules []Rule, info DeviceInfo) (Rule, bool) {
	for _, r := range rules {
		if r.Bare {
			continue
		}
		if r.Match(info) {
			return r, true
		}
	}
	return Rule{}, false
}
