// Command uinput redirects device input events from stdin to a virtual
// device (component D, the replayer), the Go rendering of
// original_source/uinput.cpp.
package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/interception-tools/core/internal/evdev"
	"github.com/interception-tools/core/internal/ierrors"
	"github.com/interception-tools/core/internal/ievent"
	"github.com/interception-tools/core/internal/uinput"
)

type stringList []string

func (s *stringList) String() string     { return "" }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

func usage() {
	fmt.Fprintf(os.Stderr,
		"uinput - redirect device input events from stdin to virtual device\n\n"+
			"usage: %s [-h | [-p] [-c device.yaml]... [-d devnode]...]\n\n"+
			"options:\n"+
			"    -h                show this message and exit\n"+
			"    -p                show resulting YAML device description merge and exit\n"+
			"    -c device.yaml    merge YAML device description to resulting virtual\n"+
			"                      device (repeatable)\n"+
			"    -d devnode        merge reference device description to resulting virtual\n"+
			"                      device (repeatable)\n",
		os.Args[0])
}

func main() {
	var configs, refDevices stringList
	print := false

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h":
			usage()
			return
		case "-p":
			print = true
		case "-c":
			i++
			if i >= len(args) {
				usage()
				os.Exit(1)
			}
			configs.Set(args[i])
		case "-d":
			i++
			if i >= len(args) {
				usage()
				os.Exit(1)
			}
			refDevices.Set(args[i])
		default:
			usage()
			os.Exit(1)
		}
	}

	var descs []*uinput.Description
	for _, path := range configs {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		var d uinput.Description
		if err := yaml.Unmarshal(data, &d); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		descs = append(descs, &d)
	}
	for _, devnode := range refDevices {
		dev, err := evdev.Open(devnode)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		descs = append(descs, uinput.Describe(dev))
		dev.Close()
	}

	merged := uinput.Merge(descs)

	if print {
		out, err := yaml.Marshal(merged)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	vdev, err := uinput.Instantiate(merged)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer vdev.Close()

	for {
		ev, err := ievent.ReadOne(os.Stdin)
		if err != nil {
			if errors.Is(err, ierrors.ErrEndOfStream) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := vdev.InjectEvent(ev); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
