package singleinstance

import (
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	defaultPortStart = 49600
	defaultPortEnd   = 49650
)

type portRange struct {
	Start int `env:"SINGLEINSTANCE_PORT_START" env-default:"49600"`
	End   int `env:"SINGLEINSTANCE_PORT_END" env-default:"49650"`
}

// getPortRange returns the configured TCP port range (inclusive).
// Falls back to defaults when unset/invalid. A reversed range is swapped, then
// both ends are clamped to [1024, 65535].
func getPortRange() (int, int) {
	r := portRange{Start: defaultPortStart, End: defaultPortEnd}
	if err := cleanenv.ReadEnv(&r); err != nil {
		r = portRange{Start: defaultPortStart, End: defaultPortEnd}
	}
	if r.End < r.Start {
		r.Start, r.End = r.End, r.Start
	}
	r.Start = min(max(r.Start, 1024), 65535)
	r.End = min(max(r.End, 1024), 65535)
	return r.Start, r.End
}

// PortRange exposes the effective port range for logging.
func PortRange() (int, int) { return getPortRange() }
