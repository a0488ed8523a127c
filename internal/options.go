package internal

import (
	"fmt"
	"strings"
	"time"
)

// SourceMode is which kind of source a run searches.
type SourceMode int

const (
	ModeFile SourceMode = iota
	ModeURL
	ModeDir
)

// Defaults seed Options before flags are applied. They are computed once at
// startup from the environment and the optional config file.
type Defaults struct {
	IgnoreCase  bool
	Context     int
	MaxBlocks   int
	Replacement string
	Theme       string
	Color       bool
	Workers     int
	Timeout     time.Duration
}

// BaseDefaults are the built-in values.
func BaseDefaults() Defaults {
	return Defaults{
		MaxBlocks:   DefaultMaxBlocks,
		Replacement: DefaultReplacement,
		Theme:       DefaultTheme,
		Color:       true,
		Workers:     1,
		Timeout:     30 * time.Second,
	}
}

// EnvDefaults applies environment overrides. IGNORE_CASE turns on
// case-insensitive search when present, whatever its value.
func (d Defaults) EnvDefaults(lookup func(string) (string, bool)) Defaults {
	if _, ok := lookup("IGNORE_CASE"); ok {
		d.IgnoreCase = true
	}
	if _, ok := lookup("NO_COLOR"); ok {
		d.Color = false
	}
	return d
}

// Options - public options from CLI.
type Options struct {
	Query       string
	Path        string
	URL         string
	All         bool
	Dir         string
	IgnoreCase  bool
	Replace     bool
	Replacement string
	Context     int
	MaxBlocks   int
	Color       bool
	Theme       string
	HTMLText    bool
	Archives    bool
	Whitelist   []string
	Blacklist   []string
	Workers     int
	Timeout     time.Duration

	whMap map[string]struct{}
	blMap map[string]struct{}
}

// NewOptions starts from defaults.
func NewOptions(d Defaults) Options {
	return Options{
		Dir:         ".",
		IgnoreCase:  d.IgnoreCase,
		Context:     d.Context,
		MaxBlocks:   d.MaxBlocks,
		Replacement: d.Replacement,
		Theme:       d.Theme,
		Color:       d.Color,
		Workers:     d.Workers,
		Timeout:     d.Timeout,
	}
}

// Mode resolves the single source mode.
func (o *Options) Mode() (SourceMode, error) {
	var modes []SourceMode
	if o.Path != "" {
		modes = append(modes, ModeFile)
	}
	if o.URL != "" {
		modes = append(modes, ModeURL)
	}
	if o.All {
		modes = append(modes, ModeDir)
	}
	switch len(modes) {
	case 0:
		return 0, fmt.Errorf("%w: didn't get a file path, --url or --all", ErrConfig)
	case 1:
		return modes[0], nil
	}
	return 0, fmt.Errorf("%w: give only one of a file path, --url or --all", ErrConfig)
}

// Validate checks invariants.
func (o *Options) Validate() error {
	if o.Query == "" {
		return fmt.Errorf("%w: didn't get a query string", ErrConfig)
	}
	if o.Context < 0 {
		return fmt.Errorf("%w: --context must not be negative", ErrConfig)
	}
	if o.MaxBlocks < 0 {
		return fmt.Errorf("%w: --max-blocks must not be negative", ErrConfig)
	}
	if _, err := o.Mode(); err != nil {
		return err
	}
	return nil
}

// Prepare builds fast lookup structures and sensible defaults.
func (o *Options) Prepare() {
	o.Whitelist = normExts(o.Whitelist)
	o.Blacklist = normExts(o.Blacklist)
	o.whMap = toSet(o.Whitelist)
	o.blMap = toSet(o.Blacklist)
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Dir == "" {
		o.Dir = "."
	}
}

// SessionOptions derives per-source settings.
func (o *Options) SessionOptions() SessionOptions {
	markers := ANSIMarkers
	if !o.Color {
		markers = PlainMarkers
	}
	return SessionOptions{
		Query:       Query{Text: o.Query, IgnoreCase: o.IgnoreCase},
		Context:     o.Context,
		MaxBlocks:   o.MaxBlocks,
		Replace:     o.Replace,
		Replacement: o.Replacement,
		Markers:     markers,
	}
}

// normExts turns "txt, .LOG" style lists into ".txt", ".log".
func normExts(s []string) []string {
	out := make([]string, 0, len(s))
	for _, ext := range s {
		for _, v := range strings.Split(ext, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			v = strings.TrimPrefix(v, ".")
			out = append(out, "."+strings.ToLower(v))
		}
	}
	return out
}

func toSet(s []string) map[string]struct{} {
	if len(s) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(s))
	for _, x := range s {
		m[x] = struct{}{}
	}
	return m
}

func (o *Options) useWhitelist() bool { return len(o.whMap) > 0 }

func (o *Options) allowedExt(ext string) bool {
	// O(1) lookups
	if o.useWhitelist() {
		_, ok := o.whMap[ext]
		return ok
	}
	if o.blMap == nil {
		return true
	}
	_, blocked := o.blMap[ext]
	return !blocked
}
