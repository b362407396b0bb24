package gsatkmk

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Mode int

const (
	ModeBuild Mode = iota
	ModeClean
)

func (m Mode) String() string {
	switch m {
	case ModeBuild:
		return "build"
	case ModeClean:
		return "clean"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case ModeBuild, ModeClean:
		return []byte(m.String()), nil
	}
	return nil, fmt.Errorf("illegal mode %d", int(m))
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "build", "":
		*m = ModeBuild
	case "clean":
		*m = ModeClean
	default:
		return fmt.Errorf("illegal mode '%s'", text)
	}
	return nil
}

// Config is everything a [Pipeline] needs to know. Language and Define are
// passed to the compiler as they are.
type Config struct {
	// Dir is the project directory. Relative paths are resolved against it.
	Dir      string `yaml:"dir"`
	Language string `yaml:"language"`
	Define   string `yaml:"define"`
	Mode     Mode   `yaml:"mode"`
	// Host overrides the platform used to join paths, e.g. "windows".
	Host string `yaml:"host"`

	OutDir   string `yaml:"out"`
	BaseName string `yaml:"base"`
	TmpName  string `yaml:"tmp"`
	// Stale names are removed from OutDir before compiling.
	Stale []string `yaml:"stale"`

	Compiler string   `yaml:"compiler"`
	Package  string   `yaml:"package"`
	Sources  []string `yaml:"sources"`
	Defines  []string `yaml:"defines"`
	// Env holds "key=value" entries added to the compiler's environment.
	Env []string `yaml:"env"`
	// Prefix is put in front of each line the compiler writes.
	Prefix string `yaml:"prefix"`
	// Lenient ignores a failing compiler. A missing output then fails the
	// relocation.
	Lenient bool `yaml:"lenient"`

	PreludeDir string  `yaml:"preludes"`
	Targets    Targets `yaml:"targets"`
}

func DefaultConfig() Config {
	return Config{
		Dir:      ".",
		Mode:     ModeBuild,
		OutDir:   "out",
		BaseName: "gsatk",
		TmpName:  "build.tmp",
		Stale:    []string{"fe-browser.js"},
		Compiler: "haxe",
		Package:  "com.gsatk",
		Sources:  []string{"src"},
		Targets:  DefaultTargets(),
	}
}

// LoadConfigFile decodes the YAML file path into cfg. Fields not set in the
// file keep their value, lists are replaced. Unknown fields are an error.
func LoadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Targets.Check(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

const EnvPrefix = "GSATKMK_"

// ApplyEnv overrides cfg with the GSATKMK_* variables found by lookup, e.g.
// [os.LookupEnv].
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("DIR", &cfg.Dir)
	str("OUT", &cfg.OutDir)
	str("HOST", &cfg.Host)
	str("COMPILER", &cfg.Compiler)
	str("PRELUDES", &cfg.PreludeDir)
	str("PREFIX", &cfg.Prefix)
	if v, ok := lookup(EnvPrefix + "LENIENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sLENIENT: %w", EnvPrefix, err)
		}
		cfg.Lenient = b
	}
	if v, ok := lookup(EnvPrefix + "DEFINES"); ok {
		cfg.Defines = strings.Fields(v)
	}
	return nil
}

func (cfg *Config) targets() Targets {
	if len(cfg.Targets) == 0 {
		return DefaultTargets()
	}
	return cfg.Targets
}
