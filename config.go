package elisp

import "fmt"

// Config is a small key/value store holding GC tuning knobs.
type Config map[string]*cfgVal

// NewConfig creates a Config primed with the defaults the Context
// expects to find: an unbounded cell budget, automatic collection
// enabled, and the default collection threshold.
func NewConfig() *Config {
	m := make(Config)
	m.SetInt("gc.threshold_cells", defaultGCThreshold)
	m.SetInt("gc.max_cells", 0)
	m.SetBool("gc.disable_auto", false)
	return &m
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ    cfgValType
	bval   bool
	ival   int
	sval   string
}

func (c *Config) SetBool(key string, v bool) {
	(*c)[key] = &cfgVal{typ: cfgValType_Bool, bval: v}
}

func (c *Config) SetInt(key string, v int) {
	(*c)[key] = &cfgVal{typ: cfgValType_Int, ival: v}
}

func (c *Config) SetString(key string, v string) {
	(*c)[key] = &cfgVal{typ: cfgValType_String, sval: v}
}

func (c *Config) GetBool(key string) bool {
	if v, ok := (*c)[key]; ok && v.typ == cfgValType_Bool {
		return v.bval
	}
	return false
}

func (c *Config) GetInt(key string) int {
	if v, ok := (*c)[key]; ok && v.typ == cfgValType_Int {
		return v.ival
	}
	return 0
}

func (c *Config) GetString(key string) string {
	if v, ok := (*c)[key]; ok && v.typ == cfgValType_String {
		return v.sval
	}
	return ""
}

func (c *Config) String() string {
	out := ""
	for k, v := range *c {
		switch v.typ {
		case cfgValType_Bool:
			out += fmt.Sprintf("%s=%v\n", k, v.bval)
		case cfgValType_Int:
			out += fmt.Sprintf("%s=%d\n", k, v.ival)
		case cfgValType_String:
			out += fmt.Sprintf("%s=%q\n", k, v.sval)
		}
	}
	return out
}
