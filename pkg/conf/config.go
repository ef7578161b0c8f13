package conf

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Option interface {
	apply(v *viper.Viper)
}

type envPrefix struct {
	prefix string
}

func (p *envPrefix) apply(v *viper.Viper) {
	v.SetEnvPrefix(p.prefix)
}

func EnvPrefix(prefix string) Option {
	return &envPrefix{prefix}
}

type configFile struct {
	path string
}

func (f *configFile) apply(v *viper.Viper) {
	if len(f.path) > 0 {
		v.SetConfigFile(f.path)
	}
}

// File makes ParseConfig read the given config file before applying env overrides.
// An empty path is ignored.
func File(path string) Option {
	return &configFile{path}
}

type defaults struct {
	values map[string]interface{}
}

func (d *defaults) apply(v *viper.Viper) {
	for key, value := range d.values {
		v.SetDefault(key, value)
	}
}

func Defaults(values map[string]interface{}) Option {
	return &defaults{values}
}

// https://github.com/spf13/viper/issues/188#issuecomment-399884438
func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)

	if ifv.Kind() == reflect.Ptr {
		bindEnvs(v, ifv.Elem().Interface(), parts...)
		return
	}

	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		name, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			name = t.Name
		}
		if fv.Kind() == reflect.Struct {
			bindEnvs(v, fv.Interface(), append(parts, name)...)
		} else {
			err := v.BindEnv(strings.Join(append(parts, name), "."))
			if err != nil {
				panic(err)
			}
		}
	}
}

func ParseConfig(config interface{}, options ...Option) error {
	v := viper.New()
	for _, option := range options {
		option.apply(v)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if len(v.ConfigFileUsed()) > 0 {
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "Failed to load config")
		}
	}

	bindEnvs(v, config)

	if err := v.Unmarshal(config); err != nil {
		return errors.Wrap(err, "Failed to unmarshal config")
	}

	return nil
}
