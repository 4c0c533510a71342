// Package config holds the default address shared by ignite-server and
// ignite-client, and binds ignite-server's flags to environment variables
// via viper, so the server can be configured with flags, an
// IGNITE_-prefixed environment variable, or the documented default, in that
// precedence order. ignite-client does not call Bind: it reads --addr from
// its flags only.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultAddr is the address both binaries connect to or listen on when
// --addr is not given.
const DefaultAddr = "127.0.0.1:4000"

// Bind wires fs into a fresh viper instance: every flag becomes a config
// key, and IGNITE_ADDR-style environment variables override unset flags.
func Bind(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("ignite")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}
