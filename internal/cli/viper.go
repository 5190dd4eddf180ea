package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Root config keys
	VLogLevel  = "log_level"
	VLogFormat = "log_format"
	VNoColor   = "no_color"
	VDataDir   = "data_dir"
	VNoStore   = "no_store"

	// Generate config keys
	VGenerateLength  = "generate.length"
	VGenerateCount   = "generate.count"
	VGenerateClasses = "generate.classes"
	VGenerateEncode  = "generate.encode"

	// Serve config keys
	VServeAddr          = "serve.addr"
	VServeTokenRequired = "serve.token_required"

	// Keyring config keys
	VKeyringService = "keyring.service"
)

// newViper loads the optional secretgen-config file and SECRETGEN_* env vars.
func newViper() (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(VLogLevel, "info")
	v.SetDefault(VLogFormat, "console")
	v.SetDefault(VNoColor, false)
	v.SetDefault(VDataDir, "")
	v.SetDefault(VNoStore, false)
	v.SetDefault(VGenerateLength, 32)
	v.SetDefault(VGenerateCount, 1)
	v.SetDefault(VGenerateClasses, []string{"uppercase", "lowercase", "digits", "special"})
	v.SetDefault(VGenerateEncode, true)
	v.SetDefault(VServeAddr, "127.0.0.1:8080")
	v.SetDefault(VServeTokenRequired, false)
	v.SetDefault(VKeyringService, "secretgen")

	// Specify an alternate config file
	if cfgFile := os.Getenv("SECRETGEN_CONFIG"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.secretgen")
		v.SetConfigName("secretgen-config")
	}

	// E.g. SECRETGEN_LOG_LEVEL=debug, SECRETGEN_GENERATE_LENGTH=64
	v.SetEnvPrefix("secretgen")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Optional, so ignore not-found errors
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

// bindFlags binds each viper key to the named flag in fs.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}
