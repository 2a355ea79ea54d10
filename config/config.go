package config

import (
	"fmt"
	"strings"

	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
	"github.com/kkanellis/cloudlab-nfs-client/pkg/logger"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "NFSCLIENT"

// FlagKeys maps command line flags to parameter keys.
var FlagKeys = map[string]string{
	"node-count":          "nodeCount",
	"os-image":            "osImage",
	"phystype":            "phystype",
	"shared-vlan-name":    "sharedVlanName",
	"shared-vlan-address": "sharedVlanAddress",
	"shared-vlan-netmask": "sharedVlanNetmask",
	"shared-vlan-network": "sharedVlanNetwork",
	"reserved-addresses":  "reservedAddresses",
}

type Config struct {
	models.Parameters `mapstructure:",squash"`
}

// Load resolves parameters from, in increasing precedence, defaults, the
// optional YAML file at path, NFSCLIENT_* environment variables and flags
// set on the command line.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	defaults := models.DefaultParameters()
	v.SetDefault("nodeCount", defaults.NodeCount)
	v.SetDefault("osImage", defaults.OSImage)
	v.SetDefault("phystype", defaults.PhysType)
	v.SetDefault("sharedVlanName", defaults.SharedVlanName)
	v.SetDefault("sharedVlanAddress", defaults.SharedVlanAddress)
	v.SetDefault("sharedVlanNetmask", defaults.SharedVlanNetmask)
	v.SetDefault("sharedVlanNetwork", defaults.SharedVlanNetwork)
	v.SetDefault("reservedAddresses", defaults.ReservedAddresses)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}

			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := Config{}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.StringToSliceHookFunc(","),
	)); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Parameters.OSImage = models.ResolveImage(cfg.Parameters.OSImage)
	cfg.Parameters.ReservedAddresses = trimAll(cfg.Parameters.ReservedAddresses)

	logger.WithField("variant", cfg.Parameters.Variant().String()).Debug("parameters resolved")

	return cfg, nil
}

func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			trimmed = append(trimmed, value)
		}
	}

	return trimmed
}
