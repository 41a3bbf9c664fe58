// Config loading for the lotledger CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/lotforge/lotledger/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir      = "data_dir"
	cfgKeyDeletePolicy = "delete_policy"
	cfgKeyBlobDriver   = "blob.driver"
	cfgKeyBlobFSRoot   = "blob.fs_root"
	cfgKeyS3Bucket     = "blob.s3.bucket"
	cfgKeyS3Region     = "blob.s3.region"
	cfgKeyS3Endpoint   = "blob.s3.endpoint"
	cfgKeyS3PathStyle  = "blob.s3.path_style"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Lotledger CLI configuration

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# What happens to expenses and sales when their vehicle is deleted.
# "cascade" removes them with the vehicle, "restrict" refuses the delete.
delete_policy: cascade

# Bill-of-sale document storage.
blob:
  driver: fs
  # fs_root defaults to <data_dir>/bills when empty.
  # fs_root:
  # s3:
  #   bucket:
  #   region: us-east-1
  #   endpoint:
  #   path_style: false
`

// loadedConfig is the viper instance populated by PersistentPreRunE.
var loadedConfig *viper.Viper

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDeletePolicy, types.DeleteCascade)
	v.SetDefault(cfgKeyBlobDriver, types.BlobDriverFS)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// buildConfig assembles a types.Config from the resolved data directory and
// the loaded config.yaml values.
func buildConfig() (types.Config, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		DataDir:      dataDir,
		DeletePolicy: types.DeleteCascade,
	}
	if loadedConfig != nil {
		cfg.DeletePolicy = loadedConfig.GetString(cfgKeyDeletePolicy)
		cfg.Blob = types.BlobConfig{
			Driver: loadedConfig.GetString(cfgKeyBlobDriver),
			FSRoot: loadedConfig.GetString(cfgKeyBlobFSRoot),
			S3: types.S3Config{
				Bucket:    loadedConfig.GetString(cfgKeyS3Bucket),
				Region:    loadedConfig.GetString(cfgKeyS3Region),
				Endpoint:  loadedConfig.GetString(cfgKeyS3Endpoint),
				PathStyle: loadedConfig.GetBool(cfgKeyS3PathStyle),
			},
		}
	}
	if cfg.Blob.Driver == "" || cfg.Blob.Driver == types.BlobDriverFS {
		if cfg.Blob.FSRoot == "" {
			cfg.Blob.FSRoot = filepath.Join(dataDir, "bills")
		}
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
