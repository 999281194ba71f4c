package wtransfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// ConfigEnv names the directory holding conf.toml when no explicit path is given.
	ConfigEnv = "WTRANSFER_CONFIG"
	envPrefix = "WTRANSFER"
)

// Config is the full run configuration: the model constants plus report and server settings.
type Config struct {
	Constants Constants
	Report    ReportConfig
	Server    ServerConfig
}

// ReportConfig configures the comparison outputs.
type ReportConfig struct {
	Departure time.Time // optional departure epoch for dated outputs
	PlotPath  string    // empty disables the plot
	CSVPath   string    // empty disables the CSV export
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr             string
	RPS              float64
	Burst            int
	CORSOrigins      []string
	MaxStreamSamples int
}

func setDefaults(v *viper.Viper) {
	d := DefaultConstants()
	v.SetDefault("physics.mu", d.Mu)
	v.SetDefault("physics.earth_radius", d.EarthRadius)
	v.SetDefault("physics.mars_radius", d.MarsRadius)
	v.SetDefault("wstructure.H", d.HW)
	v.SetDefault("wstructure.J", d.JW)
	v.SetDefault("wstructure.dt", d.Dt)
	v.SetDefault("wstructure.time_cap", d.TimeCap)
	v.SetDefault("hohmann.samples", d.HohmannSamples)
	v.SetDefault("report.days_per_unit", d.DaysPerUnit)
	v.SetDefault("report.plot", "trajectory.png")
	v.SetDefault("report.csv", "")
	v.SetDefault("report.departure", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rps", 5.0)
	v.SetDefault("server.burst", 10)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.max_stream_samples", 2000)
}

// LoadConfig reads the TOML configuration at path. If path is empty, conf.toml is
// searched in the directory named by WTRANSFER_CONFIG and then in the working
// directory; a missing file yields the defaults. Every key may be overridden
// from the environment, e.g. WTRANSFER_WSTRUCTURE_DT.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("conf")
		v.SetConfigType("toml")
		if dir := os.Getenv(ConfigEnv); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading conf.toml: %w", err)
			}
		}
	}
	return configFromViper(v)
}

func configFromViper(v *viper.Viper) (Config, error) {
	conf := Config{
		Constants: Constants{
			Mu:             v.GetFloat64("physics.mu"),
			EarthRadius:    v.GetFloat64("physics.earth_radius"),
			MarsRadius:     v.GetFloat64("physics.mars_radius"),
			HW:             v.GetFloat64("wstructure.H"),
			JW:             v.GetFloat64("wstructure.J"),
			Dt:             v.GetFloat64("wstructure.dt"),
			TimeCap:        v.GetFloat64("wstructure.time_cap"),
			HohmannSamples: v.GetInt("hohmann.samples"),
			DaysPerUnit:    v.GetFloat64("report.days_per_unit"),
		},
		Report: ReportConfig{
			PlotPath: v.GetString("report.plot"),
			CSVPath:  v.GetString("report.csv"),
		},
		Server: ServerConfig{
			Addr:             v.GetString("server.addr"),
			RPS:              v.GetFloat64("server.rps"),
			Burst:            v.GetInt("server.burst"),
			CORSOrigins:      v.GetStringSlice("server.cors_origins"),
			MaxStreamSamples: v.GetInt("server.max_stream_samples"),
		},
	}
	if dep := v.GetString("report.departure"); dep != "" {
		dt, err := ParseEpoch(dep)
		if err != nil {
			return Config{}, err
		}
		conf.Report.Departure = dt
	}
	if conf.Report.PlotPath != "" {
		conf.Report.PlotPath = filepath.Clean(conf.Report.PlotPath)
	}
	if err := conf.Constants.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}
