package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "COHORT_DASHBOARD_CONFIG"
	listenAddrEnv   = "COHORTDASH_ADDR"
	uwsBaseURLEnv   = "UWS_BASE_URL"
	uwsEppnEnv      = "UWS_EPPN"
	pagerBaseURLEnv = "PAGER_BASE_URL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Clinical ClinicalConfig `yaml:"clinical"`
	DEG      DEGConfig      `yaml:"deg"`
	PAGER    PAGERConfig    `yaml:"pager"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ClinicalConfig selects and parameterizes the cohort data strategy.
// Mode is "local" (CSV snapshot) or "remote" (UWS REST call).
type ClinicalConfig struct {
	Mode         string        `yaml:"mode"`
	SnapshotPath string        `yaml:"snapshotPath"`
	BaseURL      string        `yaml:"baseUrl"`
	RequestorID  string        `yaml:"requestorId"`
	CohortID     string        `yaml:"cohortId"`
	Eppn         string        `yaml:"eppn"`
	Timeout      time.Duration `yaml:"timeout"`
}

// DEGConfig locates the differential-expression results file and the sample
// tag injected into every row.
type DEGConfig struct {
	Path       string `yaml:"path"`
	SampleName string `yaml:"sampleName"`
}

// PAGERConfig points at the enrichment service.
type PAGERConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// AssetsConfig holds optional page extras: a references markdown file
// rendered verbatim and a static image.
type AssetsConfig struct {
	ReferencesPath string `yaml:"referencesPath"`
	ImagePath      string `yaml:"imagePath"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Clinical: ClinicalConfig{
			Mode:         "local",
			SnapshotPath: "getalli2b2demographics-rdalej-27676.csv",
			BaseURL:      "http://ubritedvapp1.hs.uab.edu:8080/UbriteServices",
			RequestorID:  "rdalej",
			CohortID:     "27676",
			Timeout:      20 * time.Second,
		},
		DEG: DEGConfig{
			Path:       "JX12T_sig_DE_Results.txt",
			SampleName: "JX12T",
		},
		PAGER: PAGERConfig{
			BaseURL: "http://discovery.informatics.uab.edu",
			Timeout: 60 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(uwsBaseURLEnv); v != "" {
		c.Clinical.BaseURL = v
	}
	if v := os.Getenv(uwsEppnEnv); v != "" {
		c.Clinical.Eppn = v
	}
	if v := os.Getenv(pagerBaseURLEnv); v != "" {
		c.PAGER.BaseURL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Clinical.Mode != "" {
		base.Clinical.Mode = override.Clinical.Mode
	}
	if override.Clinical.SnapshotPath != "" {
		base.Clinical.SnapshotPath = override.Clinical.SnapshotPath
	}
	if override.Clinical.BaseURL != "" {
		base.Clinical.BaseURL = override.Clinical.BaseURL
	}
	if override.Clinical.RequestorID != "" {
		base.Clinical.RequestorID = override.Clinical.RequestorID
	}
	if override.Clinical.CohortID != "" {
		base.Clinical.CohortID = override.Clinical.CohortID
	}
	if override.Clinical.Eppn != "" {
		base.Clinical.Eppn = override.Clinical.Eppn
	}
	if override.Clinical.Timeout != 0 {
		base.Clinical.Timeout = override.Clinical.Timeout
	}

	if override.DEG.Path != "" {
		base.DEG.Path = override.DEG.Path
	}
	if override.DEG.SampleName != "" {
		base.DEG.SampleName = override.DEG.SampleName
	}

	if override.PAGER.BaseURL != "" {
		base.PAGER.BaseURL = override.PAGER.BaseURL
	}
	if override.PAGER.Timeout != 0 {
		base.PAGER.Timeout = override.PAGER.Timeout
	}

	if override.Assets.ReferencesPath != "" {
		base.Assets.ReferencesPath = override.Assets.ReferencesPath
	}
	if override.Assets.ImagePath != "" {
		base.Assets.ImagePath = override.Assets.ImagePath
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}
