package config

import "github.com/ltnguyen02/tiny-range-index-go/internal/types"

// YAMLConfig represents the application's configuration.
type YAMLConfig struct {
	WorkingDir string            `yaml:"working_dir"`
	Run        types.ConfigRun   `yaml:"run"`
	Journal    YAMLConfigJournal `yaml:"journal"`
}

// YAMLConfigJournal represents the configuration for the journal.
type YAMLConfigJournal struct {
	MaxFileSize      int    `yaml:"max_file_size"`
	FlushAfterNSteps int    `yaml:"flush_after_n_steps"`
	Formatter        string `yaml:"formatter"`
	Storage          string `yaml:"storage"`
}
