package cli

import (
	"github.com/spf13/pflag"

	"github.com/aidanlsb/orglint/internal/config"
)

// options holds the raw command-line flag values.
type options struct {
	debug        bool
	duplicateIDs bool
	tagsSummary  bool
	configPath   string
	workers      int
	exclude      []string
	extension    string
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging on standard error")
	fs.BoolVar(&o.duplicateIDs, "enable-duplicate-ids", false, "Include the repeated IDs section")
	fs.BoolVar(&o.tagsSummary, "enable-tags-summary", false, "Include the tags summary section")
	fs.StringVar(&o.configPath, "config", "", "Path to config file")
	fs.IntVarP(&o.workers, "workers", "j", 0, "Number of documents parsed concurrently (default: one per CPU)")
	fs.StringSliceVar(&o.exclude, "exclude", nil, "Glob of paths to skip, relative to each directory (repeatable)")
	fs.StringVar(&o.extension, "extension", "", "Document file extension (default \".org\")")
}

// apply merges flag values over cfg. Feature switches can only enable a
// section; the remaining flags replace the configured value when set.
func (o *options) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	cfg.Features.DuplicateIDs = cfg.Features.DuplicateIDs || o.duplicateIDs
	cfg.Features.TagsSummary = cfg.Features.TagsSummary || o.tagsSummary

	if fs.Changed("workers") {
		cfg.Workers = o.workers
	}
	if fs.Changed("exclude") {
		cfg.Exclude = o.exclude
	}
	if fs.Changed("extension") {
		cfg.Extension = o.extension
	}
	return cfg.Validate()
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFrom(o.configPath)
	}
	return config.Load()
}
