package config

import "flag"

// RegisterFlags binds command-line flags to c. Each flag defaults to the
// value already in c, so flags only override what the user passes.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.OutputDir, "output-dir", c.OutputDir, "Directory for JSON results (default: next to each image)")
	fs.BoolVar(&c.Grayscale, "gray", c.Grayscale, "Convert color images to grayscale (false requires single-channel input)")
	fs.StringVar(&c.Luma, "luma", c.Luma, "Grayscale conversion: bt601 or lab")
	fs.BoolVar(&c.Smooth, "blur", c.Smooth, "Apply Gaussian smoothing before comparing halves")
	fs.StringVar(&c.Kernel, "kernel", c.Kernel, "Smoothing kernel size WxH, odd dimensions")
	fs.BoolVar(&c.ShowImage, "show", c.ShowImage, "Open the preprocessed image in the system viewer")
	fs.BoolVar(&c.Fix, "fix", c.Fix, "Write an upright copy of each image as <name>_upright<ext>")
	fs.StringVar(&c.HistoryDB, "history", c.HistoryDB, "SQLite file recording every classification")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Concurrent classifications in batch mode")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Also write logs to this rotating file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: info or debug")
}
