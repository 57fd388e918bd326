// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package main

import (
	"github.com/korrel8r/logsleuth/internal/pkg/must"
	"github.com/korrel8r/logsleuth/pkg/analyzer"
	"github.com/korrel8r/logsleuth/pkg/config"
)

// loadConfig returns the default configuration, overridden by the --config file and --root flag.
func loadConfig() *config.Config {
	c := config.Default()
	if *configFlag != "" {
		log.V(1).Info("loading configuration", "config", *configFlag)
		c = must.Must1(config.Load(*configFlag))
	}
	if *rootFlag != "" {
		c.Sources.Root = *rootFlag
	}
	return c
}

func newAnalyzer() *analyzer.Analyzer {
	c := loadConfig()
	log.V(2).Info("create analyzer", "root", c.Sources.Root)
	return analyzer.New(c)
}
