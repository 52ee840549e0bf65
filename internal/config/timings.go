package config

import "time"

// Timings holds the bounded waits and settle pauses used while driving the page.
type Timings struct {
	PageLoad      time.Duration `yaml:"page_load"`
	PageSizeWait  time.Duration `yaml:"page_size_wait"`
	RowWait       time.Duration `yaml:"row_wait"`
	NextWait      time.Duration `yaml:"next_wait"`
	// ClickWait bounds a single click, which rod keeps retrying while the
	// element is covered by another node.
	ClickWait     time.Duration `yaml:"click_wait"`
	ScriptSettle  time.Duration `yaml:"script_settle"`
	AdvanceSettle time.Duration `yaml:"advance_settle"`
}

var DefaultTimings = Timings{
	PageLoad:      40 * time.Second,
	PageSizeWait:  20 * time.Second,
	RowWait:       60 * time.Second,
	NextWait:      60 * time.Second,
	ClickWait:     10 * time.Second,
	ScriptSettle:  3 * time.Second,
	AdvanceSettle: 3 * time.Second,
}
