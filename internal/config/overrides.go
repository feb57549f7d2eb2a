package config

// Overrides carries CLI flags that win over file values. MaxApplications is
// a pointer so 0 stays distinguishable from "flag not given".
type Overrides struct {
	DryRun          bool
	Headless        bool
	MaxApplications *int
}

func (cfg *Config) ApplyOverrides(o Overrides) {
	if o.DryRun {
		t := true
		cfg.Application.DryRun = &t
		cfg.Application.AutoSubmit = false
	}
	if o.Headless {
		cfg.Browser.Headless = true
	}
	if o.MaxApplications != nil {
		cfg.Application.MaxApplications = *o.MaxApplications
	}
}
