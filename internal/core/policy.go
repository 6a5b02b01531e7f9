package core

import (
	"fmt"

	"github.com/spf13/viper"
)

// Policy holds the planning constants of the engine. The reference
// policy is a 6-hour productive day, an 18:00 UTC workday cutoff, and
// per-level daily outputs of 4.8/6.0/7.2 hours.
type Policy struct {
	ProductiveHoursPerDay float64
	WorkdayEndHour        int
	WorkdayEndMinute      int
	JuniorHoursPerDay     float64
	PlenoHoursPerDay      float64
	SeniorHoursPerDay     float64
}

// DefaultPolicy returns the reference policy.
func DefaultPolicy() Policy {
	return Policy{
		ProductiveHoursPerDay: 6.0,
		WorkdayEndHour:        18,
		WorkdayEndMinute:      0,
		JuniorHoursPerDay:     4.8,
		PlenoHoursPerDay:      6.0,
		SeniorHoursPerDay:     7.2,
	}
}

// LoadPolicy reads the .testsprintrc file from basePath. Missing file or
// missing keys fall back to the defaults.
func LoadPolicy(basePath string) (Policy, error) {
	p := DefaultPolicy()

	v := viper.New()
	v.SetConfigName(".testsprintrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(basePath)

	v.SetDefault("estimation.productive_hours_per_day", p.ProductiveHoursPerDay)
	v.SetDefault("schedule.workday_end_hour", p.WorkdayEndHour)
	v.SetDefault("schedule.workday_end_minute", p.WorkdayEndMinute)
	v.SetDefault("capacity.junior_hours_per_day", p.JuniorHoursPerDay)
	v.SetDefault("capacity.pleno_hours_per_day", p.PlenoHoursPerDay)
	v.SetDefault("capacity.senior_hours_per_day", p.SeniorHoursPerDay)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return p, nil
		}
		return p, fmt.Errorf("reading .testsprintrc: %w", err)
	}

	p.ProductiveHoursPerDay = v.GetFloat64("estimation.productive_hours_per_day")
	p.WorkdayEndHour = v.GetInt("schedule.workday_end_hour")
	p.WorkdayEndMinute = v.GetInt("schedule.workday_end_minute")
	p.JuniorHoursPerDay = v.GetFloat64("capacity.junior_hours_per_day")
	p.PlenoHoursPerDay = v.GetFloat64("capacity.pleno_hours_per_day")
	p.SeniorHoursPerDay = v.GetFloat64("capacity.senior_hours_per_day")

	return p, nil
}
