package models

// Rules holds the per-variant constants that the scenario text does not carry
type Rules struct {
	TankRange     int `yaml:"tank_range" json:"tank_range"`
	ScorpionRange int `yaml:"scorpion_range" json:"scorpion_range"`
	FireflyRange  int `yaml:"firefly_range" json:"firefly_range"`
	// HealthCeiling caps healing. A unit that starts above it keeps its
	// starting health as the cap.
	HealthCeiling int `yaml:"health_ceiling" json:"health_ceiling"`
}

// DefaultRules returns the stock rule set
func DefaultRules() Rules {
	return Rules{
		TankRange:     3,
		ScorpionRange: 2,
		FireflyRange:  5,
		HealthCeiling: 9,
	}
}
