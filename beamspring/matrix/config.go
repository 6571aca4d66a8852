package matrix

// Override replaces the default threshold of a single key.
type Override struct {
	Key       KeyIndex `yaml:"key"`
	Threshold `yaml:",inline"`
}

// Config is the startup description of a keyboard matrix.
type Config struct {
	Name          string     `yaml:"name"`
	Rows          int        `yaml:"rows"`
	Columns       int        `yaml:"columns"`
	DebounceDepth uint8      `yaml:"debounce_depth"`
	Default       Threshold  `yaml:"default"`
	Missing       []KeyIndex `yaml:"missing"`
	Overrides     []Override `yaml:"overrides"`
}

// Positions returns Rows*Columns.
func (c Config) Positions() int { return c.Rows * c.Columns }

// Displaywriter returns the profile of the IBM Displaywriter beam-spring board:
// 8 rows by 12 columns, with the unpopulated positions listed in Missing.
func Displaywriter() Config {
	return Config{
		Name:          "displaywriter",
		Rows:          8,
		Columns:       12,
		DebounceDepth: DefaultDebounceDepth,
		Default: Threshold{
			Base:     DefaultBaseThreshold,
			Increase: DefaultThresholdIncrease,
		},
		Missing: []KeyIndex{2, 3, 14, 26, 47, 59, 71, 83, 94, 95},
		Overrides: []Override{
			{Key: 36, Threshold: Threshold{Base: 260, Increase: 40}},
			{Key: 37, Threshold: Threshold{Base: 300, Increase: 50}}, // space
			{Key: 38, Threshold: Threshold{Base: 260, Increase: 40}},
			{Key: 84, Threshold: Threshold{Base: 240, Increase: 30}},
		},
	}
}

// Coordinate returns the position of k.
func (c Config) Coordinate(k KeyIndex) Coordinate {
	if c.Columns <= 0 {
		return Coordinate{}
	}
	return Coordinate{Row: int(k) / c.Columns, Column: int(k) % c.Columns}
}

// Index returns the KeyIndex of a position.
func (c Config) Index(pos Coordinate) KeyIndex {
	return KeyIndex(pos.Row*c.Columns + pos.Column)
}
