package seedfile

// Entry is a single bookmark in the seed yaml.
type Entry struct {
	Title string   `yaml:"title"`
	Href  string   `yaml:"href"`
	Tags  []string `yaml:"tags"`
}

// Seed is the root structure of the seed file: a flat list of entries.
type Seed []Entry
