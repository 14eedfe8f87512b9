package config

// File represents the structure of the hexfetch.yaml configuration file.
// Every field is optional; defaults are applied by the loader.
type File struct {
	Registry       string `yaml:"registry"`
	CacheRoot      string `yaml:"cacheRoot"`
	DepsRoot       string `yaml:"depsRoot"`
	Offline        bool   `yaml:"offline"`
	RequestTimeout string `yaml:"requestTimeout"`
	LegacyManifest bool   `yaml:"legacyManifest"`
}

// LockFile represents the YAML form of the host's lock file.
type LockFile struct {
	Packages map[string]LockEntryDTO `yaml:"packages"`
}

// LockEntryDTO is a lock entry as serialized in the lock file.
type LockEntryDTO struct {
	Source   string   `yaml:"source"`
	Name     string   `yaml:"name"`
	Version  string   `yaml:"version"`
	Checksum string   `yaml:"checksum,omitempty"`
	Managers []string `yaml:"managers,omitempty"`
	Deps     []string `yaml:"deps,omitempty"`
}
