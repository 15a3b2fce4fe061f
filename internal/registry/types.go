package registry

// Required image files; a directory holding both is a profile.
const (
	SystemImage = "system.img"
	VendorImage = "vendor.img"
)

// DefaultName names a profile that lives directly in the scan root.
const DefaultName = "default"

// MetadataFile is optional per-profile front matter shown by the CLI.
const MetadataFile = "profile.md"

// Profile is one selectable system/vendor image pair.
type Profile struct {
	Name     string    `yaml:"name" json:"name"`                     // Path relative to the scan root, "default" for the root
	Location string    `yaml:"location" json:"location"`             // Absolute directory holding the images
	Meta     *Metadata `yaml:"meta,omitempty" json:"meta,omitempty"` // From profile.md, if present
}

// Metadata is the front matter of a profile's profile.md.
type Metadata struct {
	Title   string `yaml:"title" json:"title,omitempty"`
	Android string `yaml:"android" json:"android,omitempty"`
	Variant string `yaml:"variant" json:"variant,omitempty"`
	Notes   string `yaml:"-" json:"notes,omitempty"` // Markdown body after the front matter
}
