package locale

import (
	"os"

	"github.com/SayaAndy/vault-gallery/internal/collection"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type LocaleConfig struct {
	Gallery    GalleryConfig    `yaml:"Gallery" json:"Gallery"`
	Collection CollectionConfig `yaml:"Collection" json:"Collection"`
	Notes      NotesConfig      `yaml:"Notes" json:"Notes"`
	Settings   SettingsConfig   `yaml:"Settings" json:"Settings"`
}

type GalleryConfig struct {
	NoImages   string `yaml:"NoImages" json:"NoImages" validate:"required"`
	LoadFailed string `yaml:"LoadFailed" json:"LoadFailed" validate:"required"`
	Expired    string `yaml:"Expired" json:"Expired" validate:"required"`
}

type CollectionConfig struct {
	Header         string `yaml:"Header" json:"Header" validate:"required"`
	ShowReferenced string `yaml:"ShowReferenced" json:"ShowReferenced" validate:"required"`
	Properties     string `yaml:"Properties" json:"Properties" validate:"required"`
	Backlinks      string `yaml:"Backlinks" json:"Backlinks" validate:"required"`
	Name           string `yaml:"Name" json:"Name" validate:"required"`
	Size           string `yaml:"Size" json:"Size" validate:"required"`
	Type           string `yaml:"Type" json:"Type" validate:"required"`
	Location       string `yaml:"Location" json:"Location" validate:"required"`
	Modified       string `yaml:"Modified" json:"Modified" validate:"required"`
	NoBacklinks    string `yaml:"NoBacklinks" json:"NoBacklinks" validate:"required"`
	NoImages       string `yaml:"NoImages" json:"NoImages" validate:"required"`
	NoImagesTip    string `yaml:"NoImagesTip" json:"NoImagesTip" validate:"required"`
	LoadError      string `yaml:"LoadError" json:"LoadError" validate:"required"`
}

type NotesConfig struct {
	Header     string `yaml:"Header" json:"Header" validate:"required"`
	Empty      string `yaml:"Empty" json:"Empty" validate:"required"`
	Properties string `yaml:"Properties" json:"Properties" validate:"required"`
	Modified   string `yaml:"Modified" json:"Modified" validate:"required"`
}

type SettingsConfig struct {
	Header     string `yaml:"Header" json:"Header" validate:"required"`
	SaveButton string `yaml:"SaveButton" json:"SaveButton" validate:"required"`
	Saved      string `yaml:"Saved" json:"Saved" validate:"required"`
	Failed     string `yaml:"Failed" json:"Failed" validate:"required"`
}

// Default is the built-in English locale.
func Default() *LocaleConfig {
	labels := collection.DefaultLabels()
	return &LocaleConfig{
		Gallery: GalleryConfig{
			NoImages:   "No images found.",
			LoadFailed: "Failed to load image",
			Expired:    "This gallery has expired, reload the page.",
		},
		Collection: CollectionConfig{
			Header:         "Collection",
			ShowReferenced: "Show linked images",
			Properties:     labels.Properties,
			Backlinks:      labels.Backlinks,
			Name:           labels.Name,
			Size:           labels.Size,
			Type:           labels.Type,
			Location:       labels.Location,
			Modified:       labels.Modified,
			NoBacklinks:    labels.NoBacklinks,
			NoImages:       labels.NoImages,
			NoImagesTip:    labels.NoImagesTip,
			LoadError:      labels.LoadError,
		},
		Notes: NotesConfig{
			Header:     "Notes",
			Empty:      "The vault has no notes yet.",
			Properties: "Properties",
			Modified:   "Modified",
		},
		Settings: SettingsConfig{
			Header:     "Gallery settings",
			SaveButton: "Save",
			Saved:      "Settings saved.",
			Failed:     "Settings were not saved: %s",
		},
	}
}

// CollectionLabels are the sidebar and state texts of a collection view.
func (l *LocaleConfig) CollectionLabels() collection.Labels {
	c := l.Collection
	return collection.Labels{
		Properties:  c.Properties,
		Backlinks:   c.Backlinks,
		Name:        c.Name,
		Size:        c.Size,
		Type:        c.Type,
		Location:    c.Location,
		Modified:    c.Modified,
		NoBacklinks: c.NoBacklinks,
		NoImages:    c.NoImages,
		NoImagesTip: c.NoImagesTip,
		LoadError:   c.LoadError,
	}
}

// LoadConfig reads a locale file over what config already holds, so keys
// the file leaves out keep their value.
func LoadConfig(path string, config *LocaleConfig) error {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err = yaml.Unmarshal(fileBytes, config); err != nil {
		return err
	}

	return nil
}

// InitConfig returns the English defaults, overridden by the file at path
// when one is given.
func InitConfig(path string) (*LocaleConfig, error) {
	config := Default()
	if path == "" {
		return config, nil
	}
	if err := LoadConfig(path, config); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return nil, err
	}

	return config, nil
}
