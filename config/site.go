package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Site holds the site-wide defaults used to build page metadata.
type Site struct {
	Name          string   `yaml:"name"`
	BaseURL       string   `yaml:"base_url"`
	Description   string   `yaml:"description"`
	Keywords      []string `yaml:"keywords"`
	DefaultImage  string   `yaml:"default_image"`
	Locale        string   `yaml:"locale"`
	TwitterHandle string   `yaml:"twitter_handle"`

	Author struct {
		Name     string   `yaml:"name"`
		JobTitle string   `yaml:"job_title"`
		Email    string   `yaml:"email"`
		Image    string   `yaml:"image"`
		SameAs   []string `yaml:"same_as"`
	} `yaml:"author"`
}

func defaultSite() Site {
	s := Site{
		Name:        "Portfolio",
		BaseURL:     "http://localhost:8080",
		Description: "Proyectos, experiencia y habilidades.",
		Locale:      "es_ES",
	}
	s.Author.Name = "Portfolio Owner"
	return s
}

// LoadSite reads the site defaults from a YAML file and applies environment
// overrides on top. A missing file is not an error; the built-in defaults
// are used instead.
func LoadSite(path string, env map[string]string) (Site, error) {
	site := defaultSite()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return site, fmt.Errorf("open %s: %w", path, err)
		default:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(&site); err != nil {
				return site, fmt.Errorf("decode %s: %w", path, err)
			}
		}
	}

	site.Name = GetString(env, "SITE_NAME", site.Name)
	site.BaseURL = GetString(env, "BASE_URL", site.BaseURL)
	site.Description = GetString(env, "SITE_DESCRIPTION", site.Description)
	site.DefaultImage = GetString(env, "SITE_DEFAULT_IMAGE", site.DefaultImage)
	site.TwitterHandle = GetString(env, "SITE_TWITTER_HANDLE", site.TwitterHandle)
	site.Author.Name = GetString(env, "SITE_AUTHOR_NAME", site.Author.Name)

	return site, nil
}
