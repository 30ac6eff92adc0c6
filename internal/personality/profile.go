// Package personality loads the streamer persona that shapes every generated reply.
package personality

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Profile is the immutable persona loaded once at startup.
type Profile struct {
	Name         string   `yaml:"name" json:"name" validate:"required"`
	Background   string   `yaml:"background" json:"background" validate:"required"`
	Favorites    []string `yaml:"favorites" json:"favorites" validate:"required,min=1,dive,required"`
	Dislikes     []string `yaml:"dislikes" json:"dislikes" validate:"required,min=1,dive,required"`
	Instructions string   `yaml:"instructions" json:"instructions" validate:"required"`
}

// Load reads and validates a YAML profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading personality file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing personality: %w", err)
	}

	p.Name = strings.TrimSpace(p.Name)
	p.Background = strings.TrimSpace(p.Background)
	p.Instructions = strings.TrimSpace(p.Instructions)

	if err := validator.New().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return nil, fmt.Errorf("invalid personality: missing or empty %s", strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("validating personality: %w", err)
	}
	return &p, nil
}

// SystemPrompt renders the persona as the system instruction for the generator.
func (p *Profile) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a virtual streamer with the following personality:\n", p.Name)
	fmt.Fprintf(&b, "- Background: %s\n", p.Background)
	fmt.Fprintf(&b, "- Favorites: %s\n", strings.Join(p.Favorites, ", "))
	fmt.Fprintf(&b, "- Dislikes: %s\n\n", strings.Join(p.Dislikes, ", "))
	b.WriteString(p.Instructions)
	return b.String()
}
