package workspacedb

import (
	_ "embed"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var defaultSchema []byte

// Schema names the properties of the users and case studies databases.
type Schema struct {
	Users       UserProperties      `yaml:"users"`
	CaseStudies CaseStudyProperties `yaml:"case_studies"`
}

// UserProperties are the users database property names
type UserProperties struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FullName  string `yaml:"full_name"`
	Phone     string `yaml:"phone"`
	CreatedAt string `yaml:"created_at"`
}

// CaseStudyProperties are the case studies database property names
type CaseStudyProperties struct {
	Name           string `yaml:"name"`
	ProjectDetails string `yaml:"project_details"`
	Status         string `yaml:"status"`
	Tags           string `yaml:"tags"`
	CoverImage     string `yaml:"cover_image"`
	CreatedAt      string `yaml:"created_at"`
}

// DefaultSchema returns the embedded schema.
func DefaultSchema() *Schema {
	s, err := parseSchema(&Schema{}, defaultSchema)
	if err != nil {
		panic(fmt.Sprintf("embedded schema.yaml is invalid: %v", err))
	}
	return s
}

// LoadSchema returns the embedded schema overlaid with the file at path.
// An empty path returns the embedded schema. Keys missing from the file
// keep their embedded values.
func LoadSchema(path string) (*Schema, error) {
	base := DefaultSchema()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return parseSchema(base, data)
}

func parseSchema(base *Schema, data []byte) (*Schema, error) {
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return base, nil
}

// Validate requires every property name to be set.
func (s *Schema) Validate() error {
	if err := validation.ValidateStruct(&s.Users,
		validation.Field(&s.Users.Email, validation.Required),
		validation.Field(&s.Users.Password, validation.Required),
		validation.Field(&s.Users.FullName, validation.Required),
		validation.Field(&s.Users.Phone, validation.Required),
		validation.Field(&s.Users.CreatedAt, validation.Required),
	); err != nil {
		return fmt.Errorf("users: %w", err)
	}
	if err := validation.ValidateStruct(&s.CaseStudies,
		validation.Field(&s.CaseStudies.Name, validation.Required),
		validation.Field(&s.CaseStudies.ProjectDetails, validation.Required),
		validation.Field(&s.CaseStudies.Status, validation.Required),
		validation.Field(&s.CaseStudies.Tags, validation.Required),
		validation.Field(&s.CaseStudies.CoverImage, validation.Required),
		validation.Field(&s.CaseStudies.CreatedAt, validation.Required),
	); err != nil {
		return fmt.Errorf("case_studies: %w", err)
	}
	return nil
}
