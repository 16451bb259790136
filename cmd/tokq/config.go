package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tokq/internal/store"
)

// ViewConfig represents a single view in YAML form.
type ViewConfig struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Order       string   `yaml:"order,omitempty"`
	Filter      string   `yaml:"filter,omitempty"`
}

// ViewCollection represents a collection of views.
type ViewCollection struct {
	Views []ViewConfig `yaml:"views"`
}

func (c ViewConfig) view() store.View {
	return store.View{
		Name:        c.Name,
		Description: c.Description,
		Tags:        c.Tags,
		Order:       c.Order,
		Filter:      c.Filter,
	}
}

func configFromView(v store.View) ViewConfig {
	return ViewConfig{
		Name:        v.Name,
		Description: v.Description,
		Tags:        v.Tags,
		Order:       v.Order,
		Filter:      v.Filter,
	}
}

// viewConfigFromFlags builds a view configuration from the view flags.
func viewConfigFromFlags(cmdFlags *CommandFlags) ViewConfig {
	return ViewConfig{
		Name:        cmdFlags.ViewName,
		Description: cmdFlags.ViewDescription,
		Tags:        parseTags(cmdFlags.ViewTags),
		Order:       cmdFlags.Order,
		Filter:      cmdFlags.Filter,
	}
}

// writeViewYAML writes configs as YAML, as a collection when asked to or when
// there is more than one.
func writeViewYAML(w io.Writer, configs []ViewConfig, collection bool) error {
	var doc any
	header := "# tokq view configuration"
	if collection || len(configs) != 1 {
		doc = ViewCollection{Views: configs}
		header = "# tokq view collection"
	} else {
		doc = configs[0]
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "# Save this to a file or pipe to 'tokq apply -f -'")
	fmt.Fprint(w, string(data))
	return nil
}

// handleDryRun validates the view described by the flags and prints it as
// YAML with canonical expressions, without touching the database.
func handleDryRun(w io.Writer, validator store.Validator, cmdFlags *CommandFlags) error {
	v, err := store.Prepare(viewConfigFromFlags(cmdFlags).view(), validator)
	if err != nil {
		return err
	}
	return writeViewYAML(w, []ViewConfig{configFromView(v)}, cmdFlags.Collection)
}

// parseViewConfigs decodes either a collection or a single view.
func parseViewConfigs(data []byte) ([]ViewConfig, error) {
	var collection ViewCollection
	if err := yaml.Unmarshal(data, &collection); err == nil && len(collection.Views) > 0 {
		return collection.Views, nil
	}

	var single ViewConfig
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if single.Name == "" {
		return nil, fmt.Errorf("configuration has no views")
	}
	return []ViewConfig{single}, nil
}

// readViewConfigs reads view configurations from path, or from stdin when
// path is "-".
func readViewConfigs(path string, stdin io.Reader) ([]ViewConfig, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
	}
	return parseViewConfigs(data)
}

// viewSaver is the part of the store apply needs.
type viewSaver interface {
	Get(ctx context.Context, idOrName string) (store.View, error)
	Save(ctx context.Context, v store.View) (store.View, error)
}

// applyViewConfigs saves each configuration in order and stops at the first
// failure. Views saved before the failure stay saved. A configuration whose
// name matches a stored view updates that view, so applying the same file
// twice is a no-op.
func applyViewConfigs(ctx context.Context, w io.Writer, s viewSaver, configs []ViewConfig) error {
	for i, cfg := range configs {
		v := cfg.view()
		action := "saved"

		existing, err := s.Get(ctx, strings.TrimSpace(v.Name))
		switch {
		case err == nil && existing.Name == strings.TrimSpace(v.Name):
			v.ID = existing.ID
			v.CreatedAt = existing.CreatedAt
			action = "updated"
		case err != nil && !store.IsNotFound(err):
			return fmt.Errorf("failed to look up view %d (%s): %w", i+1, cfg.Name, err)
		}

		saved, err := s.Save(ctx, v)
		if err != nil {
			return fmt.Errorf("failed to save view %d (%s): %w", i+1, cfg.Name, err)
		}
		fmt.Fprintf(w, "%s view %s (%s)\n", action, saved.Name, saved.ID)
	}
	return nil
}

// prepareViewConfigs validates each configuration without saving and
// returns the canonical forms.
func prepareViewConfigs(validator store.Validator, configs []ViewConfig) ([]ViewConfig, error) {
	prepared := make([]ViewConfig, 0, len(configs))
	for i, cfg := range configs {
		v, err := store.Prepare(cfg.view(), validator)
		if err != nil {
			return nil, fmt.Errorf("invalid view %d (%s): %w", i+1, cfg.Name, err)
		}
		prepared = append(prepared, configFromView(v))
	}
	return prepared, nil
}
