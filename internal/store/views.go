package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

// View is a named, accepted pair of order and filter expressions. An empty
// Order or Filter means that box is unset.
type View struct {
	ID          string    `json:"id" yaml:"id,omitempty"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Order       string    `json:"order,omitempty" yaml:"order,omitempty"`
	Filter      string    `json:"filter,omitempty" yaml:"filter,omitempty"`
	OrderKind   string    `json:"order_kind,omitempty" yaml:"order_kind,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

// Prepare trims v and, when validator is non-nil, validates both expressions
// and replaces them with their canonical forms. It does not write anything.
func Prepare(v View, validator Validator) (View, error) {
	v.Name = strings.TrimSpace(v.Name)
	v.Order = strings.TrimSpace(v.Order)
	v.Filter = strings.TrimSpace(v.Filter)
	v.OrderKind = ""

	if v.Name == "" {
		return View{}, newValidationError("save", "", "view name is required", nil)
	}
	if validator == nil {
		return v, nil
	}

	if v.Order != "" {
		if err := validator.ValidateOrder(v.Order); err != nil {
			return View{}, newValidationError("save", v.Name, "invalid order expression", err)
		}
		v.OrderKind = validator.OrderKind(v.Order).String()

		canonical, err := validator.Normalize(v.Order)
		if err != nil {
			return View{}, newValidationError("save", v.Name, "invalid order expression", err)
		}
		v.Order = canonical
	}

	if v.Filter != "" {
		if err := validator.ValidateFilter(v.Filter); err != nil {
			return View{}, newValidationError("save", v.Name, "invalid filter expression", err)
		}
		canonical, err := validator.Normalize(v.Filter)
		if err != nil {
			return View{}, newValidationError("save", v.Name, "invalid filter expression", err)
		}
		v.Filter = canonical
	}
	return v, nil
}

// Save validates v and writes it. A view without an ID gets a new one; a
// view whose ID already exists replaces the stored record. Names are unique.
func (s *Store) Save(ctx context.Context, v View) (View, error) {
	if err := ctx.Err(); err != nil {
		return View{}, fmt.Errorf("context cancelled: %w", err)
	}

	v, err := Prepare(v, s.validator)
	if err != nil {
		return View{}, err
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(v)
	if err != nil {
		return View{}, newInvalidDataError("save", v.ID, err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketViews))
		if b == nil {
			return newDatabaseError("save", bucketViews, fmt.Errorf("bucket missing"))
		}

		existing, err := findByName(b, v.Name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != v.ID {
			return newValidationError("save", v.Name, "view name already in use by "+existing.ID, nil)
		}

		if err := b.Put([]byte(v.ID), data); err != nil {
			return newDatabaseError("save", v.ID, err)
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}

	s.logger.Info("view saved", "id", v.ID, "name", v.Name)
	return v, nil
}

// Get returns the view with the given ID or, failing that, name.
func (s *Store) Get(ctx context.Context, idOrName string) (View, error) {
	if err := ctx.Err(); err != nil {
		return View{}, fmt.Errorf("context cancelled: %w", err)
	}

	var found *View
	err := s.db.View(func(tx *bbolt.Tx) error {
		v, err := lookup(tx.Bucket([]byte(bucketViews)), idOrName)
		found = v
		return err
	})
	if err != nil {
		return View{}, err
	}
	if found == nil {
		return View{}, newNotFoundError("get", idOrName)
	}
	return *found, nil
}

// List returns every view sorted by name.
func (s *Store) List(ctx context.Context) ([]View, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var views []View
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketViews)).ForEach(func(k, data []byte) error {
			var v View
			if err := json.Unmarshal(data, &v); err != nil {
				return newInvalidDataError("list", string(k), err)
			}
			views = append(views, v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].Name < views[j].Name
	})
	return views, nil
}

// Delete removes the view with the given ID or name and returns it.
func (s *Store) Delete(ctx context.Context, idOrName string) (View, error) {
	if err := ctx.Err(); err != nil {
		return View{}, fmt.Errorf("context cancelled: %w", err)
	}

	var deleted *View
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketViews))
		v, err := lookup(b, idOrName)
		if err != nil {
			return err
		}
		if v == nil {
			return newNotFoundError("delete", idOrName)
		}
		if err := b.Delete([]byte(v.ID)); err != nil {
			return newDatabaseError("delete", v.ID, err)
		}
		deleted = v
		return nil
	})
	if err != nil {
		return View{}, err
	}

	s.logger.Info("view deleted", "id", deleted.ID, "name", deleted.Name)
	return *deleted, nil
}

// lookup resolves an ID first, then a name. It returns nil when neither
// matches.
func lookup(b *bbolt.Bucket, idOrName string) (*View, error) {
	if data := b.Get([]byte(idOrName)); data != nil {
		var v View
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, newInvalidDataError("get", idOrName, err)
		}
		return &v, nil
	}
	return findByName(b, idOrName)
}

func findByName(b *bbolt.Bucket, name string) (*View, error) {
	var found *View
	err := b.ForEach(func(k, data []byte) error {
		if found != nil {
			return nil
		}
		var v View
		if err := json.Unmarshal(data, &v); err != nil {
			return newInvalidDataError("find", string(k), err)
		}
		if v.Name == name {
			found = &v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
