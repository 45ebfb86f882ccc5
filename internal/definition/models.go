package definition

import (
	"errors"
	"fmt"

	"attrmap/internal/record"
)

// ErrNoModels is returned by Models for files without a models section.
var ErrNoModels = errors.New("definition declares no models")

// Models builds the in-memory record types declared by the file.
func (f *File) Models() (*record.Models, error) {
	if len(f.Models) == 0 {
		return nil, ErrNoModels
	}

	models := record.NewModels()

	var errs []error

	for _, def := range f.Models {
		_, err := models.Define(record.ModelDef{
			Name:          def.Name,
			Base:          def.Base,
			Discriminator: def.Discriminator,
			Columns:       def.Columns,
			Relations:     def.Relations,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("model %s: %w", def.Name, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := models.Validate(); err != nil {
		return nil, err
	}

	return models, nil
}
