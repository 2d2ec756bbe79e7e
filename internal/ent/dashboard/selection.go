package dashboard

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Climate is a climate variable that colours the climate map.
type Climate string

const (
	Temperature   Climate = "Temperature"
	Precipitation Climate = "Precipitation"
)

// Selection is the state of the dashboard widgets.
type Selection struct {
	// Families are spider families shown on the scatter and climate maps.
	Families []string `validate:"dive,required"`

	// ShowSpecies shows the list of species of selected families.
	ShowSpecies bool

	// Climate is the climate variable of the climate map.
	Climate Climate `validate:"omitempty,oneof=Temperature Precipitation"`
}

// NewSelection returns the selection of the first page load.
func NewSelection(defaultFamily string) Selection {
	res := Selection{Climate: Temperature}
	if defaultFamily != "" {
		res.Families = []string{defaultFamily}
	}
	return res
}

// Validate checks the selection and sets the default climate variable.
func (s *Selection) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid selection: %w", err)
	}
	if s.Climate == "" {
		s.Climate = Temperature
	}
	return nil
}
