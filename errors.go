package conftool

import (
	"github.com/vengaer/conftool/cascade"
	"github.com/vengaer/conftool/catalog"
	"github.com/vengaer/conftool/validate"
)

// Sentinel errors callers of Tool commonly match with errors.Is.
var (
	// ErrInvalidOption indicates the option is not part of the catalog.
	ErrInvalidOption = cascade.ErrInvalidOption

	// ErrNotASwitch indicates enable or disable of a non-switch option.
	ErrNotASwitch = cascade.ErrNotASwitch

	// ErrInvalidValue indicates a value outside the option's domain.
	ErrInvalidValue = catalog.ErrInvalidValue

	// ErrInvalidCatalog indicates a malformed or inconsistent catalog.
	ErrInvalidCatalog = catalog.ErrInvalidCatalog

	// ErrInvalidConfig indicates a configuration that failed validation.
	ErrInvalidConfig = validate.ErrInvalidConfig
)

func unknownOption(name string) error {
	return &cascade.OptionError{Option: name, Err: ErrInvalidOption}
}
