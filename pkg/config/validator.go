package config

import (
	"reflect"
)

// IConfigValidator - interface to be implemented for config validation
type IConfigValidator interface {
	ValidateCfg() error
}

// ValidateConfig - Validates the config
// Uses reflection to get the IConfigValidator interface on the config struct or
// struct variable and makes a call to its ValidateCfg method.
func ValidateConfig(cfg interface{}) error {
	if cfg == nil {
		return nil
	}

	if objInterface, ok := cfg.(IConfigValidator); ok {
		if err := objInterface.ValidateCfg(); err != nil {
			return err
		}
		return nil
	}

	// If the parameter is of struct pointer, use indirection to get the
	// real value object
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = reflect.Indirect(v)
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	return validateFields(v)
}

func validateFields(v reflect.Value) error {
	// Look for Validate method on struct properties and invoke it
	for i := 0; i < v.NumField(); i++ {
		if !v.Field(i).CanInterface() {
			continue
		}
		if objInterface, ok := v.Field(i).Interface().(IConfigValidator); ok {
			if err := ValidateConfig(objInterface); err != nil {
				return err
			}
		}
	}
	return nil
}
