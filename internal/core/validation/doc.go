// Package validation provides pure validation functions for food item requests.
//
// This package is part of the functional core. All functions are pure (no I/O,
// no side effects) and safe to call from any number of goroutines.
//
// # Functions
//
//   - ValidateCreate: Check every field of a create request
//   - ValidateUpdate: Check the fields a partial update supplies
//
// Each field has its own rule chain. Chains never stop early and the
// validators never stop at the first failing field, so a single call reports
// every violation, in the order name, description, price, category,
// dietaryTag.
//
// # Usage
//
// The catalog service validates before touching the store:
//
//	if err := validation.ValidateCreate(req).Err(); err != nil {
//	    return nil, err // *validation.Error, mapped to 400 by the API
//	}
package validation
