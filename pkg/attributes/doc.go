// Package attributes normalizes an application descriptor and the host's
// override tree into a fully-defaulted Attributes value.
//
// Normalization never fails. Every field has a documented default (see the
// defaults package), unknown override keys are ignored, numeric-looking
// strings are coerced to numbers, and absent nested sections become empty
// maps so drivers can index them without guard checks.
package attributes
