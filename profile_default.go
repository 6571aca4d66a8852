//go:build tinygo && !customprofile

package main

import "displaywriter/beamspring/matrix"

// firmwareProfile is replaced by a cmd/mkprofile output under the
// customprofile tag.
func firmwareProfile() matrix.Config { return matrix.Displaywriter() }
