//go:build tinygo && !debugscan

package main

import "displaywriter/beamspring/report"

const reportMode = report.ModeEvents
