//go:build tinygo && debugscan

package main

import "displaywriter/beamspring/report"

// Raw readings for threshold tuning; the host receiver plots them.
const reportMode = report.ModeDebug
