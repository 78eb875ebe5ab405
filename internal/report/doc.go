// Package report assembles every analytics stage into one Analysis and
// exports it as flat CSV tables plus a structured JSON summary.
//
// Artifacts are named by stable file names so downstream dashboards and
// document renderers can read them without knowing how they were built.
// The RFM table is omitted when no order is attributed to a customer.
package report
