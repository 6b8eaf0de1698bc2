// Package export writes audit records to CSV or JSON for offline analysis
// and compliance reporting. Exporters render the stored summary fields only;
// the analyzed text itself is never part of a record and so never part of an
// export.
package export
