// Package dataset models the daily tabular data the analytics pipeline
// moves around: COVID case counts and web-interaction metrics, keyed by
// calendar date.
//
// # File formats
//
// All files are UTF-8, comma-delimited CSV with a required header row and
// a "date" column in ISO-8601 form:
//
//	cases.csv                date, cases (integer)
//	web_metrics.csv          date, page_views, unique_visitors, search_queries,
//	                         covid_symptom_searches, appointment_requests
//	merged_data_raw.csv      inner join of the two schemas on date
//	cleaned_merged_data.csv  date, standardized features (6 decimals), cases
//
// # Conventions
//
// Dates are normalized to UTC midnight and are unique within a table;
// loaders reject duplicate dates with a SchemaError rather than letting
// them multiply through the join. Missing cells are NaN in memory and
// empty strings on disk. Joining is always an inner join: only dates
// present in both sources are analyzable, so rows on one side only are
// dropped by design.
//
// Standardization replaces a column x with (x - mean) / stddev, where
// stddev is the population form (divide by N). A column with zero
// variance cannot be standardized and fails with DegenerateColumnError
// instead of propagating NaN or Inf downstream.
package dataset
